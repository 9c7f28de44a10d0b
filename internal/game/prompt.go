package game

import (
	"errors"
	"sync/atomic"

	"github.com/ncruces/zenity"
)

// reconnectPrompt asks the user whether to reconnect once automatic retries
// are exhausted. At most one dialog is open at a time; the answer is posted
// back to the owning loop.
type reconnectPrompt struct {
	busy atomic.Bool
	ask  func() error
	post func(func()) bool
}

func newReconnectPrompt(post func(func()) bool) *reconnectPrompt {
	return &reconnectPrompt{ask: askReconnect, post: post}
}

// Open shows the dialog unless one is already up. onAccept runs on the loop
// when the user confirms; onError runs on the loop for dialog failures other
// than a cancel.
func (p *reconnectPrompt) Open(onAccept func(), onError func(error)) bool {
	if !p.busy.CompareAndSwap(false, true) {
		return false
	}
	go func() {
		defer p.busy.Store(false)
		err := p.ask()
		switch {
		case err == nil:
			p.post(onAccept)
		case errors.Is(err, zenity.ErrCanceled):
		default:
			p.post(func() { onError(err) })
		}
	}()
	return true
}

func askReconnect() error {
	return zenity.Question(
		"Lost the connection to the audio analyzer after repeated retries.\nReconnect now?",
		zenity.Title("Pulse Visualizer"),
		zenity.OKLabel("Reconnect"),
		zenity.CancelLabel("Later"),
		zenity.WarningIcon,
	)
}
