// Package game is the ebiten shell around the visualizer core: it owns the
// event loop, feeds analyzer frames into the particle store and paints the
// store every frame.
package game

import (
	"errors"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/pulse-visualization/internal/config"
	"github.com/iburimskiy/pulse-visualization/internal/conn"
	"github.com/iburimskiy/pulse-visualization/internal/cue"
	"github.com/iburimskiy/pulse-visualization/internal/ingest"
	"github.com/iburimskiy/pulse-visualization/internal/log"
	"github.com/iburimskiy/pulse-visualization/internal/loop"
	"github.com/iburimskiy/pulse-visualization/internal/particle"
	"github.com/iburimskiy/pulse-visualization/internal/render"
)

// Options configures a game.
type Options struct {
	URL          string
	Mode         ingest.Mode
	Settings     config.Settings
	SettingsPath string
	MaxRetries   int
	RetryDelay   time.Duration
	Click        bool
	Prompt       bool
	Log          *log.Logger
}

type game struct {
	log  *log.Logger
	loop *loop.Loop

	// simulation
	settings config.Settings
	store    *particle.Store
	ingest   *ingest.Ingestor
	conn     *conn.Manager

	// rendering
	frames  *frameQueue
	painter *render.Loop
	canvas  *canvasSurface
	width   int
	height  int

	// overlay
	rhythm      *rhythmTap
	colorPhase  float64
	status      conn.Status
	connectedAt time.Time
	notice      string

	// extras
	cue     *cue.Player
	prompt  *reconnectPrompt
	watcher *config.Watcher
	opts    Options

	closed bool
}

// New wires a game. Nothing touches the network until Start.
func New(opts Options) *game {
	if opts.Log == nil {
		opts.Log = log.Nop()
	}
	g := &game{
		log:      opts.Log.With("game"),
		loop:     loop.New(loop.DefaultQueueSize),
		settings: opts.Settings.Clamped(),
		frames:   &frameQueue{},
		width:    config.WindowWidth,
		height:   config.WindowHeight,
		rhythm:   newRhythmTap(config.RhythmRingSize),
		cue:      cue.NewPlayer(opts.Click),
		opts:     opts,
	}
	g.store = particle.NewStore(g.settings.MaxParticles, nil)
	g.ingest = ingest.New(g.store, opts.Mode, ingest.Hooks{
		OnFeatures: func(f ingest.Features) { g.rhythm.Record(f.RhythmFactor, f.IsBeat) },
		OnBeat:     func(particle.ID) { g.beat() },
	}, opts.Log.With("ingest"))
	g.conn = conn.NewManager(conn.Options{
		URL:        opts.URL,
		Clock:      g.loop,
		Post:       g.loop.Post,
		RetryDelay: opts.RetryDelay,
		MaxRetries: opts.MaxRetries,
		Log:        opts.Log.With("conn"),
		OnMessage:  g.handleFrame,
		OnStatus:   g.handleStatus,
	})
	g.status = g.conn.Status()
	g.painter = render.NewLoop(g.frames, g.surface, g.store.Snapshot, g.style)
	if opts.Prompt {
		g.prompt = newReconnectPrompt(g.loop.Post)
	}
	return g
}

// Start connects to the analyzer, starts the settings watcher and begins
// drawing.
func (g *game) Start() error {
	if g.opts.SettingsPath != "" {
		w, err := config.WatchSettings(g.opts.SettingsPath,
			func() { g.loop.Post(g.reloadSettings) },
			func(err error) { g.loop.Post(func() { g.log.Warnf("settings watcher: %v", err) }) },
		)
		if err != nil {
			return err
		}
		g.watcher = w
	}
	g.conn.Start()
	g.painter.Play()
	return nil
}

// handleFrame reads the live settings and surface size at delivery time.
func (g *game) handleFrame(frame []byte) {
	g.ingest.Handle(frame, ingest.Env{
		Settings: g.settings,
		Width:    float64(g.width),
		Height:   float64(g.height),
	})
}

func (g *game) handleStatus(s conn.Status) {
	g.status = s
	switch s.Phase {
	case conn.PhaseConnected:
		g.connectedAt = time.Now()
	case conn.PhaseRetryExhausted:
		if g.prompt != nil {
			g.prompt.Open(g.reconnect, func(err error) { g.log.Errorf("reconnect dialog: %v", err) })
		}
	}
}

func (g *game) beat() {
	if !g.cue.Enabled() {
		return
	}
	if err := g.cue.Beat(); err != nil {
		g.log.Warnf("beat cue disabled: %v", err)
		g.cue.SetEnabled(false)
	}
}

func (g *game) reconnect() {
	if g.conn.Reconnect() {
		g.setNotice("Reconnecting...")
	}
}

func (g *game) reloadSettings() {
	s, err := config.LoadSettings(g.opts.SettingsPath, g.settings)
	if err != nil {
		g.log.Warnf("reload settings: %v", err)
		return
	}
	g.log.Infof("settings reloaded: %s", s)
	g.applySettings(s)
}

func (g *game) applySettings(s config.Settings) {
	g.settings = s.Clamped()
	g.store.SetCapacity(g.settings.MaxParticles)
}

func (g *game) setNotice(msg string) {
	g.notice = msg
}

func (g *game) surface() render.Surface {
	if g.canvas == nil {
		return nil
	}
	return g.canvas
}

func (g *game) style() (bool, float64) {
	return g.settings.Gradient, config.StrokeWidth
}

func (g *game) Update() error {
	if g.closed {
		return ebiten.Termination
	}
	g.loop.Drain(config.MaxEventsPerUpdate)

	if err := g.handleInput(); err != nil {
		return err
	}
	g.colorPhase += config.ColorShiftSpeed
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.ensureCanvas()
	g.frames.Fire()

	screen.Fill(g.background())
	if g.canvas != nil {
		screen.DrawImage(g.canvas.img, nil)
	}
	g.drawMeter(screen)
	g.drawOverlay(screen)
}

// ensureCanvas replaces the canvas when the window size changed. Particle
// positions are left alone.
func (g *game) ensureCanvas() {
	if g.width <= 0 || g.height <= 0 {
		return
	}
	if g.canvas != nil {
		if w, h := g.canvas.Size(); w == g.width && h == g.height {
			return
		}
		g.canvas.Dispose()
	}
	g.canvas = newCanvasSurface(g.width, g.height)
}

func (g *game) background() color.Color {
	if g.settings.DarkMode {
		return color.RGBA{R: 17, G: 24, B: 39, A: 255}
	}
	return color.RGBA{R: 243, G: 244, B: 246, A: 255}
}

// Layout follows the window so resizing changes only the surface size.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// Close tears everything down, including the socket with its retry timer.
// The loop is closed before the watcher so a blocked Post cannot stall it.
// Safe to call more than once.
func (g *game) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	g.painter.Pause()
	g.conn.Close()
	g.loop.Close()
	var err error
	if g.watcher != nil {
		err = g.watcher.Close()
	}
	if g.canvas != nil {
		g.canvas.Dispose()
		g.canvas = nil
	}
	return err
}

// Run opens the window and blocks until it is closed.
func Run(g *game) error {
	defer g.Close()
	if err := g.Start(); err != nil {
		return err
	}
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
