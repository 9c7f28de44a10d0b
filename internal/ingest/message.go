// Package ingest decodes analyzer frames and routes them into the particle
// store and the device list.
package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Message types on the wire.
const (
	TypeDeviceList   = "device_list"
	TypeAudioData    = "audio_data"
	TypeSelectDevice = "select_device"
)

var (
	ErrMalformed   = errors.New("malformed message")
	ErrUnknownType = errors.New("unknown message type")
)

// Mode selects the inbound framing.
type Mode int

const (
	// ModeEnvelope expects {"type": ..., "payload": ...}.
	ModeEnvelope Mode = iota
	// ModeLegacy accepts bare feature objects, optionally written as Python
	// dict reprs with single quotes.
	ModeLegacy
)

func (m Mode) String() string {
	if m == ModeLegacy {
		return "legacy"
	}
	return "envelope"
}

// Device is one audio input exposed by the analyzer.
type Device struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// Features is one analysis frame.
type Features struct {
	IsBeat       bool    `json:"is_beat"`
	RhythmFactor float64 `json:"rhythm_factor"`
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Message is a decoded inbound frame. Exactly one of Devices or Features is
// meaningful, according to Type.
type Message struct {
	Type     string
	Devices  []Device
	Features Features
}

// Decode parses a frame. Errors wrap ErrMalformed or ErrUnknownType.
func Decode(frame []byte, mode Mode) (Message, error) {
	if mode == ModeLegacy {
		return decodeLegacy(frame)
	}
	return decodeEnvelope(frame)
}

func decodeEnvelope(frame []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	switch env.Type {
	case TypeDeviceList:
		var devices []Device
		if err := strictUnmarshal(env.Payload, &devices); err != nil {
			return Message{}, fmt.Errorf("%w: device_list payload: %v", ErrMalformed, err)
		}
		return Message{Type: TypeDeviceList, Devices: devices}, nil
	case TypeAudioData:
		f, err := decodeFeatures(env.Payload)
		if err != nil {
			return Message{}, fmt.Errorf("%w: audio_data payload: %v", ErrMalformed, err)
		}
		return Message{Type: TypeAudioData, Features: f}, nil
	case "":
		return Message{}, fmt.Errorf("%w: missing type", ErrMalformed)
	default:
		return Message{}, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}

func decodeLegacy(frame []byte) (Message, error) {
	trimmed := bytes.TrimSpace(frame)
	if !json.Valid(trimmed) {
		normalized, err := normalizePyRepr(string(trimmed))
		if err != nil {
			return Message{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		trimmed = []byte(normalized)
	}
	f, err := decodeFeatures(trimmed)
	if err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Message{Type: TypeAudioData, Features: f}, nil
}

// wireFeatures uses pointers so absent keys can be told apart from zero
// values.
type wireFeatures struct {
	IsBeat       *bool    `json:"is_beat"`
	RhythmFactor *float64 `json:"rhythm_factor"`
}

// decodeFeatures requires both is_beat and rhythm_factor.
func decodeFeatures(data []byte) (Features, error) {
	var w wireFeatures
	if err := strictUnmarshal(data, &w); err != nil {
		return Features{}, err
	}
	switch {
	case w.IsBeat == nil:
		return Features{}, errors.New("missing is_beat")
	case w.RhythmFactor == nil:
		return Features{}, errors.New("missing rhythm_factor")
	}
	return Features{IsBeat: *w.IsBeat, RhythmFactor: *w.RhythmFactor}, nil
}

// strictUnmarshal rejects null and non-object/array payloads that
// json.Unmarshal would silently accept as zero values.
func strictUnmarshal(data []byte, v interface{}) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return errors.New("empty payload")
	}
	return json.Unmarshal(data, v)
}

// EncodeSelectDevice builds the outbound device selection frame.
func EncodeSelectDevice(index int) ([]byte, error) {
	return json.Marshal(struct {
		Type    string `json:"type"`
		Payload struct {
			Index int `json:"index"`
		} `json:"payload"`
	}{
		Type: TypeSelectDevice,
		Payload: struct {
			Index int `json:"index"`
		}{Index: index},
	})
}

// normalizePyRepr turns a Python literal repr (single-quoted strings,
// True/False/None) into JSON. Quotes are tracked per string so apostrophes
// inside double-quoted strings and escaped quotes survive.
func normalizePyRepr(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '\'' || c == '"':
			n, err := copyString(&b, s[i:], c)
			if err != nil {
				return "", err
			}
			i += n
		case isIdentStart(c):
			j := i
			for j < len(s) && isIdentStart(s[j]) {
				j++
			}
			switch word := s[i:j]; word {
			case "True":
				b.WriteString("true")
			case "False":
				b.WriteString("false")
			case "None":
				b.WriteString("null")
			default:
				b.WriteString(word)
			}
			i = j
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), nil
}

// copyString writes the string literal at the start of s, delimited by
// quote, as a JSON string and returns the bytes consumed.
func copyString(b *strings.Builder, s string, quote byte) (int, error) {
	b.WriteByte('"')
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			next := s[i+1]
			if next == '\'' {
				b.WriteByte('\'')
			} else {
				b.WriteByte('\\')
				b.WriteByte(next)
			}
			i++
		case c == quote:
			b.WriteByte('"')
			return i + 1, nil
		case c == '"':
			b.WriteString(`\"`)
		default:
			b.WriteByte(c)
		}
	}
	return 0, errors.New("unterminated string")
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
