package posehub

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/phanxgames/posepaint"
)

// Message types understood by the hub.
const (
	TypePoses = "poses"
	TypeMode  = "mode"
	TypePing  = "ping"
	TypePong  = "pong"
)

// Message is the JSON envelope exchanged with pose feeds.
type Message struct {
	Type      string           `json:"type"`
	Timestamp int64            `json:"timestamp,omitempty"`
	Poses     []posepaint.Pose `json:"poses,omitempty"`
	Mode      string           `json:"mode,omitempty"`
}

// ErrMissingType is returned for envelopes without a type.
var ErrMissingType = errors.New("missing message type")

// ParseMessage decodes one envelope.
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("parse message: %w", err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("parse message: %w", ErrMissingType)
	}
	return &msg, nil
}

// NewPosesMessage creates a pose frame envelope stamped with the current time.
func NewPosesMessage(poses []posepaint.Pose) *Message {
	return &Message{Type: TypePoses, Timestamp: time.Now().UnixMilli(), Poses: poses}
}

// NewModeMessage creates a mode switch envelope.
func NewModeMessage(mode posepaint.Mode) *Message {
	return &Message{Type: TypeMode, Timestamp: time.Now().UnixMilli(), Mode: mode.String()}
}

// Bytes encodes the envelope.
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}
