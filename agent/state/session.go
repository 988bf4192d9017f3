package state

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// SessionState is the conversational context of one chat session: a small set
// of named slots carried across turns.
//   - model_number: set by every set-model turn, never cleared.
//   - part_description: set after a describe-part turn finds a part.
type SessionState struct {
	SessionID string            `json:"session_id"`
	Slots     map[string]string `json:"slots,omitempty"`
	Turns     int               `json:"turns"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type Phase string

const (
	PhaseNoModelSelected Phase = "no_model_selected"
	PhaseModelSelected   Phase = "model_selected"
)

// Slot keys.
const (
	SlotModelNumber     = "model_number"
	SlotPartDescription = "part_description"
)

var (
	ErrStateNotFound   = errors.New("session state not found")
	ErrNilSessionState = errors.New("session state is nil")
	ErrInvalidSession  = errors.New("session id is empty")
	ErrEmptySlotKey    = errors.New("slot key is empty")
)

func NewSessionState(sessionID string, now time.Time) *SessionState {
	return &SessionState{
		SessionID: sessionID,
		Slots:     make(map[string]string, 2),
		UpdatedAt: now.UTC(),
	}
}

func (s *SessionState) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// EnsureSlots makes sure s.Slots is initialized.
func (s *SessionState) EnsureSlots() {
	if s.Slots == nil {
		s.Slots = make(map[string]string, 2)
	}
}

// Slot returns a slot value and whether it has been set. An unset slot and a
// slot set to "" are different.
func (s *SessionState) Slot(key string) (string, bool) {
	if s == nil || s.Slots == nil {
		return "", false
	}
	v, ok := s.Slots[key]
	return v, ok
}

// SlotOr returns the slot value, or def when unset.
func (s *SessionState) SlotOr(key string, def string) string {
	if v, ok := s.Slot(key); ok {
		return v
	}
	return def
}

// SetSlot overwrites a slot.
func (s *SessionState) SetSlot(key string, val string) error {
	if s == nil {
		return ErrNilSessionState
	}
	if strings.TrimSpace(key) == "" {
		return ErrEmptySlotKey
	}
	s.EnsureSlots()
	s.Slots[key] = val
	return nil
}

// Phase reports whether a model number has been selected. There is no
// transition back to PhaseNoModelSelected; a new selection overwrites.
func (s *SessionState) Phase() Phase {
	if _, ok := s.Slot(SlotModelNumber); ok {
		return PhaseModelSelected
	}
	return PhaseNoModelSelected
}

func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Slots = make(map[string]string, len(s.Slots))
	for k, v := range s.Slots {
		cp.Slots[k] = v
	}
	return &cp
}

func (s *SessionState) Validate() error {
	if s == nil {
		return ErrNilSessionState
	}
	if strings.TrimSpace(s.SessionID) == "" {
		return ErrInvalidSession
	}
	for k := range s.Slots {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("%w: session=%s", ErrEmptySlotKey, s.SessionID)
		}
	}
	if s.Turns < 0 {
		return fmt.Errorf("negative turn count %d for session=%s", s.Turns, s.SessionID)
	}
	return nil
}
