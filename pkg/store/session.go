package store

import (
	"encoding/json"
	"sort"
	"time"
)

// Session represents one browser session's interaction state.
// Values are JSON encoded so the same session can live in memory or in Redis.
type Session struct {
	ID        string                     `json:"id"`
	Values    map[string]json.RawMessage `json:"values"`
	CreatedAt time.Time                  `json:"created_at"`
	UpdatedAt time.Time                  `json:"updated_at"`
}

func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Values:    make(map[string]json.RawMessage),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Raw returns the encoded value stored under key.
func (s *Session) Raw(key string) (json.RawMessage, bool) {
	if s == nil || s.Values == nil {
		return nil, false
	}
	v, ok := s.Values[key]
	return v, ok
}

// PutRaw stores a copy of the encoded value under key, replacing any previous one.
func (s *Session) PutRaw(key string, value json.RawMessage) {
	if s.Values == nil {
		s.Values = make(map[string]json.RawMessage)
	}
	cp := make(json.RawMessage, len(value))
	copy(cp, value)
	s.Values[key] = cp
}

// Keys returns the stored keys in lexical order.
func (s *Session) Keys() []string {
	keys := make([]string, 0, len(s.Values))
	for k := range s.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := &Session{
		ID:        s.ID,
		Values:    make(map[string]json.RawMessage, len(s.Values)),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	for k, v := range s.Values {
		cp.PutRaw(k, v)
	}
	return cp
}
