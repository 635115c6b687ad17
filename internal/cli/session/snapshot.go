package session

import (
	"encoding/json"
	"fmt"
	"maps"
)

// Snapshot — сериализуемый снимок State. Имена ключей JSON — контракт
// формата хранения и не должны меняться.
type Snapshot struct {
	Token            string  `json:"token"`
	User             Profile `json:"user"`
	RememberCheckbox bool    `json:"rememberCheckbox"`
	// RememberPassword не используется; сохраняется ради совместимости формата.
	RememberPassword   string `json:"rememberPassword"`
	RememberedUsername string `json:"rememberedUsername"`
	RememberedPassword string `json:"rememberedPassword"`
}

// Encode сериализует снимок в JSON.
func (s Snapshot) Encode() ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode session snapshot: %w", err)
	}
	return b, nil
}

// DecodeSnapshot разбирает JSON-снимок. Отсутствующие ключи дают нулевые значения.
func DecodeSnapshot(b []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode session snapshot: %w", err)
	}
	if s.User == nil {
		s.User = Profile{}
	}
	return s, nil
}

func (s *State) snapshotLocked() Snapshot {
	return Snapshot{
		Token:              s.token,
		User:               maps.Clone(s.user),
		RememberCheckbox:   s.rememberCheckbox,
		RememberPassword:   s.rememberPassword,
		RememberedUsername: s.rememberedUsername,
		RememberedPassword: s.rememberedPassword,
	}
}

// Snapshot возвращает согласованный снимок всех полей.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Restore заменяет все поля значениями из снимка. OnChange не вызывается.
func (s *State) Restore(snap Snapshot) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = snap.Token
	s.user = cloneProfile(snap.User)
	s.rememberCheckbox = snap.RememberCheckbox
	s.rememberPassword = snap.RememberPassword
	s.rememberedUsername = snap.RememberedUsername
	s.rememberedPassword = snap.RememberedPassword
}
