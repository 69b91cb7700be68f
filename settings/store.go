// Package settings persists the calibration values of a flap module across power cycles
package settings

import (
	"errors"
	"sync"
)

// Namespace is the store namespace used by flap modules
const Namespace = "flapmod"

const (
	KeyZeroOffset = "zero_offset"
	KeyStepOffset = "step_offset"
	KeyReserved   = "reserved"
)

// ErrWrongType is returned when a key holds a value of another type
var ErrWrongType = errors.New("stored value has a different type")

// Store is a small key/value store. Reading a missing key returns the default and persists it.
type Store interface {
	GetInt(key string, def int32) (int32, error)
	PutInt(key string, value int32) error
	GetString(key, def string) (string, error)
	PutString(key, value string) error
}

// MemoryStore is a Store that lives in memory. When created with NewPersistedMemoryStore every change is
// encoded and handed to a save func.
type MemoryStore struct {
	mtx     sync.Mutex
	ints    map[string]int32
	strings map[string]string

	save func([]byte) error
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ints:    map[string]int32{},
		strings: map[string]string{},
	}
}

func (s *MemoryStore) GetInt(key string, def int32) (int32, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.strings[key]; ok {
		return def, ErrWrongType
	}
	v, ok := s.ints[key]
	if !ok {
		s.ints[key] = def
		return def, s.changed()
	}
	return v, nil
}

func (s *MemoryStore) PutInt(key string, value int32) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	delete(s.strings, key)
	s.ints[key] = value
	return s.changed()
}

func (s *MemoryStore) GetString(key, def string) (string, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.ints[key]; ok {
		return def, ErrWrongType
	}
	v, ok := s.strings[key]
	if !ok {
		s.strings[key] = def
		return def, s.changed()
	}
	return v, nil
}

func (s *MemoryStore) PutString(key, value string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	delete(s.ints, key)
	s.strings[key] = value
	return s.changed()
}

// changed must be called with the lock held
func (s *MemoryStore) changed() error {
	if s.save == nil {
		return nil
	}
	return s.save(s.encode())
}

// Snapshot returns copies of the stored values
func (s *MemoryStore) Snapshot() (map[string]int32, map[string]string) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	ints := make(map[string]int32, len(s.ints))
	for k, v := range s.ints {
		ints[k] = v
	}
	strs := make(map[string]string, len(s.strings))
	for k, v := range s.strings {
		strs[k] = v
	}
	return ints, strs
}
