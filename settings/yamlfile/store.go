// Package yamlfile implements a settings.Store persisted to a YAML file. It is used by hosts that simulate a
// module; the firmware persists to flash instead.
package yamlfile

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/calvinmclean/splitflap/settings"
)

type document struct {
	Namespace string            `yaml:"namespace"`
	Ints      map[string]int32  `yaml:"ints,omitempty"`
	Strings   map[string]string `yaml:"strings,omitempty"`
}

// Store keeps all values in memory and rewrites the file on every change
type Store struct {
	path string
	mtx  sync.Mutex
	doc  document
}

var _ settings.Store = &Store{}

// Open loads path. A missing file is an empty store and is created on the first write.
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		doc: document{
			Namespace: settings.Namespace,
			Ints:      map[string]int32{},
			Strings:   map[string]string{},
		},
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "error reading settings file %q", path)
	}

	err = yaml.Unmarshal(data, &s.doc)
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing settings file %q", path)
	}
	if s.doc.Namespace != settings.Namespace {
		return nil, errors.Errorf("settings file %q has namespace %q, expected %q", path, s.doc.Namespace, settings.Namespace)
	}
	if s.doc.Ints == nil {
		s.doc.Ints = map[string]int32{}
	}
	if s.doc.Strings == nil {
		s.doc.Strings = map[string]string{}
	}

	return s, nil
}

func (s *Store) GetInt(key string, def int32) (int32, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.doc.Strings[key]; ok {
		return def, settings.ErrWrongType
	}
	if v, ok := s.doc.Ints[key]; ok {
		return v, nil
	}

	s.doc.Ints[key] = def
	return def, s.save()
}

func (s *Store) PutInt(key string, value int32) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	delete(s.doc.Strings, key)
	s.doc.Ints[key] = value
	return s.save()
}

func (s *Store) GetString(key, def string) (string, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.doc.Ints[key]; ok {
		return def, settings.ErrWrongType
	}
	if v, ok := s.doc.Strings[key]; ok {
		return v, nil
	}

	s.doc.Strings[key] = def
	return def, s.save()
}

func (s *Store) PutString(key, value string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	delete(s.doc.Ints, key)
	s.doc.Strings[key] = value
	return s.save()
}

// save writes to a temporary file and renames it over the old one. Must be called with mtx held.
func (s *Store) save() error {
	data, err := yaml.Marshal(s.doc)
	if err != nil {
		return errors.Wrap(err, "error encoding settings")
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "error creating temporary settings file")
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(data)
	if err != nil {
		tmp.Close()
		return errors.Wrap(err, "error writing settings")
	}
	err = tmp.Close()
	if err != nil {
		return errors.Wrap(err, "error closing settings")
	}

	return errors.Wrapf(os.Rename(tmp.Name(), s.path), "error replacing settings file %q", s.path)
}
