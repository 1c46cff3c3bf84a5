// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package store persists circuit snapshots and pin traces as YAML files.
//
package store

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	bb "github.com/db47h/breadboard"
	"github.com/db47h/breadboard/trace"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a record does not exist.
//
var ErrNotFound = errors.New("record not found")

const ext = ".yaml"

// Record is a saved circuit with its recorded traces.
//
type Record struct {
	ID      string      `yaml:"id"`
	Name    string      `yaml:"name"`
	Created time.Time   `yaml:"created"`
	Updated time.Time   `yaml:"updated"`
	Circuit bb.Snapshot `yaml:"circuit"`
	Trace   trace.Data  `yaml:"trace,omitempty"`
}

// FileStore stores one record per file in a directory.
//
type FileStore struct {
	dir string
	now func() time.Time
}

// Open returns a store rooted at dir. The directory is created if needed.
//
func Open(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "open store")
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

// Dir returns the store directory.
//
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", errors.Wrapf(ErrNotFound, "invalid id %q", id)
	}
	return filepath.Join(s.dir, id+ext), nil
}

// Save stores a new circuit snapshot and returns its id.
//
func (s *FileStore) Save(name string, c bb.Snapshot) (string, error) {
	t := s.now().UTC()
	r := &Record{
		ID:      uuid.NewString(),
		Name:    name,
		Created: t,
		Updated: t,
		Circuit: c,
	}
	if err := s.write(r); err != nil {
		return "", err
	}
	return r.ID, nil
}

// Update replaces the circuit of an existing record.
//
func (s *FileStore) Update(id string, c bb.Snapshot) error {
	r, err := s.Load(id)
	if err != nil {
		return err
	}
	r.Circuit = c
	r.Updated = s.now().UTC()
	return s.write(r)
}

// SaveTrace attaches trace data to an existing record.
//
func (s *FileStore) SaveTrace(id string, d trace.Data) error {
	r, err := s.Load(id)
	if err != nil {
		return err
	}
	r.Trace = d
	r.Updated = s.now().UTC()
	return s.write(r)
}

// Load returns the record with the given id.
//
func (s *FileStore) Load(id string) (*Record, error) {
	p, err := s.path(id)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrNotFound, id)
		}
		return nil, errors.Wrap(err, "load "+id)
	}
	var r Record
	if err = yaml.Unmarshal(b, &r); err != nil {
		return nil, errors.Wrap(err, "decode "+id)
	}
	return &r, nil
}

// Delete removes a record.
//
func (s *FileStore) Delete(id string) error {
	p, err := s.path(id)
	if err != nil {
		return err
	}
	if err = os.Remove(p); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(ErrNotFound, id)
		}
		return errors.Wrap(err, "delete "+id)
	}
	return nil
}

// Summary describes a stored record.
//
type Summary struct {
	ID      string
	Name    string
	Updated time.Time
}

// List returns the stored records, most recently updated first.
//
func (s *FileStore) List() ([]Summary, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(err, "list")
	}
	var out []Summary
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ext) {
			continue
		}
		r, err := s.Load(strings.TrimSuffix(f.Name(), ext))
		if err != nil {
			if errors.Cause(err) == ErrNotFound {
				continue
			}
			return nil, err
		}
		out = append(out, Summary{ID: r.ID, Name: r.Name, Updated: r.Updated})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Updated.After(out[j].Updated) })
	return out, nil
}

func (s *FileStore) write(r *Record) error {
	p, err := s.path(r.ID)
	if err != nil {
		return err
	}
	b, err := yaml.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "encode "+r.ID)
	}
	tmp := p + ".tmp"
	if err = os.WriteFile(tmp, b, 0o644); err != nil {
		return errors.Wrap(err, "write "+r.ID)
	}
	return errors.Wrap(os.Rename(tmp, p), "write "+r.ID)
}
