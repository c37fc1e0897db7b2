// Package history keeps the recency list of searched cities in a plain text
// file, one name per line, most recent first.
package history

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const (
	DefaultMaxEntries = 30

	historyFileMode fs.FileMode = 0o644
)

type Store struct {
	path       string
	maxEntries int
	log        *zap.Logger

	mu sync.Mutex
}

func New(path string, maxEntries int, log *zap.Logger) *Store {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		path:       path,
		maxEntries: maxEntries,
		log:        log,
	}
}

// Ensure creates an empty history file when none exists yet.
func (s *Store) Ensure() error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_RDONLY, historyFileMode)
	if err != nil {
		return fmt.Errorf("create history file: %w", err)
	}
	return f.Close()
}

// Load returns the persisted list. A missing or unreadable file yields an
// empty list.
func (s *Store) Load() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

// Record moves city to the front of the list, drops older duplicates, caps
// the list and rewrites the whole file.
func (s *Store) Record(city string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cities := s.load()

	updated := make([]string, 0, len(cities)+1)
	updated = append(updated, city)
	for _, c := range cities {
		if c != city {
			updated = append(updated, c)
		}
	}
	if len(updated) > s.maxEntries {
		updated = updated[:s.maxEntries]
	}

	return s.save(updated)
}

func (s *Store) load() []string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("history unreadable", zap.String("path", s.path), zap.Error(err))
		}
		return []string{}
	}

	cities := []string{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			cities = append(cities, line)
		}
	}
	if err := scanner.Err(); err != nil {
		s.log.Warn("history partially read", zap.String("path", s.path), zap.Error(err))
	}

	return cities
}

func (s *Store) save(cities []string) error {
	var buf bytes.Buffer
	for _, c := range cities {
		buf.WriteString(c)
		buf.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Chmod(s.fileMode()); err != nil {
		tmp.Close()
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}

	return nil
}

// fileMode keeps the permissions of an existing history file.
func (s *Store) fileMode() fs.FileMode {
	if info, err := os.Stat(s.path); err == nil {
		return info.Mode().Perm()
	}
	return historyFileMode
}
