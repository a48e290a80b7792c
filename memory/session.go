package memory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Message is a minimal persisted view of a chat turn.
type Message struct {
	Role string `yaml:"role"`
	Text string `yaml:"text,omitempty"`
}

// Session is everything kept between runs.
type Session struct {
	Messages []Message `yaml:"messages,omitempty"`
	Items    []Item    `yaml:"items,omitempty"`
}

// LoadSession reads a session file. A missing file yields an empty session.
func LoadSession(path string) (*Session, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Session{}, nil
		}
		return nil, err
	}
	var s Session
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", path, err)
	}
	return &s, nil
}

// SaveSession writes s to path, replacing any previous file atomically.
func SaveSession(path string, s *Session) error {
	b, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".session-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
