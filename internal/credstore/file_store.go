package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/avrentops/rentalctl/internal/domain"
)

const (
	tokensFile = "auth_tokens.json"
	userFile   = "user.json"
)

// FileStore keeps the two credential records as JSON files under a single
// directory, mirroring the two-key layout of the original browser storage.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("credstore: empty directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create credential dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Tokens() (*domain.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pair domain.TokenPair
	ok, err := s.read(tokensFile, &pair)
	if err != nil || !ok {
		return nil, err
	}
	return &pair, nil
}

func (s *FileStore) SetTokens(pair *domain.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pair == nil {
		return s.remove(tokensFile)
	}
	return s.write(tokensFile, pair)
}

func (s *FileStore) User() (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var user domain.User
	ok, err := s.read(userFile, &user)
	if err != nil || !ok {
		return nil, err
	}
	return &user, nil
}

func (s *FileStore) SetUser(user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user == nil {
		return s.remove(userFile)
	}
	return s.write(userFile, user)
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.remove(tokensFile); err != nil {
		return err
	}
	return s.remove(userFile)
}

func (s *FileStore) read(name string, out any) (bool, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", name, err)
	}
	return true, nil
}

// write goes through a temp file and rename so a concurrent reader never
// observes a half-written record.
func (s *FileStore) write(name string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) remove(name string) error {
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}
