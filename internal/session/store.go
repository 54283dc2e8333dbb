package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmdesk/internal/domain/models"
)

// StateFileName is the fixed name of the client state file inside the state
// directory.
const StateFileName = "state.json"

// State is everything the client persists locally: the session (token plus
// cached profile) and the theme flag. Nothing else ever lands on disk.
type State struct {
	Session *models.Session `json:"session,omitempty"`
	Theme   string          `json:"theme,omitempty"`
}

// Store guards the persisted client state. Writes go through an atomic
// rename; a filesystem watcher picks up changes made by other farmdesk
// processes so login, logout and theme switches propagate between them.
type Store struct {
	mu    sync.RWMutex
	path  string
	state State
	raw   []byte // last serialized form, used to ignore self-inflicted events

	watcher *fsnotify.Watcher
	subs    []chan struct{}
	logger  *zap.Logger

	closeOnce sync.Once
	closed    chan struct{}
}

// Open loads (or initializes) the state file under dir and starts watching
// it for external changes.
func Open(dir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	s := &Store{
		path:   filepath.Join(dir, StateFileName),
		logger: logger,
		closed: make(chan struct{}),
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("start state watcher: %w", err)
	}
	// Watch the directory, not the file: atomic renames replace the inode.
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch state dir: %w", err)
	}
	s.watcher = watcher
	go s.watch()

	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read state file: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		// A corrupt state file should not brick the client; start clean.
		s.logger.Warn("discarding unreadable state file", zap.Error(err))
		return nil
	}

	s.mu.Lock()
	s.state = state
	s.raw = data
	s.mu.Unlock()
	return nil
}

func (s *Store) watch() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != StateFileName {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			s.reload()
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("state watcher error", zap.Error(err))
		case <-s.closed:
			return
		}
	}
}

func (s *Store) reload() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return
		}
		s.logger.Warn("re-reading state file failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	if bytes.Equal(data, s.raw) {
		s.mu.Unlock()
		return
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		s.mu.Unlock()
		s.logger.Warn("ignoring unreadable state update", zap.Error(err))
		return
	}
	s.state = state
	s.raw = data
	s.mu.Unlock()

	s.logger.Info("state file changed externally")
	s.notify()
}

func (s *Store) save() error {
	s.mu.Lock()
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("encode state: %w", err)
	}
	s.raw = data
	s.mu.Unlock()

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

func (s *Store) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state := s.state
	if state.Session != nil {
		copied := *state.Session
		state.Session = &copied
	}
	return state
}

// Session returns the current session, if any.
func (s *Store) Session() (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.Session == nil || !s.state.Session.Valid() {
		return models.Session{}, false
	}
	return *s.state.Session, true
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.Session == nil {
		return ""
	}
	return s.state.Session.Token
}

// SetSession persists a fresh session after login or signup.
func (s *Store) SetSession(session models.Session) error {
	s.mu.Lock()
	s.state.Session = &session
	s.mu.Unlock()
	if err := s.save(); err != nil {
		return err
	}
	s.notify()
	return nil
}

// Clear drops the session (logout or 401) while keeping the theme flag.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.state.Session = nil
	s.mu.Unlock()
	if err := s.save(); err != nil {
		return err
	}
	s.notify()
	return nil
}

// Theme returns the persisted theme flag ("dark" or "light"; empty means
// the default).
func (s *Store) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Theme
}

// SetTheme persists the theme preference.
func (s *Store) SetTheme(theme string) error {
	s.mu.Lock()
	s.state.Theme = theme
	s.mu.Unlock()
	if err := s.save(); err != nil {
		return err
	}
	s.notify()
	return nil
}

// Subscribe returns a channel signalled whenever the state changes, whether
// from this process or an external one. Reads are coalesced; consumers call
// Snapshot for the current value.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

// Close stops the watcher.
func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closed)
		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}
