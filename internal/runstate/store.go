package runstate

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var (
	// ErrCorruptState marks a state file that exists but cannot be
	// parsed. Callers must be able to tell this apart from "no state".
	ErrCorruptState = errors.New("runstate: corrupted or invalid state")

	// ErrResumeNotFound marks an explicitly requested resume file that
	// does not exist.
	ErrResumeNotFound = errors.New("runstate: resume file not found")
)

var keySanitizer = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

// Store keeps run states as JSON files under a single directory. Keys
// map one-to-one to filenames. Concurrent access to distinct keys is
// safe; concurrent writes to the same key are out of scope.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("runstate: empty runs dir")
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	if s == nil {
		return ""
	}
	return s.dir
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, sanitizeKey(key)+".json")
}

// Save writes the state atomically. Permission and disk errors
// propagate to the caller; nothing is swallowed here.
func (s *Store) Save(state *State) error {
	if s == nil {
		return errors.New("runstate: nil store")
	}
	if state == nil {
		return errors.New("runstate: nil state")
	}
	key := strings.TrimSpace(state.RunKey)
	if key == "" {
		return errors.New("runstate: state missing run_key")
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("runstate: create runs dir: %w", err)
	}

	state.Touch()
	b, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("runstate: encode state: %w", err)
	}

	final := s.path(key)
	tmp, err := os.CreateTemp(s.dir, ".state-*.tmp")
	if err != nil {
		return fmt.Errorf("runstate: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("runstate: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("runstate: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, final); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("runstate: rename temp file: %w", err)
	}
	return nil
}

// Load returns the state for a key, or nil when no record exists. A
// record that exists but fails to parse returns ErrCorruptState.
func (s *Store) Load(key string) (*State, error) {
	if s == nil {
		return nil, errors.New("runstate: nil store")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.New("runstate: empty key")
	}

	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("runstate: read state %q: %w", key, err)
	}
	return decodeState(b, s.path(key))
}

// LoadStateFile loads an explicit resume file path, distinguishing a
// missing file (ErrResumeNotFound) from corrupted contents
// (ErrCorruptState).
func LoadStateFile(path string) (*State, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("runstate: empty resume file path")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrResumeNotFound, path)
		}
		return nil, fmt.Errorf("runstate: read resume file %q: %w", path, err)
	}
	return decodeState(b, path)
}

func decodeState(b []byte, path string) (*State, error) {
	var st State
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptState, path, err)
	}
	if strings.TrimSpace(st.RunKey) == "" && st.DimensionScores == nil {
		return nil, fmt.Errorf("%w: %s: missing run_key and dimension_scores", ErrCorruptState, path)
	}
	return &st, nil
}

// GenerateKey derives a run key. With an explicit run id the key is
// deterministic (resume targets must be reproducible); otherwise each
// call yields a fresh unique key.
func GenerateKey(modelName, runID string) (string, error) {
	model := sanitizeKey(modelName)
	if model == "" {
		return "", errors.New("runstate: empty model name")
	}

	if id := sanitizeKey(runID); id != "" {
		return model + "_" + id, nil
	}

	var buf [6]byte
	if _, err := io.ReadFull(rand.Reader, buf[:]); err != nil {
		return "", fmt.Errorf("runstate: generate run key: %w", err)
	}
	return fmt.Sprintf("%s_%s_%x", model, time.Now().UTC().Format("20060102T150405Z"), buf), nil
}

// DetectDuplicate reports whether any persisted run matches the same
// model and scenario. Best effort: unreadable or corrupt entries are
// skipped, and the result is only ever used for a warning.
func (s *Store) DetectDuplicate(modelName, scenarioID string) bool {
	if s == nil {
		return false
	}
	modelName = strings.TrimSpace(modelName)
	scenarioID = strings.TrimSpace(scenarioID)
	if modelName == "" || scenarioID == "" {
		return false
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		var st State
		if json.Unmarshal(b, &st) != nil {
			continue
		}
		if st.ModelName == modelName && st.ScenarioID == scenarioID {
			return true
		}
	}
	return false
}

// List returns all parseable run states, skipping corrupt entries.
func (s *Store) List() ([]*State, error) {
	if s == nil {
		return nil, errors.New("runstate: nil store")
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("runstate: read runs dir: %w", err)
	}

	var out []*State
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		var st State
		if json.Unmarshal(b, &st) != nil {
			continue
		}
		out = append(out, &st)
	}
	return out, nil
}

func sanitizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	return keySanitizer.ReplaceAllString(key, "-")
}
