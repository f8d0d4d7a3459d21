package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	ErrLayoutNotFound = errors.New("board layout not found")
	ErrInvalidLayout  = errors.New("invalid board layout")
)

// Manager loads board layouts from a directory of JSON files and caches them.
// When no directory is configured, only the built-in classic board is served.
type Manager struct {
	dir       string
	defName   string
	mu        sync.RWMutex
	layouts   map[string]*Layout
	defLayout *Layout
}

// NewManager creates a manager serving layouts from dir. An empty dir is
// valid and restricts the manager to the built-in classic board. defName
// selects the default layout; empty means classic.
func NewManager(dir, defName string) (*Manager, error) {
	if dir != "" {
		if _, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("board directory: %w", err)
		}
	}

	m := &Manager{
		dir:     dir,
		defName: defName,
		layouts: map[string]*Layout{"classic": ClassicLayout()},
	}

	if defName == "" || defName == "classic" {
		m.defLayout = m.layouts["classic"]
		return m, nil
	}

	def, err := m.Load(defName)
	if err != nil {
		return nil, fmt.Errorf("default board %q: %w", defName, err)
	}
	m.defLayout = def
	return m, nil
}

// Load returns the named layout, reading and validating it from disk on
// first use.
func (m *Manager) Load(name string) (*Layout, error) {
	m.mu.RLock()
	if layout, ok := m.layouts[name]; ok {
		m.mu.RUnlock()
		return layout, nil
	}
	m.mu.RUnlock()

	if m.dir == "" {
		return nil, ErrLayoutNotFound
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename += ".json"
	}

	data, err := os.ReadFile(filepath.Join(m.dir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrLayoutNotFound
		}
		return nil, fmt.Errorf("failed to read board file: %w", err)
	}

	var layout Layout
	if err := json.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	if layout.Name == "" {
		layout.Name = name
	}

	m.mu.Lock()
	m.layouts[name] = &layout
	m.mu.Unlock()

	return &layout, nil
}

// Default returns the configured default layout.
func (m *Manager) Default() *Layout {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defLayout
}

// BoardLayout fetches the layout new rooms are initialized with. It satisfies
// the session coordinator's board source contract; the result is an immutable
// snapshot shared across rooms.
func (m *Manager) BoardLayout(ctx context.Context) (*Layout, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.Default(), nil
}

// List returns the names of all available layouts: the built-ins, anything
// already cached, and every .json file in the board directory.
func (m *Manager) List() ([]string, error) {
	seen := map[string]bool{}
	var names []string

	m.mu.RLock()
	for name := range m.layouts {
		seen[name] = true
		names = append(names, name)
	}
	m.mu.RUnlock()

	if m.dir != "" {
		entries, err := os.ReadDir(m.dir)
		if err != nil {
			return nil, fmt.Errorf("failed to read board directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			name := strings.TrimSuffix(entry.Name(), ".json")
			if !seen[name] {
				names = append(names, name)
			}
		}
	}

	return names, nil
}
