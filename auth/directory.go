package auth

import (
	"context"
	"fmt"
	"sync"
)

// Directory resolves user ids to display names. The session core calls it
// once per player per room and caches the result.
type Directory interface {
	Username(ctx context.Context, userID int64) (string, error)
}

// StaticDirectory is an in-memory directory. Unknown users resolve to a
// placeholder name rather than an error so a stale account record never
// blocks admission.
type StaticDirectory struct {
	mu    sync.RWMutex
	names map[int64]string
}

func NewStaticDirectory() *StaticDirectory {
	return &StaticDirectory{names: make(map[int64]string)}
}

// SetUsername registers or replaces a display name.
func (d *StaticDirectory) SetUsername(userID int64, name string) {
	d.mu.Lock()
	d.names[userID] = name
	d.mu.Unlock()
}

func (d *StaticDirectory) Username(ctx context.Context, userID int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	d.mu.RLock()
	name, ok := d.names[userID]
	d.mu.RUnlock()
	if !ok {
		return fmt.Sprintf("Player #%d", userID), nil
	}
	return name, nil
}
