// Package devdrive tracks developer drives requested during a setup flow.
package devdrive

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
)

type (
	// Drive is a dev drive request. Ephemeral drives exist only for the
	// lifetime of a flow and are discarded when it ends.
	Drive struct {
		ID        uuid.UUID
		Label     string
		SizeGB    int
		Ephemeral bool
	}

	// Manager holds the drives known to the current session.
	Manager struct {
		mu     sync.Mutex
		drives []Drive
		logger *slog.Logger
	}
)

const MinSizeGB = 50

var ErrInvalidDrive = errors.New("invalid dev drive")

func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{logger: logger}
}

// Add registers a drive and returns it with a fresh id.
func (m *Manager) Add(label string, sizeGB int, ephemeral bool) (Drive, error) {
	if label == "" {
		return Drive{}, fmt.Errorf("%w: empty label", ErrInvalidDrive)
	}
	if sizeGB < MinSizeGB {
		return Drive{}, fmt.Errorf("%w: %d GB is below the %d GB minimum",
			ErrInvalidDrive, sizeGB, MinSizeGB)
	}
	d := Drive{ID: uuid.New(), Label: label, SizeGB: sizeGB, Ephemeral: ephemeral}
	m.mu.Lock()
	m.drives = append(m.drives, d)
	m.mu.Unlock()
	return d, nil
}

func (m *Manager) Drives() []Drive {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.drives)
}

// RemoveAllEphemeralResources drops every ephemeral drive, keeping the
// ones already committed to disk.
func (m *Manager) RemoveAllEphemeralResources() {
	m.mu.Lock()
	before := len(m.drives)
	m.drives = slices.DeleteFunc(m.drives, func(d Drive) bool { return d.Ephemeral })
	removed := before - len(m.drives)
	m.mu.Unlock()
	if removed > 0 {
		m.logger.Debug("Removed ephemeral dev drives", slog.Int("count", removed))
	}
}

// Commit marks the drive with id as permanent.
func (m *Manager) Commit(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.drives {
		if m.drives[i].ID == id {
			m.drives[i].Ephemeral = false
			return true
		}
	}
	return false
}
