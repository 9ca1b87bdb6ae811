package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/agentstationhq/station/internal/domain"
	"go.uber.org/zap"
)

// registryFile is the persisted layout: the full record set, replaced
// wholesale on every mutation.
type registryFile struct {
	Agents []domain.Agent `json:"agents"`
}

// Registry is a file-backed agent store. A single mutex is held for the
// full read-modify-write cycle of every operation, so there is exactly
// one writer at a time. Agent counts are small; correctness over
// throughput.
type Registry struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger
}

// NewRegistry creates a registry persisting to path. The parent directory
// is created if missing; the file itself is created lazily on first write.
func NewRegistry(path string, logger *zap.Logger) (*Registry, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	return &Registry{path: path, logger: logger}, nil
}

// load reads the current record set. A missing or corrupt file is treated
// as "no agents yet" so that reads never fail the caller.
func (r *Registry) load() registryFile {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn("registry file unreadable, treating as empty",
				zap.String("path", r.path), zap.Error(err))
		}
		return registryFile{}
	}

	var f registryFile
	if err := json.Unmarshal(data, &f); err != nil {
		r.logger.Warn("registry file corrupt, treating as empty",
			zap.String("path", r.path), zap.Error(err))
		return registryFile{}
	}
	return f
}

// save writes the full state to a temporary file and atomically renames
// it over the durable path. A crash between write and rename leaves the
// prior state intact.
func (r *Registry) save(f registryFile) error {
	if f.Agents == nil {
		f.Agents = []domain.Agent{}
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write registry temp file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace registry file: %w", err)
	}
	return nil
}

// List returns a snapshot of all records.
func (r *Registry) List(ctx context.Context) ([]domain.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f := r.load()
	agents := make([]domain.Agent, len(f.Agents))
	copy(agents, f.Agents)
	return agents, nil
}

// Get looks up a record by id.
func (r *Registry) Get(ctx context.Context, id string) (*domain.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f := r.load()
	for i := range f.Agents {
		if f.Agents[i].ID == id {
			a := f.Agents[i]
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

// Upsert inserts a new record or replaces the record with matching id.
// Re-registration replaces name/endpoint only: the stored status and
// last_seen_at survive, since only explicit status updates touch them.
// The passed agent is updated to reflect the stored record.
func (r *Registry) Upsert(ctx context.Context, a *domain.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f := r.load()
	replaced := false
	for i := range f.Agents {
		if f.Agents[i].ID == a.ID {
			a.Status = f.Agents[i].Status
			a.LastSeenAt = f.Agents[i].LastSeenAt
			f.Agents[i] = *a
			replaced = true
			break
		}
	}
	if !replaced {
		f.Agents = append(f.Agents, *a)
	}
	return r.save(f)
}

// SetStatus updates the record's status and last_seen_at. An absent id is
// a no-op, not an error. A stored status equal to status is also a no-op
// even when the timestamp differs: this dedup is what keeps repeated
// probe results from flooding subscribers with redundant events.
func (r *Registry) SetStatus(ctx context.Context, id string, status domain.AgentStatus, observedAt *time.Time) (*domain.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f := r.load()
	for i := range f.Agents {
		if f.Agents[i].ID != id {
			continue
		}
		if f.Agents[i].Status == status {
			return nil, nil
		}
		f.Agents[i].Status = status
		f.Agents[i].LastSeenAt = observedAt
		if err := r.save(f); err != nil {
			return nil, err
		}
		a := f.Agents[i]
		return &a, nil
	}
	return nil, nil
}
