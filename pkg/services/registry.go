package services

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ada-inc/ada-engine/pkg/apperrors"
	"github.com/ada-inc/ada-engine/pkg/chartspec"
	"github.com/ada-inc/ada-engine/pkg/dataset"
)

// QuestionRecord is one answered question in a dataset's history.
type QuestionRecord struct {
	Question  string         `json:"question"`
	Insight   string         `json:"insight"`
	ChartSpec chartspec.Spec `json:"chart_spec"`
	Timestamp time.Time      `json:"timestamp"`
}

// RegistryEntry bundles a loaded dataset with its profile, backing file and
// question history. The table and profile are immutable; only the history
// mutates, guarded by the entry's own lock.
type RegistryEntry struct {
	ID        string
	Path      string
	Table     *dataset.Table
	Profile   *dataset.Profile
	CreatedAt time.Time

	mu      sync.Mutex
	history []QuestionRecord
}

// History returns a copy of the entry's question records in arrival order.
func (e *RegistryEntry) History() []QuestionRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]QuestionRecord, len(e.history))
	copy(out, e.history)
	return out
}

func (e *RegistryEntry) appendHistory(rec QuestionRecord) {
	e.mu.Lock()
	e.history = append(e.history, rec)
	e.mu.Unlock()
}

// DatasetRegistry is the process-wide mapping from dataset identifiers to
// loaded datasets. Nothing survives a restart; the sweep bounds lifetime.
type DatasetRegistry interface {
	// Register stores a freshly loaded dataset and returns its new identifier.
	Register(path string, table *dataset.Table, profile *dataset.Profile) string

	// Get looks an entry up, failing with apperrors.ErrDatasetNotFound.
	Get(id string) (*RegistryEntry, error)

	// AppendHistory pushes a question record onto the entry's history.
	// History is append-only and unbounded; records are never removed
	// individually, only with the whole entry.
	AppendHistory(id string, rec QuestionRecord) error

	// Sweep evicts every entry older than maxAge, deleting backing files
	// best-effort, and returns the number of entries removed.
	Sweep(maxAge time.Duration) int
}

type datasetRegistry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
	logger  *zap.Logger

	now func() time.Time // injectable for tests
}

// NewDatasetRegistry creates an empty in-memory registry.
func NewDatasetRegistry(logger *zap.Logger) DatasetRegistry {
	return &datasetRegistry{
		entries: make(map[string]*RegistryEntry),
		logger:  logger.Named("registry"),
		now:     time.Now,
	}
}

func (r *datasetRegistry) Register(path string, table *dataset.Table, profile *dataset.Profile) string {
	entry := &RegistryEntry{
		ID:        uuid.NewString(),
		Path:      path,
		Table:     table,
		Profile:   profile,
		CreatedAt: r.now(),
	}

	r.mu.Lock()
	r.entries[entry.ID] = entry
	r.mu.Unlock()

	r.logger.Info("dataset registered",
		zap.String("dataset_id", entry.ID),
		zap.Int("rows", table.Rows()),
		zap.Int("cols", table.Cols()))

	return entry.ID
}

func (r *datasetRegistry) Get(id string) (*RegistryEntry, error) {
	r.mu.RLock()
	entry, ok := r.entries[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrDatasetNotFound, id)
	}
	return entry, nil
}

func (r *datasetRegistry) AppendHistory(id string, rec QuestionRecord) error {
	entry, err := r.Get(id)
	if err != nil {
		return err
	}
	entry.appendHistory(rec)
	return nil
}

func (r *datasetRegistry) Sweep(maxAge time.Duration) int {
	cutoff := r.now().Add(-maxAge)

	r.mu.Lock()
	var evicted []*RegistryEntry
	for id, entry := range r.entries {
		if entry.CreatedAt.Before(cutoff) {
			evicted = append(evicted, entry)
			delete(r.entries, id)
		}
	}
	r.mu.Unlock()

	for _, entry := range evicted {
		// Best-effort cleanup: a missing or locked file never fails the sweep.
		if err := os.Remove(entry.Path); err != nil {
			r.logger.Debug("could not delete swept dataset file",
				zap.String("dataset_id", entry.ID),
				zap.String("path", entry.Path),
				zap.Error(err))
		}
		r.logger.Info("dataset evicted",
			zap.String("dataset_id", entry.ID),
			zap.Duration("age", r.now().Sub(entry.CreatedAt)))
	}

	return len(evicted)
}

var _ DatasetRegistry = (*datasetRegistry)(nil)
