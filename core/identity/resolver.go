package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"classifier-pipeline/core/models"
	"classifier-pipeline/storage"
)

// TimestampFormat is second-granularity and sorts lexicographically, so
// job ids order the same way their creation times do.
const TimestampFormat = "20060102_150405"

// Resolver assigns job identities and derives storage paths from them.
// The identity is the only durable piece: paths are always recomputed.
type Resolver struct {
	store storage.StateStore
	now   func() time.Time
}

// NewResolver creates a resolver backed by the given state store
func NewResolver(store storage.StateStore) *Resolver {
	return &Resolver{store: store, now: time.Now}
}

// NewResolverWithClock creates a resolver with an injected clock for tests
func NewResolverWithClock(store storage.StateStore, now func() time.Time) *Resolver {
	return &Resolver{store: store, now: now}
}

// CreateJobID generates a fresh job identity and persists it as the
// current job. Destructive: any previously stored identity is overwritten,
// which is how the pre stage begins a new training cycle.
func (r *Resolver) CreateJobID(baseName string) (models.JobIdentity, error) {
	ts := r.now().Format(TimestampFormat)
	id := models.JobIdentity{
		Name:      baseName,
		Timestamp: ts,
		ID:        baseName + "_" + ts,
	}
	if err := r.store.Write(storage.KeyJobID, id.ID); err != nil {
		return models.JobIdentity{}, fmt.Errorf("failed to persist job id: %w", err)
	}
	return id, nil
}

// CurrentJobID reads the persisted job identity
func (r *Resolver) CurrentJobID() (models.JobIdentity, error) {
	value, err := r.store.Read(storage.KeyJobID)
	if err != nil {
		var missing *models.MissingStateError
		if errors.As(err, &missing) {
			return models.JobIdentity{}, &models.MissingStateError{Key: storage.KeyJobID, Hint: "pre"}
		}
		return models.JobIdentity{}, err
	}
	return parseJobID(value), nil
}

// parseJobID splits a stored id back into name and timestamp. The
// timestamp is the part after the last two underscores (date_time).
func parseJobID(id string) models.JobIdentity {
	parts := strings.Split(id, "_")
	identity := models.JobIdentity{ID: id}
	if len(parts) >= 3 {
		identity.Name = strings.Join(parts[:len(parts)-2], "_")
		identity.Timestamp = strings.Join(parts[len(parts)-2:], "_")
	} else {
		identity.Name = id
	}
	return identity
}

// ResolvePaths derives the storage locations for a job. Pure and
// deterministic: the same identity and bucket root always yield
// byte-identical paths.
func ResolvePaths(id models.JobIdentity, bucketRoot string) models.StoragePaths {
	base := strings.TrimRight(bucketRoot, "/") + "/jobs/" + id.ID
	return models.StoragePaths{
		Base:              base,
		PreprocessedTrain: base + "/preproc/train",
		PreprocessedEval:  base + "/preproc/eval",
		TrainingOutput:    base + "/training",
	}
}
