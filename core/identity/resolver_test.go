package identity

import (
	"errors"
	"testing"
	"time"

	"classifier-pipeline/core/models"
	"classifier-pipeline/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCreateJobID(t *testing.T) {
	store := storage.NewMemoryStore()
	at := time.Date(2024, 3, 5, 14, 30, 45, 0, time.UTC)
	resolver := NewResolverWithClock(store, fixedClock(at))

	id, err := resolver.CreateJobID("article_classifier")
	require.NoError(t, err)

	assert.Equal(t, "article_classifier", id.Name)
	assert.Equal(t, "20240305_143045", id.Timestamp)
	assert.Equal(t, "article_classifier_20240305_143045", id.ID)
}

func TestCreateJobIDDistinctTimestamps(t *testing.T) {
	store := storage.NewMemoryStore()
	first := time.Date(2024, 3, 5, 14, 30, 45, 0, time.UTC)

	resolver := NewResolverWithClock(store, fixedClock(first))
	a, err := resolver.CreateJobID("article_classifier")
	require.NoError(t, err)

	resolver = NewResolverWithClock(store, fixedClock(first.Add(time.Second)))
	b, err := resolver.CreateJobID("article_classifier")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	// Second-granularity timestamps sort the same way creation times do.
	assert.Less(t, a.ID, b.ID)
}

func TestCurrentJobIDBeforeCreate(t *testing.T) {
	resolver := NewResolver(storage.NewMemoryStore())

	_, err := resolver.CurrentJobID()
	var missing *models.MissingStateError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, storage.KeyJobID, missing.Key)
	assert.Equal(t, "pre", missing.Hint)
}

func TestCurrentJobIDRoundTrip(t *testing.T) {
	store := storage.NewMemoryStore()
	at := time.Date(2024, 3, 5, 14, 30, 45, 0, time.UTC)
	resolver := NewResolverWithClock(store, fixedClock(at))

	created, err := resolver.CreateJobID("article_classifier")
	require.NoError(t, err)

	// A later invocation reconstructs the identity from the durable record.
	read, err := NewResolver(store).CurrentJobID()
	require.NoError(t, err)
	assert.Equal(t, created, read)
}

func TestCreateJobIDOverwritesPrevious(t *testing.T) {
	store := storage.NewMemoryStore()
	resolver := NewResolverWithClock(store, fixedClock(time.Date(2024, 3, 5, 14, 30, 45, 0, time.UTC)))
	_, err := resolver.CreateJobID("article_classifier")
	require.NoError(t, err)

	resolver = NewResolverWithClock(store, fixedClock(time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)))
	second, err := resolver.CreateJobID("article_classifier")
	require.NoError(t, err)

	current, err := resolver.CurrentJobID()
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)
}

func TestResolvePaths(t *testing.T) {
	id := models.JobIdentity{
		Name:      "article_classifier",
		Timestamp: "20240305_143045",
		ID:        "article_classifier_20240305_143045",
	}

	paths := ResolvePaths(id, "gs://article-classifier-ml")

	assert.Equal(t, "gs://article-classifier-ml/jobs/article_classifier_20240305_143045", paths.Base)
	assert.Equal(t, paths.Base+"/preproc/train", paths.PreprocessedTrain)
	assert.Equal(t, paths.Base+"/preproc/eval", paths.PreprocessedEval)
	assert.Equal(t, paths.Base+"/training", paths.TrainingOutput)
	assert.Equal(t, paths.TrainingOutput+"/model", paths.ModelDir())
}

func TestResolvePathsDeterministic(t *testing.T) {
	id := models.JobIdentity{ID: "article_classifier_20240305_143045"}

	first := ResolvePaths(id, "gs://bucket")
	second := ResolvePaths(id, "gs://bucket")
	assert.Equal(t, first, second)

	// A trailing slash on the root must not change the derived paths.
	assert.Equal(t, first, ResolvePaths(id, "gs://bucket/"))
}
