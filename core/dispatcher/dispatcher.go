package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log"

	"classifier-pipeline/config"
	"classifier-pipeline/core/builder"
	"classifier-pipeline/core/executor"
	"classifier-pipeline/core/hyperparams"
	"classifier-pipeline/core/identity"
	"classifier-pipeline/core/models"
	"classifier-pipeline/core/repository"
	"classifier-pipeline/core/spec"
	"classifier-pipeline/storage"
)

// History records stage invocations: a running row before the
// collaborator starts, its outcome after. The dispatcher depends on this
// interface so tests can substitute a recording fake; the Postgres
// implementation is repository.RunRepository.
type History interface {
	CreateRun(stage models.Stage, jobID string, argv []string) (string, error)
	FinishRun(runID string, status repository.RunStatus, failure string) error
}

// Dispatcher maps a requested stage to its builder and collaborator
// invocation. It holds no state of its own between process invocations:
// everything a stage needs is reconstructed from the durable records, so
// missing prerequisites fail loudly before any collaborator runs.
type Dispatcher struct {
	cfg      *config.Config
	pipeline *spec.Pipeline
	store    storage.StateStore
	resolver *identity.Resolver
	builder  *builder.Builder
	runner   executor.Runner
	history  History // nil disables run history
	profile  hyperparams.Profile
}

// New creates a dispatcher. history may be nil.
func New(
	cfg *config.Config,
	pipeline *spec.Pipeline,
	store storage.StateStore,
	resolver *identity.Resolver,
	runner executor.Runner,
	history History,
) *Dispatcher {
	return &Dispatcher{
		cfg:      cfg,
		pipeline: pipeline,
		store:    store,
		resolver: resolver,
		builder:  builder.NewBuilder(pipeline),
		runner:   runner,
		history:  history,
		profile:  hyperparams.Merge(hyperparams.DefaultProfile(), hyperparams.Profile(pipeline.Overrides)),
	}
}

// Dispatch executes one stage. Any failure aborts immediately; durable
// state keeps its last successfully written value.
func (d *Dispatcher) Dispatch(ctx context.Context, req models.StageRequest) error {
	switch req.Stage {
	case models.StageGen:
		return d.gen(ctx, req)
	case models.StagePre:
		return d.pre(ctx)
	case models.StageTrain:
		return d.train(ctx, req, false)
	case models.StageTrainTest:
		return d.train(ctx, req, true)
	case models.StageWritePredict:
		return d.writePredict(ctx, req)
	case models.StagePredict:
		return d.predict(ctx, req)
	case models.StagePredictCloud:
		return d.predictCloud(ctx, req)
	case models.StagePublish:
		return d.publish(ctx, req)
	case models.StageSet:
		return d.setDefault(ctx)
	default:
		return &models.UnknownStageError{Name: string(req.Stage)}
	}
}

// gen runs the data-generation collaborator. No job identity is needed.
func (d *Dispatcher) gen(ctx context.Context, req models.StageRequest) error {
	return d.invoke(ctx, models.StageGen, "", d.builder.Gen(req.Args))
}

// pre begins a new training cycle: it assigns a fresh job identity,
// overwriting the previous one, then preprocesses every discovered raw
// shard into suffix-distinct output locations.
func (d *Dispatcher) pre(ctx context.Context) error {
	id, err := d.resolver.CreateJobID(d.cfg.JobBaseName)
	if err != nil {
		return err
	}
	paths := identity.ResolvePaths(id, d.cfg.BucketRoot)

	groups := []struct {
		prefix     string
		outputBase string
	}{
		{d.pipeline.TrainPrefix, paths.PreprocessedTrain},
		{d.pipeline.EvalPrefix, paths.PreprocessedEval},
	}

	for _, g := range groups {
		shards, err := builder.DiscoverShards(d.cfg.DataDir, g.prefix)
		if err != nil {
			return err
		}
		if len(shards) == 0 {
			return fmt.Errorf("no %s<N>.csv shards found in %s", g.prefix, d.cfg.DataDir)
		}
		if !d.pipeline.AllShards {
			shards = shards[:1]
		}
		for _, shard := range shards {
			if err := d.invoke(ctx, models.StagePre, id.ID, d.builder.Preprocess(shard, g.outputBase)); err != nil {
				return err
			}
		}
	}
	return nil
}

// train runs the trainer against the current job's preprocessed shards.
// Trailing caller flags are forwarded verbatim.
func (d *Dispatcher) train(ctx context.Context, req models.StageRequest, testRun bool) error {
	id, paths, err := d.currentJob()
	if err != nil {
		return err
	}
	return d.invoke(ctx, req.Stage, id.ID, d.builder.Train(paths, d.profile, testRun, req.Args))
}

// writePredict runs the trainer in write-predictions mode against the
// fixed evaluation sample count
func (d *Dispatcher) writePredict(ctx context.Context, req models.StageRequest) error {
	id, paths, err := d.currentJob()
	if err != nil {
		return err
	}
	return d.invoke(ctx, models.StageWritePredict, id.ID, d.builder.WritePredict(paths, d.profile, req.Args))
}

// predict runs local prediction against the current job's exported model.
// The instances file is a required positional: its absence is a user
// error surfaced before anything is invoked.
func (d *Dispatcher) predict(ctx context.Context, req models.StageRequest) error {
	if len(req.Args) == 0 || req.Args[0] == "" {
		return &models.MissingArgumentError{Stage: models.StagePredict, Argument: "instances file"}
	}
	id, paths, err := d.currentJob()
	if err != nil {
		return err
	}
	return d.invoke(ctx, models.StagePredict, id.ID, d.builder.Predict(paths, req.Args[0]))
}

// predictCloud runs remote prediction keyed by the persisted model
// version; extra arguments pass through verbatim
func (d *Dispatcher) predictCloud(ctx context.Context, req models.StageRequest) error {
	version, err := d.currentVersion()
	if err != nil {
		return err
	}
	return d.invoke(ctx, models.StagePredictCloud, "", d.builder.PredictCloud(version, req.Args))
}

// publish creates a model version from the current job's exported model.
// The version is persisted before the registry call: a crash after a
// successful remote publish then leaves local and remote state in
// agreement, and a failed publish with a persisted version is recoverable
// by re-running publish.
func (d *Dispatcher) publish(ctx context.Context, req models.StageRequest) error {
	if len(req.Args) == 0 || req.Args[0] == "" {
		return &models.MissingArgumentError{Stage: models.StagePublish, Argument: "version"}
	}
	version := req.Args[0]

	id, paths, err := d.currentJob()
	if err != nil {
		return err
	}
	if err := d.store.Write(storage.KeyModelVersion, version); err != nil {
		return fmt.Errorf("failed to persist model version: %w", err)
	}
	return d.invoke(ctx, models.StagePublish, id.ID, d.builder.Publish(version, paths))
}

// setDefault makes the persisted model version the serving default
func (d *Dispatcher) setDefault(ctx context.Context) error {
	version, err := d.currentVersion()
	if err != nil {
		return err
	}
	return d.invoke(ctx, models.StageSet, "", d.builder.SetDefault(version))
}

// currentJob reads the persisted job identity and derives its paths
func (d *Dispatcher) currentJob() (models.JobIdentity, models.StoragePaths, error) {
	id, err := d.resolver.CurrentJobID()
	if err != nil {
		return models.JobIdentity{}, models.StoragePaths{}, err
	}
	return id, identity.ResolvePaths(id, d.cfg.BucketRoot), nil
}

// currentVersion reads the persisted model version
func (d *Dispatcher) currentVersion() (models.ModelVersion, error) {
	value, err := d.store.Read(storage.KeyModelVersion)
	if err != nil {
		var missing *models.MissingStateError
		if errors.As(err, &missing) {
			return models.ModelVersion{}, &models.MissingStateError{Key: storage.KeyModelVersion, Hint: "publish"}
		}
		return models.ModelVersion{}, err
	}
	return models.ModelVersion{Name: value}, nil
}

// invoke runs one collaborator invocation, recording it in the run
// history when a repository is configured
func (d *Dispatcher) invoke(ctx context.Context, stage models.Stage, jobID string, inv models.Invocation) error {
	var runID string
	if d.history != nil {
		var err error
		runID, err = d.history.CreateRun(stage, jobID, inv.Argv())
		if err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}
	}

	runErr := d.runner.Run(ctx, inv)

	if d.history != nil {
		status := repository.RunStatusSucceeded
		failure := ""
		if runErr != nil {
			status = repository.RunStatusFailed
			failure = runErr.Error()
		}
		if err := d.history.FinishRun(runID, status, failure); err != nil {
			if runErr == nil {
				return fmt.Errorf("failed to record run result: %w", err)
			}
			// The collaborator failure is the error the caller needs;
			// the bookkeeping failure must still be visible.
			log.Printf("Failed to record run result: %v", err)
		}
	}
	return runErr
}
