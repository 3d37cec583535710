package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"classifier-pipeline/config"
	"classifier-pipeline/core/dispatcher"
	"classifier-pipeline/core/executor"
	"classifier-pipeline/core/identity"
	"classifier-pipeline/core/models"
	"classifier-pipeline/core/repository"
	"classifier-pipeline/core/spec"
	"classifier-pipeline/storage"
)

func usage() {
	names := make([]string, len(models.Stages))
	for i, s := range models.Stages {
		names[i] = string(s)
	}
	fmt.Fprintf(os.Stderr, "Usage: pipeline <%s> [args...]\n", strings.Join(names, "|"))
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	stage, err := models.ParseStage(os.Args[1])
	if err != nil {
		log.Printf("%v", err)
		usage()
		os.Exit(1)
	}
	req := models.StageRequest{Stage: stage, Args: os.Args[2:]}

	// run owns the deferred cleanup, so it has finished by the time the
	// process exits non-zero.
	if err := run(req); err != nil {
		var missingArg *models.MissingArgumentError
		if errors.As(err, &missingArg) {
			log.Printf("%v", err)
			usage()
			os.Exit(1)
		}
		log.Printf("Stage %s failed: %v", stage, err)
		os.Exit(1)
	}
}

func run(req models.StageRequest) error {
	cfg := config.Load()

	pipeline, err := spec.LoadFile(cfg.SpecPath, cfg.AllShards)
	if err != nil {
		return fmt.Errorf("failed to load pipeline spec: %w", err)
	}

	store := storage.NewFileStore(cfg.DataDir)
	resolver := identity.NewResolver(store)
	runner := executor.NewProcessRunner()

	var history dispatcher.History
	if cfg.HistoryDSN != "" {
		db, err := repository.NewDB(cfg.HistoryDSN)
		if err != nil {
			return fmt.Errorf("failed to connect to history database: %w", err)
		}
		defer db.Close()
		history = repository.NewRunRepository(db)
	}

	d := dispatcher.New(cfg, pipeline, store, resolver, runner, history)
	return d.Dispatch(context.Background(), req)
}
