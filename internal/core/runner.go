package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/silver/internal/logging"
)

// FailurePolicy decides what happens to the remaining stages after one fails.
type FailurePolicy int

const (
	// HaltOnError stops the run at the first failed stage.
	HaltOnError FailurePolicy = iota
	// ContinueOnError runs every stage and reports all failures.
	ContinueOnError
)

// RunnerConfig holds the settings a Runner needs besides its store.
type RunnerConfig struct {
	Schemas   Schemas
	SourceDir string
	Policy    FailurePolicy
	Now       func() time.Time // Defaults to time.Now
}

// Runner loads the registered stages of a layer, one after another.
//
// Each stage is extract, transform, replace. Replace is atomic per table;
// there is no transaction across stages, so stages that finished before a
// failure stay committed.
type Runner struct {
	env    Env
	policy FailurePolicy
}

// NewRunner creates a runner that reads from and writes to store.
func NewRunner(store Store, cfg RunnerConfig) *Runner {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Runner{
		env: Env{
			Store:     store,
			Schemas:   cfg.Schemas,
			SourceDir: cfg.SourceDir,
			Now:       now,
		},
		policy: cfg.Policy,
	}
}

// Run loads every stage registered for layer in order.
func (r *Runner) Run(ctx context.Context, layer Layer) RunResult {
	return r.RunStages(ctx, layer, ByLayer(layer))
}

// RunStages loads the given stages in the order provided.
func (r *Runner) RunStages(ctx context.Context, layer Layer, stages []StageDefinition) RunResult {
	result := RunResult{
		RunID: uuid.NewString(),
		Layer: layer,
		Start: time.Now(),
	}
	ctx = logging.ContextWithRunID(ctx, result.RunID)
	logger := logging.FromContext(ctx).With("layer", layer)

	logger.Info("load started", "stages", len(stages))
	if len(stages) == 0 {
		logger.Warn("no stages registered for layer")
	}

	halted := false
	group := ""
	for _, def := range stages {
		if halted {
			result.Stages = append(result.Stages, StageResult{
				Key:     def.Info.Key,
				Group:   def.Info.Group,
				Label:   def.Info.Label,
				Skipped: true,
			})
			logger.Warn("stage skipped", "stage", def.Info.Key)
			continue
		}

		if def.Info.Group != group {
			group = def.Info.Group
			logger.Info(fmt.Sprintf("Loading %s tables", group))
		}

		sr := r.RunStage(ctx, def)
		result.Stages = append(result.Stages, sr)
		if sr.Err != nil {
			result.Failed = append(result.Failed, sr.Err)
			if r.policy == HaltOnError {
				halted = true
			}
		}
	}

	result.End = time.Now()
	result.Duration = result.End.Sub(result.Start)

	if result.Success() {
		logger.Info("load finished", "duration", result.Duration, "stages", len(result.Stages))
	} else {
		logger.Error("load failed",
			"duration", result.Duration,
			"failed", len(result.Failed),
			"error", result.Err(),
		)
	}

	return result
}

// RunStage runs a single stage and reports its outcome.
func (r *Runner) RunStage(ctx context.Context, def StageDefinition) StageResult {
	target := def.Target(r.env.Schemas)
	logger := logging.WithFields(ctx, "stage", def.Info.Key, "table", target.String())

	sr := StageResult{
		Key:   def.Info.Key,
		Group: def.Info.Group,
		Label: def.Info.Label,
		Start: time.Now(),
	}
	logger.Info("stage started", "label", def.Info.Label)

	err := r.runStage(ctx, def, target, &sr)

	sr.End = time.Now()
	sr.Duration = sr.End.Sub(sr.Start)

	if err != nil {
		sr.Err = NewStageError(def.Info.Key, err)
		logger.Error("stage failed",
			"duration", sr.Duration,
			"error", err,
			"code", sr.Err.Code,
			"sqlstate", sr.Err.State,
			"message", sr.Err.Message,
		)
		return sr
	}

	logger.Info("stage finished",
		"duration", sr.Duration,
		"rows_read", sr.RowsRead,
		"rows_written", sr.RowsWritten,
	)
	return sr
}

func (r *Runner) runStage(ctx context.Context, def StageDefinition, target TableRef, sr *StageResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rows, err := def.Extract(ctx, r.env)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	sr.RowsRead = len(rows)

	if def.Transform != nil {
		rows, err = def.Transform(rows, r.env)
		if err != nil {
			return fmt.Errorf("transform: %w", err)
		}
	}

	for i, row := range rows {
		if len(row) != len(def.TargetColumns) {
			return fmt.Errorf("row %d: column count %d, want %d", i, len(row), len(def.TargetColumns))
		}
	}

	n, err := r.env.Store.Replace(ctx, target, def.TargetColumns, rows)
	if err != nil {
		return fmt.Errorf("replace %s: %w", target, err)
	}
	sr.RowsWritten = n

	return nil
}
