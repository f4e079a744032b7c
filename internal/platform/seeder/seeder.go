// Package seeder runs startup provisioning steps, such as creating the
// bootstrap super-admin, before the HTTP server starts accepting
// requests.
package seeder

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborworks/cms/internal/platform/logger"
)

// Seeder is one provisioning step. Steps must be idempotent: the
// orchestrator runs on every boot, so a step finding its data already
// in place returns nil without writing.
type Seeder interface {
	// Name identifies the step in logs
	Name() string

	// Seed performs the provisioning against the database
	Seed(ctx context.Context, db *pgxpool.Pool) error
}

// Orchestrator runs the configured seeders in registration order and
// stops at the first failure.
type Orchestrator struct {
	seeders []Seeder
	logger  logger.Logger
	db      *pgxpool.Pool
}

// NewOrchestrator creates an orchestrator over the given steps
func NewOrchestrator(logger logger.Logger, db *pgxpool.Pool, seeders []Seeder) *Orchestrator {
	return &Orchestrator{
		seeders: seeders,
		logger:  logger,
		db:      db,
	}
}

// RunAll executes every step in order. A failing step aborts the run;
// completed steps are not rolled back.
func (o *Orchestrator) RunAll(ctx context.Context) error {
	o.logger.Info(ctx, "running startup provisioning", "steps", len(o.seeders))

	for _, step := range o.seeders {
		if err := step.Seed(ctx, o.db); err != nil {
			o.logger.Error(ctx, "provisioning step failed",
				"step", step.Name(),
				"error", err,
			)
			return fmt.Errorf("seeder %s: %w", step.Name(), err)
		}
		o.logger.Info(ctx, "provisioning step done", "step", step.Name())
	}

	return nil
}
