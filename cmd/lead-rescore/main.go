// Command lead-rescore recomputes scores for every lead of a tenant and
// optionally runs the auto-qualification pass afterwards. Intended for
// cron or one-off operational use.
package main

import (
	"context"
	"flag"

	"msp_core_backend/internal/events"
	"msp_core_backend/internal/leads"
	"msp_core_backend/platform/config"
	"msp_core_backend/platform/db"
	"msp_core_backend/platform/logger"

	"github.com/google/uuid"
)

func main() {
	tenantFlag := flag.String("tenant", "", "tenant (company) UUID to rescore")
	qualifyFlag := flag.Bool("qualify", false, "run auto-qualification after rescoring")
	minScoreFlag := flag.Int("min-score", 0, "qualification threshold override (0 uses the configured default)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)

	companyID, err := uuid.Parse(*tenantFlag)
	if err != nil {
		log.Error("a valid -tenant UUID is required", "error", err)
		return
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	module, err := leads.NewModule(pool, eventBus, cfg, log)
	if err != nil {
		log.Error("failed to initialize leads module", "error", err)
		panic("failed to initialize leads module: " + err.Error())
	}
	svc := module.Service()

	log.Info("starting bulk rescore", "tenantId", companyID)
	result, err := svc.BulkRescore(ctx, companyID)
	if err != nil {
		log.Error("bulk rescore failed", "error", err)
		return
	}
	log.Info("bulk rescore complete",
		"processed", result.Processed, "updated", result.Updated, "failed", result.Failed)

	if *qualifyFlag {
		qualified, err := svc.AutoQualifyHighScoring(ctx, companyID, *minScoreFlag)
		if err != nil {
			log.Error("auto-qualification failed", "error", err)
			return
		}
		log.Info("auto-qualification complete", "qualified", qualified.Count)
	}
}
