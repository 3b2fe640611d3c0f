// Command lead-import loads a CSV file of leads into a tenant, using the
// same mapping and duplicate rules as the HTTP import endpoint.
package main

import (
	"context"
	"flag"
	"os"

	"msp_core_backend/internal/events"
	"msp_core_backend/internal/leads"
	"msp_core_backend/internal/leads/service"
	"msp_core_backend/platform/config"
	"msp_core_backend/platform/db"
	"msp_core_backend/platform/logger"

	"github.com/google/uuid"
)

func main() {
	tenantFlag := flag.String("tenant", "", "tenant (company) UUID to import into")
	fileFlag := flag.String("file", "", "path to the CSV file")
	sourceFlag := flag.String("source", "", "lead source UUID (defaults to the built-in import source)")
	strictFlag := flag.Bool("strict", false, "treat duplicate rows as errors instead of skipping them")
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
	if *fileFlag == "" {
		log.Error("-file is required")
		return
	}

	file, err := os.Open(*fileFlag)
	if err != nil {
		log.Error("failed to open csv file", "path", *fileFlag, "error", err)
		return
	}
	defer file.Close()

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

	opts := service.ImportOptions{
		FailOnDuplicate: *strictFlag,
		MaxRows:         cfg.ImportMaxRows,
	}
	if *sourceFlag != "" {
		sourceID, err := uuid.Parse(*sourceFlag)
		if err != nil {
			log.Error("invalid -source UUID", "error", err)
			return
		}
		opts.SourceID = &sourceID
	}

	log.Info("starting csv import", "tenantId", companyID, "file", *fileFlag)
	result, err := module.Service().ImportCSV(ctx, companyID, file, opts)
	if err != nil {
		log.Error("import failed", "error", err)
		return
	}

	for _, msg := range result.Messages {
		if msg.Outcome != "success" {
			log.Warn("import row issue", "row", msg.Row, "outcome", msg.Outcome, "message", msg.Message)
		}
	}
	log.Info("import complete",
		"success", result.Success, "errors", result.Errors, "skipped", result.Skipped)
}
