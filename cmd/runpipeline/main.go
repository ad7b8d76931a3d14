// runpipeline processes one OCR text file through the full document
// pipeline against a local sqlite store, so the flow can be exercised
// without Postgres or a live OCR engine.
//
//	runpipeline <application-id-uuid> <ocr-text-file>
//
// An unknown application ID seeds a fresh application at the first stage.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/homelend/docflow/constants"
	"github.com/homelend/docflow/internal/analyze"
	"github.com/homelend/docflow/internal/classify"
	"github.com/homelend/docflow/internal/common"
	"github.com/homelend/docflow/internal/compliance"
	"github.com/homelend/docflow/internal/entity"
	"github.com/homelend/docflow/internal/export"
	"github.com/homelend/docflow/internal/extract"
	"github.com/homelend/docflow/internal/pipeline"
	repo "github.com/homelend/docflow/internal/repository"
	"github.com/homelend/docflow/internal/workflow"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 3 {
		logger.Error("usage", "cmd", "runpipeline <application-id-uuid> <ocr-text-file>")
		os.Exit(2)
	}
	appID, err := uuid.Parse(os.Args[1])
	if err != nil {
		logger.Error("invalid application id (must be UUID)", "arg", os.Args[1], "error", err)
		os.Exit(2)
	}
	text, err := os.ReadFile(os.Args[2])
	if err != nil {
		logger.Error("read text file", "path", os.Args[2], "error", err)
		os.Exit(1)
	}

	dbPath := os.Getenv("DOCFLOW_DB")
	if dbPath == "" {
		dbPath = "docflow.db"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, err := repo.OpenLocal(dbPath, logger)
	if err != nil {
		logger.Error("open local store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("close local store", "error", cerr)
		}
	}()

	if _, err := store.GetByID(ctx, appID); err != nil {
		now := time.Now()
		seed := &entity.Application{
			ID:             appID,
			ApplicantName:  "Local Run",
			Stage:          constants.StageDocumentCollection,
			Status:         constants.StatusPending,
			CreatedAt:      now,
			UpdatedAt:      now,
			LastActivityAt: now,
		}
		if err := store.Insert(ctx, seed); err != nil {
			logger.Error("seed application", "error", err)
			os.Exit(1)
		}
		logger.Info("seeded application", "application_id", appID)
	}

	stages := workflow.NewStageTable(workflow.DefaultStages())
	engine := workflow.NewEngine(stages, store, store.Docs(), logger)
	proc := pipeline.NewProcessor(
		logger,
		classify.NewClassifier(nil),
		extract.NewExtractor(nil),
		analyze.NewAnalyzer(nil),
		engine,
	)

	doc := pipeline.NewDocument(appID, os.Args[2])
	start := time.Now()
	res := proc.ProcessText(ctx, appID, doc, string(text), 0)
	dur := time.Since(start)

	if !res.Success {
		logger.Error("pipeline failed", "actions", res.Actions, "duration_ms", dur.Milliseconds())
		os.Exit(1)
	}

	logger.Info("pipeline OK",
		"document_id", doc.ID,
		"type", doc.Type,
		"fields", len(doc.Fields),
		"issues", len(doc.Issues),
		"actions", res.Actions,
		"duration_ms", dur.Milliseconds(),
	)

	// workflow + compliance snapshot after processing
	cfg := common.LoadConfig()
	status, err := engine.GetWorkflowStatus(ctx, appID, cfg.Pipeline.AvgProcessingDays)
	if err != nil {
		logger.Error("workflow status", "error", err)
		os.Exit(1)
	}
	app, err := store.GetByID(ctx, appID)
	if err != nil {
		logger.Error("reload application", "error", err)
		os.Exit(1)
	}
	run := compliance.NewEngine(nil, logger).Run(app)
	out, _ := json.MarshalIndent(map[string]any{
		"workflow":        status,
		"overall":         run.Overall,
		"recommendations": run.Recommendations,
	}, "", "  ")
	os.Stdout.Write(out)
	os.Stdout.Write([]byte("\n"))

	// optional audit workbook
	if xlsxPath := os.Getenv("DOCFLOW_XLSX"); xlsxPath != "" {
		svc := export.NewService(store, compliance.NewEngine(nil, logger), logger)
		data, err := svc.ExportComplianceXLSX(ctx, appID)
		if err != nil {
			logger.Error("export compliance xlsx", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(xlsxPath, data, 0o644); err != nil {
			logger.Error("write xlsx", "path", xlsxPath, "error", err)
			os.Exit(1)
		}
		logger.Info("wrote compliance workbook", "path", xlsxPath, "bytes", len(data))
	}
}
