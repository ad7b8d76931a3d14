// Package pipeline coordinates the document-intelligence flow: classify the
// OCR text, extract fields, analyze issues, then hand the document to the
// workflow engine. OCR itself happens upstream; the processor receives text.
package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/homelend/docflow/internal/analyze"
	"github.com/homelend/docflow/internal/classify"
	"github.com/homelend/docflow/internal/entity"
	"github.com/homelend/docflow/internal/extract"
	"github.com/homelend/docflow/internal/workflow"
)

// Processor coordinates classification, extraction, analysis and the
// workflow cycle for one document.
type Processor struct {
	Logger     *slog.Logger
	Classifier *classify.Classifier
	Extractor  *extract.Extractor
	Analyzer   *analyze.Analyzer
	Engine     *workflow.Engine
}

func NewProcessor(logger *slog.Logger, c *classify.Classifier, x *extract.Extractor, a *analyze.Analyzer, engine *workflow.Engine) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Classifier: c, Extractor: x, Analyzer: a, Engine: engine}
}

// ProcessText runs the full pipeline for a document whose OCR text is
// already available. Classification and extraction never fail; an
// unclassifiable document degrades to generic and proceeds. The returned
// result is the workflow engine's.
func (p *Processor) ProcessText(ctx context.Context, applicationID uuid.UUID, doc *entity.Document, text string, ocrConfidence int) workflow.Result {
	// 1) classify
	cls := p.Classifier.Classify(text, doc.Filename)
	doc.Type = cls.Type
	p.Logger.Info("pipeline.classify.ok",
		"document_id", doc.ID,
		"type", cls.Type,
		"confidence", cls.Confidence,
		"reasons", len(cls.Reasons),
	)

	// 2) extract fields + metadata
	fields, meta := p.Extractor.Extract(text, cls.Type)
	if ocrConfidence > 0 && ocrConfidence < meta.Confidence {
		// extraction certainty is capped by how readable the scan was
		meta.Confidence = ocrConfidence
	}
	doc.Fields = fields
	doc.Metadata = &meta
	now := meta.ProcessedAt
	doc.ProcessedAt = &now
	p.Logger.Info("pipeline.extract.ok", "document_id", doc.ID, "fields", len(fields), "confidence", meta.Confidence)

	// 3) analyze issues
	rawMeta, err := json.Marshal(meta)
	if err != nil {
		rawMeta = nil // analyzer reports this as a metadata issue
	}
	doc.Issues = p.Analyzer.Analyze(fields, rawMeta, cls.Type)
	if len(doc.Issues) > 0 {
		p.Logger.Info("pipeline.analyze.issues", "document_id", doc.ID, "count", len(doc.Issues))
	}

	// 4) workflow cycle (persists the document and may advance the stage)
	res := p.Engine.ProcessDocument(ctx, applicationID, doc)
	if !res.Success {
		p.Logger.Error("pipeline.workflow.failed", "document_id", doc.ID, "actions", res.Actions)
		return res
	}
	if res.NewStage != nil {
		p.Logger.Info("pipeline.workflow.advanced", "application_id", applicationID, "stage", *res.NewStage)
	}
	return res
}

// ProcessScan OCRs image bytes through the given recognizer and feeds the
// text to ProcessText. Recognition failure is the one hard error in the
// pipeline; the core never retries it.
func (p *Processor) ProcessScan(ctx context.Context, applicationID uuid.UUID, doc *entity.Document, r extract.Recognizer, image []byte) (workflow.Result, error) {
	rec, err := r.Recognize(ctx, image)
	if err != nil {
		p.Logger.Error("pipeline.ocr.failed", "document_id", doc.ID, "err", err)
		return workflow.Result{}, err
	}
	p.Logger.Info("pipeline.ocr.ok",
		"document_id", doc.ID,
		"confidence", rec.Confidence,
		"pages", rec.Pages,
		"duration_ms", rec.Duration.Milliseconds(),
	)
	return p.ProcessText(ctx, applicationID, doc, rec.Text, rec.Confidence), nil
}

// NewDocument builds an unprocessed document record for an upload.
func NewDocument(applicationID uuid.UUID, filename string) *entity.Document {
	return &entity.Document{
		ID:            uuid.New(),
		ApplicationID: applicationID,
		Filename:      filename,
		UploadedAt:    time.Now(),
		Fields:        entity.FieldMap{},
	}
}
