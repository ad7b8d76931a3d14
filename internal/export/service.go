package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/homelend/docflow/internal/compliance"
	"github.com/homelend/docflow/internal/repository"
)

// Service is a tiny façade over the compliance engine that produces XLSX
// bytes for audit exports.
type Service struct {
	apps   repository.ApplicationRepository
	engine *compliance.Engine
	logger *slog.Logger
}

func NewService(apps repository.ApplicationRepository, engine *compliance.Engine, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{apps: apps, engine: engine, logger: logger}
}

// ExportComplianceXLSX runs the compliance rule table for the application and
// returns an XLSX workbook (as bytes) with one row per check.
func (s *Service) ExportComplianceXLSX(ctx context.Context, applicationID uuid.UUID) ([]byte, error) {
	start := time.Now()

	app, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("load application: %w", err)
	}
	run := s.engine.Run(app)

	f := excelize.NewFile()
	const sheet = "Compliance"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Rule",
		"Regulatory Body",
		"Status",
		"Description",
		"Checked At",
		"Notes",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, c := range run.Checks {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, c.RuleID)
		write(2, string(c.Body))
		write(3, string(c.Status))
		write(4, c.Description)
		write(5, c.CheckedAt.Format("2006-01-02 15:04"))
		write(6, joinNotes(c.Notes, 200))

		row++
	}

	// summary row
	write := func(col int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row+1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	write(1, "Overall")
	write(3, string(run.Overall))

	_ = f.SetColWidth(sheet, "A", "A", 26) // rule
	_ = f.SetColWidth(sheet, "B", "B", 22) // body
	_ = f.SetColWidth(sheet, "C", "C", 10) // status
	_ = f.SetColWidth(sheet, "D", "D", 48) // description
	_ = f.SetColWidth(sheet, "E", "E", 18) // checked at
	_ = f.SetColWidth(sheet, "F", "F", 60) // notes

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"application_id", applicationID.String(),
		"checks", len(run.Checks),
		"overall", run.Overall,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func joinNotes(notes []string, n int) string {
	out := ""
	for i, note := range notes {
		if i > 0 {
			out += "; "
		}
		out += note
	}
	// truncate on rune boundaries so multi-byte notes stay valid UTF-8
	if r := []rune(out); n > 1 && len(r) > n {
		out = string(r[:n-1]) + "…"
	}
	return out
}
