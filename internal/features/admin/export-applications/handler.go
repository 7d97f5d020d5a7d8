// internal/features/admin/export-applications/handler.go
package exportapplications

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"membership-portal/internal/common/errors"
	"membership-portal/internal/common/logger"
	"membership-portal/internal/common/metrics"
	"membership-portal/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	FeatureName = "export-applications"
)

// Source yields the whole collection in listing order.
type Source interface {
	All(ctx context.Context) ([]models.StoredApplication, error)
}

type Handler struct {
	config *Config
	source Source
	logger logger.Logger
}

func NewHandler(config *Config, source Source, log logger.Logger) *Handler {
	if config == nil {
		config = &Config{FileName: DefaultFileName, SheetName: DefaultSheetName}
	}
	return &Handler{
		config: config,
		source: source,
		logger: log.WithFields(map[string]interface{}{"feature": FeatureName}),
	}
}

// Execute exports every application, submitted or not.
func (h *Handler) Execute(ctx context.Context, _ *Input) (*Output, error) {
	apps, err := h.source.All(ctx)
	if err != nil {
		metrics.Exports.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, err
	}

	var buf bytes.Buffer
	if err := h.Write(&buf, apps); err != nil {
		metrics.Exports.WithLabelValues(metrics.ResultFailure).Inc()
		h.logger.Error("export failed", map[string]interface{}{"error": err.Error()})
		return nil, errors.NewExportFailedError(err)
	}

	metrics.Exports.WithLabelValues(metrics.ResultSuccess).Inc()
	h.logger.Info("exported applications", map[string]interface{}{
		"rows":  len(apps),
		"bytes": buf.Len(),
	})

	return &Output{
		FileName:    h.config.FileName,
		ContentType: ContentType,
		Rows:        len(apps),
		Content:     buf.Bytes(),
	}, nil
}

// Write renders apps as a workbook with a header row followed by one row per application.
func (h *Handler) Write(w io.Writer, apps []models.StoredApplication) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), h.config.SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(h.config.SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range apps {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := Row(&apps[i].Application)
		if err := f.SetSheetRow(h.config.SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	_, err := f.WriteTo(w)
	return err
}

// Row returns the cells of one application in column order. Missing values
// are empty strings; submitted is a boolean cell only when set.
func Row(app *models.Application) []interface{} {
	row := make([]interface{}, len(Columns))
	for i, c := range Columns {
		if c == models.FieldSubmitted {
			if app.Submitted {
				row[i] = true
			} else {
				row[i] = ""
			}
			continue
		}
		v, _ := app.Field(c)
		row[i] = v
	}
	return row
}
