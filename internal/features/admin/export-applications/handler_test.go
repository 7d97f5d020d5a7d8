// internal/features/admin/export-applications/handler_test.go
package exportapplications

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"membership-portal/internal/common/config"
	commonerrors "membership-portal/internal/common/errors"
	"membership-portal/internal/common/logger"
	"membership-portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type staticSource struct {
	apps []models.StoredApplication
	err  error
}

func (s *staticSource) All(ctx context.Context) ([]models.StoredApplication, error) {
	return s.apps, s.err
}

func readRows(t *testing.T, content []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, sheet, f.GetSheetName(0))
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

// cell tolerates rows shortened by trailing empty cells.
func cell(row []string, col string) string {
	for i, c := range Columns {
		if c == col && i < len(row) {
			return row[i]
		}
	}
	return ""
}

func TestHandler_Execute(t *testing.T) {
	source := &staticSource{apps: []models.StoredApplication{
		{ID: "uid-1", Application: models.Application{
			FullName:         "Asha Rao",
			Email:            "asha.rao@somaiya.edu",
			RollNumber:       "16010123001",
			Branch:           "CSE",
			Year:             "2",
			CGPA:             "9.10",
			MembershipNumber: "ACM-42",
			Role:             "Technical Team",
			Role2:            "Creative Team",
			Submitted:        true,
			SubmittedAt:      "2025-01-15T10:30:00.123Z",
		}},
		{ID: "uid-2", Application: models.Application{
			FullName: "Ravi Shah",
			Email:    "ravi.shah@somaiya.edu",
		}},
	}}
	h := NewHandler(LoadConfig(config.ExportConfig{}), source, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	assert.Equal(t, "acm_applications.xlsx", out.FileName)
	assert.Equal(t, ContentType, out.ContentType)
	assert.Equal(t, 2, out.Rows)

	rows := readRows(t, out.Content, "Applications")
	require.Len(t, rows, 3)
	assert.Equal(t, Columns, rows[0])

	assert.Equal(t, "Asha Rao", cell(rows[1], models.FieldFullName))
	assert.Equal(t, "ACM-42", cell(rows[1], models.FieldMembershipNumber))
	assert.Equal(t, "Creative Team", cell(rows[1], models.FieldRole2))
	assert.Equal(t, "TRUE", cell(rows[1], models.FieldSubmitted))
	assert.Equal(t, "2025-01-15T10:30:00.123Z", cell(rows[1], models.FieldSubmittedAt))

	assert.Equal(t, "ravi.shah@somaiya.edu", cell(rows[2], models.FieldEmail))
	assert.Equal(t, "", cell(rows[2], models.FieldBranch))
	assert.Equal(t, "", cell(rows[2], models.FieldSubmitted))
}

func TestHandler_Execute_HeaderOnly(t *testing.T) {
	cfg := LoadConfig(config.ExportConfig{FileName: "export.xlsx", SheetName: "Export"})
	h := NewHandler(cfg, &staticSource{}, logger.NewNoOpLogger())

	out, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	assert.Equal(t, "export.xlsx", out.FileName)

	rows := readRows(t, out.Content, "Export")
	require.Len(t, rows, 1)
	assert.Equal(t, Columns, rows[0])
}

func TestHandler_Execute_SourceFailure(t *testing.T) {
	readErr := commonerrors.NewStoreReadFailedError(errors.New("connection reset"))
	h := NewHandler(LoadConfig(config.ExportConfig{}), &staticSource{err: readErr}, logger.NewNoOpLogger())

	_, err := h.Execute(context.Background(), &Input{})
	assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeStoreReadFailed))
}

func TestHandler_Execute_BadSheetName(t *testing.T) {
	h := NewHandler(&Config{FileName: "x.xlsx", SheetName: "bad[name]"}, &staticSource{}, logger.NewNoOpLogger())

	_, err := h.Execute(context.Background(), &Input{})
	assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeExportFailed))
}

func TestRow(t *testing.T) {
	row := Row(&models.Application{Email: "a@somaiya.edu", HasMembership: true})
	require.Len(t, row, len(Columns))
	assert.Equal(t, "a@somaiya.edu", row[1])
	assert.Equal(t, "", row[15])
	for _, c := range Columns {
		assert.NotEqual(t, models.FieldHasMembership, c)
	}
}
