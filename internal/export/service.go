package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rpattn/indexjoin/internal/domain"
)

// Service renders consolidated join results as xlsx workbooks.
type Service struct {
	sheetName string
}

type Option func(*Service)

func WithSheetName(name string) Option {
	return func(s *Service) {
		if strings.TrimSpace(name) != "" {
			s.sheetName = name
		}
	}
}

func NewService(opts ...Option) *Service {
	service := &Service{sheetName: "Join Results"}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// WriteXLSX writes one sheet: a header row of column aliases followed by one
// row per consolidated record, in field order.
func (s *Service) WriteXLSX(w io.Writer, fields []domain.ConsolidatedField, rows []map[string]any) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetName(sheet, s.sheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	sheet = s.sheetName

	aliases := make([]any, len(fields))
	for i, field := range fields {
		alias := field.Alias
		if alias == "" {
			alias = field.SourceField
		}
		aliases[i] = alias
	}
	if err := f.SetSheetRow(sheet, "A1", &aliases); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, row := range rows {
		values := make([]any, len(fields))
		for j, field := range fields {
			alias := field.Alias
			if alias == "" {
				alias = field.SourceField
			}
			values[j] = cellValue(row[alias])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// cellValue keeps scalars as-is and renders opaque arrays/objects as JSON so
// the cell still shows the joined value.
func cellValue(value any) any {
	switch v := value.(type) {
	case nil:
		return ""
	case string, bool, float64, int, int64:
		return v
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}
