// Package export produces the per-scene coordinates workbook that accompanies
// the rendered plots.
package export

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"soundmap/internal/plot"
)

type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// CoordinatesXLSX returns an XLSX workbook (as bytes) listing every scene with
// its raw and normalized coordinates.
func (s *Service) CoordinatesXLSX(scenes []plot.Scene) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Coordinates"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defIdx, _ := f.GetSheetIndex("Sheet1"); defIdx != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Scene Key",
		"Scene",
		"Pleasantness (raw)",
		"Eventfulness (raw)",
		"Pleasantness (normalized)",
		"Eventfulness (normalized)",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, sc := range scenes {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, sc.Key)
		write(2, sc.Label)
		write(3, round4(sc.Raw.P))
		write(4, round4(sc.Raw.E))
		write(5, round4(sc.Norm.P))
		write(6, round4(sc.Norm.E))
		row++
	}

	_ = f.SetColWidth(sheet, "A", "B", 28)
	_ = f.SetColWidth(sheet, "C", "F", 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(scenes),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
