package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bistro/internal/domain"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Reservations"

// Exporter writes reservations for a date range into an xlsx workbook for
// the back office.
type Exporter struct {
	repo   domain.Repository
	path   string
	logger *zerolog.Logger
}

func NewExporter(repo domain.Repository, path string, logger *zerolog.Logger) *Exporter {
	return &Exporter{repo: repo, path: path, logger: logger}
}

// ReservationsToExcel builds the workbook on disk and returns its path.
func (e *Exporter) ReservationsToExcel(ctx context.Context, startDate, endDate time.Time) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	reservations, err := e.repo.ListReservationsByDateRange(ctx, startDate, endDate)
	if err != nil {
		return "", fmt.Errorf("error getting reservations: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Reservations: %s - %s",
		startDate.Format("02.01.2006"), endDate.Format("02.01.2006")))

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.MergeCell(sheetName, "A1", "H1")
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	headers := []string{"Date", "Slot", "Name", "Phone", "Email", "Party size", "Status", "Booked at"}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, r := range reservations {
		row := i + 3
		values := []any{
			r.Date.Format("2006-01-02"),
			fmt.Sprintf("%s-%s", r.SlotStart, r.SlotEnd),
			r.Name,
			r.Phone,
			r.Email,
			r.PartySize,
			r.Status,
			r.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "B", 14)
	_ = f.SetColWidth(sheetName, "C", "E", 24)
	_ = f.SetColWidth(sheetName, "F", "G", 12)
	_ = f.SetColWidth(sheetName, "H", "H", 18)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("reservations_%s_to_%s.xlsx",
		startDate.Format("2006-01-02"),
		endDate.Format("2006-01-02"))
	filePath := filepath.Join(e.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("rows", len(reservations)).Msg("Excel file created")
	return filePath, nil
}
