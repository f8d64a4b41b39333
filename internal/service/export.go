package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportUpcoming renders the upcoming bookings as an Excel workbook and
// returns the file contents with a suggested filename.
func (s *BookingService) ExportUpcoming(ctx context.Context, days int, loc *time.Location) (*bytes.Buffer, string, error) {
	summaries, err := s.ListUpcoming(ctx, days)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Bookings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	now := time.Now().In(loc)
	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Upcoming bookings: %s - %s",
		now.Format("2006-01-02"), now.AddDate(0, 0, days).Format("2006-01-02")))
	_ = f.MergeCell(sheetName, "A1", "F1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	headers := []string{"Event ID", "Summary", "Start", "End", "Location", "Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	_ = f.SetCellStyle(sheetName, "A2", "F2", headerStyle)

	for row, b := range summaries {
		values := []interface{}{
			b.EventID,
			b.Summary,
			b.Start.In(loc).Format("2006-01-02 15:04"),
			b.End.In(loc).Format("2006-01-02 15:04"),
			b.Location,
			b.Status,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+3)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "B", 30)
	_ = f.SetColWidth(sheetName, "C", "F", 20)
	_ = f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("write workbook: %w", err)
	}

	fileName := fmt.Sprintf("bookings_%s.xlsx", now.Format("2006-01-02"))
	return buf, fileName, nil
}
