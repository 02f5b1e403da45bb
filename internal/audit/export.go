package audit

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

var exportColumns = []string{"Created", "Tenant", "Action", "Slot start", "Slot end", "Event ID", "Detail"}

// ExportXLSX writes the audit entries within [from, to) as a single-sheet
// Excel workbook.
func (r *Recorder) ExportXLSX(ctx context.Context, from, to time.Time, w io.Writer) error {
	entries, err := r.db.ListAuditEntries(ctx, from, to)
	if err != nil {
		return err
	}

	file := excelize.NewFile()
	defer file.Close()

	const sheet = "Bookings"
	file.SetSheetName("Sheet1", sheet)

	for i, col := range exportColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}
	if style, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		start, _ := excelize.CoordinatesToCellName(1, 1)
		end, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
		_ = file.SetCellStyle(sheet, start, end, style)
	}

	for row, entry := range entries {
		values := []interface{}{
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
			entry.TenantID,
			entry.Action,
			formatSlotTime(entry.SlotStart),
			formatSlotTime(entry.SlotEnd),
			entry.EventID,
			entry.Detail,
		}
		for i, val := range values {
			cell, err := excelize.CoordinatesToCellName(i+1, row+2)
			if err != nil {
				return err
			}
			if err := file.SetCellValue(sheet, cell, val); err != nil {
				return fmt.Errorf("write audit row %d: %w", row+1, err)
			}
		}
	}

	return file.Write(w)
}

func formatSlotTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
