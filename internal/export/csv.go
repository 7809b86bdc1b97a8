// Package export renders attendance records for download.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/Anthon002/NYSCAttendance/internal/domain"
)

var csvHeader = []string{
	"Serial Number",
	"State Code",
	"First Name",
	"Last Name",
	"Middle Name",
	"Batch",
	"CDS Group",
	"Day",
	"Reserved",
	"Recorded At",
}

// CSVExporter renders attendance records as a CSV document.
type CSVExporter struct{}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

func (e *CSVExporter) Render(records []domain.Attendance) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("w.Write -> %w", err)
	}

	for _, r := range records {
		row := []string{
			strconv.FormatInt(r.SerialNumber, 10),
			r.StateCode,
			r.FirstName,
			r.LastName,
			r.MiddleName,
			r.Batch.String(),
			r.CDS.String(),
			time.Weekday(r.Day).String(),
			strconv.FormatBool(r.IsReserve),
			r.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("w.Write -> %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("w.Flush -> %w", err)
	}

	return buf.Bytes(), nil
}
