// Package export serializes dashboard data into downloadable spreadsheets.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// CustomerRow is one exported customer record.
type CustomerRow struct {
	ID        string
	Username  string
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Address   string
	JoinedAt  time.Time
}

var customerHeaders = []string{
	"ID", "Username", "Email", "First Name", "Last Name", "Phone", "Address", "Date Joined",
}

// CustomerWorkbook renders the customer rows into an xlsx workbook with a
// bold header row and returns the serialized bytes.
func CustomerWorkbook(rows []CustomerRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Customers"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range customerHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header %q: %w", header, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, boldStyle); err != nil {
			return nil, fmt.Errorf("failed to style header %q: %w", header, err)
		}
	}

	for i, row := range rows {
		values := []interface{}{
			row.ID,
			row.Username,
			row.Email,
			row.FirstName,
			row.LastName,
			row.Phone,
			row.Address,
			row.JoinedAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// CustomerFilename returns the timestamped attachment filename for an
// export started at now.
func CustomerFilename(now time.Time) string {
	return fmt.Sprintf("customers_%s.xlsx", now.Format("20060102_150405"))
}
