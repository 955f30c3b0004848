// Package export renders customer lists as spreadsheets.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/travel-crm/internal/domain"
)

// ContentType is the MIME type of the produced workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const customerSheet = "Customers"

var customerHeaders = []string{
	"Name", "Email", "Phone", "Company", "Status", "Assigned To",
	"Destination", "Travel From", "Travel To", "Service", "Budget",
	"Travelling", "Last Contact", "Created At",
}

var customerColWidths = []float64{22, 28, 16, 20, 11, 20, 18, 12, 12, 14, 12, 11, 13, 20}

// Customers builds a single-sheet workbook with one row per customer, in the
// order given, followed by a bold summary row. The caller closes the file.
func Customers(customers []domain.Customer) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", customerSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, h := range customerHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(customerSheet, cell, h)
		f.SetCellStyle(customerSheet, cell, cell, headerStyle)
	}

	for idx := range customers {
		c := &customers[idx]
		row := idx + 2
		values := []any{
			c.Name,
			c.Email,
			strings.TrimSpace(c.CountryCode + " " + c.Phone),
			c.Company,
			string(c.Status),
			assignee(c),
			c.Destination,
			c.TravelFrom,
			c.TravelTo,
			c.Service,
			c.Budget,
			yesNo(c.IsTravelling),
			c.LastContact,
			c.CreatedAt.UTC().Format(time.RFC3339),
		}
		for i, v := range values {
			col, _ := excelize.ColumnNumberToName(i + 1)
			f.SetCellValue(customerSheet, fmt.Sprintf("%s%d", col, row), v)
		}
	}

	summaryRow := len(customers) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellValue(customerSheet, fmt.Sprintf("A%d", summaryRow), "Total")
	f.SetCellValue(customerSheet, fmt.Sprintf("B%d", summaryRow), len(customers))
	f.SetCellStyle(customerSheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("B%d", summaryRow), summaryStyle)

	for i, w := range customerColWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(customerSheet, col, col, w)
	}
	return f, nil
}

// Filename names an export taken at now.
func Filename(now time.Time) string {
	return fmt.Sprintf("customers_%s.xlsx", now.Format("20060102_1504"))
}

func assignee(c *domain.Customer) string {
	if c.IsUnassigned() {
		return "Unassigned"
	}
	if c.AssignedEmployeeName != "" {
		return c.AssignedEmployeeName
	}
	return c.AssignedEmployeeID
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
