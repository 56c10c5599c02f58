// Package importer parses uploaded spreadsheets into raw Record rows.
package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"salesloop/crm/internal/models"
)

// Column headers recognized in the first row of the sheet. Matching is
// case-insensitive after trimming.
const (
	headerCompany       = "company name"
	headerContact       = "contact name"
	headerContactNumber = "contact number"
	headerEmail         = "email"
	headerProduct       = "product name"
	headerQty           = "qty"
	headerPrice         = "price"
	headerAddress       = "address"
	headerStatus        = "status"
	headerPayment       = "payment"
)

// ParseWorkbook reads the first sheet of an .xlsx workbook and returns one
// Record per non-empty data row. The first row must be a header row; columns
// with unrecognized headers are ignored. Rows are returned un-normalized —
// the record service coerces status/payment at write time.
func ParseWorkbook(r io.Reader) ([]models.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("sheet %q has no header row", sheets[0])
	}

	colIndex := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		colIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}

	cell := func(row []string, header string) string {
		i, ok := colIndex[header]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []models.Record
	for _, row := range rows[1:] {
		empty := true
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}

		records = append(records, models.Record{
			Company:       cell(row, headerCompany),
			Contact:       cell(row, headerContact),
			ContactNumber: cell(row, headerContactNumber),
			Email:         cell(row, headerEmail),
			ProductName:   cell(row, headerProduct),
			Qty:           cell(row, headerQty),
			Price:         cell(row, headerPrice),
			Address:       cell(row, headerAddress),
			Status:        cell(row, headerStatus),
			Payment:       cell(row, headerPayment),
		})
	}

	return records, nil
}
