package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"salesdash/internal/models"
)

// ExportTable is a delimited-file-ready view of one export table.
type ExportTable struct {
	Filename string
	Headers  []string
	Records  [][]string
}

// utf8BOM helps spreadsheet applications recognize the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes an export table to w, optionally prefixed with a
// UTF-8 BOM.
func WriteCSV(w io.Writer, table ExportTable, bom bool) error {
	if bom {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(table.Headers); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}
	for i, record := range table.Records {
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// NewCustomerEventTable renders the new-customer events for export.
func NewCustomerEventTable(events []models.NewCustomerEvent) ExportTable {
	table := ExportTable{
		Filename: "new_customers.csv",
		Headers:  []string{"month", "customer_code", "customer_name", "value"},
		Records:  make([][]string, 0, len(events)),
	}
	for _, e := range events {
		table.Records = append(table.Records, []string{
			e.Month, e.CustomerCode, e.CustomerName, formatValue(e.Value),
		})
	}
	return table
}

// NewItemEventTable renders the newly-listed-item events for export.
func NewItemEventTable(events []models.NewItemEvent) ExportTable {
	table := ExportTable{
		Filename: "newly_listed_items.csv",
		Headers:  []string{"month", "customer_code", "customer_name", "item_code", "item_description", "value"},
		Records:  make([][]string, 0, len(events)),
	}
	for _, e := range events {
		table.Records = append(table.Records, []string{
			e.Month, e.CustomerCode, e.CustomerName, e.ItemCode, e.ItemDescription, formatValue(e.Value),
		})
	}
	return table
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
