package services

import (
	"bytes"
	"strings"
	"testing"

	"salesdash/internal/models"
)

func TestWriteCSVWithBOM(t *testing.T) {
	table := NewCustomerEventTable([]models.NewCustomerEvent{
		{Month: "Jan", CustomerCode: "C001", CustomerName: "Alpha Stores", Value: 100},
	})

	var buf bytes.Buffer
	if err := WriteCSV(&buf, table, true); err != nil {
		t.Fatalf("WriteCSV() = %v", err)
	}

	out := buf.Bytes()
	if !bytes.HasPrefix(out, utf8BOM) {
		t.Error("expected UTF-8 BOM prefix")
	}

	lines := strings.Split(strings.TrimSpace(string(out[len(utf8BOM):])), "\n")
	if lines[0] != "month,customer_code,customer_name,value" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "Jan,C001,Alpha Stores,100.00" {
		t.Errorf("record = %q", lines[1])
	}
}

func TestWriteCSVWithoutBOM(t *testing.T) {
	table := ExportTable{Headers: []string{"a", "b"}, Records: [][]string{{"1", "2"}}}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, table, false); err != nil {
		t.Fatalf("WriteCSV() = %v", err)
	}
	if bytes.HasPrefix(buf.Bytes(), utf8BOM) {
		t.Error("BOM written when not requested")
	}
}

func TestNewItemEventTable(t *testing.T) {
	table := NewItemEventTable([]models.NewItemEvent{
		{Month: "Feb", CustomerCode: "C003", CustomerName: "Gamma Market", ItemCode: "I3", ItemDescription: "Corn Oil 1L", Value: 50},
	})

	if table.Filename != "newly_listed_items.csv" {
		t.Errorf("filename = %q", table.Filename)
	}
	if len(table.Records) != 1 {
		t.Fatalf("records = %d", len(table.Records))
	}
	want := []string{"Feb", "C003", "Gamma Market", "I3", "Corn Oil 1L", "50.00"}
	for i, field := range want {
		if table.Records[0][i] != field {
			t.Errorf("field %d = %q, want %q", i, table.Records[0][i], field)
		}
	}
}

func TestExportTablesFromPipeline(t *testing.T) {
	opts := kpiOptions()
	opts.CollectEvents = true
	res := Aggregate(salesData(), opts)

	customers := NewCustomerEventTable(res.NewCustomerEvents)
	if len(customers.Records) != 3 {
		t.Errorf("new-customer records = %d, want 3", len(customers.Records))
	}
	items := NewItemEventTable(res.NewItemEvents)
	if len(items.Records) != 5 {
		t.Errorf("newly-listed records = %d, want 5", len(items.Records))
	}
}
