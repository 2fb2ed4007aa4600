package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

const csvHeader = "customer_code,customer_name,customer_category,salesman,item_code,item_description,item_category,area,month,payment_type,total,weight"

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoaderValidCSV(t *testing.T) {
	path := writeTempCSV(t, csvHeader+"\n"+
		"C001,Alpha Stores,Retail,Said,I1,Rice 5kg,Grains,North,Jan,Cash,100,10\n"+
		"C002,Beta Trading,Wholesale,Omar,I2,Flour 10kg,Grains,South,Feb,Credit,200.5,20.5\n")

	loader := NewLoader(nil)
	data, err := loader.LoadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadFile() = %v", err)
	}
	if len(data) != 2 {
		t.Fatalf("expected 2 records, got %d", len(data))
	}

	// Row order is preserved.
	if data[0].CustomerCode != "C001" || data[1].CustomerCode != "C002" {
		t.Errorf("row order not preserved: %+v", data)
	}
	if data[1].Total != 200.5 || data[1].Weight != 20.5 {
		t.Errorf("numeric parsing: %+v", data[1])
	}
	if data[0].PaymentType != "Cash" || data[1].PaymentType != "Credit" {
		t.Errorf("payment parsing: %+v", data)
	}
}

func TestLoaderFileNotFound(t *testing.T) {
	loader := NewLoader(nil)
	_, err := loader.LoadFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
}

func TestLoaderEmptyFile(t *testing.T) {
	loader := NewLoader(nil)

	_, err := loader.LoadFile(context.Background(), writeTempCSV(t, ""))
	if !errors.Is(err, ErrEmptyFile) {
		t.Errorf("zero-byte file: expected ErrEmptyFile, got %v", err)
	}

	_, err = loader.LoadFile(context.Background(), writeTempCSV(t, csvHeader+"\n"))
	if !errors.Is(err, ErrEmptyFile) {
		t.Errorf("header-only file: expected ErrEmptyFile, got %v", err)
	}
}

func TestLoaderMissingColumns(t *testing.T) {
	loader := NewLoader(nil)
	path := writeTempCSV(t, "customer_code,month,total\nC001,Jan,100\n")

	_, err := loader.LoadFile(context.Background(), path)
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestLoaderAllRowsUnparseable(t *testing.T) {
	loader := NewLoader(nil)
	path := writeTempCSV(t, csvHeader+"\n"+
		"C001,Alpha,Retail,Said,I1,Rice,Grains,North,Januar,Cash,100,10\n"+
		"C002,Beta,Retail,Said,I2,Flour,Grains,North,Jan,Cash,oops,10\n")

	_, err := loader.LoadFile(context.Background(), path)
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestLoaderSkipsBadRowsKeepsGood(t *testing.T) {
	loader := NewLoader(nil)
	path := writeTempCSV(t, csvHeader+"\n"+
		"C001,Alpha,Retail,Said,I1,Rice,Grains,North,Jan,Cash,100,10\n"+
		"C002,Beta,Retail,Said,I2,Flour,Grains,North,NotAMonth,Cash,50,5\n"+
		"C003,Gamma,Retail,Said,I3,Oil,Liquids,South,Feb,Credit,75,7\n")

	data, err := loader.LoadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadFile() = %v", err)
	}
	if len(data) != 2 {
		t.Fatalf("expected 2 good records, got %d", len(data))
	}
	if data[0].CustomerCode != "C001" || data[1].CustomerCode != "C003" {
		t.Errorf("wrong rows survived: %+v", data)
	}
}

func TestLoaderUnknownPaymentTypeRejected(t *testing.T) {
	loader := NewLoader(nil)
	path := writeTempCSV(t, csvHeader+"\n"+
		"C001,Alpha,Retail,Said,I1,Rice,Grains,North,Jan,Barter,100,10\n")

	_, err := loader.LoadFile(context.Background(), path)
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestLoaderExcelWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.xlsx")

	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	rows := [][]any{
		{"customer_code", "customer_name", "customer_category", "salesman", "item_code", "item_description", "item_category", "area", "month", "payment_type", "total", "weight"},
		{"C001", "Alpha Stores", "Retail", "Said", "I1", "Rice 5kg", "Grains", "North", "Jan", "Cash", 100, 10},
		{"C002", "Beta Trading", "Wholesale", "Omar", "I2", "Flour 10kg", "Grains", "South", "Feb", "Credit", 200, 20},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := book.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := book.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(nil)
	data, err := loader.LoadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadFile() = %v", err)
	}
	if len(data) != 2 {
		t.Fatalf("expected 2 records, got %d", len(data))
	}
	if data[0].Area != "North" || data[1].Total != 200 {
		t.Errorf("unexpected records: %+v", data)
	}
}

func TestLoaderExcelNotFound(t *testing.T) {
	loader := NewLoader(nil)
	_, err := loader.LoadFile(context.Background(), filepath.Join(t.TempDir(), "missing.xlsx"))
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
}
