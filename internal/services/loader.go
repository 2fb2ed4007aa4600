package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"salesdash/internal/models"
	"salesdash/internal/period"
)

const (
	batchSize  = 10000
	maxWorkers = 10
)

// Load failures are classified so the caller can word them distinctly.
var (
	ErrFileNotFound = errors.New("dataset file not found")
	ErrEmptyFile    = errors.New("dataset file is empty")
	ErrMalformed    = errors.New("dataset file is malformed")
)

var requiredColumns = []string{
	"customer_code", "customer_name", "customer_category", "salesman",
	"item_code", "item_description", "item_category", "area",
	"month", "payment_type", "total", "weight",
}

// Loader reads a sales dataset from a delimited or spreadsheet file into
// memory. Individual rows with unparseable numeric fields are skipped
// and counted; a file where every data row fails is malformed.
type Loader struct {
	logger *slog.Logger
}

func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// LoadFile reads path into a Transaction slice, preserving row order.
// CSV files are streamed; .xlsx workbooks are read through excelize.
func (l *Loader) LoadFile(ctx context.Context, path string) ([]models.Transaction, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return l.loadExcel(ctx, path)
	default:
		return l.loadCSV(ctx, path)
	}
}

func (l *Loader) loadCSV(ctx context.Context, path string) ([]models.Transaction, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 10*1024*1024)

	if !scanner.Scan() {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	columns, err := mapHeader(strings.Split(scanner.Text(), ","))
	if err != nil {
		return nil, err
	}

	var (
		records   []models.Transaction
		totalRows int
		badRows   int
	)

	batch := make([]string, 0, batchSize)
	flush := func() error {
		parsed, invalid, err := l.parseBatch(ctx, batch, columns)
		if err != nil {
			return err
		}
		records = append(records, parsed...)
		totalRows += len(batch)
		badRows += invalid
		batch = batch[:0]
		return nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		batch = append(batch, line)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return l.finish(path, records, totalRows, badRows)
}

// parseBatch parses a batch of raw CSV lines with a bounded worker pool,
// writing each result to its own slot so row order survives.
func (l *Loader) parseBatch(ctx context.Context, batch []string, columns map[string]int) ([]models.Transaction, int, error) {
	type slot struct {
		tx models.Transaction
		ok bool
	}
	slots := make([]slot, len(batch))

	var g errgroup.Group
	g.SetLimit(maxWorkers)
	for i, line := range batch {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			tx, err := parseRow(strings.Split(line, ","), columns)
			if err != nil {
				return nil // skip the row, keep the slot empty
			}
			slots[i] = slot{tx: tx, ok: true}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	parsed := make([]models.Transaction, 0, len(batch))
	invalid := 0
	for _, s := range slots {
		if s.ok {
			parsed = append(parsed, s.tx)
		} else {
			invalid++
		}
	}
	return parsed, invalid, nil
}

func (l *Loader) loadExcel(ctx context.Context, path string) ([]models.Transaction, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrEmptyFile)
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	columns, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]models.Transaction, 0, len(rows)-1)
	totalRows := 0
	badRows := 0
	for _, row := range rows[1:] {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if len(row) == 0 {
			continue
		}
		totalRows++
		tx, err := parseRow(row, columns)
		if err != nil {
			badRows++
			continue
		}
		records = append(records, tx)
	}

	return l.finish(path, records, totalRows, badRows)
}

func (l *Loader) finish(path string, records []models.Transaction, totalRows, badRows int) ([]models.Transaction, error) {
	if totalRows == 0 {
		return nil, fmt.Errorf("%w: %s has a header but no data rows", ErrEmptyFile, path)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: none of %d rows could be parsed", ErrMalformed, totalRows)
	}
	if badRows > 0 {
		l.logger.Warn("skipped unparseable rows", "file", path, "skipped", badRows, "loaded", len(records))
	}
	l.logger.Info("dataset loaded", "file", path, "records", len(records))
	return records, nil
}

func mapHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", ErrMalformed, strings.Join(missing, ", "))
	}
	return columns, nil
}

func parseRow(fields []string, columns map[string]int) (models.Transaction, error) {
	get := func(name string) string {
		i := columns[name]
		if i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}

	tx := models.Transaction{
		CustomerCode:     get("customer_code"),
		CustomerName:     get("customer_name"),
		CustomerCategory: get("customer_category"),
		Salesman:         get("salesman"),
		ItemCode:         get("item_code"),
		ItemDescription:  get("item_description"),
		ItemCategory:     get("item_category"),
		Area:             get("area"),
		Month:            get("month"),
	}

	if tx.CustomerCode == "" || tx.ItemCode == "" {
		return models.Transaction{}, fmt.Errorf("missing identifier")
	}
	if _, ok := period.MonthIndex(tx.Month); !ok {
		return models.Transaction{}, fmt.Errorf("unknown month %q", tx.Month)
	}

	switch payment := get("payment_type"); {
	case strings.EqualFold(payment, string(models.PaymentCash)):
		tx.PaymentType = models.PaymentCash
	case strings.EqualFold(payment, string(models.PaymentCredit)):
		tx.PaymentType = models.PaymentCredit
	default:
		return models.Transaction{}, fmt.Errorf("unknown payment type %q", payment)
	}

	total, err := strconv.ParseFloat(get("total"), 64)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("total: %w", err)
	}
	weight, err := strconv.ParseFloat(get("weight"), 64)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("weight: %w", err)
	}
	tx.Total = total
	tx.Weight = weight

	return tx, nil
}
