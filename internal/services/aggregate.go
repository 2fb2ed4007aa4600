package services

import (
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"salesdash/internal/models"
	"salesdash/internal/period"
)

// Options configures one aggregation pass. The near-duplicate dashboard
// variants differ only in which optional KPI extensions they compute, so
// they collapse into toggles here.
type Options struct {
	// Metric is the main variable; defaults to MetricTotal.
	Metric models.MainVariable

	// NewCustomers and NewlyListedItems enable the novelty KPI columns.
	NewCustomers     bool
	NewlyListedItems bool

	// ProgressTarget multiplies the grand total to form the Progress%
	// normalization base. 1 tracks progress against the grand total; one
	// dashboard variant uses 1.5 to model a stretch target. Values <= 0
	// fall back to 1.
	ProgressTarget float64

	// CollectEvents additionally materializes the raw novelty event
	// tables for export.
	CollectEvents bool
}

func (o Options) normalized() Options {
	if !o.Metric.Valid() {
		o.Metric = models.MetricTotal
	}
	if o.ProgressTarget <= 0 {
		o.ProgressTarget = 1
	}
	return o
}

// Aggregate computes the full dashboard bundle from the final filtered
// dataset. Every output is derived independently from the immutable
// input slice, so the independent sections run concurrently and write
// disjoint fields of the result.
//
// An empty dataset is not an error: scalars come back zero and every
// table empty. Zero denominators anywhere resolve to 0 or a blank
// (nil) value, never NaN.
func Aggregate(data []models.Transaction, opts Options) *models.DashboardResult {
	opts = opts.normalized()
	months := period.PresentMonths(data)

	res := &models.DashboardResult{
		Metric:      opts.Metric,
		RecordCount: len(data),
	}

	var g errgroup.Group
	g.Go(func() error {
		res.Summary = summarize(data, opts.Metric)
		return nil
	})
	g.Go(func() error {
		res.SalesByArea = sumByArea(data, opts.Metric)
		return nil
	})
	g.Go(func() error {
		res.SalesByMonth = sumByMonth(data, opts.Metric, months)
		return nil
	})
	g.Go(func() error {
		res.SalesByQuarter = sumByQuarter(data, opts.Metric)
		return nil
	})
	g.Go(func() error {
		res.SalesmanAreas = sumBySalesmanArea(data, opts.Metric)
		return nil
	})
	g.Go(func() error {
		res.CategoryPivot = buildPivot(data, opts.Metric, months, "item_category",
			func(t models.Transaction) string { return t.ItemCategory })
		return nil
	})
	g.Go(func() error {
		res.DescriptionPivot = buildPivot(data, opts.Metric, months, "item_description",
			func(t models.Transaction) string { return t.ItemDescription })
		return nil
	})
	g.Go(func() error {
		res.CustomerPivot = buildPivot(data, opts.Metric, months, "customer_name",
			func(t models.Transaction) string { return t.CustomerName })
		return nil
	})
	g.Go(func() error {
		kpis, custEvents, itemEvents := buildMonthlyKPIs(data, months, opts)
		res.MonthlyKPIs = kpis
		res.NewCustomerEvents = custEvents
		res.NewItemEvents = itemEvents
		return nil
	})
	g.Wait()

	return res
}

func summarize(data []models.Transaction, metric models.MainVariable) models.Summary {
	var s models.Summary
	customers := make(map[string]struct{})
	cash := make(map[string]struct{})
	credit := make(map[string]struct{})

	for _, t := range data {
		s.TotalSales += metric.Value(t)
		s.TotalWeight += t.Weight
		customers[t.CustomerCode] = struct{}{}
		switch t.PaymentType {
		case models.PaymentCash:
			cash[t.CustomerCode] = struct{}{}
		case models.PaymentCredit:
			credit[t.CustomerCode] = struct{}{}
		}
	}

	s.CustomerCount = len(customers)
	s.CashCustomers = len(cash)
	s.CreditCustomers = len(credit)
	if s.CustomerCount > 0 {
		s.CashShare = float64(s.CashCustomers) / float64(s.CustomerCount)
		s.CreditShare = float64(s.CreditCustomers) / float64(s.CustomerCount)
	}
	return s
}

func sumByArea(data []models.Transaction, metric models.MainVariable) []models.AreaSales {
	groups := make(map[string]float64)
	for _, t := range data {
		groups[t.Area] += metric.Value(t)
	}

	result := make([]models.AreaSales, 0, len(groups))
	for area, value := range groups {
		result = append(result, models.AreaSales{Area: area, Value: value})
	}
	slices.SortFunc(result, func(a, b models.AreaSales) int {
		if c := compareDesc(a.Value, b.Value); c != 0 {
			return c
		}
		return strings.Compare(a.Area, b.Area)
	})
	return result
}

func sumByMonth(data []models.Transaction, metric models.MainVariable, months []string) []models.MonthSales {
	groups := make(map[string]float64)
	for _, t := range data {
		groups[t.Month] += metric.Value(t)
	}

	result := make([]models.MonthSales, 0, len(months))
	for _, m := range months {
		result = append(result, models.MonthSales{Month: m, Value: groups[m]})
	}
	return result
}

func sumByQuarter(data []models.Transaction, metric models.MainVariable) []models.QuarterSales {
	groups := make(map[string]float64)
	for _, t := range data {
		if q, ok := period.QuarterOf(t.Month); ok {
			groups[q] += metric.Value(t)
		}
	}

	result := make([]models.QuarterSales, 0, len(groups))
	for _, q := range period.Quarters() {
		if value, ok := groups[q]; ok {
			result = append(result, models.QuarterSales{Quarter: q, Value: value})
		}
	}
	return result
}

// sumBySalesmanArea cross-tabulates the main variable by salesman and
// area. Salesmen are ordered descending by their total across areas;
// downstream rendering relies on this order, not alphabetical.
func sumBySalesmanArea(data []models.Transaction, metric models.MainVariable) []models.SalesmanSales {
	type cell map[string]float64
	groups := make(map[string]cell)
	for _, t := range data {
		areas := groups[t.Salesman]
		if areas == nil {
			areas = make(cell)
			groups[t.Salesman] = areas
		}
		areas[t.Area] += metric.Value(t)
	}

	result := make([]models.SalesmanSales, 0, len(groups))
	for salesman, areas := range groups {
		row := models.SalesmanSales{Salesman: salesman, Areas: make([]models.AreaSales, 0, len(areas))}
		for area, value := range areas {
			row.Areas = append(row.Areas, models.AreaSales{Area: area, Value: value})
			row.Total += value
		}
		slices.SortFunc(row.Areas, func(a, b models.AreaSales) int {
			return strings.Compare(a.Area, b.Area)
		})
		result = append(result, row)
	}

	slices.SortFunc(result, func(a, b models.SalesmanSales) int {
		if c := compareDesc(a.Total, b.Total); c != 0 {
			return c
		}
		return strings.Compare(a.Salesman, b.Salesman)
	})
	return result
}

// buildPivot sums the main variable per (key, month) cell. Columns are
// the present months in calendar order; rows are sorted ascending by
// their total so the smallest rows render first. Absent cells stay nil.
func buildPivot(data []models.Transaction, metric models.MainVariable, months []string, key string, keyOf func(models.Transaction) string) *models.Pivot {
	col := make(map[string]int, len(months))
	for i, m := range months {
		col[m] = i
	}

	cells := make(map[string][]*float64)
	for _, t := range data {
		name := keyOf(t)
		row := cells[name]
		if row == nil {
			row = make([]*float64, len(months))
			cells[name] = row
		}
		i := col[t.Month]
		if row[i] == nil {
			row[i] = new(float64)
		}
		*row[i] += metric.Value(t)
	}

	pivot := &models.Pivot{Key: key, Months: months, Rows: make([]models.PivotRow, 0, len(cells))}
	for name, row := range cells {
		total := 0.0
		for _, c := range row {
			if c != nil {
				total += *c
			}
		}
		pivot.Rows = append(pivot.Rows, models.PivotRow{Name: name, Cells: row, Total: total})
	}

	slices.SortFunc(pivot.Rows, func(a, b models.PivotRow) int {
		if a.Total < b.Total {
			return -1
		}
		if a.Total > b.Total {
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})
	return pivot
}

// buildMonthlyKPIs walks the present months strictly in calendar order,
// maintaining running seen-sets for the novelty counts: an entity
// counts as new only in the first period it appears in, never again.
func buildMonthlyKPIs(data []models.Transaction, months []string, opts Options) ([]models.KPIRow, []models.NewCustomerEvent, []models.NewItemEvent) {
	byMonth := make(map[string][]models.Transaction, len(months))
	for _, t := range data {
		byMonth[t.Month] = append(byMonth[t.Month], t)
	}

	totalCustomers := make(map[string]struct{})
	totalCategories := make(map[string]struct{})
	grandTotal := 0.0
	for _, t := range data {
		totalCustomers[t.CustomerCode] = struct{}{}
		totalCategories[t.ItemCategory] = struct{}{}
		grandTotal += opts.Metric.Value(t)
	}
	progressBase := grandTotal * opts.ProgressTarget

	type pair struct{ customer, item string }
	seenCustomers := make(map[string]struct{})
	seenPairs := make(map[pair]struct{})

	rows := make([]models.KPIRow, 0, len(months))
	var custEvents []models.NewCustomerEvent
	var itemEvents []models.NewItemEvent

	cumulative := 0.0
	var prev *float64

	for _, m := range months {
		monthData := byMonth[m]

		row := models.KPIRow{Month: m}
		customers := make(map[string]struct{})
		categories := make(map[string]struct{})
		customerValue := make(map[string]float64)
		customerName := make(map[string]string)
		pairValue := make(map[pair]float64)

		for _, t := range monthData {
			row.Value += opts.Metric.Value(t)
			customers[t.CustomerCode] = struct{}{}
			categories[t.ItemCategory] = struct{}{}
			customerValue[t.CustomerCode] += opts.Metric.Value(t)
			customerName[t.CustomerCode] = t.CustomerName
			pairValue[pair{t.CustomerCode, t.ItemCode}] += opts.Metric.Value(t)
		}
		row.Customers = len(customers)
		row.Categories = len(categories)

		if opts.NewCustomers {
			count := 0
			for _, t := range monthData {
				if _, ok := seenCustomers[t.CustomerCode]; ok {
					continue
				}
				seenCustomers[t.CustomerCode] = struct{}{}
				count++
				if opts.CollectEvents {
					custEvents = append(custEvents, models.NewCustomerEvent{
						Month:        m,
						CustomerCode: t.CustomerCode,
						CustomerName: t.CustomerName,
						Value:        customerValue[t.CustomerCode],
					})
				}
			}
			row.NewCustomers = &count
		}

		if opts.NewlyListedItems {
			count := 0
			for _, t := range monthData {
				p := pair{t.CustomerCode, t.ItemCode}
				if _, ok := seenPairs[p]; ok {
					continue
				}
				seenPairs[p] = struct{}{}
				count++
				if opts.CollectEvents {
					itemEvents = append(itemEvents, models.NewItemEvent{
						Month:           m,
						CustomerCode:    t.CustomerCode,
						CustomerName:    customerName[t.CustomerCode],
						ItemCode:        t.ItemCode,
						ItemDescription: t.ItemDescription,
						Value:           pairValue[p],
					})
				}
			}
			row.NewlyListed = &count
		}

		if prev != nil && *prev != 0 {
			change := (row.Value - *prev) / *prev * 100
			row.PctChange = &change
		}
		value := row.Value
		prev = &value

		cumulative += row.Value
		if progressBase != 0 {
			row.ProgressPct = cumulative / progressBase * 100
		}
		if len(totalCustomers) > 0 {
			row.CustomersDeltaPct = float64(row.Customers) / float64(len(totalCustomers)) * 100
		}
		if len(totalCategories) > 0 {
			row.CategoriesDeltaPct = float64(row.Categories) / float64(len(totalCategories)) * 100
		}

		rows = append(rows, row)
	}

	return rows, custEvents, itemEvents
}

func compareDesc(a, b float64) int {
	if a > b {
		return -1
	}
	if a < b {
		return 1
	}
	return 0
}
