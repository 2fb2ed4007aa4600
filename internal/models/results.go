package models

// Summary carries the headline scalars of one dashboard pass.
// TotalSales is the sum of the active main variable; TotalWeight is
// always the weight sum regardless of the main variable.
type Summary struct {
	TotalSales      float64 `json:"total_sales"`
	CustomerCount   int     `json:"customer_count"`
	TotalWeight     float64 `json:"total_weight"`
	CashCustomers   int     `json:"cash_customers"`
	CreditCustomers int     `json:"credit_customers"`
	CashShare       float64 `json:"cash_share"`
	CreditShare     float64 `json:"credit_share"`
}

type AreaSales struct {
	Area  string  `json:"area"`
	Value float64 `json:"value"`
}

type MonthSales struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

type QuarterSales struct {
	Quarter string  `json:"quarter"`
	Value   float64 `json:"value"`
}

// SalesmanSales is one group of the salesman×area cross-tabulation.
// The rendering order of salesmen is descending by Total, which the
// engine bakes into the slice order.
type SalesmanSales struct {
	Salesman string      `json:"salesman"`
	Total    float64     `json:"total"`
	Areas    []AreaSales `json:"areas"`
}

// PivotRow is one row of a key×month pivot. Cells align with the parent
// pivot's Months; a nil cell means no data for that (key, month) pair.
type PivotRow struct {
	Name  string     `json:"name"`
	Cells []*float64 `json:"cells"`
	Total float64    `json:"total"`
}

// Pivot is a two-dimensional sum table. Months are the present months of
// the filtered dataset in calendar order; Rows are sorted ascending by
// their total so heatmaps render smallest rows first.
type Pivot struct {
	Key    string     `json:"key"`
	Months []string   `json:"months"`
	Rows   []PivotRow `json:"rows"`
}

// KPIRow is one period of the monthly KPI table.
// PctChange is nil for the first row and whenever the preceding value is
// zero; it is rendered blank, never zero. NewCustomers and NewlyListed
// are nil when the corresponding KPI extension is disabled.
type KPIRow struct {
	Month              string   `json:"month"`
	Value              float64  `json:"value"`
	Customers          int      `json:"customers"`
	Categories         int      `json:"categories"`
	NewCustomers       *int     `json:"new_customers,omitempty"`
	NewlyListed        *int     `json:"newly_listed,omitempty"`
	PctChange          *float64 `json:"pct_change,omitempty"`
	ProgressPct        float64  `json:"progress_pct"`
	CustomersDeltaPct  float64  `json:"customers_delta_pct"`
	CategoriesDeltaPct float64  `json:"categories_delta_pct"`
}

// NewCustomerEvent records a customer's first appearance in the filtered
// dataset, for the export table. Value is the customer's main-variable
// sum within that period.
type NewCustomerEvent struct {
	Month        string  `json:"month"`
	CustomerCode string  `json:"customer_code"`
	CustomerName string  `json:"customer_name"`
	Value        float64 `json:"value"`
}

// NewItemEvent records the first appearance of a (customer, item) pair.
type NewItemEvent struct {
	Month           string  `json:"month"`
	CustomerCode    string  `json:"customer_code"`
	CustomerName    string  `json:"customer_name"`
	ItemCode        string  `json:"item_code"`
	ItemDescription string  `json:"item_description"`
	Value           float64 `json:"value"`
}

// DashboardResult is the full bundle handed to the presentation layer.
//
// Found is the text-search outcome: false means the search matched zero
// rows, which callers must present as an explicit not-found state.
// Warning is non-empty when an inconsistent month/quarter selection was
// recovered by dropping the month. RecordCount is the size of the final
// filtered subset; zero with Found=true means the attribute filters
// combined to an empty selection.
type DashboardResult struct {
	Found       bool         `json:"found"`
	Warning     string       `json:"warning,omitempty"`
	Metric      MainVariable `json:"metric"`
	RecordCount int          `json:"record_count"`

	Summary        Summary         `json:"summary"`
	SalesByArea    []AreaSales     `json:"sales_by_area"`
	SalesByMonth   []MonthSales    `json:"sales_by_month"`
	SalesByQuarter []QuarterSales  `json:"sales_by_quarter"`
	SalesmanAreas  []SalesmanSales `json:"salesman_areas"`

	CategoryPivot    *Pivot `json:"category_pivot,omitempty"`
	DescriptionPivot *Pivot `json:"description_pivot,omitempty"`
	CustomerPivot    *Pivot `json:"customer_pivot,omitempty"`

	MonthlyKPIs []KPIRow `json:"monthly_kpis"`

	NewCustomerEvents []NewCustomerEvent `json:"new_customer_events,omitempty"`
	NewItemEvents     []NewItemEvent     `json:"new_item_events,omitempty"`
}

// FilterOptions lists the distinct values available for each filterable
// attribute, drawn from the (possibly search-filtered) dataset.
type FilterOptions struct {
	Areas              []string `json:"areas"`
	Months             []string `json:"months"`
	Quarters           []string `json:"quarters"`
	CustomerCategories []string `json:"customer_categories"`
	Salesmen           []string `json:"salesmen"`
	ItemCategories     []string `json:"item_categories"`
	CustomerNames      []string `json:"customer_names"`
	ItemDescriptions   []string `json:"item_descriptions"`
}
