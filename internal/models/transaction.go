package models

type PaymentType string

const (
	PaymentCash   PaymentType = "Cash"
	PaymentCredit PaymentType = "Credit"
)

// Transaction is one row of the loaded sales dataset. Records are
// immutable once loaded; every pipeline stage works on read-only slices.
type Transaction struct {
	CustomerCode     string
	CustomerName     string
	CustomerCategory string
	Salesman         string
	ItemCode         string
	ItemDescription  string
	ItemCategory     string
	Area             string
	Month            string
	PaymentType      PaymentType
	Total            float64
	Weight           float64
}

// MainVariable selects which numeric column aggregations sum over.
type MainVariable string

const (
	MetricTotal  MainVariable = "total"
	MetricWeight MainVariable = "weight"
)

// Value returns the active numeric column of t.
func (m MainVariable) Value(t Transaction) float64 {
	if m == MetricWeight {
		return t.Weight
	}
	return t.Total
}

func (m MainVariable) Valid() bool {
	return m == MetricTotal || m == MetricWeight
}

// NoSelection is the sentinel for an unset filter value.
const NoSelection = "None"

// FilterSelection holds the optional equality constraints of the
// attribute filter chain. An empty string or NoSelection leaves the
// corresponding attribute unconstrained.
type FilterSelection struct {
	Area             string `json:"area,omitempty"`
	Month            string `json:"month,omitempty"`
	Quarter          string `json:"quarter,omitempty"`
	CustomerCategory string `json:"customer_category,omitempty"`
	Salesman         string `json:"salesman,omitempty"`
	ItemCategory     string `json:"item_category,omitempty"`
	CustomerName     string `json:"customer_name,omitempty"`
	ItemDescription  string `json:"item_description,omitempty"`
}

// IsSet reports whether v is an active selection.
func IsSet(v string) bool {
	return v != "" && v != NoSelection
}
