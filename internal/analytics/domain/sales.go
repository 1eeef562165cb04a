package domain

// SalesDataPoint is one labeled bar for the sales chart collaborator
type SalesDataPoint struct {
	Label string  `json:"label"`
	Sales float64 `json:"sales"`
}
