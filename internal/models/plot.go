// internal/models/plot.go
package models

// Plot is a single land plot listing. Size is in square meters.
type Plot struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Size        float64 `json:"size"`
	Price       float64 `json:"price"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
}

// PlotList is the response body shared by every transport.
type PlotList struct {
	Plots []Plot `json:"plots"`
}

// NewPlotList never returns a nil slice so an empty result encodes as "plots": [].
func NewPlotList(plots []Plot) *PlotList {
	if plots == nil {
		plots = []Plot{}
	}
	return &PlotList{Plots: plots}
}

// IDs returns the plot identifiers in list order.
func (l *PlotList) IDs() []string {
	ids := make([]string, len(l.Plots))
	for i, p := range l.Plots {
		ids[i] = p.ID
	}
	return ids
}
