// internal/workers/plots/query-plots/models.go
package queryplots

import "plot-query-service/internal/models"

// Input carries the query parameters as the process variable queryParams.
// Values may be strings or numbers.
type Input struct {
	QueryParams map[string]interface{} `json:"queryParams"`
}

type Output struct {
	Plots []models.Plot `json:"plots"`
	Count int           `json:"count"`
}
