package api

import (
	"github.com/rgehrsitz/pengo/internal/calculation"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrorResponse is the body of every non-2xx reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HealthResponse reports liveness and which reference tables are loaded
type HealthResponse struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
}

// ProjectionResponse wraps a report with the ID its usage record was stored under
type ProjectionResponse struct {
	ID     string                   `json:"id"`
	Report *domain.ProjectionReport `json:"report"`
}

// TimelineResponse is the yearly balance projection plus its chart series
type TimelineResponse struct {
	ID         string                     `json:"id"`
	Projection *domain.TimelineProjection `json:"projection"`
	Chart      []calculation.ChartPoint   `json:"chart"`
	Latest     *domain.YearlyBalance      `json:"latest,omitempty"`
}

// TargetRequest asks how long to keep working for a target pension
type TargetRequest struct {
	Input         domain.ProjectionInput `json:"input"`
	TargetPension decimal.Decimal        `json:"targetPension"`
	MaxAge        int                    `json:"maxAge,omitempty"`
}
