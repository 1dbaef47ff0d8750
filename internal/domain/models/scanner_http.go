package models

// Requests for scanner HTTP endpoints. Defined in domain for consistency and reuse.

type ZonesRequest struct {
	Symbol string  `param:"symbol" json:"symbol" validate:"required"`
	Price  float64 `query:"price" json:"price" validate:"gte=0"`
}

type EvaluateRequest struct {
	Symbol string  `json:"symbol" validate:"required"`
	Price  float64 `json:"price" validate:"gte=0"`
}

type RecomputeRequest struct {
	Symbols []string `json:"symbols"`
}
