package models

// SimulateResponse represents the response from a simulation run.
type SimulateResponse struct {
	ID      string      `json:"id"`
	Status  string      `json:"status"`
	Summary RunSummary  `json:"summary"`
	Ledger  []LedgerRow `json:"ledger,omitempty"`
}

// RunSummary contains the aggregated results of one run.
type RunSummary struct {
	Years     int `json:"years"`
	StartYear int `json:"start_year"`
	EndYear   int `json:"end_year"`

	MeanAnnualMWh float64 `json:"mean_annual_mwh"`
	MinAnnualMWh  float64 `json:"min_annual_mwh"`
	MaxAnnualMWh  float64 `json:"max_annual_mwh"`
	P05AnnualMWh  float64 `json:"p05_annual_mwh"`
	P95AnnualMWh  float64 `json:"p95_annual_mwh"`

	PayoutLimit float64 `json:"payout_limit"`
	BurnCost5   float64 `json:"burn_cost_5y"`
	BurnCost10  float64 `json:"burn_cost_10y"`
	BurnCost20  float64 `json:"burn_cost_20y"`
	BurnCostAll float64 `json:"burn_cost_all"`

	GammaShape float64 `json:"gamma_shape"`
	GammaScale float64 `json:"gamma_scale"`

	ExpectedLoss *float64 `json:"expected_loss,omitempty"`
}

// LedgerRow represents one generation year in the simulation ledger.
type LedgerRow struct {
	Year            int     `json:"year"`
	RescaledMWh     float64 `json:"rescaled_mwh"`
	TrendMWh        float64 `json:"trend_mwh"`
	ResidualMWh     float64 `json:"residual_mwh"`
	DetrendedMWh    float64 `json:"detrended_mwh"`
	PayoutUntrended float64 `json:"payout_untrended"`
	PayoutDetrended float64 `json:"payout_detrended"`
}

// MethodInfo describes one detrending method.
type MethodInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters,omitempty"`
}

// ParameterInfo describes one tunable method parameter.
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Default     interface{} `json:"default,omitempty"`
}

// DatasetInfo describes one dataset file available to the server.
type DatasetInfo struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the error kind and message.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
