package models

// SimulateRequest represents the request body for running a simulation.
type SimulateRequest struct {
	// Dataset is the CSV file name inside the server's data directory.
	Dataset  string         `json:"dataset" binding:"required"`
	Site     SiteConfig     `json:"site,omitempty"`
	Contract ContractConfig `json:"contract,omitempty"`
	Detrend  DetrendConfig  `json:"detrend,omitempty"`
	Options  SimulateOptions `json:"options,omitempty"`
}

// SiteConfig overrides the plant parameters. Zero fields keep the
// server-side defaults.
type SiteConfig struct {
	Name              string  `json:"name,omitempty"`
	AreaCells         float64 `json:"area_cells,omitempty"`
	Efficiency        float64 `json:"efficiency,omitempty"`
	PerformanceFactor float64 `json:"performance_factor,omitempty"`
	ClientP50         float64 `json:"client_p50,omitempty"`
}

// ContractConfig overrides the contract parameters.
type ContractConfig struct {
	Strike     float64 `json:"strike,omitempty"`
	Exit       float64 `json:"exit,omitempty"`
	PPA        float64 `json:"ppa,omitempty"`
	BlowPoint  float64 `json:"blow_point,omitempty"`
	BlowFactor float64 `json:"blow_factor,omitempty"`
}

// DetrendConfig overrides the detrending parameters.
type DetrendConfig struct {
	Method         string  `json:"method,omitempty"`
	Bandwidth      float64 `json:"bandwidth,omitempty"`
	StartYear      int     `json:"start_year,omitempty"`
	EndYear        int     `json:"end_year,omitempty"`
	YearStartMonth int     `json:"year_start_month,omitempty"`
}

// SimulateOptions contains optional simulation parameters.
type SimulateOptions struct {
	// IncludeLedger inlines the per-year ledger in the response.
	IncludeLedger bool `json:"include_ledger,omitempty"`
	// SobolFile names a uniform-sample CSV inside the data directory to
	// drive the Monte-Carlo expected loss.
	SobolFile string `json:"sobol_file,omitempty"`
}
