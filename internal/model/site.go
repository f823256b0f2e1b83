package model

import "errors"

// JoulesPerKWh converts hourly SSRD accumulations (J/m^2) to kWh/m^2.
const JoulesPerKWh = 3_600_000.0

// SiteParams describes the plant used to turn irradiance into energy.
// Units:
// - AreaCells: m^2 of panel area
// - Efficiency, PerformanceFactor: fractions in (0, 1]
// - ClientP50: MWh, the client's stated median annual production
type SiteParams struct {
	AreaCells         float64
	Efficiency        float64
	PerformanceFactor float64
	ClientP50         float64
}

func (p SiteParams) Validate() error {
	if p.AreaCells <= 0 {
		return errors.New("AreaCells must be > 0")
	}
	if p.Efficiency <= 0 || p.Efficiency > 1 {
		return errors.New("Efficiency must be in (0, 1]")
	}
	if p.PerformanceFactor <= 0 || p.PerformanceFactor > 1 {
		return errors.New("PerformanceFactor must be in (0, 1]")
	}
	if p.ClientP50 < 0 {
		return errors.New("ClientP50 must be >= 0")
	}
	return nil
}

// HourlyEnergyKWh converts one SSRD reading (J/m^2 over an hour) to kWh.
func (p SiteParams) HourlyEnergyKWh(ssrd float64) float64 {
	return ssrd * p.AreaCells * p.Efficiency * p.PerformanceFactor / JoulesPerKWh
}
