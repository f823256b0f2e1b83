package model

import "fmt"

// ContractParams defines the generation-shortfall contract.
// Units:
// - Strike, Exit, BlowPoint: MWh (annual settlement energy thresholds)
// - PPA: currency per MWh
// - BlowFactor: percent; negative values widen the tail below BlowPoint
//
// The contract pays when annual generation falls short of Strike; the payout
// grows linearly with the shortfall and is capped once generation reaches
// Exit, so Exit must sit strictly below Strike.
type ContractParams struct {
	Strike     float64
	Exit       float64
	PPA        float64
	BlowPoint  float64
	BlowFactor float64
}

// InvalidContractParamsError reports a contract rejected by validation.
type InvalidContractParamsError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidContractParamsError) Error() string {
	return fmt.Sprintf("invalid contract params: %s=%g (%s)", e.Field, e.Value, e.Reason)
}

// Validate checks the contract once, at the boundary, before any simulation.
func (p ContractParams) Validate() error {
	if p.Strike <= 0 {
		return &InvalidContractParamsError{Field: "strike", Value: p.Strike, Reason: "must be > 0"}
	}
	if p.PPA <= 0 {
		return &InvalidContractParamsError{Field: "ppa", Value: p.PPA, Reason: "must be > 0"}
	}
	if p.Exit < 0 {
		return &InvalidContractParamsError{Field: "exit", Value: p.Exit, Reason: "must be >= 0"}
	}
	if p.Exit >= p.Strike {
		return &InvalidContractParamsError{Field: "exit", Value: p.Exit, Reason: "must be below strike"}
	}
	if p.BlowPoint <= 0 {
		return &InvalidContractParamsError{Field: "blow_point", Value: p.BlowPoint, Reason: "must be > 0"}
	}
	return nil
}

// PayoutLimit is the maximum per-period payout: (Strike - Exit) * PPA.
func (p ContractParams) PayoutLimit() float64 {
	return (p.Strike - p.Exit) * p.PPA
}

// PayoutRecord is one settled period. Created once per simulation and
// immutable thereafter.
type PayoutRecord struct {
	Year       int
	Settlement float64 // settlement energy, MWh
	Payout     float64 // currency
}
