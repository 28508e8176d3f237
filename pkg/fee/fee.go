// Package fee implements the minimum-output and fee model, plus the two pass
// protocol converging a transaction to its exact fee.
package fee

import (
	"errors"
	"fmt"
)

const (
	// PlaceholderMem and PlaceholderSteps are the maximal budgets a draft
	// transaction carries before evaluation.
	PlaceholderMem   = 14_000_000
	PlaceholderSteps = 10_000_000_000
	// PlaceholderFee is the fee a draft transaction carries before its size
	// is known.
	PlaceholderFee = 200_000
	// CollateralLovelace is the value of the collateral UTxO provided by the
	// collateral service.
	CollateralLovelace = 5_000_000
)

var (
	// ErrInvalidParams is returned when protocol parameters would divide by
	// zero.
	ErrInvalidParams = errors.New("invalid protocol parameters")
	// ErrCollateralTooSmall is returned when 150% of the fee exceeds the
	// collateral value.
	ErrCollateralTooSmall = errors.New("fee too large for collateral")
	// ErrEvaluationRejected is returned when the evaluator rejects a draft or
	// returns a budget count different from the redeemer count.
	ErrEvaluationRejected = errors.New("transaction evaluation rejected")
	// ErrMissingBuild is returned by Converge for a request without a build
	// function.
	ErrMissingBuild = errors.New("missing build function")
)

// ExUnits is an execution budget.
type ExUnits struct {
	Mem   uint64 `json:"memory"`
	Steps uint64 `json:"cpu"`
}

// Placeholder returns the budget drafts are built with.
func Placeholder() ExUnits {
	return ExUnits{Mem: PlaceholderMem, Steps: PlaceholderSteps}
}

// Breakdown details the components of a total fee.
type Breakdown struct {
	SizeFee      uint64 `json:"size_fee"`
	ComputeFee   uint64 `json:"compute_fee"`
	ReferenceFee uint64 `json:"reference_fee"`
	Total        uint64 `json:"total"`
}

// LinearFee is the fee of a transaction of the given byte size.
func (p Params) LinearFee(size uint64) uint64 {
	return p.MinFeeA*size + p.MinFeeB
}

// ComputationFee prices a single redeemer budget. Each component is floored
// on its own.
func (p Params) ComputationFee(mem, cpu uint64) uint64 {
	return p.MemPriceNumerator*mem/p.MemPriceDenominator +
		p.StepPriceNumerator*cpu/p.StepPriceDenominator
}

// TotalComputationFee sums ComputationFee over all budgets.
func (p Params) TotalComputationFee(budgets []ExUnits) uint64 {
	var total uint64
	for _, b := range budgets {
		total += p.ComputationFee(b.Mem, b.Steps)
	}
	return total
}

// ReferenceScriptFee prices the referenced scripts of a transaction.
func (p Params) ReferenceScriptFee(sizes ...uint64) uint64 {
	var total uint64
	for _, s := range sizes {
		total += s * p.RefScriptPerByte
	}
	return total
}

// Total composes a breakdown, rounding the sum up to an even value.
func (p Params) Total(size uint64, budgets []ExUnits, refSizes ...uint64) Breakdown {
	b := Breakdown{
		SizeFee:      p.LinearFee(size),
		ComputeFee:   p.TotalComputationFee(budgets),
		ReferenceFee: p.ReferenceScriptFee(refSizes...),
	}
	b.Total = RoundUpEven(b.SizeFee + b.ComputeFee + b.ReferenceFee)
	return b
}

// RoundUpEven returns x, or x+1 when x is odd.
func RoundUpEven(x uint64) uint64 {
	if x%2 == 1 {
		return x + 1
	}
	return x
}

// CollateralReturn is what goes back to the collateral provider when the
// collateral is seized for a failing script: collateral - fee*3/2.
func CollateralReturn(collateral, fee uint64) (uint64, error) {
	seized := fee * 3 / 2
	if seized > collateral {
		return 0, fmt.Errorf(
			"%w: fee %d requires %d, collateral is %d",
			ErrCollateralTooSmall, fee, seized, collateral,
		)
	}
	return collateral - seized, nil
}
