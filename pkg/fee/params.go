package fee

// Params are the protocol parameters the fee model depends on.
type Params struct {
	// MinFeeA is the per-byte transaction fee coefficient.
	MinFeeA uint64
	// MinFeeB is the constant transaction fee.
	MinFeeB uint64
	// OverheadCost is the fixed byte overhead charged to every output.
	OverheadCost uint64
	// CostPerByte is the lovelace an output must hold per serialized byte.
	CostPerByte uint64

	MemPriceNumerator    uint64
	MemPriceDenominator  uint64
	StepPriceNumerator   uint64
	StepPriceDenominator uint64

	// RefScriptPerByte is the fee charged per byte of referenced script.
	RefScriptPerByte uint64
}

// DefaultParams returns the mainnet parameters at the time of writing.
func DefaultParams() Params {
	return Params{
		MinFeeA:              44,
		MinFeeB:              155381,
		OverheadCost:         160,
		CostPerByte:          4310,
		MemPriceNumerator:    577,
		MemPriceDenominator:  10_000,
		StepPriceNumerator:   721,
		StepPriceDenominator: 10_000_000,
		RefScriptPerByte:     15,
	}
}

func (p Params) validate() error {
	if p.MemPriceDenominator == 0 || p.StepPriceDenominator == 0 {
		return ErrInvalidParams
	}
	if p.CostPerByte == 0 {
		return ErrInvalidParams
	}
	return nil
}
