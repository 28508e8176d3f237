package fee

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
)

// Transaction is a built transaction the estimator can measure.
type Transaction interface {
	// Bytes returns the CBOR of the transaction with its current witnesses.
	Bytes() []byte
	// Sign returns a copy of the transaction witnessed by keys.
	Sign(keys ...ed25519.PrivateKey) (Transaction, error)
}

// Evaluator returns one execution budget per redeemer of a transaction, in
// canonical redeemer order.
type Evaluator interface {
	Evaluate(ctx context.Context, tx []byte) ([]ExUnits, error)
}

// BuildFunc builds a transaction paying fee, with one budget per redeemer.
type BuildFunc func(fee uint64, budgets []ExUnits) (Transaction, error)

// Request describes a transaction to converge.
type Request struct {
	Build BuildFunc
	// Redeemers is the number of script redeemers the transaction carries.
	Redeemers int
	// ReferenceScriptSizes lists the byte size of every referenced script.
	ReferenceScriptSizes []uint64
	// Witnesses is the number of vkey witnesses of the final transaction.
	Witnesses int
	// PlaceholderFee defaults to PlaceholderFee when zero.
	PlaceholderFee uint64
}

// Result is a converged, unsigned transaction.
type Result struct {
	Transaction Transaction
	Fee         Breakdown
	Budgets     []ExUnits
}

// Estimator runs the two pass protocol: a draft is built with placeholder
// fee and budgets, signed with throwaway keys to measure its size and
// evaluated for exact budgets; the transaction is then rebuilt with the
// resulting fee.
type Estimator struct {
	Params    Params
	Evaluator Evaluator
}

// NewEstimator ...
func NewEstimator(params Params, evaluator Evaluator) (*Estimator, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	return &Estimator{params, evaluator}, nil
}

// Converge returns the final transaction together with its fee breakdown.
// The returned transaction is not signed.
func (e *Estimator) Converge(ctx context.Context, req Request) (*Result, error) {
	if req.Build == nil {
		return nil, ErrMissingBuild
	}
	placeholderFee := req.PlaceholderFee
	if placeholderFee == 0 {
		placeholderFee = PlaceholderFee
	}

	placeholders := make([]ExUnits, req.Redeemers)
	for i := range placeholders {
		placeholders[i] = Placeholder()
	}

	draft, err := req.Build(placeholderFee, placeholders)
	if err != nil {
		return nil, fmt.Errorf("failed to build draft: %w", err)
	}

	budgets := []ExUnits{}
	if req.Redeemers > 0 {
		if e.Evaluator == nil {
			return nil, fmt.Errorf("%w: no evaluator", ErrEvaluationRejected)
		}
		budgets, err = e.Evaluator.Evaluate(ctx, draft.Bytes())
		if err != nil {
			return nil, err
		}
		if len(budgets) != req.Redeemers {
			return nil, fmt.Errorf(
				"%w: got %d budgets for %d redeemers",
				ErrEvaluationRejected, len(budgets), req.Redeemers,
			)
		}
	}

	size, err := measure(draft, req.Witnesses)
	if err != nil {
		return nil, err
	}
	breakdown := e.Params.Total(size, budgets, req.ReferenceScriptSizes...)

	tx, err := req.Build(breakdown.Total, budgets)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}

	return &Result{
		Transaction: tx,
		Fee:         breakdown,
		Budgets:     budgets,
	}, nil
}

// measure signs tx with n throwaway keys and returns its byte size.
func measure(tx Transaction, n int) (uint64, error) {
	if n <= 0 {
		return uint64(len(tx.Bytes())), nil
	}

	keys := make([]ed25519.PrivateKey, 0, n)
	for i := 0; i < n; i++ {
		_, key, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return 0, err
		}
		keys = append(keys, key)
	}

	signed, err := tx.Sign(keys...)
	if err != nil {
		return 0, fmt.Errorf("failed to sign draft: %w", err)
	}
	return uint64(len(signed.Bytes())), nil
}
