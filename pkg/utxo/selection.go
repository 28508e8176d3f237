package utxo

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/seedelf-network/seedelf-wallet/pkg/assets"
	"github.com/seedelf-network/seedelf-wallet/pkg/fee"
)

const (
	// DefaultMaxIterations bounds how many times a selection restarts with
	// a raised target.
	DefaultMaxIterations = 16
	// MaxTokensPerOutput is the most distinct tokens a change output holds.
	MaxTokensPerOutput = 20
	// MaxInputs is the most wallet UTxOs spent by a single transaction.
	MaxInputs = 20
)

var (
	// ErrInsufficientFunds is returned when the available UTxOs can not cover
	// the requested lovelace and tokens.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrSelectionNotConverged is returned when raising the target to cover
	// change does not settle within the iteration cap.
	ErrSelectionNotConverged = errors.New("coin selection did not converge")
)

// Selector picks the inputs paying for a lovelace goal and a set of tokens,
// leaving enough lovelace for the change outputs the leftover tokens need.
type Selector struct {
	Params        fee.Params
	MaxIterations int
}

// NewSelector ...
func NewSelector(params fee.Params, maxIterations int) *Selector {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &Selector{params, maxIterations}
}

// Selection is the outcome of a successful selection.
type Selection struct {
	Utxos    []Utxo
	Lovelace uint64
	Assets   assets.Assets
	// Change holds the selected tokens that were not requested.
	Change assets.Assets
}

type candidate struct {
	utxo     Utxo
	lovelace uint64
	assets   assets.Assets
}

// Select returns the inputs covering goal lovelace and tokens.
func (s *Selector) Select(
	utxos []Utxo, goal uint64, tokens assets.Assets,
) (*Selection, error) {
	candidates, err := sortCandidates(utxos)
	if err != nil {
		return nil, err
	}

	maxIterations := s.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	target := goal
	for i := 0; i < maxIterations; i++ {
		selected, shortfall, err := s.scan(candidates, target, goal, tokens)
		if err != nil {
			return nil, err
		}
		if selected != nil {
			return selected, nil
		}
		if shortfall == 0 {
			return nil, ErrInsufficientFunds
		}
		if target, err = assets.AddAmounts(target, shortfall); err != nil {
			return nil, fmt.Errorf("%w: selection target", err)
		}
	}

	return nil, fmt.Errorf(
		"%w: target raised %d times, last target %d",
		ErrSelectionNotConverged, maxIterations, target,
	)
}

// scan walks candidates once. It returns the selection on success, or the
// lovelace the target must be raised by when the change could not be
// covered. Both nil and zero mean the candidates are exhausted.
func (s *Selector) scan(
	candidates []candidate, target, goal uint64, tokens assets.Assets,
) (*Selection, uint64, error) {
	var (
		selected = make([]Utxo, 0)
		sum      uint64
		found    = assets.Assets{}
		err      error
	)

	for _, c := range candidates {
		added := false

		if !c.assets.IsEmpty() {
			if c.assets.Any(tokens) && !found.Contains(tokens) {
				added = true
			}
		} else if sum < target {
			added = true
		}
		if !added && sum < target && found.Contains(tokens) {
			added = true
		}
		if !added {
			continue
		}

		selected = append(selected, c.utxo)
		if sum, err = assets.AddAmounts(sum, c.lovelace); err != nil {
			return nil, 0, fmt.Errorf("%w: selected lovelace", err)
		}
		if found, err = found.Merge(c.assets); err != nil {
			return nil, 0, err
		}

		if sum < target || !found.Contains(tokens) {
			continue
		}

		change := found.Separate(tokens)
		minimum, err := s.Params.WalletMinimumLovelace(change)
		if err != nil {
			return nil, 0, err
		}
		owed, err := changeLovelace(change, minimum)
		if err != nil {
			return nil, 0, err
		}
		needed, err := assets.AddAmounts(goal, owed)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: selection goal", err)
		}
		if sum >= needed {
			return &Selection{
				Utxos:    selected,
				Lovelace: sum,
				Assets:   found,
				Change:   change,
			}, 0, nil
		}
		return nil, owed, nil
	}

	return nil, 0, nil
}

// changeOutputs is the number of outputs needed to hold change, at least one.
func changeOutputs(change assets.Assets) uint64 {
	n := (change.Len() + MaxTokensPerOutput - 1) / MaxTokensPerOutput
	if n < 1 {
		n = 1
	}
	return uint64(n)
}

// changeLovelace is the lovelace locked by the change outputs of change.
func changeLovelace(change assets.Assets, minimum uint64) (uint64, error) {
	n := changeOutputs(change)
	if minimum > math.MaxUint64/n {
		return 0, fmt.Errorf("%w: change lovelace", assets.ErrAmountOverflow)
	}
	return n * minimum, nil
}

// sortCandidates puts pure lovelace UTxOs first, each group by lovelace
// descending. Ties keep their input order.
func sortCandidates(utxos []Utxo) ([]candidate, error) {
	candidates := make([]candidate, 0, len(utxos))
	for _, u := range utxos {
		v, err := u.Lovelace()
		if err != nil {
			return nil, err
		}
		a, err := u.Assets()
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate{u, v, a})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := candidates[i].assets.IsEmpty(), candidates[j].assets.IsEmpty()
		if pi != pj {
			return pi
		}
		return candidates[i].lovelace > candidates[j].lovelace
	})
	return candidates, nil
}
