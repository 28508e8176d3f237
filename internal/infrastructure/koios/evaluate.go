package koios

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/seedelf-network/seedelf-wallet/pkg/fee"
)

var purposeOrder = map[string]int{
	"spend":    0,
	"mint":     1,
	"publish":  2,
	"withdraw": 3,
	"vote":     4,
	"propose":  5,
}

type evaluationRequest struct {
	JSONRPC string           `json:"jsonrpc"`
	Method  string           `json:"method"`
	Params  evaluationParams `json:"params"`
}

type evaluationParams struct {
	Transaction struct {
		CBOR string `json:"cbor"`
	} `json:"transaction"`
}

type evaluationResponse struct {
	Result []evaluation     `json:"result"`
	Error  *json.RawMessage `json:"error"`
}

type evaluation struct {
	Validator struct {
		Index   uint32 `json:"index"`
		Purpose string `json:"purpose"`
	} `json:"validator"`
	Budget fee.ExUnits `json:"budget"`
}

// Evaluate asks the node, through Koios' ogmios endpoint, for the execution
// budget of every redeemer of tx. Budgets are returned spend redeemers
// first, each purpose ordered by redeemer index.
func (s *service) Evaluate(ctx context.Context, tx []byte) ([]fee.ExUnits, error) {
	req := evaluationRequest{
		JSONRPC: "2.0",
		Method:  "evaluateTransaction",
	}
	req.Params.Transaction.CBOR = hex.EncodeToString(tx)

	// Ogmios answers a failing evaluation with 400 and a json-rpc error.
	var resp evaluationResponse
	if err := s.post(ctx, "ogmios", req, &resp, http.StatusBadRequest); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%w: %s", fee.ErrEvaluationRejected, string(*resp.Error))
	}

	evaluations := resp.Result
	sort.SliceStable(evaluations, func(i, j int) bool {
		a, b := evaluations[i].Validator, evaluations[j].Validator
		if a.Purpose != b.Purpose {
			return rank(a.Purpose) < rank(b.Purpose)
		}
		return a.Index < b.Index
	})

	budgets := make([]fee.ExUnits, 0, len(evaluations))
	for _, e := range evaluations {
		budgets = append(budgets, e.Budget)
	}
	return budgets, nil
}

func rank(purpose string) int {
	if r, ok := purposeOrder[purpose]; ok {
		return r
	}
	return len(purposeOrder)
}
