package application

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/google/uuid"
	"github.com/seedelf-network/seedelf-wallet/internal/core/domain"
	"github.com/seedelf-network/seedelf-wallet/internal/core/ports"
	"github.com/seedelf-network/seedelf-wallet/pkg/assets"
	"github.com/seedelf-network/seedelf-wallet/pkg/fee"
	"github.com/seedelf-network/seedelf-wallet/pkg/hashing"
	"github.com/seedelf-network/seedelf-wallet/pkg/register"
	"github.com/seedelf-network/seedelf-wallet/pkg/schnorr"
	"github.com/seedelf-network/seedelf-wallet/pkg/seedelf"
	"github.com/seedelf-network/seedelf-wallet/pkg/utxo"
	log "github.com/sirupsen/logrus"
)

// engine carries what every transaction building service needs.
type engine struct {
	Environment
	estimator *fee.Estimator
	selector  *utxo.Selector
}

func newEngine(env Environment) (*engine, error) {
	if err := env.validate(); err != nil {
		return nil, err
	}
	estimator, err := fee.NewEstimator(env.Params, env.Chain)
	if err != nil {
		return nil, err
	}
	return &engine{
		Environment: env,
		estimator:   estimator,
		selector:    utxo.NewSelector(env.Params, env.MaxSelectionIterations),
	}, nil
}

func (e *engine) walletUtxos(ctx context.Context) ([]utxo.Utxo, error) {
	utxos, err := e.Chain.CredentialUtxos(ctx, e.Config.WalletContractHash)
	if err != nil {
		return nil, err
	}
	log.Debugf("found %d utxos at wallet contract", len(utxos))
	return utxos, nil
}

// scanWallet splits the contract UTxOs owned by sk into spendable ones and
// seedelf holders. A limit > 0 caps the spendable ones.
func scanWallet(
	sk fr.Element, utxos []utxo.Utxo, policyID string, limit int,
) (spendable, seedelfs []utxo.Utxo) {
	spendable = make([]utxo.Utxo, 0)
	seedelfs = make([]utxo.Utxo, 0)

	for _, u := range utxos {
		reg, err := u.Register()
		if err != nil {
			continue
		}
		owned, err := reg.IsOwned(sk)
		if err != nil || !owned {
			continue
		}
		if seedelf.IsSeedelf(u, policyID) {
			seedelfs = append(seedelfs, u)
			continue
		}
		if limit > 0 && len(spendable) >= limit {
			continue
		}
		spendable = append(spendable, u)
	}
	return
}

func findSeedelfUtxo(
	utxos []utxo.Utxo, policyID, tokenName string,
) (*utxo.Utxo, register.Register, error) {
	tokenName = strings.ToLower(tokenName)
	for i := range utxos {
		name, ok := seedelf.FindTokenName(utxos[i], policyID)
		if !ok || name != tokenName {
			continue
		}
		reg, err := utxos[i].Register()
		if err != nil {
			return nil, register.Register{}, err
		}
		u := utxos[i]
		return &u, reg, nil
	}
	return nil, register.Register{}, domain.ErrSeedelfNotFound
}

func outpointsOf(utxos []utxo.Utxo) []utxo.Outpoint {
	outpoints := make([]utxo.Outpoint, 0, len(utxos))
	for _, u := range utxos {
		outpoints = append(outpoints, u.Outpoint())
	}
	return outpoints
}

func keyInputs(utxos []utxo.Utxo) []ports.TxInput {
	inputs := make([]ports.TxInput, 0, len(utxos))
	for _, u := range utxos {
		inputs = append(inputs, ports.TxInput{Outpoint: u.Outpoint()})
	}
	return inputs
}

// spendInputs proves ownership of every contract UTxO, binding each proof
// to the key hash that must sign the transaction.
func spendInputs(
	sk fr.Element, utxos []utxo.Utxo, pkh string,
) ([]ports.TxInput, error) {
	inputs := make([]ports.TxInput, 0, len(utxos))
	for _, u := range utxos {
		reg, err := u.Register()
		if err != nil {
			return nil, fmt.Errorf("utxo %s: %w", u.Outpoint(), err)
		}
		proof, err := schnorr.Prove(reg, sk, pkh)
		if err != nil {
			return nil, err
		}
		redeemer, err := seedelf.SpendRedeemer(proof.Z, proof.Commitment, pkh)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, ports.TxInput{
			Outpoint: u.Outpoint(),
			Redeemer: redeemer,
		})
	}
	return inputs, nil
}

// rerandomizedDatums returns n unlinkable datums of the same register.
func rerandomizedDatums(reg register.Register, n int) ([][]byte, error) {
	datums := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		r, err := reg.Rerandomize()
		if err != nil {
			return nil, err
		}
		datum, err := r.ToPlutusData()
		if err != nil {
			return nil, err
		}
		datums = append(datums, datum)
	}
	return datums, nil
}

func numOfChangeOutputs(change assets.Assets) int {
	n := len(change.Split(utxo.MaxTokensPerOutput))
	if n < 1 {
		n = 1
	}
	return n
}

// changeOutputs spreads the change over outputs of at most
// utxo.MaxTokensPerOutput tokens. Every output but the last holds its
// minimum lovelace, the last one takes what is left. Datums, if given, must
// be one per output.
func changeOutputs(
	params fee.Params, addr []byte, datums [][]byte,
	leftover uint64, change assets.Assets,
) ([]fee.Output, error) {
	if leftover == 0 && change.IsEmpty() {
		return nil, nil
	}

	chunks := change.Split(utxo.MaxTokensPerOutput)
	if len(chunks) == 0 {
		chunks = []assets.Assets{{}}
	}
	if datums != nil && len(datums) < len(chunks) {
		return nil, fmt.Errorf(
			"got %d datums for %d change outputs", len(datums), len(chunks),
		)
	}

	outputs := make([]fee.Output, 0, len(chunks))
	for i, chunk := range chunks {
		out := fee.Output{Address: addr, Lovelace: leftover, Assets: chunk}
		if datums != nil {
			out.Datum = datums[i]
		}
		minimum, err := params.MinOutputLovelace(out)
		if err != nil {
			return nil, err
		}
		if leftover < minimum {
			return nil, fmt.Errorf(
				"%w: change of %d lovelace below minimum %d",
				utxo.ErrInsufficientFunds, leftover, minimum,
			)
		}
		if i < len(chunks)-1 {
			out.Lovelace = minimum
			leftover -= minimum
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

// leftover is total - spent - txFee, failing on underflow.
func leftover(total, spent, txFee uint64) (uint64, error) {
	owed, err := assets.AddAmounts(spent, txFee)
	if err != nil {
		return 0, err
	}
	if total < owed {
		return 0, fmt.Errorf(
			"%w: have %d lovelace, need %d", utxo.ErrInsufficientFunds,
			total, owed,
		)
	}
	return total - owed, nil
}

// providerCollateral returns the collateral input of the collateral
// provider and the output giving back what is not at stake.
func (e *engine) providerCollateral(
	txFee uint64,
) (*utxo.Outpoint, *fee.Output, error) {
	addr, err := e.Config.CollateralAddress()
	if err != nil {
		return nil, nil, err
	}
	value, err := fee.CollateralReturn(fee.CollateralLovelace, txFee)
	if err != nil {
		return nil, nil, err
	}
	in := e.Config.CollateralUtxo
	return &in, &fee.Output{Address: addr.Bytes(), Lovelace: value}, nil
}

type convergeRequest struct {
	draft                func(txFee uint64) (*ports.Draft, error)
	redeemers            int
	referenceScriptSizes []uint64
	witnesses            int
}

func (e *engine) converge(
	ctx context.Context, req convergeRequest,
) (ports.Transaction, *fee.Result, error) {
	result, err := e.estimator.Converge(ctx, fee.Request{
		Build: func(txFee uint64, budgets []fee.ExUnits) (fee.Transaction, error) {
			draft, err := req.draft(txFee)
			if err != nil {
				return nil, err
			}
			draft.Network = e.Config.Network
			draft.Fee = txFee
			draft.Budgets = budgets

			tx, err := e.Builder.Build(draft)
			if err != nil {
				return nil, err
			}
			return tx, nil
		},
		Redeemers:            req.redeemers,
		ReferenceScriptSizes: req.referenceScriptSizes,
		Witnesses:            req.witnesses,
	})
	if err != nil {
		return nil, nil, err
	}

	tx, ok := result.Transaction.(ports.Transaction)
	if !ok {
		return nil, nil, fmt.Errorf(
			"unexpected transaction type %T", result.Transaction,
		)
	}
	log.WithFields(log.Fields{
		"size_fee":      result.Fee.SizeFee,
		"compute_fee":   result.Fee.ComputeFee,
		"reference_fee": result.Fee.ReferenceFee,
		"total":         result.Fee.Total,
	}).Debug("transaction fee converged")
	return tx, result, nil
}

// cosign adds the collateral provider witness, then signs with key.
func (e *engine) cosign(
	ctx context.Context, tx ports.Transaction, key ed25519.PrivateKey,
) (ports.Transaction, error) {
	if e.Collateral == nil {
		return nil, ErrInvalidEnvironment
	}

	sig, err := e.Collateral.Witness(ctx, tx.Bytes())
	if err != nil {
		return nil, err
	}
	pubkey, err := hex.DecodeString(e.Config.CollateralPublicKey)
	if err != nil {
		return nil, fmt.Errorf("invalid collateral public key: %w", err)
	}
	witnessed, err := tx.AddSignature(ed25519.PublicKey(pubkey), sig)
	if err != nil {
		return nil, err
	}

	signed, err := witnessed.Sign(key)
	if err != nil {
		return nil, err
	}
	out, ok := signed.(ports.Transaction)
	if !ok {
		return nil, fmt.Errorf("unexpected transaction type %T", signed)
	}
	return out, nil
}

func (e *engine) submit(ctx context.Context, tx ports.Transaction) error {
	txHash, err := e.Chain.Submit(ctx, tx.Bytes())
	if err != nil {
		return err
	}
	if txHash != tx.Hash() {
		log.Warnf(
			"submitted tx hash %s differs from computed hash %s",
			txHash, tx.Hash(),
		)
	}
	log.Infof("submitted tx %s", txHash)
	return nil
}

// oneTimeKey returns a fresh key and its hash, used once as the required
// signer the spend proofs are bound to.
func oneTimeKey() (ed25519.PrivateKey, string, error) {
	pub, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, "", err
	}
	return key, hashing.KeyHash(pub), nil
}

func newPlan(
	tx ports.Transaction, result *fee.Result, inputs []utxo.Outpoint,
) *Plan {
	return &Plan{
		ID:     uuid.New().String(),
		TxHash: tx.Hash(),
		TxCbor: hex.EncodeToString(tx.Bytes()),
		Fee:    result.Fee,
		Inputs: inputs,
	}
}
