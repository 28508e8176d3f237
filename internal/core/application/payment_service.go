package application

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/seedelf-network/seedelf-wallet/internal/core/domain"
	"github.com/seedelf-network/seedelf-wallet/internal/core/ports"
	"github.com/seedelf-network/seedelf-wallet/pkg/assets"
	"github.com/seedelf-network/seedelf-wallet/pkg/ecies"
	"github.com/seedelf-network/seedelf-wallet/pkg/fee"
	"github.com/seedelf-network/seedelf-wallet/pkg/register"
	"github.com/seedelf-network/seedelf-wallet/pkg/utxo"
	log "github.com/sirupsen/logrus"
)

type PaymentService interface {
	// Fund builds the transaction paying a seedelf from a key address. It
	// must be signed by the address owner.
	Fund(ctx context.Context, req FundRequest) (*Plan, error)
	// Transfer pays a seedelf from the session wallet and submits.
	Transfer(
		ctx context.Context,
		session *domain.Session,
		req TransferRequest,
	) (*Plan, error)
	// Sweep pays a key address from the session wallet and submits.
	Sweep(
		ctx context.Context,
		session *domain.Session,
		req SweepRequest,
	) (*Plan, error)
	Submit(ctx context.Context, txHex string) (string, error)
}

type paymentService struct {
	*engine
}

func NewPaymentService(env Environment) (PaymentService, error) {
	e, err := newEngine(env)
	if err != nil {
		return nil, err
	}
	return &paymentService{e}, nil
}

func (p *paymentService) Fund(
	ctx context.Context, req FundRequest,
) (*Plan, error) {
	funder, err := decodeKeyAddress(req.Address, p.Config.Network)
	if err != nil {
		return nil, err
	}

	walletUtxos, err := p.walletUtxos(ctx)
	if err != nil {
		return nil, err
	}
	_, reg, err := findSeedelfUtxo(
		walletUtxos, p.Config.SeedelfPolicyID, req.TokenName,
	)
	if err != nil {
		return nil, err
	}

	addrUtxos, err := p.Chain.AddressUtxos(ctx, funder.String())
	if err != nil {
		return nil, err
	}
	candidates := make([]utxo.Utxo, 0, len(addrUtxos))
	for _, u := range addrUtxos {
		if !utxo.IsCollateral(u) {
			candidates = append(candidates, u)
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNothingToSpend
	}

	lovelace, err := p.checkWalletOutput(req.Lovelace, req.Assets)
	if err != nil {
		return nil, err
	}
	selection, err := p.selector.Select(
		candidates, lovelace+fee.PlaceholderFee, req.Assets,
	)
	if err != nil {
		return nil, err
	}

	datums, err := rerandomizedDatums(reg, 1)
	if err != nil {
		return nil, err
	}
	walletAddr, err := p.Config.WalletAddress()
	if err != nil {
		return nil, err
	}

	draft := func(txFee uint64) (*ports.Draft, error) {
		left, err := leftover(selection.Lovelace, lovelace, txFee)
		if err != nil {
			return nil, err
		}
		change, err := changeOutputs(
			p.Params, funder.Bytes(), nil, left, selection.Change,
		)
		if err != nil {
			return nil, err
		}
		outputs := append([]fee.Output{{
			Address:  walletAddr.Bytes(),
			Lovelace: lovelace,
			Assets:   req.Assets,
			Datum:    datums[0],
		}}, change...)

		return &ports.Draft{
			Inputs:  keyInputs(selection.Utxos),
			Outputs: outputs,
		}, nil
	}

	tx, result, err := p.converge(ctx, convergeRequest{
		draft:     draft,
		witnesses: 1,
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"seedelf":  req.TokenName,
		"lovelace": lovelace,
	}).Info("fund transaction built")
	return newPlan(tx, result, outpointsOf(selection.Utxos)), nil
}

func (p *paymentService) Transfer(
	ctx context.Context, session *domain.Session, req TransferRequest,
) (*Plan, error) {
	lovelace, err := p.checkWalletOutput(req.Lovelace, req.Assets)
	if err != nil {
		return nil, err
	}

	utxos, err := p.walletUtxos(ctx)
	if err != nil {
		return nil, err
	}
	_, recipient, err := findSeedelfUtxo(
		utxos, p.Config.SeedelfPolicyID, req.TokenName,
	)
	if err != nil {
		return nil, err
	}
	receiving, err := recipient.Rerandomize()
	if err != nil {
		return nil, err
	}
	datum, err := receiving.ToPlutusData()
	if err != nil {
		return nil, err
	}

	var metadata []byte
	if len(req.Message) > 0 {
		ciphertext, err := ecies.Encrypt(req.Message, receiving)
		if err != nil {
			return nil, err
		}
		if metadata, err = ciphertext.Metadata(); err != nil {
			return nil, err
		}
	}

	walletAddr, err := p.Config.WalletAddress()
	if err != nil {
		return nil, err
	}

	return p.spend(ctx, session, utxos, spendRequest{
		payments: []fee.Output{{
			Address:  walletAddr.Bytes(),
			Lovelace: lovelace,
			Assets:   req.Assets,
			Datum:    datum,
		}},
		lovelace: lovelace,
		tokens:   req.Assets,
		metadata: metadata,
	})
}

func (p *paymentService) Sweep(
	ctx context.Context, session *domain.Session, req SweepRequest,
) (*Plan, error) {
	receiver, err := decodeKeyAddress(req.Address, p.Config.Network)
	if err != nil {
		return nil, err
	}

	utxos, err := p.walletUtxos(ctx)
	if err != nil {
		return nil, err
	}

	if req.All {
		return p.spend(ctx, session, utxos, spendRequest{
			all:      true,
			receiver: receiver.Bytes(),
		})
	}

	minimum, err := p.Params.AddressMinimumLovelace(receiver, req.Assets)
	if err != nil {
		return nil, err
	}
	if req.Lovelace < minimum {
		return nil, fmt.Errorf(
			"%w: %d < %d", ErrAmountTooSmall, req.Lovelace, minimum,
		)
	}

	return p.spend(ctx, session, utxos, spendRequest{
		payments: []fee.Output{{
			Address:  receiver.Bytes(),
			Lovelace: req.Lovelace,
			Assets:   req.Assets,
		}},
		lovelace: req.Lovelace,
		tokens:   req.Assets,
	})
}

func (p *paymentService) Submit(
	ctx context.Context, txHex string,
) (string, error) {
	tx, err := hex.DecodeString(txHex)
	if err != nil {
		return "", fmt.Errorf("invalid transaction hex: %w", err)
	}
	return p.Chain.Submit(ctx, tx)
}

// checkWalletOutput returns the lovelace of a wallet contract output holding
// tokens, the minimum when zero is given.
func (p *paymentService) checkWalletOutput(
	lovelace uint64, tokens assets.Assets,
) (uint64, error) {
	minimum, err := p.Params.WalletMinimumLovelace(tokens)
	if err != nil {
		return 0, err
	}
	if lovelace == 0 {
		return minimum, nil
	}
	if lovelace < minimum {
		return 0, fmt.Errorf("%w: %d < %d", ErrAmountTooSmall, lovelace, minimum)
	}
	return lovelace, nil
}

type spendRequest struct {
	payments []fee.Output
	lovelace uint64
	tokens   assets.Assets
	metadata []byte
	// all spends every owned UTxO to receiver, the fee is taken from it.
	all      bool
	receiver []byte
}

// spend builds, co-signs and submits a transaction spending owned wallet
// UTxOs. Change goes back to the wallet under fresh registers.
func (p *paymentService) spend(
	ctx context.Context, session *domain.Session,
	utxos []utxo.Utxo, req spendRequest,
) (*Plan, error) {
	walletAddr, err := p.Config.WalletAddress()
	if err != nil {
		return nil, err
	}
	key, pkh, err := oneTimeKey()
	if err != nil {
		return nil, err
	}

	var (
		inputs   []ports.TxInput
		selected []utxo.Utxo
		total    uint64
		held     assets.Assets
		change   assets.Assets
		datums   [][]byte
	)
	if err := session.WithKey(func(sk fr.Element) error {
		owned, _ := scanWallet(
			sk, utxos, p.Config.SeedelfPolicyID, utxo.MaxInputs,
		)
		if len(owned) == 0 {
			return ErrNothingToSpend
		}

		if req.all {
			selected = owned
			var err error
			if total, held, err = utxo.AssetsOf(owned); err != nil {
				return err
			}
		} else {
			selection, err := p.selector.Select(
				owned, req.lovelace+fee.PlaceholderFee, req.tokens,
			)
			if err != nil {
				return err
			}
			selected, total, change = selection.Utxos, selection.Lovelace, selection.Change

			if datums, err = rerandomizedDatums(
				register.Create(sk), numOfChangeOutputs(change),
			); err != nil {
				return err
			}
		}

		var err error
		inputs, err = spendInputs(sk, selected, pkh)
		return err
	}); err != nil {
		return nil, err
	}

	draft := func(txFee uint64) (*ports.Draft, error) {
		var outputs []fee.Output
		if req.all {
			value, err := leftover(total, 0, txFee)
			if err != nil {
				return nil, err
			}
			outputs = []fee.Output{{
				Address: req.receiver, Lovelace: value, Assets: held,
			}}
		} else {
			left, err := leftover(total, req.lovelace, txFee)
			if err != nil {
				return nil, err
			}
			changeOuts, err := changeOutputs(
				p.Params, walletAddr.Bytes(), datums, left, change,
			)
			if err != nil {
				return nil, err
			}
			outputs = append(append(outputs, req.payments...), changeOuts...)
		}

		collateralIn, collateralReturn, err := p.providerCollateral(txFee)
		if err != nil {
			return nil, err
		}
		return &ports.Draft{
			Inputs:           inputs,
			ReferenceInputs:  []utxo.Outpoint{p.Config.WalletReference},
			Outputs:          outputs,
			CollateralInput:  collateralIn,
			CollateralReturn: collateralReturn,
			RequiredSigners:  []string{pkh, p.Config.CollateralKeyHash},
			Metadata:         req.metadata,
		}, nil
	}

	tx, result, err := p.converge(ctx, convergeRequest{
		draft:                draft,
		redeemers:            len(inputs),
		referenceScriptSizes: []uint64{p.Config.WalletContractSize},
		witnesses:            2,
	})
	if err != nil {
		return nil, err
	}

	signed, err := p.cosign(ctx, tx, key)
	if err != nil {
		return nil, err
	}
	if err := p.submit(ctx, signed); err != nil {
		return nil, err
	}

	plan := newPlan(signed, result, outpointsOf(selected))
	plan.Signed = true
	plan.Submitted = true
	return plan, nil
}
