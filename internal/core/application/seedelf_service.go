package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/seedelf-network/seedelf-wallet/internal/core/domain"
	"github.com/seedelf-network/seedelf-wallet/internal/core/ports"
	"github.com/seedelf-network/seedelf-wallet/pkg/assets"
	"github.com/seedelf-network/seedelf-wallet/pkg/fee"
	"github.com/seedelf-network/seedelf-wallet/pkg/register"
	"github.com/seedelf-network/seedelf-wallet/pkg/seedelf"
	"github.com/seedelf-network/seedelf-wallet/pkg/utxo"
	log "github.com/sirupsen/logrus"
)

type SeedelfService interface {
	// Find returns the seedelfs whose token name, or known label, contains
	// the given substring.
	Find(ctx context.Context, label string) ([]domain.Seedelf, error)
	Resolve(ctx context.Context, tokenName string) (*domain.Seedelf, error)
	Owned(ctx context.Context, session *domain.Session) ([]domain.Seedelf, error)
	List(ctx context.Context, ownedOnly bool) ([]domain.Seedelf, error)
	Create(
		ctx context.Context,
		session *domain.Session,
		address string,
		label string,
	) (*Plan, error)
	Remove(
		ctx context.Context,
		session *domain.Session,
		tokenName string,
		address string,
	) (*Plan, error)
}

// pendingMintWindow is how long a cached seedelf survives without being
// seen on chain.
const pendingMintWindow = 10 * time.Minute

type seedelfService struct {
	seedelfRepository domain.SeedelfRepository
	*engine
}

func NewSeedelfService(
	seedelfRepository domain.SeedelfRepository,
	env Environment,
) (SeedelfService, error) {
	if seedelfRepository == nil {
		return nil, ErrInvalidEnvironment
	}
	e, err := newEngine(env)
	if err != nil {
		return nil, err
	}
	return &seedelfService{seedelfRepository, e}, nil
}

func (s *seedelfService) Find(
	ctx context.Context, label string,
) ([]domain.Seedelf, error) {
	if _, err := s.refresh(ctx, nil); err != nil {
		return nil, err
	}
	return s.seedelfRepository.FindSeedelfsByLabel(ctx, label)
}

// Resolve returns the seedelf as seen on chain. The cached record is used
// when the chain can not be reached.
func (s *seedelfService) Resolve(
	ctx context.Context, tokenName string,
) (*domain.Seedelf, error) {
	if _, err := s.refresh(ctx, nil); err != nil {
		if !errors.Is(err, ports.ErrChainQuery) {
			return nil, err
		}
		log.WithError(err).Warn("chain unreachable, resolving from cache")
	}
	return s.seedelfRepository.GetSeedelf(ctx, tokenName)
}

func (s *seedelfService) Owned(
	ctx context.Context, session *domain.Session,
) ([]domain.Seedelf, error) {
	seedelfs, err := s.refresh(ctx, session)
	if err != nil {
		return nil, err
	}

	owned := make([]domain.Seedelf, 0)
	for _, sf := range seedelfs {
		if sf.Owned {
			owned = append(owned, sf)
		}
	}
	return owned, nil
}

func (s *seedelfService) List(
	ctx context.Context, ownedOnly bool,
) ([]domain.Seedelf, error) {
	return s.seedelfRepository.ListSeedelfs(ctx, ownedOnly)
}

// Create mints a new seedelf to the session wallet, paid by the given key
// address. The returned transaction must be signed by that address.
func (s *seedelfService) Create(
	ctx context.Context, session *domain.Session, addr, label string,
) (*Plan, error) {
	owner, err := decodeKeyAddress(addr, s.Config.Network)
	if err != nil {
		return nil, err
	}

	addrUtxos, err := s.Chain.AddressUtxos(ctx, owner.String())
	if err != nil {
		return nil, err
	}
	var collateral *utxo.Utxo
	candidates := make([]utxo.Utxo, 0, len(addrUtxos))
	for i, u := range addrUtxos {
		if collateral == nil && utxo.IsCollateral(u) {
			collateral = &addrUtxos[i]
			continue
		}
		candidates = append(candidates, u)
	}
	if collateral == nil {
		return nil, ErrMissingCollateral
	}
	if len(candidates) == 0 {
		return nil, ErrNothingToSpend
	}

	minimum, err := s.Params.SeedelfMinimumLovelace()
	if err != nil {
		return nil, err
	}
	selection, err := s.selector.Select(
		candidates, minimum+fee.PlaceholderFee, assets.Assets{},
	)
	if err != nil {
		return nil, err
	}
	inputs := outpointsOf(selection.Utxos)

	tokenName, err := seedelf.TokenName(label, inputs)
	if err != nil {
		return nil, err
	}
	token, err := assets.NewAsset(s.Config.SeedelfPolicyID, tokenName, 1)
	if err != nil {
		return nil, err
	}
	minted, err := assets.New(token)
	if err != nil {
		return nil, err
	}

	var reg register.Register
	if err := session.WithKey(func(sk fr.Element) error {
		reg, err = register.Create(sk).Rerandomize()
		return err
	}); err != nil {
		return nil, err
	}
	datum, err := reg.ToPlutusData()
	if err != nil {
		return nil, err
	}
	walletAddr, err := s.Config.WalletAddress()
	if err != nil {
		return nil, err
	}
	collateralIn := collateral.Outpoint()

	draft := func(txFee uint64) (*ports.Draft, error) {
		left, err := leftover(selection.Lovelace, minimum, txFee)
		if err != nil {
			return nil, err
		}
		change, err := changeOutputs(
			s.Params, owner.Bytes(), nil, left, selection.Change,
		)
		if err != nil {
			return nil, err
		}
		collateralReturn, err := fee.CollateralReturn(
			fee.CollateralLovelace, txFee,
		)
		if err != nil {
			return nil, err
		}

		outputs := append([]fee.Output{{
			Address:  walletAddr.Bytes(),
			Lovelace: minimum,
			Assets:   minted,
			Datum:    datum,
		}}, change...)

		return &ports.Draft{
			Inputs:          keyInputs(selection.Utxos),
			ReferenceInputs: []utxo.Outpoint{s.Config.SeedelfReference},
			Outputs:         outputs,
			Mint: &ports.Mint{
				PolicyID: s.Config.SeedelfPolicyID,
				Assets:   map[string]int64{tokenName: 1},
				Redeemer: seedelf.MintRedeemer(label),
			},
			CollateralInput: &collateralIn,
			CollateralReturn: &fee.Output{
				Address:  owner.Bytes(),
				Lovelace: collateralReturn,
			},
		}, nil
	}

	tx, result, err := s.converge(ctx, convergeRequest{
		draft:                draft,
		redeemers:            1,
		referenceScriptSizes: []uint64{s.Config.SeedelfContractSize},
		witnesses:            1,
	})
	if err != nil {
		return nil, err
	}

	if err := s.seedelfRepository.UpsertSeedelfs(ctx, []domain.Seedelf{{
		TokenName: tokenName,
		Label:     label,
		TxHash:    tx.Hash(),
		TxIndex:   0,
		Register:  reg,
		Owned:     true,
	}}); err != nil {
		log.WithError(err).Warn("failed to cache new seedelf")
	}

	plan := newPlan(tx, result, inputs)
	plan.TokenName = tokenName
	log.WithField("token", tokenName).Info("seedelf mint transaction built")
	return plan, nil
}

// Remove burns a seedelf of the session wallet and sends what its UTxO
// holds to the given address. The transaction is submitted.
func (s *seedelfService) Remove(
	ctx context.Context, session *domain.Session, tokenName, addr string,
) (*Plan, error) {
	receiver, err := decodeKeyAddress(addr, s.Config.Network)
	if err != nil {
		return nil, err
	}

	utxos, err := s.walletUtxos(ctx)
	if err != nil {
		return nil, err
	}
	holder, reg, err := findSeedelfUtxo(
		utxos, s.Config.SeedelfPolicyID, tokenName,
	)
	if err != nil {
		return nil, err
	}

	lovelace, err := holder.Lovelace()
	if err != nil {
		return nil, err
	}
	held, err := holder.Assets()
	if err != nil {
		return nil, err
	}
	token, err := assets.NewAsset(s.Config.SeedelfPolicyID, tokenName, 1)
	if err != nil {
		return nil, err
	}
	rest := held.Sub(token)

	key, pkh, err := oneTimeKey()
	if err != nil {
		return nil, err
	}

	var inputs []ports.TxInput
	if err := session.WithKey(func(sk fr.Element) error {
		owned, err := reg.IsOwned(sk)
		if err != nil {
			return err
		}
		if !owned {
			return ErrNotOwner
		}
		inputs, err = spendInputs(sk, []utxo.Utxo{*holder}, pkh)
		return err
	}); err != nil {
		return nil, err
	}

	draft := func(txFee uint64) (*ports.Draft, error) {
		value, err := leftover(lovelace, 0, txFee)
		if err != nil {
			return nil, err
		}
		out := fee.Output{
			Address:  receiver.Bytes(),
			Lovelace: value,
			Assets:   rest,
		}
		minimum, err := s.Params.MinOutputLovelace(out)
		if err != nil {
			return nil, err
		}
		if value < minimum {
			return nil, fmt.Errorf(
				"%w: %d lovelace left after fee", ErrAmountTooSmall, value,
			)
		}
		collateralIn, collateralReturn, err := s.providerCollateral(txFee)
		if err != nil {
			return nil, err
		}

		return &ports.Draft{
			Inputs: inputs,
			ReferenceInputs: []utxo.Outpoint{
				s.Config.SeedelfReference, s.Config.WalletReference,
			},
			Outputs: []fee.Output{out},
			Mint: &ports.Mint{
				PolicyID: s.Config.SeedelfPolicyID,
				Assets:   map[string]int64{tokenName: -1},
				Redeemer: seedelf.MintRedeemer(""),
			},
			CollateralInput:  collateralIn,
			CollateralReturn: collateralReturn,
			RequiredSigners:  []string{pkh, s.Config.CollateralKeyHash},
		}, nil
	}

	tx, result, err := s.converge(ctx, convergeRequest{
		draft:     draft,
		redeemers: 2,
		referenceScriptSizes: []uint64{
			s.Config.SeedelfContractSize, s.Config.WalletContractSize,
		},
		witnesses: 2,
	})
	if err != nil {
		return nil, err
	}

	signed, err := s.cosign(ctx, tx, key)
	if err != nil {
		return nil, err
	}
	if err := s.submit(ctx, signed); err != nil {
		return nil, err
	}

	if err := s.seedelfRepository.DeleteSeedelf(
		ctx, tokenName,
	); err != nil && !errors.Is(err, domain.ErrSeedelfNotFound) {
		log.WithError(err).Warn("failed to drop removed seedelf from cache")
	}

	plan := newPlan(signed, result, []utxo.Outpoint{holder.Outpoint()})
	plan.Signed = true
	plan.Submitted = true
	plan.TokenName = tokenName
	return plan, nil
}

// refresh caches every seedelf found at the wallet contract. With a
// session, ownership is recomputed, otherwise the cached flag is kept.
func (s *seedelfService) refresh(
	ctx context.Context, session *domain.Session,
) ([]domain.Seedelf, error) {
	utxos, err := s.walletUtxos(ctx)
	if err != nil {
		return nil, err
	}

	cached, err := s.seedelfRepository.ListSeedelfs(ctx, false)
	if err != nil {
		return nil, err
	}
	known := make(map[string]domain.Seedelf, len(cached))
	for _, sf := range cached {
		known[sf.TokenName] = sf
	}

	seedelfs := make([]domain.Seedelf, 0)
	for _, u := range utxos {
		name, ok := seedelf.FindTokenName(u, s.Config.SeedelfPolicyID)
		if !ok {
			continue
		}
		reg, err := u.Register()
		if err != nil {
			log.WithError(err).Debugf("skipping seedelf %s", name)
			continue
		}
		prev := known[name]
		seedelfs = append(seedelfs, domain.Seedelf{
			TokenName: name,
			Label:     prev.Label,
			TxHash:    u.TxHash,
			TxIndex:   u.TxIndex,
			Register:  reg,
			Owned:     prev.Owned,
		})
	}

	if session != nil {
		if err := session.WithKey(func(sk fr.Element) error {
			for i := range seedelfs {
				owned, err := seedelfs[i].Register.IsOwned(sk)
				seedelfs[i].Owned = err == nil && owned
			}
			return nil
		}); err != nil {
			return nil, err
		}
	}

	if err := s.seedelfRepository.UpsertSeedelfs(ctx, seedelfs); err != nil {
		return nil, err
	}

	onchain := make(map[string]struct{}, len(seedelfs))
	for _, sf := range seedelfs {
		onchain[sf.TokenName] = struct{}{}
	}
	for name, sf := range known {
		if _, ok := onchain[name]; ok {
			continue
		}
		// Just minted ones are not on chain yet.
		if time.Since(time.Unix(sf.UpdatedAt, 0)) < pendingMintWindow {
			continue
		}
		if err := s.seedelfRepository.DeleteSeedelf(ctx, name); err != nil {
			log.WithError(err).Debugf("failed to drop stale seedelf %s", name)
		}
	}
	return seedelfs, nil
}
