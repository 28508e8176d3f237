package seedelf

import (
	"errors"
	"fmt"

	"github.com/seedelf-network/seedelf-wallet/pkg/address"
	"github.com/seedelf-network/seedelf-wallet/pkg/utxo"
)

// DefaultVariant is the contract deployment used unless configured
// otherwise.
const DefaultVariant = 1

const (
	preprodStakeKeyHash = "86c769419aaa673c963da04e4b5bae448d490e2ceac902cb82e4da76"
	mainnetStakeKeyHash = "fcfc7701b1df42061202efa9c96968a481bbd6a0676efb7afa87ebf1"

	collateralKeyHash   = "7c24c22d1dc252d31f6022ff22ccc838c2ab83a461172d7c2dae61f4"
	collateralPublicKey = "fa2025e788fae01ce10deffff386f992f62a311758819e4e3792887396c171ba"

	preprodCollateralTx = "1d388e615da2dca607e28f704130d04e39da6f251d551d66d054b75607e0393f"
	mainnetCollateralTx = "e62351eacbdd001aee77a91805840d2b81f77feebbf2439fb01b79e76c42c839"

	referenceIndex = 1
)

// ErrUnknownVariant is returned for contract variants that were never
// deployed.
var ErrUnknownVariant = errors.New("unknown contract variant")

// Config gathers the on-chain constants of one contract deployment.
type Config struct {
	Variant uint64
	Network address.Network

	WalletContractHash  string
	SeedelfPolicyID     string
	WalletContractSize  uint64
	SeedelfContractSize uint64

	// WalletReference and SeedelfReference hold the reference scripts.
	WalletReference  utxo.Outpoint
	SeedelfReference utxo.Outpoint

	StakeKeyHash string

	// The collateral provider co-signs every script transaction of the
	// wallet contract.
	CollateralKeyHash   string
	CollateralPublicKey string
	CollateralUtxo      utxo.Outpoint
}

type deployment struct {
	walletContractHash  string
	seedelfPolicyID     string
	walletContractSize  uint64
	seedelfContractSize uint64
	references          map[address.Network][2]string
}

var deployments = map[uint64]deployment{
	1: {
		walletContractHash:  "94bca9c099e84ffd90d150316bb44c31a78702239076a0a80ea4a469",
		seedelfPolicyID:     "84967d911e1a10d5b4a38441879f374a07f340945bcf9e7697485255",
		walletContractSize:  629,
		seedelfContractSize: 519,
		references: map[address.Network][2]string{
			address.Preprod: {
				"96fbddac63c55284fbbaa3c216ef1c0f460019e8643a889a189d5b5f7ddd71d6",
				"f620a4e949bfbefbf2892d39d0777439f3acfbf850eae9b007c6558ba8ef4db4",
			},
			address.Mainnet: {
				"51f12c1a5c2b0558a284628d81b06dee50b27693242fe35618c5f921730c0527",
				"f3955f42f660fae8b3e4dcf664011876cf769d87aa8450dc73171b4f6b5f520b",
			},
		},
	},
}

// GetConfig returns the constants of a deployment on the given network.
func GetConfig(variant uint64, network address.Network) (*Config, error) {
	d, ok := deployments[variant]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVariant, variant)
	}

	stake, collateralTx := preprodStakeKeyHash, preprodCollateralTx
	if network == address.Mainnet {
		stake, collateralTx = mainnetStakeKeyHash, mainnetCollateralTx
	}
	refs := d.references[network]

	return &Config{
		Variant:             variant,
		Network:             network,
		WalletContractHash:  d.walletContractHash,
		SeedelfPolicyID:     d.seedelfPolicyID,
		WalletContractSize:  d.walletContractSize,
		SeedelfContractSize: d.seedelfContractSize,
		WalletReference:     utxo.Outpoint{TxHash: refs[0], Index: referenceIndex},
		SeedelfReference:    utxo.Outpoint{TxHash: refs[1], Index: referenceIndex},
		StakeKeyHash:        stake,
		CollateralKeyHash:   collateralKeyHash,
		CollateralPublicKey: collateralPublicKey,
		CollateralUtxo:      utxo.Outpoint{TxHash: collateralTx, Index: 0},
	}, nil
}

// WalletAddress is the address of the wallet contract.
func (c *Config) WalletAddress() (*address.Address, error) {
	return address.WalletContract(c.Network, c.WalletContractHash, c.StakeKeyHash)
}

// CollateralAddress is the address of the collateral provider.
func (c *Config) CollateralAddress() (*address.Address, error) {
	return address.CollateralAddress(c.Network, c.CollateralKeyHash)
}
