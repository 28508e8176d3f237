// Package address encodes, decodes and classifies Shelley addresses.
package address

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// Network identifies the Cardano network an address belongs to.
type Network byte

const (
	// Preprod is the test network, id 0.
	Preprod Network = 0
	// Mainnet is the production network, id 1.
	Mainnet Network = 1
)

// Hrp returns the human readable part of payment addresses on n.
func (n Network) Hrp() string {
	if n == Mainnet {
		return "addr"
	}
	return "addr_test"
}

// String ...
func (n Network) String() string {
	if n == Mainnet {
		return "mainnet"
	}
	return "preprod"
}

// IsTestnet ...
func (n Network) IsTestnet() bool {
	return n != Mainnet
}

// ParseNetwork maps a network name to its id.
func ParseNetwork(name string) (Network, error) {
	switch strings.ToLower(name) {
	case "mainnet":
		return Mainnet, nil
	case "preprod", "testnet":
		return Preprod, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownNetwork, name)
}

// Kind is the Shelley header type, the high nibble of the first byte.
type Kind byte

const (
	KeyKey Kind = iota
	ScriptKey
	KeyScript
	ScriptScript
	KeyPointer
	ScriptPointer
	KeyNone
	ScriptNone
	RewardKey    Kind = 14
	RewardScript Kind = 15
)

const (
	// HashSize is the byte length of a payment or stake credential.
	HashSize = 28
)

var (
	// ErrInvalidAddress is returned when a string is not a Shelley address.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrUnknownNetwork ...
	ErrUnknownNetwork = errors.New("unknown network")
	// ErrInvalidCredential is returned for credentials that are not 28 bytes
	// of hex.
	ErrInvalidCredential = errors.New("invalid credential")
)

// Address is a decoded Shelley address.
type Address struct {
	raw []byte
}

// Decode parses a bech32 Shelley address.
func Decode(addr string) (*Address, error) {
	hrp, data, err := bech32.DecodeNoLimit(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAddress, err)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAddress, err)
	}

	a, err := FromBytes(raw)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(hrp, a.hrpPrefix()) {
		return nil, fmt.Errorf("%w: unexpected prefix %s", ErrInvalidAddress, hrp)
	}
	if hrp != a.Network().Hrp() && hrp != a.rewardHrp() {
		return nil, fmt.Errorf("%w: prefix %s does not match network", ErrInvalidAddress, hrp)
	}
	return a, nil
}

// FromBytes parses the raw header ‖ credentials form.
func FromBytes(raw []byte) (*Address, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidAddress)
	}

	var want int
	switch Kind(raw[0] >> 4) {
	case KeyKey, ScriptKey, KeyScript, ScriptScript:
		want = 1 + 2*HashSize
	case KeyNone, ScriptNone, RewardKey, RewardScript:
		want = 1 + HashSize
	case KeyPointer, ScriptPointer:
		// variable length pointer
		want = -1
	default:
		return nil, fmt.Errorf("%w: unsupported header %02x", ErrInvalidAddress, raw[0])
	}
	if want > 0 && len(raw) != want {
		return nil, fmt.Errorf(
			"%w: expected %d bytes, got %d", ErrInvalidAddress, want, len(raw),
		)
	}
	if want < 0 && len(raw) <= 1+HashSize {
		return nil, fmt.Errorf("%w: truncated pointer address", ErrInvalidAddress)
	}

	return &Address{append([]byte(nil), raw...)}, nil
}

// New builds a Shelley address from a header kind and its credentials.
func New(network Network, kind Kind, payment string, delegation string) (*Address, error) {
	p, err := decodeCredential(payment)
	if err != nil {
		return nil, err
	}
	raw := append([]byte{byte(kind)<<4 | byte(network)}, p...)
	if delegation != "" {
		d, err := decodeCredential(delegation)
		if err != nil {
			return nil, err
		}
		raw = append(raw, d...)
	}
	return FromBytes(raw)
}

// Bytes returns a copy of the raw address.
func (a *Address) Bytes() []byte {
	return append([]byte(nil), a.raw...)
}

// Kind ...
func (a *Address) Kind() Kind {
	return Kind(a.raw[0] >> 4)
}

// Network ...
func (a *Address) Network() Network {
	return Network(a.raw[0] & 0x0f)
}

// IsOnNetwork reports whether the address header carries the given network.
func (a *Address) IsOnNetwork(n Network) bool {
	return a.Network() == n
}

// IsScript reports whether any credential of the address is a script hash.
func (a *Address) IsScript() bool {
	switch a.Kind() {
	case ScriptKey, KeyScript, ScriptScript, ScriptPointer, ScriptNone, RewardScript:
		return true
	}
	return false
}

// IsEnterprise reports whether the address has no delegation part.
func (a *Address) IsEnterprise() bool {
	k := a.Kind()
	return k == KeyNone || k == ScriptNone
}

// PaymentCredential returns the hex hash of the payment part.
func (a *Address) PaymentCredential() string {
	return hex.EncodeToString(a.raw[1 : 1+HashSize])
}

// StakeCredential returns the hex hash of the delegation part, empty when
// the address is not staked by hash.
func (a *Address) StakeCredential() string {
	switch a.Kind() {
	case KeyKey, ScriptKey, KeyScript, ScriptScript:
		return hex.EncodeToString(a.raw[1+HashSize:])
	}
	return ""
}

// String returns the bech32 form.
func (a *Address) String() string {
	data, err := bech32.ConvertBits(a.raw, 8, 5, true)
	if err != nil {
		return ""
	}
	hrp := a.Network().Hrp()
	if k := a.Kind(); k == RewardKey || k == RewardScript {
		hrp = a.rewardHrp()
	}
	s, err := bech32.Encode(hrp, data)
	if err != nil {
		return ""
	}
	return s
}

// Hex returns the raw address in hex, the form used inside datums and
// transaction outputs.
func (a *Address) Hex() string {
	return hex.EncodeToString(a.raw)
}

func (a *Address) hrpPrefix() string {
	if k := a.Kind(); k == RewardKey || k == RewardScript {
		return "stake"
	}
	return "addr"
}

func (a *Address) rewardHrp() string {
	if a.Network() == Mainnet {
		return "stake"
	}
	return "stake_test"
}

func decodeCredential(h string) ([]byte, error) {
	b, err := hex.DecodeString(h)
	if err != nil || len(b) != HashSize {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCredential, h)
	}
	return b, nil
}

// WalletContract returns the address locking funds under the wallet script,
// staked to the given key hash.
func WalletContract(network Network, scriptHash, stakeKeyHash string) (*Address, error) {
	return New(network, ScriptKey, scriptHash, stakeKeyHash)
}

// CollateralAddress returns the unstaked enterprise address of a key hash.
func CollateralAddress(network Network, keyHash string) (*Address, error) {
	return New(network, KeyNone, keyHash, "")
}
