package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/seedelf-network/seedelf-wallet/internal/infrastructure/collateral"
	"github.com/seedelf-network/seedelf-wallet/pkg/address"
	"github.com/seedelf-network/seedelf-wallet/pkg/fee"
	"github.com/seedelf-network/seedelf-wallet/pkg/seedelf"
	"github.com/seedelf-network/seedelf-wallet/pkg/utxo"
	"github.com/spf13/viper"
)

const (
	// DatadirKey is the local data directory where wallets and cached
	// seedelfs are stored
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// NetworkKey is either mainnet or preprod
	NetworkKey = "NETWORK"
	// VariantKey selects the deployment of the wallet contract and the
	// seedelf policy
	VariantKey = "VARIANT"
	// KoiosURLKey overrides the Koios endpoint of the network
	KoiosURLKey = "KOIOS_URL"
	// KoiosTokenKey is the optional bearer token for Koios
	KoiosTokenKey = "KOIOS_TOKEN"
	// KoiosRequestsPerSecondKey caps the rate of requests sent to Koios
	KoiosRequestsPerSecondKey = "KOIOS_RPS"
	// CollateralURLKey is the endpoint of the collateral provider
	CollateralURLKey = "COLLATERAL_URL"
	// RequestTimeoutKey is the timeout in seconds of every HTTP request
	RequestTimeoutKey = "REQUEST_TIMEOUT"
	// SelectionMaxIterationsKey bounds the coin selection restarts
	SelectionMaxIterationsKey = "SELECTION_MAX_ITERATIONS"
	// MinFeeAKey is the per byte fee coefficient
	MinFeeAKey = "MIN_FEE_A"
	// MinFeeBKey is the constant fee
	MinFeeBKey = "MIN_FEE_B"
	// CostPerByteKey is the lovelace an output must hold per byte
	CostPerByteKey = "COST_PER_BYTE"
	// EnableStatsKey enables the periodic dump of memory and request
	// statistics
	EnableStatsKey = "ENABLE_STATS"
	// StatsIntervalKey defines the interval in seconds for printing stats
	StatsIntervalKey = "STATS_INTERVAL"

	DbLocation    = "db"
	StatsLocation = "stats"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("seedelf", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("SEEDELF")
	vip.AutomaticEnv()

	defaultParams := fee.DefaultParams()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(NetworkKey, address.Preprod.String())
	vip.SetDefault(VariantKey, seedelf.DefaultVariant)
	vip.SetDefault(KoiosRequestsPerSecondKey, 10)
	vip.SetDefault(CollateralURLKey, collateral.DefaultURL)
	vip.SetDefault(RequestTimeoutKey, 30)
	vip.SetDefault(SelectionMaxIterationsKey, utxo.DefaultMaxIterations)
	vip.SetDefault(MinFeeAKey, defaultParams.MinFeeA)
	vip.SetDefault(MinFeeBKey, defaultParams.MinFeeB)
	vip.SetDefault(CostPerByteKey, defaultParams.CostPerByte)
	vip.SetDefault(EnableStatsKey, false)
	vip.SetDefault(StatsIntervalKey, 600)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetUint64(key string) uint64 {
	return vip.GetUint64(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func GetNetwork() address.Network {
	// validated by InitConfig
	network, _ := address.ParseNetwork(GetString(NetworkKey))
	return network
}

// GetRequestTimeout ...
func GetRequestTimeout() time.Duration {
	return time.Duration(GetInt(RequestTimeoutKey)) * time.Second
}

// GetParams returns the default protocol parameters with the configured
// overrides applied.
func GetParams() fee.Params {
	params := fee.DefaultParams()
	params.MinFeeA = GetUint64(MinFeeAKey)
	params.MinFeeB = GetUint64(MinFeeBKey)
	params.CostPerByte = GetUint64(CostPerByteKey)
	return params
}

// GetSeedelfConfig returns the contract constants of the configured
// network and variant.
func GetSeedelfConfig() (*seedelf.Config, error) {
	return seedelf.GetConfig(GetUint64(VariantKey), GetNetwork())
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	if _, err := address.ParseNetwork(GetString(NetworkKey)); err != nil {
		return fmt.Errorf("%s: %s", NetworkKey, err)
	}

	if _, err := seedelf.GetConfig(
		GetUint64(VariantKey), address.Preprod,
	); err != nil {
		return fmt.Errorf("%s: %s", VariantKey, err)
	}

	if GetInt(KoiosRequestsPerSecondKey) <= 0 {
		return fmt.Errorf("%s must be greater than zero", KoiosRequestsPerSecondKey)
	}

	if GetInt(RequestTimeoutKey) <= 0 {
		return fmt.Errorf("%s must be greater than zero", RequestTimeoutKey)
	}

	if GetInt(SelectionMaxIterationsKey) <= 0 {
		return fmt.Errorf("%s must be greater than zero", SelectionMaxIterationsKey)
	}

	if GetUint64(CostPerByteKey) == 0 {
		return fmt.Errorf("%s must be greater than zero", CostPerByteKey)
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
		return err
	}

	if GetBool(EnableStatsKey) {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, StatsLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
