package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/seedelf-network/seedelf-wallet/internal/config"
	"github.com/seedelf-network/seedelf-wallet/internal/core/application"
	"github.com/seedelf-network/seedelf-wallet/internal/core/domain"
	"github.com/seedelf-network/seedelf-wallet/internal/infrastructure/collateral"
	"github.com/seedelf-network/seedelf-wallet/internal/infrastructure/koios"
	dbbadger "github.com/seedelf-network/seedelf-wallet/internal/infrastructure/storage/db/badger"
	"github.com/seedelf-network/seedelf-wallet/internal/infrastructure/txbuilder"
	"github.com/seedelf-network/seedelf-wallet/pkg/stats"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// state is opened by the first command that needs it and closed when the
// app exits.
var state *services

type services struct {
	repoManager dbbadger.RepoManager
	stopStats   context.CancelFunc

	env     application.Environment
	wallet  application.WalletService
	seedelf application.SeedelfService
	payment application.PaymentService
	message application.MessageService
}

func getServices() (*services, error) {
	if state != nil {
		return state, nil
	}

	cfg, err := config.GetSeedelfConfig()
	if err != nil {
		return nil, err
	}
	network := config.GetNetwork()
	timeout := config.GetRequestTimeout()

	koiosURL := config.GetString(config.KoiosURLKey)
	if koiosURL == "" {
		koiosURL = koios.DefaultURL(network)
	}
	chain, err := koios.NewService(koios.Config{
		URL:               koiosURL,
		Token:             config.GetString(config.KoiosTokenKey),
		RequestsPerSecond: config.GetInt(config.KoiosRequestsPerSecondKey),
		Timeout:           timeout,
	})
	if err != nil {
		return nil, err
	}

	collateralSvc, err := collateral.NewService(
		config.GetString(config.CollateralURLKey), network, timeout,
	)
	if err != nil {
		return nil, err
	}

	dbDir := filepath.Join(config.GetDatadir(), config.DbLocation)
	repoManager, err := dbbadger.NewRepoManager(dbDir, nil)
	if err != nil {
		return nil, err
	}

	env := application.Environment{
		Config:                 cfg,
		Params:                 config.GetParams(),
		Chain:                  chain,
		Collateral:             collateralSvc,
		Builder:                txbuilder.NewTxBuilder(),
		MaxSelectionIterations: config.GetInt(config.SelectionMaxIterationsKey),
	}

	s := &services{repoManager: repoManager, env: env}
	if s.wallet, err = application.NewWalletService(
		repoManager.WalletRepository(), env,
	); err != nil {
		repoManager.Close()
		return nil, err
	}
	if s.seedelf, err = application.NewSeedelfService(
		repoManager.SeedelfRepository(), env,
	); err != nil {
		repoManager.Close()
		return nil, err
	}
	if s.payment, err = application.NewPaymentService(env); err != nil {
		repoManager.Close()
		return nil, err
	}
	if s.message, err = application.NewMessageService(env); err != nil {
		repoManager.Close()
		return nil, err
	}

	if config.GetBool(config.EnableStatsKey) {
		ctx, cancel := context.WithCancel(context.Background())
		interval := time.Duration(config.GetInt(config.StatsIntervalKey)) * time.Second
		dumpPath := filepath.Join(
			config.GetDatadir(), config.StatsLocation, "stats.txt",
		)
		stats.EnableMemoryStatistics(ctx, interval, dumpPath)
		s.stopStats = cancel
	}

	log.WithFields(log.Fields{
		"network": network,
		"variant": cfg.Variant,
	}).Debug("services initialized")

	state = s
	return s, nil
}

func (s *services) close() {
	if s.stopStats != nil {
		s.stopStats()
		// let the stats routine dump the gathered metrics
		time.Sleep(100 * time.Millisecond)
	}
	s.repoManager.Close()
}

// unlock opens the wallet selected by the global flags. The caller must
// release the returned session.
func unlock(ctx *cli.Context, s *services) (*domain.Session, error) {
	return s.wallet.Unlock(
		ctx.Context, ctx.String(walletFlag.Name), ctx.String(passphraseFlag.Name),
	)
}
