package main

import (
	"context"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	sdkkeyring "github.com/cosmos/cosmos-sdk/crypto/keyring"

	"github.com/vectis-labs/vectis/extension-client/configs"
	"github.com/vectis-labs/vectis/extension-client/core/logging"
	"github.com/vectis-labs/vectis/extension-client/metrics"
	"github.com/vectis-labs/vectis/extension-client/storage"
	"github.com/vectis-labs/vectis/extension-client/todoapp"
	"github.com/vectis-labs/vectis/extension-client/wallet"
	"github.com/vectis-labs/vectis/extension-client/wallet/keyring"
)

// app is everything a command needs, wired from the config.
type app struct {
	config        configs.AppConfig
	logger        logging.Logger
	store         storage.Store
	wallet        *keyring.Wallet
	notifications *todoapp.RecordingNotifier
	controller    *todoapp.Controller
}

func loadConfig(cliCtx *cli.Context) (configs.AppConfig, logging.Logger) {
	config, err := configs.Load(cliCtx)
	if err != nil {
		log.Fatalf("read config failed by %v", err)
	}

	logger, err := logging.NewZapLogger(logging.NewLogLevel(config.Common.Production))
	if err != nil {
		log.Fatalf("new logger failed by %v", err)
	}

	return config, logger
}

func openKeyring(config configs.AppConfig) (sdkkeyring.Keyring, error) {
	return keyring.Open(config.Keyring, os.Stdin)
}

func newApp(config configs.AppConfig, logger logging.Logger, todoMetrics *metrics.TodoMetrics) (*app, error) {
	kr, err := openKeyring(config)
	if err != nil {
		return nil, err
	}

	var approver keyring.Approver = keyring.NewTerminalApprover()
	if config.Keyring.AutoApprove {
		approver = keyring.AutoApprove
	}

	w := keyring.New(logger, kr, config.Keyring.KeyName, approver)

	injector := wallet.NewInjector()
	injector.Inject(w)

	store, err := storage.OpenBoltStore(logger, config.Storage)
	if err != nil {
		return nil, err
	}

	notifications := todoapp.NewRecordingNotifier(config.NotificationLimit, todoapp.NewLogNotifier(logger))

	controller, err := todoapp.NewController(
		logger,
		todoapp.Config{
			ChainID:      config.ChainID,
			WalletSource: todoapp.WalletSource(config.WalletSource),
		},
		wallet.NewProvider(injector),
		store,
		notifications,
		todoMetrics,
		nil,
	)
	if err != nil {
		_ = store.Close()
		return nil, errors.Wrap(err, "new todo controller failed")
	}

	return &app{
		config:        config,
		logger:        logger,
		store:         store,
		wallet:        w,
		notifications: notifications,
		controller:    controller,
	}, nil
}

// newConnectedApp returns an app with the wallet connected, commands act on the account right
// away.
func newConnectedApp(ctx context.Context, cliCtx *cli.Context) (*app, error) {
	config, logger := loadConfig(cliCtx)

	a, err := newApp(config, logger, nil)
	if err != nil {
		return nil, err
	}

	if err := a.controller.ConnectWallet(ctx); err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

func (a *app) Close() {
	if err := a.controller.Close(); err != nil {
		a.logger.Warn("close controller failed", "err", err)
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("close storage failed", "err", err)
	}
}
