package configs

import (
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/vectis-labs/vectis/extension-client/chains"
	commonConfig "github.com/vectis-labs/vectis/extension-client/core/configs"
	"github.com/vectis-labs/vectis/extension-client/core/utils"
	"github.com/vectis-labs/vectis/extension-client/metrics"
	"github.com/vectis-labs/vectis/extension-client/storage"
	"github.com/vectis-labs/vectis/extension-client/todoapp"
	"github.com/vectis-labs/vectis/extension-client/wallet/keyring"
)

const DefaultRpcServerAddress = "127.0.0.1:8080"

type AppConfig struct {
	Common commonConfig.CommonConfig `yaml:"common"`
	// network selected on startup
	ChainID string `yaml:"chain_id"`
	// "key" or "signer"
	WalletSource string         `yaml:"wallet_source"`
	Keyring      keyring.Config `yaml:"keyring"`
	Storage      storage.Config `yaml:"storage"`
	Metrics      metrics.Config `yaml:"metrics"`
	// notifications kept for the http api
	NotificationLimit int `yaml:"notification_limit"`
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		Common: commonConfig.CommonConfig{
			Name:                   "vectis-todo",
			RpcServerIpPortAddress: DefaultRpcServerAddress,
		},
		ChainID:           chains.DefaultChainID,
		WalletSource:      string(todoapp.DefaultWalletSource),
		Keyring:           keyring.DefaultConfig(),
		Storage:           storage.DefaultConfig(),
		Metrics:           *metrics.DefaultConfig(),
		NotificationLimit: 100,
	}
}

// use the env config first for some keys
func (c *AppConfig) WithEnv() {
	c.Common.WithEnv()
	c.Metrics.WithEnv()

	c.ChainID = utils.LookupEnvStr("VECTIS_CHAIN_ID", c.ChainID)
	c.WalletSource = utils.LookupEnvStr("VECTIS_WALLET_SOURCE", c.WalletSource)

	c.Keyring.Backend = utils.LookupEnvStr("VECTIS_KEYRING_BACKEND", c.Keyring.Backend)
	c.Keyring.Dir = utils.LookupEnvStr("VECTIS_KEYRING_DIR", c.Keyring.Dir)
	c.Keyring.KeyName = utils.LookupEnvStr("VECTIS_KEY_NAME", c.Keyring.KeyName)
	c.Keyring.AutoApprove = utils.LookupEnvBool("VECTIS_AUTO_APPROVE", c.Keyring.AutoApprove)

	c.Storage.Path = utils.LookupEnvStr("VECTIS_STORAGE_PATH", c.Storage.Path)
	c.Storage.Timeout = utils.LookupEnvDuration("VECTIS_STORAGE_TIMEOUT", c.Storage.Timeout)
}

// WithCli applies the command line flags, they win over file and env.
func (c *AppConfig) WithCli(cliCtx *cli.Context) {
	if chainID := cliCtx.GlobalString(utils.ChainFlag.Name); chainID != "" {
		c.ChainID = chainID
	}
}

func (c *AppConfig) Validate() error {
	if !chains.IsKnown(c.ChainID) {
		return errors.Wrapf(chains.ErrUnknownChain, "chain_id %q", c.ChainID)
	}

	if _, err := todoapp.NewConnector(todoapp.WalletSource(c.WalletSource)); err != nil {
		return err
	}

	if c.Metrics.Enabled {
		if err := c.Metrics.Validate(); err != nil {
			return errors.Wrap(err, "invalid metrics config")
		}
	}

	return nil
}

// Load reads the config file given on the command line over the defaults, then applies env
// and flags.
func Load(cliCtx *cli.Context) (AppConfig, error) {
	config := DefaultAppConfig()
	if err := utils.ReadConfig(cliCtx, &config); err != nil {
		return config, err
	}
	config.WithEnv()
	config.WithCli(cliCtx)

	if err := config.Validate(); err != nil {
		return config, err
	}

	return config, nil
}
