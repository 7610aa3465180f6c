package todoapp

import (
	"context"

	"github.com/pkg/errors"

	"github.com/vectis-labs/vectis/extension-client/chains"
	"github.com/vectis-labs/vectis/extension-client/wallet"
)

// WalletSource selects how the account and signer are obtained from the wallet.
type WalletSource string

const (
	// SourceKey asks the wallet for its key and a direct signer.
	SourceKey WalletSource = "key"
	// SourceSigner asks for the generic offline signer and uses its first account.
	SourceSigner WalletSource = "signer"

	DefaultWalletSource = SourceKey
)

var ErrUnknownWalletSource = errors.New("unknown wallet source")

// Connection is what a connector hands to the controller.
type Connection struct {
	Key    wallet.KeyInfo
	Signer wallet.OfflineDirectSigner
}

// Connector registers the network with the wallet, asks for permission and returns the
// account and signer to use.
type Connector interface {
	Connect(ctx context.Context, provider *wallet.Provider, network chains.Network) (*Connection, error)
}

func NewConnector(source WalletSource) (Connector, error) {
	switch source {
	case SourceKey, "":
		return keyConnector{}, nil
	case SourceSigner:
		return signerConnector{}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownWalletSource, "%q", source)
	}
}

func suggestAndEnable(ctx context.Context, provider *wallet.Provider, network chains.Network) error {
	if err := provider.SuggestChains(ctx, network.Info); err != nil {
		return errors.Wrapf(err, "suggest chain %s failed", network.ChainID())
	}

	if err := provider.Enable(ctx, network.ChainID()); err != nil {
		return errors.Wrapf(err, "enable chain %s failed", network.ChainID())
	}

	return nil
}

type keyConnector struct{}

func (keyConnector) Connect(ctx context.Context, provider *wallet.Provider, network chains.Network) (*Connection, error) {
	if err := suggestAndEnable(ctx, provider, network); err != nil {
		return nil, err
	}

	key, err := provider.GetKey(ctx, network.ChainID())
	if err != nil {
		return nil, errors.Wrap(err, "get key failed")
	}

	signer, err := provider.GetOfflineSignerDirect(network.ChainID())
	if err != nil {
		return nil, err
	}

	return &Connection{Key: *key, Signer: signer}, nil
}

type signerConnector struct{}

func (signerConnector) Connect(ctx context.Context, provider *wallet.Provider, network chains.Network) (*Connection, error) {
	if err := suggestAndEnable(ctx, provider, network); err != nil {
		return nil, err
	}

	offline, err := provider.GetOfflineSigner(network.ChainID())
	if err != nil {
		return nil, err
	}

	signer, err := wallet.AsDirectSigner(offline)
	if err != nil {
		return nil, err
	}

	accounts, err := signer.GetAccounts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get signer accounts failed")
	}
	if len(accounts) == 0 {
		return nil, errors.Wrapf(wallet.ErrKeyNotFound, "signer of %s has no account", network.ChainID())
	}

	account := accounts[0]
	return &Connection{
		Key: wallet.KeyInfo{
			Algo:          account.Algo,
			PubKey:        account.PubKey,
			Bech32Address: account.Address,
		},
		Signer: signer,
	}, nil
}
