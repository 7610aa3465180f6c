package wallet

import (
	"context"

	"github.com/vectis-labs/vectis/extension-client/chains"
)

// Provider forwards every call to the wallet capability found in its environment. It performs
// no validation, transformation or retry; when no wallet is installed each call fails with
// ErrNotInstalled before anything else happens.
type Provider struct {
	env Environment
}

func NewProvider(env Environment) *Provider {
	return &Provider{env: env}
}

func (p *Provider) getClient() (CosmosWallet, error) {
	if p.env != nil {
		if w := p.env.CosmosWallet(); w != nil {
			return w, nil
		}
	}
	return nil, ErrNotInstalled
}

// Installed reports whether a wallet is currently available.
func (p *Provider) Installed() bool {
	_, err := p.getClient()
	return err == nil
}

func (p *Provider) Enable(ctx context.Context, chainIDs ...string) error {
	client, err := p.getClient()
	if err != nil {
		return err
	}
	return client.Enable(ctx, chainIDs)
}

func (p *Provider) GetKey(ctx context.Context, chainID string) (*KeyInfo, error) {
	client, err := p.getClient()
	if err != nil {
		return nil, err
	}
	return client.GetKey(ctx, chainID)
}

func (p *Provider) GetAccounts(ctx context.Context, chainID string) ([]AccountData, error) {
	client, err := p.getClient()
	if err != nil {
		return nil, err
	}
	return client.GetAccounts(ctx, chainID)
}

func (p *Provider) GetSupportedChains(ctx context.Context) ([]chains.ChainInfo, error) {
	client, err := p.getClient()
	if err != nil {
		return nil, err
	}
	return client.GetSupportedChains(ctx)
}

func (p *Provider) SuggestChains(ctx context.Context, infos ...chains.ChainInfo) error {
	client, err := p.getClient()
	if err != nil {
		return err
	}
	return client.SuggestChains(ctx, infos)
}

func (p *Provider) IsChainSupported(ctx context.Context, chainID string) (bool, error) {
	supported, err := p.GetSupportedChains(ctx)
	if err != nil {
		return false, err
	}
	for _, c := range supported {
		if c.ChainID == chainID {
			return true, nil
		}
	}
	return false, nil
}

func (p *Provider) SignAmino(ctx context.Context, signerAddress string, doc StdSignDoc) (*AminoSignResponse, error) {
	client, err := p.getClient()
	if err != nil {
		return nil, err
	}
	return client.SignAmino(ctx, signerAddress, doc)
}

func (p *Provider) SignDirect(ctx context.Context, signerAddress string, doc *SignDoc) (*DirectSignResponse, error) {
	client, err := p.getClient()
	if err != nil {
		return nil, err
	}
	return client.SignDirect(ctx, signerAddress, doc)
}

func (p *Provider) SignArbitrary(ctx context.Context, chainID, signerAddress string, data []byte) (*AminoSignResponse, error) {
	client, err := p.getClient()
	if err != nil {
		return nil, err
	}
	return client.SignArbitrary(ctx, chainID, signerAddress, data)
}

func (p *Provider) VerifyArbitrary(
	ctx context.Context,
	chainID, signerAddress string,
	data []byte,
	signature StdSignature,
) (bool, error) {
	client, err := p.getClient()
	if err != nil {
		return false, err
	}
	return client.VerifyArbitrary(ctx, chainID, signerAddress, data, signature)
}

func (p *Provider) GetOfflineSignerAuto(ctx context.Context, chainID string) (OfflineSigner, error) {
	client, err := p.getClient()
	if err != nil {
		return nil, err
	}
	return client.GetOfflineSignerAuto(ctx, chainID)
}

func (p *Provider) GetOfflineSignerAmino(chainID string) (OfflineAminoSigner, error) {
	client, err := p.getClient()
	if err != nil {
		return nil, err
	}
	return client.GetOfflineSignerAmino(chainID), nil
}

func (p *Provider) GetOfflineSignerDirect(chainID string) (OfflineDirectSigner, error) {
	client, err := p.getClient()
	if err != nil {
		return nil, err
	}
	return client.GetOfflineSignerDirect(chainID), nil
}

func (p *Provider) GetOfflineSigner(chainID string) (OfflineSigner, error) {
	client, err := p.getClient()
	if err != nil {
		return nil, err
	}
	return client.GetOfflineSigner(chainID), nil
}

// OnAccountChange registers listener with the wallet. Pair every call with OffAccountChange
// using the same listener.
func (p *Provider) OnAccountChange(listener AccountChangeListener) error {
	client, err := p.getClient()
	if err != nil {
		return err
	}
	return client.AddAccountChangeListener(listener)
}

func (p *Provider) OffAccountChange(listener AccountChangeListener) error {
	client, err := p.getClient()
	if err != nil {
		return err
	}
	client.RemoveAccountChangeListener(listener)
	return nil
}
