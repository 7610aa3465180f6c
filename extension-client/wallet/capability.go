package wallet

import (
	"context"

	"github.com/vectis-labs/vectis/extension-client/chains"
)

// CosmosWallet is the capability a wallet exposes for cosmos chains. It is what the
// extension injects; Provider only forwards to it.
type CosmosWallet interface {
	Enable(ctx context.Context, chainIDs []string) error
	GetKey(ctx context.Context, chainID string) (*KeyInfo, error)
	GetAccounts(ctx context.Context, chainID string) ([]AccountData, error)
	GetSupportedChains(ctx context.Context) ([]chains.ChainInfo, error)
	SuggestChains(ctx context.Context, infos []chains.ChainInfo) error

	SignAmino(ctx context.Context, signerAddress string, doc StdSignDoc) (*AminoSignResponse, error)
	SignDirect(ctx context.Context, signerAddress string, doc *SignDoc) (*DirectSignResponse, error)
	SignArbitrary(ctx context.Context, chainID, signerAddress string, data []byte) (*AminoSignResponse, error)
	VerifyArbitrary(ctx context.Context, chainID, signerAddress string, data []byte, signature StdSignature) (bool, error)

	GetOfflineSignerAuto(ctx context.Context, chainID string) (OfflineSigner, error)
	GetOfflineSignerAmino(chainID string) OfflineAminoSigner
	GetOfflineSignerDirect(chainID string) OfflineDirectSigner
	GetOfflineSigner(chainID string) OfflineSigner

	AddAccountChangeListener(listener AccountChangeListener) error
	RemoveAccountChangeListener(listener AccountChangeListener)
}

// OfflineSigner signs without doing any network I/O itself. A concrete signer implements
// OfflineAminoSigner, OfflineDirectSigner or both.
type OfflineSigner interface {
	GetAccounts(ctx context.Context) ([]AccountData, error)
}

type OfflineAminoSigner interface {
	OfflineSigner
	SignAmino(ctx context.Context, signerAddress string, doc StdSignDoc) (*AminoSignResponse, error)
}

type OfflineDirectSigner interface {
	OfflineSigner
	SignDirect(ctx context.Context, signerAddress string, doc *SignDoc) (*DirectSignResponse, error)
}

// AsDirectSigner narrows an offline signer to direct signing.
func AsDirectSigner(signer OfflineSigner) (OfflineDirectSigner, error) {
	direct, ok := signer.(OfflineDirectSigner)
	if !ok || direct == nil {
		return nil, ErrUnsupportedSigning.Wrap("direct signing required")
	}
	return direct, nil
}
