// Package wallettest provides an in-memory wallet capability for tests.
package wallettest

import (
	"context"
	"sync"

	"github.com/vectis-labs/vectis/extension-client/chains"
	"github.com/vectis-labs/vectis/extension-client/wallet"
)

// FakeWallet answers every call from its fields and records the method names it served.
type FakeWallet struct {
	wallet.Observers

	mu    sync.Mutex
	calls []string

	Key       wallet.KeyInfo
	Chains    []chains.ChainInfo
	Enabled   map[string]bool
	EnableErr error
	SignErr   error
	Verified  bool
}

var _ wallet.CosmosWallet = (*FakeWallet)(nil)

func NewFakeWallet(address string) *FakeWallet {
	return &FakeWallet{
		Key: wallet.KeyInfo{
			Name:          "fake",
			Algo:          wallet.AlgoSecp256k1,
			PubKey:        []byte{0x02, 0x01},
			Address:       []byte(address),
			Bech32Address: address,
		},
		Enabled:  map[string]bool{},
		Verified: true,
	}
}

func (f *FakeWallet) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *FakeWallet) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// SwitchAccount changes the active address and notifies listeners.
func (f *FakeWallet) SwitchAccount(address string) {
	f.mu.Lock()
	f.Key.Bech32Address = address
	f.Key.Address = []byte(address)
	key := f.Key
	f.mu.Unlock()

	f.Notify(key)
}

func (f *FakeWallet) Enable(_ context.Context, chainIDs []string) error {
	f.record("Enable")
	if f.EnableErr != nil {
		return f.EnableErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range chainIDs {
		f.Enabled[id] = true
	}
	return nil
}

func (f *FakeWallet) GetKey(_ context.Context, _ string) (*wallet.KeyInfo, error) {
	f.record("GetKey")
	f.mu.Lock()
	defer f.mu.Unlock()
	key := f.Key
	return &key, nil
}

func (f *FakeWallet) GetAccounts(_ context.Context, _ string) ([]wallet.AccountData, error) {
	f.record("GetAccounts")
	return f.accounts(), nil
}

func (f *FakeWallet) accounts() []wallet.AccountData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return []wallet.AccountData{{
		Address: f.Key.Bech32Address,
		Algo:    f.Key.Algo,
		PubKey:  f.Key.PubKey,
	}}
}

func (f *FakeWallet) GetSupportedChains(_ context.Context) ([]chains.ChainInfo, error) {
	f.record("GetSupportedChains")
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]chains.ChainInfo(nil), f.Chains...), nil
}

func (f *FakeWallet) SuggestChains(_ context.Context, infos []chains.ChainInfo) error {
	f.record("SuggestChains")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Chains = append(f.Chains, infos...)
	return nil
}

func (f *FakeWallet) signature() wallet.StdSignature {
	return wallet.StdSignature{
		PubKey:    wallet.PubKey{Type: wallet.PubKeyTypeSecp256k1, Value: "AgE="},
		Signature: "c2lnbmF0dXJl",
	}
}

func (f *FakeWallet) SignAmino(_ context.Context, _ string, doc wallet.StdSignDoc) (*wallet.AminoSignResponse, error) {
	f.record("SignAmino")
	if f.SignErr != nil {
		return nil, f.SignErr
	}
	return &wallet.AminoSignResponse{Signed: doc, Signature: f.signature()}, nil
}

func (f *FakeWallet) SignDirect(_ context.Context, _ string, doc *wallet.SignDoc) (*wallet.DirectSignResponse, error) {
	f.record("SignDirect")
	if f.SignErr != nil {
		return nil, f.SignErr
	}
	return &wallet.DirectSignResponse{Signed: doc, Signature: f.signature()}, nil
}

func (f *FakeWallet) SignArbitrary(_ context.Context, chainID, _ string, _ []byte) (*wallet.AminoSignResponse, error) {
	f.record("SignArbitrary")
	if f.SignErr != nil {
		return nil, f.SignErr
	}
	return &wallet.AminoSignResponse{Signed: wallet.StdSignDoc{ChainID: chainID}, Signature: f.signature()}, nil
}

func (f *FakeWallet) VerifyArbitrary(_ context.Context, _, _ string, _ []byte, _ wallet.StdSignature) (bool, error) {
	f.record("VerifyArbitrary")
	return f.Verified, nil
}

func (f *FakeWallet) GetOfflineSignerAuto(_ context.Context, chainID string) (wallet.OfflineSigner, error) {
	f.record("GetOfflineSignerAuto")
	return &fakeSigner{wallet: f, chainID: chainID}, nil
}

func (f *FakeWallet) GetOfflineSignerAmino(chainID string) wallet.OfflineAminoSigner {
	f.record("GetOfflineSignerAmino")
	return &fakeSigner{wallet: f, chainID: chainID}
}

func (f *FakeWallet) GetOfflineSignerDirect(chainID string) wallet.OfflineDirectSigner {
	f.record("GetOfflineSignerDirect")
	return &fakeSigner{wallet: f, chainID: chainID}
}

func (f *FakeWallet) GetOfflineSigner(chainID string) wallet.OfflineSigner {
	f.record("GetOfflineSigner")
	return &fakeSigner{wallet: f, chainID: chainID}
}

type fakeSigner struct {
	wallet  *FakeWallet
	chainID string
}

func (s *fakeSigner) GetAccounts(_ context.Context) ([]wallet.AccountData, error) {
	return s.wallet.accounts(), nil
}

func (s *fakeSigner) SignAmino(ctx context.Context, signerAddress string, doc wallet.StdSignDoc) (*wallet.AminoSignResponse, error) {
	return s.wallet.SignAmino(ctx, signerAddress, doc)
}

func (s *fakeSigner) SignDirect(ctx context.Context, signerAddress string, doc *wallet.SignDoc) (*wallet.DirectSignResponse, error) {
	return s.wallet.SignDirect(ctx, signerAddress, doc)
}
