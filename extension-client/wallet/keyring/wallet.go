package keyring

import (
	"bytes"
	"context"
	"encoding/base64"
	"sort"
	"sync"

	"github.com/cosmos/cosmos-sdk/types/bech32"
	"github.com/cosmos/cosmos-sdk/types/tx/signing"
	"github.com/pkg/errors"

	sdkkeyring "github.com/cosmos/cosmos-sdk/crypto/keyring"

	"github.com/vectis-labs/vectis/extension-client/chains"
	"github.com/vectis-labs/vectis/extension-client/core/logging"
	"github.com/vectis-labs/vectis/extension-client/wallet"
)

var _ wallet.CosmosWallet = &Wallet{}

// Wallet is a wallet capability backed by a cosmos-sdk keyring. It plays the role the browser
// extension plays for web pages: it keeps the known chains, the chains the user allowed, and
// the active key.
type Wallet struct {
	wallet.Observers

	logger   logging.Logger
	kr       sdkkeyring.Keyring
	approver Approver

	mu      sync.RWMutex
	chains  map[string]chains.ChainInfo
	enabled map[string]bool
	keyName string
	// chain named last by Enable, its prefix addresses account change events
	activeChain string
}

// New creates a wallet using keyName as the active key. The static networks are known from
// the start, others have to be suggested.
func New(logger logging.Logger, kr sdkkeyring.Keyring, keyName string, approver Approver) *Wallet {
	if approver == nil {
		approver = DenyAll
	}

	known := make(map[string]chains.ChainInfo)
	for _, info := range chains.All() {
		known[info.ChainID] = info
	}

	return &Wallet{
		logger:   logger.With("module", "keyringWallet"),
		kr:       kr,
		approver: approver,
		chains:   known,
		enabled:  make(map[string]bool),
		keyName:  keyName,
	}
}

func (w *Wallet) Keyring() sdkkeyring.Keyring {
	return w.kr
}

func (w *Wallet) KeyName() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.keyName
}

// SelectKey switches the active account and notifies the account change listeners.
func (w *Wallet) SelectKey(name string) error {
	record, err := w.kr.Key(name)
	if err != nil {
		return errors.Wrapf(wallet.ErrKeyNotFound, "%s: %v", name, err)
	}

	w.mu.Lock()
	changed := w.keyName != name
	w.keyName = name
	active := w.activeChain
	w.mu.Unlock()

	if !changed {
		return nil
	}

	w.logger.Info("active key changed", "name", name, "chainId", active)

	prefix := ""
	if info, err := w.enabledChain(active); err == nil {
		prefix = accountPrefix(info)
	}

	key, err := keyInfoFromRecord(record, prefix)
	if err != nil {
		return err
	}
	w.Notify(*key)

	return nil
}

func (w *Wallet) Enable(ctx context.Context, chainIDs []string) error {
	w.mu.RLock()
	pending := make([]string, 0, len(chainIDs))
	for _, id := range chainIDs {
		if _, ok := w.chains[id]; !ok {
			w.mu.RUnlock()
			return errors.Wrapf(wallet.ErrChainNotSupported, "%s", id)
		}
		if !w.enabled[id] {
			pending = append(pending, id)
		}
	}
	w.mu.RUnlock()

	if len(pending) == 0 {
		w.setActiveChain(chainIDs)
		return nil
	}

	approved, err := w.approver.Approve(ctx, pending)
	if err != nil {
		return errors.Wrap(err, "ask permission failed")
	}
	if !approved {
		return errors.Wrapf(wallet.ErrPermissionDenied, "enable %v", pending)
	}

	w.mu.Lock()
	for _, id := range pending {
		w.enabled[id] = true
	}
	w.mu.Unlock()
	w.setActiveChain(chainIDs)

	w.logger.Info("chains enabled", "chains", pending)

	return nil
}

func (w *Wallet) setActiveChain(chainIDs []string) {
	if len(chainIDs) == 0 {
		return
	}

	w.mu.Lock()
	w.activeChain = chainIDs[len(chainIDs)-1]
	w.mu.Unlock()
}

func (w *Wallet) GetKey(_ context.Context, chainID string) (*wallet.KeyInfo, error) {
	info, err := w.enabledChain(chainID)
	if err != nil {
		return nil, err
	}

	record, err := w.activeRecord()
	if err != nil {
		return nil, err
	}

	return keyInfoFromRecord(record, accountPrefix(info))
}

func (w *Wallet) GetAccounts(ctx context.Context, chainID string) ([]wallet.AccountData, error) {
	key, err := w.GetKey(ctx, chainID)
	if err != nil {
		return nil, err
	}

	return []wallet.AccountData{{
		Address: key.Bech32Address,
		Algo:    key.Algo,
		PubKey:  key.PubKey,
	}}, nil
}

func (w *Wallet) GetSupportedChains(_ context.Context) ([]chains.ChainInfo, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	res := make([]chains.ChainInfo, 0, len(w.chains))
	for _, info := range w.chains {
		res = append(res, info.Clone())
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ChainID < res[j].ChainID })

	return res, nil
}

// SuggestChains registers chains. Already known chains keep their first registration.
func (w *Wallet) SuggestChains(_ context.Context, infos []chains.ChainInfo) error {
	for _, info := range infos {
		if info.ChainID == "" {
			return errors.New("suggested chain has no chain id")
		}
		if accountPrefix(info) == "" {
			return errors.Errorf("suggested chain %s has no bech32 prefix", info.ChainID)
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, info := range infos {
		if _, ok := w.chains[info.ChainID]; ok {
			continue
		}
		w.chains[info.ChainID] = info.Clone()
		w.logger.Info("chain suggested", "chainId", info.ChainID)
	}

	return nil
}

func (w *Wallet) SignAmino(_ context.Context, signerAddress string, doc wallet.StdSignDoc) (*wallet.AminoSignResponse, error) {
	if _, err := w.enabledChain(doc.ChainID); err != nil {
		return nil, err
	}

	signBytes, err := doc.SortedBytes()
	if err != nil {
		return nil, err
	}

	sig, err := w.sign(signerAddress, signBytes, signing.SignMode_SIGN_MODE_LEGACY_AMINO_JSON)
	if err != nil {
		return nil, err
	}

	return &wallet.AminoSignResponse{Signed: doc, Signature: *sig}, nil
}

func (w *Wallet) SignDirect(_ context.Context, signerAddress string, doc *wallet.SignDoc) (*wallet.DirectSignResponse, error) {
	if doc == nil {
		return nil, errors.New("nil sign doc")
	}
	if _, err := w.enabledChain(doc.ChainId); err != nil {
		return nil, err
	}

	signBytes, err := doc.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal sign doc failed")
	}

	sig, err := w.sign(signerAddress, signBytes, signing.SignMode_SIGN_MODE_DIRECT)
	if err != nil {
		return nil, err
	}

	return &wallet.DirectSignResponse{Signed: doc, Signature: *sig}, nil
}

func (w *Wallet) GetOfflineSignerAuto(_ context.Context, chainID string) (wallet.OfflineSigner, error) {
	if _, err := w.enabledChain(chainID); err != nil {
		return nil, err
	}

	record, err := w.activeRecord()
	if err != nil {
		return nil, err
	}

	// ledger apps only sign amino JSON
	if record.GetType() == sdkkeyring.TypeLedger {
		return w.GetOfflineSignerAmino(chainID), nil
	}

	return w.GetOfflineSignerDirect(chainID), nil
}

func (w *Wallet) GetOfflineSignerAmino(chainID string) wallet.OfflineAminoSigner {
	return &aminoSigner{wallet: w, chainID: chainID}
}

func (w *Wallet) GetOfflineSignerDirect(chainID string) wallet.OfflineDirectSigner {
	return &offlineSigner{aminoSigner{wallet: w, chainID: chainID}}
}

func (w *Wallet) GetOfflineSigner(chainID string) wallet.OfflineSigner {
	return &offlineSigner{aminoSigner{wallet: w, chainID: chainID}}
}

func (w *Wallet) enabledChain(chainID string) (chains.ChainInfo, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	info, ok := w.chains[chainID]
	if !ok {
		return chains.ChainInfo{}, errors.Wrapf(wallet.ErrChainNotSupported, "%s", chainID)
	}
	if !w.enabled[chainID] {
		return chains.ChainInfo{}, errors.Wrapf(wallet.ErrChainNotEnabled, "%s", chainID)
	}

	return info, nil
}

func (w *Wallet) activeRecord() (*sdkkeyring.Record, error) {
	name := w.KeyName()
	record, err := w.kr.Key(name)
	if err != nil {
		return nil, errors.Wrapf(wallet.ErrKeyNotFound, "%s: %v", name, err)
	}
	return record, nil
}

// sign checks signerAddress is the active key on whatever chain prefix it carries, then signs.
func (w *Wallet) sign(signerAddress string, msg []byte, mode signing.SignMode) (*wallet.StdSignature, error) {
	record, err := w.activeRecord()
	if err != nil {
		return nil, err
	}

	addr, err := record.GetAddress()
	if err != nil {
		return nil, errors.Wrap(err, "get key address failed")
	}

	_, signerBytes, err := bech32.DecodeAndConvert(signerAddress)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid signer address %s", signerAddress)
	}
	if !bytes.Equal(signerBytes, addr) {
		return nil, errors.Wrapf(wallet.ErrSignerMismatch, "%s", signerAddress)
	}

	sig, pub, err := w.kr.Sign(record.Name, msg, mode)
	if err != nil {
		return nil, errors.Wrap(err, "keyring sign failed")
	}

	return &wallet.StdSignature{
		PubKey: wallet.PubKey{
			Type:  wallet.PubKeyTypeSecp256k1,
			Value: base64.StdEncoding.EncodeToString(pub.Bytes()),
		},
		Signature: base64.StdEncoding.EncodeToString(sig),
	}, nil
}

func accountPrefix(info chains.ChainInfo) string {
	if info.Bech32Config.Bech32PrefixAccAddr != "" {
		return info.Bech32Config.Bech32PrefixAccAddr
	}
	return info.Bech32Prefix
}

func keyInfoFromRecord(record *sdkkeyring.Record, prefix string) (*wallet.KeyInfo, error) {
	pub, err := record.GetPubKey()
	if err != nil {
		return nil, errors.Wrapf(err, "get pubkey of %s failed", record.Name)
	}

	addr, err := record.GetAddress()
	if err != nil {
		return nil, errors.Wrapf(err, "get address of %s failed", record.Name)
	}

	key := &wallet.KeyInfo{
		Name:         record.Name,
		Algo:         pub.Type(),
		PubKey:       pub.Bytes(),
		Address:      addr,
		IsNanoLedger: record.GetType() == sdkkeyring.TypeLedger,
	}

	if prefix != "" {
		key.Bech32Address, err = bech32.ConvertAndEncode(prefix, addr)
		if err != nil {
			return nil, errors.Wrapf(err, "encode address with prefix %s failed", prefix)
		}
	}

	return key, nil
}

type aminoSigner struct {
	wallet  *Wallet
	chainID string
}

func (s *aminoSigner) GetAccounts(ctx context.Context) ([]wallet.AccountData, error) {
	return s.wallet.GetAccounts(ctx, s.chainID)
}

func (s *aminoSigner) SignAmino(ctx context.Context, signerAddress string, doc wallet.StdSignDoc) (*wallet.AminoSignResponse, error) {
	return s.wallet.SignAmino(ctx, signerAddress, doc)
}

// offlineSigner signs in both modes.
type offlineSigner struct {
	aminoSigner
}

func (s *offlineSigner) SignDirect(ctx context.Context, signerAddress string, doc *wallet.SignDoc) (*wallet.DirectSignResponse, error) {
	return s.wallet.SignDirect(ctx, signerAddress, doc)
}
