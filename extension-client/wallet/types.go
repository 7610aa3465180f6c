package wallet

import (
	"encoding/json"

	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	"github.com/pkg/errors"
)

// SignDoc is the protobuf (SIGN_MODE_DIRECT) sign document.
type SignDoc = txtypes.SignDoc

const (
	AlgoSecp256k1 = "secp256k1"

	PubKeyTypeSecp256k1 = "tendermint/PubKeySecp256k1"
)

// KeyInfo is the public identity of the active wallet account on one chain.
type KeyInfo struct {
	Name          string `json:"name"`
	Algo          string `json:"algo"`
	PubKey        []byte `json:"pubKey"`
	Address       []byte `json:"address"`
	Bech32Address string `json:"bech32Address"`
	IsNanoLedger  bool   `json:"isNanoLedger"`
}

type AccountData struct {
	Address string `json:"address"`
	Algo    string `json:"algo"`
	PubKey  []byte `json:"pubkey"`
}

// PubKey is the amino JSON form of a public key, Value is base64.
type PubKey struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// StdSignature carries a base64 encoded signature together with the signing key.
type StdSignature struct {
	PubKey    PubKey `json:"pub_key"`
	Signature string `json:"signature"`
}

type AminoSignResponse struct {
	// Signed is the document that was actually signed, wallets may have altered fees or memo.
	Signed    StdSignDoc   `json:"signed"`
	Signature StdSignature `json:"signature"`
}

type DirectSignResponse struct {
	Signed    *SignDoc     `json:"signed"`
	Signature StdSignature `json:"signature"`
}

// StdSignDoc is the amino JSON sign document, numbers are decimal strings as wallets expect.
type StdSignDoc struct {
	ChainID       string     `json:"chain_id"`
	AccountNumber string     `json:"account_number"`
	Sequence      string     `json:"sequence"`
	TimeoutHeight string     `json:"timeout_height,omitempty"`
	Fee           StdFee     `json:"fee"`
	Msgs          []AminoMsg `json:"msgs"`
	Memo          string     `json:"memo"`
}

type StdFee struct {
	Amount  []Coin `json:"amount"`
	Gas     string `json:"gas"`
	Granter string `json:"granter,omitempty"`
	Payer   string `json:"payer,omitempty"`
}

type Coin struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

type AminoMsg struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// SortedBytes is the canonical amino JSON encoding: keys sorted, no whitespace.
func (d StdSignDoc) SortedBytes() ([]byte, error) {
	if d.Msgs == nil {
		d.Msgs = []AminoMsg{}
	}
	if d.Fee.Amount == nil {
		d.Fee.Amount = []Coin{}
	}

	bz, err := json.Marshal(d)
	if err != nil {
		return nil, errors.Wrap(err, "marshal sign doc failed")
	}

	sorted, err := sdk.SortJSON(bz)
	if err != nil {
		return nil, errors.Wrap(err, "sort sign doc failed")
	}

	return sorted, nil
}
