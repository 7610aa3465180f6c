package keyring

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	"github.com/cosmos/cosmos-sdk/types/tx/signing"
	"github.com/pkg/errors"

	"github.com/vectis-labs/vectis/extension-client/wallet"
)

const msgSignDataType = "sign/MsgSignData"

type msgSignData struct {
	Signer string `json:"signer"`
	Data   string `json:"data"`
}

// MakeADR36SignDoc builds the off-chain sign document of ADR-036: an amino doc with an empty
// chain id, zero account number, sequence and fee, carrying a single MsgSignData.
func MakeADR36SignDoc(signerAddress string, data []byte) (wallet.StdSignDoc, error) {
	value, err := json.Marshal(msgSignData{
		Signer: signerAddress,
		Data:   base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return wallet.StdSignDoc{}, errors.Wrap(err, "marshal MsgSignData failed")
	}

	return wallet.StdSignDoc{
		ChainID:       "",
		AccountNumber: "0",
		Sequence:      "0",
		Fee: wallet.StdFee{
			Amount: []wallet.Coin{},
			Gas:    "0",
		},
		Msgs: []wallet.AminoMsg{{
			Type:  msgSignDataType,
			Value: value,
		}},
		Memo: "",
	}, nil
}

func (w *Wallet) SignArbitrary(_ context.Context, chainID, signerAddress string, data []byte) (*wallet.AminoSignResponse, error) {
	if _, err := w.enabledChain(chainID); err != nil {
		return nil, err
	}

	doc, err := MakeADR36SignDoc(signerAddress, data)
	if err != nil {
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

// VerifyArbitrary reports whether signature is a valid ADR-036 signature of data by
// signerAddress. Malformed input is an error, a well formed but wrong signature is false.
func (w *Wallet) VerifyArbitrary(
	_ context.Context,
	chainID, signerAddress string,
	data []byte,
	signature wallet.StdSignature,
) (bool, error) {
	info, err := w.enabledChain(chainID)
	if err != nil {
		return false, err
	}

	return VerifyADR36(accountPrefix(info), signerAddress, data, signature)
}

// VerifyADR36 checks an ADR-036 signature against a bech32 prefix.
func VerifyADR36(prefix, signerAddress string, data []byte, signature wallet.StdSignature) (bool, error) {
	if signature.PubKey.Type != wallet.PubKeyTypeSecp256k1 {
		return false, errors.Wrapf(wallet.ErrInvalidSignature, "unsupported pubkey type %q", signature.PubKey.Type)
	}

	rawPub, err := base64.StdEncoding.DecodeString(signature.PubKey.Value)
	if err != nil {
		return false, errors.Wrapf(wallet.ErrInvalidSignature, "decode pubkey: %v", err)
	}

	// accepts compressed and uncompressed points, cosmos addresses derive from the compressed one
	parsed, err := btcec.ParsePubKey(rawPub)
	if err != nil {
		return false, errors.Wrapf(wallet.ErrInvalidSignature, "parse pubkey: %v", err)
	}
	pub := &secp256k1.PubKey{Key: parsed.SerializeCompressed()}

	derived, err := bech32.ConvertAndEncode(prefix, pub.Address())
	if err != nil {
		return false, errors.Wrap(err, "encode signer address failed")
	}
	if derived != signerAddress {
		return false, nil
	}

	sig, err := base64.StdEncoding.DecodeString(signature.Signature)
	if err != nil {
		return false, errors.Wrapf(wallet.ErrInvalidSignature, "decode signature: %v", err)
	}

	doc, err := MakeADR36SignDoc(signerAddress, data)
	if err != nil {
		return false, err
	}

	signBytes, err := doc.SortedBytes()
	if err != nil {
		return false, err
	}

	return pub.VerifySignature(signBytes, sig), nil
}
