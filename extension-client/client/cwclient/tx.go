package cwclient

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"time"

	sdkmath "cosmossdk.io/math"
	abci "github.com/cometbft/cometbft/abci/types"
	ctypes "github.com/cometbft/cometbft/rpc/core/types"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	"github.com/cosmos/cosmos-sdk/types/tx/signing"
	"github.com/pkg/errors"

	"github.com/vectis-labs/vectis/extension-client/wallet"
)

// TxResult is a transaction found in a block.
type TxResult struct {
	TxHash    string
	Height    int64
	GasWanted int64
	GasUsed   int64
	Events    []abci.Event
}

// signAndBroadcast runs the whole pipeline for msgs sent by senderAddr: simulate for gas,
// price the fee, sign with the offline signer, broadcast and wait for inclusion.
func (c *SigningClient) signAndBroadcast(ctx context.Context, senderAddr string, msgs []sdk.Msg, memo string) (*TxResult, error) {
	account, err := c.signerAccount(ctx, senderAddr)
	if err != nil {
		return nil, err
	}

	info, err := c.queryAccount(ctx, senderAddr)
	if err != nil {
		return nil, err
	}

	pubKey := &secp256k1.PubKey{Key: account.PubKey}

	gasUsed, err := c.simulate(ctx, msgs, memo, pubKey, info.sequence)
	if err != nil {
		return nil, err
	}

	gas := gasLimit(gasUsed, c.cfg.GasAdjustment)
	fee := computeFee(c.cfg.GasPrice, gas)

	c.logger.Debug(
		"tx priced",
		"sender", senderAddr,
		"gasUsed", gasUsed,
		"gasLimit", gas,
		"fee", fee.String(),
	)

	bodyBytes, authInfoBytes, err := buildTx(msgs, memo, pubKey, info.sequence, fee, gas)
	if err != nil {
		return nil, err
	}

	signed, err := c.signer.SignDirect(ctx, senderAddr, &txtypes.SignDoc{
		BodyBytes:     bodyBytes,
		AuthInfoBytes: authInfoBytes,
		ChainId:       c.cfg.ChainID,
		AccountNumber: info.number,
	})
	if err != nil {
		return nil, errors.Wrap(err, "sign tx failed")
	}

	txBytes, err := rawTx(signed)
	if err != nil {
		return nil, err
	}

	return c.broadcastTx(ctx, txBytes)
}

func (c *SigningClient) signerAccount(ctx context.Context, address string) (*wallet.AccountData, error) {
	accounts, err := c.signer.GetAccounts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get signer accounts failed")
	}

	for i := range accounts {
		if accounts[i].Address == address {
			return &accounts[i], nil
		}
	}

	return nil, errors.Errorf("failed to retrieve account %s from signer", address)
}

func (c *SigningClient) simulate(ctx context.Context, msgs []sdk.Msg, memo string, pubKey *secp256k1.PubKey, sequence uint64) (uint64, error) {
	bodyBytes, authInfoBytes, err := buildTx(msgs, memo, pubKey, sequence, sdk.NewCoins(), 0)
	if err != nil {
		return 0, err
	}

	txBytes, err := (&txtypes.TxRaw{
		BodyBytes:     bodyBytes,
		AuthInfoBytes: authInfoBytes,
		Signatures:    [][]byte{{}},
	}).Marshal()
	if err != nil {
		return 0, errors.Wrap(err, "marshal simulation tx failed")
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	res, err := txtypes.NewServiceClient(c.clientCtx).Simulate(ctx, &txtypes.SimulateRequest{TxBytes: txBytes})
	if err != nil {
		return 0, errors.Wrap(err, "simulate tx failed")
	}
	if res.GasInfo == nil {
		return 0, errors.New("simulate tx returned no gas info")
	}

	return res.GasInfo.GasUsed, nil
}

// broadcastTx broadcasts in sync mode then polls until the tx is in a block or the broadcast
// timeout expires.
func (c *SigningClient) broadcastTx(ctx context.Context, txBytes []byte) (*TxResult, error) {
	res, err := c.bcast.BroadcastTxSync(ctx, txBytes)
	if err != nil {
		return nil, errors.Wrap(err, "broadcast tx failed")
	}
	if res.Code != abci.CodeTypeOK {
		return nil, errors.Wrapf(ErrTxFailed, "broadcast rejected, codespace %s code %d: %s", res.Codespace, res.Code, res.Log)
	}

	hash := fmt.Sprintf("%X", []byte(res.Hash))
	c.logger.Info("tx broadcast", "txHash", hash)

	deadlineAt := time.Now().Add(c.cfg.BroadcastTimeout)
	deadline := time.NewTimer(c.cfg.BroadcastTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(c.cfg.BroadcastPollInterval)
	defer ticker.Stop()

	timedOut := func() error {
		return errors.Wrapf(ErrBroadcastTimeout, "tx %s after %s", hash, c.cfg.BroadcastTimeout)
	}

	for {
		select {
		case <-ctx.Done():
			return nil, errors.Wrapf(ctx.Err(), "wait for tx %s", hash)
		case <-deadline.C:
			return nil, timedOut()
		case <-ticker.C:
			found, err := c.pollTx(ctx, res.Hash, deadlineAt)
			if err != nil {
				if ctx.Err() != nil {
					return nil, errors.Wrapf(ctx.Err(), "wait for tx %s", hash)
				}
				if !time.Now().Before(deadlineAt) {
					return nil, timedOut()
				}
				// not indexed yet
				continue
			}

			result := found.TxResult
			if result.Code != abci.CodeTypeOK {
				return nil, errors.Wrapf(ErrTxFailed, "tx %s codespace %s code %d: %s", hash, result.Codespace, result.Code, result.Log)
			}

			return &TxResult{
				TxHash:    hash,
				Height:    found.Height,
				GasWanted: result.GasWanted,
				GasUsed:   result.GasUsed,
				Events:    result.Events,
			}, nil
		}
	}
}

// pollTx looks the tx up once, bounded by the broadcast deadline so a stalled node cannot hold
// the wait past it.
func (c *SigningClient) pollTx(ctx context.Context, hash []byte, deadlineAt time.Time) (*ctypes.ResultTx, error) {
	ctx, cancel := context.WithDeadline(ctx, deadlineAt)
	defer cancel()

	return c.bcast.Tx(ctx, hash, false)
}

func buildTx(
	msgs []sdk.Msg,
	memo string,
	pubKey *secp256k1.PubKey,
	sequence uint64,
	fee sdk.Coins,
	gas uint64,
) (bodyBytes []byte, authInfoBytes []byte, err error) {
	anys := make([]*codectypes.Any, 0, len(msgs))
	for _, msg := range msgs {
		a, err := codectypes.NewAnyWithValue(msg)
		if err != nil {
			return nil, nil, errors.Wrap(err, "pack msg failed")
		}
		anys = append(anys, a)
	}

	bodyBytes, err = (&txtypes.TxBody{Messages: anys, Memo: memo}).Marshal()
	if err != nil {
		return nil, nil, errors.Wrap(err, "marshal tx body failed")
	}

	pkAny, err := codectypes.NewAnyWithValue(pubKey)
	if err != nil {
		return nil, nil, errors.Wrap(err, "pack pubkey failed")
	}

	authInfo := &txtypes.AuthInfo{
		SignerInfos: []*txtypes.SignerInfo{{
			PublicKey: pkAny,
			ModeInfo: &txtypes.ModeInfo{
				Sum: &txtypes.ModeInfo_Single_{
					Single: &txtypes.ModeInfo_Single{Mode: signing.SignMode_SIGN_MODE_DIRECT},
				},
			},
			Sequence: sequence,
		}},
		Fee: &txtypes.Fee{
			Amount:   fee,
			GasLimit: gas,
		},
	}

	authInfoBytes, err = authInfo.Marshal()
	if err != nil {
		return nil, nil, errors.Wrap(err, "marshal auth info failed")
	}

	return bodyBytes, authInfoBytes, nil
}

// rawTx assembles the broadcastable bytes from what the signer returned. The signer may have
// changed the document, so its copy is used.
func rawTx(signed *wallet.DirectSignResponse) ([]byte, error) {
	if signed == nil || signed.Signed == nil {
		return nil, errors.New("signer returned no signed document")
	}

	sig, err := base64.StdEncoding.DecodeString(signed.Signature.Signature)
	if err != nil {
		return nil, errors.Wrap(err, "decode signature failed")
	}

	txBytes, err := (&txtypes.TxRaw{
		BodyBytes:     signed.Signed.BodyBytes,
		AuthInfoBytes: signed.Signed.AuthInfoBytes,
		Signatures:    [][]byte{sig},
	}).Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal tx failed")
	}

	return txBytes, nil
}

func gasLimit(simulated uint64, adjustment float64) uint64 {
	return uint64(math.Floor(float64(simulated) * adjustment))
}

// computeFee is ceil(gasPrice * gas) in the gas price denom.
func computeFee(gasPrice sdk.DecCoin, gas uint64) sdk.Coins {
	amount := gasPrice.Amount.Mul(sdkmath.LegacyNewDecFromInt(sdkmath.NewIntFromUint64(gas))).Ceil().TruncateInt()
	return sdk.NewCoins(sdk.NewCoin(gasPrice.Denom, amount))
}
