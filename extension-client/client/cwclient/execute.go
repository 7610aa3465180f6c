package cwclient

import (
	"context"
	"encoding/json"

	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	abci "github.com/cometbft/cometbft/abci/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
)

type InstantiateOptions struct {
	Admin string
	Funds sdk.Coins
	Memo  string
}

type InstantiateResult struct {
	ContractAddress string
	TxResult
}

// Instantiate creates a contract from codeID with msg as its JSON init message.
func (c *SigningClient) Instantiate(
	ctx context.Context,
	senderAddr string,
	codeID uint64,
	msg any,
	label string,
	opts *InstantiateOptions,
) (*InstantiateResult, error) {
	if opts == nil {
		opts = &InstantiateOptions{}
	}

	initMsg, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.Wrap(err, "Instantiate Marshal msg failed")
	}

	c.logger.Info(
		"Instantiate",
		"sender", senderAddr,
		"codeId", codeID,
		"label", label,
	)

	instantiateMsg := &wasmtypes.MsgInstantiateContract{
		Sender: senderAddr,
		Admin:  opts.Admin,
		CodeID: codeID,
		Label:  label,
		Msg:    initMsg,
		Funds:  opts.Funds,
	}

	tx, err := c.signAndBroadcast(ctx, senderAddr, []sdk.Msg{instantiateMsg}, opts.Memo)
	if err != nil {
		return nil, errors.Wrap(err, "Instantiate signAndBroadcast failed")
	}

	contractAddr, err := contractAddressFromEvents(tx.Events)
	if err != nil {
		return nil, errors.Wrapf(err, "tx %s", tx.TxHash)
	}

	c.logger.Info(
		"Instantiate resp",
		"Height", tx.Height,
		"TxHash", tx.TxHash,
		"contract", contractAddr,
	)

	return &InstantiateResult{
		ContractAddress: contractAddr,
		TxResult:        *tx,
	}, nil
}

// Execute sends msg, JSON encoded, to the contract.
func (c *SigningClient) Execute(
	ctx context.Context,
	senderAddr string,
	contractAddr string,
	msg any,
	funds sdk.Coins,
) (*TxResult, error) {
	execMsg, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.Wrap(err, "Execute Marshal msg failed")
	}

	c.logger.Info(
		"Execute",
		"sender", senderAddr,
		"contract", contractAddr,
	)

	executeMsg := &wasmtypes.MsgExecuteContract{
		Sender:   senderAddr,
		Contract: contractAddr,
		Msg:      execMsg,
		Funds:    funds,
	}

	tx, err := c.signAndBroadcast(ctx, senderAddr, []sdk.Msg{executeMsg}, "")
	if err != nil {
		return nil, errors.Wrap(err, "Execute signAndBroadcast failed")
	}

	c.logger.Info(
		"Execute resp",
		"Height", tx.Height,
		"TxHash", tx.TxHash,
	)

	return tx, nil
}

func contractAddressFromEvents(events []abci.Event) (string, error) {
	for _, event := range events {
		if event.Type != wasmtypes.EventTypeInstantiate {
			continue
		}
		for _, attr := range event.Attributes {
			if attr.Key == wasmtypes.AttributeKeyContractAddr {
				return attr.Value, nil
			}
		}
	}

	return "", ErrNoContractAddress
}
