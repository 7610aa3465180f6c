package cwclient

import (
	"context"
	"encoding/json"

	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/pkg/errors"
)

// QueryContractSmart sends query, JSON encoded, to the contract and decodes the answer into resp.
func (c *SigningClient) QueryContractSmart(ctx context.Context, contractAddr string, query any, resp any) error {
	queryData, err := json.Marshal(query)
	if err != nil {
		return errors.Wrap(err, "marshal smart query failed")
	}

	return c.querySmartContractState(ctx, contractAddr, queryData, resp)
}

// querySmartContractState queries the smart contract state given the contract address and query data
func (c *SigningClient) querySmartContractState(
	ctx context.Context,
	contractAddr string,
	queryData []byte,
	resp any,
) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	wasmQueryClient := wasmtypes.NewQueryClient(c.clientCtx)

	req := &wasmtypes.QuerySmartContractStateRequest{
		Address:   contractAddr,
		QueryData: queryData,
	}
	respData, err := wasmQueryClient.SmartContractState(ctx, req)
	if err != nil {
		return errors.Wrap(err, "query smart contract state failed")
	}

	if err := json.Unmarshal(respData.Data, resp); err != nil {
		return errors.Wrap(err, "unmarshal smart contract state failed")
	}

	return nil
}

type accountInfo struct {
	number   uint64
	sequence uint64
}

func (c *SigningClient) queryAccount(ctx context.Context, address string) (accountInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	res, err := authtypes.NewQueryClient(c.clientCtx).Account(ctx, &authtypes.QueryAccountRequest{Address: address})
	if err != nil {
		return accountInfo{}, errors.Wrapf(ErrNoAccount, "%s: %v", address, err)
	}

	var acc sdk.AccountI
	if err := c.encCfg.InterfaceRegistry.UnpackAny(res.Account, &acc); err != nil {
		return accountInfo{}, errors.Wrapf(err, "unpack account %s failed", address)
	}

	return accountInfo{
		number:   acc.GetAccountNumber(),
		sequence: acc.GetSequence(),
	}, nil
}
