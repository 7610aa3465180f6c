package cwclient

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// ISigningCosmWasmClient is what the todo application needs from a chain connection.
type ISigningCosmWasmClient interface {
	QueryContractSmart(ctx context.Context, contractAddr string, query any, resp any) error

	Instantiate(
		ctx context.Context,
		senderAddr string,
		codeID uint64,
		msg any,
		label string,
		opts *InstantiateOptions,
	) (*InstantiateResult, error)

	Execute(
		ctx context.Context,
		senderAddr string,
		contractAddr string,
		msg any,
		funds sdk.Coins,
	) (*TxResult, error)

	Close() error
}
