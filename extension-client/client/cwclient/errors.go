package cwclient

import (
	errorsmod "cosmossdk.io/errors"
)

const Codespace = "cwclient"

var (
	ErrChainIDMismatch   = errorsmod.Register(Codespace, 2, "node chain id does not match")
	ErrTxFailed          = errorsmod.Register(Codespace, 3, "transaction failed")
	ErrBroadcastTimeout  = errorsmod.Register(Codespace, 4, "transaction was submitted but not yet found on chain")
	ErrNoContractAddress = errorsmod.Register(Codespace, 5, "no contract address in instantiate events")
	ErrNoAccount         = errorsmod.Register(Codespace, 6, "signer has no account")
)
