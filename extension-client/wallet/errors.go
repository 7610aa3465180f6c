package wallet

import (
	errorsmod "cosmossdk.io/errors"
)

// Codespace of the errors raised by the wallet adapter and the wallets behind it.
const Codespace = "vectis"

var (
	ErrNotInstalled       = errorsmod.Register(Codespace, 2, "vectis is not installed")
	ErrPermissionDenied   = errorsmod.Register(Codespace, 3, "permission denied by user")
	ErrChainNotSupported  = errorsmod.Register(Codespace, 4, "chain not supported")
	ErrChainNotEnabled    = errorsmod.Register(Codespace, 5, "chain not enabled")
	ErrKeyNotFound        = errorsmod.Register(Codespace, 6, "key not found")
	ErrSignerMismatch     = errorsmod.Register(Codespace, 7, "signer address does not match the active key")
	ErrInvalidSignature   = errorsmod.Register(Codespace, 8, "invalid signature")
	ErrUnsupportedSigning = errorsmod.Register(Codespace, 9, "signing mode not supported by signer")
	ErrInvalidListener    = errorsmod.Register(Codespace, 10, "account change listener cannot be compared")
)
