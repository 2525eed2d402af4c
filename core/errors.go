package core

import "errors"

var (
	// ErrUnknownAsset means the asset id was never issued by this engine.
	ErrUnknownAsset = errors.New("unknown asset")

	// ErrAlreadyLaunched rejects curve trading on a graduated asset.
	ErrAlreadyLaunched = errors.New("asset already launched")

	// ErrInsufficientPayment rejects a buy or creation whose supplied
	// payment does not cover cost plus fee.
	ErrInsufficientPayment = errors.New("insufficient payment")

	// ErrInsufficientBalance rejects a sell exceeding the caller's
	// holdings.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInsufficientReserve rejects a sell whose gross refund would
	// drive the funding reserve negative.
	ErrInsufficientReserve = errors.New("insufficient reserve")

	// ErrOverflow aborts a call whose pricing math exceeded 256 bits.
	ErrOverflow = errors.New("arithmetic overflow")

	// ErrReentrantCall rejects a buy/sell/launch entered while another
	// call on the same asset is still in flight.
	ErrReentrantCall = errors.New("reentrant call")

	// ErrTransferFailed means a payout to the liquidity pool provider
	// could not be completed.
	ErrTransferFailed = errors.New("transfer failed")

	// ErrNotOperator rejects a privileged call from anyone but the
	// configured operator.
	ErrNotOperator = errors.New("not the operator")
)
