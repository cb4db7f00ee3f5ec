// Package validation runs the ordered precondition checks on a proposed
// transfer. It reads wallet state and decides; it never mutates anything.
package validation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/coinops/walletcore/core"
)

// Kind identifies which precondition a transfer failed.
type Kind int

const (
	SourceNotFound Kind = iota
	DestinationNotFound
	SelfTransfer
	NonPositiveAmount
	InsufficientBalance
)

// Error is the first-encountered validation failure for a transfer.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func fail(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Validator checks transfer preconditions against the wallet store.
type Validator struct {
	wallets core.WalletStore
}

func NewValidator(wallets core.WalletStore) *Validator {
	return &Validator{wallets: wallets}
}

// Validate runs the checks in fixed order and stops at the first failure:
// source exists, destination exists, not a self-transfer, positive amount,
// and the source balance covers amount plus fee (inclusive boundary).
//
// A *Error return is an expected rejection; any other error is an
// unexpected wallet store fault and carries no validation meaning.
func (v *Validator) Validate(from, to string, amount, fee decimal.Decimal) error {
	source, err := v.wallets.FindByAddress(from)
	if err != nil {
		return fmt.Errorf("looking up source wallet: %w", err)
	}
	if source == nil {
		return fail(SourceNotFound, "source wallet address not found")
	}

	dest, err := v.wallets.FindByAddress(to)
	if err != nil {
		return fmt.Errorf("looking up destination wallet: %w", err)
	}
	if dest == nil {
		return fail(DestinationNotFound, "destination wallet address not found")
	}

	if from == to {
		return fail(SelfTransfer, "cannot send funds to the sending address")
	}

	if !amount.IsPositive() {
		return fail(NonPositiveAmount, "amount must be greater than 0")
	}

	if source.Balance.LessThan(amount.Add(fee)) {
		return fail(InsufficientBalance,
			fmt.Sprintf("insufficient balance to cover amount plus fee, current balance: %s", source.Balance))
	}

	return nil
}
