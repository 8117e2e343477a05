package entity

import (
	"errors"
	"fmt"

	"github.com/quintans/faults"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Bounds of any amount the ledger accepts.
const (
	maxExponent        = 15
	maxCoefficientBits = 128
)

// Rejection is an expected failure. Reason is the text shown to the user and Kind the sentinel it matches.
type Rejection struct {
	Kind   error
	Reason string
}

func (r Rejection) Error() string {
	return r.Reason
}

func (r Rejection) Unwrap() error {
	return r.Kind
}

func Reject(kind error, reason string) error {
	return faults.Wrap(Rejection{Kind: kind, Reason: reason})
}

// InsufficientFundsError is returned by Withdraw when the amount exceeds the balance.
// It carries the balance at the time of the request.
type InsufficientFundsError struct {
	Balance decimal.Decimal
}

func (e InsufficientFundsError) Error() string {
	return fmt.Sprintf("Insufficient funds. Available balance: %s.", FormatMoney(e.Balance))
}

func (InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

type Account struct {
	ID      string          `json:"id"`
	Owner   string          `json:"owner"`
	Balance decimal.Decimal `json:"balance"`
}

func NewAccount(id, owner string, initial decimal.Decimal) *Account {
	return &Account{
		ID:      id,
		Owner:   owner,
		Balance: initial,
	}
}

func (a *Account) Deposit(money decimal.Decimal) error {
	if !money.IsPositive() {
		return Reject(ErrInvalidAmount, "Deposit amount must be positive.")
	}
	if !IsMoney(money) {
		return Reject(ErrInvalidAmount, "Invalid deposit amount!")
	}
	a.Balance = a.Balance.Add(money)
	return nil
}

// Withdraw rejects non-positive amounts before checking funds,
// so a negative amount is always reported as ErrInvalidAmount.
func (a *Account) Withdraw(money decimal.Decimal) error {
	if !money.IsPositive() {
		return Reject(ErrInvalidAmount, "Withdrawal amount must be positive.")
	}
	if !IsMoney(money) {
		return Reject(ErrInvalidAmount, "Invalid withdrawal amount!")
	}
	if money.GreaterThan(a.Balance) {
		return faults.Wrap(InsufficientFundsError{Balance: a.Balance})
	}
	a.Balance = a.Balance.Sub(money)
	return nil
}

func (a *Account) GetBalance() decimal.Decimal {
	return a.Balance
}

func (a *Account) Describe() string {
	return fmt.Sprintf("Account Number: %s\nAccount Holder: %s\nBalance: %s", a.ID, a.Owner, FormatMoney(a.Balance))
}

// IsMoney reports whether d has a bounded magnitude and at most two decimal places.
// The exponent is checked first so that huge or tiny values are refused without arithmetic.
func IsMoney(d decimal.Decimal) bool {
	if e := d.Exponent(); e < -maxExponent || e > maxExponent {
		return false
	}
	if d.Coefficient().BitLen() > maxCoefficientBits {
		return false
	}
	return d.Equal(d.Round(2))
}

// FormatMoney renders an amount with two decimal places. Amounts accepted by IsMoney render exactly.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
