package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Shivam1116/banking-app/internal/domain/entity"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
)

type AccountService interface {
	Create(ctx context.Context, cmd CreateAccountCommand) (AccountDTO, error)
	Deposit(ctx context.Context, cmd MoneyCommand) (AccountDTO, error)
	Withdraw(ctx context.Context, cmd MoneyCommand) (AccountDTO, error)
	Balance(ctx context.Context, id string) (AccountDTO, error)
	Describe(ctx context.Context, id string) (string, error)
	List(ctx context.Context) ([]AccountDTO, error)
}

type CreateAccountCommand struct {
	ID      string
	Owner   string
	Balance decimal.Decimal
}

type MoneyCommand struct {
	ID     string
	Amount decimal.Decimal
}

type AccountDTO struct {
	ID      string          `json:"id"`
	Owner   string          `json:"owner"`
	Balance decimal.Decimal `json:"balance"`
}

func NewAccountDTO(acc *entity.Account) AccountDTO {
	return AccountDTO{
		ID:      acc.ID,
		Owner:   acc.Owner,
		Balance: acc.GetBalance(),
	}
}

// AccountRepository is the account directory. Implementations must run Exec
// atomically with respect to every other call.
type AccountRepository interface {
	Get(ctx context.Context, id string) (*entity.Account, error)
	New(ctx context.Context, acc *entity.Account) error
	Exec(ctx context.Context, id string, do func(*entity.Account) (*entity.Account, error)) error
	List(ctx context.Context) ([]*entity.Account, error)
}
