package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Shivam1116/banking-app/internal/domain"
	"github.com/Shivam1116/banking-app/internal/domain/entity"
)

type Option func(*AccountRepository)

// WithOverwrite makes New replace an existing account instead of failing.
func WithOverwrite(overwrite bool) Option {
	return func(r *AccountRepository) {
		r.overwrite = overwrite
	}
}

// AccountRepository keeps accounts in memory for the lifetime of the process.
// Stored accounts never leave the repository; callers always get copies.
type AccountRepository struct {
	mu        sync.Mutex
	accounts  map[string]*entity.Account
	overwrite bool
}

func NewAccountRepository(options ...Option) *AccountRepository {
	r := &AccountRepository{
		accounts: map[string]*entity.Account{},
	}
	for _, o := range options {
		o(r)
	}
	return r
}

func (r *AccountRepository) Get(_ context.Context, id string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.accounts[id]
	if !ok {
		return nil, entity.Reject(domain.ErrAccountNotFound, "Account not found!")
	}
	cp := *acc
	return &cp, nil
}

func (r *AccountRepository) New(_ context.Context, acc *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[acc.ID]; ok && !r.overwrite {
		return entity.Reject(domain.ErrAccountExists, fmt.Sprintf("Account %s already exists!", acc.ID))
	}
	cp := *acc
	r.accounts[acc.ID] = &cp
	return nil
}

// Exec hands a copy of the account to do and stores the result only if do succeeds.
func (r *AccountRepository) Exec(_ context.Context, id string, do func(*entity.Account) (*entity.Account, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.accounts[id]
	if !ok {
		return entity.Reject(domain.ErrAccountNotFound, "Account not found!")
	}
	cp := *acc
	updated, err := do(&cp)
	if err != nil {
		return err
	}
	stored := *updated
	r.accounts[id] = &stored
	return nil
}

func (r *AccountRepository) List(_ context.Context) ([]*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*entity.Account, 0, len(r.accounts))
	for _, acc := range r.accounts {
		cp := *acc
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}
