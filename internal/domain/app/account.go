package app

import (
	"context"
	"errors"
	"strings"

	"github.com/quintans/eventsourcing/log"
	"github.com/quintans/faults"

	"github.com/Shivam1116/banking-app/internal/domain"
	"github.com/Shivam1116/banking-app/internal/domain/entity"
	"github.com/Shivam1116/banking-app/shared/utils"
)

type AccountService struct {
	repo domain.AccountRepository
}

func NewAccountService(repo domain.AccountRepository) AccountService {
	return AccountService{
		repo: repo,
	}
}

func (s AccountService) Create(ctx context.Context, cmd domain.CreateAccountCommand) (domain.AccountDTO, error) {
	id := strings.TrimSpace(cmd.ID)
	owner := strings.TrimSpace(cmd.Owner)
	if id == "" || owner == "" {
		return domain.AccountDTO{}, entity.Reject(domain.ErrInvalidInput, "Account number and holder name cannot be empty!")
	}
	if cmd.Balance.IsNegative() {
		return domain.AccountDTO{}, entity.Reject(domain.ErrInvalidInput, "Initial balance cannot be negative!")
	}
	if !entity.IsMoney(cmd.Balance) {
		return domain.AccountDTO{}, entity.Reject(domain.ErrInvalidInput, "Invalid balance amount!")
	}

	logger := utils.LogFromCtx(ctx).WithTags(log.Tags{
		"method":  "AccountService.Create",
		"account": id,
	})
	logger.Infof("Creating account with owner: %s, money: %s", owner, entity.FormatMoney(cmd.Balance))

	acc := entity.NewAccount(id, owner, cmd.Balance)
	if err := s.repo.New(ctx, acc); err != nil {
		logRejection(logger, err, "failed to create account")
		return domain.AccountDTO{}, err
	}
	return domain.NewAccountDTO(acc), nil
}

func (s AccountService) Deposit(ctx context.Context, cmd domain.MoneyCommand) (domain.AccountDTO, error) {
	logger := utils.LogFromCtx(ctx).WithTags(log.Tags{
		"method":  "AccountService.Deposit",
		"account": cmd.ID,
	})
	logger.Infof("Depositing money: %s", cmd.Amount)

	return s.exec(ctx, logger, cmd.ID, func(acc *entity.Account) error {
		return acc.Deposit(cmd.Amount)
	})
}

func (s AccountService) Withdraw(ctx context.Context, cmd domain.MoneyCommand) (domain.AccountDTO, error) {
	logger := utils.LogFromCtx(ctx).WithTags(log.Tags{
		"method":  "AccountService.Withdraw",
		"account": cmd.ID,
	})
	logger.Infof("Withdrawing money: %s", cmd.Amount)

	return s.exec(ctx, logger, cmd.ID, func(acc *entity.Account) error {
		return acc.Withdraw(cmd.Amount)
	})
}

func (s AccountService) exec(ctx context.Context, logger log.Logger, id string, mutate func(*entity.Account) error) (domain.AccountDTO, error) {
	var dto domain.AccountDTO
	err := s.repo.Exec(ctx, id, func(acc *entity.Account) (*entity.Account, error) {
		if err := mutate(acc); err != nil {
			return nil, err
		}
		dto = domain.NewAccountDTO(acc)
		return acc, nil
	})
	if err != nil {
		logRejection(logger, err, "operation rejected")
		return domain.AccountDTO{}, err
	}
	return dto, nil
}

// logRejection logs expected outcomes of user input at debug level and anything else as a warning.
func logRejection(logger log.Logger, err error, msg string) {
	var rejection entity.Rejection
	var insufficient entity.InsufficientFundsError
	if errors.As(err, &rejection) || errors.As(err, &insufficient) {
		logger.WithError(err).Debug(msg)
		return
	}
	logger.WithError(err).Warn(msg)
}

func (s AccountService) Balance(ctx context.Context, id string) (domain.AccountDTO, error) {
	acc, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.AccountDTO{}, err
	}
	return domain.NewAccountDTO(acc), nil
}

func (s AccountService) Describe(ctx context.Context, id string) (string, error) {
	acc, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	utils.LogFromCtx(ctx).Debugf("Describing %s", utils.LazyStr(acc.Describe))
	return acc.Describe(), nil
}

func (s AccountService) List(ctx context.Context) ([]domain.AccountDTO, error) {
	accs, err := s.repo.List(ctx)
	if err != nil {
		return nil, faults.Wrap(err)
	}
	dtos := make([]domain.AccountDTO, 0, len(accs))
	for _, acc := range accs {
		dtos = append(dtos, domain.NewAccountDTO(acc))
	}
	return dtos, nil
}
