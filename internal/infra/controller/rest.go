package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/quintans/eventsourcing/log"
	"github.com/shopspring/decimal"

	"github.com/Shivam1116/banking-app/internal/domain"
	"github.com/Shivam1116/banking-app/internal/domain/entity"
	"github.com/Shivam1116/banking-app/shared/utils"
)

const maxAmountLen = 32

const (
	TitleSuccess = "Success"
	TitleError   = "Error"
	TitleInfo    = "Account Info"
)

// Text is a form value kept as raw text. In JSON bodies it accepts strings and numbers.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = Text(n.String())
	return nil
}

func (t Text) Trimmed() string {
	return strings.TrimSpace(string(t))
}

type CreateAccountRequest struct {
	Number  Text `json:"number" form:"number"`
	Holder  Text `json:"holder" form:"holder"`
	Balance Text `json:"balance" form:"balance"`
}

type AmountRequest struct {
	Amount Text `json:"amount" form:"amount"`
}

// Message is what the user gets to read: a titled text, optionally with the account it refers to.
type Message struct {
	Title   string             `json:"title"`
	Message string             `json:"message"`
	Account *domain.AccountDTO `json:"account,omitempty"`
}

type RestController struct {
	logger     log.Logger
	accService domain.AccountService
}

func NewRestController(logger log.Logger, accountService domain.AccountService) RestController {
	return RestController{
		logger:     logger,
		accService: accountService,
	}
}

func (ctl RestController) Register(e *echo.Echo) {
	e.GET("/", ctl.Ping)
	e.GET("/accounts", ctl.ListAll)
	e.POST("/accounts", ctl.Create)
	e.GET("/accounts/:id", ctl.Info)
	e.GET("/accounts/:id/balance", ctl.Balance)
	e.POST("/accounts/:id/deposit", ctl.Deposit)
	e.POST("/accounts/:id/withdraw", ctl.Withdraw)
}

func (ctl RestController) Ping(c echo.Context) error {
	return c.String(http.StatusOK, "ready to server")
}

func (ctl RestController) Create(c echo.Context) error {
	req := CreateAccountRequest{}
	if err := c.Bind(&req); err != nil {
		return resolveError(c, entity.Reject(domain.ErrInvalidInput, "Invalid account details!"))
	}

	balance := decimal.Zero
	if text := req.Balance.Trimmed(); text != "" {
		var ok bool
		balance, ok = parseMoney(text)
		if !ok {
			return resolveError(c, entity.Reject(domain.ErrInvalidInput, "Invalid balance amount!"))
		}
	}

	ctx := ctl.requestCtx(c)
	dto, err := ctl.accService.Create(ctx, domain.CreateAccountCommand{
		ID:      req.Number.Trimmed(),
		Owner:   req.Holder.Trimmed(),
		Balance: balance,
	})
	if err != nil {
		return resolveError(c, err)
	}
	return c.JSON(http.StatusCreated, Message{
		Title:   TitleSuccess,
		Message: "Account created successfully!",
		Account: &dto,
	})
}

func (ctl RestController) Deposit(c echo.Context) error {
	cmd, err := ctl.moneyCommand(c, "deposit")
	if err != nil {
		return resolveError(c, err)
	}
	dto, err := ctl.accService.Deposit(ctl.requestCtx(c), cmd)
	if err != nil {
		return resolveError(c, err)
	}
	return c.JSON(http.StatusOK, Message{
		Title:   TitleSuccess,
		Message: fmt.Sprintf("Deposited %s. New balance: %s.", entity.FormatMoney(cmd.Amount), entity.FormatMoney(dto.Balance)),
		Account: &dto,
	})
}

func (ctl RestController) Withdraw(c echo.Context) error {
	cmd, err := ctl.moneyCommand(c, "withdrawal")
	if err != nil {
		return resolveError(c, err)
	}
	dto, err := ctl.accService.Withdraw(ctl.requestCtx(c), cmd)
	if err != nil {
		return resolveError(c, err)
	}
	return c.JSON(http.StatusOK, Message{
		Title:   TitleSuccess,
		Message: fmt.Sprintf("Withdrew %s. New balance: %s.", entity.FormatMoney(cmd.Amount), entity.FormatMoney(dto.Balance)),
		Account: &dto,
	})
}

func (ctl RestController) Info(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	text, err := ctl.accService.Describe(ctl.requestCtx(c), id)
	if err != nil {
		return resolveError(c, err)
	}
	return c.JSON(http.StatusOK, Message{
		Title:   TitleInfo,
		Message: text,
	})
}

func (ctl RestController) Balance(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	dto, err := ctl.accService.Balance(ctl.requestCtx(c), id)
	if err != nil {
		return resolveError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (ctl RestController) ListAll(c echo.Context) error {
	dtos, err := ctl.accService.List(ctl.requestCtx(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dtos)
}

func (ctl RestController) moneyCommand(c echo.Context, kind string) (domain.MoneyCommand, error) {
	invalid := entity.Reject(domain.ErrInvalidInput, fmt.Sprintf("Invalid %s amount!", kind))
	req := AmountRequest{}
	if err := c.Bind(&req); err != nil {
		return domain.MoneyCommand{}, invalid
	}
	amount, ok := parseMoney(req.Amount.Trimmed())
	if !ok {
		return domain.MoneyCommand{}, invalid
	}
	return domain.MoneyCommand{
		ID:     strings.TrimSpace(c.Param("id")),
		Amount: amount,
	}, nil
}

func (ctl RestController) requestCtx(c echo.Context) context.Context {
	tags := log.Tags{
		"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
	}
	ctx, _ := utils.LogTagsToCtx(utils.LogToCtx(c.Request().Context(), ctl.logger), tags)
	return ctx
}

// parseMoney reads an amount typed by the user. Text that is too long or
// does not hold a money value (see entity.IsMoney) is refused before any arithmetic.
func parseMoney(text string) (decimal.Decimal, bool) {
	if len(text) > maxAmountLen {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(text)
	if err != nil || !entity.IsMoney(d) {
		return decimal.Zero, false
	}
	return d, true
}

func resolveError(c echo.Context, err error) error {
	var code int
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		code = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, entity.ErrInvalidAmount):
		code = http.StatusBadRequest
	case errors.Is(err, entity.ErrInsufficientFunds), errors.Is(err, domain.ErrAccountExists):
		code = http.StatusConflict
	default:
		return err
	}
	return c.JSON(code, Message{
		Title:   TitleError,
		Message: userMessage(err),
	})
}

func userMessage(err error) string {
	var rejection entity.Rejection
	if errors.As(err, &rejection) {
		return rejection.Reason
	}
	var insufficient entity.InsufficientFundsError
	if errors.As(err, &insufficient) {
		return insufficient.Error()
	}
	return err.Error()
}
