package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/quintans/eventsourcing/log"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivam1116/banking-app/internal/domain/app"
	"github.com/Shivam1116/banking-app/internal/infra/gateway/memory"
)

func newServer() *echo.Echo {
	l := logrus.New()
	l.SetOutput(io.Discard)

	svc := app.NewAccountService(memory.NewAccountRepository())
	e := echo.New()
	NewRestController(log.NewLogrus(l), svc).Register(e)
	return e
}

func postForm(t *testing.T, e *echo.Echo, path string, values url.Values) (int, Message) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return serve(t, e, req)
}

func postJSON(t *testing.T, e *echo.Echo, path string, body string) (int, Message) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return serve(t, e, req)
}

func get(t *testing.T, e *echo.Echo, path string) (int, Message) {
	t.Helper()
	return serve(t, e, httptest.NewRequest(http.MethodGet, path, nil))
}

func serve(t *testing.T, e *echo.Echo, req *http.Request) (int, Message) {
	t.Helper()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	msg := Message{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg), rec.Body.String())
	return rec.Code, msg
}

func createAlice(t *testing.T, e *echo.Echo) {
	t.Helper()
	code, msg := postForm(t, e, "/accounts", url.Values{
		"number":  {"A1"},
		"holder":  {"Alice"},
		"balance": {"100.0"},
	})
	require.Equal(t, http.StatusCreated, code, msg.Message)
}

func TestPing(t *testing.T) {
	e := newServer()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFormFlow(t *testing.T) {
	e := newServer()

	code, msg := postForm(t, e, "/accounts", url.Values{
		"number":  {" A1 "},
		"holder":  {"Alice"},
		"balance": {"100.0"},
	})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, TitleSuccess, msg.Title)
	assert.Equal(t, "Account created successfully!", msg.Message)
	require.NotNil(t, msg.Account)
	assert.Equal(t, "A1", msg.Account.ID)

	code, msg = postForm(t, e, "/accounts/A1/deposit", url.Values{"amount": {"50"}})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Deposited 50.00. New balance: 150.00.", msg.Message)

	code, msg = postForm(t, e, "/accounts/A1/withdraw", url.Values{"amount": {"200"}})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, TitleError, msg.Title)
	assert.Equal(t, "Insufficient funds. Available balance: 150.00.", msg.Message)

	code, msg = postForm(t, e, "/accounts/A1/withdraw", url.Values{"amount": {"30.25"}})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Withdrew 30.25. New balance: 119.75.", msg.Message)

	code, msg = get(t, e, "/accounts/A1")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, TitleInfo, msg.Title)
	assert.Equal(t, "Account Number: A1\nAccount Holder: Alice\nBalance: 119.75", msg.Message)
}

func TestJSONBody(t *testing.T) {
	e := newServer()

	code, _ := postJSON(t, e, "/accounts", `{"number":"A1","holder":"Alice"}`)
	require.Equal(t, http.StatusCreated, code)

	code, msg := postJSON(t, e, "/accounts/A1/deposit", `{"amount":1e300000000}`)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid deposit amount!", msg.Message)

	code, msg = postJSON(t, e, "/accounts/A1/deposit", `{"amount":12.5}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Deposited 12.50. New balance: 12.50.", msg.Message)

	code, msg = postJSON(t, e, "/accounts/A1/deposit", `{"amount":"7.5"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Deposited 7.50. New balance: 20.00.", msg.Message)
}

func TestErrors(t *testing.T) {
	e := newServer()
	createAlice(t, e)

	tests := []struct {
		name     string
		path     string
		values   url.Values
		wantCode int
		wantMsg  string
	}{
		{name: "empty number", path: "/accounts", values: url.Values{"number": {""}, "holder": {"Bob"}, "balance": {"10"}}, wantCode: http.StatusBadRequest, wantMsg: "Account number and holder name cannot be empty!"},
		{name: "empty holder", path: "/accounts", values: url.Values{"number": {"B1"}, "holder": {" "}}, wantCode: http.StatusBadRequest, wantMsg: "Account number and holder name cannot be empty!"},
		{name: "bad balance", path: "/accounts", values: url.Values{"number": {"B1"}, "holder": {"Bob"}, "balance": {"ten"}}, wantCode: http.StatusBadRequest, wantMsg: "Invalid balance amount!"},
		{name: "huge balance", path: "/accounts", values: url.Values{"number": {"B1"}, "holder": {"Bob"}, "balance": {"1e300000000"}}, wantCode: http.StatusBadRequest, wantMsg: "Invalid balance amount!"},
		{name: "fractional cent balance", path: "/accounts", values: url.Values{"number": {"B1"}, "holder": {"Bob"}, "balance": {"0.004"}}, wantCode: http.StatusBadRequest, wantMsg: "Invalid balance amount!"},
		{name: "negative balance", path: "/accounts", values: url.Values{"number": {"B1"}, "holder": {"Bob"}, "balance": {"-1"}}, wantCode: http.StatusBadRequest, wantMsg: "Initial balance cannot be negative!"},
		{name: "duplicate", path: "/accounts", values: url.Values{"number": {"A1"}, "holder": {"Bob"}}, wantCode: http.StatusConflict, wantMsg: "Account A1 already exists!"},
		{name: "bad deposit", path: "/accounts/A1/deposit", values: url.Values{"amount": {"abc"}}, wantCode: http.StatusBadRequest, wantMsg: "Invalid deposit amount!"},
		{name: "missing amount", path: "/accounts/A1/deposit", values: url.Values{}, wantCode: http.StatusBadRequest, wantMsg: "Invalid deposit amount!"},
		{name: "huge deposit", path: "/accounts/A1/deposit", values: url.Values{"amount": {"1e300000000"}}, wantCode: http.StatusBadRequest, wantMsg: "Invalid deposit amount!"},
		{name: "long deposit", path: "/accounts/A1/deposit", values: url.Values{"amount": {strings.Repeat("9", 40)}}, wantCode: http.StatusBadRequest, wantMsg: "Invalid deposit amount!"},
		{name: "fractional cent deposit", path: "/accounts/A1/deposit", values: url.Values{"amount": {"0.004"}}, wantCode: http.StatusBadRequest, wantMsg: "Invalid deposit amount!"},
		{name: "zero deposit", path: "/accounts/A1/deposit", values: url.Values{"amount": {"0"}}, wantCode: http.StatusBadRequest, wantMsg: "Deposit amount must be positive."},
		{name: "bad withdraw", path: "/accounts/A1/withdraw", values: url.Values{"amount": {"1e-300000000"}}, wantCode: http.StatusBadRequest, wantMsg: "Invalid withdrawal amount!"},
		{name: "negative withdraw", path: "/accounts/A1/withdraw", values: url.Values{"amount": {"-500"}}, wantCode: http.StatusBadRequest, wantMsg: "Withdrawal amount must be positive."},
		{name: "unknown deposit", path: "/accounts/ZZ/deposit", values: url.Values{"amount": {"1"}}, wantCode: http.StatusNotFound, wantMsg: "Account not found!"},
		{name: "unknown withdraw", path: "/accounts/ZZ/withdraw", values: url.Values{"amount": {"1"}}, wantCode: http.StatusNotFound, wantMsg: "Account not found!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := postForm(t, e, tt.path, tt.values)
			assert.Equal(t, tt.wantCode, code, msg.Message)
			assert.Equal(t, TitleError, msg.Title)
			assert.Equal(t, tt.wantMsg, msg.Message)
			assert.Nil(t, msg.Account)
		})
	}

	code, msg := get(t, e, "/accounts/ZZ")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Account not found!", msg.Message)

	// nothing above changed the account
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts/A1/balance", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var dto struct {
		Owner   string `json:"owner"`
		Balance string `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, "Alice", dto.Owner)
	assert.Equal(t, "100", dto.Balance)
}

func TestListAll(t *testing.T) {
	e := newServer()
	createAlice(t, e)
	code, _ := postForm(t, e, "/accounts", url.Values{"number": {"B2"}, "holder": {"Bob"}})
	require.Equal(t, http.StatusCreated, code)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "A1", list[0].ID)
	assert.Equal(t, "B2", list[1].ID)
}
