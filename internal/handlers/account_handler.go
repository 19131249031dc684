package handlers

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"banking-api/internal/dto"
	"banking-api/internal/errors"
	"banking-api/internal/models"
	"banking-api/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// PaginationHeader is the response header carrying list pagination metadata
const PaginationHeader = "X-Pagination"

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	accountService   services.AccountServiceInterface
	metricsCollector services.MetricsRecorderInterface
}

// NewAccountHandler creates a new account handler. The metrics collector may
// be nil when metric collection is not wanted.
func NewAccountHandler(accountService services.AccountServiceInterface, metricsCollector services.MetricsRecorderInterface) *AccountHandler {
	return &AccountHandler{
		accountService:   accountService,
		metricsCollector: metricsCollector,
	}
}

// CreateAccount opens a new account with an optional opening balance
func (h *AccountHandler) CreateAccount(c echo.Context) error {
	var req dto.CreateAccountRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	initialBalance := decimal.Zero
	if req.Balance != "" {
		var err error
		initialBalance, err = decimal.NewFromString(req.Balance)
		if err != nil {
			return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid balance amount"))
		}
	}

	account, err := h.accountService.CreateAccount(req.Name, initialBalance)
	if err != nil {
		if err == services.ErrInvalidBalance {
			return SendError(c, errors.AccountInvalidAmount, errors.WithDetails(err.Error()))
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusCreated, account)
}

// GetAccount retrieves a single account by ID
func (h *AccountHandler) GetAccount(c echo.Context) error {
	accountID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid account ID"))
	}

	account, err := h.accountService.GetAccount(accountID)
	if err != nil {
		if err == services.ErrAccountNotFound {
			return SendError(c, errors.AccountNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, account)
}

// ListAccounts returns a filtered, sorted page of accounts. Pagination
// metadata is duplicated in the X-Pagination header for clients that only
// consume the account array.
func (h *AccountHandler) ListAccounts(c echo.Context) error {
	start := time.Now()

	var req dto.ListAccountsRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid query parameters"))
	}

	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	filter := models.NewAccountsFilter()
	if req.PageNumber > 0 {
		filter.PageNumber = req.PageNumber
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.SortBy != "" {
		filter.SortBy = req.SortBy
	}
	if req.SortOrder != "" {
		filter.SortOrder = req.SortOrder
	}
	filter.SearchTerm = req.SearchTerm
	filter.Active = req.Active

	accounts, pagination, err := h.accountService.ListAccounts(&filter)
	if err != nil {
		return SendSystemError(c, err)
	}

	if h.metricsCollector != nil {
		h.metricsCollector.RecordProcessingTime("list_accounts_duration", time.Since(start))
	}

	if meta, err := json.Marshal(pagination); err == nil {
		c.Response().Header().Set(PaginationHeader, string(meta))
	}

	return c.JSON(http.StatusOK, dto.AccountListResponse{
		Accounts:   accounts,
		Pagination: *pagination,
	})
}

// ChangeName renames an account
func (h *AccountHandler) ChangeName(c echo.Context) error {
	accountID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid account ID"))
	}

	var req dto.ChangeNameRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	account, err := h.accountService.ChangeName(accountID, req.Name)
	if err != nil {
		return mapAccountErr(c, err)
	}

	return c.JSON(http.StatusOK, account)
}

// Deposit credits an amount to an account
func (h *AccountHandler) Deposit(c echo.Context) error {
	return h.applyAmount(c, h.accountService.Deposit)
}

// Withdraw debits an amount from an account
func (h *AccountHandler) Withdraw(c echo.Context) error {
	return h.applyAmount(c, h.accountService.Withdraw)
}

// applyAmount parses the shared amount payload and runs the given balance
// operation against the account in the path
func (h *AccountHandler) applyAmount(c echo.Context, op func(uuid.UUID, decimal.Decimal) (*models.Account, error)) error {
	accountID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid account ID"))
	}

	var req dto.AmountRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return SendError(c, errors.AccountInvalidAmount, errors.WithDetails("Invalid amount"))
	}

	account, err := op(accountID, amount)
	if err != nil {
		return mapAccountErr(c, err)
	}

	return c.JSON(http.StatusOK, account)
}

// Transfer atomically moves funds between two accounts
func (h *AccountHandler) Transfer(c echo.Context) error {
	start := time.Now()

	var req dto.TransferRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	fromAccountID, err := uuid.Parse(req.FromAccountID)
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid source account ID"))
	}

	toAccountID, err := uuid.Parse(req.ToAccountID)
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid destination account ID"))
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return SendError(c, errors.TransferInvalidAmount, errors.WithDetails("Invalid amount"))
	}

	fromAccount, toAccount, err := h.accountService.Transfer(fromAccountID, toAccountID, amount)
	duration := time.Since(start)

	if err != nil {
		if h.metricsCollector != nil {
			h.metricsCollector.IncrementCounter("transfers_total", map[string]string{"status": "failed"})
			h.metricsCollector.RecordProcessingTime("transfer_duration_failed", duration)
		}
		return mapTransferErr(c, err)
	}

	if h.metricsCollector != nil {
		h.metricsCollector.IncrementCounter("transfers_total", map[string]string{"status": "completed"})
		h.metricsCollector.RecordProcessingTime("transfer_duration_success", duration)

		amountFloat, _ := amount.Float64()
		h.metricsCollector.RecordGauge("transfer_amount", amountFloat, nil)
	}

	return c.JSON(http.StatusOK, dto.TransferResponse{
		Message:     "Transfer completed successfully",
		FromAccount: fromAccount,
		ToAccount:   toAccount,
	})
}

// DeactivateAccount soft-deletes an account. The account must hold a zero
// balance.
func (h *AccountHandler) DeactivateAccount(c echo.Context) error {
	accountID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid account ID"))
	}

	account, err := h.accountService.DeactivateAccount(accountID)
	if err != nil {
		return mapAccountErr(c, err)
	}

	return c.JSON(http.StatusOK, account)
}

// ReactivateAccount restores a deactivated account
func (h *AccountHandler) ReactivateAccount(c echo.Context) error {
	accountID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid account ID"))
	}

	account, err := h.accountService.ReactivateAccount(accountID)
	if err != nil {
		return mapAccountErr(c, err)
	}

	return c.JSON(http.StatusOK, account)
}

// DeleteAccount permanently removes an account regardless of its balance or
// active state
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	accountID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid account ID"))
	}

	if err := h.accountService.DeleteAccount(accountID); err != nil {
		return mapAccountErr(c, err)
	}

	// Permanent deletion is irreversible, keep a record of who asked for it
	userName, _ := getUserNameFromContext(c)
	slog.Info("Account permanently deleted",
		"account_id", accountID,
		"requested_by", userName,
		"trace_id", getTraceID(c),
	)

	return c.JSON(http.StatusOK, dto.MessageResponse{
		Message: "Account deleted successfully",
	})
}

// mapAccountErr translates service errors from single-account operations
// into standardized error responses
func mapAccountErr(c echo.Context, err error) error {
	switch {
	case stderrors.Is(err, services.ErrAccountNotFound):
		return SendError(c, errors.AccountNotFound, errors.WithDetails(err.Error()))
	case stderrors.Is(err, services.ErrAccountInactive):
		return SendError(c, errors.AccountInactive, errors.WithDetails(err.Error()))
	case stderrors.Is(err, services.ErrInvalidAmount), stderrors.Is(err, services.ErrInvalidBalance):
		return SendError(c, errors.AccountInvalidAmount, errors.WithDetails(err.Error()))
	case stderrors.Is(err, services.ErrInsufficientFunds):
		return SendError(c, errors.AccountInsufficientFunds)
	case stderrors.Is(err, services.ErrAlreadyActive):
		return SendError(c, errors.AccountAlreadyActive)
	case stderrors.Is(err, services.ErrAlreadyInactive):
		return SendError(c, errors.AccountAlreadyInactive)
	case stderrors.Is(err, services.ErrNonZeroBalance):
		return SendError(c, errors.AccountNonZeroBalance)
	case stderrors.Is(err, services.ErrConcurrencyConflict):
		return SendError(c, errors.AccountConcurrencyConflict)
	}
	return SendSystemError(c, err)
}

// mapTransferErr translates transfer errors, preferring the transfer-specific
// codes where they exist. The error text names the failing side, so it is
// carried into the response details.
func mapTransferErr(c echo.Context, err error) error {
	switch {
	case stderrors.Is(err, services.ErrSameAccountTransfer):
		return SendError(c, errors.TransferSameAccount)
	case stderrors.Is(err, services.ErrInsufficientFunds):
		return SendError(c, errors.TransferInsufficientFunds, errors.WithDetails(err.Error()))
	case stderrors.Is(err, services.ErrInvalidAmount):
		return SendError(c, errors.TransferInvalidAmount, errors.WithDetails(err.Error()))
	}
	return mapAccountErr(c, err)
}
