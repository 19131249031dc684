package dto

import (
	"banking-api/internal/models"
)

// Account Request DTOs

// CreateAccountRequest represents the request payload for opening a new account
type CreateAccountRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=100"`
	Balance string `json:"balance" validate:"omitempty,money_amount"`
}

// ChangeNameRequest represents the request payload for renaming an account
type ChangeNameRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// AmountRequest represents the request payload for deposits and withdrawals
type AmountRequest struct {
	Amount string `json:"amount" validate:"required,money_amount"`
}

// TransferRequest represents the request payload for transferring funds between accounts
type TransferRequest struct {
	FromAccountID string `json:"from_account_id" validate:"required,uuid"`
	ToAccountID   string `json:"to_account_id" validate:"required,uuid"`
	Amount        string `json:"amount" validate:"required,money_amount"`
}

// ListAccountsRequest represents the query parameters for listing accounts
type ListAccountsRequest struct {
	PageNumber int    `query:"page_number" validate:"omitempty,min=1"`
	PageSize   int    `query:"page_size" validate:"omitempty,min=1,max=100"`
	SortBy     string `query:"sort_by" validate:"omitempty,sort_by"`
	SortOrder  string `query:"sort_order" validate:"omitempty,sort_order"`
	SearchTerm string `query:"search_term"`
	Active     *bool  `query:"active"`
}

// Account Response DTOs

// AccountListResponse represents a paginated list of accounts
type AccountListResponse struct {
	Accounts   []models.Account          `json:"accounts"`
	Pagination models.PaginationMetadata `json:"pagination"`
}

// TransferResponse represents the response after a successful transfer
type TransferResponse struct {
	Message     string          `json:"message"`
	FromAccount *models.Account `json:"from_account"`
	ToAccount   *models.Account `json:"to_account"`
}

// MessageResponse represents a simple message response
type MessageResponse struct {
	Message string `json:"message"`
}
