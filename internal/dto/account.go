package dto

import (
	"time"

	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code            string             `json:"code" binding:"required"`
	Name            string             `json:"name" binding:"required"`
	AccountType     domain.AccountType `json:"accountType" binding:"required,oneof=asset liability equity revenue expense"`
	ParentAccountID *string            `json:"parentAccountID"` // Optional, use pointer for nullability
	Description     string             `json:"description"`     // Optional
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	ParentAccountID *string `json:"parentAccountID"` // Empty string detaches the account to root
	IsActive        *bool   `json:"isActive"`
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID       string             `json:"accountID"`
	Code            string             `json:"code"`
	Name            string             `json:"name"`
	AccountType     domain.AccountType `json:"accountType"`
	ParentAccountID string             `json:"parentAccountID"` // Empty string if null in DB
	Level           int                `json:"level"`
	Description     string             `json:"description"`
	Balance         decimal.Decimal    `json:"balance"`
	IsActive        bool               `json:"isActive"`
	CreatedAt       time.Time          `json:"createdAt"`
	CreatedBy       string             `json:"createdBy"`
	LastUpdatedAt   time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy   string             `json:"lastUpdatedBy"`
}

// AccountNodeResponse is an AccountResponse plus its children, for the
// hierarchy endpoint.
type AccountNodeResponse struct {
	AccountResponse
	Children []AccountNodeResponse `json:"children"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		Code:            acc.Code,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		ParentAccountID: acc.ParentAccountID,
		Level:           acc.Level,
		Description:     acc.Description,
		Balance:         acc.Balance,
		IsActive:        acc.IsActive,
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
		LastUpdatedAt:   acc.LastUpdatedAt,
		LastUpdatedBy:   acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// ToAccountNodeResponse converts a domain.AccountNode subtree recursively.
func ToAccountNodeResponse(node *domain.AccountNode) AccountNodeResponse {
	children := make([]AccountNodeResponse, len(node.Children))
	for i := range node.Children {
		children[i] = ToAccountNodeResponse(&node.Children[i])
	}
	return AccountNodeResponse{
		AccountResponse: ToAccountResponse(&node.Account),
		Children:        children,
	}
}

// ToAccountTreeResponse converts the forest of root nodes.
func ToAccountTreeResponse(nodes []domain.AccountNode) []AccountNodeResponse {
	res := make([]AccountNodeResponse, len(nodes))
	for i := range nodes {
		res[i] = ToAccountNodeResponse(&nodes[i])
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	AccountType *string `form:"type" binding:"omitempty,oneof=asset liability equity revenue expense"`
	Limit       int     `form:"limit,default=50"`
	Offset      int     `form:"offset,default=0"`
}

// SearchAccountsParams defines query parameters for account search.
type SearchAccountsParams struct {
	Query string `form:"q" binding:"required"`
	Limit int    `form:"limit,default=20"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// AccountPathResponse is the chain from root to account, root first.
type AccountPathResponse struct {
	Path []AccountResponse `json:"path"`
}
