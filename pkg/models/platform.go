package models

import "time"

// Platform categories. Unrecognized platforms created during ingestion
// default to digital wallet; the category is never changed on upsert.
const (
	PlatformCategoryDigitalWallet = "DIGITAL_WALLET"
	PlatformCategoryBank          = "BANK"
	PlatformCategoryBankTransfer  = "BANK_TRANSFER"
	PlatformCategoryCash          = "CASH"
)

// Platform is a payment channel (digital wallet, bank) keyed by name.
type Platform struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Category  string    `json:"category" db:"category"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreatePlatformRequest creates or upserts a platform keyed by name.
type CreatePlatformRequest struct {
	Name     string `json:"name" validate:"required"`
	Category string `json:"category,omitempty"`
}

// PlatformListResponse is the response for listing platforms
type PlatformListResponse struct {
	Items      []Platform `json:"items"`
	TotalCount int        `json:"total_count"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
}
