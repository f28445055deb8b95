package models

import "time"

// Client is a billed customer identified externally by its client code.
type Client struct {
	ID         int64      `json:"id" db:"id"`
	ClientCode string     `json:"client_code" db:"client_code"`
	FirstName  string     `json:"first_name" db:"first_name"`
	LastName   string     `json:"last_name" db:"last_name"`
	Email      *string    `json:"email,omitempty" db:"email"`
	Phone      *string    `json:"phone,omitempty" db:"phone"`
	Address    *string    `json:"address,omitempty" db:"address"`
	City       *string    `json:"city,omitempty" db:"city"`
	Department *string    `json:"department,omitempty" db:"department"`
	Active     bool       `json:"active" db:"active"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// CreateClientRequest creates or upserts a client keyed by client_code.
type CreateClientRequest struct {
	ClientCode string  `json:"client_code" validate:"required"`
	FirstName  string  `json:"first_name" validate:"required"`
	LastName   string  `json:"last_name" validate:"required"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
	City       *string `json:"city,omitempty"`
	Department *string `json:"department,omitempty"`
}

// UpdateClientRequest updates mutable contact fields. The client code is
// immutable.
type UpdateClientRequest struct {
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
	City       *string `json:"city,omitempty"`
	Department *string `json:"department,omitempty"`
}

// ClientListResponse is the response for listing clients
type ClientListResponse struct {
	Items      []Client `json:"items"`
	TotalCount int      `json:"total_count"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
}
