package model

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is one movement of money on an account. Negative amounts are
// expenses, positive are income.
type Transaction struct {
	ID         uuid.UUID `db:"id"          json:"id"`
	AccountID  uuid.UUID `db:"account_id"  json:"accountId"`
	CategoryID uuid.UUID `db:"category_id" json:"categoryId"`
	Amount     int64     `db:"amount"      json:"amount"`
	Note       string    `db:"note"        json:"note,omitempty"`
	OccurredAt time.Time `db:"occurred_at" json:"occurredAt"`
	CreatedAt  time.Time `db:"created_at"  json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at"  json:"updatedAt"`
}

type TransactionCreate struct {
	AccountID  uuid.UUID `json:"accountId"`
	CategoryID uuid.UUID `json:"categoryId"`
	Amount     int64     `json:"amount"`
	Note       string    `json:"note,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type TransactionUpdate struct {
	ID         uuid.UUID `json:"id"`
	CategoryID uuid.UUID `json:"categoryId"`
	Amount     int64     `json:"amount"`
	Note       string    `json:"note,omitempty"`
}

// IDPayload is the payload shape shared by delete and getById commands.
type IDPayload struct {
	ID uuid.UUID `json:"id"`
}
