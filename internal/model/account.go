package model

import (
	"time"

	"github.com/google/uuid"
)

// Account is a money holder (wallet, card, savings). Amounts are stored in
// minor currency units.
type Account struct {
	ID             uuid.UUID `db:"id"              json:"id"`
	Name           string    `db:"name"            json:"name"`
	Currency       string    `db:"currency"        json:"currency"`
	OpeningBalance int64     `db:"opening_balance" json:"openingBalance"`
	CreatedAt      time.Time `db:"created_at"      json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at"      json:"updatedAt"`
}

type AccountCreate struct {
	Name           string `json:"name"`
	Currency       string `json:"currency"`
	OpeningBalance int64  `json:"openingBalance"`
}

type AccountUpdate struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
