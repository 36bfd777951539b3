package model

import (
	"time"

	"github.com/google/uuid"
)

// Category labels transactions (e.g. "Rent", "Groceries").
type Category struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type CategoryCreate struct {
	Name string `json:"name"`
}

type CategoryUpdate struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
