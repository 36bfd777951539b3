package model

import (
	"encoding/json"
	"fmt"
)

// Resource names one asynchronously managed resource type. Each resource
// owns a command queue and an executor.
type Resource string

const (
	ResourceCategory    Resource = "category"
	ResourceAccount     Resource = "account"
	ResourceTransaction Resource = "transaction"
)

// Resources lists every known resource in a stable order.
func Resources() []Resource {
	return []Resource{ResourceCategory, ResourceAccount, ResourceTransaction}
}

func (r Resource) Valid() bool {
	switch r {
	case ResourceCategory, ResourceAccount, ResourceTransaction:
		return true
	default:
		return false
	}
}

func ParseResource(s string) (Resource, error) {
	r := Resource(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown resource: %q", s)
	}

	return r, nil
}

// CommandReceipt is returned to the caller right after a command is
// registered and written to the outbox.
type CommandReceipt struct {
	ID     int64         `json:"id"`
	Status MessageStatus `json:"status"`
}

// CommandResult is the poller's view of a registry row.
type CommandResult struct {
	ID             int64           `json:"id"`
	OriginalAction Action          `json:"originalAction"`
	Status         MessageStatus   `json:"status"`
	Response       json.RawMessage `json:"response,omitempty"`
	Error          string          `json:"error,omitempty"`
}
