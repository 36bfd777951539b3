package model

import (
	"time"
)

// MessageStatus is the lifecycle state of a registered command. A row starts
// Queued and moves to exactly one of the terminal states.
type MessageStatus string

const (
	MessageQueued    MessageStatus = "queued"
	MessageSucceeded MessageStatus = "succeeded"
	MessageFailed    MessageStatus = "failed"
)

func (s MessageStatus) Terminal() bool {
	return s == MessageSucceeded || s == MessageFailed
}

// MessageRecord is one row of the command registry. The row id doubles as
// the correlation id carried by the envelope on the wire.
type MessageRecord struct {
	ID           int64         `db:"id"            json:"id"`
	Action       Action        `db:"action"        json:"action"`
	QueueName    string        `db:"queue_name"    json:"queueName"`
	RequestBody  []byte        `db:"request_body"  json:"-"`
	ResponseBody []byte        `db:"response_body" json:"-"`
	Status       MessageStatus `db:"status"        json:"status"`
	ErrorMessage string        `db:"error_message" json:"errorMessage,omitempty"`
	Attempts     int           `db:"attempts"      json:"attempts"`
	CreatedAt    time.Time     `db:"created_at"    json:"createdAt"`
	UpdatedAt    time.Time     `db:"updated_at"    json:"updatedAt"`
}
