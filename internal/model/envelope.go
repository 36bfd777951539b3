package model

import (
	"encoding/json"
	"fmt"
)

// Action names one operation of a resource's command set.
type Action string

const (
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionGetByID Action = "getById"
	ActionGetAll  Action = "getAll"
)

// Actions is the closed per-resource command set.
var Actions = []Action{ActionCreate, ActionUpdate, ActionDelete, ActionGetByID, ActionGetAll}

func (a Action) Valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete, ActionGetByID, ActionGetAll:
		return true
	default:
		return false
	}
}

func ParseAction(s string) (Action, error) {
	a := Action(s)
	if !a.Valid() {
		return "", fmt.Errorf("unknown action: %q", s)
	}

	return a, nil
}

// UnassignedCorrelationID marks an envelope that has not been registered yet.
const UnassignedCorrelationID int64 = 0

// Envelope is the wire unit of work placed on a command queue.
// CorrelationID equals the message registry row id; it is zero only between
// construction and registration.
type Envelope struct {
	Action        Action          `json:"action"`
	Payload       json.RawMessage `json:"payload"`
	CorrelationID int64           `json:"correlationId"`
}

func NewEnvelope(action Action, payload json.RawMessage) *Envelope {
	return &Envelope{
		Action:        action,
		Payload:       payload,
		CorrelationID: UnassignedCorrelationID,
	}
}

func (e *Envelope) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to encode envelope: %w", err)
	}

	return data, nil
}

// DecodeEnvelope only checks the JSON shape. Whether the action belongs to
// the registered set is decided by the consumer, which knows its handlers.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("failed to decode envelope: %w", err)
	}

	return &e, nil
}
