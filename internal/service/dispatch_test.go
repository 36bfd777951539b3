package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"

	"finbook-back/internal/apperrors"
	"finbook-back/internal/model"
	"finbook-back/internal/repository"
)

type passthroughTx struct {
	calls int
}

func (t *passthroughTx) WithinTx(_ context.Context, fn func(ext repository.RepoExtension) error) error {
	t.calls++
	return fn(nil)
}

type fakeRegistry struct {
	nextID    int64
	insertErr error

	action      model.Action
	queueName   string
	requestBody []byte
}

func (r *fakeRegistry) Insert(_ context.Context, _ repository.RepoExtension, action model.Action, queueName string, requestBody []byte) (int64, error) {
	if r.insertErr != nil {
		return 0, r.insertErr
	}

	r.action = action
	r.queueName = queueName
	r.requestBody = requestBody

	return r.nextID, nil
}

type fakeOutbox struct {
	insertErr error
	messages  []model.OutboxMessage
}

func (o *fakeOutbox) InsertMessage(_ context.Context, _ repository.RepoExtension, message model.OutboxMessage) error {
	if o.insertErr != nil {
		return o.insertErr
	}

	o.messages = append(o.messages, message)

	return nil
}

func TestSendCommandQueuesMessage(t *testing.T) {
	tx := &passthroughTx{}
	registry := &fakeRegistry{nextID: 17}
	outbox := &fakeOutbox{}

	svc := NewDispatchService(zap.NewNop(), tx, registry, outbox, "finbook.commands")

	receipt, err := svc.SendCommand(context.Background(), model.ResourceCategory, model.ActionCreate, json.RawMessage(`{"name":"food"}`))
	if err != nil {
		t.Fatalf("SendCommand: %v", err)
	}

	if receipt.ID != 17 {
		t.Errorf("receipt.ID = %d, want 17", receipt.ID)
	}
	if receipt.Status != model.MessageQueued {
		t.Errorf("receipt.Status = %q, want %q", receipt.Status, model.MessageQueued)
	}
	if tx.calls != 1 {
		t.Errorf("transactions = %d, want 1", tx.calls)
	}

	if registry.queueName != "finbook.commands.category" {
		t.Errorf("registered queue = %q", registry.queueName)
	}
	if registry.action != model.ActionCreate {
		t.Errorf("registered action = %q", registry.action)
	}

	if len(outbox.messages) != 1 {
		t.Fatalf("outbox rows = %d, want 1", len(outbox.messages))
	}
	if outbox.messages[0].Queue != "finbook.commands.category" {
		t.Errorf("outbox queue = %q", outbox.messages[0].Queue)
	}
}

func TestSendCommandStampsCorrelationID(t *testing.T) {
	registry := &fakeRegistry{nextID: 99}
	outbox := &fakeOutbox{}

	svc := NewDispatchService(zap.NewNop(), &passthroughTx{}, registry, outbox, "q")

	if _, err := svc.SendCommand(context.Background(), model.ResourceAccount, model.ActionDelete, json.RawMessage(`{"id":"x"}`)); err != nil {
		t.Fatalf("SendCommand: %v", err)
	}

	wire, err := model.DecodeEnvelope(outbox.messages[0].Payload)
	if err != nil {
		t.Fatalf("decode outbox payload: %v", err)
	}

	if wire.CorrelationID != 99 {
		t.Errorf("wire correlationId = %d, want 99", wire.CorrelationID)
	}

	// The stored request body is the envelope as handed in, before the id
	// was assigned.
	stored, err := model.DecodeEnvelope(registry.requestBody)
	if err != nil {
		t.Fatalf("decode stored request body: %v", err)
	}

	if stored.CorrelationID != model.UnassignedCorrelationID {
		t.Errorf("stored correlationId = %d, want unassigned", stored.CorrelationID)
	}
}

func TestSendCommandRegistryFailure(t *testing.T) {
	boom := errors.New("insert failed")
	registry := &fakeRegistry{insertErr: boom}
	outbox := &fakeOutbox{}

	svc := NewDispatchService(zap.NewNop(), &passthroughTx{}, registry, outbox, "q")

	_, err := svc.SendCommand(context.Background(), model.ResourceCategory, model.ActionCreate, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, apperrors.ErrEnqueueFailed) {
		t.Errorf("error %v does not wrap ErrEnqueueFailed", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("error %v does not wrap the cause", err)
	}

	if len(outbox.messages) != 0 {
		t.Errorf("outbox rows = %d, want 0", len(outbox.messages))
	}
}

func TestSendCommandOutboxFailure(t *testing.T) {
	registry := &fakeRegistry{nextID: 5}
	outbox := &fakeOutbox{insertErr: errors.New("outbox full")}

	svc := NewDispatchService(zap.NewNop(), &passthroughTx{}, registry, outbox, "q")

	if _, err := svc.SendCommand(context.Background(), model.ResourceCategory, model.ActionCreate, nil); !errors.Is(err, apperrors.ErrEnqueueFailed) {
		t.Errorf("error %v does not wrap ErrEnqueueFailed", err)
	}
}

func TestQueueNamePerResource(t *testing.T) {
	svc := NewDispatchService(zap.NewNop(), &passthroughTx{}, &fakeRegistry{}, &fakeOutbox{}, "finbook.commands")

	tests := []struct {
		resource model.Resource
		want     string
	}{
		{model.ResourceCategory, "finbook.commands.category"},
		{model.ResourceAccount, "finbook.commands.account"},
		{model.ResourceTransaction, "finbook.commands.transaction"},
	}

	for _, tt := range tests {
		if got := svc.QueueName(tt.resource); got != tt.want {
			t.Errorf("QueueName(%q) = %q, want %q", tt.resource, got, tt.want)
		}
	}
}
