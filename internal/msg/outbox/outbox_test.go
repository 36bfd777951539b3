package outbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"finbook-back/internal/model"
	"finbook-back/internal/repository"
)

type fakeProducer struct {
	mu        sync.Mutex
	published []publishCall
	err       error
}

type publishCall struct {
	queue string
	body  []byte
}

func (p *fakeProducer) Publish(_ context.Context, body []byte, queue string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}

	p.published = append(p.published, publishCall{queue: queue, body: body})

	return nil
}

func (p *fakeProducer) Close() error {
	return nil
}

type fakeOutboxRepo struct {
	mu      sync.Mutex
	unsent  []model.OutboxMessage
	sentIDs []uuid.UUID
	sendErr error
}

func (r *fakeOutboxRepo) SelectUnsentBatch(_ context.Context, _ repository.RepoExtension, batchSize int) ([]model.OutboxMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.unsent) > batchSize {
		return r.unsent[:batchSize], nil
	}

	batch := r.unsent
	r.unsent = nil

	return batch, nil
}

func (r *fakeOutboxRepo) UpdateAsSent(_ context.Context, _ repository.RepoExtension, messageID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sendErr != nil {
		return r.sendErr
	}

	r.sentIDs = append(r.sentIDs, messageID)

	return nil
}

func (r *fakeOutboxRepo) sent() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]uuid.UUID(nil), r.sentIDs...)
}

func TestSendAndMark(t *testing.T) {
	producer := &fakeProducer{}
	repo := &fakeOutboxRepo{}

	p := NewPublisher(zap.NewNop(), Config{BatchSize: 10}, producer, repo)

	msg := model.OutboxMessage{
		ID:      uuid.New(),
		Queue:   "finbook.commands.category",
		Payload: []byte(`{"action":"create"}`),
	}

	if err := p.sendAndMark(context.Background(), msg); err != nil {
		t.Fatalf("sendAndMark: %v", err)
	}

	if len(producer.published) != 1 {
		t.Fatalf("published = %d, want 1", len(producer.published))
	}
	if producer.published[0].queue != msg.Queue {
		t.Errorf("queue = %q", producer.published[0].queue)
	}

	if len(repo.sentIDs) != 1 || repo.sentIDs[0] != msg.ID {
		t.Errorf("sent ids = %v", repo.sentIDs)
	}
}

func TestSendAndMarkPublishFailureKeepsRowUnsent(t *testing.T) {
	producer := &fakeProducer{err: errors.New("broker unreachable")}
	repo := &fakeOutboxRepo{}

	p := NewPublisher(zap.NewNop(), Config{BatchSize: 10}, producer, repo)

	err := p.sendAndMark(context.Background(), model.OutboxMessage{ID: uuid.New(), Queue: "q"})
	if err == nil {
		t.Fatal("expected error")
	}

	// The row stays unsent so the next poll retries it.
	if len(repo.sentIDs) != 0 {
		t.Errorf("sent ids = %v, want none", repo.sentIDs)
	}
}

func TestSendAndMarkUpdateFailure(t *testing.T) {
	producer := &fakeProducer{}
	repo := &fakeOutboxRepo{sendErr: errors.New("db down")}

	p := NewPublisher(zap.NewNop(), Config{BatchSize: 10}, producer, repo)

	if err := p.sendAndMark(context.Background(), model.OutboxMessage{ID: uuid.New(), Queue: "q"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestPublisherRelaysBatch(t *testing.T) {
	producer := &fakeProducer{}
	repo := &fakeOutboxRepo{
		unsent: []model.OutboxMessage{
			{ID: uuid.New(), Queue: "q.a", Payload: []byte(`{}`)},
			{ID: uuid.New(), Queue: "q.b", Payload: []byte(`{}`)},
			{ID: uuid.New(), Queue: "q.a", Payload: []byte(`{}`)},
		},
	}

	cfg := Config{
		Name:         "relay-test",
		WorkerCount:  2,
		PollInterval: 5 * time.Millisecond,
		BatchSize:    10,
	}

	p := NewPublisher(zap.NewNop(), cfg, producer, repo)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for len(repo.sent()) < 3 {
		select {
		case <-deadline:
			cancel()
			t.Fatalf("relayed %d of 3 messages before timeout", len(repo.sent()))
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	<-done

	if len(repo.sent()) != 3 {
		t.Errorf("sent = %d, want 3", len(repo.sent()))
	}
}
