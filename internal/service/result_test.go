package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"finbook-back/internal/apperrors"
	"finbook-back/internal/model"
	"finbook-back/internal/repository"
)

type fakeReader struct {
	record *model.MessageRecord
	err    error
	calls  int
}

func (r *fakeReader) SelectByID(_ context.Context, _ repository.RepoExtension, _ int64) (*model.MessageRecord, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.record, nil
}

type fakeCache struct {
	values map[int64][]byte
	getErr error
	setErr error

	setID  int64
	setTTL time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[int64][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, id int64) ([]byte, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	v, ok := c.values[id]
	if !ok {
		return nil, apperrors.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Set(_ context.Context, id int64, value []byte, ttl time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.values[id] = value
	c.setID = id
	c.setTTL = ttl
	return nil
}

func TestGetResultQueued(t *testing.T) {
	reader := &fakeReader{record: &model.MessageRecord{
		ID:     3,
		Action: model.ActionUpdate,
		Status: model.MessageQueued,
	}}
	cache := newFakeCache()

	svc := NewResultService(zap.NewNop(), reader, cache, time.Minute)

	result, err := svc.GetResult(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}

	if result.Status != model.MessageQueued {
		t.Errorf("status = %q, want queued", result.Status)
	}
	if result.Response != nil || result.Error != "" {
		t.Error("queued result must carry neither response nor error")
	}

	// Queued rows are mutable and must never be cached.
	if len(cache.values) != 0 {
		t.Errorf("cache entries = %d, want 0", len(cache.values))
	}
}

func TestGetResultSucceeded(t *testing.T) {
	reader := &fakeReader{record: &model.MessageRecord{
		ID:           8,
		Action:       model.ActionCreate,
		Status:       model.MessageSucceeded,
		ResponseBody: []byte(`{"id":"abc"}`),
		ErrorMessage: "",
	}}
	cache := newFakeCache()

	svc := NewResultService(zap.NewNop(), reader, cache, 10*time.Minute)

	result, err := svc.GetResult(context.Background(), 8)
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}

	if result.OriginalAction != model.ActionCreate {
		t.Errorf("originalAction = %q", result.OriginalAction)
	}
	if string(result.Response) != `{"id":"abc"}` {
		t.Errorf("response = %s", result.Response)
	}
	if result.Error != "" {
		t.Errorf("error = %q, want empty", result.Error)
	}

	if cache.setID != 8 {
		t.Error("terminal result was not cached")
	}
	if cache.setTTL != 10*time.Minute {
		t.Errorf("cache ttl = %v", cache.setTTL)
	}
}

func TestGetResultFailed(t *testing.T) {
	reader := &fakeReader{record: &model.MessageRecord{
		ID:           9,
		Action:       model.ActionDelete,
		Status:       model.MessageFailed,
		ErrorMessage: "unknown action: \"explode\"",
	}}

	svc := NewResultService(zap.NewNop(), reader, nil, 0)

	result, err := svc.GetResult(context.Background(), 9)
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}

	if result.Status != model.MessageFailed {
		t.Errorf("status = %q", result.Status)
	}
	if result.Error == "" {
		t.Error("failed result must carry the error message")
	}
	if result.Response != nil {
		t.Error("failed result must not carry a response")
	}
}

func TestGetResultNotFound(t *testing.T) {
	reader := &fakeReader{err: apperrors.ErrMessageNotFound}

	svc := NewResultService(zap.NewNop(), reader, nil, 0)

	if _, err := svc.GetResult(context.Background(), 404); !errors.Is(err, apperrors.ErrMessageNotFound) {
		t.Errorf("error = %v, want ErrMessageNotFound", err)
	}
}

func TestGetResultCacheHitSkipsDB(t *testing.T) {
	cached, _ := json.Marshal(model.CommandResult{
		ID:             12,
		OriginalAction: model.ActionGetAll,
		Status:         model.MessageSucceeded,
		Response:       json.RawMessage(`[]`),
	})

	cache := newFakeCache()
	cache.values[12] = cached

	reader := &fakeReader{err: errors.New("db must not be hit")}

	svc := NewResultService(zap.NewNop(), reader, cache, time.Minute)

	result, err := svc.GetResult(context.Background(), 12)
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}

	if reader.calls != 0 {
		t.Errorf("db reads = %d, want 0", reader.calls)
	}
	if result.Status != model.MessageSucceeded {
		t.Errorf("status = %q", result.Status)
	}
}

func TestGetResultCacheErrorsAreTolerated(t *testing.T) {
	cache := newFakeCache()
	cache.getErr = errors.New("redis is down")
	cache.setErr = errors.New("still down")

	reader := &fakeReader{record: &model.MessageRecord{
		ID:     1,
		Action: model.ActionCreate,
		Status: model.MessageSucceeded,
	}}

	svc := NewResultService(zap.NewNop(), reader, cache, time.Minute)

	if _, err := svc.GetResult(context.Background(), 1); err != nil {
		t.Fatalf("GetResult must survive cache failures: %v", err)
	}
}
