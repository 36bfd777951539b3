package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"finbook-back/internal/apperrors"
	"finbook-back/internal/model"
)

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error {
	return r.scan(dest...)
}

type fakeExt struct {
	query string
	args  []any
	row   pgx.Row
}

func (f *fakeExt) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.query = sql
	f.args = args
	return pgconn.CommandTag{}, nil
}

func (f *fakeExt) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return nil, nil
}

func (f *fakeExt) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.query = sql
	f.args = args
	return f.row
}

func TestTerminalWritesOnlyTouchQueuedRows(t *testing.T) {
	repo := NewMessageRepository(nil)

	tests := []struct {
		name  string
		write func(ext RepoExtension) error
		args  []any
	}{
		{
			name: "mark succeeded",
			write: func(ext RepoExtension) error {
				return repo.MarkSucceeded(context.Background(), ext, 7, []byte(`{"ok":true}`))
			},
			args: []any{int64(7), []byte(`{"ok":true}`)},
		},
		{
			name: "mark failed",
			write: func(ext RepoExtension) error {
				return repo.MarkFailed(context.Background(), ext, 7, "boom")
			},
			args: []any{int64(7), "boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := &fakeExt{}

			if err := tt.write(ext); err != nil {
				t.Fatalf("write: %v", err)
			}

			// A redelivered terminal write must match zero rows instead of
			// replacing the recorded outcome.
			if !strings.Contains(ext.query, "status = 'queued'") {
				t.Errorf("update is not conditional on queued status:\n%s", ext.query)
			}
			if len(ext.args) != len(tt.args) {
				t.Fatalf("args = %v, want %v", ext.args, tt.args)
			}
			if ext.args[0] != tt.args[0] {
				t.Errorf("id arg = %v, want %v", ext.args[0], tt.args[0])
			}
		})
	}
}

func TestInsertStartsQueued(t *testing.T) {
	repo := NewMessageRepository(nil)
	ext := &fakeExt{
		row: fakeRow{scan: func(dest ...any) error {
			*dest[0].(*int64) = 42
			return nil
		}},
	}

	id, err := repo.Insert(context.Background(), ext, model.ActionCreate, "finbook.commands.category", []byte(`{}`))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id != 42 {
		t.Errorf("id = %d, want 42", id)
	}

	// The status column is not part of the insert, the schema default keeps
	// the row in queued.
	if strings.Contains(ext.query, "status") {
		t.Errorf("insert sets status explicitly:\n%s", ext.query)
	}
}

func TestIncrementAttemptsUnknownMessage(t *testing.T) {
	repo := NewMessageRepository(nil)
	ext := &fakeExt{
		row: fakeRow{scan: func(_ ...any) error {
			return pgx.ErrNoRows
		}},
	}

	_, err := repo.IncrementAttempts(context.Background(), ext, 404)
	if !errors.Is(err, apperrors.ErrMessageNotFound) {
		t.Errorf("err = %v, want ErrMessageNotFound", err)
	}
}
