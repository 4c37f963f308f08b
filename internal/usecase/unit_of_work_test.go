package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/iho/erpledger/internal/usecase"
	"github.com/iho/erpledger/internal/usecase/mocks"
)

func TestRunAtomic(t *testing.T) {
	errFn := errors.New("fn failed")
	errCommit := errors.New("commit failed")
	errBegin := errors.New("begin failed")

	tests := []struct {
		name           string
		fnErr          error
		commitErr      error
		beginErr       error
		expectError    error
		expectCommit   bool
		expectRollback bool
	}{
		{name: "commits on success", expectCommit: true},
		{name: "rolls back when fn fails", fnErr: errFn, expectError: errFn, expectRollback: true},
		{name: "commit failure surfaces", commitErr: errCommit, expectError: errCommit, expectRollback: true},
		{name: "begin failure surfaces", beginErr: errBegin, expectError: errBegin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &mocks.MockTransaction{}
			if tt.commitErr != nil {
				tx.CommitFunc = func(context.Context) error { return tt.commitErr }
			}
			txManager := mocks.NewMockTransactionManager()
			txManager.BeginFunc = func(context.Context) (usecase.Transaction, error) {
				if tt.beginErr != nil {
					return nil, tt.beginErr
				}
				return tx, nil
			}

			err := usecase.RunAtomic(context.Background(), txManager, func(ctx context.Context, _ usecase.Transaction) error {
				if _, ok := ctx.Deadline(); !ok {
					t.Error("expected a transaction deadline")
				}
				return tt.fnErr
			})

			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Fatalf("expected error %v, got %v", tt.expectError, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tx.Committed != tt.expectCommit {
				t.Errorf("committed = %v, want %v", tx.Committed, tt.expectCommit)
			}
			if tx.RolledBack != tt.expectRollback {
				t.Errorf("rolled back = %v, want %v", tx.RolledBack, tt.expectRollback)
			}
		})
	}
}

func TestRunAtomic_RollsBackOnPanic(t *testing.T) {
	tx := &mocks.MockTransaction{}
	txManager := mocks.NewMockTransactionManager()
	txManager.BeginFunc = func(context.Context) (usecase.Transaction, error) { return tx, nil }

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic to propagate")
		}
		if !tx.RolledBack {
			t.Error("expected rollback after panic")
		}
	}()

	_ = usecase.RunAtomic(context.Background(), txManager, func(context.Context, usecase.Transaction) error {
		panic("boom")
	})
}
