package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/receitaapp/receita-server/internal/domain"
	"github.com/receitaapp/receita-server/internal/logger"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(sqlx.NewDb(db, "sqlite"), logger.Discard()), mock
}

func TestCreateRecipe_LinkFailureRollsBack(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO recipes").WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("DELETE FROM recipe_tags").WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	r := &domain.Recipe{OwnerID: 1, Title: "Feijoada", TimeMinutes: 90, Price: 1250}
	if err := s.CreateRecipe(context.Background(), r); err == nil {
		t.Fatal("CreateRecipe should fail when links cannot be written")
	}
	if r.ID != 0 {
		t.Errorf("ID = %d after failed create, want 0", r.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDeleteRecipe_CommitsOnSuccess(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM recipes").WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := s.DeleteRecipe(context.Background(), 3); err != nil {
		t.Fatalf("DeleteRecipe: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestWithTx_PanicRollsBack(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	defer func() {
		if recover() == nil {
			t.Error("panic was swallowed")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	}()

	_ = s.withTx(context.Background(), func(*sqlx.Tx) error {
		panic("boom")
	})
}
