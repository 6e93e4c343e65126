package notes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoListAndDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	repo := &PGRepo{DB: db}
	at := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, application_id, user_id, content, created_at").
		WithArgs("app-1", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "application_id", "user_id", "content", "created_at"}).
			AddRow("n-2", "app-1", "user-1", "second", at.Add(time.Minute)).
			AddRow("n-1", "app-1", "user-1", "first", at))
	notes, err := repo.ListByApplication(context.Background(), "user-1", "app-1")
	if err != nil {
		t.Fatalf("ListByApplication: %v", err)
	}
	if len(notes) != 2 || notes[0].ID != "n-2" {
		t.Fatalf("unexpected notes %+v", notes)
	}

	mock.ExpectExec("DELETE FROM job_notes").
		WithArgs("n-9", "app-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Delete(context.Background(), "user-1", "app-1", "n-9"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
