package applications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var applicationColumns = []string{
	"id", "user_id", "company", "role_title", "location", "status", "job_description", "job_url",
	"outreach_dm", "outreach_email", "outreach_cover_letter", "created_at", "updated_at",
}

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoGetScansOutreach(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, user_id, company").
		WithArgs("app-1").
		WillReturnRows(sqlmock.NewRows(applicationColumns).
			AddRow("app-1", "user-1", "Acme", "Engineer", "", "applied", "JD", "", "dm", "email", "cover", created, created))

	app, err := repo.Get(context.Background(), "app-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if app.Status != StatusApplied || app.Outreach.CoverLetter != "cover" {
		t.Fatalf("unexpected application %+v", app)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT id, user_id, company").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(applicationColumns))

	if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListPassesFilter(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM applications\\s+WHERE user_id = \\$1").
		WithArgs("user-1", "saved", "", MaxListLimit, 10).
		WillReturnRows(sqlmock.NewRows(applicationColumns).
			AddRow("app-1", "user-1", "Acme", "Engineer", "", "saved", "", "", "", "", "", created, created))

	apps, err := repo.List(context.Background(), "user-1", ListFilter{Status: StatusSaved, Limit: 99, Offset: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(apps) != 1 || apps[0].ID != "app-1" {
		t.Fatalf("unexpected list %+v", apps)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListSearchesCompanyAndRole(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("company ILIKE \\$3 OR role_title ILIKE \\$3").
		WithArgs("user-1", "", `%100\%\_go%`, DefaultListLimit, 0).
		WillReturnRows(sqlmock.NewRows(applicationColumns))

	apps, err := repo.List(context.Background(), "user-1", ListFilter{Query: "  100%_go "})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(apps) != 0 {
		t.Fatalf("expected no rows, got %+v", apps)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSaveOutreachRequiresOwner(t *testing.T) {
	repo, mock := newMockRepo(t)
	at := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("UPDATE applications\\s+SET outreach_dm").
		WithArgs("app-1", "user-2", "dm", "email", "cover", at).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SaveOutreach(context.Background(), "user-2", "app-1", Outreach{DM: "dm", Email: "email", CoverLetter: "cover"}, at)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoCountByStatus(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT status, COUNT").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("saved", 2).
			AddRow("offer", 1))

	counts, err := repo.CountByStatus(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if counts[StatusSaved] != 2 || counts[StatusOffer] != 1 {
		t.Fatalf("unexpected counts %v", counts)
	}
}
