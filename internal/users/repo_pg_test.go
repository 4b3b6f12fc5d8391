package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectExec("INSERT INTO users").
		WithArgs("google:u1", "u1@test", "U One", "https://pic.test/u1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Upsert(context.Background(), User{
		ID:         "google:u1",
		Email:      "u1@test",
		FullName:   "U One",
		PictureURL: "https://pic.test/u1",
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDHandlesNulls(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	created := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "email", "full_name", "picture_url", "created_at", "updated_at"}).
		AddRow("google:u1", "u1@test", nil, nil, created, nil)
	mock.ExpectQuery("SELECT id, email, full_name, picture_url").
		WithArgs("google:u1").
		WillReturnRows(rows)

	user, err := repo.GetByID(context.Background(), "google:u1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if user.FullName != "" || user.PictureURL != "" {
		t.Fatalf("expected empty optional fields, got %+v", user)
	}
	if user.Email != "u1@test" {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectQuery("SELECT id, email, full_name, picture_url").
		WithArgs("google:missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "full_name", "picture_url", "created_at", "updated_at"}))

	if _, err := repo.GetByID(context.Background(), "google:missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
