package cache

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestDbGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	fetched := time.Unix(1_700_000_000, 0)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT payload, fetched_at FROM query_cache WHERE key = ?`)).
		WithArgs("resumes/1").
		WillReturnRows(sqlmock.NewRows([]string{"payload", "fetched_at"}).
			AddRow([]byte(`{"id":1}`), fetched.Unix()))

	payload, fetchedAt, err := dbGet(context.Background(), db, "resumes/1")
	if err != nil {
		t.Fatalf("dbGet: %v", err)
	}
	if string(payload) != `{"id":1}` {
		t.Fatalf("payload = %s", payload)
	}
	if !fetchedAt.Equal(fetched) {
		t.Fatalf("fetchedAt = %v, want %v", fetchedAt, fetched)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDbPutUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	fetched := time.Unix(1_700_000_000, 0)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO query_cache`)).
		WithArgs("k", []byte(`"v"`), fetched.Unix()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := dbPut(context.Background(), db, "k", []byte(`"v"`), fetched); err != nil {
		t.Fatalf("dbPut: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDbDeletePrefix(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM query_cache WHERE key LIKE ? || '%'`)).
		WithArgs("resumes/").
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := dbDeletePrefix(context.Background(), db, "resumes/"); err != nil {
		t.Fatalf("dbDeletePrefix: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
