package outbox

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+signup_outbox\s*\(id,\s*user_id,\s*name,\s*contact\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*$`
	mock.ExpectExec(q).
		WithArgs("ev-1", "u-1", "Ana", "ana@x.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &models.SignupEvent{
		ID: "ev-1", UserID: "u-1", Name: "Ana", Contact: "ana@x.com",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
}

func TestListPending(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+id,\s*user_id,\s*name,\s*contact,\s*attempts,\s*created_at\s+FROM\s+signup_outbox\s+WHERE\s+delivered_at\s+IS\s+NULL`
	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "contact", "attempts", "created_at"}).
		AddRow("ev-1", "u-1", "Ana", "ana@x.com", 0, time.Now()).
		AddRow("ev-2", "u-2", "Bob", "bob@x.com", 2, time.Now())
	mock.ExpectQuery(q).WithArgs(50).WillReturnRows(rows)

	events, err := repo.ListPending(context.Background(), 50)
	if err != nil {
		t.Fatalf("ListPending error: %v", err)
	}
	if len(events) != 2 || events[0].ID != "ev-1" || events[1].Attempts != 2 {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestMarkDelivered(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*UPDATE\s+signup_outbox\s+SET\s+delivered_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s*$`
	mock.ExpectExec(q).WithArgs("ev-1").WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkDelivered(context.Background(), "ev-1"); err != nil {
		t.Fatalf("MarkDelivered error: %v", err)
	}
}

func TestMarkAttempted(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*UPDATE\s+signup_outbox\s+SET\s+attempts\s*=\s*attempts\s*\+\s*1\s+WHERE\s+id\s*=\s*\$1\s*$`
	mock.ExpectExec(q).WithArgs("ev-1").WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkAttempted(context.Background(), "ev-1"); err != nil {
		t.Fatalf("MarkAttempted error: %v", err)
	}
}
