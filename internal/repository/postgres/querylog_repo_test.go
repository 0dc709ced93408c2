package postgres

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-orchestrator/internal/domain/querylog"
)

func TestQueryLogRepo_Append(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("INSERT INTO query_log").
		WithArgs("user-1", "news", "headlines", "today's briefing", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewQueryLogRepo(db)
	err = repo.Append(context.Background(), querylog.Entry{
		UserID:   "user-1",
		Source:   "news",
		Query:    "headlines",
		Response: "today's briefing",
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryLogRepo_Append_TruncatesOversizedResponse(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	long := strings.Repeat("x", querylog.ResponseTruncateLen+500)
	truncated := long[:querylog.ResponseTruncateLen]

	mock.ExpectExec("INSERT INTO query_log").
		WithArgs("user-1", "news", "headlines", truncated, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewQueryLogRepo(db)
	err = repo.Append(context.Background(), querylog.Entry{
		UserID:   "user-1",
		Source:   "news",
		Query:    "headlines",
		Response: long,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryLogRepo_Append_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("INSERT INTO query_log").
		WillReturnError(sql.ErrConnDone)

	repo := NewQueryLogRepo(db)
	err = repo.Append(context.Background(), querylog.Entry{UserID: "user-1", Source: "news"})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryLogRepo_History(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "user_id", "source", "query", "response", "created_at"}).
		AddRow(1, "user-1", "news", "headlines", "briefing one", now).
		AddRow(2, "user-1", "weather", "forecast", "briefing two", now)

	mock.ExpectQuery("SELECT id, user_id, source, query, response, created_at").
		WithArgs("user-1", 10).
		WillReturnRows(rows)

	repo := NewQueryLogRepo(db)
	entries, err := repo.History(context.Background(), "user-1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "news", entries[0].Source)
	assert.Equal(t, "weather", entries[1].Source)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryLogRepo_History_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT id, user_id, source, query, response, created_at").
		WillReturnError(sql.ErrTxDone)

	repo := NewQueryLogRepo(db)
	_, err = repo.History(context.Background(), "user-1", 10)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
