package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriberRepo_Subscribe(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("INSERT INTO wa_subscribers").
		WithArgs("+15551234567", sqlmock.AnyArg(), "news,weather").
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewSubscriberRepo(db)
	err = repo.Subscribe(context.Background(), "+15551234567", []string{"news", "weather"})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriberRepo_Subscribe_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("INSERT INTO wa_subscribers").
		WillReturnError(sql.ErrConnDone)

	repo := NewSubscriberRepo(db)
	err = repo.Subscribe(context.Background(), "+15551234567", nil)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriberRepo_Unsubscribe(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("UPDATE wa_subscribers SET active = false").
		WithArgs("+15551234567").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewSubscriberRepo(db)
	err = repo.Unsubscribe(context.Background(), "+15551234567")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriberRepo_Unsubscribe_NoSuchSubscriber(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("UPDATE wa_subscribers SET active = false").
		WithArgs("+10000000000").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewSubscriberRepo(db)
	err = repo.Unsubscribe(context.Background(), "+10000000000")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriberRepo_ListActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"phone_number", "subscribed_at", "active", "preferences"}).
		AddRow("+15551234567", now, true, "news,weather").
		AddRow("+15557654321", now, true, "")

	mock.ExpectQuery("SELECT phone_number, subscribed_at, active, preferences").
		WillReturnRows(rows)

	repo := NewSubscriberRepo(db)
	subs, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, []string{"news", "weather"}, subs[0].Preferences)
	assert.Empty(t, subs[1].Preferences)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriberRepo_ListActive_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT phone_number, subscribed_at, active, preferences").
		WillReturnError(sql.ErrTxDone)

	repo := NewSubscriberRepo(db)
	_, err = repo.ListActive(context.Background())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
