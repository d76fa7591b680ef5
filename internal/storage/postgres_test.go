package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresAdapter_Read(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	a := NewPostgresAdapter(db)

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"payload"}).AddRow([]byte(`[]`))
		mock.ExpectQuery("SELECT payload FROM cart_snapshots").
			WithArgs("restoCart:s1").
			WillReturnRows(rows)

		got, err := a.Read(context.Background(), "restoCart:s1")
		assert.NoError(t, err)
		assert.Equal(t, "[]", string(got))
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT payload FROM cart_snapshots").
			WithArgs("restoCart:none").
			WillReturnError(sql.ErrNoRows)

		_, err := a.Read(context.Background(), "restoCart:none")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery("SELECT payload FROM cart_snapshots").
			WillReturnError(errors.New("db error"))

		_, err := a.Read(context.Background(), "restoCart:s1")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAdapter_Write(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	a := NewPostgresAdapter(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO cart_snapshots").
			WithArgs("restoCart:s1", `[{"id":"menu-1"}]`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := a.Write(context.Background(), "restoCart:s1", []byte(`[{"id":"menu-1"}]`))
		assert.NoError(t, err)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO cart_snapshots").
			WillReturnError(errors.New("db error"))

		err := a.Write(context.Background(), "restoCart:s1", []byte(`[]`))
		assert.Error(t, err)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
