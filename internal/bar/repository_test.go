package bar

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var barRowColumns = []string{
	"id", "name", "address", "description", "image_url", "phone", "opening_time", "closing_time",
	"min_price", "max_price", "latitude", "longitude", "music_genres", "rating", "total_reviews", "is_active", "created_at",
}

func setupBarMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func dakitiRow(rows *sqlmock.Rows) *sqlmock.Rows {
	return rows.AddRow(1, "Dakiti Club", "Carrera 22 #52, Bogotá", "Crossover club", nil, "+57 1 234 5678",
		"22:00", "04:00", 30000, 50000, 4.6482, -74.0577, []byte("{Reggaetón,Crossover}"), 4.8, 450, true, time.Now())
}

func TestCreateBar(t *testing.T) {
	repo, mock := setupBarMock(t)

	mock.ExpectQuery(`INSERT INTO bars .* RETURNING id, name, address`).
		WithArgs("Dakiti Club", "Carrera 22 #52, Bogotá", nil, nil, nil, nil, nil, nil, nil, nil, nil,
			sqlmock.AnyArg(), 4.8, 450).
		WillReturnRows(dakitiRow(sqlmock.NewRows(barRowColumns)))

	bar, err := repo.Create(context.Background(), CreateBarRequest{
		Name:         "Dakiti Club",
		Address:      "Carrera 22 #52, Bogotá",
		MusicGenres:  []string{"Reggaetón", "Crossover"},
		Rating:       4.8,
		TotalReviews: 450,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, bar.ID)
	assert.Equal(t, []string{"Reggaetón", "Crossover"}, []string(bar.MusicGenres))
	assert.Nil(t, bar.ImageURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	repo, mock := setupBarMock(t)

	mock.ExpectQuery(`SELECT .* FROM bars WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(dakitiRow(sqlmock.NewRows(barRowColumns)))

	bar, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Dakiti Club", bar.Name)
	require.NotNil(t, bar.OpeningTime)
	assert.Equal(t, "22:00", *bar.OpeningTime)

	mock.ExpectQuery(`SELECT .* FROM bars WHERE id = \$1`).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows(barRowColumns))

	_, err = repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrBarNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBar_NotFound(t *testing.T) {
	repo, mock := setupBarMock(t)

	name := "Theatron"
	mock.ExpectQuery(`UPDATE bars SET`).
		WillReturnRows(sqlmock.NewRows(barRowColumns))

	_, err := repo.Update(context.Background(), 42, UpdateBarRequest{Name: &name})
	assert.ErrorIs(t, err, ErrBarNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListActive(t *testing.T) {
	repo, mock := setupBarMock(t)

	mock.ExpectQuery(`SELECT .* FROM bars WHERE is_active = TRUE ORDER BY name`).
		WillReturnRows(sqlmock.NewRows(barRowColumns))

	bars, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, bars)
	assert.Empty(t, bars)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListActiveIDs(t *testing.T) {
	repo, mock := setupBarMock(t)

	mock.ExpectQuery(`SELECT id FROM bars WHERE is_active = TRUE ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(3))

	ids, err := repo.ListActiveIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
