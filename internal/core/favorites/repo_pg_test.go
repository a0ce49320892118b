package favorites

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

var favoriteColumns = []string{"id", "user_id", "title", "ingredients", "steps", "difficulty", "calories", "protein", "created_at"}

func TestPGRepoCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO favorites").
		WithArgs(
			"fav-1",
			"user-1",
			"Shakshuka",
			[]byte(`["eggs","tomato"]`),
			[]byte(`[]`),
			"easy",
			320.0,
			18.5,
			created,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), Favorite{
		ID:          "fav-1",
		UserID:      "user-1",
		Title:       "Shakshuka",
		Ingredients: []string{"eggs", "tomato"},
		Difficulty:  "easy",
		Calories:    320,
		Protein:     18.5,
		CreatedAt:   created,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoCreateError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("INSERT INTO favorites").WillReturnError(errors.New("duplicate key"))

	err := repo.Create(context.Background(), Favorite{ID: "fav-1", UserID: "user-1", Title: "A"})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoListByUser(t *testing.T) {
	repo, mock := newMockRepo(t)
	newer := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	older := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(favoriteColumns).
		AddRow("fav-2", "user-1", "Ramen", []byte(`["noodles"]`), []byte(`["boil"]`), "medium", 500.0, 20.0, newer).
		AddRow("fav-1", "user-1", "Soup", []byte(`null`), []byte(``), "", 0.0, 0.0, older)

	mock.ExpectQuery("SELECT id, user_id, title, ingredients, steps, difficulty, calories, protein, created_at FROM favorites WHERE user_id = \\$1 ORDER BY created_at DESC").
		WithArgs("user-1", DefaultListLimit).
		WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), "user-1", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Ramen", got[0].Title)
	assert.Equal(t, []string{"noodles"}, got[0].Ingredients)
	assert.Equal(t, []string{"boil"}, got[0].Steps)
	assert.Equal(t, newer, got[0].CreatedAt)

	assert.Equal(t, []string{}, got[1].Ingredients)
	assert.Equal(t, []string{}, got[1].Steps)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoListByUserBadJSON(t *testing.T) {
	repo, mock := newMockRepo(t)
	rows := sqlmock.NewRows(favoriteColumns).
		AddRow("fav-1", "user-1", "Soup", []byte(`{`), []byte(`[]`), "", 0.0, 0.0, time.Now())
	mock.ExpectQuery("SELECT (.+) FROM favorites").WillReturnRows(rows)

	_, err := repo.ListByUser(context.Background(), "user-1", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode ingredients")
}

func TestPGRepoListTitles(t *testing.T) {
	repo, mock := newMockRepo(t)
	rows := sqlmock.NewRows([]string{"title"}).AddRow("Ramen").AddRow("Soup")

	mock.ExpectQuery("SELECT title FROM favorites").
		WithArgs("user-1", MaxListLimit).
		WillReturnRows(rows)

	titles, err := repo.ListTitles(context.Background(), "user-1", 10000)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ramen", "Soup"}, titles)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoListTitlesEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT title FROM favorites").
		WithArgs("user-2", 5).
		WillReturnRows(sqlmock.NewRows([]string{"title"}))

	titles, err := repo.ListTitles(context.Background(), "user-2", 5)
	require.NoError(t, err)
	assert.NotNil(t, titles)
	assert.Empty(t, titles)
}
