package project

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akbarkhoja/portfolio-api/internal/api"
	"github.com/akbarkhoja/portfolio-api/internal/types"
)

var projectRowColumns = []string{
	"id", "title", "description", "image", "technologies",
	"github_url", "live_url", "featured", "created_at", "updated_at",
}

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *PostgresProjectRepo) {
	t.Helper()
	mockPool, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return mockPool, NewPostgresProjectRepo(mockPool, slog.Default())
}

func TestProjectUpdateTouchesOnlySuppliedColumns(t *testing.T) {
	mockPool, repo := newMockRepo(t)
	id := uuid.New()
	now := time.Now()
	github := "https://github.com/akbarkhoja/demo"

	title := "Renamed Project"
	mockPool.ExpectQuery(`UPDATE projects SET title = \$1, updated_at = \$2 WHERE id = \$3`).
		WithArgs(title, pgxmock.AnyArg(), id).
		WillReturnRows(pgxmock.NewRows(projectRowColumns).AddRow(
			id, title, "a description", "/placeholder.svg", []string{"Go", "Postgres"},
			&github, (*string)(nil), true, now, now,
		))

	project, err := repo.Update(context.Background(), id, types.UpdateProjectParams{Title: &title})

	require.NoError(t, err)
	assert.Equal(t, title, project.Title)
	assert.Equal(t, "a description", project.Description)
	assert.Equal(t, []string{"Go", "Postgres"}, project.Technologies)
	require.NotNil(t, project.GithubURL)
	assert.Equal(t, github, *project.GithubURL)
	assert.Nil(t, project.LiveURL)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestProjectGetByIDMissing(t *testing.T) {
	mockPool, repo := newMockRepo(t)
	id := uuid.New()

	mockPool.ExpectQuery(`SELECT .+ FROM projects WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(projectRowColumns))

	_, err := repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, api.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestProjectSeedRunsInOneTransaction(t *testing.T) {
	mockPool, repo := newMockRepo(t)

	mockPool.ExpectBegin()
	for range sampleProjects() {
		mockPool.ExpectExec(`INSERT INTO projects`).
			WithArgs(
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	mockPool.ExpectCommit()
	mockPool.ExpectRollback()

	require.NoError(t, repo.SeedProjects(context.Background(), sampleProjects()))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
