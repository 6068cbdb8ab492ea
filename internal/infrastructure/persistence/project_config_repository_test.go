package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ticketflow/backend/internal/domain/credential"
	"github.com/ticketflow/backend/internal/domain/shared"
)

func projectConfigRows(credentialID uuid.UUID, issueTypes string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "created_at", "updated_at", "jira_credential_id", "project_key", "project_name", "issue_types"}).
		AddRow(uuid.New(), now, now, credentialID, "OPS", "Operations", issueTypes)
}

func TestGormProjectConfigRepository_FindByCredential(t *testing.T) {
	t.Run("finds snapshot and decodes issue types", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormProjectConfigRepository(db)

		credentialID := uuid.New()
		issueTypes := `[{"id":"10001","name":"Task","description":"","subtask":false},{"id":"10003","name":"Sub-task","description":"","subtask":true}]`
		mock.ExpectQuery(`SELECT \* FROM "jira_project_configs" WHERE jira_credential_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(credentialID, 1).
			WillReturnRows(projectConfigRows(credentialID, issueTypes))

		cfg, err := repo.FindByCredential(context.Background(), credentialID)

		require.NoError(t, err)
		assert.Equal(t, credentialID, cfg.JiraCredentialID)
		assert.Equal(t, "OPS", cfg.ProjectKey)
		assert.Equal(t, "Operations", cfg.ProjectName)
		require.Len(t, cfg.IssueTypes, 2)
		assert.Equal(t, "Task", cfg.IssueTypes[0].Name)
		assert.True(t, cfg.IssueTypes[1].Subtask)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormProjectConfigRepository(db)

		credentialID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "jira_project_configs" WHERE jira_credential_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(credentialID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		cfg, err := repo.FindByCredential(context.Background(), credentialID)

		assert.Nil(t, cfg)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProjectConfigRepository_Upsert(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormProjectConfigRepository(db)

	cfg, err := credential.NewProjectConfig(uuid.New(), "OPS", "Operations", []credential.IssueType{
		{ID: "10001", Name: "Task"},
	})
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO "jira_project_configs" .* ON CONFLICT \("jira_credential_id"\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Upsert(context.Background(), cfg)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
