package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ticketflow/backend/internal/domain/credential"
	"github.com/ticketflow/backend/internal/domain/shared"
	"github.com/ticketflow/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectConfigRepository implements credential.ProjectConfigRepository using GORM
type GormProjectConfigRepository struct {
	db *gorm.DB
}

// NewGormProjectConfigRepository creates a new GormProjectConfigRepository
func NewGormProjectConfigRepository(db *gorm.DB) *GormProjectConfigRepository {
	return &GormProjectConfigRepository{db: db}
}

// FindByCredential returns the cached snapshot for the Jira credential
func (r *GormProjectConfigRepository) FindByCredential(ctx context.Context, credentialID uuid.UUID) (*credential.ProjectConfig, error) {
	var model models.JiraProjectConfigModel
	if err := r.db.WithContext(ctx).
		Where("jira_credential_id = ?", credentialID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// Upsert creates the snapshot or replaces the existing one for the credential
func (r *GormProjectConfigRepository) Upsert(ctx context.Context, cfg *credential.ProjectConfig) error {
	model := &models.JiraProjectConfigModel{}
	if err := model.FromDomain(cfg); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "jira_credential_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"project_key", "project_name", "issue_types", "updated_at",
			}),
		}).
		Create(model).Error
}
