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

// GormModelCredentialRepository implements credential.ModelCredentialRepository using GORM
type GormModelCredentialRepository struct {
	db *gorm.DB
}

// NewGormModelCredentialRepository creates a new GormModelCredentialRepository
func NewGormModelCredentialRepository(db *gorm.DB) *GormModelCredentialRepository {
	return &GormModelCredentialRepository{db: db}
}

// FindLatestByUser returns the most recently created credential for the user
func (r *GormModelCredentialRepository) FindLatestByUser(ctx context.Context, userID uuid.UUID) (*credential.ModelCredential, error) {
	var model models.ModelCredentialModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllByUser returns all model credentials for the user, newest first
func (r *GormModelCredentialRepository) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]credential.ModelCredential, error) {
	var rows []models.ModelCredentialModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	creds := make([]credential.ModelCredential, len(rows))
	for i := range rows {
		creds[i] = *rows[i].ToDomain()
	}
	return creds, nil
}

// FindByIDForUser returns the credential only when owned by the user
func (r *GormModelCredentialRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*credential.ModelCredential, error) {
	var model models.ModelCredentialModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates a new model credential
func (r *GormModelCredentialRepository) Save(ctx context.Context, cred *credential.ModelCredential) error {
	model := &models.ModelCredentialModel{}
	model.FromDomain(cred)
	return r.db.WithContext(ctx).Create(model).Error
}

// Delete removes the credential when owned by the user
func (r *GormModelCredentialRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&models.ModelCredentialModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormJiraCredentialRepository implements credential.JiraCredentialRepository using GORM
type GormJiraCredentialRepository struct {
	db *gorm.DB
}

// NewGormJiraCredentialRepository creates a new GormJiraCredentialRepository
func NewGormJiraCredentialRepository(db *gorm.DB) *GormJiraCredentialRepository {
	return &GormJiraCredentialRepository{db: db}
}

// FindByUser returns the user's Jira connection
func (r *GormJiraCredentialRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*credential.JiraCredential, error) {
	var model models.JiraCredentialModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Upsert creates the credential or replaces the existing one for the user
func (r *GormJiraCredentialRepository) Upsert(ctx context.Context, cred *credential.JiraCredential) error {
	model := &models.JiraCredentialModel{}
	model.FromDomain(cred)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"domain", "email", "api_token", "project_key", "updated_at",
			}),
		}).
		Create(model).Error
}

// Delete removes the user's Jira credential
func (r *GormJiraCredentialRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.JiraCredentialModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
