package credential

import (
	"context"

	"github.com/google/uuid"
)

// ModelCredentialRepository defines persistence operations for model credentials.
// The pipeline reads through these interfaces on every call so that credential
// updates between a generate and a publish are always observed.
type ModelCredentialRepository interface {
	// FindLatestByUser returns the most recently created credential for the user,
	// or shared.ErrNotFound when none is stored.
	FindLatestByUser(ctx context.Context, userID uuid.UUID) (*ModelCredential, error)
	FindAllByUser(ctx context.Context, userID uuid.UUID) ([]ModelCredential, error)
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*ModelCredential, error)
	Save(ctx context.Context, cred *ModelCredential) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// JiraCredentialRepository defines persistence operations for Jira credentials
type JiraCredentialRepository interface {
	// FindByUser returns the user's Jira connection, or shared.ErrNotFound.
	FindByUser(ctx context.Context, userID uuid.UUID) (*JiraCredential, error)
	// Upsert creates the credential or replaces the existing one for the user.
	Upsert(ctx context.Context, cred *JiraCredential) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// ProjectConfigRepository defines persistence operations for cached
// Jira project configurations
type ProjectConfigRepository interface {
	// FindByCredential returns the cached snapshot for the Jira
	// credential, or shared.ErrNotFound.
	FindByCredential(ctx context.Context, credentialID uuid.UUID) (*ProjectConfig, error)
	// Upsert creates the snapshot or replaces the existing one for the credential.
	Upsert(ctx context.Context, cfg *ProjectConfig) error
}
