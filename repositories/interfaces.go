package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/sagarmiglani/accessgate/models"
)

// RegistrationRepository handles persisted gate registrations
type RegistrationRepository interface {
	// Create creates a new gate registration
	Create(ctx context.Context, reg *models.GateRegistration) error

	// GetByID retrieves a gate registration by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.GateRegistration, error)

	// GetByName retrieves a gate registration by its unique name
	GetByName(ctx context.Context, name string) (*models.GateRegistration, error)

	// List retrieves all gate registrations, ranking descending
	List(ctx context.Context) ([]*models.GateRegistration, error)

	// ListEnabled retrieves the enabled gate registrations, ranking descending
	ListEnabled(ctx context.Context) ([]*models.GateRegistration, error)

	// Update updates a gate registration
	Update(ctx context.Context, reg *models.GateRegistration) error

	// Delete deletes a gate registration
	Delete(ctx context.Context, id uuid.UUID) error
}
