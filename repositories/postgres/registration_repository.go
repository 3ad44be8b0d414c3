package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sagarmiglani/accessgate/models"
	"github.com/sagarmiglani/accessgate/repositories"
	"go.uber.org/zap"
)

// RegistrationRepository implements the repositories.RegistrationRepository interface
type RegistrationRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewRegistrationRepository creates a new gate registration repository
func NewRegistrationRepository(db *DB, logger *zap.Logger) repositories.RegistrationRepository {
	return &RegistrationRepository{
		db:     db,
		logger: logger,
	}
}

const registrationColumns = "id, name, gate_type, config, context, path_pattern, operations, final_operations, ranking, enabled, created_at, updated_at"

// Create creates a new gate registration
func (r *RegistrationRepository) Create(ctx context.Context, reg *models.GateRegistration) error {
	query := `
		INSERT INTO gate_registrations (` + registrationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		reg.ID,
		reg.Name,
		reg.GateType,
		reg.Config,
		reg.Context,
		reg.PathPattern,
		pq.Array(reg.Operations),
		pq.Array(reg.FinalOperations),
		reg.Ranking,
		reg.Enabled,
		reg.CreatedAt,
		reg.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create gate registration: %w", err)
	}

	r.logger.Debug("gate registration created", zap.String("id", reg.ID.String()))
	return nil
}

// GetByID retrieves a gate registration by ID
func (r *RegistrationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.GateRegistration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM gate_registrations
		WHERE id = $1
	`

	return r.scanRegistration(r.db.QueryRowContext(ctx, query, id), id.String())
}

// GetByName retrieves a gate registration by its unique name
func (r *RegistrationRepository) GetByName(ctx context.Context, name string) (*models.GateRegistration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM gate_registrations
		WHERE name = $1
	`

	return r.scanRegistration(r.db.QueryRowContext(ctx, query, name), name)
}

// List retrieves all gate registrations, ranking descending
func (r *RegistrationRepository) List(ctx context.Context) ([]*models.GateRegistration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM gate_registrations
		ORDER BY ranking DESC, created_at ASC
	`

	return r.queryRegistrations(ctx, query)
}

// ListEnabled retrieves the enabled gate registrations, ranking descending
func (r *RegistrationRepository) ListEnabled(ctx context.Context) ([]*models.GateRegistration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM gate_registrations
		WHERE enabled = true
		ORDER BY ranking DESC, created_at ASC
	`

	return r.queryRegistrations(ctx, query)
}

// Update updates a gate registration
func (r *RegistrationRepository) Update(ctx context.Context, reg *models.GateRegistration) error {
	query := `
		UPDATE gate_registrations
		SET name = $2, gate_type = $3, config = $4, context = $5, path_pattern = $6,
		    operations = $7, final_operations = $8, ranking = $9, enabled = $10, updated_at = $11
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		reg.ID,
		reg.Name,
		reg.GateType,
		reg.Config,
		reg.Context,
		reg.PathPattern,
		pq.Array(reg.Operations),
		pq.Array(reg.FinalOperations),
		reg.Ranking,
		reg.Enabled,
		reg.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update gate registration: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("gate registration not found: %s: %w", reg.ID, sql.ErrNoRows)
	}

	r.logger.Debug("gate registration updated", zap.String("id", reg.ID.String()))
	return nil
}

// Delete deletes a gate registration
func (r *RegistrationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM gate_registrations WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete gate registration: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("gate registration not found: %s: %w", id, sql.ErrNoRows)
	}

	r.logger.Debug("gate registration deleted", zap.String("id", id.String()))
	return nil
}

// scanRegistration scans a single row into a GateRegistration
func (r *RegistrationRepository) scanRegistration(row *sql.Row, key string) (*models.GateRegistration, error) {
	reg := &models.GateRegistration{}

	err := row.Scan(
		&reg.ID,
		&reg.Name,
		&reg.GateType,
		&reg.Config,
		&reg.Context,
		&reg.PathPattern,
		pq.Array(&reg.Operations),
		pq.Array(&reg.FinalOperations),
		&reg.Ranking,
		&reg.Enabled,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("gate registration not found: %s: %w", key, sql.ErrNoRows)
		}
		return nil, fmt.Errorf("failed to get gate registration: %w", err)
	}

	return reg, nil
}

// queryRegistrations executes a query and scans the resulting registrations
func (r *RegistrationRepository) queryRegistrations(ctx context.Context, query string, args ...interface{}) ([]*models.GateRegistration, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query gate registrations: %w", err)
	}
	defer rows.Close()

	registrations := make([]*models.GateRegistration, 0)
	for rows.Next() {
		reg := &models.GateRegistration{}
		err := rows.Scan(
			&reg.ID,
			&reg.Name,
			&reg.GateType,
			&reg.Config,
			&reg.Context,
			&reg.PathPattern,
			pq.Array(&reg.Operations),
			pq.Array(&reg.FinalOperations),
			&reg.Ranking,
			&reg.Enabled,
			&reg.CreatedAt,
			&reg.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan gate registration: %w", err)
		}
		registrations = append(registrations, reg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate gate registrations: %w", err)
	}

	return registrations, nil
}
