package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tenderhub/internal/apperrors"
	"tenderhub/internal/models"
)

func (s *Storage) CreateTender(ctx context.Context, t *models.Tender) error {
	t.ID = uuid.New()
	query := `
        INSERT INTO tender
            (id, name, description, service_type, status, organization_id, creator_username, version)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING created_at`
	err := s.q.QueryRowxContext(ctx, query,
		t.ID, t.Name, t.Description, t.ServiceType, t.Status, t.OrganizationID, t.CreatorUsername, t.Version).
		Scan(&t.CreatedAt)
	return translateConstraint(err)
}

func (s *Storage) GetTender(ctx context.Context, id uuid.UUID) (*models.Tender, error) {
	t := &models.Tender{}
	query := `
        SELECT id, name, description, service_type, status, organization_id, creator_username, version, created_at
        FROM tender WHERE id = $1`
	if err := sqlx.GetContext(ctx, s.q, t, query, id); err != nil {
		return nil, notFound(err, apperrors.ErrTenderNotFound)
	}
	return t, nil
}

// UpdateTender writes every mutable field, created_at included: a tender
// rollback refreshes the creation timestamp.
func (s *Storage) UpdateTender(ctx context.Context, t *models.Tender) error {
	query := `
        UPDATE tender
        SET name = $1, description = $2, service_type = $3, status = $4, version = $5, created_at = $6
        WHERE id = $7`
	_, err := s.q.ExecContext(ctx, query,
		t.Name, t.Description, t.ServiceType, t.Status, t.Version, t.CreatedAt, t.ID)
	return translateConstraint(err)
}

func (s *Storage) ListTenders(ctx context.Context, serviceTypes []models.ServiceType, limit, offset int) ([]models.Tender, error) {
	query := `
        SELECT id, name, description, service_type, status, organization_id, creator_username, version, created_at
        FROM tender`
	var args []interface{}

	if len(serviceTypes) > 0 {
		placeholders := make([]string, len(serviceTypes))
		for i, st := range serviceTypes {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
			args = append(args, st)
		}
		query += fmt.Sprintf(" WHERE service_type IN (%s)", strings.Join(placeholders, ", "))
	}

	query += fmt.Sprintf(" ORDER BY name ASC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	tenders := []models.Tender{}
	if err := sqlx.SelectContext(ctx, s.q, &tenders, query, args...); err != nil {
		return nil, err
	}
	return tenders, nil
}

func (s *Storage) ListUserTenders(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Tender, error) {
	query := `
        SELECT id, name, description, service_type, status, organization_id, creator_username, version, created_at
        FROM tender
        WHERE organization_id IN (
            SELECT organization_id FROM organization_responsible WHERE user_id = $1
        )
        ORDER BY name ASC
        LIMIT $2 OFFSET $3`
	tenders := []models.Tender{}
	if err := sqlx.SelectContext(ctx, s.q, &tenders, query, userID, limit, offset); err != nil {
		return nil, err
	}
	return tenders, nil
}

// SaveTenderVersion snapshots the tender as it currently is, under its
// current version number. Callers must snapshot before mutating.
func (s *Storage) SaveTenderVersion(ctx context.Context, t *models.Tender) error {
	query := `
        INSERT INTO tender_version
            (id, tender_id, name, description, service_type, status, organization_id, creator_username, version, created_at)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := s.q.ExecContext(ctx, query,
		uuid.New(), t.ID, t.Name, t.Description, t.ServiceType, t.Status,
		t.OrganizationID, t.CreatorUsername, t.Version, t.CreatedAt)
	return translateConstraint(err)
}

func (s *Storage) GetTenderVersion(ctx context.Context, tenderID uuid.UUID, version int) (*models.TenderVersion, error) {
	v := &models.TenderVersion{}
	query := `
        SELECT id, tender_id, name, description, service_type, status, organization_id, creator_username, version, created_at
        FROM tender_version
        WHERE tender_id = $1 AND version = $2`
	if err := sqlx.GetContext(ctx, s.q, v, query, tenderID, version); err != nil {
		return nil, notFound(err, apperrors.ErrRollbackTargetNotFound)
	}
	return v, nil
}
