package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"tenderhub/internal/apperrors"
	"tenderhub/internal/models"
)

// Storage implements Store over Postgres via sqlx. The q field is either the
// root *sqlx.DB or a *sqlx.Tx, so the same query methods serve both plain and
// transactional calls.
type Storage struct {
	db *sqlx.DB
	q  sqlx.ExtContext
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{db: db, q: db}
}

func (s *Storage) InTx(ctx context.Context, fn func(Store) error) error {
	if _, ok := s.q.(*sqlx.Tx); ok {
		// Already transactional, reuse the surrounding transaction.
		return fn(s)
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&Storage{db: s.db, q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// translateConstraint folds Postgres integrity violations (class 23) into the
// generic validation error so callers never branch on driver details.
func translateConstraint(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "23" {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, pqErr.Message)
	}
	return err
}

func notFound(err, sentinel error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel
	}
	return err
}

func (s *Storage) GetEmployeeByUsername(ctx context.Context, username string) (*models.Employee, error) {
	e := &models.Employee{}
	query := `
        SELECT id, username, first_name, last_name, created_at, updated_at
        FROM employee WHERE username = $1`
	if err := sqlx.GetContext(ctx, s.q, e, query, username); err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	return e, nil
}

func (s *Storage) GetEmployeeByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	e := &models.Employee{}
	query := `
        SELECT id, username, first_name, last_name, created_at, updated_at
        FROM employee WHERE id = $1`
	if err := sqlx.GetContext(ctx, s.q, e, query, id); err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	return e, nil
}

func (s *Storage) IsUserResponsible(ctx context.Context, userID, organizationID uuid.UUID) (bool, error) {
	var count int
	query := `SELECT COUNT(1) FROM organization_responsible WHERE user_id = $1 AND organization_id = $2`
	if err := sqlx.GetContext(ctx, s.q, &count, query, userID, organizationID); err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetResponsible returns the first responsibility row linking the user to the
// organization, or nil when none exists.
func (s *Storage) GetResponsible(ctx context.Context, userID, organizationID uuid.UUID) (*models.OrganizationResponsible, error) {
	r := &models.OrganizationResponsible{}
	query := `
        SELECT id, organization_id, user_id
        FROM organization_responsible
        WHERE user_id = $1 AND organization_id = $2
        LIMIT 1`
	err := sqlx.GetContext(ctx, s.q, r, query, userID, organizationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// CountResponsibles counts responsibility rows, not distinct employees.
func (s *Storage) CountResponsibles(ctx context.Context, organizationID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(1) FROM organization_responsible WHERE organization_id = $1`
	err := sqlx.GetContext(ctx, s.q, &count, query, organizationID)
	return count, err
}
