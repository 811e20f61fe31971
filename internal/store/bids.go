package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tenderhub/internal/apperrors"
	"tenderhub/internal/models"
)

func (s *Storage) CreateBid(ctx context.Context, b *models.Bid) error {
	b.ID = uuid.New()
	query := `
        INSERT INTO bid
            (id, name, description, status, tender_id, author_type, author_id, version)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING created_at`
	err := s.q.QueryRowxContext(ctx, query,
		b.ID, b.Name, b.Description, b.Status, b.TenderID, b.AuthorType, b.AuthorID, b.Version).
		Scan(&b.CreatedAt)
	return translateConstraint(err)
}

func (s *Storage) GetBid(ctx context.Context, id uuid.UUID) (*models.Bid, error) {
	b := &models.Bid{}
	query := `
        SELECT id, name, description, status, tender_id, author_type, author_id, version, created_at
        FROM bid WHERE id = $1`
	if err := sqlx.GetContext(ctx, s.q, b, query, id); err != nil {
		return nil, notFound(err, apperrors.ErrBidNotFound)
	}
	return b, nil
}

func (s *Storage) UpdateBid(ctx context.Context, b *models.Bid) error {
	query := `
        UPDATE bid
        SET name = $1, description = $2, status = $3, version = $4
        WHERE id = $5`
	_, err := s.q.ExecContext(ctx, query, b.Name, b.Description, b.Status, b.Version, b.ID)
	return translateConstraint(err)
}

// ListUserBids returns bids placed on tenders of organizations the user is
// responsible for.
func (s *Storage) ListUserBids(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Bid, error) {
	query := `
        SELECT b.id, b.name, b.description, b.status, b.tender_id, b.author_type, b.author_id, b.version, b.created_at
        FROM bid b
        JOIN tender t ON b.tender_id = t.id
        WHERE t.organization_id IN (
            SELECT organization_id FROM organization_responsible WHERE user_id = $1
        )
        ORDER BY b.created_at DESC
        LIMIT $2 OFFSET $3`
	bids := []models.Bid{}
	if err := sqlx.SelectContext(ctx, s.q, &bids, query, userID, limit, offset); err != nil {
		return nil, err
	}
	return bids, nil
}

func (s *Storage) ListBidsForTender(ctx context.Context, tenderID uuid.UUID, limit, offset int) ([]models.Bid, error) {
	query := `
        SELECT id, name, description, status, tender_id, author_type, author_id, version, created_at
        FROM bid
        WHERE tender_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`
	bids := []models.Bid{}
	if err := sqlx.SelectContext(ctx, s.q, &bids, query, tenderID, limit, offset); err != nil {
		return nil, err
	}
	return bids, nil
}

func (s *Storage) SaveBidVersion(ctx context.Context, b *models.Bid) error {
	query := `
        INSERT INTO bid_version
            (id, bid_id, name, description, status, tender_id, author_type, author_id, version, created_at)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := s.q.ExecContext(ctx, query,
		uuid.New(), b.ID, b.Name, b.Description, b.Status, b.TenderID,
		b.AuthorType, b.AuthorID, b.Version, b.CreatedAt)
	return translateConstraint(err)
}

func (s *Storage) GetBidVersion(ctx context.Context, bidID uuid.UUID, version int) (*models.BidVersion, error) {
	v := &models.BidVersion{}
	query := `
        SELECT id, bid_id, name, description, status, tender_id, author_type, author_id, version, created_at
        FROM bid_version
        WHERE bid_id = $1 AND version = $2`
	if err := sqlx.GetContext(ctx, s.q, v, query, bidID, version); err != nil {
		return nil, notFound(err, apperrors.ErrRollbackTargetNotFound)
	}
	return v, nil
}

// GetBidDecision returns the decision recorded by the given responsible row
// for the bid, or nil when they have not decided yet.
func (s *Storage) GetBidDecision(ctx context.Context, bidID, responsibleID uuid.UUID) (*models.BidDecisionLog, error) {
	d := &models.BidDecisionLog{}
	query := `
        SELECT id, bid_id, responsible_id, decision, created_at
        FROM bid_decision_log
        WHERE bid_id = $1 AND responsible_id = $2
        LIMIT 1`
	err := sqlx.GetContext(ctx, s.q, d, query, bidID, responsibleID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Storage) CreateBidDecision(ctx context.Context, d *models.BidDecisionLog) error {
	d.ID = uuid.New()
	query := `
        INSERT INTO bid_decision_log (id, bid_id, responsible_id, decision)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at`
	err := s.q.QueryRowxContext(ctx, query, d.ID, d.BidID, d.ResponsibleID, d.Decision).
		Scan(&d.CreatedAt)
	return translateConstraint(err)
}

func (s *Storage) SetBidDecision(ctx context.Context, id uuid.UUID, decision models.Decision) error {
	query := `UPDATE bid_decision_log SET decision = $1 WHERE id = $2`
	_, err := s.q.ExecContext(ctx, query, decision, id)
	return translateConstraint(err)
}

func (s *Storage) CountBidDecisions(ctx context.Context, bidID uuid.UUID, decision models.Decision) (int, error) {
	var count int
	query := `SELECT COUNT(1) FROM bid_decision_log WHERE bid_id = $1 AND decision = $2`
	err := sqlx.GetContext(ctx, s.q, &count, query, bidID, decision)
	return count, err
}

func (s *Storage) CreateBidFeedback(ctx context.Context, f *models.BidFeedback) error {
	f.ID = uuid.New()
	query := `
        INSERT INTO bid_feedback (id, bid_id, responsible_id, description)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at`
	err := s.q.QueryRowxContext(ctx, query, f.ID, f.BidID, f.ResponsibleID, f.Description).
		Scan(&f.CreatedAt)
	return translateConstraint(err)
}

// ListFeedbackForAuthor returns feedback left on the author's bids within the
// given tender, newest first.
func (s *Storage) ListFeedbackForAuthor(ctx context.Context, tenderID, authorID uuid.UUID, limit, offset int) ([]models.BidFeedback, error) {
	query := `
        SELECT f.id, f.bid_id, f.responsible_id, f.description, f.created_at
        FROM bid_feedback f
        JOIN bid b ON f.bid_id = b.id
        WHERE b.tender_id = $1 AND b.author_id = $2
        ORDER BY f.created_at DESC
        LIMIT $3 OFFSET $4`
	feedback := []models.BidFeedback{}
	if err := sqlx.SelectContext(ctx, s.q, &feedback, query, tenderID, authorID, limit, offset); err != nil {
		return nil, err
	}
	return feedback, nil
}
