package store

import (
	"context"

	"github.com/google/uuid"

	"tenderhub/internal/models"
)

// Store is the persistence contract consumed by the service layer. InTx runs
// the closure against a transaction-bound Store so that snapshot, mutation
// and version increment commit or roll back as one unit.
type Store interface {
	InTx(ctx context.Context, fn func(Store) error) error

	GetEmployeeByUsername(ctx context.Context, username string) (*models.Employee, error)
	GetEmployeeByID(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	IsUserResponsible(ctx context.Context, userID, organizationID uuid.UUID) (bool, error)
	GetResponsible(ctx context.Context, userID, organizationID uuid.UUID) (*models.OrganizationResponsible, error)
	CountResponsibles(ctx context.Context, organizationID uuid.UUID) (int, error)

	CreateTender(ctx context.Context, t *models.Tender) error
	GetTender(ctx context.Context, id uuid.UUID) (*models.Tender, error)
	UpdateTender(ctx context.Context, t *models.Tender) error
	ListTenders(ctx context.Context, serviceTypes []models.ServiceType, limit, offset int) ([]models.Tender, error)
	ListUserTenders(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Tender, error)
	SaveTenderVersion(ctx context.Context, t *models.Tender) error
	GetTenderVersion(ctx context.Context, tenderID uuid.UUID, version int) (*models.TenderVersion, error)

	CreateBid(ctx context.Context, b *models.Bid) error
	GetBid(ctx context.Context, id uuid.UUID) (*models.Bid, error)
	UpdateBid(ctx context.Context, b *models.Bid) error
	ListUserBids(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Bid, error)
	ListBidsForTender(ctx context.Context, tenderID uuid.UUID, limit, offset int) ([]models.Bid, error)
	SaveBidVersion(ctx context.Context, b *models.Bid) error
	GetBidVersion(ctx context.Context, bidID uuid.UUID, version int) (*models.BidVersion, error)

	GetBidDecision(ctx context.Context, bidID, responsibleID uuid.UUID) (*models.BidDecisionLog, error)
	CreateBidDecision(ctx context.Context, d *models.BidDecisionLog) error
	SetBidDecision(ctx context.Context, id uuid.UUID, decision models.Decision) error
	CountBidDecisions(ctx context.Context, bidID uuid.UUID, decision models.Decision) (int, error)

	CreateBidFeedback(ctx context.Context, f *models.BidFeedback) error
	ListFeedbackForAuthor(ctx context.Context, tenderID, authorID uuid.UUID, limit, offset int) ([]models.BidFeedback, error)
}
