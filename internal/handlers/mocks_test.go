package handlers_test

import (
	"context"

	"github.com/google/uuid"

	"tenderhub/internal/handlers"
	"tenderhub/internal/models"
	"tenderhub/internal/service"
)

// mockTenderService implements handlers.TenderService through overridable
// function fields; unset methods return zero values.
type mockTenderService struct {
	listTenders        func(ctx context.Context, serviceTypes []models.ServiceType, limit, offset int) ([]models.Tender, error)
	createTender       func(ctx context.Context, name, description string, serviceType models.ServiceType, organizationID uuid.UUID, creatorUsername string) (*models.Tender, error)
	listUserTenders    func(ctx context.Context, username string, limit, offset int) ([]models.Tender, error)
	getTenderStatus    func(ctx context.Context, tenderID uuid.UUID, username string) (models.TenderStatus, error)
	updateTenderStatus func(ctx context.Context, tenderID uuid.UUID, status models.TenderStatus, username string) (models.TenderStatus, error)
	editTender         func(ctx context.Context, tenderID uuid.UUID, username string, patch service.TenderPatch) (*models.Tender, error)
	rollbackTender     func(ctx context.Context, tenderID uuid.UUID, version int, username string) (*models.Tender, error)
}

var _ handlers.TenderService = (*mockTenderService)(nil)

func (m *mockTenderService) ListTenders(ctx context.Context, serviceTypes []models.ServiceType, limit, offset int) ([]models.Tender, error) {
	if m.listTenders == nil {
		return nil, nil
	}
	return m.listTenders(ctx, serviceTypes, limit, offset)
}

func (m *mockTenderService) CreateTender(ctx context.Context, name, description string, serviceType models.ServiceType, organizationID uuid.UUID, creatorUsername string) (*models.Tender, error) {
	if m.createTender == nil {
		return &models.Tender{}, nil
	}
	return m.createTender(ctx, name, description, serviceType, organizationID, creatorUsername)
}

func (m *mockTenderService) ListUserTenders(ctx context.Context, username string, limit, offset int) ([]models.Tender, error) {
	if m.listUserTenders == nil {
		return nil, nil
	}
	return m.listUserTenders(ctx, username, limit, offset)
}

func (m *mockTenderService) GetTenderStatus(ctx context.Context, tenderID uuid.UUID, username string) (models.TenderStatus, error) {
	if m.getTenderStatus == nil {
		return "", nil
	}
	return m.getTenderStatus(ctx, tenderID, username)
}

func (m *mockTenderService) UpdateTenderStatus(ctx context.Context, tenderID uuid.UUID, status models.TenderStatus, username string) (models.TenderStatus, error) {
	if m.updateTenderStatus == nil {
		return "", nil
	}
	return m.updateTenderStatus(ctx, tenderID, status, username)
}

func (m *mockTenderService) EditTender(ctx context.Context, tenderID uuid.UUID, username string, patch service.TenderPatch) (*models.Tender, error) {
	if m.editTender == nil {
		return &models.Tender{}, nil
	}
	return m.editTender(ctx, tenderID, username, patch)
}

func (m *mockTenderService) RollbackTender(ctx context.Context, tenderID uuid.UUID, version int, username string) (*models.Tender, error) {
	if m.rollbackTender == nil {
		return &models.Tender{}, nil
	}
	return m.rollbackTender(ctx, tenderID, version, username)
}

// mockBidService implements handlers.BidService the same way.
type mockBidService struct {
	createBid           func(ctx context.Context, name, description string, tenderID uuid.UUID, author models.BidAuthor) (*models.Bid, error)
	listUserBids        func(ctx context.Context, username string, limit, offset int) ([]models.Bid, error)
	listBidsForTender   func(ctx context.Context, tenderID uuid.UUID, username string, limit, offset int) ([]models.Bid, error)
	getBidStatus        func(ctx context.Context, bidID uuid.UUID, username string) (models.BidStatus, error)
	updateBidStatus     func(ctx context.Context, bidID uuid.UUID, status models.BidStatus, username string) (*models.Bid, error)
	editBid             func(ctx context.Context, bidID uuid.UUID, username string, patch service.BidPatch) (*models.Bid, error)
	rollbackBidVersion  func(ctx context.Context, bidID uuid.UUID, version int, username string) (*models.Bid, error)
	submitDecision      func(ctx context.Context, bidID uuid.UUID, decision models.Decision, username string) (*models.Bid, error)
	submitFeedback      func(ctx context.Context, bidID uuid.UUID, text, username string) (*models.Bid, error)
	getReviewsForAuthor func(ctx context.Context, tenderID uuid.UUID, authorUsername, requesterUsername string, limit, offset int) ([]models.BidFeedback, error)
}

var _ handlers.BidService = (*mockBidService)(nil)

func (m *mockBidService) CreateBid(ctx context.Context, name, description string, tenderID uuid.UUID, author models.BidAuthor) (*models.Bid, error) {
	if m.createBid == nil {
		return &models.Bid{}, nil
	}
	return m.createBid(ctx, name, description, tenderID, author)
}

func (m *mockBidService) ListUserBids(ctx context.Context, username string, limit, offset int) ([]models.Bid, error) {
	if m.listUserBids == nil {
		return nil, nil
	}
	return m.listUserBids(ctx, username, limit, offset)
}

func (m *mockBidService) ListBidsForTender(ctx context.Context, tenderID uuid.UUID, username string, limit, offset int) ([]models.Bid, error) {
	if m.listBidsForTender == nil {
		return nil, nil
	}
	return m.listBidsForTender(ctx, tenderID, username, limit, offset)
}

func (m *mockBidService) GetBidStatus(ctx context.Context, bidID uuid.UUID, username string) (models.BidStatus, error) {
	if m.getBidStatus == nil {
		return "", nil
	}
	return m.getBidStatus(ctx, bidID, username)
}

func (m *mockBidService) UpdateBidStatus(ctx context.Context, bidID uuid.UUID, status models.BidStatus, username string) (*models.Bid, error) {
	if m.updateBidStatus == nil {
		return &models.Bid{}, nil
	}
	return m.updateBidStatus(ctx, bidID, status, username)
}

func (m *mockBidService) EditBid(ctx context.Context, bidID uuid.UUID, username string, patch service.BidPatch) (*models.Bid, error) {
	if m.editBid == nil {
		return &models.Bid{}, nil
	}
	return m.editBid(ctx, bidID, username, patch)
}

func (m *mockBidService) RollbackBidVersion(ctx context.Context, bidID uuid.UUID, version int, username string) (*models.Bid, error) {
	if m.rollbackBidVersion == nil {
		return &models.Bid{}, nil
	}
	return m.rollbackBidVersion(ctx, bidID, version, username)
}

func (m *mockBidService) SubmitDecision(ctx context.Context, bidID uuid.UUID, decision models.Decision, username string) (*models.Bid, error) {
	if m.submitDecision == nil {
		return &models.Bid{}, nil
	}
	return m.submitDecision(ctx, bidID, decision, username)
}

func (m *mockBidService) SubmitFeedback(ctx context.Context, bidID uuid.UUID, text, username string) (*models.Bid, error) {
	if m.submitFeedback == nil {
		return &models.Bid{}, nil
	}
	return m.submitFeedback(ctx, bidID, text, username)
}

func (m *mockBidService) GetReviewsForAuthor(ctx context.Context, tenderID uuid.UUID, authorUsername, requesterUsername string, limit, offset int) ([]models.BidFeedback, error) {
	if m.getReviewsForAuthor == nil {
		return nil, nil
	}
	return m.getReviewsForAuthor(ctx, tenderID, authorUsername, requesterUsername, limit, offset)
}
