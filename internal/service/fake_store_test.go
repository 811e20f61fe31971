package service_test

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"tenderhub/internal/apperrors"
	"tenderhub/internal/models"
	"tenderhub/internal/store"
)

// fakeStore is an in-memory store.Store used to exercise the services end to
// end: it keeps real ledger rows, decision logs and responsibility rows so
// quorum and versioning behavior can be asserted against actual state.
type fakeStore struct {
	employees      []models.Employee
	responsibles   []models.OrganizationResponsible
	tenders        map[uuid.UUID]models.Tender
	tenderVersions []models.TenderVersion
	bids           map[uuid.UUID]models.Bid
	bidVersions    []models.BidVersion
	decisions      []models.BidDecisionLog
	feedback       []models.BidFeedback
}

var _ store.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		tenders: make(map[uuid.UUID]models.Tender),
		bids:    make(map[uuid.UUID]models.Bid),
	}
}

func (f *fakeStore) addEmployee(username string) models.Employee {
	e := models.Employee{ID: uuid.New(), Username: username, CreatedAt: time.Now()}
	f.employees = append(f.employees, e)
	return e
}

func (f *fakeStore) addResponsible(orgID, userID uuid.UUID) models.OrganizationResponsible {
	r := models.OrganizationResponsible{ID: uuid.New(), OrganizationID: orgID, UserID: userID}
	f.responsibles = append(f.responsibles, r)
	return r
}

func (f *fakeStore) addTender(t models.Tender) models.Tender {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Version == 0 {
		t.Version = 1
	}
	if t.Status == "" {
		t.Status = models.TenderCreated
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().Add(-time.Hour)
	}
	f.tenders[t.ID] = t
	return t
}

func (f *fakeStore) addBid(b models.Bid) models.Bid {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Version == 0 {
		b.Version = 1
	}
	if b.Status == "" {
		b.Status = models.BidCreated
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().Add(-time.Hour)
	}
	f.bids[b.ID] = b
	return b
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func (f *fakeStore) InTx(ctx context.Context, fn func(store.Store) error) error {
	return fn(f)
}

func (f *fakeStore) GetEmployeeByUsername(ctx context.Context, username string) (*models.Employee, error) {
	for _, e := range f.employees {
		if e.Username == username {
			out := e
			return &out, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeStore) GetEmployeeByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			out := e
			return &out, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeStore) IsUserResponsible(ctx context.Context, userID, organizationID uuid.UUID) (bool, error) {
	for _, r := range f.responsibles {
		if r.UserID == userID && r.OrganizationID == organizationID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) GetResponsible(ctx context.Context, userID, organizationID uuid.UUID) (*models.OrganizationResponsible, error) {
	for _, r := range f.responsibles {
		if r.UserID == userID && r.OrganizationID == organizationID {
			out := r
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CountResponsibles(ctx context.Context, organizationID uuid.UUID) (int, error) {
	count := 0
	for _, r := range f.responsibles {
		if r.OrganizationID == organizationID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) CreateTender(ctx context.Context, t *models.Tender) error {
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	f.tenders[t.ID] = *t
	return nil
}

func (f *fakeStore) GetTender(ctx context.Context, id uuid.UUID) (*models.Tender, error) {
	t, ok := f.tenders[id]
	if !ok {
		return nil, apperrors.ErrTenderNotFound
	}
	out := t
	return &out, nil
}

func (f *fakeStore) UpdateTender(ctx context.Context, t *models.Tender) error {
	if _, ok := f.tenders[t.ID]; !ok {
		return apperrors.ErrTenderNotFound
	}
	f.tenders[t.ID] = *t
	return nil
}

func (f *fakeStore) ListTenders(ctx context.Context, serviceTypes []models.ServiceType, limit, offset int) ([]models.Tender, error) {
	var out []models.Tender
	for _, t := range f.tenders {
		if len(serviceTypes) > 0 {
			match := false
			for _, st := range serviceTypes {
				if t.ServiceType == st {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

func (f *fakeStore) ListUserTenders(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Tender, error) {
	orgs := make(map[uuid.UUID]bool)
	for _, r := range f.responsibles {
		if r.UserID == userID {
			orgs[r.OrganizationID] = true
		}
	}
	var out []models.Tender
	for _, t := range f.tenders {
		if orgs[t.OrganizationID] {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

func (f *fakeStore) SaveTenderVersion(ctx context.Context, t *models.Tender) error {
	f.tenderVersions = append(f.tenderVersions, models.TenderVersion{
		ID:              uuid.New(),
		TenderID:        t.ID,
		Name:            t.Name,
		Description:     t.Description,
		ServiceType:     t.ServiceType,
		Status:          t.Status,
		OrganizationID:  t.OrganizationID,
		CreatorUsername: t.CreatorUsername,
		Version:         t.Version,
		CreatedAt:       t.CreatedAt,
	})
	return nil
}

func (f *fakeStore) GetTenderVersion(ctx context.Context, tenderID uuid.UUID, version int) (*models.TenderVersion, error) {
	for _, v := range f.tenderVersions {
		if v.TenderID == tenderID && v.Version == version {
			out := v
			return &out, nil
		}
	}
	return nil, apperrors.ErrRollbackTargetNotFound
}

func (f *fakeStore) CreateBid(ctx context.Context, b *models.Bid) error {
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	f.bids[b.ID] = *b
	return nil
}

func (f *fakeStore) GetBid(ctx context.Context, id uuid.UUID) (*models.Bid, error) {
	b, ok := f.bids[id]
	if !ok {
		return nil, apperrors.ErrBidNotFound
	}
	out := b
	return &out, nil
}

func (f *fakeStore) UpdateBid(ctx context.Context, b *models.Bid) error {
	if _, ok := f.bids[b.ID]; !ok {
		return apperrors.ErrBidNotFound
	}
	f.bids[b.ID] = *b
	return nil
}

func (f *fakeStore) ListUserBids(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Bid, error) {
	orgs := make(map[uuid.UUID]bool)
	for _, r := range f.responsibles {
		if r.UserID == userID {
			orgs[r.OrganizationID] = true
		}
	}
	var out []models.Bid
	for _, b := range f.bids {
		t, ok := f.tenders[b.TenderID]
		if ok && orgs[t.OrganizationID] {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

func (f *fakeStore) ListBidsForTender(ctx context.Context, tenderID uuid.UUID, limit, offset int) ([]models.Bid, error) {
	var out []models.Bid
	for _, b := range f.bids {
		if b.TenderID == tenderID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

func (f *fakeStore) SaveBidVersion(ctx context.Context, b *models.Bid) error {
	f.bidVersions = append(f.bidVersions, models.BidVersion{
		ID:          uuid.New(),
		BidID:       b.ID,
		Name:        b.Name,
		Description: b.Description,
		Status:      b.Status,
		TenderID:    b.TenderID,
		AuthorType:  b.AuthorType,
		AuthorID:    b.AuthorID,
		Version:     b.Version,
		CreatedAt:   b.CreatedAt,
	})
	return nil
}

func (f *fakeStore) GetBidVersion(ctx context.Context, bidID uuid.UUID, version int) (*models.BidVersion, error) {
	for _, v := range f.bidVersions {
		if v.BidID == bidID && v.Version == version {
			out := v
			return &out, nil
		}
	}
	return nil, apperrors.ErrRollbackTargetNotFound
}

func (f *fakeStore) GetBidDecision(ctx context.Context, bidID, responsibleID uuid.UUID) (*models.BidDecisionLog, error) {
	for _, d := range f.decisions {
		if d.BidID == bidID && d.ResponsibleID == responsibleID {
			out := d
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateBidDecision(ctx context.Context, d *models.BidDecisionLog) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	f.decisions = append(f.decisions, *d)
	return nil
}

func (f *fakeStore) SetBidDecision(ctx context.Context, id uuid.UUID, decision models.Decision) error {
	for i := range f.decisions {
		if f.decisions[i].ID == id {
			f.decisions[i].Decision = decision
			return nil
		}
	}
	return nil
}

func (f *fakeStore) CountBidDecisions(ctx context.Context, bidID uuid.UUID, decision models.Decision) (int, error) {
	count := 0
	for _, d := range f.decisions {
		if d.BidID == bidID && d.Decision == decision {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) CreateBidFeedback(ctx context.Context, fb *models.BidFeedback) error {
	fb.ID = uuid.New()
	fb.CreatedAt = time.Now()
	f.feedback = append(f.feedback, *fb)
	return nil
}

func (f *fakeStore) ListFeedbackForAuthor(ctx context.Context, tenderID, authorID uuid.UUID, limit, offset int) ([]models.BidFeedback, error) {
	var out []models.BidFeedback
	for _, fb := range f.feedback {
		b, ok := f.bids[fb.BidID]
		if ok && b.TenderID == tenderID && b.AuthorID == authorID {
			out = append(out, fb)
		}
	}
	return paginate(out, limit, offset), nil
}
