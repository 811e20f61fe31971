package models

import (
	"time"

	"github.com/google/uuid"
)

type TenderStatus string

const (
	TenderCreated   TenderStatus = "Created"
	TenderPublished TenderStatus = "Published"
	TenderClosed    TenderStatus = "Closed"
)

func (s TenderStatus) Valid() bool {
	switch s {
	case TenderCreated, TenderPublished, TenderClosed:
		return true
	default:
		return false
	}
}

type ServiceType string

const (
	ServiceConstruction ServiceType = "Construction"
	ServiceDelivery     ServiceType = "Delivery"
	ServiceManufacture  ServiceType = "Manufacture"
)

func (t ServiceType) Valid() bool {
	switch t {
	case ServiceConstruction, ServiceDelivery, ServiceManufacture:
		return true
	default:
		return false
	}
}

type BidStatus string

const (
	BidCreated   BidStatus = "Created"
	BidPublished BidStatus = "Published"
	BidCanceled  BidStatus = "Canceled"
)

func (s BidStatus) Valid() bool {
	switch s {
	case BidCreated, BidPublished, BidCanceled:
		return true
	default:
		return false
	}
}

type AuthorType string

const (
	AuthorOrganization AuthorType = "Organization"
	AuthorUser         AuthorType = "User"
)

type Decision string

const (
	DecisionApproved Decision = "Approved"
	DecisionRejected Decision = "Rejected"
)

func (d Decision) Valid() bool {
	return d == DecisionApproved || d == DecisionRejected
}

type Employee struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	FirstName string    `db:"first_name" json:"firstName"`
	LastName  string    `db:"last_name" json:"lastName"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type Organization struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Type        string    `db:"type" json:"type"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// OrganizationResponsible links an employee to an organization they may act
// for. Duplicate links for the same pair are allowed and counted as separate
// parties by the decision quorum.
type OrganizationResponsible struct {
	ID             uuid.UUID `db:"id"`
	OrganizationID uuid.UUID `db:"organization_id"`
	UserID         uuid.UUID `db:"user_id"`
}

type Tender struct {
	ID              uuid.UUID    `db:"id" json:"id"`
	Name            string       `db:"name" json:"name"`
	Description     string       `db:"description" json:"description"`
	ServiceType     ServiceType  `db:"service_type" json:"serviceType"`
	Status          TenderStatus `db:"status" json:"status"`
	OrganizationID  uuid.UUID    `db:"organization_id" json:"organizationId"`
	CreatorUsername string       `db:"creator_username" json:"creatorUsername"`
	Version         int          `db:"version" json:"version"`
	CreatedAt       time.Time    `db:"created_at" json:"createdAt"`
}

// TenderVersion is an immutable snapshot of a tender taken before a mutation,
// tagged with the tender's pre-mutation version number.
type TenderVersion struct {
	ID              uuid.UUID    `db:"id"`
	TenderID        uuid.UUID    `db:"tender_id"`
	Name            string       `db:"name"`
	Description     string       `db:"description"`
	ServiceType     ServiceType  `db:"service_type"`
	Status          TenderStatus `db:"status"`
	OrganizationID  uuid.UUID    `db:"organization_id"`
	CreatorUsername string       `db:"creator_username"`
	Version         int          `db:"version"`
	CreatedAt       time.Time    `db:"created_at"`
}

// BidAuthor is the tagged author identity of a bid: either an organization
// acting through a responsible employee, or an individual user. The id always
// refers to an employee record.
type BidAuthor struct {
	Type AuthorType `json:"authorType"`
	ID   uuid.UUID  `json:"authorId"`
}

func OrganizationAuthor(id uuid.UUID) BidAuthor {
	return BidAuthor{Type: AuthorOrganization, ID: id}
}

func UserAuthor(id uuid.UUID) BidAuthor {
	return BidAuthor{Type: AuthorUser, ID: id}
}

func (a BidAuthor) Valid() bool {
	return (a.Type == AuthorOrganization || a.Type == AuthorUser) && a.ID != uuid.Nil
}

type Bid struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Description string     `db:"description" json:"description"`
	Status      BidStatus  `db:"status" json:"status"`
	TenderID    uuid.UUID  `db:"tender_id" json:"tenderId"`
	AuthorType  AuthorType `db:"author_type" json:"authorType"`
	AuthorID    uuid.UUID  `db:"author_id" json:"authorId"`
	Version     int        `db:"version" json:"version"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
}

func (b *Bid) Author() BidAuthor {
	return BidAuthor{Type: b.AuthorType, ID: b.AuthorID}
}

// BidVersion is the bid counterpart of TenderVersion.
type BidVersion struct {
	ID          uuid.UUID  `db:"id"`
	BidID       uuid.UUID  `db:"bid_id"`
	Name        string     `db:"name"`
	Description string     `db:"description"`
	Status      BidStatus  `db:"status"`
	TenderID    uuid.UUID  `db:"tender_id"`
	AuthorType  AuthorType `db:"author_type"`
	AuthorID    uuid.UUID  `db:"author_id"`
	Version     int        `db:"version"`
	CreatedAt   time.Time  `db:"created_at"`
}

// BidDecisionLog records one responsible party's decision on a bid.
type BidDecisionLog struct {
	ID            uuid.UUID `db:"id"`
	BidID         uuid.UUID `db:"bid_id"`
	ResponsibleID uuid.UUID `db:"responsible_id"`
	Decision      Decision  `db:"decision"`
	CreatedAt     time.Time `db:"created_at"`
}

type BidFeedback struct {
	ID            uuid.UUID `db:"id" json:"id"`
	BidID         uuid.UUID `db:"bid_id" json:"bidId"`
	ResponsibleID uuid.UUID `db:"responsible_id" json:"-"`
	Description   string    `db:"description" json:"description"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}
