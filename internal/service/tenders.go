package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"tenderhub/internal/apperrors"
	"tenderhub/internal/models"
	"tenderhub/internal/store"
)

// TenderService implements the tender lifecycle: listing, creation, edits,
// status transitions and version rollback. Every mutation authenticates the
// acting user and authorizes them against the owning organization.
type TenderService struct {
	store store.Store
	log   *logrus.Logger
}

func NewTenderService(st store.Store, log *logrus.Logger) *TenderService {
	return &TenderService{store: st, log: log}
}

// TenderPatch carries optional field updates for EditTender. Nil fields are
// left unchanged.
type TenderPatch struct {
	Name        *string
	Description *string
	ServiceType *models.ServiceType
}

// ListTenders returns tenders of any status, filtered by service type. An
// empty result is reported as ErrTenderNotFound, not as an empty page.
func (s *TenderService) ListTenders(ctx context.Context, serviceTypes []models.ServiceType, limit, offset int) ([]models.Tender, error) {
	tenders, err := s.store.ListTenders(ctx, serviceTypes, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list tenders: %w", err)
	}
	if len(tenders) == 0 {
		return nil, apperrors.ErrTenderNotFound
	}
	return tenders, nil
}

func (s *TenderService) CreateTender(ctx context.Context, name, description string, serviceType models.ServiceType, organizationID uuid.UUID, creatorUsername string) (*models.Tender, error) {
	creator, err := s.store.GetEmployeeByUsername(ctx, creatorUsername)
	if err != nil {
		return nil, err
	}
	if err := s.requireResponsible(ctx, creator.ID, organizationID); err != nil {
		return nil, err
	}

	tender := &models.Tender{
		Name:            name,
		Description:     description,
		ServiceType:     serviceType,
		Status:          models.TenderCreated,
		OrganizationID:  organizationID,
		CreatorUsername: creatorUsername,
		Version:         1,
	}
	if err := s.store.CreateTender(ctx, tender); err != nil {
		return nil, fmt.Errorf("create tender: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"tenderId":       tender.ID,
		"organizationId": organizationID,
		"creator":        creatorUsername,
	}).Info("tender created")
	return tender, nil
}

func (s *TenderService) ListUserTenders(ctx context.Context, username string, limit, offset int) ([]models.Tender, error) {
	user, err := s.store.GetEmployeeByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	tenders, err := s.store.ListUserTenders(ctx, user.ID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list user tenders: %w", err)
	}
	if len(tenders) == 0 {
		return nil, apperrors.ErrTenderNotFound
	}
	return tenders, nil
}

// GetTenderStatus is readable by the tender's creator or by any responsible
// party of the owning organization.
func (s *TenderService) GetTenderStatus(ctx context.Context, tenderID uuid.UUID, username string) (models.TenderStatus, error) {
	user, err := s.store.GetEmployeeByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	tender, err := s.store.GetTender(ctx, tenderID)
	if err != nil {
		return "", err
	}
	if tender.CreatorUsername != username {
		if err := s.requireResponsible(ctx, user.ID, tender.OrganizationID); err != nil {
			return "", err
		}
	}
	return tender.Status, nil
}

// UpdateTenderStatus requires organization responsibility; being the creator
// alone is not enough. The write is a direct overwrite without a version
// snapshot.
func (s *TenderService) UpdateTenderStatus(ctx context.Context, tenderID uuid.UUID, status models.TenderStatus, username string) (models.TenderStatus, error) {
	user, err := s.store.GetEmployeeByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	tender, err := s.store.GetTender(ctx, tenderID)
	if err != nil {
		return "", err
	}
	if err := s.requireResponsible(ctx, user.ID, tender.OrganizationID); err != nil {
		return "", err
	}

	tender.Status = status
	if err := s.store.UpdateTender(ctx, tender); err != nil {
		return "", fmt.Errorf("update tender status: %w", err)
	}
	return tender.Status, nil
}

// EditTender snapshots the current state into the version ledger, applies the
// patch and increments the version, all in one transaction.
func (s *TenderService) EditTender(ctx context.Context, tenderID uuid.UUID, username string, patch TenderPatch) (*models.Tender, error) {
	user, err := s.store.GetEmployeeByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	tender, err := s.store.GetTender(ctx, tenderID)
	if err != nil {
		return nil, err
	}
	if err := s.requireResponsible(ctx, user.ID, tender.OrganizationID); err != nil {
		return nil, err
	}

	err = s.store.InTx(ctx, func(tx store.Store) error {
		if err := tx.SaveTenderVersion(ctx, tender); err != nil {
			return fmt.Errorf("snapshot tender: %w", err)
		}
		if patch.Name != nil {
			tender.Name = *patch.Name
		}
		if patch.Description != nil {
			tender.Description = *patch.Description
		}
		if patch.ServiceType != nil {
			tender.ServiceType = *patch.ServiceType
		}
		tender.Version++
		return tx.UpdateTender(ctx, tender)
	})
	if err != nil {
		return nil, err
	}
	return tender, nil
}

// RollbackTender restores the business fields of a past version onto the live
// tender. The rollback itself is a new version: the version number is
// incremented, never reset, and created_at is refreshed to now.
func (s *TenderService) RollbackTender(ctx context.Context, tenderID uuid.UUID, version int, username string) (*models.Tender, error) {
	user, err := s.store.GetEmployeeByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	tender, err := s.store.GetTender(ctx, tenderID)
	if err != nil {
		return nil, err
	}
	if tender.CreatorUsername != username {
		if err := s.requireResponsible(ctx, user.ID, tender.OrganizationID); err != nil {
			return nil, err
		}
	}

	target, err := s.store.GetTenderVersion(ctx, tenderID, version)
	if err != nil {
		return nil, err
	}

	err = s.store.InTx(ctx, func(tx store.Store) error {
		if err := tx.SaveTenderVersion(ctx, tender); err != nil {
			return fmt.Errorf("snapshot tender: %w", err)
		}
		tender.Name = target.Name
		tender.Description = target.Description
		tender.ServiceType = target.ServiceType
		tender.Status = target.Status
		tender.Version++
		tender.CreatedAt = time.Now().UTC()
		return tx.UpdateTender(ctx, tender)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"tenderId": tender.ID,
		"version":  version,
		"user":     username,
	}).Info("tender rolled back")
	return tender, nil
}

func (s *TenderService) requireResponsible(ctx context.Context, userID, organizationID uuid.UUID) error {
	ok, err := s.store.IsUserResponsible(ctx, userID, organizationID)
	if err != nil {
		return fmt.Errorf("check responsibility: %w", err)
	}
	if !ok {
		return apperrors.ErrUnauthorized
	}
	return nil
}
