package store

import (
	"context"

	"gorm.io/gorm"

	"roomshare-backend/internal/model"
)

// ApprovalStore is the data access interface for the approval ledger.
type ApprovalStore interface {
	Create(ctx context.Context, approval *model.ReservationApproval) error
	// GetByReservation loads the ledger with its votes ordered by approval
	// time. Returns gorm.ErrRecordNotFound when no ledger exists.
	GetByReservation(ctx context.Context, reservationID string) (*model.ReservationApproval, error)
	// AddVote appends a vote under an optimistic version check. Returns
	// ErrOptimisticLock if the ledger changed since it was read.
	AddVote(ctx context.Context, approval *model.ReservationApproval, vote *model.ApprovalVote) error
	MarkFullyApproved(ctx context.Context, id string) error
	DeleteByReservation(ctx context.Context, reservationID string) error
	DeleteForReservations(ctx context.Context, reservationIDs []string) error
}

type approvalStore struct {
	db *gorm.DB
}

func (a *approvalStore) Create(ctx context.Context, approval *model.ReservationApproval) error {
	return a.db.WithContext(ctx).Create(approval).Error
}

func (a *approvalStore) GetByReservation(ctx context.Context, reservationID string) (*model.ReservationApproval, error) {
	var approval model.ReservationApproval
	err := a.db.WithContext(ctx).
		Preload("ApprovedBy", func(db *gorm.DB) *gorm.DB {
			return db.Order("approved_at ASC")
		}).
		First(&approval, "reservation_id = ?", reservationID).Error
	if err != nil {
		return nil, err
	}
	return &approval, nil
}

func (a *approvalStore) AddVote(ctx context.Context, approval *model.ReservationApproval, vote *model.ApprovalVote) error {
	oldVersion := approval.Version
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.ReservationApproval{}).
			Where("id = ? AND version = ?", approval.ID, oldVersion).
			Update("version", oldVersion+1)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrOptimisticLock
		}
		return tx.Create(vote).Error
	})
	if err != nil {
		return err
	}
	approval.Version = oldVersion + 1
	approval.ApprovedBy = append(approval.ApprovedBy, *vote)
	return nil
}

func (a *approvalStore) MarkFullyApproved(ctx context.Context, id string) error {
	return a.db.WithContext(ctx).
		Model(&model.ReservationApproval{}).
		Where("id = ?", id).
		Update("is_fully_approved", true).Error
}

func (a *approvalStore) DeleteByReservation(ctx context.Context, reservationID string) error {
	return a.deleteWithVotes(ctx, []string{reservationID})
}

func (a *approvalStore) DeleteForReservations(ctx context.Context, reservationIDs []string) error {
	if len(reservationIDs) == 0 {
		return nil
	}
	return a.deleteWithVotes(ctx, reservationIDs)
}

func (a *approvalStore) deleteWithVotes(ctx context.Context, reservationIDs []string) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var approvalIDs []string
		if err := tx.Model(&model.ReservationApproval{}).
			Where("reservation_id IN ?", reservationIDs).
			Pluck("id", &approvalIDs).Error; err != nil {
			return err
		}
		if len(approvalIDs) == 0 {
			return nil
		}
		if err := tx.Delete(&model.ApprovalVote{}, "approval_id IN ?", approvalIDs).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ReservationApproval{}, "id IN ?", approvalIDs).Error
	})
}
