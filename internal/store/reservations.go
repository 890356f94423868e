package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"roomshare-backend/internal/model"
)

// ReservationStore is the data access interface for reservation slots.
//
// Weekly and dated slots share one table; rows are discriminated by
// specific_date being NULL (weekly) or set (dated).
type ReservationStore interface {
	Create(ctx context.Context, slot *model.ReservationSlot) error
	GetByID(ctx context.Context, id string) (*model.ReservationSlot, error)
	UpdateStatus(ctx context.Context, id string, status model.SlotStatus) error
	Delete(ctx context.Context, id string) error

	// HasApprovedOverlapWeekly reports whether an approved weekly slot in the
	// same (room, category, dayOfWeek, weekStart) slice overlaps
	// [startHour, endHour). excludeID, when non-empty, is left out of the
	// check.
	HasApprovedOverlapWeekly(ctx context.Context, roomID, categoryID string, dayOfWeek int, weekStart time.Time, startHour, endHour int, excludeID string) (bool, error)
	// HasApprovedOverlapDated is the dated-slot counterpart keyed on
	// (room, category, specificDate).
	HasApprovedOverlapDated(ctx context.Context, roomID, categoryID string, date time.Time, startHour, endHour int, excludeID string) (bool, error)
	// ExistsIdenticalWeekly reports whether a weekly row identical to slot
	// already exists at weekStart. Used for idempotent materialization.
	ExistsIdenticalWeekly(ctx context.Context, slot *model.ReservationSlot, weekStart time.Time) (bool, error)

	ListApprovedWeekly(ctx context.Context, roomID string, weekStart *time.Time, categoryID string) ([]model.ReservationSlot, error)
	ListDated(ctx context.Context, roomID string) ([]model.ReservationSlot, error)
	ListPendingDated(ctx context.Context, roomID string) ([]model.ReservationSlot, error)
	ListRecurringForWeek(ctx context.Context, weekStart time.Time) ([]model.ReservationSlot, error)

	// DeleteRecurringFrom removes the recurring slot and every future
	// materialized instance of the same logical booking, never past ones.
	DeleteRecurringFrom(ctx context.Context, slot *model.ReservationSlot) (int64, error)

	// ListExpiredIDs returns ids of weekly slots before currentWeekStart and
	// dated slots strictly before datedCutoff.
	ListExpiredIDs(ctx context.Context, currentWeekStart, datedCutoff time.Time) ([]string, error)
	DeleteByIDs(ctx context.Context, ids []string) error
}

type reservationStore struct {
	db *gorm.DB
}

func (r *reservationStore) Create(ctx context.Context, slot *model.ReservationSlot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *reservationStore) GetByID(ctx context.Context, id string) (*model.ReservationSlot, error) {
	var slot model.ReservationSlot
	err := r.db.WithContext(ctx).
		Preload("Category").
		First(&slot, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *reservationStore) UpdateStatus(ctx context.Context, id string, status model.SlotStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.ReservationSlot{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *reservationStore) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.ReservationSlot{}, "id = ?", id).Error
}

func (r *reservationStore) HasApprovedOverlapWeekly(ctx context.Context, roomID, categoryID string, dayOfWeek int, weekStart time.Time, startHour, endHour int, excludeID string) (bool, error) {
	q := r.db.WithContext(ctx).
		Model(&model.ReservationSlot{}).
		Where("room_id = ? AND category_id = ? AND day_of_week = ? AND week_start_date = ?", roomID, categoryID, dayOfWeek, weekStart).
		Where("specific_date IS NULL").
		Where("status = ?", model.SlotApproved).
		Where("start_hour < ? AND end_hour > ?", endHour, startHour)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *reservationStore) HasApprovedOverlapDated(ctx context.Context, roomID, categoryID string, date time.Time, startHour, endHour int, excludeID string) (bool, error) {
	q := r.db.WithContext(ctx).
		Model(&model.ReservationSlot{}).
		Where("room_id = ? AND category_id = ? AND specific_date = ?", roomID, categoryID, date).
		Where("status = ?", model.SlotApproved).
		Where("start_hour < ? AND end_hour > ?", endHour, startHour)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *reservationStore) ExistsIdenticalWeekly(ctx context.Context, slot *model.ReservationSlot, weekStart time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ReservationSlot{}).
		Where("room_id = ? AND category_id = ? AND reserved_by = ?", slot.RoomID, slot.CategoryID, slot.ReservedBy).
		Where("day_of_week = ? AND week_start_date = ?", slot.DayOfWeek, weekStart).
		Where("start_hour = ? AND end_hour = ?", slot.StartHour, slot.EndHour).
		Where("specific_date IS NULL").
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *reservationStore) ListApprovedWeekly(ctx context.Context, roomID string, weekStart *time.Time, categoryID string) ([]model.ReservationSlot, error) {
	q := r.db.WithContext(ctx).
		Preload("Category").
		Where("room_id = ? AND status = ?", roomID, model.SlotApproved).
		Where("specific_date IS NULL")
	if weekStart != nil {
		q = q.Where("week_start_date = ?", *weekStart)
	}
	if categoryID != "" {
		q = q.Where("category_id = ?", categoryID)
	}
	var slots []model.ReservationSlot
	err := q.Order("day_of_week ASC, start_hour ASC").Find(&slots).Error
	return slots, err
}

func (r *reservationStore) ListDated(ctx context.Context, roomID string) ([]model.ReservationSlot, error) {
	var slots []model.ReservationSlot
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("room_id = ?", roomID).
		Where("specific_date IS NOT NULL").
		Order("specific_date ASC, start_hour ASC").
		Find(&slots).Error
	return slots, err
}

func (r *reservationStore) ListPendingDated(ctx context.Context, roomID string) ([]model.ReservationSlot, error) {
	var slots []model.ReservationSlot
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("room_id = ? AND status = ?", roomID, model.SlotPending).
		Where("specific_date IS NOT NULL").
		Order("created_at DESC").
		Find(&slots).Error
	return slots, err
}

func (r *reservationStore) ListRecurringForWeek(ctx context.Context, weekStart time.Time) ([]model.ReservationSlot, error) {
	var slots []model.ReservationSlot
	err := r.db.WithContext(ctx).
		Where("week_start_date = ? AND is_recurring = ? AND status = ?", weekStart, true, model.SlotApproved).
		Where("specific_date IS NULL").
		Find(&slots).Error
	return slots, err
}

func (r *reservationStore) DeleteRecurringFrom(ctx context.Context, slot *model.ReservationSlot) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("room_id = ? AND category_id = ? AND reserved_by = ?", slot.RoomID, slot.CategoryID, slot.ReservedBy).
		Where("day_of_week = ? AND start_hour = ? AND end_hour = ?", slot.DayOfWeek, slot.StartHour, slot.EndHour).
		Where("week_start_date >= ?", slot.WeekStartDate).
		Where("is_recurring = ?", true).
		Delete(&model.ReservationSlot{})
	return result.RowsAffected, result.Error
}

func (r *reservationStore) ListExpiredIDs(ctx context.Context, currentWeekStart, datedCutoff time.Time) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.ReservationSlot{}).
		Where(
			r.db.Where("specific_date IS NULL AND week_start_date < ?", currentWeekStart).
				Or("specific_date IS NOT NULL AND specific_date < ?", datedCutoff),
		).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *reservationStore) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&model.ReservationSlot{}, "id IN ?", ids).Error
}
