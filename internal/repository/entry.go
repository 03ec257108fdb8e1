package repository

import (
	"context"
	"errors"

	"github.com/glucolog/glucolog/internal/database"
	"github.com/glucolog/glucolog/internal/domain"
	apperrors "github.com/glucolog/glucolog/internal/errors"
	"gorm.io/gorm"
)

// EntryRepository handles glucose-entry persistence.
type EntryRepository struct {
	db *gorm.DB
}

func NewEntryRepository(db *gorm.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

func entryToDomain(row database.GlucoseEntry) domain.GlucoseEntry {
	slot, err := domain.ParseMeasurementSlot(row.Slot)
	if err != nil {
		slot = domain.MeasurementSlot(row.Slot)
	}
	return domain.GlucoseEntry{
		ID:           row.ID,
		UserID:       row.UserID,
		Date:         domain.DateOf(row.Date),
		Slot:         slot,
		GlucoseLevel: row.GlucoseLevel,
		Note:         row.Note,
		InsulinTaken: row.InsulinTaken,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

// GetEntry returns the measurement for (user, date, slot). Duplicate
// rows should not exist, but when they do the most recently created one
// wins.
func (r *EntryRepository) GetEntry(ctx context.Context, userID uint, date domain.Date, slot domain.MeasurementSlot) (*domain.GlucoseEntry, error) {
	var row database.GlucoseEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ? AND slot = ?", userID, date.Time(), string(slot)).
		Order("created_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	entry := entryToDomain(row)
	return &entry, nil
}

func (r *EntryRepository) GetEntryByID(ctx context.Context, userID, id uint) (*domain.GlucoseEntry, error) {
	var row database.GlucoseEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrEntryNotFound
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	entry := entryToDomain(row)
	return &entry, nil
}

func (r *EntryRepository) ListEntries(ctx context.Context, userID uint, from, to domain.Date) ([]domain.GlucoseEntry, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if !from.IsZero() {
		q = q.Where("date >= ?", from.Time())
	}
	if !to.IsZero() {
		q = q.Where("date <= ?", to.Time())
	}
	var rows []database.GlucoseEntry
	if err := q.Order("date DESC, created_at DESC").Find(&rows).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	entries := make([]domain.GlucoseEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, entryToDomain(row))
	}
	return entries, nil
}

func (r *EntryRepository) CreateEntry(ctx context.Context, entry *domain.GlucoseEntry) error {
	row := database.GlucoseEntry{
		UserID:       entry.UserID,
		Date:         entry.Date.Time(),
		Slot:         string(entry.Slot),
		GlucoseLevel: entry.GlucoseLevel,
		Note:         entry.Note,
		InsulinTaken: entry.InsulinTaken,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return apperrors.NewDatabaseError(err)
	}
	entry.ID = row.ID
	entry.CreatedAt = row.CreatedAt
	entry.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *EntryRepository) UpdateEntry(ctx context.Context, entry *domain.GlucoseEntry) error {
	result := r.db.WithContext(ctx).
		Model(&database.GlucoseEntry{}).
		Where("user_id = ? AND id = ?", entry.UserID, entry.ID).
		Updates(map[string]interface{}{
			"date":          entry.Date.Time(),
			"slot":          string(entry.Slot),
			"glucose_level": entry.GlucoseLevel,
			"note":          entry.Note,
			"insulin_taken": entry.InsulinTaken,
		})
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrEntryNotFound
	}
	return nil
}

func (r *EntryRepository) DeleteEntry(ctx context.Context, userID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&database.GlucoseEntry{})
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrEntryNotFound
	}
	return nil
}
