package services

import (
	"context"

	"github.com/glucolog/glucolog/internal/cache"
	"github.com/glucolog/glucolog/internal/domain"
	apperrors "github.com/glucolog/glucolog/internal/errors"
	"github.com/glucolog/glucolog/internal/logger"
	"github.com/glucolog/glucolog/internal/notifier"
)

// EntryService handles glucose-entry CRUD. Adding an entry also runs
// the suggestion engine so the caller can pre-fill the dose field, and
// pushes the result to the user's notification channel when one is
// linked.
type EntryService struct {
	entries     domain.EntryRepository
	users       domain.UserRepository
	suggestions domain.SuggestionService
	cache       cache.SuggestionCache
	notify      notifier.Notifier
}

func NewEntryService(
	entries domain.EntryRepository,
	users domain.UserRepository,
	suggestions domain.SuggestionService,
	c cache.SuggestionCache,
	n notifier.Notifier,
) *EntryService {
	return &EntryService{entries: entries, users: users, suggestions: suggestions, cache: c, notify: n}
}

func validateEntryInput(in domain.EntryInput) error {
	if in.Date.IsZero() {
		return apperrors.NewFieldValidationError("date", "date is required")
	}
	if !in.Slot.Valid() {
		return apperrors.NewFieldValidationError("timeSlot", "unknown measurement slot")
	}
	if err := validate.Var(in.GlucoseLevel, "min=20,max=600"); err != nil {
		return apperrors.NewFieldValidationError("glucoseLevel", "glucose level must be between 20 and 600 mg/dL")
	}
	if in.InsulinTaken != nil && *in.InsulinTaken < 0 {
		return apperrors.NewFieldValidationError("insulinTaken", "insulin units must not be negative")
	}
	return nil
}

func (s *EntryService) Add(ctx context.Context, userID uint, in domain.EntryInput) (*domain.GlucoseEntry, *domain.Suggestion, error) {
	if err := validateEntryInput(in); err != nil {
		return nil, nil, err
	}
	// One entry per (date, slot): a resubmission replaces the reading.
	if existing, err := s.entries.GetEntry(ctx, userID, in.Date, in.Slot); err != nil {
		return nil, nil, err
	} else if existing != nil {
		return nil, nil, apperrors.NewFieldValidationError("timeSlot", "an entry already exists for this date and slot")
	}

	entry := &domain.GlucoseEntry{
		UserID:       userID,
		Date:         in.Date,
		Slot:         in.Slot,
		GlucoseLevel: in.GlucoseLevel,
		Note:         in.Note,
		InsulinTaken: in.InsulinTaken,
	}
	if err := s.entries.CreateEntry(ctx, entry); err != nil {
		return nil, nil, err
	}
	s.cache.InvalidateUser(ctx, userID)

	suggestion, err := s.suggestions.Suggest(ctx, userID, entry.Date, entry.Slot, entry.GlucoseLevel)
	if err != nil {
		// The entry is saved; a failed suggestion degrades the
		// response, it does not roll back the write.
		logger.Warn("dose suggestion failed after entry creation",
			"user_id", userID, "entry_id", entry.ID, "error", err)
		return entry, nil, nil
	}

	if user, err := s.users.GetUserByID(ctx, userID); err == nil {
		s.notify.SuggestionLogged(ctx, user, entry, suggestion.Primary)
	}

	return entry, suggestion, nil
}

func (s *EntryService) List(ctx context.Context, userID uint, from, to domain.Date) ([]domain.GlucoseEntry, error) {
	return s.entries.ListEntries(ctx, userID, from, to)
}

func (s *EntryService) Update(ctx context.Context, userID, id uint, in domain.EntryInput) (*domain.GlucoseEntry, error) {
	if err := validateEntryInput(in); err != nil {
		return nil, err
	}
	entry, err := s.entries.GetEntryByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	entry.Date = in.Date
	entry.Slot = in.Slot
	entry.GlucoseLevel = in.GlucoseLevel
	entry.Note = in.Note
	entry.InsulinTaken = in.InsulinTaken
	if err := s.entries.UpdateEntry(ctx, entry); err != nil {
		return nil, err
	}
	s.cache.InvalidateUser(ctx, userID)
	return entry, nil
}

func (s *EntryService) Delete(ctx context.Context, userID, id uint) error {
	if err := s.entries.DeleteEntry(ctx, userID, id); err != nil {
		return err
	}
	s.cache.InvalidateUser(ctx, userID)
	return nil
}
