package services

import (
	"context"
	"testing"

	"github.com/glucolog/glucolog/internal/cache"
	"github.com/glucolog/glucolog/internal/domain"
	apperrors "github.com/glucolog/glucolog/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entryFixture struct {
	svc      *EntryService
	entries  *fakeEntryRepo
	users    *fakeUserRepo
	notifier *recordingNotifier
}

func newEntryFixture(t *testing.T) *entryFixture {
	t.Helper()
	entries := newFakeEntryRepo()
	users := newFakeUserRepo()
	users.users[1] = domain.User{ID: 1, Name: "Tester", TelegramChatID: 42}
	presets := newFakePresetRepo()
	require.NoError(t, presets.CreatePreset(context.Background(), &domain.InsulinPreset{
		UserID: 1, Name: "Rapid", SortOrder: 0, Morning: fptr(4),
	}))
	c := cache.NewMemoryCache()
	suggestions := NewSuggestionService(newFakeRuleRepo(), entries, presets, newFakeBasalRepo(), c)
	n := &recordingNotifier{}
	return &entryFixture{
		svc:      NewEntryService(entries, users, suggestions, c, n),
		entries:  entries,
		users:    users,
		notifier: n,
	}
}

func validEntryInput() domain.EntryInput {
	return domain.EntryInput{
		Date:         testDay,
		Slot:         domain.AfterBreakfast,
		GlucoseLevel: 152,
	}
}

func TestAddEntryReturnsSuggestionAndNotifies(t *testing.T) {
	f := newEntryFixture(t)

	entry, suggestion, err := f.svc.Add(context.Background(), 1, validEntryInput())
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.NotZero(t, entry.ID)

	require.NotNil(t, suggestion)
	assert.Equal(t, 4.0, suggestion.Primary.BaseDose)
	assert.Equal(t, domain.SlotMorning, suggestion.Primary.TargetSlot)

	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, suggestion.Primary, f.notifier.calls[0])
}

func TestAddEntryRejectsInvalidInput(t *testing.T) {
	f := newEntryFixture(t)
	ctx := context.Background()

	in := validEntryInput()
	in.GlucoseLevel = 19
	_, _, err := f.svc.Add(ctx, 1, in)
	require.Error(t, err)
	assert.Equal(t, "glucoseLevel", apperrors.Field(err))

	in = validEntryInput()
	in.GlucoseLevel = 601
	_, _, err = f.svc.Add(ctx, 1, in)
	require.Error(t, err)

	in = validEntryInput()
	in.Slot = "brunch"
	_, _, err = f.svc.Add(ctx, 1, in)
	require.Error(t, err)
	assert.Equal(t, "timeSlot", apperrors.Field(err))

	in = validEntryInput()
	in.Date = domain.Date{}
	_, _, err = f.svc.Add(ctx, 1, in)
	require.Error(t, err)
	assert.Equal(t, "date", apperrors.Field(err))

	bad := -1.0
	in = validEntryInput()
	in.InsulinTaken = &bad
	_, _, err = f.svc.Add(ctx, 1, in)
	require.Error(t, err)
	assert.Equal(t, "insulinTaken", apperrors.Field(err))
}

func TestAddEntryRejectsDuplicateSlot(t *testing.T) {
	f := newEntryFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.Add(ctx, 1, validEntryInput())
	require.NoError(t, err)

	_, _, err = f.svc.Add(ctx, 1, validEntryInput())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestUpdateAndDeleteEntry(t *testing.T) {
	f := newEntryFixture(t)
	ctx := context.Background()

	entry, _, err := f.svc.Add(ctx, 1, validEntryInput())
	require.NoError(t, err)

	in := validEntryInput()
	in.GlucoseLevel = 120
	in.Note = "after a walk"
	updated, err := f.svc.Update(ctx, 1, entry.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 120, updated.GlucoseLevel)
	assert.Equal(t, "after a walk", updated.Note)

	_, err = f.svc.Update(ctx, 2, entry.ID, in)
	assert.ErrorIs(t, err, apperrors.ErrEntryNotFound)

	require.NoError(t, f.svc.Delete(ctx, 1, entry.ID))
	assert.ErrorIs(t, f.svc.Delete(ctx, 1, entry.ID), apperrors.ErrEntryNotFound)
}

func TestListEntriesFiltersByRange(t *testing.T) {
	f := newEntryFixture(t)
	ctx := context.Background()

	days := []domain.Date{testDay.AddDays(-2), testDay.AddDays(-1), testDay}
	for _, d := range days {
		in := validEntryInput()
		in.Date = d
		_, _, err := f.svc.Add(ctx, 1, in)
		require.NoError(t, err)
	}

	got, err := f.svc.List(ctx, 1, testDay.AddDays(-1), testDay)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = f.svc.List(ctx, 1, domain.Date{}, domain.Date{})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}
