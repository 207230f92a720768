package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/vacantes/internal/app/models"
	"github.com/yigit/vacantes/internal/pkg/apperrors"
)

func TestApplicationService_SingleSeatScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.professor(t, "Marta")
	s1 := f.student(t, "Ana", true)
	s2 := f.student(t, "Luis", true)
	vacancyID := f.vacancy(t, owner, intPtr(1))

	a1 := f.apply(t, s1, vacancyID)
	a2 := f.apply(t, s2, vacancyID)
	assert.Equal(t, models.ApplicationPending, a1.State)
	assert.Equal(t, models.ApplicationPending, a2.State)

	accepted, err := f.applications.Accept(ctx, vacancyID, a1.ID, owner, strPtr("welcome"))
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationAccepted, accepted.State)
	require.NotNil(t, accepted.RespondedAt)
	assert.Equal(t, "welcome", *accepted.ResponseComment)

	_, err = f.applications.Accept(ctx, vacancyID, a2.ID, owner, nil)
	assert.ErrorIs(t, err, apperrors.ErrNoSeatsAvailable)

	rejected, err := f.applications.Reject(ctx, vacancyID, a2.ID, owner, nil)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationRejected, rejected.State)
	assert.NotNil(t, rejected.RespondedAt)

	roster, err := f.ledger.Roster(ctx, owner)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, s1.ID, roster[0].StudentID)
	assert.Equal(t, vacancyID, roster[0].VacancyID)
	assert.Equal(t, models.AssociationActive, roster[0].Status)

	seats, err := f.capacity.AvailableSeats(ctx, vacancyID)
	require.NoError(t, err)
	assert.Equal(t, 0, seats)
}

func TestApplicationService_CancelThenReapply(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.institution(t, "Acme Labs")
	st := f.student(t, "Ana", true)
	vacancyID := f.vacancy(t, owner, nil)

	first := f.apply(t, st, vacancyID)

	_, err := f.applications.Create(ctx, st.ID, vacancyID)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateApplication)

	require.NoError(t, f.applications.Cancel(ctx, first.ID, st.ID))

	_, err = f.applications.Get(ctx, first.ID, st)
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)

	second, err := f.applications.Create(ctx, st.ID, vacancyID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, models.ApplicationPending, second.State)
}

func TestApplicationService_CreatePreconditions(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown vacancy", func(t *testing.T) {
		f := newFixture(t)
		st := f.student(t, "Ana", true)

		_, err := f.applications.Create(ctx, st.ID, 999)
		assert.ErrorIs(t, err, apperrors.ErrVacancyNotFound)
		assert.Equal(t, apperrors.KindVacancyNotFound, apperrors.KindOf(err))
	})

	t.Run("duplicate is reported before the resume check", func(t *testing.T) {
		f := newFixture(t)
		owner := f.professor(t, "Marta")
		st := f.student(t, "Pablo", false)
		vacancyID := f.vacancy(t, owner, intPtr(3))
		require.NoError(t, memApplications{f.store}.Create(ctx, &models.Application{
			StudentID: st.ID, VacancyID: vacancyID, State: models.ApplicationRejected,
		}))

		_, err := f.applications.Create(ctx, st.ID, vacancyID)
		assert.ErrorIs(t, err, apperrors.ErrDuplicateApplication)
	})

	t.Run("resume required", func(t *testing.T) {
		f := newFixture(t)
		owner := f.professor(t, "Marta")
		st := f.student(t, "Pablo", false)
		vacancyID := f.vacancy(t, owner, nil)

		_, err := f.applications.Create(ctx, st.ID, vacancyID)
		assert.ErrorIs(t, err, apperrors.ErrMissingPrerequisite)
	})

	t.Run("zero capacity", func(t *testing.T) {
		f := newFixture(t)
		owner := f.professor(t, "Marta")
		st := f.student(t, "Ana", true)
		vacancyID := f.vacancy(t, owner, intPtr(0))

		_, err := f.applications.Create(ctx, st.ID, vacancyID)
		assert.ErrorIs(t, err, apperrors.ErrNoSeatsAvailable)
	})

	t.Run("full vacancy", func(t *testing.T) {
		f := newFixture(t)
		owner := f.professor(t, "Marta")
		s1 := f.student(t, "Ana", true)
		s2 := f.student(t, "Luis", true)
		vacancyID := f.vacancy(t, owner, nil)

		a1 := f.apply(t, s1, vacancyID)
		_, err := f.applications.Accept(ctx, vacancyID, a1.ID, owner, nil)
		require.NoError(t, err)

		_, err = f.applications.Create(ctx, s2.ID, vacancyID)
		assert.ErrorIs(t, err, apperrors.ErrNoSeatsAvailable)
	})

	t.Run("unknown student", func(t *testing.T) {
		f := newFixture(t)
		owner := f.professor(t, "Marta")
		vacancyID := f.vacancy(t, owner, nil)

		_, err := f.applications.Create(ctx, 4242, vacancyID)
		assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)
	})
}

func TestApplicationService_TerminalStatesNeverTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.professor(t, "Marta")
	s1 := f.student(t, "Ana", true)
	s2 := f.student(t, "Luis", true)
	vacancyID := f.vacancy(t, owner, intPtr(5))

	accepted := f.apply(t, s1, vacancyID)
	rejected := f.apply(t, s2, vacancyID)

	_, err := f.applications.Accept(ctx, vacancyID, accepted.ID, owner, nil)
	require.NoError(t, err)
	_, err = f.applications.Reject(ctx, vacancyID, rejected.ID, owner, nil)
	require.NoError(t, err)

	for _, app := range []struct {
		id      int64
		student models.AccountRef
	}{{accepted.ID, s1}, {rejected.ID, s2}} {
		_, err = f.applications.Accept(ctx, vacancyID, app.id, owner, nil)
		assert.ErrorIs(t, err, apperrors.ErrInvalidStateTransition)

		_, err = f.applications.Reject(ctx, vacancyID, app.id, owner, nil)
		assert.ErrorIs(t, err, apperrors.ErrInvalidStateTransition)

		err = f.applications.Cancel(ctx, app.id, app.student.ID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidStateTransition)
	}
}

func TestApplicationService_OwnershipChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.professor(t, "Marta")
	other := f.institution(t, "Other Org")
	s1 := f.student(t, "Ana", true)
	s2 := f.student(t, "Luis", true)
	vacancyID := f.vacancy(t, owner, intPtr(2))
	otherVacancyID := f.vacancy(t, owner, intPtr(2))

	app := f.apply(t, s1, vacancyID)

	_, err := f.applications.Accept(ctx, vacancyID, app.ID, other, nil)
	assert.ErrorIs(t, err, apperrors.ErrNotOwner)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = f.applications.Reject(ctx, vacancyID, app.ID, other, nil)
	assert.ErrorIs(t, err, apperrors.ErrNotOwner)

	_, err = f.applications.Accept(ctx, otherVacancyID, app.ID, owner, nil)
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)

	err = f.applications.Cancel(ctx, app.ID, s2.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotOwner)

	_, err = f.applications.ListForVacancy(ctx, vacancyID, other, nil)
	assert.ErrorIs(t, err, apperrors.ErrNotOwner)

	fetched, err := f.applications.Get(ctx, app.ID, s1)
	require.NoError(t, err)
	assert.Equal(t, app.ID, fetched.ID)

	_, err = f.applications.Get(ctx, app.ID, owner)
	require.NoError(t, err)

	_, err = f.applications.Get(ctx, app.ID, s2)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	_, err = f.applications.Get(ctx, app.ID, other)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestApplicationService_ConcurrentAcceptsNeverOverbook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const capacity = 3
	const applicants = 12

	owner := f.professor(t, "Marta")
	vacancyID := f.vacancy(t, owner, intPtr(capacity))

	ids := make([]int64, 0, applicants)
	for i := 0; i < applicants; i++ {
		st := f.student(t, fmt.Sprintf("Student%02d", i), true)
		ids = append(ids, f.apply(t, st, vacancyID).ID)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		refused int
		other   []error
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := f.applications.Accept(ctx, vacancyID, id, owner, nil)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, apperrors.ErrNoSeatsAvailable):
				refused++
			default:
				other = append(other, err)
			}
		}(id)
	}
	wg.Wait()

	assert.Empty(t, other)
	assert.Equal(t, capacity, ok)
	assert.Equal(t, applicants-capacity, refused)

	accepted := models.ApplicationAccepted
	list, err := f.applications.ListForVacancy(ctx, vacancyID, owner, &accepted)
	require.NoError(t, err)
	assert.Len(t, list, capacity)

	roster, err := f.ledger.Roster(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, roster, capacity)
}

func TestApplicationService_ListMine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.professor(t, "Marta")
	st := f.student(t, "Ana", true)
	rival := f.student(t, "Luis", true)

	older := f.vacancy(t, owner, intPtr(2))
	newer := f.vacancy(t, owner, intPtr(1))

	rivalApp := f.apply(t, rival, older)
	_, err := f.applications.Accept(ctx, older, rivalApp.ID, owner, nil)
	require.NoError(t, err)

	first := f.apply(t, st, older)
	second := f.apply(t, st, newer)

	mine, err := f.applications.ListMine(ctx, st.ID, nil)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)
	assert.Equal(t, 1, mine[0].AvailableSeats)
	assert.Equal(t, 1, mine[1].AvailableSeats)
	assert.Equal(t, older, mine[1].Vacancy.ID)

	_, err = f.applications.Reject(ctx, newer, second.ID, owner, nil)
	require.NoError(t, err)

	rejected := models.ApplicationRejected
	filtered, err := f.applications.ListMine(ctx, st.ID, &rejected)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, second.ID, filtered[0].ID)
}

func TestApplicationService_LedgerFailureIsRepairedByReconcile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.institution(t, "Acme Labs")
	st := f.student(t, "Ana", true)
	vacancyID := f.vacancy(t, owner, intPtr(2))
	app := f.apply(t, st, vacancyID)

	f.store.setFailAssociations(true)
	accepted, err := f.applications.Accept(ctx, vacancyID, app.ID, owner, nil)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationAccepted, accepted.State)

	f.store.setFailAssociations(false)
	roster, err := f.ledger.Roster(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, roster)

	appended, err := f.ledger.Reconcile(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), appended)

	appended, err = f.ledger.Reconcile(ctx, owner)
	require.NoError(t, err)
	assert.Zero(t, appended)

	roster, err = f.ledger.Roster(ctx, owner)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, st.ID, roster[0].StudentID)
}
