package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yigit/vacantes/internal/app/models"
	"github.com/yigit/vacantes/internal/pkg/apperrors"
)

var errStoreUnavailable = errors.New("store unavailable")

// memStore is an in-memory stand-in for PostgreSQL. txMu serialises units
// of work, which is at least as strong as the row lock taken by LockByID.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	seq  int64
	base time.Time

	contacts     map[string]models.AccountRef
	students     map[int64]models.Student
	professors   map[int64]models.Professor
	institutions map[int64]models.Institution
	vacancies    map[int64]models.Vacancy
	applications map[int64]models.Application
	associations []models.Association
	messages     map[int64]models.Message

	failAssociations bool
}

func newMemStore() *memStore {
	return &memStore{
		base:         time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		contacts:     map[string]models.AccountRef{},
		students:     map[int64]models.Student{},
		professors:   map[int64]models.Professor{},
		institutions: map[int64]models.Institution{},
		vacancies:    map[int64]models.Vacancy{},
		applications: map[int64]models.Application{},
		messages:     map[int64]models.Message{},
	}
}

// next returns a fresh id and a strictly increasing timestamp. Caller holds mu.
func (m *memStore) next() (int64, time.Time) {
	m.seq++
	return m.seq, m.base.Add(time.Duration(m.seq) * time.Second)
}

func (m *memStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx)
}

func (m *memStore) setFailAssociations(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAssociations = fail
}

type memAccounts struct{ *memStore }

func (m memAccounts) GetStudent(_ context.Context, id int64) (*models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.students[id]
	if !ok {
		return nil, apperrors.ErrAccountNotFound
	}
	return &s, nil
}

func (m memAccounts) GetProfessor(_ context.Context, id int64) (*models.Professor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.professors[id]
	if !ok {
		return nil, apperrors.ErrAccountNotFound
	}
	return &p, nil
}

func (m memAccounts) GetInstitution(_ context.Context, id int64) (*models.Institution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.institutions[id]
	if !ok {
		return nil, apperrors.ErrAccountNotFound
	}
	return &i, nil
}

func (m memAccounts) Create(_ context.Context, acc *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(acc.Email()))
	if _, taken := m.contacts[email]; taken {
		return apperrors.ErrEmailAlreadyExists
	}

	id, now := m.next()
	switch acc.Kind {
	case models.RoleStudent:
		acc.Student.ID, acc.Student.CreatedAt, acc.Student.UpdatedAt = id, now, now
		m.students[id] = *acc.Student
	case models.RoleProfessor:
		acc.Professor.ID, acc.Professor.CreatedAt, acc.Professor.UpdatedAt = id, now, now
		m.professors[id] = *acc.Professor
	case models.RoleInstitution:
		acc.Institution.ID, acc.Institution.CreatedAt, acc.Institution.UpdatedAt = id, now, now
		m.institutions[id] = *acc.Institution
	}
	m.contacts[email] = acc.Ref()
	return nil
}

type memVacancies struct{ *memStore }

func (m memVacancies) Create(_ context.Context, v *models.Vacancy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v.ID, v.PublishedAt = m.next()
	v.UpdatedAt = v.PublishedAt
	m.vacancies[v.ID] = *v
	return nil
}

func (m memVacancies) Update(_ context.Context, v *models.Vacancy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vacancies[v.ID]; !ok {
		return apperrors.ErrVacancyNotFound
	}
	_, v.UpdatedAt = m.next()
	m.vacancies[v.ID] = *v
	return nil
}

func (m memVacancies) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vacancies[id]; !ok {
		return apperrors.ErrVacancyNotFound
	}
	delete(m.vacancies, id)
	for appID, a := range m.applications {
		if a.VacancyID != id {
			continue
		}
		delete(m.applications, appID)
		for msgID, msg := range m.messages {
			if msg.ApplicationID != nil && *msg.ApplicationID == appID {
				msg.ApplicationID = nil
				m.messages[msgID] = msg
			}
		}
	}
	return nil
}

func (m memVacancies) GetByID(_ context.Context, id int64) (*models.Vacancy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vacancies[id]
	if !ok {
		return nil, apperrors.ErrVacancyNotFound
	}
	return &v, nil
}

func (m memVacancies) LockByID(ctx context.Context, id int64) (*models.Vacancy, error) {
	return m.GetByID(ctx, id)
}

func (m memVacancies) ListByOwner(_ context.Context, owner models.AccountRef) ([]*models.Vacancy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Vacancy
	for _, v := range m.vacancies {
		if v.OwnedBy(owner) {
			v := v
			out = append(out, &v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m memVacancies) ListPublished(_ context.Context, page, size int) ([]*models.Vacancy, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*models.Vacancy, 0, len(m.vacancies))
	for _, v := range m.vacancies {
		v := v
		all = append(all, &v)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	start := (page - 1) * size
	if start >= len(all) {
		return []*models.Vacancy{}, int64(len(all)), nil
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

type memApplications struct{ *memStore }

func (m memApplications) Create(_ context.Context, a *models.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vacancies[a.VacancyID]; !ok {
		return apperrors.ErrVacancyNotFound
	}
	for _, existing := range m.applications {
		if existing.StudentID == a.StudentID && existing.VacancyID == a.VacancyID {
			return apperrors.ErrDuplicateApplication
		}
	}
	a.ID, a.CreatedAt = m.next()
	m.applications[a.ID] = *a
	return nil
}

func (m memApplications) GetByID(_ context.Context, id int64) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.applications[id]
	if !ok {
		return nil, apperrors.ErrApplicationNotFound
	}
	return &a, nil
}

func (m memApplications) Exists(_ context.Context, studentID, vacancyID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.applications {
		if a.StudentID == studentID && a.VacancyID == vacancyID {
			return true, nil
		}
	}
	return false, nil
}

func (m memApplications) countAccepted(vacancyID int64) int {
	n := 0
	for _, a := range m.applications {
		if a.VacancyID == vacancyID && a.State == models.ApplicationAccepted {
			n++
		}
	}
	return n
}

func (m memApplications) CountAccepted(_ context.Context, vacancyID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countAccepted(vacancyID), nil
}

func (m memApplications) CountAcceptedByVacancies(_ context.Context, vacancyIDs []int64) (map[int64]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[int64]int, len(vacancyIDs))
	for _, id := range vacancyIDs {
		if n := m.countAccepted(id); n > 0 {
			counts[id] = n
		}
	}
	return counts, nil
}

func (m memApplications) UpdateStateIfPending(_ context.Context, id int64, state models.ApplicationState, comment *string, respondedAt time.Time) (*models.Application, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.applications[id]
	if !ok || a.State != models.ApplicationPending {
		return nil, false, nil
	}
	a.State = state
	a.ResponseComment = comment
	a.RespondedAt = &respondedAt
	m.applications[id] = a
	return &a, true, nil
}

func (m memApplications) DeleteIfPending(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.applications[id]
	if !ok || a.State != models.ApplicationPending {
		return false, nil
	}
	delete(m.applications, id)
	return true, nil
}

func newestFirst(a, b models.Application) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID > b.ID
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func (m memApplications) filtered(keep func(models.Application) bool) []models.Application {
	var out []models.Application
	for _, a := range m.applications {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newestFirst(out[i], out[j]) })
	return out
}

func (m memApplications) ListByStudent(_ context.Context, studentID int64, state *models.ApplicationState) ([]*models.ApplicationWithVacancy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	apps := m.filtered(func(a models.Application) bool {
		return a.StudentID == studentID && (state == nil || a.State == *state)
	})
	out := make([]*models.ApplicationWithVacancy, 0, len(apps))
	for _, a := range apps {
		out = append(out, &models.ApplicationWithVacancy{Application: a, Vacancy: m.vacancies[a.VacancyID]})
	}
	return out, nil
}

func (m memApplications) ListByVacancy(_ context.Context, vacancyID int64, state *models.ApplicationState) ([]*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	apps := m.filtered(func(a models.Application) bool {
		return a.VacancyID == vacancyID && (state == nil || a.State == *state)
	})
	out := make([]*models.Application, 0, len(apps))
	for i := len(apps) - 1; i >= 0; i-- {
		a := apps[i]
		out = append(out, &a)
	}
	return out, nil
}

func (m memApplications) FindLatestBetween(_ context.Context, studentID int64, owner models.AccountRef) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	apps := m.filtered(func(a models.Application) bool {
		v, ok := m.vacancies[a.VacancyID]
		return ok && a.StudentID == studentID && v.OwnedBy(owner)
	})
	if len(apps) == 0 {
		return nil, nil
	}
	return &apps[0], nil
}

type memAssociations struct{ *memStore }

func (m memAssociations) insert(owner models.AccountRef, studentID, vacancyID int64) bool {
	for _, as := range m.associations {
		if as.Owner.Same(owner) && as.StudentID == studentID && as.VacancyID == vacancyID {
			return false
		}
	}
	id, now := m.next()
	m.associations = append(m.associations, models.Association{
		ID: id, Owner: owner, StudentID: studentID, VacancyID: vacancyID,
		Status: models.AssociationActive, CreatedAt: now,
	})
	return true
}

func (m memAssociations) InsertIfAbsent(_ context.Context, owner models.AccountRef, studentID, vacancyID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAssociations {
		return false, errStoreUnavailable
	}
	return m.insert(owner, studentID, vacancyID), nil
}

func (m memAssociations) ListByOwner(_ context.Context, owner models.AccountRef) ([]*models.Association, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Association
	for _, as := range m.associations {
		if as.Owner.Same(owner) {
			as := as
			out = append(out, &as)
		}
	}
	return out, nil
}

func (m memAssociations) BackfillForOwner(_ context.Context, owner models.AccountRef) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAssociations {
		return 0, errStoreUnavailable
	}
	var n int64
	for _, a := range m.applications {
		v, ok := m.vacancies[a.VacancyID]
		if !ok || !v.OwnedBy(owner) || a.State != models.ApplicationAccepted {
			continue
		}
		if m.insert(owner, a.StudentID, a.VacancyID) {
			n++
		}
	}
	return n, nil
}

type memMessages struct{ *memStore }

func (m memMessages) Create(_ context.Context, msg *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID, msg.CreatedAt = m.next()
	msg.Leido = false
	m.messages[msg.ID] = *msg
	return nil
}

func (m memMessages) GetByID(_ context.Context, id int64) (*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[id]
	if !ok {
		return nil, apperrors.ErrMessageNotFound
	}
	return &msg, nil
}

func (m memMessages) MarkReadIfUnread(_ context.Context, id int64, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[id]
	if !ok || msg.Leido {
		return false, nil
	}
	msg.Leido = true
	msg.ReadAt = &at
	m.messages[id] = msg
	return true, nil
}

func (m memMessages) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.messages[id]; !ok {
		return apperrors.ErrMessageNotFound
	}
	delete(m.messages, id)
	return nil
}

func (m memMessages) list(keep func(models.Message) bool) []*models.Message {
	var out []*models.Message
	for _, msg := range m.messages {
		if keep(msg) {
			msg := msg
			out = append(out, &msg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m memMessages) ListInbox(_ context.Context, recipient models.AccountRef, unreadOnly bool) ([]*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(func(msg models.Message) bool {
		return msg.Recipient.Same(recipient) && (!unreadOnly || !msg.Leido)
	}), nil
}

func (m memMessages) ListSent(_ context.Context, sender models.AccountRef) ([]*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(func(msg models.Message) bool { return msg.Sender.Same(sender) }), nil
}

func (m memMessages) CountUnread(_ context.Context, recipient models.AccountRef) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, msg := range m.messages {
		if msg.Recipient.Same(recipient) && !msg.Leido {
			n++
		}
	}
	return n, nil
}

// fixture wires every service against one memStore.
type fixture struct {
	store        *memStore
	directory    DirectoryService
	capacity     CapacityService
	vacancies    VacancyService
	applications ApplicationService
	ledger       AssociationService
	messages     MessageService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newMemStore()
	logger := zerolog.Nop()

	directory := NewDirectoryService(memAccounts{store}, store, logger)
	capacity := NewCapacityService(memVacancies{store}, memApplications{store})
	ledger := NewAssociationService(memAssociations{store}, logger)

	return &fixture{
		store:     store,
		directory: directory,
		capacity:  capacity,
		vacancies: NewVacancyService(memVacancies{store}, capacity, directory, store, logger),
		applications: NewApplicationService(
			memApplications{store}, memVacancies{store}, capacity, directory, ledger, store, logger,
		),
		ledger:   ledger,
		messages: NewMessageService(memMessages{store}, memApplications{store}, memVacancies{store}, directory, logger),
	}
}

func (f *fixture) student(t *testing.T, first string, withResume bool) models.AccountRef {
	t.Helper()
	st := &models.Student{FirstName: first, LastName: "Tester", Email: strings.ToLower(first) + "@alumnos.example"}
	if withResume {
		url := "https://files.example/" + strings.ToLower(first) + ".pdf"
		st.ResumeURL = &url
	}
	acc := models.NewStudentAccount(st)
	require.NoError(t, f.directory.Register(context.Background(), acc))
	return acc.Ref()
}

func (f *fixture) professor(t *testing.T, first string) models.AccountRef {
	t.Helper()
	acc := models.NewProfessorAccount(&models.Professor{
		FirstName: first, LastName: "Docente", Email: strings.ToLower(first) + "@faculty.example", Department: "CS",
	})
	require.NoError(t, f.directory.Register(context.Background(), acc))
	return acc.Ref()
}

func (f *fixture) institution(t *testing.T, name string) models.AccountRef {
	t.Helper()
	acc := models.NewInstitutionAccount(&models.Institution{
		LegalName: name, Email: strings.ToLower(strings.ReplaceAll(name, " ", "")) + "@org.example", Sector: "Tech",
	})
	require.NoError(t, f.directory.Register(context.Background(), acc))
	return acc.Ref()
}

func (f *fixture) vacancy(t *testing.T, owner models.AccountRef, capacity *int) int64 {
	t.Helper()
	view, err := f.vacancies.Create(context.Background(), owner, VacancyInput{Title: "Research assistant", Capacity: capacity})
	require.NoError(t, err)
	return view.ID
}

func (f *fixture) apply(t *testing.T, student models.AccountRef, vacancyID int64) *models.Application {
	t.Helper()
	app, err := f.applications.Create(context.Background(), student.ID, vacancyID)
	require.NoError(t, err)
	return app
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

func int64Ptr(n int64) *int64 { return &n }
