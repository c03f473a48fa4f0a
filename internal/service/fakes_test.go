package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/ai"
	"github.com/spec-kit/helpdesk-service/internal/cache"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// fixture wires the services against in-memory repositories seeded with
// a minimal catalog and two users: requester (id 1) and an admin
// specialist for category 1 (id 2).
type fixture struct {
	users      *fakeUserRepo
	tickets    *fakeTicketRepo
	categories *fakeCategoryRepo
	priorities *fakePriorityRepo
	statuses   *fakeStatusRepo
	dispatcher events.Dispatcher

	ticketSvc  *TicketService
	catalogSvc *CatalogService
}

func newFixture() *fixture {
	catDesc := "Problemas com equipamentos"
	f := &fixture{
		users: &fakeUserRepo{byID: map[int64]*domain.User{
			1: {ID: 1, FullName: "Ana Souza", Email: "ana@faculdade.edu", Role: domain.RoleStudent, Active: true},
			2: {ID: 2, FullName: "Bruno Lima", Email: "bruno@faculdade.edu", Role: domain.RoleAdmin, Active: true, SpecialtyCategoryID: int64Ptr(1)},
		}},
		categories: &fakeCategoryRepo{items: []domain.Category{
			{ID: 1, Name: "Hardware", Description: &catDesc, Active: true},
			{ID: 2, Name: "Software", Active: true},
			{ID: 3, Name: "Legado", Active: false},
		}},
		priorities: &fakePriorityRepo{items: []domain.Priority{
			{ID: 1, Name: "Baixa", Level: 1, Active: true},
			{ID: 2, Name: "Média", Level: 2, Active: true},
			{ID: 4, Name: "Crítica", Level: 4, Active: false},
		}},
		statuses: &fakeStatusRepo{items: []domain.Status{
			{ID: domain.StatusOpen, Name: "Aberto", Active: true},
			{ID: domain.StatusInProgress, Name: "Em Andamento", Active: true},
			{ID: domain.StatusClosed, Name: "Fechado", Active: true},
		}},
		dispatcher: events.NewInMemoryDispatcher(),
	}
	f.tickets = &fakeTicketRepo{fixture: f, byID: map[int64]*domain.Ticket{}}

	f.ticketSvc = NewTicketService(TicketDependencies{
		TicketRepo:   f.tickets,
		UserRepo:     f.users,
		CategoryRepo: f.categories,
		PriorityRepo: f.priorities,
		StatusRepo:   f.statuses,
		Dispatcher:   f.dispatcher,
	})
	f.catalogSvc = NewCatalogService(f.categories, f.priorities, f.statuses,
		cache.NewCatalogCache(nil, time.Minute, zap.NewNop()))
	return f
}

func (f *fixture) triageSvc(classifier ai.Classifier) *TriageService {
	return NewTriageService(classifier, f.catalogSvc, f.ticketSvc, f.users,
		observability.NewMetrics(), zap.NewNop())
}

func int64Ptr(v int64) *int64 { return &v }

type fakeUserRepo struct {
	mu   sync.Mutex
	byID map[int64]*domain.User
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = int64(len(r.byID) + 1)
	for r.byID[user.ID] != nil {
		user.ID++
	}
	user.CreatedAt = time.Now()
	copied := *user
	r.byID[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byID[user.ID] == nil {
		return pgx.ErrNoRows
	}
	copied := *user
	r.byID[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.byID {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByResetToken(_ context.Context, token string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.byID {
		if user.ResetToken != nil && *user.ResetToken == token {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) FindSpecialist(_ context.Context, categoryID int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found *domain.User
	for _, user := range r.byID {
		if user.Role != domain.RoleAdmin || !user.Active ||
			user.SpecialtyCategoryID == nil || *user.SpecialtyCategoryID != categoryID {
			continue
		}
		if found == nil || user.ID < found.ID {
			found = user
		}
	}
	if found == nil {
		return nil, pgx.ErrNoRows
	}
	copied := *found
	return &copied, nil
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	fixture *fixture
	byID    map[int64]*domain.Ticket
	nextID  int64
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	ticket.ID = r.nextID
	ticket.OpenedAt = time.Now().UTC()
	copied := *ticket
	r.byID[ticket.ID] = &copied
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byID[ticket.ID] == nil {
		return pgx.ErrNoRows
	}
	now := time.Now().UTC()
	ticket.UpdatedAt = &now
	copied := *ticket
	r.byID[ticket.ID] = &copied
	return nil
}

func (r *fakeTicketRepo) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	r.mu.Lock()
	ticket, ok := r.byID[id]
	if !ok {
		r.mu.Unlock()
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	r.mu.Unlock()
	r.resolve(ctx, &copied)
	return &copied, nil
}

func (r *fakeTicketRepo) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	matched := make([]domain.Ticket, 0, len(r.byID))
	for _, ticket := range r.byID {
		if filter.RequesterID != nil && ticket.RequesterID != *filter.RequesterID {
			continue
		}
		if filter.StatusID != nil && ticket.StatusID != *filter.StatusID {
			continue
		}
		if filter.CategoryID != nil && ticket.CategoryID != *filter.CategoryID {
			continue
		}
		matched = append(matched, *ticket)
	}
	r.mu.Unlock()
	for i := range matched {
		r.resolve(ctx, &matched[i])
	}
	return matched, nil
}

func (r *fakeTicketRepo) resolve(ctx context.Context, ticket *domain.Ticket) {
	if user, err := r.fixture.users.GetByID(ctx, ticket.RequesterID); err == nil {
		ticket.Requester = user
	}
	if ticket.TechnicianID != nil {
		if user, err := r.fixture.users.GetByID(ctx, *ticket.TechnicianID); err == nil {
			ticket.Technician = user
		}
	}
	if category, err := r.fixture.categories.GetByID(ctx, ticket.CategoryID); err == nil {
		ticket.Category = category
	}
	if priority, err := r.fixture.priorities.GetByID(ctx, ticket.PriorityID); err == nil {
		ticket.Priority = priority
	}
	if status, err := r.fixture.statuses.GetByID(ctx, ticket.StatusID); err == nil {
		ticket.Status = status
	}
}

type fakeCategoryRepo struct {
	items []domain.Category
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	for i := range r.items {
		if r.items[i].ID == id {
			copied := r.items[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCategoryRepo) ListActive(_ context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(r.items))
	for _, c := range r.items {
		if c.Active {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakePriorityRepo struct {
	items []domain.Priority
}

func (r *fakePriorityRepo) GetByID(_ context.Context, id int64) (*domain.Priority, error) {
	for i := range r.items {
		if r.items[i].ID == id {
			copied := r.items[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakePriorityRepo) ListActive(_ context.Context) ([]domain.Priority, error) {
	out := make([]domain.Priority, 0, len(r.items))
	for _, p := range r.items {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeStatusRepo struct {
	items []domain.Status
}

func (r *fakeStatusRepo) GetByID(_ context.Context, id int64) (*domain.Status, error) {
	for i := range r.items {
		if r.items[i].ID == id {
			copied := r.items[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStatusRepo) GetByName(_ context.Context, name string) (*domain.Status, error) {
	for i := range r.items {
		if r.items[i].Name == name {
			copied := r.items[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStatusRepo) ListActive(_ context.Context) ([]domain.Status, error) {
	out := make([]domain.Status, 0, len(r.items))
	for _, s := range r.items {
		if s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeClassifier struct {
	analysis *ai.Analysis
	err      error
	calls    int
}

func (c *fakeClassifier) Classify(_ context.Context, _ string, _ []ai.CategoryOption, _ []ai.PriorityOption) (*ai.Analysis, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.analysis, nil
}

type fakeMailer struct {
	mu         sync.Mutex
	resetSends []string
	sends      []string
	err        error
}

func (m *fakeMailer) SendPasswordResetEmail(to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetSends = append(m.resetSends, to+":"+token)
	return m.err
}

func (m *fakeMailer) SendTicketOpenedEmail(to, _ string) error {
	return m.record("opened:" + to)
}

func (m *fakeMailer) SendTicketStatusEmail(to, _, statusName string) error {
	return m.record("status:" + to + ":" + statusName)
}

func (m *fakeMailer) SendTicketAssignedEmail(to, _ string) error {
	return m.record("assigned:" + to)
}

func (m *fakeMailer) record(entry string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sends = append(m.sends, entry)
	return m.err
}

type fakeLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (l *fakeLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.keys = append(l.keys, key)
	return l.allowed, l.err
}
