package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/airfork/uts-dpm-sub000/internal/mailer"
	"github.com/airfork/uts-dpm-sub000/internal/model"
	"github.com/airfork/uts-dpm-sub000/internal/repository"
)

// ── user repo ──

type mockUserRepo struct {
	users  map[int]*model.User
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int]*model.User), nextID: 1}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = m.nextID
	m.nextID++
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	if u.ManagerID != nil {
		if mgr, ok := m.users[*u.ManagerID]; ok {
			mcp := *mgr
			cp.Manager = &mcp
		}
	}
	return &cp, nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByFullName(ctx context.Context, name string) (*model.User, error) {
	for _, u := range m.users {
		if u.FullName() == name {
			return m.GetByID(ctx, u.ID)
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ListSorted(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Lastname != out[j].Lastname {
			return out[i].Lastname < out[j].Lastname
		}
		return out[i].Firstname < out[j].Firstname
	})
	return out, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *user
	cp.Manager = nil
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

// ── user dpm repo ──

type mockUserDpmRepo struct {
	dpms   map[int]*model.UserDpm
	nextID int
	users  *mockUserRepo
}

func newMockUserDpmRepo(users *mockUserRepo) *mockUserDpmRepo {
	return &mockUserDpmRepo{dpms: make(map[int]*model.UserDpm), nextID: 1, users: users}
}

func (m *mockUserDpmRepo) Create(_ context.Context, dpm *model.UserDpm) error {
	dpm.ID = m.nextID
	m.nextID++
	if dpm.CreatedAt.IsZero() {
		dpm.CreatedAt = time.Now()
	}
	cp := *dpm
	m.dpms[dpm.ID] = &cp
	return nil
}

func (m *mockUserDpmRepo) GetByID(ctx context.Context, id int) (*model.UserDpm, error) {
	d, ok := m.dpms[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *d
	if u, err := m.users.GetByID(ctx, d.UserID); err == nil {
		cp.User = u
	}
	if u, err := m.users.GetByID(ctx, d.CreatedBy); err == nil {
		cp.CreatedUser = u
	}
	return &cp, nil
}

func (m *mockUserDpmRepo) Update(_ context.Context, dpm *model.UserDpm) error {
	if _, ok := m.dpms[dpm.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *dpm
	cp.User = nil
	cp.CreatedUser = nil
	cp.DpmType = nil
	m.dpms[dpm.ID] = &cp
	return nil
}

func (m *mockUserDpmRepo) ListUnapproved(ctx context.Context, offset, limit int) ([]model.UserDpm, int64, error) {
	return m.list(ctx, offset, limit, func(d *model.UserDpm) bool {
		return !d.Approved && !d.Ignored
	})
}

func (m *mockUserDpmRepo) ListUnapprovedByManager(ctx context.Context, managerID int, offset, limit int) ([]model.UserDpm, int64, error) {
	return m.list(ctx, offset, limit, func(d *model.UserDpm) bool {
		if d.Approved || d.Ignored {
			return false
		}
		u, ok := m.users.users[d.UserID]
		return ok && u.ManagerID != nil && *u.ManagerID == managerID
	})
}

func (m *mockUserDpmRepo) ListByUser(ctx context.Context, userID int, offset, limit int) ([]model.UserDpm, int64, error) {
	return m.list(ctx, offset, limit, func(d *model.UserDpm) bool {
		return d.UserID == userID
	})
}

func (m *mockUserDpmRepo) ListRecentByUser(_ context.Context, userID int, since time.Time) ([]model.UserDpm, error) {
	var out []model.UserDpm
	for _, d := range m.dpms {
		if d.UserID == userID && d.Approved && !d.Ignored && !d.CreatedAt.Before(since) {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockUserDpmRepo) list(ctx context.Context, offset, limit int, keep func(*model.UserDpm) bool) ([]model.UserDpm, int64, error) {
	var ids []int
	for id, d := range m.dpms {
		if keep(d) {
			ids = append(ids, id)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ids)))

	total := int64(len(ids))
	if offset >= len(ids) {
		return nil, total, nil
	}
	ids = ids[offset:]
	if limit < len(ids) {
		ids = ids[:limit]
	}

	out := make([]model.UserDpm, 0, len(ids))
	for _, id := range ids {
		d, err := m.GetByID(ctx, id)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *d)
	}
	return out, total, nil
}

// ── dpm type repo ──

type mockDpmTypeRepo struct {
	groups map[int]*model.DpmGroup
	types  map[int]*model.DpmType
	nextID int
}

func newMockDpmTypeRepo() *mockDpmTypeRepo {
	return &mockDpmTypeRepo{
		groups: make(map[int]*model.DpmGroup),
		types:  make(map[int]*model.DpmType),
		nextID: 1,
	}
}

func (m *mockDpmTypeRepo) GetByID(_ context.Context, id int) (*model.DpmType, error) {
	t, ok := m.types[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *mockDpmTypeRepo) ListGroupsWithActiveTypes(_ context.Context) ([]model.DpmGroup, error) {
	var ids []int
	for id, g := range m.groups {
		if g.Active {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	out := make([]model.DpmGroup, 0, len(ids))
	for _, id := range ids {
		g := *m.groups[id]
		g.DpmTypes = nil
		for _, t := range m.types {
			if t.DpmGroupID == id && t.Active {
				g.DpmTypes = append(g.DpmTypes, *t)
			}
		}
		sort.Slice(g.DpmTypes, func(i, j int) bool { return g.DpmTypes[i].ID < g.DpmTypes[j].ID })
		out = append(out, g)
	}
	return out, nil
}

func (m *mockDpmTypeRepo) Create(_ context.Context, t *model.DpmType) error {
	t.ID = m.nextID
	m.nextID++
	cp := *t
	m.types[t.ID] = &cp
	return nil
}

func (m *mockDpmTypeRepo) CreateGroup(_ context.Context, g *model.DpmGroup) error {
	g.ID = m.nextID
	m.nextID++
	cp := *g
	m.groups[g.ID] = &cp
	return nil
}

func (m *mockDpmTypeRepo) CountTypes(_ context.Context) (int64, error) {
	return int64(len(m.types)), nil
}

// ── w2w color repo ──

type mockW2WColorRepo struct {
	colors []model.W2WColor
}

func (m *mockW2WColorRepo) ListActiveWithActiveTypes(_ context.Context) ([]model.W2WColor, error) {
	var out []model.W2WColor
	for _, c := range m.colors {
		if !c.Active {
			continue
		}
		var active []model.DpmType
		for _, t := range c.DpmTypes {
			if t.Active {
				active = append(active, t)
			}
		}
		if len(active) == 0 {
			continue
		}
		c.DpmTypes = active
		out = append(out, c)
	}
	return out, nil
}

func (m *mockW2WColorRepo) Create(_ context.Context, color *model.W2WColor) error {
	color.ID = len(m.colors) + 1
	m.colors = append(m.colors, *color)
	return nil
}

// ── auto submission repo ──

type mockAutoSubmissionRepo struct {
	subs   []model.AutoSubmission
	nextID int

	// onLock, when set, runs inside AcquireSubmitLock so tests can model
	// another process winning the race while the lock is being taken.
	onLock func()
}

func (m *mockAutoSubmissionRepo) Create(_ context.Context, sub *model.AutoSubmission) error {
	m.nextID++
	sub.ID = m.nextID
	if sub.Submitted.IsZero() {
		sub.Submitted = time.Now()
	}
	m.subs = append(m.subs, *sub)
	return nil
}

func (m *mockAutoSubmissionRepo) GetMostRecent(_ context.Context) (*model.AutoSubmission, error) {
	if len(m.subs) == 0 {
		return nil, nil
	}
	latest := m.subs[0]
	for _, s := range m.subs[1:] {
		if s.Submitted.After(latest.Submitted) {
			latest = s
		}
	}
	return &latest, nil
}

func (m *mockAutoSubmissionRepo) AcquireSubmitLock(_ context.Context) error {
	if m.onLock != nil {
		m.onLock()
	}
	return nil
}

func (m *mockAutoSubmissionRepo) DeleteSubmittedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var kept []model.AutoSubmission
	var removed int64
	for _, s := range m.subs {
		if s.Submitted.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	m.subs = kept
	return removed, nil
}

// ── mail dispatcher ──

type mockDispatcher struct {
	mu       sync.Mutex
	received []mailer.DpmReceivedEmail
	balances []mailer.PointsBalanceEmail
	welcomes []mailer.WelcomeEmail
}

func (m *mockDispatcher) EnqueueDpmReceived(email mailer.DpmReceivedEmail) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.received = append(m.received, email)
}

func (m *mockDispatcher) EnqueuePointsBalance(email mailer.PointsBalanceEmail) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances = append(m.balances, email)
}

func (m *mockDispatcher) EnqueueWelcome(email mailer.WelcomeEmail) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcomes = append(m.welcomes, email)
}

// ── shift provider ──

type mockProvider struct {
	shifts []Shift
	err    error
	calls  int
}

func (p *mockProvider) GetAssignedShifts(context.Context) ([]Shift, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.shifts, nil
}

// ── fixture ──

type fixture struct {
	users  *mockUserRepo
	dpms   *mockUserDpmRepo
	types  *mockDpmTypeRepo
	colors *mockW2WColorRepo
	subs   *mockAutoSubmissionRepo
	mail   *mockDispatcher
	repo   *repository.Repository
}

func newFixture() *fixture {
	users := newMockUserRepo()
	dpms := newMockUserDpmRepo(users)
	types := newMockDpmTypeRepo()
	colors := &mockW2WColorRepo{}
	subs := &mockAutoSubmissionRepo{}
	return &fixture{
		users:  users,
		dpms:   dpms,
		types:  types,
		colors: colors,
		subs:   subs,
		mail:   &mockDispatcher{},
		repo: &repository.Repository{
			User:           users,
			UserDpm:        dpms,
			DpmType:        types,
			W2WColor:       colors,
			AutoSubmission: subs,
		},
	}
}

func (f *fixture) addUser(first, last, role string, managerID *int) *model.User {
	u := &model.User{
		Firstname:    first,
		Lastname:     last,
		Username:     first + "." + last + "@example.com",
		PasswordHash: "x",
		Role:         role,
		ManagerID:    managerID,
		FullTime:     true,
	}
	_ = f.users.Create(context.Background(), u)
	return u
}

func (f *fixture) addType(name string, points int, colorCode string) *model.DpmType {
	t := &model.DpmType{DpmGroupID: 1, Name: name, Points: points, Active: true}
	_ = f.types.Create(context.Background(), t)
	if colorCode != "" {
		f.colors.colors = append(f.colors.colors, model.W2WColor{
			ID:        len(f.colors.colors) + 1,
			ColorCode: colorCode,
			ColorName: name + " color",
			Active:    true,
			DpmTypes:  []model.DpmType{*t},
		})
	}
	return t
}

func testLogger() *zap.Logger { return zap.NewNop() }
