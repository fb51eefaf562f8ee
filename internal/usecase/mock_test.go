//go:build !integration

package usecase_test

import (
	"context"
	"sort"
	"sync"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"telegram-broadcast-bot/internal/domain"
	"telegram-broadcast-bot/internal/domain/model"
	"telegram-broadcast-bot/internal/domain/ports/adapter"
	"telegram-broadcast-bot/internal/domain/ports/repository"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// ---- Mock TransactionManager ----

// MockTxManager runs the callback directly; the mocks have no real
// transactions to speak of.
type MockTxManager struct {
	WithTxFunc func(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func (m *MockTxManager) WithTx(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, opts, fn)
	}
	return fn(ctx, repository.NoTX)
}

// ---- Mock UserRepository ----

type MockUserRepo struct {
	mu    sync.Mutex
	Users map[int64]*model.User

	SaveFunc      func(ctx context.Context, tx repository.Tx, u *model.User) error
	FindFunc      func(ctx context.Context, tx repository.Tx, tgID int64) (*model.User, error)
	SetBannedFunc func(ctx context.Context, tx repository.Tx, tgID int64, banned bool) error
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{Users: map[int64]*model.User{}}
}

func (m *MockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, u)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.Users[u.TelegramID] = &cp
	return nil
}

func (m *MockUserRepo) FindByTelegramID(ctx context.Context, tx repository.Tx, tgID int64) (*model.User, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, tx, tgID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepo) ListIDs(ctx context.Context, tx repository.Tx) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.Users))
	for id := range m.Users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *MockUserRepo) ListFiltered(ctx context.Context, tx repository.Tx, f repository.UserFilter) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.User
	for _, u := range m.Users {
		if f.BannedOnly && !u.IsBanned {
			continue
		}
		if f.Language != "" && u.LanguageCode != f.Language {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TelegramID < out[j].TelegramID })
	return out, nil
}

func (m *MockUserRepo) SetBanned(ctx context.Context, tx repository.Tx, tgID int64, banned bool) error {
	if m.SetBannedFunc != nil {
		return m.SetBannedFunc(ctx, tx, tgID, banned)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[tgID]
	if !ok {
		return domain.ErrNotFound
	}
	u.IsBanned = banned
	return nil
}

func (m *MockUserRepo) SetLanguage(ctx context.Context, tx repository.Tx, tgID int64, lang string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[tgID]
	if !ok {
		return domain.ErrNotFound
	}
	u.LanguageCode = lang
	return nil
}

func (m *MockUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Users), nil
}

// ---- Mock AdminRepository ----

type MockAdminRepo struct {
	mu     sync.Mutex
	Admins map[int64]struct{}
}

var _ repository.AdminRepository = (*MockAdminRepo)(nil)

func NewMockAdminRepo(ids ...int64) *MockAdminRepo {
	m := &MockAdminRepo{Admins: map[int64]struct{}{}}
	for _, id := range ids {
		m.Admins[id] = struct{}{}
	}
	return m
}

func (m *MockAdminRepo) Add(ctx context.Context, tx repository.Tx, tgID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Admins[tgID]; ok {
		return domain.ErrAlreadyExists
	}
	m.Admins[tgID] = struct{}{}
	return nil
}

func (m *MockAdminRepo) Remove(ctx context.Context, tx repository.Tx, tgID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Admins[tgID]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Admins, tgID)
	return nil
}

func (m *MockAdminRepo) Exists(ctx context.Context, tx repository.Tx, tgID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Admins[tgID]
	return ok, nil
}

func (m *MockAdminRepo) List(ctx context.Context, tx repository.Tx) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.Admins))
	for id := range m.Admins {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// ---- Mock GroupRepository ----

type MockGroupRepo struct {
	mu      sync.Mutex
	Groups  map[string]struct{}
	Members map[string][]int64
}

var _ repository.GroupRepository = (*MockGroupRepo)(nil)

func NewMockGroupRepo() *MockGroupRepo {
	return &MockGroupRepo{Groups: map[string]struct{}{}, Members: map[string][]int64{}}
}

func (m *MockGroupRepo) Create(ctx context.Context, tx repository.Tx, g *model.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Groups[g.Name]; ok {
		return domain.ErrAlreadyExists
	}
	m.Groups[g.Name] = struct{}{}
	return nil
}

func (m *MockGroupRepo) Delete(ctx context.Context, tx repository.Tx, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Groups[name]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Groups, name)
	delete(m.Members, name)
	return nil
}

func (m *MockGroupRepo) Exists(ctx context.Context, tx repository.Tx, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Groups[name]
	return ok, nil
}

func (m *MockGroupRepo) ListNames(ctx context.Context, tx repository.Tx) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.Groups))
	for name := range m.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *MockGroupRepo) AddMember(ctx context.Context, tx repository.Tx, mem *model.Membership) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Groups[mem.GroupName]; !ok {
		return domain.ErrGroupNotFound
	}
	for _, id := range m.Members[mem.GroupName] {
		if id == mem.TelegramID {
			return domain.ErrAlreadyExists
		}
	}
	m.Members[mem.GroupName] = append(m.Members[mem.GroupName], mem.TelegramID)
	return nil
}

func (m *MockGroupRepo) MemberIDs(ctx context.Context, tx repository.Tx, name string) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int64, len(m.Members[name]))
	copy(out, m.Members[name])
	return out, nil
}

// ---- Mock SettingRepository ----

type MockSettingRepo struct {
	mu     sync.Mutex
	Values map[string]string
}

var _ repository.SettingRepository = (*MockSettingRepo)(nil)

func NewMockSettingRepo() *MockSettingRepo {
	return &MockSettingRepo{Values: map[string]string{}}
}

func (m *MockSettingRepo) Get(ctx context.Context, tx repository.Tx, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.Values[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (m *MockSettingRepo) Set(ctx context.Context, tx repository.Tx, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Values[key] = value
	return nil
}

// ---- Mock WizardStateRepository ----

type MockWizardStateRepo struct {
	mu     sync.Mutex
	States map[int64]*repository.WizardState
}

var _ repository.WizardStateRepository = (*MockWizardStateRepo)(nil)

func NewMockWizardStateRepo() *MockWizardStateRepo {
	return &MockWizardStateRepo{States: map[int64]*repository.WizardState{}}
}

func (m *MockWizardStateRepo) SetState(ctx context.Context, chatID int64, state *repository.WizardState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *state
	m.States[chatID] = &cp
	return nil
}

func (m *MockWizardStateRepo) GetState(ctx context.Context, chatID int64) (*repository.WizardState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.States[chatID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *MockWizardStateRepo) ClearState(ctx context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.States, chatID)
	return nil
}

// ---- Mock RelaySessionRepository ----

type MockRelayRepo struct {
	mu       sync.Mutex
	Sessions map[int64]*model.RelaySession
}

var _ repository.RelaySessionRepository = (*MockRelayRepo)(nil)

func NewMockRelayRepo() *MockRelayRepo {
	return &MockRelayRepo{Sessions: map[int64]*model.RelaySession{}}
}

func (m *MockRelayRepo) Set(ctx context.Context, session *model.RelaySession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *session
	m.Sessions[session.AdminID] = &cp
	return nil
}

func (m *MockRelayRepo) Get(ctx context.Context, adminID int64) (*model.RelaySession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Sessions[adminID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *MockRelayRepo) Clear(ctx context.Context, adminID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Sessions, adminID)
	return nil
}

// ---- Mock MessageGateway ----

type SentText struct {
	ChatID int64
	Text   string
}

type SentCopy struct {
	ChatID   int64
	Ref      adapter.MessageRef
	Caption  string
	Override bool
}

type MockGateway struct {
	mu     sync.Mutex
	Texts  []SentText
	Copies []SentCopy

	SendMessageFunc func(ctx context.Context, chatID int64, text string) error
	CopyMessageFunc func(ctx context.Context, chatID int64, ref adapter.MessageRef, caption string, overrideCaption bool) error
}

var _ adapter.MessageGateway = (*MockGateway)(nil)

func (m *MockGateway) SendMessage(ctx context.Context, chatID int64, text string) error {
	if m.SendMessageFunc != nil {
		if err := m.SendMessageFunc(ctx, chatID, text); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Texts = append(m.Texts, SentText{ChatID: chatID, Text: text})
	return nil
}

func (m *MockGateway) SendButtons(ctx context.Context, chatID int64, text string, rows [][]adapter.InlineButton) error {
	return m.SendMessage(ctx, chatID, text)
}

func (m *MockGateway) CopyMessage(ctx context.Context, chatID int64, ref adapter.MessageRef, caption string, overrideCaption bool) error {
	if m.CopyMessageFunc != nil {
		if err := m.CopyMessageFunc(ctx, chatID, ref, caption, overrideCaption); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Copies = append(m.Copies, SentCopy{ChatID: chatID, Ref: ref, Caption: caption, Override: overrideCaption})
	return nil
}

func (m *MockGateway) EditMessage(ctx context.Context, chatID int64, messageID int, text string, rows [][]adapter.InlineButton) error {
	return nil
}

func (m *MockGateway) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	return nil
}

// seedUser registers a plain user in the mock repo.
func seedUser(repo *MockUserRepo, tgID int64, lang string) *model.User {
	u, _ := model.NewUser(tgID, "user", "Test", "User", lang, false)
	_ = repo.Save(context.Background(), repository.NoTX, u)
	return u
}
