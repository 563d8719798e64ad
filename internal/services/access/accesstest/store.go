// Package accesstest содержит хранилище контроля доступа в памяти для тестов
// пакетов, которые строят настоящий access.Service.
package accesstest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/magabrotheeeer/dramabox/internal/models"
	"github.com/magabrotheeeer/dramabox/internal/storage"
)

// Store хранилище в памяти с той же семантикой, что и PostgreSQL-репозиторий.
type Store struct {
	mu     sync.Mutex
	subs   map[string]*models.Subscription
	ledger map[string][]string
	err    error
	spends int
}

// NewStore создаёт пустое хранилище.
func NewStore() *Store {
	return &Store{
		subs:   map[string]*models.Subscription{},
		ledger: map[string][]string{},
	}
}

// Put задаёт состояние подписки личности.
func (m *Store) Put(id models.Identity, sub models.Subscription) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[id.String()] = &sub
}

// SetErr заставляет все операции возвращать err; nil возвращает обычную работу.
func (m *Store) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Spends число списанных билетов.
func (m *Store) Spends() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.spends
}

// Tickets текущий баланс личности; неизвестный гость считается с нулём.
func (m *Store) Tickets(id models.Identity) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sub, ok := m.subs[id.String()]; ok {
		return sub.Tickets
	}
	return 0
}

func (m *Store) get(id models.Identity) (*models.Subscription, error) {
	if id.IsOwner() {
		return nil, storage.ErrNoSubscription
	}
	sub, ok := m.subs[id.String()]
	if !ok {
		if id.Kind == models.IdentityMember {
			return nil, storage.ErrNotFound
		}
		sub = &models.Subscription{Role: models.RoleGuest}
		m.subs[id.String()] = sub
	}
	return sub, nil
}

func (m *Store) Subscription(_ context.Context, id models.Identity) (*models.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	sub, err := m.get(id)
	if err != nil {
		return nil, err
	}
	cp := *sub
	return &cp, nil
}

func (m *Store) GrantBonus(_ context.Context, id models.Identity, day time.Time, amount int) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, false, m.err
	}
	sub, err := m.get(id)
	if err != nil {
		return 0, false, err
	}
	if sub.LastDailyCheck != nil && sub.LastDailyCheck.Equal(day) {
		return sub.Tickets, false, nil
	}
	sub.Tickets += amount
	sub.LastDailyCheck = &day
	return sub.Tickets, true, nil
}

func (m *Store) HasUnlocked(_ context.Context, ledgerKey, episodeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for _, e := range m.ledger[ledgerKey] {
		if e == episodeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *Store) ListUnlocked(_ context.Context, ledgerKey string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]string{}, m.ledger[ledgerKey]...), nil
}

func (m *Store) SpendTicket(_ context.Context, id models.Identity, episodeID string) (models.SpendResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.SpendResult{}, m.err
	}
	sub, err := m.get(id)
	if err != nil {
		return models.SpendResult{}, err
	}
	for _, e := range m.ledger[id.LedgerKey()] {
		if e == episodeID {
			return models.SpendResult{Tickets: sub.Tickets, AlreadyUnlocked: true}, nil
		}
	}
	if sub.Tickets <= 0 {
		return models.SpendResult{}, nil
	}
	sub.Tickets--
	m.spends++
	m.ledger[id.LedgerKey()] = append(m.ledger[id.LedgerKey()], episodeID)
	return models.SpendResult{Tickets: sub.Tickets, Spent: true}, nil
}

// ErrStoreDown ошибка недоступного хранилища для тестов.
var ErrStoreDown = errors.New("store down")
