package mocks

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/iho/coinsync/internal/domain"
	"github.com/iho/coinsync/internal/usecase"
)

// MockIdentityRepository is a mock implementation of IdentityRepository.
type MockIdentityRepository struct {
	mu         sync.RWMutex
	identities map[string]*domain.Identity // keyed by external id

	CreateTxFunc                 func(ctx context.Context, tx usecase.Transaction, identity *domain.Identity) error
	GetByExternalIDFunc          func(ctx context.Context, externalID string) (*domain.Identity, error)
	GetByExternalIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, externalID string) (*domain.Identity, error)
	UpdateBalanceFunc            func(ctx context.Context, tx usecase.Transaction, id string, balance int64, updatedAt time.Time) error
	ListFunc                     func(ctx context.Context, limit, offset int) ([]*domain.Identity, error)
}

func NewMockIdentityRepository() *MockIdentityRepository {
	return &MockIdentityRepository{
		identities: make(map[string]*domain.Identity),
	}
}

// Seed adds an identity directly to the backing map.
func (m *MockIdentityRepository) Seed(identity *domain.Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identities[identity.ExternalID] = identity
}

func (m *MockIdentityRepository) CreateTx(ctx context.Context, tx usecase.Transaction, identity *domain.Identity) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, identity)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.identities[identity.ExternalID]; ok {
		return domain.ErrIdentityExists
	}
	m.identities[identity.ExternalID] = identity
	return nil
}

func (m *MockIdentityRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.Identity, error) {
	if m.GetByExternalIDFunc != nil {
		return m.GetByExternalIDFunc(ctx, externalID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if identity, ok := m.identities[externalID]; ok {
		copied := *identity
		return &copied, nil
	}
	return nil, domain.ErrIdentityNotFound
}

func (m *MockIdentityRepository) GetByExternalIDForUpdate(ctx context.Context, tx usecase.Transaction, externalID string) (*domain.Identity, error) {
	if m.GetByExternalIDForUpdateFunc != nil {
		return m.GetByExternalIDForUpdateFunc(ctx, tx, externalID)
	}
	return m.GetByExternalID(ctx, externalID)
}

func (m *MockIdentityRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance int64, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, identity := range m.identities {
		if identity.ID == id {
			identity.Balance = balance
			identity.UpdatedAt = updatedAt
			return nil
		}
	}
	return domain.ErrIdentityNotFound
}

func (m *MockIdentityRepository) List(ctx context.Context, limit, offset int) ([]*domain.Identity, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	identities := make([]*domain.Identity, 0, len(m.identities))
	for _, identity := range m.identities {
		copied := *identity
		identities = append(identities, &copied)
	}
	sort.Slice(identities, func(i, j int) bool {
		return identities[i].ExternalID < identities[j].ExternalID
	})
	if offset >= len(identities) {
		return nil, nil
	}
	identities = identities[offset:]
	if limit > 0 && limit < len(identities) {
		identities = identities[:limit]
	}
	return identities, nil
}

// MockRecordRepository is a mock implementation of RecordRepository. The
// backing store enforces the (source, reference) uniqueness the real
// repository gets from its partial unique index.
type MockRecordRepository struct {
	mu      sync.RWMutex
	records []*domain.LedgerRecord
	byRef   map[string]*domain.LedgerRecord

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, record *domain.LedgerRecord) error
	GetByReferenceFunc   func(ctx context.Context, source domain.Source, reference string) (*domain.LedgerRecord, error)
	GetByReferenceTxFunc func(ctx context.Context, tx usecase.Transaction, source domain.Source, reference string) (*domain.LedgerRecord, error)
	ListByIdentityFunc   func(ctx context.Context, identityID string, limit, offset int) ([]*domain.LedgerRecord, error)
}

func NewMockRecordRepository() *MockRecordRepository {
	return &MockRecordRepository{
		byRef: make(map[string]*domain.LedgerRecord),
	}
}

func refKey(source domain.Source, reference string) string {
	return source.String() + ":" + reference
}

func (m *MockRecordRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.LedgerRecord) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if record.HasReference() {
		key := refKey(record.Source, record.ExternalReference)
		if _, ok := m.byRef[key]; ok {
			return domain.ErrDuplicateReference
		}
		m.byRef[key] = record
	}
	m.records = append(m.records, record)
	return nil
}

func (m *MockRecordRepository) GetByReference(ctx context.Context, source domain.Source, reference string) (*domain.LedgerRecord, error) {
	if m.GetByReferenceFunc != nil {
		return m.GetByReferenceFunc(ctx, source, reference)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if record, ok := m.byRef[refKey(source, reference)]; ok {
		return record, nil
	}
	return nil, domain.ErrRecordNotFound
}

func (m *MockRecordRepository) GetByReferenceTx(ctx context.Context, tx usecase.Transaction, source domain.Source, reference string) (*domain.LedgerRecord, error) {
	if m.GetByReferenceTxFunc != nil {
		return m.GetByReferenceTxFunc(ctx, tx, source, reference)
	}
	return m.GetByReference(ctx, source, reference)
}

func (m *MockRecordRepository) ListByIdentity(ctx context.Context, identityID string, limit, offset int) ([]*domain.LedgerRecord, error) {
	if m.ListByIdentityFunc != nil {
		return m.ListByIdentityFunc(ctx, identityID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	// Newest first, like the real repository.
	var matched []*domain.LedgerRecord
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].IdentityID == identityID {
			matched = append(matched, m.records[i])
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

// Count returns the number of stored records.
func (m *MockRecordRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc  func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc   func(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublishedFunc func(ctx context.Context, before time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var unpublished []*domain.OutboxEvent
	for _, event := range m.events {
		if !event.Published {
			unpublished = append(unpublished, event)
		}
		if len(unpublished) == limit {
			break
		}
	}
	return unpublished, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, event := range m.events {
		if event.ID == id {
			event.Published = true
			event.PublishedAt = &publishedAt
			return nil
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	if m.DeletePublishedFunc != nil {
		return m.DeletePublishedFunc(ctx, before)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, event := range m.events {
		if !event.Published || event.PublishedAt == nil || !event.PublishedAt.Before(before) {
			kept = append(kept, event)
		}
	}
	m.events = kept
	return nil
}

// Events returns a snapshot of stored events.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.OutboxEvent(nil), m.events...)
}

// MockTransaction is a no-op transaction.
type MockTransaction struct {
	release func()
	once    sync.Once

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.done()
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	t.done()
	return nil
}

func (t *MockTransaction) done() {
	if t.release != nil {
		t.once.Do(t.release)
	}
}

// MockTransactionManager is a mock implementation of TransactionManager.
// With Serialize set, Begin blocks until the previous transaction commits
// or rolls back, emulating the row lock mutations take on the identity.
type MockTransactionManager struct {
	mu        sync.Mutex
	Serialize bool

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	if !m.Serialize {
		return &MockTransaction{}, nil
	}
	m.mu.Lock()
	return &MockTransaction{release: m.mu.Unlock}, nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "id-" + time.Now().UTC().Format("150405") + "-" + strconv.Itoa(m.counter)
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu     sync.RWMutex
	values map[string]string

	GetFunc    func(ctx context.Context, key string) (string, bool, error)
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{values: make(map[string]string)}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, bool, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// MockTokenVerifier is a mock implementation of TokenVerifier.
type MockTokenVerifier struct {
	VerifyFunc func(externalID string, amount int64, source string, timestamp int64, token string) error
}

func NewMockTokenVerifier() *MockTokenVerifier {
	return &MockTokenVerifier{}
}

func (m *MockTokenVerifier) Verify(externalID string, amount int64, source string, timestamp int64, token string) error {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(externalID, amount, source, timestamp, token)
	}
	return nil
}
