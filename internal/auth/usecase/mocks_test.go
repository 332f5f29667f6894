package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/useradmin/internal/auth/domain"
	"github.com/allisson/useradmin/internal/revocation"
	userDomain "github.com/allisson/useradmin/internal/user/domain"
)

// MockUserFinder is a mock implementation of UserFinder
type MockUserFinder struct {
	mock.Mock
}

func (m *MockUserFinder) GetByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

// MockPasswordService is a mock implementation of service.PasswordService
type MockPasswordService struct {
	mock.Mock
}

func (m *MockPasswordService) HashPassword(plainPassword string) (string, error) {
	args := m.Called(plainPassword)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordService) ComparePassword(plainPassword string, hashedPassword string) bool {
	args := m.Called(plainPassword, hashedPassword)
	return args.Bool(0)
}

// MockStore is a mock implementation of revocation.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockStore) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// blockingStore never answers a lookup before its context is done.
type blockingStore struct {
	MockStore
}

func (b *blockingStore) Get(ctx context.Context, key string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

// laggingStore is a replicated store whose reads only see a write once it has propagated.
type laggingStore struct {
	*revocation.MemoryStore

	mu      sync.Mutex
	pending []laggingWrite
}

type laggingWrite struct {
	key, value string
	ttl        time.Duration
}

func newLaggingStore() *laggingStore {
	return &laggingStore{MemoryStore: revocation.NewMemoryStore(time.Minute)}
}

func (l *laggingStore) Put(_ context.Context, key, value string, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = append(l.pending, laggingWrite{key: key, value: value, ttl: ttl})
	return nil
}

// propagate applies every buffered write to the replica that serves reads.
func (l *laggingStore) propagate(ctx context.Context) error {
	l.mu.Lock()
	pending := l.pending
	l.pending = nil
	l.mu.Unlock()

	for _, w := range pending {
		if err := l.MemoryStore.Put(ctx, w.key, w.value, w.ttl); err != nil {
			return err
		}
	}
	return nil
}

// MockCapabilityResolver is a mock implementation of CapabilityResolver
type MockCapabilityResolver struct {
	mock.Mock
}

func (m *MockCapabilityResolver) GetCapabilities(
	ctx context.Context,
	roleID int64,
) ([]authDomain.Capability, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]authDomain.Capability), args.Error(1)
}

// MockBusinessMetrics is a mock implementation of metrics.BusinessMetrics
type MockBusinessMetrics struct {
	mock.Mock
}

func (m *MockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *MockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func (m *MockBusinessMetrics) RecordRejection(ctx context.Context, stage, reason string) {
	m.Called(ctx, stage, reason)
}
