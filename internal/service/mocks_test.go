package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/allrails/api/internal/domain"
	"github.com/allrails/api/internal/service/auth"
	"github.com/allrails/api/internal/store"
)

// fakeTxRunner executes the transaction function directly with a nil *sql.Tx.
// The fake stores' WithTx methods return the store itself, so transactional
// code paths run against the same in-memory state.
type fakeTxRunner struct {
	err   error // Returned instead of running fn when set
	calls int
}

func (r *fakeTxRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	r.calls++
	if r.err != nil {
		return r.err
	}
	return fn(ctx, nil)
}

// fakeUserStore is an in-memory store.UserStore.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User

	createErr error
	getErr    error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (s *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *fakeUserStore) UpdateHashedPassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	user.HashedPassword = hashedPassword
	return nil
}

func (s *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore { return s }

// fakeResetTokenStore is an in-memory store.PasswordResetTokenStore.
type fakeResetTokenStore struct {
	mu     sync.Mutex
	tokens map[uuid.UUID]*domain.PasswordResetToken

	createErr error
}

func newFakeResetTokenStore() *fakeResetTokenStore {
	return &fakeResetTokenStore{tokens: make(map[uuid.UUID]*domain.PasswordResetToken)}
}

func (s *fakeResetTokenStore) Create(ctx context.Context, token *domain.PasswordResetToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	copied := *token
	s.tokens[token.ID] = &copied
	return nil
}

func (s *fakeResetTokenStore) GetByToken(ctx context.Context, token string) (*domain.PasswordResetToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tokens {
		if t.Token == token {
			copied := *t
			return &copied, nil
		}
	}
	return nil, store.ErrResetTokenNotFound
}

func (s *fakeResetTokenStore) MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[id]
	if !ok {
		return store.ErrResetTokenNotFound
	}
	at := usedAt
	token.UsedAt = &at
	return nil
}

func (s *fakeResetTokenStore) InvalidateActiveForUser(ctx context.Context, userID uuid.UUID, usedAt time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, token := range s.tokens {
		if token.UserID == userID && token.UsedAt == nil {
			at := usedAt
			token.UsedAt = &at
			count++
		}
	}
	return count, nil
}

func (s *fakeResetTokenStore) WithTx(tx *sql.Tx) store.PasswordResetTokenStore { return s }

// activeTokensFor returns the user's still-unused tokens, for assertions.
func (s *fakeResetTokenStore) activeTokensFor(userID uuid.UUID) []*domain.PasswordResetToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	var active []*domain.PasswordResetToken
	for _, token := range s.tokens {
		if token.UserID == userID && token.UsedAt == nil {
			copied := *token
			active = append(active, &copied)
		}
	}
	return active
}

// fakeProfileStore is an in-memory store.ProfileStore.
type fakeProfileStore struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*domain.Profile

	getErr error
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[uuid.UUID]*domain.Profile)}
}

func (s *fakeProfileStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	copied := *profile
	return &copied, nil
}

func (s *fakeProfileStore) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	for _, profile := range s.profiles {
		if profile.Username == username {
			copied := *profile
			return &copied, nil
		}
	}
	return nil, store.ErrProfileNotFound
}

func (s *fakeProfileStore) Upsert(ctx context.Context, profile *domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.profiles {
		if existing.Username == profile.Username && existing.UserID != profile.UserID {
			return store.ErrUsernameExists
		}
	}
	copied := *profile
	s.profiles[profile.UserID] = &copied
	return nil
}

func (s *fakeProfileStore) WithTx(tx *sql.Tx) store.ProfileStore { return s }

// fakePaymentMethodStore is an in-memory store.PaymentMethodStore.
type fakePaymentMethodStore struct {
	mu      sync.Mutex
	methods map[uuid.UUID]*domain.PaymentMethod

	updateSortOrderErr error
}

func newFakePaymentMethodStore() *fakePaymentMethodStore {
	return &fakePaymentMethodStore{methods: make(map[uuid.UUID]*domain.PaymentMethod)}
}

func (s *fakePaymentMethodStore) Create(ctx context.Context, method *domain.PaymentMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *method
	s.methods[method.ID] = &copied
	return nil
}

func (s *fakePaymentMethodStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.PaymentMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	method, ok := s.methods[id]
	if !ok {
		return nil, store.ErrPaymentMethodNotFound
	}
	copied := *method
	return &copied, nil
}

func (s *fakePaymentMethodStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.PaymentMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked(userID, false), nil
}

func (s *fakePaymentMethodStore) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*domain.PaymentMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked(userID, true), nil
}

func (s *fakePaymentMethodStore) listLocked(userID uuid.UUID, activeOnly bool) []*domain.PaymentMethod {
	list := make([]*domain.PaymentMethod, 0)
	for _, method := range s.methods {
		if method.UserID != userID {
			continue
		}
		if activeOnly && !method.Active {
			continue
		}
		copied := *method
		list = append(list, &copied)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].SortOrder != list[j].SortOrder {
			return list[i].SortOrder < list[j].SortOrder
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list
}

func (s *fakePaymentMethodStore) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, method := range s.methods {
		if method.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (s *fakePaymentMethodStore) Update(ctx context.Context, method *domain.PaymentMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.methods[method.ID]; !ok {
		return store.ErrPaymentMethodNotFound
	}
	copied := *method
	s.methods[method.ID] = &copied
	return nil
}

func (s *fakePaymentMethodStore) UpdateSortOrder(ctx context.Context, id uuid.UUID, sortOrder int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateSortOrderErr != nil {
		return s.updateSortOrderErr
	}
	method, ok := s.methods[id]
	if !ok {
		return store.ErrPaymentMethodNotFound
	}
	method.SortOrder = sortOrder
	return nil
}

func (s *fakePaymentMethodStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.methods[id]; !ok {
		return store.ErrPaymentMethodNotFound
	}
	delete(s.methods, id)
	return nil
}

func (s *fakePaymentMethodStore) WithTx(tx *sql.Tx) store.PaymentMethodStore { return s }

// fakeJWTService signs deterministic fake tokens.
type fakeJWTService struct {
	generateErr error
}

func (s *fakeJWTService) GenerateToken(ctx context.Context, userID uuid.UUID, email, role string) (string, error) {
	if s.generateErr != nil {
		return "", s.generateErr
	}
	return "token-" + userID.String(), nil
}

func (s *fakeJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	return nil, errors.New("not implemented")
}

// fakeHasher hashes with a reversible prefix so tests can verify without
// paying the bcrypt cost.
type fakeHasher struct {
	hashErr error
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + password, nil
}

// fakeVerifier accepts any password matching a fakeHasher hash.
type fakeVerifier struct{}

func (v *fakeVerifier) Compare(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return errors.New("password mismatch")
	}
	return nil
}
