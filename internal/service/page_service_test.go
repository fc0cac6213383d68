package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allrails/api/internal/domain"
	"github.com/allrails/api/internal/store"
)

type pageFixture struct {
	service  *PageServiceImpl
	users    *fakeUserStore
	profiles *fakeProfileStore
	methods  *fakePaymentMethodStore
}

func newPageFixture(t *testing.T) *pageFixture {
	t.Helper()
	users := newFakeUserStore()
	profiles := newFakeProfileStore()
	methods := newFakePaymentMethodStore()
	return &pageFixture{
		service:  NewPageService(profiles, users, methods, newTestLogger()),
		users:    users,
		profiles: profiles,
		methods:  methods,
	}
}

// seedUser creates a user with a profile and returns the user's ID.
func (f *pageFixture) seedUser(t *testing.T, username, displayName, name string) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	user, err := domain.NewUser(username+"@example.com", "password123", name)
	require.NoError(t, err)
	user.HashedPassword = "hashed:password123"
	user.Password = ""
	require.NoError(t, f.users.Create(ctx, user))

	profile, err := domain.NewProfile(user.ID, username, displayName, "", "")
	require.NoError(t, err)
	require.NoError(t, f.profiles.Upsert(ctx, profile))

	return user.ID
}

func (f *pageFixture) addMethod(t *testing.T, userID uuid.UUID, methodType string, sortOrder int, active bool) *domain.PaymentMethod {
	t.Helper()
	method, err := domain.NewPaymentMethod(userID, methodType, "", "@handle", sortOrder)
	require.NoError(t, err)
	method.Active = active
	require.NoError(t, f.methods.Create(context.Background(), method))
	return method
}

func TestGetPublicPage(t *testing.T) {
	t.Parallel()

	t.Run("assembles profile and active methods", func(t *testing.T) {
		t.Parallel()
		f := newPageFixture(t)
		userID := f.seedUser(t, "alice", "Alice Smith", "")

		f.addMethod(t, userID, "venmo", 0, true)
		f.addMethod(t, userID, "cashapp", 1, true)

		page, err := f.service.GetPublicPage(context.Background(), "alice")
		require.NoError(t, err)

		assert.Equal(t, "alice", page.Username)
		assert.Equal(t, "Alice Smith", page.DisplayName)
		require.Len(t, page.PaymentMethods, 2)
		assert.Equal(t, "venmo", page.PaymentMethods[0].Type)
		assert.Equal(t, "cashapp", page.PaymentMethods[1].Type)
	})

	t.Run("matches usernames case-insensitively", func(t *testing.T) {
		t.Parallel()
		f := newPageFixture(t)
		f.seedUser(t, "alice", "Alice", "")

		page, err := f.service.GetPublicPage(context.Background(), "  AlIcE ")
		require.NoError(t, err)
		assert.Equal(t, "alice", page.Username)
	})

	t.Run("excludes inactive methods", func(t *testing.T) {
		t.Parallel()
		f := newPageFixture(t)
		userID := f.seedUser(t, "bob", "Bob", "")

		f.addMethod(t, userID, "venmo", 0, true)
		hidden := f.addMethod(t, userID, "zelle", 1, false)

		page, err := f.service.GetPublicPage(context.Background(), "bob")
		require.NoError(t, err)

		require.Len(t, page.PaymentMethods, 1)
		for _, m := range page.PaymentMethods {
			assert.NotEqual(t, hidden.ID, m.ID)
		}
	})

	t.Run("orders methods by sort order", func(t *testing.T) {
		t.Parallel()
		f := newPageFixture(t)
		userID := f.seedUser(t, "carol", "Carol", "")

		f.addMethod(t, userID, "paypal", 2, true)
		f.addMethod(t, userID, "venmo", 0, true)
		f.addMethod(t, userID, "cashapp", 1, true)

		page, err := f.service.GetPublicPage(context.Background(), "carol")
		require.NoError(t, err)

		require.Len(t, page.PaymentMethods, 3)
		assert.Equal(t, []int{0, 1, 2}, []int{
			page.PaymentMethods[0].SortOrder,
			page.PaymentMethods[1].SortOrder,
			page.PaymentMethods[2].SortOrder,
		})
	})

	t.Run("falls back to the registration name when display name is empty", func(t *testing.T) {
		t.Parallel()
		f := newPageFixture(t)
		f.seedUser(t, "dave", "", "Dave Jones")

		page, err := f.service.GetPublicPage(context.Background(), "dave")
		require.NoError(t, err)
		assert.Equal(t, "Dave Jones", page.DisplayName)
	})

	t.Run("returns not found for unknown usernames", func(t *testing.T) {
		t.Parallel()
		f := newPageFixture(t)

		_, err := f.service.GetPublicPage(context.Background(), "nobody")
		assert.ErrorIs(t, err, store.ErrProfileNotFound)
	})

	t.Run("never exposes owner identifiers beyond the method id", func(t *testing.T) {
		t.Parallel()
		f := newPageFixture(t)
		userID := f.seedUser(t, "erin", "Erin", "")
		f.addMethod(t, userID, "venmo", 0, true)

		page, err := f.service.GetPublicPage(context.Background(), "erin")
		require.NoError(t, err)

		// The public projection carries no user id or active flag; this is
		// a compile-time property of PublicPaymentMethod, asserted here for
		// the serialized fields that do exist.
		require.Len(t, page.PaymentMethods, 1)
		assert.NotEqual(t, uuid.Nil, page.PaymentMethods[0].ID)
		assert.Equal(t, "@handle", page.PaymentMethods[0].Handle)
	})
}
