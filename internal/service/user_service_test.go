package service_test

import (
	"context"
	"testing"

	"github.com/dom/bandmates/internal/domain"
	"github.com/dom/bandmates/internal/repository/postgres"
	"github.com/dom/bandmates/internal/service"
	"github.com/dom/bandmates/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServices(t *testing.T, testDB *testutil.TestDB) *service.Services {
	t.Helper()

	repos := postgres.NewRepositories(testDB.DB, nil)
	services, err := service.NewServices(repos, testutil.TestConfig(), zerolog.Nop())
	require.NoError(t, err)
	return services
}

func TestUserService_DeleteUser(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	services := newServices(t, testDB)
	ctx := context.Background()

	alice, alicePassword := testutil.NewUserBuilder().WithFullName("Alice").Build(t, testDB.DB)
	riot, riotPassword := testutil.NewUserBuilder().WithFullName("Riot").AsBand("punk").Build(t, testDB.DB)

	roomID, err := services.Conversation.Resolve(ctx, alice.ID, riot.ID)
	require.NoError(t, err)
	require.NotZero(t, roomID)

	riotSession, err := services.Auth.Authenticate(ctx, riot.Email, riotPassword)
	require.NoError(t, err)
	_, err = services.Auth.Authenticate(ctx, alice.Email, alicePassword)
	require.NoError(t, err)

	result, err := services.User.DeleteUser(ctx, riot.ID)
	require.NoError(t, err)
	assert.Equal(t, riot.ID, result.UserID)
	// room, band profile, session, user
	assert.Equal(t, int64(4), result.RowsAffected)

	_, err = services.User.Get(ctx, riot.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = services.Auth.Lookup(ctx, riotSession.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated, "sessions of a deleted user stop working")

	_, err = services.Auth.Authenticate(ctx, riot.Email, riotPassword)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	candidates, err := services.Conversation.ListCandidates(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, candidates)

	rooms, err := services.Conversation.ListRooms(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, rooms)

	t.Run("second delete is not found", func(t *testing.T) {
		_, err := services.User.DeleteUser(ctx, riot.ID)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		assert.Equal(t, int64(1), testDB.Count(t, "users"))
	})

	t.Run("invalid id", func(t *testing.T) {
		_, err := services.User.DeleteUser(ctx, 0)
		assert.ErrorIs(t, err, service.ErrInvalidUserID)
	})
}

func TestUserService_DeleteThenResolve(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	services := newServices(t, testDB)
	ctx := context.Background()

	alice, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	riot, _ := testutil.NewUserBuilder().AsBand("punk").Build(t, testDB.DB)

	_, err := services.User.DeleteUser(ctx, riot.ID)
	require.NoError(t, err)

	_, err = services.Conversation.Resolve(ctx, alice.ID, riot.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Equal(t, int64(0), testDB.Count(t, "conversation_rooms"))
}

func TestUserService_Update(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	services := newServices(t, testDB)
	ctx := context.Background()

	alice, _ := testutil.NewUserBuilder().WithEmail("alice@example.com").Build(t, testDB.DB)
	testutil.NewUserBuilder().WithEmail("bob@example.com").Build(t, testDB.DB)

	updated, err := services.User.Update(ctx, alice.ID, service.UpdateUserInput{
		FullName: " Alice Bianchi ",
		Email:    "ALICE.B@example.com",
		Location: "Napoli",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Bianchi", updated.FullName)
	assert.Equal(t, "alice.b@example.com", updated.Email)
	assert.Equal(t, domain.UserTypeMusician, updated.UserType)

	_, err = services.User.Update(ctx, alice.ID, service.UpdateUserInput{FullName: "A", Email: "bob@example.com", Location: "x"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = services.User.Update(ctx, alice.ID, service.UpdateUserInput{FullName: "A", Email: "not-an-email", Location: "x"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Field)

	_, err = services.User.Update(ctx, 9999, service.UpdateUserInput{FullName: "A", Email: "ghost@example.com", Location: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserService_PromoteAdmin(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	services := newServices(t, testDB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().WithEmail("boss@example.com").Build(t, testDB.DB)

	promoted, err := services.User.PromoteAdmin(ctx, "Boss@Example.com")
	require.NoError(t, err)
	assert.True(t, promoted)

	stored, err := services.User.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, stored.Role)

	promoted, err = services.User.PromoteAdmin(ctx, "boss@example.com")
	require.NoError(t, err)
	assert.True(t, promoted, "promotion is idempotent")

	promoted, err = services.User.PromoteAdmin(ctx, "missing@example.com")
	require.NoError(t, err)
	assert.False(t, promoted)
}

func TestRegistrationService_Integration(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	services := newServices(t, testDB)
	ctx := context.Background()

	id, err := services.Registration.Register(ctx, service.RegisterInput{
		UserType:   "musician",
		FullName:   "Alice",
		Email:      "Alice@Example.com",
		Password:   "secret1",
		Location:   "Torino",
		Instrument: "bass",
	})
	require.NoError(t, err)

	_, err = services.Registration.Register(ctx, service.RegisterInput{
		UserType: "band",
		FullName: "Impostor",
		Email:    "alice@example.com ",
		Password: "secret1",
		Location: "Roma",
		Genre:    "punk",
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.Equal(t, int64(1), testDB.Count(t, "users"))
	assert.Equal(t, int64(0), testDB.Count(t, "band_profiles"))

	session, err := services.Auth.Authenticate(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, id, session.UserID)
	assert.Equal(t, domain.RoleUser, session.Role)
}

func TestScenario_AliceAndRiot(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	services := newServices(t, testDB)
	ctx := context.Background()

	aliceID, err := services.Registration.Register(ctx, service.RegisterInput{
		UserType:   "musician",
		FullName:   "Alice",
		Email:      "alice@example.com",
		Password:   "secret1",
		Location:   "Torino",
		Instrument: "Guitar",
	})
	require.NoError(t, err)

	riotID, err := services.Registration.Register(ctx, service.RegisterInput{
		UserType: "band",
		FullName: "Riot",
		Email:    "riot@example.com",
		Password: "secret1",
		Location: "Roma",
		Genre:    "Rock",
	})
	require.NoError(t, err)

	room, err := services.Conversation.Resolve(ctx, aliceID, riotID)
	require.NoError(t, err)

	same, err := services.Conversation.Resolve(ctx, riotID, aliceID)
	require.NoError(t, err)
	assert.Equal(t, room, same)

	_, err = services.User.DeleteUser(ctx, aliceID)
	require.NoError(t, err)

	rooms, err := services.Conversation.ListRooms(ctx, riotID)
	require.NoError(t, err)
	assert.Empty(t, rooms)
	assert.Equal(t, int64(0), testDB.Count(t, "conversation_rooms"))
	assert.Equal(t, int64(0), testDB.Count(t, "musician_profiles"))
	assert.Equal(t, int64(1), testDB.Count(t, "band_profiles"))
}
