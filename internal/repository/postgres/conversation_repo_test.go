package postgres_test

import (
	"context"
	"sync"
	"testing"

	"github.com/dom/bandmates/internal/domain"
	"github.com/dom/bandmates/internal/repository/postgres"
	"github.com/dom/bandmates/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationRepository_FindOrCreate(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewConversationRepository(testDB.DB)
	ctx := context.Background()

	alice, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	riot, _ := testutil.NewUserBuilder().AsBand("punk").Build(t, testDB.DB)

	key, err := domain.NewPairKey(riot.ID, alice.ID)
	require.NoError(t, err)

	first, created, err := repo.FindOrCreate(ctx, key)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, key.Low, first.ParticipantLow)
	assert.Equal(t, key.High, first.ParticipantHigh)

	second, created, err := repo.FindOrCreate(ctx, key)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	found, err := repo.GetByPair(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	assert.Equal(t, int64(1), testDB.Count(t, "conversation_rooms"))
}

func TestConversationRepository_FindOrCreate_UnknownUser(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewConversationRepository(testDB.DB)
	ctx := context.Background()

	alice, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	key, err := domain.NewPairKey(alice.ID, alice.ID+100)
	require.NoError(t, err)

	_, _, err = repo.FindOrCreate(ctx, key)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Equal(t, int64(0), testDB.Count(t, "conversation_rooms"))
}

func TestConversationRepository_FindOrCreate_Concurrent(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewConversationRepository(testDB.DB)
	ctx := context.Background()

	alice, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	riot, _ := testutil.NewUserBuilder().AsBand("punk").Build(t, testDB.DB)

	const workers = 16
	ids := make([]int64, workers)
	createdCount := make([]bool, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Half the callers pass the pair reversed.
			a, b := alice.ID, riot.ID
			if i%2 == 1 {
				a, b = b, a
			}
			key, err := domain.NewPairKey(a, b)
			if err != nil {
				t.Errorf("pair key: %v", err)
				return
			}
			room, created, err := repo.FindOrCreate(ctx, key)
			if err != nil {
				t.Errorf("find or create: %v", err)
				return
			}
			ids[i] = room.ID
			createdCount[i] = created
		}(i)
	}
	wg.Wait()

	creators := 0
	for i := range ids {
		assert.Equal(t, ids[0], ids[i], "every caller sees the same room")
		if createdCount[i] {
			creators++
		}
	}
	assert.Equal(t, 1, creators)
	assert.Equal(t, int64(1), testDB.Count(t, "conversation_rooms"))
}

func TestConversationRepository_ListByUserID(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewConversationRepository(testDB.DB)
	ctx := context.Background()

	alice, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	bob, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	riot, _ := testutil.NewUserBuilder().AsBand("punk").Build(t, testDB.DB)

	for _, pair := range [][2]int64{{alice.ID, bob.ID}, {riot.ID, alice.ID}} {
		key, err := domain.NewPairKey(pair[0], pair[1])
		require.NoError(t, err)
		_, _, err = repo.FindOrCreate(ctx, key)
		require.NoError(t, err)
	}

	rooms, err := repo.ListByUserID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, rooms, 2)

	rooms, err = repo.ListByUserID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, rooms, 1)

	_, err = repo.GetByPair(ctx, domain.PairKey{Low: bob.ID, High: riot.ID})
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}
