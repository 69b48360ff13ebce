package matching

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedIDs(actors []Actor) []uint {
	ids := make([]uint, len(actors))
	for i, a := range actors {
		ids[i] = a.ID
	}
	return ids
}

func TestDiscoverFeedExclusions(t *testing.T) {
	eng, _, _, _ := newTestEngine(
		Actor{ID: 1, OwnerID: 10},
		Actor{ID: 2, OwnerID: 10}, // same owner as 1
		Actor{ID: 3, OwnerID: 20},
		Actor{ID: 4, OwnerID: 30},
		Actor{ID: 5, OwnerID: 40},
	)
	ctx := context.Background()

	// 1 already proposed to 3; 5 proposed to 1 and was rejected.
	_, err := eng.Propose(ctx, 1, 3)
	require.NoError(t, err)
	m, err := eng.Propose(ctx, 5, 1)
	require.NoError(t, err)
	_, err = eng.Respond(ctx, m.ID, 1, DecisionReject)
	require.NoError(t, err)

	feed, err := eng.DiscoverFeed(ctx, 1)
	require.NoError(t, err)
	// Not itself, not its owner's other pet, not the pending pair (3),
	// not the rejected pair (5) - rejection never re-offers.
	assert.Equal(t, []uint{4}, feedIDs(feed))
}

func TestDiscoverFeedPagesThroughSource(t *testing.T) {
	actors := []Actor{{ID: 1, OwnerID: 1}}
	for i := uint(2); i <= 251; i++ {
		actors = append(actors, Actor{ID: i, OwnerID: i})
	}
	eng, _, _, _ := newTestEngine(actors...)

	feed, err := eng.DiscoverFeed(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, feed, 250)
}

func TestDiscoverFeedSourceUnavailable(t *testing.T) {
	eng, _, src, _ := newTestEngine(Actor{ID: 1, OwnerID: 10})
	src.down = true

	feed, err := eng.DiscoverFeed(context.Background(), 1)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Nil(t, feed)
}

func TestDiscoverFeedEmptyIsNotAnError(t *testing.T) {
	eng, _, _, _ := newTestEngine(Actor{ID: 1, OwnerID: 10})
	feed, err := eng.DiscoverFeed(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestPendingAndAwaitingAreDistinctViews(t *testing.T) {
	eng, _, _, _ := newTestEngine(
		Actor{ID: 1, OwnerID: 10},
		Actor{ID: 2, OwnerID: 20},
		Actor{ID: 3, OwnerID: 30},
	)
	ctx := context.Background()

	proposed, err := eng.Propose(ctx, 1, 2) // 1 awaits 2
	require.NoError(t, err)
	incoming, err := eng.Propose(ctx, 3, 1) // 1 must decide on 3
	require.NoError(t, err)

	pending, err := eng.PendingForActor(ctx, 1)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, incoming.ID, pending[0].ID)

	awaiting, err := eng.AwaitingOtherParty(ctx, 1)
	require.NoError(t, err)
	require.Len(t, awaiting, 1)
	assert.Equal(t, proposed.ID, awaiting[0].ID)

	// The counterpart sees the mirror image.
	pending2, err := eng.PendingForActor(ctx, 2)
	require.NoError(t, err)
	require.Len(t, pending2, 1)
	assert.Equal(t, proposed.ID, pending2[0].ID)
}

func TestConfirmedForActorScenario(t *testing.T) {
	eng, _, _, sink := newTestEngine(
		Actor{ID: 1, OwnerID: 10},
		Actor{ID: 2, OwnerID: 20},
	)
	ctx := context.Background()

	m, err := eng.Propose(ctx, 1, 2)
	require.NoError(t, err)
	_, err = eng.Respond(ctx, m.ID, 2, DecisionAccept)
	require.NoError(t, err)
	require.Len(t, sink.events, 1)

	for _, actorID := range []uint{1, 2} {
		confirmed, err := eng.ConfirmedForActor(ctx, actorID)
		require.NoError(t, err)
		require.Len(t, confirmed, 1, "actor %d", actorID)
		assert.Equal(t, m.ID, confirmed[0].ID)
	}

	// Pending views are now empty on both sides.
	pending, err := eng.PendingForActor(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, pending)
	awaiting, err := eng.AwaitingOtherParty(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, awaiting)
}

func TestConfirmedForActorDedupesByPair(t *testing.T) {
	eng, repo, _, _ := newTestEngine(
		Actor{ID: 1, OwnerID: 10},
		Actor{ID: 2, OwnerID: 20},
	)
	ctx := context.Background()

	// Inject two records for the same unordered pair directly, bypassing the
	// propose-path guard, to exercise the consistency backstop.
	now := time.Unix(1_700_000_100, 0).UTC()
	repo.matches[101] = &Match{ID: 101, ActorA: 1, ActorB: 2, StatusA: StatusAccepted, StatusB: StatusAccepted, CreatedAt: now, UpdatedAt: now}
	repo.matches[102] = &Match{ID: 102, ActorA: 2, ActorB: 1, StatusA: StatusAccepted, StatusB: StatusAccepted, CreatedAt: now, UpdatedAt: now}

	confirmed, err := eng.ConfirmedForActor(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, confirmed, 1)
}
