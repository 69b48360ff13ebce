package matching

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRepo is an in-memory Repository with the same conditional-update
// contract the production store provides.
type memRepo struct {
	mu      sync.Mutex
	nextID  uint
	clock   time.Time
	matches map[uint]*Match
}

func newMemRepo() *memRepo {
	return &memRepo{
		clock:   time.Unix(1_700_000_000, 0).UTC(),
		matches: make(map[uint]*Match),
	}
}

func (r *memRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *memRepo) CreateMatch(_ context.Context, actorA, actorB uint) (*Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.matches {
		if m.Involves(actorA) && m.Involves(actorB) {
			return nil, ErrDuplicatePair
		}
	}
	r.nextID++
	now := r.tick()
	m := &Match{
		ID:        r.nextID,
		ActorA:    actorA,
		ActorB:    actorB,
		StatusA:   StatusAccepted,
		StatusB:   StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.matches[m.ID] = m
	cp := *m
	return &cp, nil
}

func (r *memRepo) GetMatch(_ context.Context, matchID uint) (*Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[matchID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *memRepo) GetMatchesForActor(_ context.Context, actorID uint) ([]Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Match
	for _, m := range r.matches {
		if m.Involves(actorID) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *memRepo) UpdateMatchStatus(_ context.Context, matchID uint, side Side, status Status, expectedUpdatedAt time.Time) (*Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[matchID]
	if !ok {
		return nil, ErrNotFound
	}
	if !m.UpdatedAt.Equal(expectedUpdatedAt) {
		return nil, ErrStaleWrite
	}
	if side == SideA {
		m.StatusA = status
	} else {
		m.StatusB = status
	}
	m.UpdatedAt = r.tick()
	cp := *m
	return &cp, nil
}

// memSource serves a fixed actor universe; flipping down simulates an
// unreachable source.
type memSource struct {
	actors []Actor
	down   bool
}

func (s *memSource) GetActor(_ context.Context, actorID uint) (*Actor, error) {
	if s.down {
		return nil, ErrSourceUnavailable
	}
	for _, a := range s.actors {
		if a.ID == actorID {
			cp := a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memSource) ListActors(_ context.Context, limit, offset int) ([]Actor, error) {
	if s.down {
		return nil, ErrSourceUnavailable
	}
	if offset >= len(s.actors) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.actors) {
		end = len(s.actors)
	}
	return s.actors[offset:end], nil
}

type memSink struct {
	events []ConfirmedEvent
}

func (s *memSink) MatchConfirmed(_ context.Context, ev ConfirmedEvent) {
	s.events = append(s.events, ev)
}

func newTestEngine(actors ...Actor) (*Engine, *memRepo, *memSource, *memSink) {
	repo := newMemRepo()
	src := &memSource{actors: actors}
	sink := &memSink{}
	return NewEngine(repo, src, sink), repo, src, sink
}

func TestAggregateTable(t *testing.T) {
	cases := []struct {
		statusA, statusB Status
		want             Aggregate
	}{
		{StatusAccepted, StatusPending, AggregatePending},
		{StatusAccepted, StatusAccepted, AggregateMatched},
		{StatusAccepted, StatusRejected, AggregateRejected},
		{StatusRejected, StatusPending, AggregateRejected},
		{StatusRejected, StatusAccepted, AggregateRejected},
		{StatusRejected, StatusRejected, AggregateRejected},
	}
	for _, tc := range cases {
		m := &Match{StatusA: tc.statusA, StatusB: tc.statusB}
		assert.Equal(t, tc.want, m.Aggregate(), "(%s,%s)", tc.statusA, tc.statusB)
	}
}

func TestProposeCreatesPendingMatch(t *testing.T) {
	eng, _, _, _ := newTestEngine(Actor{ID: 1, OwnerID: 10}, Actor{ID: 2, OwnerID: 20})
	ctx := context.Background()

	m, err := eng.Propose(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(1), m.ActorA)
	assert.Equal(t, uint(2), m.ActorB)
	assert.Equal(t, StatusAccepted, m.StatusA)
	assert.Equal(t, StatusPending, m.StatusB)
	assert.Equal(t, AggregatePending, m.Aggregate())
}

func TestProposeSelfMatch(t *testing.T) {
	eng, _, _, _ := newTestEngine(
		Actor{ID: 1, OwnerID: 10},
		Actor{ID: 3, OwnerID: 5},
		Actor{ID: 4, OwnerID: 5},
	)
	ctx := context.Background()

	_, err := eng.Propose(ctx, 1, 1)
	assert.ErrorIs(t, err, ErrSelfMatch)

	// Two actors of the same owner must not match regardless of other state.
	_, err = eng.Propose(ctx, 3, 4)
	assert.ErrorIs(t, err, ErrSelfMatch)
}

func TestProposeUnknownActor(t *testing.T) {
	eng, _, _, _ := newTestEngine(Actor{ID: 1, OwnerID: 10})
	_, err := eng.Propose(context.Background(), 1, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProposeDuplicatePair(t *testing.T) {
	eng, _, _, _ := newTestEngine(Actor{ID: 1, OwnerID: 10}, Actor{ID: 2, OwnerID: 20})
	ctx := context.Background()

	_, err := eng.Propose(ctx, 1, 2)
	require.NoError(t, err)

	_, err = eng.Propose(ctx, 1, 2)
	assert.ErrorIs(t, err, ErrDuplicatePair)

	// Role-reversed proposal is the same unordered pair.
	_, err = eng.Propose(ctx, 2, 1)
	assert.ErrorIs(t, err, ErrDuplicatePair)
}

func TestRespondAcceptConfirmsOnce(t *testing.T) {
	eng, _, _, sink := newTestEngine(Actor{ID: 1, OwnerID: 10}, Actor{ID: 2, OwnerID: 20})
	ctx := context.Background()

	m, err := eng.Propose(ctx, 1, 2)
	require.NoError(t, err)

	accepted, err := eng.Respond(ctx, m.ID, 2, DecisionAccept)
	require.NoError(t, err)
	assert.Equal(t, AggregateMatched, accepted.Aggregate())
	require.Len(t, sink.events, 1)
	assert.Equal(t, m.ID, sink.events[0].MatchID)
	assert.Equal(t, uint(1), sink.events[0].ActorA)
	assert.Equal(t, uint(2), sink.events[0].ActorB)
	assert.False(t, sink.events[0].OccurredAt.IsZero())

	// Retried identical respond is a no-op: same finalized match, no second event.
	again, err := eng.Respond(ctx, m.ID, 2, DecisionAccept)
	require.NoError(t, err)
	assert.Equal(t, accepted.UpdatedAt, again.UpdatedAt)
	assert.Equal(t, AggregateMatched, again.Aggregate())
	assert.Len(t, sink.events, 1)
}

func TestRespondRejectIsAbsorbing(t *testing.T) {
	eng, _, _, sink := newTestEngine(Actor{ID: 1, OwnerID: 10}, Actor{ID: 2, OwnerID: 20})
	ctx := context.Background()

	m, err := eng.Propose(ctx, 1, 2)
	require.NoError(t, err)

	rejected, err := eng.Respond(ctx, m.ID, 2, DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, AggregateRejected, rejected.Aggregate())
	assert.Empty(t, sink.events)

	// Identical retry is idempotent success.
	again, err := eng.Respond(ctx, m.ID, 2, DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, AggregateRejected, again.Aggregate())

	// Conflicting decision after finalization is an error, never a transition.
	_, err = eng.Respond(ctx, m.ID, 2, DecisionAccept)
	assert.ErrorIs(t, err, ErrMatchFinalized)
	assert.Empty(t, sink.events)
}

func TestRespondNotRespondersTurn(t *testing.T) {
	eng, _, _, _ := newTestEngine(
		Actor{ID: 1, OwnerID: 10},
		Actor{ID: 2, OwnerID: 20},
		Actor{ID: 3, OwnerID: 30},
	)
	ctx := context.Background()

	m, err := eng.Propose(ctx, 1, 2)
	require.NoError(t, err)

	_, err = eng.Respond(ctx, m.ID, 1, DecisionAccept)
	assert.ErrorIs(t, err, ErrNotRespondersTurn)

	// An actor not on either side sees the match as not found.
	_, err = eng.Respond(ctx, m.ID, 3, DecisionAccept)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = eng.Respond(ctx, 999, 2, DecisionAccept)
	assert.ErrorIs(t, err, ErrNotFound)
}

// staleRepo returns one stale snapshot from GetMatch to model a respond
// racing against a concurrent winner.
type staleRepo struct {
	*memRepo
	stale *Match
}

func (r *staleRepo) GetMatch(ctx context.Context, matchID uint) (*Match, error) {
	if r.stale != nil && r.stale.ID == matchID {
		cp := *r.stale
		r.stale = nil
		return &cp, nil
	}
	return r.memRepo.GetMatch(ctx, matchID)
}

func TestRespondLosesRaceStaleWrite(t *testing.T) {
	repo := newMemRepo()
	src := &memSource{actors: []Actor{{ID: 1, OwnerID: 10}, {ID: 2, OwnerID: 20}}}
	sink := &memSink{}
	sr := &staleRepo{memRepo: repo}
	eng := NewEngine(sr, src, sink)
	ctx := context.Background()

	m, err := eng.Propose(ctx, 1, 2)
	require.NoError(t, err)

	// The winner commits first; the loser still holds the pre-commit snapshot.
	sr.stale = m
	_, err = repo.UpdateMatchStatus(ctx, m.ID, SideB, StatusAccepted, m.UpdatedAt)
	require.NoError(t, err)

	_, err = eng.Respond(ctx, m.ID, 2, DecisionReject)
	assert.ErrorIs(t, err, ErrStaleWrite)
	// The losing call must not have emitted anything.
	assert.Empty(t, sink.events)
}
