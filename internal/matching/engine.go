package matching

import (
	"context"
	"fmt"
	"time"
)

// Repository is the durable storage surface the engine depends on. It is
// consumed, never implemented, by this package. Implementations must make
// CreateMatch atomic and enforce at-most-one record per unordered pair.
type Repository interface {
	// CreateMatch persists a new match with actorA as proposer. Returns
	// ErrDuplicatePair if a record already exists in either orientation.
	CreateMatch(ctx context.Context, actorA, actorB uint) (*Match, error)
	// GetMatch returns the match or ErrNotFound.
	GetMatch(ctx context.Context, matchID uint) (*Match, error)
	// GetMatchesForActor returns every match where the actor appears on
	// either side, regardless of status.
	GetMatchesForActor(ctx context.Context, actorID uint) ([]Match, error)
	// UpdateMatchStatus conditionally sets one side's status. Returns
	// ErrStaleWrite when expectedUpdatedAt no longer matches the stored
	// token, ErrNotFound when the match does not exist.
	UpdateMatchStatus(ctx context.Context, matchID uint, side Side, status Status, expectedUpdatedAt time.Time) (*Match, error)
}

// ActorSource is a read-only, possibly paged source of matchable actors.
// Implementations return ErrSourceUnavailable on reachability failures
// rather than an empty page, so callers can tell "no candidates" from
// "could not determine candidates".
type ActorSource interface {
	GetActor(ctx context.Context, actorID uint) (*Actor, error)
	// ListActors returns up to limit actors starting at offset. A short
	// page signals the end of the universe.
	ListActors(ctx context.Context, limit, offset int) ([]Actor, error)
}

// Sink receives the confirmed-match event. The engine calls it exactly once
// per match, on the transition into MATCHED; retried responds after success
// are no-ops and do not re-emit.
type Sink interface {
	MatchConfirmed(ctx context.Context, ev ConfirmedEvent)
}

// Engine drives propose/respond transitions and assembles the actor-scoped
// feeds. It holds no mutable state of its own; per-match serialization is
// delegated to the repository's conditional update.
type Engine struct {
	repo     Repository
	actors   ActorSource
	sink     Sink
	pageSize int
}

const defaultPageSize = 100

func NewEngine(repo Repository, actors ActorSource, sink Sink) *Engine {
	return &Engine{repo: repo, actors: actors, sink: sink, pageSize: defaultPageSize}
}

// SetFeedPageSize overrides the candidate page size used by DiscoverFeed.
// Values below 1 are ignored.
func (e *Engine) SetFeedPageSize(n int) {
	if n > 0 {
		e.pageSize = n
	}
}

// Propose creates a match with the initiator as SideA (implicitly accepted)
// and the target as SideB (pending). This is the only way a match comes
// into existence; there is no simultaneous mutual propose.
func (e *Engine) Propose(ctx context.Context, initiatorID, targetID uint) (*Match, error) {
	if initiatorID == targetID {
		return nil, ErrSelfMatch
	}
	initiator, err := e.actors.GetActor(ctx, initiatorID)
	if err != nil {
		return nil, err
	}
	target, err := e.actors.GetActor(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if initiator.OwnerID == target.OwnerID {
		return nil, ErrSelfMatch
	}
	existing, err := e.repo.GetMatchesForActor(ctx, initiatorID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].Involves(targetID) {
			return nil, ErrDuplicatePair
		}
	}
	// The repository may still report a duplicate here if a racing propose
	// won between the check above and the insert.
	return e.repo.CreateMatch(ctx, initiatorID, targetID)
}

// Respond records the responder's decision. Only SideB may respond; SideA
// committed ACCEPTED at propose time. A repeated respond with the same
// decision after finalization returns the finalized match without error and
// without re-emitting the confirmed event.
func (e *Engine) Respond(ctx context.Context, matchID, respondingActorID uint, decision Decision) (*Match, error) {
	if decision != DecisionAccept && decision != DecisionReject {
		return nil, fmt.Errorf("unknown decision %q", decision)
	}
	m, err := e.repo.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !m.Involves(respondingActorID) {
		return nil, ErrNotFound
	}
	if m.ActorA == respondingActorID {
		return nil, ErrNotRespondersTurn
	}
	switch m.Aggregate() {
	case AggregateMatched:
		if decision == DecisionAccept {
			return m, nil // idempotent retry of the accept that won
		}
		return nil, ErrMatchFinalized
	case AggregateRejected:
		if decision == DecisionReject && m.StatusB == StatusRejected {
			return m, nil
		}
		return nil, ErrMatchFinalized
	}
	status := StatusAccepted
	if decision == DecisionReject {
		status = StatusRejected
	}
	updated, err := e.repo.UpdateMatchStatus(ctx, matchID, SideB, status, m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if updated.Aggregate() == AggregateMatched && e.sink != nil {
		// Only the call that won the conditional update reaches this point,
		// so the event fires once per match.
		e.sink.MatchConfirmed(ctx, ConfirmedEvent{
			MatchID:    updated.ID,
			ActorA:     updated.ActorA,
			ActorB:     updated.ActorB,
			OccurredAt: updated.UpdatedAt,
		})
	}
	return updated, nil
}
