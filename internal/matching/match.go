// Package matching implements the two-sided mutual match engine: a pet
// proposes a pairing, the other side accepts or rejects, and the aggregate
// outcome is derived from the two per-side statuses. Storage, the candidate
// source and the confirmed-match sink are supplied by the caller.
package matching

import "time"

// Status is the per-side decision state of a match.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
)

// Aggregate is the derived overall state of a match. It is never stored;
// it is always recomputed from the two side statuses.
type Aggregate string

const (
	AggregatePending  Aggregate = "PENDING"
	AggregateMatched  Aggregate = "MATCHED"
	AggregateRejected Aggregate = "REJECTED"
)

// Side identifies a positional side of a match record. The proposer is
// always SideA and commits ACCEPTED at propose time; SideB starts PENDING.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// Decision is a responder's answer to a proposed match.
type Decision string

const (
	DecisionAccept Decision = "ACCEPT"
	DecisionReject Decision = "REJECT"
)

// Actor is a matchable pet profile. OwnerID scopes the no-same-owner rule.
type Actor struct {
	ID      uint
	OwnerID uint
}

// Match is a proposed or resolved pairing between two distinct actors.
// ActorA is the proposer. UpdatedAt doubles as the optimistic-concurrency
// token for conditional status updates.
type Match struct {
	ID        uint
	ActorA    uint
	ActorB    uint
	StatusA   Status
	StatusB   Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Aggregate derives the overall match state. Rejection by either side is
// absorbing: once REJECTED, the match never transitions again.
func (m *Match) Aggregate() Aggregate {
	if m.StatusA == StatusRejected || m.StatusB == StatusRejected {
		return AggregateRejected
	}
	if m.StatusA == StatusAccepted && m.StatusB == StatusAccepted {
		return AggregateMatched
	}
	return AggregatePending
}

// Involves reports whether the actor appears on either side.
func (m *Match) Involves(actorID uint) bool {
	return m.ActorA == actorID || m.ActorB == actorID
}

// Counterpart returns the other side's actor for the given actor.
// Caller must ensure Involves(actorID).
func (m *Match) Counterpart(actorID uint) uint {
	if m.ActorA == actorID {
		return m.ActorB
	}
	return m.ActorA
}

// ConfirmedEvent is emitted to the Sink exactly once when a match
// transitions into MATCHED.
type ConfirmedEvent struct {
	MatchID    uint
	ActorA     uint
	ActorB     uint
	OccurredAt time.Time
}
