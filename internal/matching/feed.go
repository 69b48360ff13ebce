package matching

import "context"

// DiscoverFeed returns the candidate actors the given actor may still
// propose to: never itself, never an actor sharing its owner, and never an
// actor it already has a match record with - in either orientation and any
// status, so a rejected pair is not re-offered. Ordering is whatever the
// source returns; ranking is a presentation concern.
func (e *Engine) DiscoverFeed(ctx context.Context, actorID uint) ([]Actor, error) {
	self, err := e.actors.GetActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	matches, err := e.repo.GetMatchesForActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	paired := make(map[uint]struct{}, len(matches))
	for i := range matches {
		paired[matches[i].Counterpart(actorID)] = struct{}{}
	}

	var feed []Actor
	for offset := 0; ; offset += e.pageSize {
		page, err := e.actors.ListActors(ctx, e.pageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, cand := range page {
			if cand.ID == self.ID || cand.OwnerID == self.OwnerID {
				continue
			}
			if _, ok := paired[cand.ID]; ok {
				continue
			}
			feed = append(feed, cand)
		}
		if len(page) < e.pageSize {
			return feed, nil
		}
	}
}

// PendingForActor returns matches awaiting this actor's decision: aggregate
// PENDING with the actor on the side still holding PENDING. Matches where
// the actor is the initiator waiting on the other party are a distinct
// sub-view (AwaitingOtherParty) and are never merged in here.
func (e *Engine) PendingForActor(ctx context.Context, actorID uint) ([]Match, error) {
	matches, err := e.repo.GetMatchesForActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		if m.Aggregate() == AggregatePending && m.ActorB == actorID {
			out = append(out, m)
		}
	}
	return out, nil
}

// AwaitingOtherParty returns matches this actor proposed that the other
// side has not yet decided.
func (e *Engine) AwaitingOtherParty(ctx context.Context, actorID uint) ([]Match, error) {
	matches, err := e.repo.GetMatchesForActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		if m.Aggregate() == AggregatePending && m.ActorA == actorID {
			out = append(out, m)
		}
	}
	return out, nil
}

// ConfirmedForActor returns matches with aggregate MATCHED involving the
// actor. At most one record can exist per pair by construction; the dedupe
// by unordered pair key is a consistency backstop, not an expected path.
func (e *Engine) ConfirmedForActor(ctx context.Context, actorID uint) ([]Match, error) {
	matches, err := e.repo.GetMatchesForActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	seen := make(map[[2]uint]struct{}, len(matches))
	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		if m.Aggregate() != AggregateMatched {
			continue
		}
		key := pairKey(m.ActorA, m.ActorB)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
	}
	return out, nil
}

func pairKey(a, b uint) [2]uint {
	if a > b {
		a, b = b, a
	}
	return [2]uint{a, b}
}
