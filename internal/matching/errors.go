package matching

import "errors"

var (
	// ErrDuplicatePair - a match record already exists for the unordered
	// pair, in either orientation and any status.
	ErrDuplicatePair = errors.New("match already exists for this pair")

	// ErrSelfMatch - proposer and target are the same actor or share an owner.
	ErrSelfMatch = errors.New("cannot match an actor against itself or its owner's other actors")

	// ErrNotRespondersTurn - respond was called by the proposing side, which
	// already committed its acceptance at propose time.
	ErrNotRespondersTurn = errors.New("only the proposed-to side may respond")

	// ErrMatchFinalized - the match is already MATCHED or REJECTED and the
	// requested decision conflicts with the recorded outcome.
	ErrMatchFinalized = errors.New("match already finalized")

	// ErrStaleWrite - optimistic-concurrency conflict; caller should re-read
	// the match and retry if still applicable.
	ErrStaleWrite = errors.New("match was modified concurrently")

	// ErrNotFound - referenced match or actor does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSourceUnavailable - the actor source could not be reached; distinct
	// from an empty candidate set.
	ErrSourceUnavailable = errors.New("actor source unavailable")
)
