package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMatchPairKeyIsOrderInsensitive(t *testing.T) {
	assert.Equal(t, "3:7", MatchPairKey(3, 7))
	assert.Equal(t, "3:7", MatchPairKey(7, 3))
	assert.Equal(t, MatchPairKey(1, 2), MatchPairKey(2, 1))
	assert.NotEqual(t, MatchPairKey(1, 2), MatchPairKey(1, 3))
}

func TestPetAgeYears(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	var noDOB Pet
	assert.Equal(t, 0, noDOB.AgeYears(now))

	birthday := time.Date(2020, 9, 15, 0, 0, 0, 0, time.UTC)
	p := Pet{BirthDate: &birthday}
	// Birthday has not come around yet this year.
	assert.Equal(t, 5, p.AgeYears(now))

	earlier := time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC)
	q := Pet{BirthDate: &earlier}
	assert.Equal(t, 6, q.AgeYears(now))
}
