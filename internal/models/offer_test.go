package models

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunStats(t *testing.T) {
	s := NewRunStats()

	_, err := uuid.Parse(s.RunID)
	require.NoError(t, err)
	assert.False(t, s.StartedAt.IsZero())
	assert.Nil(t, s.FinishedAt)
	assert.NotEqual(t, s.RunID, NewRunStats().RunID)
}

func TestRunStatsFinish(t *testing.T) {
	s := NewRunStats()
	s.StartedAt = time.Now().Add(-time.Minute)

	s.Finish(errors.New("boom"))

	require.NotNil(t, s.FinishedAt)
	assert.Equal(t, "boom", s.Error)
	assert.GreaterOrEqual(t, s.Duration(), time.Minute)

	ok := NewRunStats()
	ok.Finish(nil)
	assert.Empty(t, ok.Error)
}
