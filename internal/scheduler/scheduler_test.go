package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartRejectsInvalidCronExpression(t *testing.T) {
	sched, err := NewScheduler(nil, "not a cron expression")
	require.NoError(t, err)
	defer sched.Stop()

	assert.Error(t, sched.Start())
}

func TestStartValidCronExpression(t *testing.T) {
	sched, err := NewScheduler(nil, "30 7 * * 2")
	require.NoError(t, err)

	require.NoError(t, sched.Start())
	assert.NoError(t, sched.Stop())
}
