package mapview

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInvalidator_CoalescesBursts(t *testing.T) {
	var calls atomic.Int32
	inv := NewInvalidator(30*time.Millisecond, func() { calls.Add(1) })
	defer inv.Stop()

	for i := 0; i < 5; i++ {
		inv.Trigger()
		time.Sleep(5 * time.Millisecond)
	}
	assert.True(t, inv.Pending())

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, inv.Pending())
}

func TestInvalidator_StopCancelsPending(t *testing.T) {
	var calls atomic.Int32
	inv := NewInvalidator(20*time.Millisecond, func() { calls.Add(1) })

	inv.Trigger()
	inv.Stop()
	inv.Trigger()

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, calls.Load())
	assert.False(t, inv.Pending())
}
