package driver

import (
	"testing"

	"github.com/hsidd1/SDI-40-Simulation/entity"
	"github.com/hsidd1/SDI-40-Simulation/utils/config"
	"github.com/stretchr/testify/assert"
)

func TestLifecycle(t *testing.T) {
	timing := config.Default().Timing

	cases := []struct {
		name      string
		human     bool
		from, to  entity.Direction
		stop      float64
		crossing  float64
		maneuver  entity.Maneuver
	}{
		{"autonomous straight", false, entity.North, entity.South, 1, 2, entity.Straight},
		{"autonomous left", false, entity.East, entity.South, 1, 4, entity.LeftTurn},
		{"human straight", true, entity.West, entity.East, 2, 3, entity.Straight},
		{"human right", true, entity.South, entity.East, 2, 5, entity.RightTurn},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := New(3, 1.5, timing.ArrivalTime, tc.from, tc.to, tc.human)
			assert.Equal(t, entity.StateArrival, d.State())
			assert.Equal(t, 10.0, d.BusyTime())
			assert.Equal(t, tc.maneuver, d.Maneuver())
			assert.Nil(t, d.Node().Parent())
			assert.Equal(t, d, d.Node().Value)

			d.Stop(timing)
			assert.Equal(t, entity.StateStop, d.State())
			assert.Equal(t, tc.stop, d.BusyTime())

			d.Clear(timing)
			assert.Equal(t, entity.StateClear, d.State())
			assert.Equal(t, tc.crossing, d.BusyTime())

			d.Finish(20, entity.OutcomeNone)
			assert.True(t, d.Done())
			assert.False(t, d.Crashed())
			assert.Equal(t, 18.5, d.ElapsedTime())
			assert.Equal(t, entity.Record{
				ID: 3, Human: tc.human, StartTime: 1.5, ElapsedTime: 18.5,
				From: tc.from, To: tc.to, Crashed: false, Outcome: entity.OutcomeNone,
			}, d.Record())
		})
	}
}

func TestInvalidTransitions(t *testing.T) {
	timing := config.Default().Timing
	d := New(0, 0, 10, entity.North, entity.South, false)
	assert.Panics(t, func() { d.Clear(timing) })
	assert.Panics(t, func() { d.Finish(1, entity.OutcomeNone) })
	d.Stop(timing)
	assert.Panics(t, func() { d.Stop(timing) })
	d.Clear(timing)
	d.Finish(5, entity.OutcomeFatal)
	assert.True(t, d.Crashed())
	assert.Panics(t, func() { d.Finish(6, entity.OutcomeNone) })
	assert.Equal(t, entity.OutcomeFatal, d.Outcome())

	assert.Panics(t, func() { New(0, 0, 10, entity.North, entity.North, false) })
}

func TestCountdown(t *testing.T) {
	d := New(0, 0, 1, entity.North, entity.East, false)
	d.Elapse(0.5)
	assert.False(t, d.Due())
	d.Elapse(0.5)
	assert.True(t, d.Due())
	assert.False(t, d.Overdue())
	d.Elapse(0.5)
	assert.True(t, d.Overdue())
	assert.Equal(t, -0.5, d.BusyTime())
	d.ClampOverdue()
	assert.Equal(t, 0.0, d.BusyTime())
	d.Elapse(-2)
	d.ClampOverdue()
	assert.Equal(t, 2.0, d.BusyTime())
}
