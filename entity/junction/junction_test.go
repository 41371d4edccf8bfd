package junction

import (
	"sort"
	"testing"

	"github.com/hsidd1/SDI-40-Simulation/clock"
	"github.com/hsidd1/SDI-40-Simulation/entity"
	"github.com/hsidd1/SDI-40-Simulation/entity/driver"
	"github.com/hsidd1/SDI-40-Simulation/utils/config"
	"github.com/hsidd1/SDI-40-Simulation/utils/randengine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testContext struct {
	clock *clock.Clock
	rc    *config.RuntimeConfig
}

func (c *testContext) Clock() *clock.Clock {
	return c.clock
}

func (c *testContext) RuntimeConfig() *config.RuntimeConfig {
	return c.rc
}

func newTestJunction(t *testing.T, total int32, modify func(c *config.Config), src randengine.Source) (*Junction, *clock.Clock) {
	c := config.Default()
	c.Control.Total = total
	if modify != nil {
		modify(&c)
	}
	rc, err := config.NewRuntimeConfig(c)
	require.NoError(t, err)
	ctx := &testContext{
		clock: clock.New(rc.C.Step, rc.C.MaxSteps),
		rc:    rc,
	}
	return New(ctx, src), ctx.clock
}

// 第一步的全部随机数：北向一辆自动驾驶直行车辆（到达、直行、自动驾驶），东、南、西无车到达。
// 此后已生成车辆数等于目标，不再进行到达试验，下一个随机数即为离开路口时的事故抽样
var northStraightSDC = []float64{0, 0.9, 0.9, 0.99, 0.99, 0.99}

func TestStraightThroughNoCrash(t *testing.T) {
	src := randengine.NewReplay(0.99, northStraightSDC...)
	j, c := newTestJunction(t, 1, nil, src)

	// tick 0..19: driving to the stop line
	for range 20 {
		j.Step()
	}
	require.Equal(t, 1, j.Queues().Arrival(entity.North).Len())
	assert.Equal(t, 0.0, j.Queues().Arrival(entity.North).First().Value.BusyTime())

	// tick 20: reaches the stop line
	j.Step()
	require.Equal(t, 1, j.Queues().Stop(entity.North).Len())
	head := j.Queues().Stop(entity.North).First().Value
	assert.Equal(t, entity.StateStop, head.State())
	assert.Equal(t, 0.5, head.BusyTime())

	// tick 21, 22: countdown reaches exactly zero, which is not yet eligible
	j.Step()
	j.Step()
	assert.Equal(t, 1, j.Queues().Stop(entity.North).Len())
	assert.Equal(t, -0.5, head.BusyTime())
	assert.True(t, j.Free())

	// tick 23: admitted
	j.Step()
	assert.Equal(t, 0, j.Queues().Stop(entity.North).Len())
	assert.Equal(t, 1, j.Queues().Intersection().Len())
	assert.False(t, j.Free())
	assert.Equal(t, entity.StateClear, head.State())

	require.NoError(t, j.Run(nil))
	assert.Empty(t, j.Crashed())
	assert.Equal(t, []entity.Record{{
		ID:          0,
		Human:       false,
		StartTime:   0,
		ElapsedTime: 10 + 1 + 0.5 + 2, // ARRIVAL_TIME + SDC_MIN_STOP_TIME + one tick + SDC_CLEAR_TIME
		From:        entity.North,
		To:          entity.South,
		Crashed:     false,
		Outcome:     entity.OutcomeNone,
	}}, j.Completed())
	assert.Equal(t, 14.0, c.T)
	assert.Equal(t, int64(28), c.InternalStep)
	assert.True(t, j.Free())
	assert.Equal(t, 0, j.Queues().Len())
	assert.Equal(t, 0, src.Remaining())
}

func TestFatalCrashPenalty(t *testing.T) {
	src := randengine.NewReplay(0.99, append(northStraightSDC, 0.0)...)
	j, c := newTestJunction(t, 1, nil, src)

	for range 27 {
		j.Step()
	}
	assert.Equal(t, 13.5, c.T)
	assert.Equal(t, 1, j.Queues().Intersection().Len())

	// clearance happens inside this tick and the clock jumps at once
	j.Update()
	assert.Equal(t, 133.5, c.T)
	require.Len(t, j.Crashed(), 1)
	assert.Empty(t, j.Completed())
	j.Prepare()
	assert.Equal(t, 134.0, c.T)
	assert.True(t, j.Done())

	r := j.Crashed()[0]
	assert.True(t, r.Crashed)
	assert.Equal(t, entity.OutcomeFatal, r.Outcome)
	assert.Equal(t, 13.5+120, r.ElapsedTime)
}

func TestFenderBenderPenalty(t *testing.T) {
	src := randengine.NewReplay(0.99, append(northStraightSDC, 0.005)...)
	j, c := newTestJunction(t, 1, nil, src)
	require.NoError(t, j.Run(nil))
	require.Len(t, j.Crashed(), 1)
	assert.Equal(t, entity.OutcomeFenderBender, j.Crashed()[0].Outcome)
	assert.Equal(t, 13.5+20, j.Crashed()[0].ElapsedTime)
	assert.Equal(t, 34.0, c.T)
}

func TestZeroPenaltyCompletes(t *testing.T) {
	src := randengine.NewReplay(0.99, append(northStraightSDC, 0.005)...)
	j, c := newTestJunction(t, 1, func(c *config.Config) { c.Penalty.FenderBender = 0 }, src)
	require.NoError(t, j.Run(nil))
	// a fender-bender without penalty does not move the clock and is not a crash
	assert.Empty(t, j.Crashed())
	require.Len(t, j.Completed(), 1)
	r := j.Completed()[0]
	assert.False(t, r.Crashed)
	assert.Equal(t, entity.OutcomeNone, r.Outcome)
	assert.Equal(t, 13.5, r.ElapsedTime)
	assert.Equal(t, 14.0, c.T)
	assert.Equal(t, 0, src.Remaining())
}

func TestRunStopsWhenAfterStepDeclines(t *testing.T) {
	j, c := newTestJunction(t, 1, nil, randengine.NewReplay(0.99, northStraightSDC...))
	steps := 0
	require.NoError(t, j.Run(func() bool {
		steps++
		return steps < 5
	}))
	assert.Equal(t, 5, steps)
	assert.Equal(t, int64(5), c.InternalStep)
	assert.False(t, j.Done())
}

func TestHumanTurningTimes(t *testing.T) {
	// from West: arrival, turn, right, human
	draws := []float64{0.99, 0.99, 0.99, 0, 0.1, 0.7, 0}
	src := randengine.NewReplay(0.99, draws...)
	j, _ := newTestJunction(t, 1, func(c *config.Config) { c.Probability.Human = 0.5 }, src)
	require.NoError(t, j.Run(nil))
	require.Len(t, j.Completed(), 1)
	r := j.Completed()[0]
	assert.True(t, r.Human)
	assert.Equal(t, entity.West, r.From)
	assert.Equal(t, entity.South, r.To)
	// ARRIVAL_TIME + HUMAN_MIN_STOP_TIME + one tick + HUMAN_TURNING_TIME
	assert.Equal(t, 10+2+0.5+5.0, r.ElapsedTime)
}

func TestSimultaneousTieBreak(t *testing.T) {
	cases := []struct {
		name         string
		draws        []float64
		first, other entity.Direction
	}{
		{
			name:  "north before east",
			draws: []float64{0, 0.9, 0.9, 0, 0.9, 0.9},
			first: entity.North, other: entity.East,
		},
		{
			name:  "east before south",
			draws: []float64{0.99, 0, 0.9, 0.9, 0, 0.9, 0.9},
			first: entity.East, other: entity.South,
		},
		{
			name:  "south before west",
			draws: []float64{0.99, 0.99, 0, 0.9, 0.9, 0, 0.9, 0.9},
			first: entity.South, other: entity.West,
		},
		{
			name:  "north before west",
			draws: []float64{0, 0.9, 0.9, 0.99, 0.99, 0, 0.9, 0.9},
			first: entity.North, other: entity.West,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			j, _ := newTestJunction(t, 2, nil, randengine.NewReplay(0.99, tc.draws...))
			for range 23 {
				j.Step()
			}
			// both heads are at -0.5 in tick 23
			assert.Equal(t, -0.5, j.Queues().Stop(tc.first).First().Value.BusyTime())
			assert.Equal(t, -0.5, j.Queues().Stop(tc.other).First().Value.BusyTime())
			j.Step()
			assert.Equal(t, tc.first, j.Queues().Intersection().First().Value.From())
			assert.Equal(t, 1, j.Queues().Stop(tc.other).Len())

			require.NoError(t, j.Run(nil))
			records := j.Completed()
			require.Len(t, records, 2)
			assert.Equal(t, tc.first, records[0].From)
			assert.Equal(t, 13.5, records[0].ElapsedTime)
			assert.Equal(t, tc.other, records[1].From)
			// waits for the first driver to clear, then enters at once
			assert.Equal(t, 15.5, records[1].ElapsedTime)
		})
	}
}

func TestArrivalThrottling(t *testing.T) {
	// every draw is 0: North always arrives and turns left, other directions never arrive
	j, _ := newTestJunction(t, 10, func(c *config.Config) {
		c.Probability.Arrival = config.ArrivalProbability{North: 1}
	}, randengine.NewReplay(0))

	j.Step()
	assert.Equal(t, int32(1), j.Created())
	for range 19 {
		j.Step()
		assert.Equal(t, int32(1), j.Created())
		assert.Equal(t, 1, j.Queues().Arrival(entity.North).Len())
	}
	// tick 20: the first driver reaches the stop line and a second one spawns
	j.Step()
	assert.Equal(t, int32(2), j.Created())
	assert.Equal(t, 1, j.Queues().Arrival(entity.North).Len())
	assert.Equal(t, 1, j.Queues().Stop(entity.North).Len())
	assert.Equal(t, entity.East, j.Queues().Arrival(entity.North).First().Value.To())
	for _, d := range []entity.Direction{entity.East, entity.South, entity.West} {
		assert.Equal(t, 0, j.Queues().Arrival(d).Len())
	}
}

func TestClampAfterAdmission(t *testing.T) {
	j, _ := newTestJunction(t, 3, nil, randengine.NewReplay(0.99))
	timing := config.Default().Timing
	drivers := make([]*driver.Driver, 0)
	for i := range 3 {
		dr := driver.New(int32(i), 0, 0, entity.North, entity.South, false)
		j.queues.AddArrival(dr)
		j.created++
		drivers = append(drivers, dr)
	}
	// all three reach the stop line, then wait long enough to be overdue
	j.arrivalPass()
	for range 2 {
		j.arrivalPass()
	}
	for _, dr := range drivers {
		dr.Elapse(timing.Autonomous.MinStopTime + 1)
	}
	j.admissionPass()
	assert.Equal(t, drivers[0], j.queues.Intersection().First().Value)
	assert.Equal(t, 0.0, drivers[1].BusyTime())
	assert.Equal(t, 0.0, drivers[2].BusyTime())

	// occupied: nobody else may enter even if overdue
	drivers[1].Elapse(5)
	j.admissionPass()
	assert.Equal(t, 1, j.queues.Intersection().Len())
	assert.Equal(t, 2, j.queues.Stop(entity.North).Len())
}

func collectRecords(j *Junction) []entity.Record {
	records := append(j.Completed(), j.Crashed()...)
	sort.Slice(records, func(a, b int) bool {
		return records[a].FinishTime() < records[b].FinishTime()
	})
	return records
}

func TestInvariantsUnderLoad(t *testing.T) {
	j, c := newTestJunction(t, 400, func(c *config.Config) {
		c.Probability.Arrival = config.ArrivalProbability{North: 0.3, East: 0.2, South: 0.25, West: 0.15}
		c.Probability.Human = 0.5
		c.Probability.HumanCrash = config.CrashProbability{FenderBender: 0.1, Fatal: 0.02}
		c.Control.MaxSteps = 1_000_000
	}, randengine.New(11))

	lastT := c.T
	for !j.Done() {
		require.NotPanics(t, j.Step)

		// queue exclusivity
		seen := make(map[int32]struct{})
		j.Queues().ForEach(func(dr *driver.Driver) {
			_, dup := seen[dr.ID()]
			assert.False(t, dup, "driver %d queued twice", dr.ID())
			seen[dr.ID()] = struct{}{}
		})
		// at-most-one occupancy
		occupants := j.Queues().Intersection().Len()
		assert.LessOrEqual(t, occupants, 1)
		assert.Equal(t, occupants == 0, j.Free())
		// conservation
		assert.Equal(t, int(j.Created()), j.Finished()+len(seen))
		// monotonic clock
		assert.GreaterOrEqual(t, c.T, lastT)
		lastT = c.T
		// arrival throttling
		for _, d := range entity.Directions {
			assert.LessOrEqual(t, j.Queues().Arrival(d).Len(), 1)
		}
	}
	assert.Equal(t, 400, j.Finished())
	assert.NotEmpty(t, j.Crashed())

	// FIFO within direction: ids are assigned in creation order, so each
	// approach must release its drivers in increasing id order
	last := map[entity.Direction]int32{}
	for _, r := range collectRecords(j) {
		if prev, ok := last[r.From]; ok {
			assert.Greater(t, r.ID, prev, "direction %v", r.From)
		}
		last[r.From] = r.ID
		assert.NotEqual(t, r.From, r.To)
		assert.Equal(t, r.Outcome != entity.OutcomeNone, r.Crashed)
	}
}

func TestDeterministicReplay(t *testing.T) {
	run := func() ([]entity.Record, []entity.Record, float64) {
		j, c := newTestJunction(t, 200, func(c *config.Config) {
			c.Probability.Human = 0.4
		}, randengine.New(2024))
		require.NoError(t, j.Run(nil))
		return j.Completed(), j.Crashed(), c.T
	}
	completed1, crashed1, t1 := run()
	completed2, crashed2, t2 := run()
	assert.Equal(t, completed1, completed2)
	assert.Equal(t, crashed1, crashed2)
	assert.Equal(t, t1, t2)
	assert.Equal(t, 200, len(completed1)+len(crashed1))
}

func TestStepLimit(t *testing.T) {
	j, _ := newTestJunction(t, 100, func(c *config.Config) {
		c.Control.MaxSteps = 10
	}, randengine.New(1))
	err := j.Run(nil)
	assert.ErrorIs(t, err, ErrStepLimit)
	assert.False(t, j.Done())
}
