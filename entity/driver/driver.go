package driver

import (
	"fmt"

	"github.com/hsidd1/SDI-40-Simulation/entity"
	"github.com/hsidd1/SDI-40-Simulation/utils/config"
	"github.com/hsidd1/SDI-40-Simulation/utils/container"
)

// Node 驾驶员在队列中的节点
type Node = container.ListNode[*Driver]

// Driver 一辆车（驾驶员）
// 功能：记录车辆的行程、生命周期状态与倒计时
// 说明：busyTime为距离下一次状态转移的剩余时间，超时后会变为负数，
// 负值表示已经超时等待的时长，是停车线前先到先走判定的依据
type Driver struct {
	node *Node // 所在队列节点，同一时刻只属于一个队列

	id        int32
	human     bool
	state     entity.DriverState
	startTime float64
	from, to  entity.Direction

	busyTime    float64
	elapsedTime float64
	outcome     entity.Outcome
	done        bool
}

// New 创建处于ARRIVAL状态的驾驶员
// 参数：id-序号，startTime-生成时刻，arrivalTime-初始倒计时，from/to-驶入驶出方向，human-是否人类驾驶
func New(id int32, startTime, arrivalTime float64, from, to entity.Direction, human bool) *Driver {
	if !from.Valid() || !to.Valid() || from == to {
		log.Panicf("invalid itinerary %v -> %v", from, to)
	}
	d := &Driver{
		id:        id,
		human:     human,
		state:     entity.StateArrival,
		startTime: startTime,
		from:      from,
		to:        to,
		busyTime:  arrivalTime,
	}
	d.node = container.NewListNode(d)
	return d
}

func (d *Driver) String() string {
	return fmt.Sprintf("Driver{ID:%d, %v->%v, State:%v, Busy:%v}", d.id, d.from, d.to, d.state, d.busyTime)
}

func (d *Driver) ID() int32 {
	return d.id
}

func (d *Driver) Human() bool {
	return d.human
}

func (d *Driver) State() entity.DriverState {
	return d.state
}

func (d *Driver) StartTime() float64 {
	return d.startTime
}

func (d *Driver) From() entity.Direction {
	return d.from
}

func (d *Driver) To() entity.Direction {
	return d.to
}

func (d *Driver) Maneuver() entity.Maneuver {
	return d.from.ManeuverTo(d.to)
}

// BusyTime 当前倒计时
func (d *Driver) BusyTime() float64 {
	return d.busyTime
}

// Node 所在队列节点
func (d *Driver) Node() *Node {
	return d.node
}

// Due 倒计时是否已结束（<=0）
func (d *Driver) Due() bool {
	return d.busyTime <= 0
}

// Overdue 是否已超时（<0），只有超时的驾驶员才有资格进入路口
func (d *Driver) Overdue() bool {
	return d.busyTime < 0
}

// Elapse 倒计时减少dt
func (d *Driver) Elapse(dt float64) {
	d.busyTime -= dt
}

// ClampOverdue 将负的倒计时归零
func (d *Driver) ClampOverdue() {
	if d.busyTime < 0 {
		d.busyTime = 0
	}
}

// Stop ARRIVAL→STOP
// 说明：倒计时重置为该类型驾驶员的最短停车时间
func (d *Driver) Stop(t config.Timing) {
	if d.state != entity.StateArrival {
		log.Panicf("%v cannot stop", d)
	}
	d.state = entity.StateStop
	d.busyTime = d.timing(t).MinStopTime
}

// Clear STOP→CLEAR
// 说明：直行使用通过时间，转弯使用更长的转弯时间
func (d *Driver) Clear(t config.Timing) {
	if d.state != entity.StateStop {
		log.Panicf("%v cannot enter intersection", d)
	}
	d.state = entity.StateClear
	dt := d.timing(t)
	if d.Maneuver().Turning() {
		d.busyTime = dt.TurningTime
	} else {
		d.busyTime = dt.ClearTime
	}
}

// Finish 离开路口，记录总耗时与事故结果（只能调用一次）
func (d *Driver) Finish(now float64, outcome entity.Outcome) {
	if d.state != entity.StateClear || d.done {
		log.Panicf("%v cannot leave intersection", d)
	}
	d.done = true
	d.outcome = outcome
	d.elapsedTime = now - d.startTime
}

// Done 是否已离开路口
func (d *Driver) Done() bool {
	return d.done
}

// Crashed 是否发生事故
func (d *Driver) Crashed() bool {
	return d.outcome != entity.OutcomeNone
}

func (d *Driver) ElapsedTime() float64 {
	return d.elapsedTime
}

func (d *Driver) Outcome() entity.Outcome {
	return d.outcome
}

// Record 导出终态记录
func (d *Driver) Record() entity.Record {
	return entity.Record{
		ID:          d.id,
		Human:       d.human,
		StartTime:   d.startTime,
		ElapsedTime: d.elapsedTime,
		From:        d.from,
		To:          d.to,
		Crashed:     d.Crashed(),
		Outcome:     d.outcome,
	}
}

func (d *Driver) timing(t config.Timing) config.DriverTiming {
	if d.human {
		return t.Human
	}
	return t.Autonomous
}
