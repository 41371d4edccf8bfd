package junction

import (
	"errors"
	"fmt"

	"github.com/hsidd1/SDI-40-Simulation/entity"
	"github.com/hsidd1/SDI-40-Simulation/entity/driver"
	"github.com/hsidd1/SDI-40-Simulation/entity/process"
	"github.com/hsidd1/SDI-40-Simulation/utils/config"
	"github.com/hsidd1/SDI-40-Simulation/utils/randengine"
	"github.com/samber/lo"
)

var (
	ErrStepLimit = errors.New("simulation did not finish within max steps")
)

var _ entity.IJunction = (*Junction)(nil)

// Junction 全向停车路口仿真引擎
// 功能：持有队列集合与终态集合，按固定步长推进驾驶员状态
// 说明：单线程、逐步同步执行；路口同一时刻最多一辆车，由free标志保证互斥
type Junction struct {
	ctx entity.ITaskContext

	model  *process.Model
	queues *QueueSet
	timing config.Timing

	total   int32 // 目标车辆数
	created int32 // 已生成车辆数
	free    bool  // 路口是否空闲

	completed []*driver.Driver
	crashed   []*driver.Driver

	lastT float64 // 上一步结束时的时间，用于检查时钟单调
}

// New 创建路口仿真引擎
// 功能：根据任务上下文中的运行时配置初始化队列与随机过程模型
// 参数：ctx-任务上下文，src-随机源（测试时可注入固定序列）
func New(ctx entity.ITaskContext, src randengine.Source) *Junction {
	rc := ctx.RuntimeConfig()
	return &Junction{
		ctx:       ctx,
		model:     process.New(rc, src),
		queues:    NewQueueSet(),
		timing:    rc.All.Timing,
		total:     rc.C.Total,
		free:      true,
		completed: make([]*driver.Driver, 0),
		crashed:   make([]*driver.Driver, 0),
	}
}

// Step 执行一个完整的仿真步
// 算法说明：
// 1. 离开路口：倒计时结束的占用者离开，抽取事故结果
// 2. 到达停车线：倒计时结束的到达队首进入停车线队列
// 3. 进入路口：路口空闲时，超时最久的停车线队首进入路口
// 4. 生成车辆：未达到目标数时，每个方向进行一次到达试验
// 5. 时间推进：所有倒计时减少一个步长，时钟前进一个步长
func (j *Junction) Step() {
	j.Update()
	j.Prepare()
}

// Update 执行一步内的全部事件（第1-4阶段）
func (j *Junction) Update() {
	j.clearancePass()
	j.arrivalPass()
	j.admissionPass()
	if j.created < j.total {
		j.generationPass()
	}
}

// Prepare 时间推进（第5阶段），并检查不变量
func (j *Junction) Prepare() {
	clock := j.ctx.Clock()
	j.queues.Elapse(clock.DT)
	clock.Step()
	j.checkInvariants()
}

// Run 运行到完成
// 参数：afterStep-每步结束后调用，返回false时提前停止（可为nil）
// 返回：超过最大步数仍未完成时返回ErrStepLimit，此时结果无效
func (j *Junction) Run(afterStep func() bool) error {
	clock := j.ctx.Clock()
	for !j.Done() {
		if clock.Exhausted() {
			return fmt.Errorf("%w: %d steps, %d/%d drivers finished",
				ErrStepLimit, clock.InternalStep, j.Finished(), j.total)
		}
		j.Step()
		if afterStep != nil && !afterStep() {
			break
		}
	}
	return nil
}

// clearancePass 倒计时结束的占用者离开路口
// 说明：惩罚大于0才算事故，时钟立即跳变惩罚时长，总耗时包含该惩罚；
// 惩罚为0的事故结果按正常通过记录
func (j *Junction) clearancePass() {
	clock := j.ctx.Clock()
	inter := j.queues.Intersection()
	for node := inter.First(); node != nil && node.Value.Due(); node = inter.First() {
		dr := node.Value
		outcome := j.model.CrashOutcome(dr.Human())
		if penalty := j.model.Penalty(outcome); penalty > 0 {
			clock.Jump(penalty)
		} else {
			outcome = entity.OutcomeNone
		}
		dr.Finish(clock.T, outcome)
		j.queues.LeaveIntersection(dr)
		if dr.Crashed() {
			j.crashed = append(j.crashed, dr)
			log.Debugf("driver %d crashed (%v) leaving the intersection after %.1fs", dr.ID(), outcome, dr.ElapsedTime())
		} else {
			j.completed = append(j.completed, dr)
			log.Debugf("driver %d left the intersection after %.1fs", dr.ID(), dr.ElapsedTime())
		}
		if inter.Len() == 0 {
			j.free = true
		}
	}
}

// arrivalPass 到达队首倒计时结束后进入停车线队列
func (j *Junction) arrivalPass() {
	for _, d := range entity.Directions {
		arrival := j.queues.Arrival(d)
		for node := arrival.First(); node != nil && node.Value.Due(); node = arrival.First() {
			dr := node.Value
			dr.Stop(j.timing)
			j.queues.MoveToStop(dr)
			log.Debugf("driver %d stopped at the %v stop line", dr.ID(), d)
		}
	}
}

// admissionPass 路口空闲时放行一名驾驶员
// 说明：放行后同方向停车线队列中的负倒计时归零
func (j *Junction) admissionPass() {
	next := j.queues.NextDriver()
	if next == nil || !j.free {
		return
	}
	next.Clear(j.timing)
	j.queues.MoveToIntersection(next)
	j.queues.ClampStop(next.From())
	j.free = false
	log.Debugf("driver %d enters the intersection %v -> %v", next.ID(), next.From(), next.To())
}

// generationPass 每个方向进行一次到达试验
// 说明：只有到达队列为空的方向才进行试验，每个方向最多一辆未到达停车线的车辆；
// 构造时不额外生成，第一轮到达试验发生在第一步中
func (j *Junction) generationPass() {
	now := j.ctx.Clock().T
	for _, d := range entity.Directions {
		if j.queues.Arrival(d).Len() != 0 {
			continue
		}
		if !j.model.ArrivalTrial(d) {
			continue
		}
		to := d.Destination(j.model.Maneuver())
		human := j.model.IsHuman()
		dr := driver.New(j.created, now, j.timing.ArrivalTime, d, to, human)
		j.queues.AddArrival(dr)
		j.created++
		log.Debugf("driver %d from the %v is going to the %v", dr.ID(), d, to)
	}
}

// checkInvariants 检查调度不变量，违反时panic
func (j *Junction) checkInvariants() {
	occupants := j.queues.Intersection().Len()
	if occupants > 1 {
		log.Panicf("intersection occupied by %d drivers", occupants)
	}
	if (occupants == 0) != j.free {
		log.Panicf("intersection free flag %v with %d occupants", j.free, occupants)
	}
	if queued := j.queues.Len(); int(j.created) != j.Finished()+queued {
		log.Panicf("created %d != finished %d + queued %d", j.created, j.Finished(), queued)
	}
	if t := j.ctx.Clock().T; t < j.lastT {
		log.Panicf("clock went backwards from %v to %v", j.lastT, t)
	} else {
		j.lastT = t
	}
}

// Done 完成与事故车辆数是否达到目标
func (j *Junction) Done() bool {
	return j.Finished() >= int(j.total)
}

// Finished 已离开路口的车辆数
func (j *Junction) Finished() int {
	return len(j.completed) + len(j.crashed)
}

// Created 已生成车辆数
func (j *Junction) Created() int32 {
	return j.created
}

// Free 路口是否空闲
func (j *Junction) Free() bool {
	return j.free
}

// Sizes 各方向到达队列与停车线队列的长度
func (j *Junction) Sizes() (arrival, stop [entity.NumDirections]int) {
	return j.queues.Sizes()
}

// Queues 队列集合（只读使用）
func (j *Junction) Queues() *QueueSet {
	return j.queues
}

// Completed 正常通过的车辆记录，按离开顺序
func (j *Junction) Completed() []entity.Record {
	return lo.Map(j.completed, func(dr *driver.Driver, _ int) entity.Record {
		return dr.Record()
	})
}

// Crashed 发生事故的车辆记录，按离开顺序
func (j *Junction) Crashed() []entity.Record {
	return lo.Map(j.crashed, func(dr *driver.Driver, _ int) entity.Record {
		return dr.Record()
	})
}
