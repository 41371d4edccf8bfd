package junction

import (
	"github.com/hsidd1/SDI-40-Simulation/entity"
	"github.com/hsidd1/SDI-40-Simulation/entity/driver"
	"github.com/hsidd1/SDI-40-Simulation/utils/container"
)

type queue = container.List[*driver.Driver]

// approach 一个方向的进口道：到达队列与停车线队列
type approach struct {
	arrival *queue
	stop    *queue
}

// QueueSet 路口的全部队列
// 功能：四个方向各一对到达/停车线队列，加一个路口占用队列
// 说明：同一方向内严格先进先出；跨方向的先后由NextDriver按倒计时裁决。
// 每个驾驶员只有一个队列节点，因此不可能同时出现在两个队列中
type QueueSet struct {
	approaches   [entity.NumDirections]approach
	intersection *queue
}

// NewQueueSet 创建空队列集合
func NewQueueSet() *QueueSet {
	q := &QueueSet{
		intersection: container.NewList[*driver.Driver]("intersection"),
	}
	for _, d := range entity.Directions {
		q.approaches[d] = approach{
			arrival: container.NewList[*driver.Driver](d.String() + "/arrival"),
			stop:    container.NewList[*driver.Driver](d.String() + "/stop"),
		}
	}
	return q
}

// Arrival 方向d的到达队列
func (q *QueueSet) Arrival(d entity.Direction) *container.List[*driver.Driver] {
	return q.approaches[d].arrival
}

// Stop 方向d的停车线队列
func (q *QueueSet) Stop(d entity.Direction) *container.List[*driver.Driver] {
	return q.approaches[d].stop
}

// Intersection 路口占用队列
func (q *QueueSet) Intersection() *container.List[*driver.Driver] {
	return q.intersection
}

// AddArrival 新车辆进入驶入方向到达队列的队尾
func (q *QueueSet) AddArrival(dr *driver.Driver) {
	q.approaches[dr.From()].arrival.PushBack(dr.Node())
}

// MoveToStop 从到达队列移动到同方向停车线队列
func (q *QueueSet) MoveToStop(dr *driver.Driver) {
	a := q.approaches[dr.From()]
	a.arrival.Remove(dr.Node())
	a.stop.PushBack(dr.Node())
}

// MoveToIntersection 从停车线队列移动到路口占用队列
func (q *QueueSet) MoveToIntersection(dr *driver.Driver) {
	q.approaches[dr.From()].stop.Remove(dr.Node())
	q.intersection.PushBack(dr.Node())
}

// LeaveIntersection 离开路口占用队列
func (q *QueueSet) LeaveIntersection(dr *driver.Driver) {
	q.intersection.Remove(dr.Node())
}

// NextDriver 选出下一个允许进入路口的驾驶员
// 功能：在四个停车线队首中选择倒计时最小（超时最久）的驾驶员
// 返回：被选中的驾驶员，没有超时驾驶员时返回nil
// 算法说明：
// 1. 按北、东、南、西顺序扫描，只考虑已超时（倒计时<0）的队首，倒计时恰为0的驾驶员不会被选中
// 2. 只在严格小于当前最小值时更新，倒计时相同的驾驶员按扫描顺序靠前者优先
func (q *QueueSet) NextDriver() *driver.Driver {
	var next *driver.Driver
	for _, d := range entity.Directions {
		head := q.approaches[d].stop.First()
		if head == nil || !head.Value.Overdue() {
			continue
		}
		if next == nil || head.Value.BusyTime() < next.BusyTime() {
			next = head.Value
		}
	}
	return next
}

// ClampStop 将方向d停车线队列中所有负倒计时归零
func (q *QueueSet) ClampStop(d entity.Direction) {
	for node := q.approaches[d].stop.First(); node != nil; node = node.Next() {
		node.Value.ClampOverdue()
	}
}

// ForEach 按到达队列、停车线队列、路口的顺序遍历所有排队驾驶员
func (q *QueueSet) ForEach(f func(dr *driver.Driver)) {
	each := func(l *queue) {
		for node := l.First(); node != nil; node = node.Next() {
			f(node.Value)
		}
	}
	for _, d := range entity.Directions {
		each(q.approaches[d].arrival)
	}
	for _, d := range entity.Directions {
		each(q.approaches[d].stop)
	}
	each(q.intersection)
}

// Elapse 所有排队与占用路口的驾驶员倒计时减少dt
func (q *QueueSet) Elapse(dt float64) {
	q.ForEach(func(dr *driver.Driver) { dr.Elapse(dt) })
}

// Len 排队与占用路口的驾驶员总数
func (q *QueueSet) Len() int {
	n := q.intersection.Len()
	for _, a := range q.approaches {
		n += a.arrival.Len() + a.stop.Len()
	}
	return n
}

// Sizes 各方向到达队列与停车线队列长度，用于日志
func (q *QueueSet) Sizes() (arrival, stop [entity.NumDirections]int) {
	for _, d := range entity.Directions {
		arrival[d] = q.approaches[d].arrival.Len()
		stop[d] = q.approaches[d].stop.Len()
	}
	return
}
