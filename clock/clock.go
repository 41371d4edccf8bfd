package clock

import (
	"fmt"

	"git.fiblab.net/sim/protos/v2/go/city/clock/v1/clockv1connect"
	"github.com/hsidd1/SDI-40-Simulation/utils/config"
)

// Clock 仿真时钟管理器
// 功能：管理仿真系统的固定步长时间推进，以及事故导致的额外时间跳变
// 说明：当前时间 = 内部步数 * 步长 + 累计跳变，避免浮点累加误差
type Clock struct {
	clockv1connect.UnimplementedClockServiceHandler

	DT       float64 // 每个模拟步时间间隔（秒）
	MAX_STEP int64   // 最大步数，0表示不限制

	T            float64 // 当前时间（秒）
	InternalStep int64   // 当前内部步数
	Jumped       float64 // 累计跳变时间（秒）
}

// New 根据配置创建新的时钟实例
// 参数：stepConfig-步长配置，maxSteps-最大步数（0表示不限制）
// 返回：初始化完成的时钟实例
func New(stepConfig config.ControlStep, maxSteps int64) *Clock {
	c := &Clock{
		DT:       stepConfig.Interval,
		MAX_STEP: maxSteps,
	}
	c.Init()
	return c
}

// Init 重置时钟状态
func (c *Clock) Init() {
	c.InternalStep = 0
	c.Jumped = 0
	c.T = 0
}

// Step 时间推进一个步长
func (c *Clock) Step() {
	c.InternalStep++
	c.T = float64(c.InternalStep)*c.DT + c.Jumped
}

// Jump 在当前步内把时间向后推移
// 功能：事故发生时立即增加全局时间
// 参数：dt-跳变时长，必须非负
func (c *Clock) Jump(dt float64) {
	if dt < 0 {
		log.Panicf("clock: negative jump %v", dt)
	}
	c.Jumped += dt
	c.T = float64(c.InternalStep)*c.DT + c.Jumped
}

// Exhausted 是否已达到最大步数
func (c *Clock) Exhausted() bool {
	return c.MAX_STEP > 0 && c.InternalStep >= c.MAX_STEP
}

// String 获取时钟的字符串表示
// 功能：将当前时间格式化为可读的字符串（HH:MM:SS）
func (c *Clock) String() string {
	t := c.T
	h := int(t / 3600)
	t -= float64(h * 3600)
	m := int(t / 60)
	t -= float64(m * 60)
	s := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// GetHourMinuteSecond 获取当前时间的小时、分钟、秒
// 返回：小时、分钟、秒（秒为浮点数，支持亚秒级精度）
func (c *Clock) GetHourMinuteSecond() (int, int, float64) {
	hour := int(c.T) / 3600
	minute := int(c.T) % 3600 / 60
	second := c.T - float64(hour*3600+minute*60)
	return hour, minute, second
}
