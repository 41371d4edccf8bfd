// 路口仿真的随机过程模型：到达、转向、驾驶员类型与事故结果
package process

import (
	"github.com/hsidd1/SDI-40-Simulation/entity"
	"github.com/hsidd1/SDI-40-Simulation/utils/config"
	"github.com/hsidd1/SDI-40-Simulation/utils/randengine"
)

// Model 随机过程模型
// 功能：提供仿真所需的全部随机决策，每次决策消耗随机源中的若干个[0, 1)随机数
// 说明：模型本身无状态，随机性全部来自注入的randengine.Source
type Model struct {
	src randengine.Source

	arrival   [entity.NumDirections]float64
	turn      float64
	leftTurn  float64
	human     float64
	crash     [2]config.CrashProbability // 0-自动驾驶，1-人类
	penalties config.Penalty
}

// New 创建随机过程模型
// 参数：rc-运行时配置，src-随机源
func New(rc *config.RuntimeConfig, src randengine.Source) *Model {
	p := rc.All.Probability
	return &Model{
		src:       src,
		arrival:   rc.ArrivalProbabilities,
		turn:      p.Turn,
		leftTurn:  p.LeftTurn,
		human:     p.Human,
		crash:     [2]config.CrashProbability{p.AutonomousCrash, p.HumanCrash},
		penalties: rc.All.Penalty,
	}
}

// ArrivalTrial 方向d本步是否有车辆到达（伯努利试验，消耗1个随机数）
// 说明：调用方只在该方向到达队列为空时调用
func (m *Model) ArrivalTrial(d entity.Direction) bool {
	return randengine.PTrue(m.src, m.arrival[d])
}

// Maneuver 选择通过路口的动作
// 算法说明：
// 1. 第一个随机数小于转弯概率则转弯，否则直行
// 2. 转弯时第二个随机数小于左转概率则左转，否则右转
func (m *Model) Maneuver() entity.Maneuver {
	if randengine.PTrue(m.src, m.turn) {
		if randengine.PTrue(m.src, m.leftTurn) {
			return entity.LeftTurn
		}
		return entity.RightTurn
	}
	return entity.Straight
}

// IsHuman 选择驾驶员类型（消耗1个随机数）
func (m *Model) IsHuman() bool {
	return randengine.PTrue(m.src, m.human)
}

// CrashOutcome 离开路口时的事故结果（消耗1个随机数）
// 算法说明：同一个随机数r先与致命事故概率比较，再与剐蹭概率比较，
// 因此剐蹭的实际概率为两者之差
func (m *Model) CrashOutcome(human bool) entity.Outcome {
	p := m.crash[0]
	if human {
		p = m.crash[1]
	}
	r := m.src.Float64()
	switch {
	case r < p.Fatal:
		return entity.OutcomeFatal
	case r < p.FenderBender:
		return entity.OutcomeFenderBender
	default:
		return entity.OutcomeNone
	}
}

// Penalty 事故结果对应的额外耗时
func (m *Model) Penalty(o entity.Outcome) float64 {
	switch o {
	case entity.OutcomeFatal:
		return m.penalties.Fatal
	case entity.OutcomeFenderBender:
		return m.penalties.FenderBender
	default:
		return 0
	}
}
