package entity

import "fmt"

// Direction 路口进出方向
type Direction int32

const (
	North Direction = iota
	East
	South
	West

	NumDirections = 4
)

// Directions 方向遍历顺序
// 说明：所有与优先级有关的扫描都必须按该顺序进行（北、东、南、西）
var Directions = [NumDirections]Direction{North, East, South, West}

func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	default:
		return fmt.Sprintf("Direction(%d)", int32(d))
	}
}

// Valid 是否为合法方向
func (d Direction) Valid() bool {
	return d >= North && d <= West
}

// Destination 根据驶入方向和动作计算驶出方向
// 功能：直行驶向对面，左转驶向顺时针下一个方向，右转驶向逆时针下一个方向
// 说明：例如从北驶入：直行→南，左转→东，右转→西
func (d Direction) Destination(m Maneuver) Direction {
	switch m {
	case Straight:
		return (d + 2) % NumDirections
	case LeftTurn:
		return (d + 1) % NumDirections
	case RightTurn:
		return (d + 3) % NumDirections
	default:
		panic(fmt.Sprintf("entity: unknown maneuver %d", m))
	}
}

// ManeuverTo 计算从d驶向to对应的动作
func (d Direction) ManeuverTo(to Direction) Maneuver {
	switch (to - d + NumDirections) % NumDirections {
	case 2:
		return Straight
	case 1:
		return LeftTurn
	case 3:
		return RightTurn
	default:
		panic(fmt.Sprintf("entity: no maneuver from %v to %v", d, to))
	}
}

// Maneuver 通过路口的动作
type Maneuver int32

const (
	Straight Maneuver = iota
	LeftTurn
	RightTurn
)

func (m Maneuver) String() string {
	switch m {
	case Straight:
		return "straight"
	case LeftTurn:
		return "left"
	case RightTurn:
		return "right"
	default:
		return fmt.Sprintf("Maneuver(%d)", int32(m))
	}
}

// Turning 是否为转弯
func (m Maneuver) Turning() bool {
	return m != Straight
}

// DriverState 驾驶员生命周期状态
// 说明：ARRIVAL→STOP→CLEAR，CLEAR倒计时结束后离开路口，不存在其他转移
type DriverState int32

const (
	StateArrival DriverState = iota // 驶向停车线
	StateStop                       // 在停车线前停车等待
	StateClear                      // 正在通过路口
)

func (s DriverState) String() string {
	switch s {
	case StateArrival:
		return "Arrival"
	case StateStop:
		return "Stop"
	case StateClear:
		return "Clear"
	default:
		return fmt.Sprintf("DriverState(%d)", int32(s))
	}
}

// Outcome 通过路口的事故结果
type Outcome int32

const (
	OutcomeNone Outcome = iota
	OutcomeFenderBender
	OutcomeFatal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeFenderBender:
		return "fender-bender"
	case OutcomeFatal:
		return "fatal"
	default:
		return fmt.Sprintf("Outcome(%d)", int32(o))
	}
}

// Record 驾驶员终态记录，交给结果输出模块
type Record struct {
	ID          int32     `bson:"id"`
	Human       bool      `bson:"human"`
	StartTime   float64   `bson:"start_time"`
	ElapsedTime float64   `bson:"elapsed_time"` // 从生成到离开路口的总时长（含事故惩罚）
	From        Direction `bson:"from"`
	To          Direction `bson:"to"`
	Crashed     bool      `bson:"crashed"`
	Outcome     Outcome   `bson:"outcome"`
}

// FinishTime 离开路口的时刻
func (r Record) FinishTime() float64 {
	return r.StartTime + r.ElapsedTime
}
