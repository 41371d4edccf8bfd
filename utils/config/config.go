package config

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
)

// Default 返回默认配置
// 功能：生成与参考仿真常量一致的配置，用于未指定配置文件时运行
// 返回：默认配置
func Default() Config {
	return Config{
		Control: Control{
			Step:         ControlStep{Interval: 0.5},
			Total:        100000,
			Replications: 1,
		},
		Timing: Timing{
			ArrivalTime: 10,
			Human: DriverTiming{
				MinStopTime: 2,
				ClearTime:   3,
				TurningTime: 5,
			},
			Autonomous: DriverTiming{
				MinStopTime: 1,
				ClearTime:   2,
				TurningTime: 4,
			},
		},
		Probability: Probability{
			Arrival: ArrivalProbability{
				North: 0.05,
				East:  0.05,
				South: 0.05,
				West:  0.05,
			},
			Turn:            0.33,
			LeftTurn:        0.5,
			Human:           0,
			HumanCrash:      CrashProbability{FenderBender: 0.02, Fatal: 0.002},
			AutonomousCrash: CrashProbability{FenderBender: 0.01, Fatal: 0.001},
		},
		Penalty: Penalty{
			FenderBender: 20,
			Fatal:        120,
		},
		Output: Output{
			CSV:     CSVOutput{File: "output_SDtest.csv"},
			Summary: true,
		},
	}
}

func checkProbability(name string, p float64) error {
	if p < 0 || p > 1 {
		return fmt.Errorf("%w: %s=%v must be in [0, 1]", ErrInvalidConfig, name, p)
	}
	return nil
}

func checkNonNegative(name string, v float64) error {
	if v < 0 {
		return fmt.Errorf("%w: %s=%v must not be negative", ErrInvalidConfig, name, v)
	}
	return nil
}

// Validate 检查配置合法性
// 功能：在仿真构造前检查所有参数，发现错误立即返回
// 返回：第一个不合法参数对应的错误（包装ErrInvalidConfig），合法时返回nil
// 说明：
// 1. 步长与目标车辆数必须为正
// 2. 所有概率必须在[0, 1]内，且至少一个方向的到达概率大于0，否则仿真永远无法结束
// 3. 所有耗时与事故惩罚不能为负，且致命事故惩罚不小于轻微剐蹭惩罚
func (c Config) Validate() error {
	if c.Control.Step.Interval <= 0 {
		return fmt.Errorf("%w: control.step.interval=%v must be positive", ErrInvalidConfig, c.Control.Step.Interval)
	}
	if c.Control.Total <= 0 {
		return fmt.Errorf("%w: control.total=%d must be positive", ErrInvalidConfig, c.Control.Total)
	}
	if c.Control.Replications < 0 {
		return fmt.Errorf("%w: control.replications=%d must not be negative", ErrInvalidConfig, c.Control.Replications)
	}
	if c.Control.MaxSteps < 0 {
		return fmt.Errorf("%w: control.max_steps=%d must not be negative", ErrInvalidConfig, c.Control.MaxSteps)
	}

	p := c.Probability
	probabilities := []struct {
		name  string
		value float64
	}{
		{"probability.arrival.north", p.Arrival.North},
		{"probability.arrival.east", p.Arrival.East},
		{"probability.arrival.south", p.Arrival.South},
		{"probability.arrival.west", p.Arrival.West},
		{"probability.turn", p.Turn},
		{"probability.left_turn", p.LeftTurn},
		{"probability.human", p.Human},
		{"probability.human_crash.fender_bender", p.HumanCrash.FenderBender},
		{"probability.human_crash.fatal", p.HumanCrash.Fatal},
		{"probability.autonomous_crash.fender_bender", p.AutonomousCrash.FenderBender},
		{"probability.autonomous_crash.fatal", p.AutonomousCrash.Fatal},
	}
	for _, item := range probabilities {
		if err := checkProbability(item.name, item.value); err != nil {
			return err
		}
	}
	if p.Arrival.North == 0 && p.Arrival.East == 0 && p.Arrival.South == 0 && p.Arrival.West == 0 {
		return fmt.Errorf("%w: at least one arrival probability must be positive", ErrInvalidConfig)
	}

	t := c.Timing
	durations := []struct {
		name  string
		value float64
	}{
		{"timing.arrival_time", t.ArrivalTime},
		{"timing.human.min_stop_time", t.Human.MinStopTime},
		{"timing.human.clear_time", t.Human.ClearTime},
		{"timing.human.turning_time", t.Human.TurningTime},
		{"timing.autonomous.min_stop_time", t.Autonomous.MinStopTime},
		{"timing.autonomous.clear_time", t.Autonomous.ClearTime},
		{"timing.autonomous.turning_time", t.Autonomous.TurningTime},
		{"penalty.fender_bender", c.Penalty.FenderBender},
		{"penalty.fatal", c.Penalty.Fatal},
	}
	for _, item := range durations {
		if err := checkNonNegative(item.name, item.value); err != nil {
			return err
		}
	}
	if c.Penalty.Fatal < c.Penalty.FenderBender {
		return fmt.Errorf("%w: penalty.fatal=%v must not be less than penalty.fender_bender=%v",
			ErrInvalidConfig, c.Penalty.Fatal, c.Penalty.FenderBender)
	}
	if c.Output.Mongo.URI != "" && (c.Output.Mongo.DB == "" || c.Output.Mongo.Col == "") {
		return fmt.Errorf("%w: output.mongo requires db and col when uri is set", ErrInvalidConfig)
	}
	return nil
}

// RuntimeConfig 运行时配置
// 功能：存储校验后的配置，并预先展开按方向索引的参数
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置

	// 按North、East、South、West顺序排列的到达概率
	ArrivalProbabilities [4]float64
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：校验配置并创建运行时配置对象
// 参数：config-原始配置对象
// 返回：运行时配置指针；配置不合法时返回错误
// 说明：重复实验次数为0时视为1
func NewRuntimeConfig(config Config) (*RuntimeConfig, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Control.Replications == 0 {
		config.Control.Replications = 1
	}
	rc := &RuntimeConfig{}

	rc.All = config
	rc.C = config.Control
	a := config.Probability.Arrival
	rc.ArrivalProbabilities = [4]float64{a.North, a.East, a.South, a.West}

	return rc, nil
}
