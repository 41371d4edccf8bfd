package config

// OutputPath 指定MongoDB输出位置的配置项
// 功能：定义仿真结果写入MongoDB的数据库和集合
// 说明：URI为空时不启用MongoDB输出
type OutputPath struct {
	URI string `yaml:"uri,omitempty"` // MongoDB连接字符串
	DB  string `yaml:"db,omitempty"`  // 数据库名
	Col string `yaml:"col,omitempty"` // 集合名
}

// GetDb 获取数据库名
func (p OutputPath) GetDb() string {
	return p.DB
}

// GetColl 获取集合名
func (p OutputPath) GetColl() string {
	return p.Col
}

// CSVOutput CSV导出配置
// 功能：定义结果CSV文件的路径与导出范围
// 说明：默认只导出完成通行的车辆，IncludeCrashed为true时同时导出事故车辆
type CSVOutput struct {
	File           string `yaml:"file,omitempty"`            // 文件路径，为空则不导出
	IncludeCrashed bool   `yaml:"include_crashed,omitempty"` // 是否导出事故车辆
}

// Output 结果输出配置
type Output struct {
	CSV        CSVOutput  `yaml:"csv"`
	Mongo      OutputPath `yaml:"mongo,omitempty"`
	Summary    bool       `yaml:"summary"`               // 是否打印通行时间统计
	PrintTimes bool       `yaml:"print_times,omitempty"` // 是否打印所有完成车辆的通行时间
}

// ControlStep 指定模拟步长的配置项
type ControlStep struct {
	Interval float64 `yaml:"interval"` // 每步的时间间隔（秒）
}

// Control 模拟器控制配置
// 功能：定义仿真规模、随机种子与重复实验次数
// 说明：Total为需要完成（含事故）的车辆总数，达到后仿真结束
type Control struct {
	Step         ControlStep `yaml:"step"`
	Total        int32       `yaml:"total"`                  // 目标车辆总数
	Seed         uint64      `yaml:"seed"`                   // 随机种子
	Replications int32       `yaml:"replications,omitempty"` // 独立重复实验次数，默认1
	MaxSteps     int64       `yaml:"max_steps,omitempty"`    // 单次仿真最大步数，0表示不限制
}

// DriverTiming 某一类驾驶员的耗时参数（秒）
type DriverTiming struct {
	MinStopTime float64 `yaml:"min_stop_time"` // 停车线前最短停车时间
	ClearTime   float64 `yaml:"clear_time"`    // 直行通过路口时间
	TurningTime float64 `yaml:"turning_time"`  // 转弯通过路口时间
}

// Timing 各阶段耗时配置
type Timing struct {
	ArrivalTime float64      `yaml:"arrival_time"` // 生成点到停车线的行驶时间
	Human       DriverTiming `yaml:"human"`
	Autonomous  DriverTiming `yaml:"autonomous"`
}

// ArrivalProbability 各方向每步到达概率
type ArrivalProbability struct {
	North float64 `yaml:"north"`
	East  float64 `yaml:"east"`
	South float64 `yaml:"south"`
	West  float64 `yaml:"west"`
}

// CrashProbability 某一类驾驶员通过路口时的事故概率
type CrashProbability struct {
	FenderBender float64 `yaml:"fender_bender"` // 轻微剐蹭
	Fatal        float64 `yaml:"fatal"`         // 致命事故
}

// Probability 随机过程参数
type Probability struct {
	Arrival         ArrivalProbability `yaml:"arrival"`
	Turn            float64            `yaml:"turn"`      // 转弯概率
	LeftTurn        float64            `yaml:"left_turn"` // 转弯条件下左转概率
	Human           float64            `yaml:"human"`     // 人类驾驶员概率
	HumanCrash      CrashProbability   `yaml:"human_crash"`
	AutonomousCrash CrashProbability   `yaml:"autonomous_crash"`
}

// Penalty 事故导致的额外耗时（秒）
type Penalty struct {
	FenderBender float64 `yaml:"fender_bender"`
	Fatal        float64 `yaml:"fatal"`
}

// Config YAML配置文件的根结构
// 功能：定义整个仿真系统的配置结构
// 说明：包含控制、耗时、概率、事故惩罚与输出等所有配置项
type Config struct {
	Control     Control     `yaml:"control"`
	Timing      Timing      `yaml:"timing"`
	Probability Probability `yaml:"probability"`
	Penalty     Penalty     `yaml:"penalty"`
	Output      Output      `yaml:"output"`
}
