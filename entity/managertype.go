package entity

// 依赖倒置

// entity/junction/junction.go的依赖倒置
type IJunction interface {
	// 运行到完成，afterStep在每步结束后调用，返回false时提前停止
	Run(afterStep func() bool) error

	Done() bool     // 是否已有足够车辆离开路口
	Finished() int  // 已离开路口的车辆数
	Created() int32 // 已生成的车辆数
	Free() bool     // 路口是否空闲

	// 各方向到达队列与停车线队列的长度
	Sizes() (arrival, stop [NumDirections]int)

	Completed() []Record // 正常通过的车辆记录
	Crashed() []Record   // 事故车辆记录
}
