// 仿真结果输出：CSV文件、MongoDB与统计摘要
package output

import (
	"context"

	"github.com/hsidd1/SDI-40-Simulation/entity"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "output")

// Result 一次仿真运行的全部终态数据
type Result struct {
	RunID       string  // 运行标识
	Replication int32   // 重复实验序号（从0开始）
	Seed        uint64  // 随机种子
	Clock       float64 // 结束时的仿真时间（秒）
	Steps       int64   // 总步数

	Completed []entity.Record // 正常通过的车辆，按离开顺序
	Crashed   []entity.Record // 发生事故的车辆，按离开顺序
}

// Finished 离开路口的车辆总数
func (r *Result) Finished() int {
	return len(r.Completed) + len(r.Crashed)
}

// ISink 结果接收者
// 说明：只消费已完成仿真的终态数据，不影响仿真行为
type ISink interface {
	Name() string
	Write(ctx context.Context, res *Result) error
}
