package output

import (
	"context"
	"sort"

	"github.com/hsidd1/SDI-40-Simulation/entity"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// Stats 一组通行时间的统计量
type Stats struct {
	Count int
	Mean  float64
	Std   float64
	P50   float64
	P90   float64
	P99   float64
	Max   float64
}

// Summary 一次运行的通行时间统计
type Summary struct {
	Completed  Stats // 正常通过
	Human      Stats // 正常通过的人类驾驶员
	Autonomous Stats // 正常通过的自动驾驶车辆
	Crashed    Stats // 事故车辆（含事故惩罚）

	FenderBenders int
	Fatals        int

	Throughput float64 // 每小时离开路口的车辆数
}

// Describe 计算通行时间的统计量
// 算法说明：均值与样本标准差由gonum计算，分位数取经验分布；样本数少于2时标准差为0
func Describe(times []float64) Stats {
	if len(times) == 0 {
		return Stats{}
	}
	sorted := append([]float64(nil), times...)
	sort.Float64s(sorted)
	s := Stats{
		Count: len(sorted),
		P50:   stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90:   stat.Quantile(0.9, stat.Empirical, sorted, nil),
		P99:   stat.Quantile(0.99, stat.Empirical, sorted, nil),
		Max:   sorted[len(sorted)-1],
	}
	if len(sorted) < 2 {
		s.Mean = sorted[0]
	} else {
		s.Mean, s.Std = stat.MeanStdDev(sorted, nil)
	}
	return s
}

func elapsed(records []entity.Record) []float64 {
	return lo.Map(records, func(r entity.Record, _ int) float64 {
		return r.ElapsedTime
	})
}

// Summarize 计算一次运行的统计摘要
func Summarize(res *Result) Summary {
	human, autonomous := lo.FilterReject(res.Completed, func(r entity.Record, _ int) bool {
		return r.Human
	})
	outcomes := lo.CountValuesBy(res.Crashed, func(r entity.Record) entity.Outcome {
		return r.Outcome
	})
	s := Summary{
		Completed:     Describe(elapsed(res.Completed)),
		Human:         Describe(elapsed(human)),
		Autonomous:    Describe(elapsed(autonomous)),
		Crashed:       Describe(elapsed(res.Crashed)),
		FenderBenders: outcomes[entity.OutcomeFenderBender],
		Fatals:        outcomes[entity.OutcomeFatal],
	}
	if res.Clock > 0 {
		s.Throughput = float64(res.Finished()) / res.Clock * 3600
	}
	return s
}

// SummarySink 将统计摘要打印到日志
type SummarySink struct {
	printTimes bool
}

func NewSummarySink(printTimes bool) *SummarySink {
	return &SummarySink{printTimes: printTimes}
}

func (s *SummarySink) Name() string {
	return "summary"
}

func (s *SummarySink) Write(ctx context.Context, res *Result) error {
	sum := Summarize(res)
	l := log.WithField("run", res.RunID).WithField("seed", res.Seed)
	l.Infof("finished %d drivers in %.1fs of simulated time (%d steps, %.1f drivers/hour)",
		res.Finished(), res.Clock, res.Steps, sum.Throughput)
	l.Infof("crashes: %d fender-benders, %d fatal", sum.FenderBenders, sum.Fatals)
	for _, row := range []struct {
		name  string
		stats Stats
	}{
		{"completed", sum.Completed},
		{"human", sum.Human},
		{"autonomous", sum.Autonomous},
		{"crashed", sum.Crashed},
	} {
		st := row.stats
		l.Infof("%-10s n=%d mean=%.2f std=%.2f p50=%.2f p90=%.2f p99=%.2f max=%.2f",
			row.name, st.Count, st.Mean, st.Std, st.P50, st.P90, st.P99, st.Max)
	}
	if s.printTimes {
		l.Infof("elapsed times: %v", elapsed(res.Completed))
	}
	return nil
}
