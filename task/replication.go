package task

import (
	"context"
	"errors"
	"fmt"

	"git.fiblab.net/general/common/v2/parallel"
	"git.fiblab.net/sim/syncer/v3"
	"github.com/hsidd1/SDI-40-Simulation/output"
	"github.com/hsidd1/SDI-40-Simulation/utils/config"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Seeds 各次重复实验的随机种子
// 说明：第i次实验使用seed+i
func Seeds(c config.Config) []uint64 {
	n := max(c.Control.Replications, 1)
	return lo.Times(int(n), func(i int) uint64 {
		return c.Control.Seed + uint64(i)
	})
}

type runResult struct {
	res *output.Result
	err error
}

// RunAll 运行全部重复实验
// 功能：单次实验时在当前协程运行并使用sidecar，多次实验时并行运行且不提供RPC服务
// 参数：c-配置，sidecar-外部sidecar实例（可为nil）
// 返回：按实验序号排列的结果；任一实验失败时返回合并后的错误
func RunAll(c config.Config, sidecar *syncer.Sidecar) ([]*output.Result, error) {
	seeds := Seeds(c)
	if len(seeds) == 1 {
		ctx, err := NewContext(c, 0, seeds[0], sidecar)
		if err != nil {
			return nil, err
		}
		res, err := ctx.Run()
		if err != nil {
			return nil, err
		}
		return []*output.Result{res}, nil
	}
	if sidecar != nil {
		log.Warnf("%d replications run in parallel without the clock service", len(seeds))
	}
	indexes := lo.Range(len(seeds))
	runs := parallel.GoMap(indexes, func(i int) runResult {
		ctx, err := NewContext(c, int32(i), seeds[i], nil)
		if err != nil {
			return runResult{err: err}
		}
		res, err := ctx.Run()
		return runResult{res: res, err: err}
	})
	var errs []error
	for _, r := range runs {
		if r.err != nil {
			errs = append(errs, r.err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return lo.Map(runs, func(r runResult, _ int) *output.Result { return r.res }), nil
}

// Sinks 根据输出配置创建结果接收者
func Sinks(c config.Config) []output.ISink {
	var sinks []output.ISink
	if c.Output.Summary {
		sinks = append(sinks, output.NewSummarySink(c.Output.PrintTimes))
	}
	if c.Output.CSV.File != "" {
		sinks = append(sinks, output.NewCSVSink(c.Output.CSV, max(c.Control.Replications, 1)))
	}
	if c.Output.Mongo.URI != "" {
		sinks = append(sinks, output.NewMongoSink(c.Output.Mongo))
	}
	return sinks
}

// Write 将所有结果并发写入所有接收者
// 返回：第一个写入错误
func Write(goCtx context.Context, sinks []output.ISink, results []*output.Result) error {
	g, gCtx := errgroup.WithContext(goCtx)
	for _, sink := range sinks {
		for _, res := range results {
			g.Go(func() error {
				if err := sink.Write(gCtx, res); err != nil {
					return fmt.Errorf("%s sink, run %d: %w", sink.Name(), res.Replication, err)
				}
				return nil
			})
		}
	}
	return g.Wait()
}
