package task

import (
	"flag"
	"fmt"

	"github.com/hsidd1/SDI-40-Simulation/output"
)

const (
	SelfName = "junction" // 本程序在模拟任务集群中的名字
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 1000, "心跳日志间隔步数")
)

// heartbeat 每步结束后调用，定期输出心跳日志
// 说明：心跳日志包含当前时间、完成进度、各方向队列长度与路口占用情况
func (ctx *Context) heartbeat() {
	log.Debugf("step %d complete", ctx.clock.InternalStep)
	if interval := int64(*heartBeatInterval); interval > 0 && ctx.clock.InternalStep%interval == 0 {
		hour, minute, second := ctx.clock.GetHourMinuteSecond()
		arrival, stop := ctx.junction.Sizes()
		log.Infof(
			"STEP: %d(%d:%d:%.2f) run=%d finished=%d/%d created=%d arrival=%v stop=%v free=%v",
			ctx.clock.InternalStep,
			hour, minute, second,
			ctx.replication,
			ctx.junction.Finished(), ctx.runtimeConfig.C.Total,
			ctx.junction.Created(),
			arrival, stop,
			ctx.junction.Free(),
		)
	}
}

// afterStep 每步结束后的处理：心跳日志，分布式模式下与syncer同步
// 返回：false表示收到关闭指令，停止仿真
func (ctx *Context) afterStep() bool {
	ctx.heartbeat()
	if ctx.sidecar != nil {
		// 通知准备阶段完成
		ctx.sidecar.NotifyStepReady()
		if ctx.sidecar.Step(ctx.junction.Done()) {
			return false
		}
	}
	return !ctx.closed.Load()
}

// Run 运行到有足够车辆离开路口
// 功能：由路口仿真引擎逐步执行，每步结束后调用afterStep
// 返回：本次运行的结果；超过最大步数时返回包装了junction.ErrStepLimit的错误
func (ctx *Context) Run() (*output.Result, error) {
	defer ctx.Close()
	if ctx.sidecar != nil {
		// init syncer
		ctx.sidecar.Step(false)
	}
	log.Infof("%v: start", ctx)
	if err := ctx.junction.Run(ctx.afterStep); err != nil {
		return nil, fmt.Errorf("%v: %w", ctx, err)
	}
	log.Infof("%v: engine complete at %v after %d steps", ctx, ctx.clock, ctx.clock.InternalStep)
	return ctx.result(), nil
}

func (ctx *Context) result() *output.Result {
	return &output.Result{
		RunID:       ctx.runID,
		Replication: ctx.replication,
		Seed:        ctx.seed,
		Clock:       ctx.clock.T,
		Steps:       ctx.clock.InternalStep,
		Completed:   ctx.junction.Completed(),
		Crashed:     ctx.junction.Crashed(),
	}
}
