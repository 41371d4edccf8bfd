package task

import (
	"fmt"
	"sync/atomic"

	"git.fiblab.net/sim/syncer/v3"
	"github.com/google/uuid"
	"github.com/hsidd1/SDI-40-Simulation/clock"
	"github.com/hsidd1/SDI-40-Simulation/entity"
	"github.com/hsidd1/SDI-40-Simulation/entity/junction"
	"github.com/hsidd1/SDI-40-Simulation/utils/config"
	"github.com/hsidd1/SDI-40-Simulation/utils/randengine"
)

// Context 仿真任务上下文
// 功能：包含一次仿真运行的所有变量和状态
// 说明：每次重复实验独占一个Context，互不共享可变状态
type Context struct {
	// 运行标识
	runID string
	// 重复实验序号
	replication int32
	// 随机种子
	seed uint64
	// 关闭指令
	closed atomic.Bool

	// 时钟
	clock *clock.Clock

	// 辅助程序，处理分布式模式下与syncer的交互，为nil时为独立运行
	sidecar *syncer.Sidecar
	// sidecar close channel
	sidecarCloseCh chan struct{}

	// 运行时配置
	runtimeConfig *config.RuntimeConfig
	// 路口仿真引擎
	junction entity.IJunction
}

// NewContext 创建新的仿真任务上下文
// 功能：校验配置并初始化时钟、随机数引擎和路口仿真引擎
// 参数：
//   - c: 配置对象
//   - replication: 重复实验序号
//   - seed: 本次运行的随机种子
//   - sidecar: 外部sidecar实例，为nil时不提供RPC服务
//
// 返回：初始化完成的Context实例；配置不合法时返回错误
// 算法说明：
// 1. 校验配置并生成运行时配置
// 2. 创建时钟与路口仿真引擎
// 3. 注册时钟服务并启动sidecar服务（如果有）
func NewContext(c config.Config, replication int32, seed uint64, sidecar *syncer.Sidecar) (*Context, error) {
	rc, err := config.NewRuntimeConfig(c)
	if err != nil {
		return nil, err
	}
	ctx := &Context{
		runID:          uuid.New().String(),
		replication:    replication,
		seed:           seed,
		sidecar:        sidecar,
		sidecarCloseCh: make(chan struct{}),
		runtimeConfig:  rc,
	}
	ctx.clock = clock.New(c.Control.Step, c.Control.MaxSteps)
	ctx.junction = junction.New(ctx, randengine.New(seed))

	if ctx.sidecar != nil {
		ctx.clock.Register(ctx.sidecar)
		// sidecar协程，用于提供gRPC服务
		go func() {
			if err := ctx.sidecar.Serve(); err != nil {
				log.Panicf("failed to serve: %v", err)
			}
			ctx.sidecarCloseCh <- struct{}{}
		}()
	}
	return ctx, nil
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

func (ctx *Context) Junction() entity.IJunction {
	return ctx.junction
}

func (ctx *Context) RunID() string {
	return ctx.runID
}

func (ctx *Context) String() string {
	return fmt.Sprintf("run %d (seed %d, id %s)", ctx.replication, ctx.seed, ctx.runID)
}

func (ctx *Context) Close() {
	if ctx.closed.Load() {
		return
	}
	ctx.closed.Store(true)
	if ctx.sidecar == nil {
		return
	}
	ctx.sidecar.Close()
	// wait for graceful stop
	<-ctx.sidecarCloseCh
}
