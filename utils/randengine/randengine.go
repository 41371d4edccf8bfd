// 随机数引擎，包装了golang.org/x/exp/rand，并提供可注入的确定性随机源
package randengine

import (
	"flag"

	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset") // 种子偏移量，用于调整随机数生成
)

// Source 均匀分布随机源
// 功能：每次调用返回[0, 1)内的一个随机数
// 说明：仿真中的所有随机决策只依赖该接口，测试时可替换为固定序列
type Source interface {
	Float64() float64
}

// Engine 随机数引擎
// 功能：基于golang.org/x/exp/rand的伪随机数生成器
// 说明：非线程安全，每次仿真独占一个引擎
type Engine struct {
	*rand.Rand // 底层随机数生成器
}

// New 创建随机数引擎
// 功能：初始化一个新的随机数引擎实例
// 参数：seed-随机数种子
// 返回：随机数引擎指针
// 说明：种子偏移量允许在不修改配置的情况下调整随机数序列
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// PTrue 以指定概率返回true
// 功能：实现伯努利试验，消耗随机源中的一个随机数
// 参数：src-随机源，p-返回true的概率
func PTrue(src Source, p float64) bool {
	return src.Float64() < p
}

// Replay 固定序列随机源
// 功能：按顺序回放预先给定的随机数，用于确定性测试与重放
// 说明：序列耗尽后总是返回Fallback
type Replay struct {
	draws    []float64
	next     int
	Fallback float64
}

// NewReplay 创建固定序列随机源
// 参数：fallback-序列耗尽后返回的值，draws-依次返回的随机数
func NewReplay(fallback float64, draws ...float64) *Replay {
	return &Replay{draws: draws, Fallback: fallback}
}

func (r *Replay) Float64() float64 {
	if r.next >= len(r.draws) {
		return r.Fallback
	}
	v := r.draws[r.next]
	r.next++
	return v
}

// Consumed 已回放的随机数个数
func (r *Replay) Consumed() int {
	return r.next
}

// Remaining 尚未回放的随机数个数
func (r *Replay) Remaining() int {
	return len(r.draws) - r.next
}
