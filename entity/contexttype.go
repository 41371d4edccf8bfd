package entity

import (
	"github.com/hsidd1/SDI-40-Simulation/clock"
	"github.com/hsidd1/SDI-40-Simulation/utils/config"
)

type ITaskContext interface {
	Clock() *clock.Clock
	RuntimeConfig() *config.RuntimeConfig
}
