package entity

import (
	"github.com/tsinghua-fib-lab/codecraft-sched/clock"
	"github.com/tsinghua-fib-lab/codecraft-sched/utils/config"
	"github.com/tsinghua-fib-lab/codecraft-sched/utils/randengine"
)

// IRouter 导航模块接口
type IRouter interface {
	// Ideal 当前边权下的最短路（Dijkstra）
	Ideal(from, to int32) (path []int32, cost float64, ok bool)
	// PathCost 路径上的边权之和
	PathCost(path []int32) float64
	// PlanForCarToRun 为待上路车辆重算理想路径并写入车辆，不可达返回false
	PlanForCarToRun(car ICar, now int32) bool
	// PlanForRunning 为路上车辆规划过路口方案（转向与下一条道路），不可达返回false
	PlanForRunning(car ICar) bool
	// ChooseRoadToRun 上路道路抽样，无可行道路返回nil
	ChooseRoadToRun(car ICar) IRoad
}

type ITaskContext interface {
	Clock() *clock.Clock
	RuntimeConfig() *config.RuntimeConfig
	Rand() *randengine.Engine
	RoadManager() IRoadManager
	CrossManager() ICrossManager
	CarManager() ICarManager
	RoadNet() IRoadNet
	Router() IRouter
}
