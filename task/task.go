package task

import (
	"github.com/tsinghua-fib-lab/codecraft-sched/clock"
	"github.com/tsinghua-fib-lab/codecraft-sched/entity"
	"github.com/tsinghua-fib-lab/codecraft-sched/entity/car"
	"github.com/tsinghua-fib-lab/codecraft-sched/entity/car/route"
	"github.com/tsinghua-fib-lab/codecraft-sched/entity/cross"
	"github.com/tsinghua-fib-lab/codecraft-sched/entity/road"
	"github.com/tsinghua-fib-lab/codecraft-sched/entity/roadnet"
	"github.com/tsinghua-fib-lab/codecraft-sched/scheduler"
	"github.com/tsinghua-fib-lab/codecraft-sched/utils/config"
	"github.com/tsinghua-fib-lab/codecraft-sched/utils/input"
	"github.com/tsinghua-fib-lab/codecraft-sched/utils/randengine"
)

// Context 调度任务上下文
// 功能：包含一次调度任务的所有组件与状态
// 说明：管理时钟、各实体管理器、路网、导航与调度器的装配和运行
type Context struct {
	// 时钟
	clock *clock.Clock
	// 运行时配置文件
	runtimeConfig *config.RuntimeConfig
	// 随机数引擎
	rand *randengine.Engine

	// Road管理器
	roadManager entity.IRoadManager
	// Cross管理器
	crossManager entity.ICrossManager
	// Car管理器
	carManager entity.ICarManager
	// 路网图
	roadNet entity.IRoadNet
	// 导航服务
	router entity.IRouter
	// 调度器
	sched *scheduler.Scheduler
}

// NewContext 创建新的调度任务上下文
// 功能：初始化调度系统的所有组件
// 参数：in-解析后的输入，c-配置对象
// 返回：初始化完成的Context实例与拓扑错误
// 算法说明：
// 1. 初始化时钟、随机数引擎与运行时配置
// 2. 依次初始化道路、路口、车辆管理器（道路先于路口，路口需要接线）
// 3. 构建路网图与导航服务
// 4. 创建调度器并完成全部车辆的初始规划
func NewContext(in *input.Input, c config.Config) (*Context, error) {
	ctx := &Context{}
	ctx.runtimeConfig = config.NewRuntimeConfig(c)
	ctx.clock = clock.New(0)
	ctx.rand = randengine.New(ctx.runtimeConfig.S.RngSeed)

	crossIDs := make(map[int32]bool)
	for _, record := range in.Crosses {
		crossIDs[record.ID] = true
	}

	roadManager := road.NewManager()
	if err := roadManager.Init(in.Roads, ctx.runtimeConfig.S.CapacityThreshold, crossIDs); err != nil {
		return nil, err
	}
	ctx.roadManager = roadManager

	crossManager := cross.NewManager()
	if err := crossManager.Init(in.Crosses, ctx.roadManager); err != nil {
		return nil, err
	}
	ctx.crossManager = crossManager

	carManager := car.NewManager()
	if err := carManager.Init(in.Cars, crossIDs); err != nil {
		return nil, err
	}
	ctx.carManager = carManager

	log.Infof("Road: %v", len(ctx.roadManager.Roads()))
	log.Infof("Cross: %v", len(ctx.crossManager.Crosses()))
	log.Infof("Car: %v", len(ctx.carManager.Cars()))

	ctx.roadNet = roadnet.New(ctx.crossManager, ctx.roadManager)
	ctx.router = route.New(ctx.roadNet, ctx.crossManager, ctx.rand, ctx.runtimeConfig.S)
	ctx.sched = scheduler.New(ctx)
	return ctx, nil
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

func (ctx *Context) Rand() *randengine.Engine {
	return ctx.rand
}

func (ctx *Context) RoadManager() entity.IRoadManager {
	return ctx.roadManager
}

func (ctx *Context) CrossManager() entity.ICrossManager {
	return ctx.crossManager
}

func (ctx *Context) CarManager() entity.ICarManager {
	return ctx.carManager
}

func (ctx *Context) RoadNet() entity.IRoadNet {
	return ctx.roadNet
}

func (ctx *Context) Router() entity.IRouter {
	return ctx.router
}

func (ctx *Context) Scheduler() *scheduler.Scheduler {
	return ctx.sched
}
