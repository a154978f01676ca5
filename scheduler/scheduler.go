package scheduler

import (
	"math"
	"sort"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/codecraft-sched/entity"
)

// Scheduler 交通调度器
// 功能：驱动逐时间片的调度状态机
// 说明：每个时间片依次执行路上车辆调度（车道内行进的不动点、过路口的不动点）
// 与上路调度，全部在途车辆调度完成后本时间片结束
type Scheduler struct {
	ctx entity.ITaskContext

	blockCapacity int32 // 路网封锁容量

	carsToRun   []entity.ICar // 车库中等待上路的车辆，按ID升序
	runningCars []entity.ICar // 路上车辆
	endedCars   []entity.ICar // 已到达车辆
	unreachable []entity.ICar // 初始规划即不可达的车辆，不参与调度与输出

	// 本时间片内各进入道路队首车辆的转向申明，让行判定在整个时间片内
	// 对同一申明保持一致（先到的直行车过了路口后，让行车辆仍需等到下一时间片）
	yieldClaims map[string]entity.Turn
}

// New 创建调度器
// 功能：初始化车辆分组并为全部车辆做初始路径规划
// 参数：ctx-任务上下文
// 说明：初始规划用于估计预计到达时间并发现不可达车辆；
// 不可达车辆只告警一次并从调度中剔除
func New(ctx entity.ITaskContext) *Scheduler {
	s := &Scheduler{
		ctx: ctx,
		blockCapacity: int32(math.Floor(
			float64(ctx.RoadManager().TotalCapacity()) * ctx.RuntimeConfig().S.CapacityThreshold)),
	}
	for _, car := range ctx.CarManager().Cars() {
		if car.OriginCross() != car.DestCross() && !ctx.Router().PlanForCarToRun(car, ctx.Clock().T) {
			log.Warnf("%v: no path from cross %d to cross %d, dropped", car, car.OriginCross(), car.DestCross())
			s.unreachable = append(s.unreachable, car)
			continue
		}
		s.carsToRun = append(s.carsToRun, car)
	}
	sort.Slice(s.carsToRun, func(i, j int) bool { return s.carsToRun[i].ID() < s.carsToRun[j].ID() })
	return s
}

// Done 全部车辆是否都已离开调度（车库与路网均为空）
func (s *Scheduler) Done() bool {
	return len(s.carsToRun) == 0 && len(s.runningCars) == 0
}

// EndedCars 已到达车辆
func (s *Scheduler) EndedCars() []entity.ICar {
	return s.endedCars
}

// RunningCount 路上车辆数
func (s *Scheduler) RunningCount() int {
	return len(s.runningCars)
}

// GarageCount 车库中车辆数
func (s *Scheduler) GarageCount() int {
	return len(s.carsToRun)
}

// Step 执行一个时间片的调度
// 算法说明：
// 1. 路上车辆全部置为待调度并清除上一时间片的过路口方案
// 2. 路上车辆调度：车道内行进与过路口交替推进至不动点
// 3. 占用一致性检查
// 4. 上路调度：按容量与在途数量限制放行车库车辆
func (s *Scheduler) Step() {
	s.sendRunSignals()
	s.scheduleRunningCars()
	s.checkPositions()
	s.scheduleCarsToRun()
	log.Debugf("tick %d: schedule complete", s.ctx.Clock().T)
}

// sendRunSignals 时间片开始，路上车辆回到待调度状态
func (s *Scheduler) sendRunSignals() {
	for _, car := range s.runningCars {
		car.SetPhase(entity.PhasePending)
		car.ClearPlan()
	}
	s.yieldClaims = make(map[string]entity.Turn)
}

// nonSettled 尚未完成调度的路上车辆数
func (s *Scheduler) nonSettled() int {
	return lo.CountBy(s.runningCars, func(car entity.ICar) bool {
		return car.Phase() != entity.PhaseSettled
	})
}

// removeRunning 将车辆移出路上车辆列表
func (s *Scheduler) removeRunning(car entity.ICar) {
	s.runningCars = lo.Without(s.runningCars, car)
}

// checkPositions 占用一致性检查
// 功能：校验每辆路上车辆与其车位的互相引用
// 说明：不一致属于调度器内部错误，直接中止
func (s *Scheduler) checkPositions() {
	for _, car := range s.runningCars {
		if car.OnLane() == nil || car.OnCell() == entity.NoCell {
			log.Panicf("%v: running without a cell", car)
		}
		if car.OnLane().Get(car.OnCell()) != car {
			log.Panicf("%v: cell %d of %v holds %v", car, car.OnCell(), car.OnLane(), car.OnLane().Get(car.OnCell()))
		}
	}
}
