// 导航模块：在路网动态边权上提供最短路、简单路径枚举与上路道路抽样
package route

import (
	"math"

	"github.com/tsinghua-fib-lab/codecraft-sched/entity"
	"github.com/tsinghua-fib-lab/codecraft-sched/utils/config"
	"github.com/tsinghua-fib-lab/codecraft-sched/utils/randengine"
)

// Router 导航服务
// 功能：基于路网当前边权为车辆规划路径
// 说明：边权由调度器随路况刷新，每次规划都读取最新权重
type Router struct {
	net          entity.IRoadNet
	crossManager entity.ICrossManager
	rand         *randengine.Engine
	cfg          config.Scheduling
}

// New 创建导航服务
// 参数：net-路网图，crossManager-路口管理器，rand-随机数引擎，cfg-调度配置
func New(net entity.IRoadNet, crossManager entity.ICrossManager, rand *randengine.Engine, cfg config.Scheduling) *Router {
	return &Router{
		net:          net,
		crossManager: crossManager,
		rand:         rand,
		cfg:          cfg,
	}
}

// Ideal 当前边权下的最短路
// 返回：路口序列、路径耗时与是否可达
func (r *Router) Ideal(from, to int32) ([]int32, float64, bool) {
	return r.shortestPath(from, to, nil, nil)
}

// PathCost 路径上的边权之和
func (r *Router) PathCost(path []int32) float64 {
	cost := .0
	for i := 0; i+1 < len(path); i++ {
		cost += r.net.EdgeWeight(path[i], path[i+1])
	}
	return cost
}

// PlanForCarToRun 为待上路车辆重算理想路径
// 功能：按当前边权做最短路规划并写入车辆（路径、耗时、预计到达时间）
// 参数：car-待上路车辆，now-当前时间片
// 返回：不可达返回false
func (r *Router) PlanForCarToRun(car entity.ICar, now int32) bool {
	path, cost, ok := r.Ideal(car.AheadCross(), car.DestCross())
	if !ok {
		return false
	}
	arrival := math.Max(float64(car.PlannedTime()), float64(now)) + cost
	car.SetIdealPlan(path, cost, arrival)
	return true
}

// PlanForRunning 为路上车辆规划过路口方案
// 功能：在简单路径中找到第一条不掉头的路径，写入转向与下一条道路
// 返回：无可行路径返回false
// 算法说明：
// 1. 从待通过路口出发按耗时非降序枚举简单路径
// 2. 跳过回到当前道路入口路口的路径（掉头）
// 3. 以第一条可行路径更新理想路径，并按路口槽位偏移计算转向
func (r *Router) PlanForRunning(car entity.ICar) bool {
	from := car.AheadCross()
	prevCross := car.OnRoad().FromCross()
	enum := r.newPathEnum(from, car.DestCross())
	for probed := 0; probed < r.cfg.PathProbeMax; probed++ {
		path, cost, ok := enum.next()
		if !ok {
			break
		}
		if len(path) < 2 || path[1] == prevCross {
			continue
		}
		next := r.net.RoadBetween(path[0], path[1])
		if next == nil {
			continue
		}
		intent := r.crossManager.Get(from).Classify(car.OnRoad().OriginalID(), next.OriginalID())
		if intent == entity.TurnNone {
			log.Panicf("%v: road %s to road %s is not a turn at cross %d",
				car, car.OnRoad().ID(), next.ID(), from)
		}
		car.SetIdealPlan(path, cost, car.IdealArrival())
		car.SetPlan(intent, next)
		return true
	}
	return false
}

// ChooseRoadToRun 上路道路抽样
// 功能：为待上路车辆选择出发道路
// 返回：无可行道路返回nil
// 算法说明：
// 1. 枚举理想路径之外的简单路径，收集首条道路未封锁的备选路径
// 2. 理想路径首条道路未封锁时，以p_ideal概率直接选择理想路径
// 3. 其余情况按1/路径耗时为权重在备选路径中抽样
// 说明：权重使用当前边权计算，不跨时间片缓存
func (r *Router) ChooseRoadToRun(car entity.ICar) entity.IRoad {
	ideal := car.IdealPath()
	if len(ideal) < 2 {
		return nil
	}
	idealRoad := r.net.RoadBetween(ideal[0], ideal[1])
	idealBlocked := idealRoad == nil || idealRoad.State() == entity.RoadBlocked

	enum := r.newPathEnum(car.AheadCross(), car.DestCross())
	alts := make([][]int32, 0, r.cfg.PathEnumMax)
	costs := make([]float64, 0, r.cfg.PathEnumMax)
	for probed := 0; probed < r.cfg.PathProbeMax && len(alts) < r.cfg.PathEnumMax; probed++ {
		path, cost, ok := enum.next()
		if !ok {
			break
		}
		if samePath(path, ideal) {
			continue
		}
		first := r.net.RoadBetween(path[0], path[1])
		if first == nil || first.State() == entity.RoadBlocked {
			continue
		}
		alts = append(alts, path)
		costs = append(costs, cost)
	}

	if len(alts) == 0 {
		if idealBlocked {
			return nil
		}
		return idealRoad
	}
	if !idealBlocked && r.rand.PTrue(r.cfg.PIdeal) {
		return idealRoad
	}
	weights := make([]float64, len(costs))
	for i, cost := range costs {
		weights[i] = 1 / cost
	}
	picked := alts[r.rand.DiscreteDistribution(weights)]
	return r.net.RoadBetween(picked[0], picked[1])
}

// samePath 两条路径是否完全一致
func samePath(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
