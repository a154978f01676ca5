package scheduler

import (
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/codecraft-sched/entity"
)

// scheduleCarsToRun 上路调度
// 功能：按容量限制放行车库中到达计划出发时间的车辆
// 算法说明：
//  1. 放行前置条件：路网剩余容量高于封锁容量，且在途车辆数低于软上限；
//     任一条件不满足立即停止本时间片的放行
//  2. 可出发集合：计划出发时间不晚于当前时间片的车库车辆，按ID升序
//  3. 对每辆车：重算理想路径，抽样出发道路；道路不可进入则本时间片暂缓
//  4. 落位规则与过路口一致；出发即视为本时间片调度完成
//  5. 出发路口即终点的车辆不占用路网，登记出发时间后直接到达
func (s *Scheduler) scheduleCarsToRun() {
	now := s.ctx.Clock().T
	eligible := lo.Filter(s.carsToRun, func(car entity.ICar, _ int) bool {
		return car.PlannedTime() <= now
	})
	if len(eligible) == 0 {
		log.Debugf("tick %d: no car planned to depart", now)
		return
	}

	departed := make(map[entity.ICar]bool)
	for _, car := range eligible {
		if free := s.ctx.RoadManager().CapacityFree(); free <= s.blockCapacity {
			log.Debugf("tick %d: free capacity %d under block capacity %d, departure suspended",
				now, free, s.blockCapacity)
			break
		}
		if len(s.runningCars) >= s.ctx.RuntimeConfig().S.OnRoadSoftCap {
			log.Debugf("tick %d: %d cars on road, departure suspended", now, len(s.runningCars))
			break
		}

		// 原地到达：出发路口即终点
		if car.OriginCross() == car.DestCross() {
			car.SetDepartureTime(now)
			car.SetPhase(entity.PhaseArrived)
			s.endedCars = append(s.endedCars, car)
			departed[car] = true
			continue
		}

		// 上路后路网信息会变化，在当前边权下重新规划
		if !s.ctx.Router().PlanForCarToRun(car, now) {
			continue
		}
		road := s.ctx.Router().ChooseRoadToRun(car)
		if road == nil || road.State() != entity.RoadDriveIn {
			log.Debugf("tick %d: %v has no drivable departure road, postponed", now, car)
			continue
		}
		lane := road.PickAdmittableLane()
		if lane == nil {
			continue
		}

		v := min(road.MaxV(), car.MaxSpeed())
		cell, speed := placeOnLane(lane, car, v, v)
		lane.Set(cell, car)
		car.SetLocation(road, lane, cell)
		car.SetCurrentSpeed(speed)
		car.SetAheadCross(road.ToCross())
		car.AppendPassed(road)
		car.SetDepartureTime(now)
		car.SetPhase(entity.PhaseSettled)

		s.runningCars = append(s.runningCars, car)
		departed[car] = true
		s.ctx.RoadNet().UpdateRoadWeight(road)
	}
	if len(departed) > 0 {
		s.carsToRun = lo.Filter(s.carsToRun, func(car entity.ICar, _ int) bool {
			return !departed[car]
		})
		log.Debugf("tick %d: %d cars departed", now, len(departed))
	}
}
