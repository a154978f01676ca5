package scheduler

import (
	"github.com/tsinghua-fib-lab/codecraft-sched/entity"
)

// scheduleRunningCars 路上车辆调度
// 功能：把每辆路上车辆推进到本时间片的最终位置
// 算法说明：
//  1. 车道内行进：反复全网扫描，凡是不过路口即可完成调度的车辆直接完成，
//     直到一轮扫描无任何变化
//  2. 过路口调度：按路口ID升序反复全网扫描，按路权放行等待车辆，
//     直到未完成数不再下降
//  3. 两者交替推进；一轮交替没有任何车辆完成时，剩余车辆互相封堵，
//     就地冻结到路口侧后本时间片结束，下一时间片重试
func (s *Scheduler) scheduleRunningCars() {
	if len(s.runningCars) == 0 {
		return
	}
	for {
		rest := s.nonSettled()
		if rest == 0 {
			break
		}
		for s.drivePass() {
		}
		s.crossFixedPoint()
		newRest := s.nonSettled()
		if newRest == 0 {
			break
		}
		if newRest >= rest {
			log.Debugf("tick %d: %d cars pinned, freezing", s.ctx.Clock().T, newRest)
			s.freezePinned()
			break
		}
	}
}

// drivePass 车道内行进的一轮全网扫描
// 功能：按(路口ID, 进入道路ID, 车道序, 车位)顺序处理每辆未完成车辆
// 返回：本轮是否有任何车辆状态变化
func (s *Scheduler) drivePass() bool {
	changed := false
	for _, cr := range s.ctx.CrossManager().Crosses() {
		for _, road := range cr.Incoming() {
			for _, lane := range road.Lanes() {
				for _, car := range lane.Cars() {
					if car.Phase() == entity.PhaseSettled {
						continue
					}
					if s.driveCar(car, road, lane) {
						changed = true
					}
				}
			}
		}
	}
	return changed
}

// driveCar 调度一辆只在本车道上行进的车辆
// 功能：能在本车道内完成调度的车辆直接完成；需要过路口的车辆规划转向后标记等待
// 返回：车辆状态是否变化
// 算法说明（p为当前车位，v为本时间片有效车速）：
// 1. 无前车且p≥v：前进v格完成调度
// 2. 无前车且p<v：将要过路口；下游路口即终点则到达，否则规划转向并等待
// 3. 前车已完成调度：间隔足够则前进v格，否则跟到前车之后并采用跟车车速
// 4. 前车未完成调度：等待前车，若可能过路口则先规划转向
func (s *Scheduler) driveCar(car entity.ICar, road entity.IRoad, lane entity.ILane) bool {
	p := car.OnCell()
	v := min(lane.MaxV(), car.MaxSpeed())
	lead := lane.Predecessor(p)

	if lead == entity.NoCell {
		if p >= v {
			s.moveInLane(car, lane, p-v)
			car.SetCurrentSpeed(v)
			car.SetPhase(entity.PhaseSettled)
			return true
		}
		// 将要过路口
		if car.AheadCross() == car.DestCross() {
			s.arrive(car, road, lane)
			return true
		}
		if car.Intent() == entity.TurnNone {
			s.ctx.Router().PlanForRunning(car)
		}
		return s.markWaiting(car)
	}

	leader := lane.Get(lead)
	if leader.Phase() == entity.PhaseSettled {
		if gap := p - lead - 1; gap >= v {
			s.moveInLane(car, lane, p-v)
			car.SetCurrentSpeed(v)
		} else {
			s.moveInLane(car, lane, lead+1)
			car.SetCurrentSpeed(min(leader.CurrentSpeed(), car.MaxSpeed()))
		}
		car.SetPhase(entity.PhaseSettled)
		return true
	}

	// 前车未完成调度
	if car.Intent() == entity.TurnNone && p < v {
		s.ctx.Router().PlanForRunning(car)
	}
	return s.markWaiting(car)
}

// markWaiting 标记车辆等待过路口
// 返回：状态是否发生变化
func (s *Scheduler) markWaiting(car entity.ICar) bool {
	if car.Phase() == entity.PhaseWaiting {
		return false
	}
	car.SetPhase(entity.PhaseWaiting)
	return true
}

// moveInLane 车辆在本车道内移动到目标车位
// 说明：先释放原车位再写入目标车位，车辆绝不会同时占据两个车位
func (s *Scheduler) moveInLane(car entity.ICar, lane entity.ILane, to int32) {
	from := car.OnCell()
	if from == to {
		return
	}
	lane.Clear(from)
	lane.Set(to, car)
	car.SetCell(to)
}

// arrive 车辆到达终点
// 功能：释放车位、结束车辆并刷新原道路边权
func (s *Scheduler) arrive(car entity.ICar, road entity.IRoad, lane entity.ILane) {
	lane.Clear(car.OnCell())
	car.ClearLocation()
	car.SetPhase(entity.PhaseArrived)
	s.removeRunning(car)
	s.endedCars = append(s.endedCars, car)
	s.ctx.RoadNet().UpdateRoadWeight(road)
	log.Debugf("tick %d: %v arrived at cross %d", s.ctx.Clock().T, car, car.DestCross())
}

// freezePinned 冻结互相封堵的剩余车辆
// 功能：过路口不动点停滞后，把剩余未完成车辆就地推进到本车道内可达的最远位置
// 算法说明：按车位从路口侧向入口侧处理，队首车辆冻结在路口侧（车位0），
// 后车依照跟车规则补位；全部标记为完成，下一时间片重试
func (s *Scheduler) freezePinned() {
	for _, cr := range s.ctx.CrossManager().Crosses() {
		for _, road := range cr.Incoming() {
			for _, lane := range road.Lanes() {
				for _, car := range lane.Cars() {
					if car.Phase() == entity.PhaseSettled {
						continue
					}
					p := car.OnCell()
					v := min(lane.MaxV(), car.MaxSpeed())
					if lead := lane.Predecessor(p); lead == entity.NoCell {
						s.moveInLane(car, lane, 0)
					} else if gap := p - lead - 1; gap >= v {
						s.moveInLane(car, lane, p-v)
						car.SetCurrentSpeed(v)
					} else {
						s.moveInLane(car, lane, lead+1)
						car.SetCurrentSpeed(min(lane.Get(lead).CurrentSpeed(), car.MaxSpeed()))
					}
					car.SetPhase(entity.PhaseSettled)
				}
			}
		}
	}
}
