package scheduler

import (
	"github.com/tsinghua-fib-lab/codecraft-sched/entity"
)

// crossFixedPoint 过路口调度的不动点
// 功能：反复全网扫描路口，按路权放行等待车辆，直到未完成数不再下降
// 说明：路口按ID升序处理，路口内进入道路按原始道路ID升序处理
func (s *Scheduler) crossFixedPoint() {
	for {
		rest := s.nonSettled()
		if rest == 0 {
			return
		}
		for _, cr := range s.ctx.CrossManager().Crosses() {
			for _, road := range cr.Incoming() {
				s.crossStepRoad(cr, road)
			}
		}
		if s.nonSettled() >= rest {
			return
		}
	}
}

// crossStepRoad 调度一条进入道路的队首车辆
// 功能：取该道路未完成车辆中最靠近路口者；先尝试在本车道内完成（前车过路口
// 离开后车辆可能无需再过路口），仍需过路口时做让行判定，通过则执行过路口，
// 否则本轮保持等待
// 算法说明（路权规则）：
// 1. 直行车辆始终放行
// 2. 左转让行于右侧道路的直行队首
// 3. 右转让行于左侧道路的直行队首与对面道路的左转队首
func (s *Scheduler) crossStepRoad(cr entity.ICross, road entity.IRoad) {
	car := road.HeadWaitingCar()
	if car == nil {
		return
	}
	s.driveCar(car, road, car.OnLane())
	if car.Phase() != entity.PhaseWaiting {
		return
	}
	switch car.Intent() {
	case entity.TurnStraight:
	case entity.TurnLeft:
		if other := s.headClaim(cr.RightIncoming(road)); other == entity.TurnStraight {
			return
		}
	case entity.TurnRight:
		if other := s.headClaim(cr.LeftIncoming(road)); other == entity.TurnStraight {
			return
		}
		if other := s.headClaim(cr.OppositeIncoming(road)); other == entity.TurnLeft {
			return
		}
	default:
		// 无过路口方案（例如当前边权下不可达），冻结在路口侧等下一时间片
		s.parkAtHead(car)
		return
	}
	s.carPassCross(car)
}

// headClaim 某进入道路队首等待车辆的转向申明
// 功能：让行判定读取的对方转向；同一道路的申明在本时间片内首次读取后固定，
// 申明车辆过了路口也不释放
// 返回：无等待车辆时为TurnNone
func (s *Scheduler) headClaim(road entity.IRoad) entity.Turn {
	if road == nil {
		return entity.TurnNone
	}
	if claim, ok := s.yieldClaims[road.ID()]; ok {
		return claim
	}
	claim := entity.TurnNone
	if car := road.HeadWaitingCar(); car != nil {
		claim = car.Intent()
	}
	s.yieldClaims[road.ID()] = claim
	return claim
}

// carPassCross 执行一次过路口
// 功能：把车辆从当前道路移动到规划的下一条道路
// 算法说明（p为当前车位）：
//  1. 下一条道路无可进入车道：车辆冻结在路口侧，本时间片不过路口
//  2. 新车道车速 vNext = min(下一条道路限速, 最高车速)，过路口后的行进距离
//     d = vNext - p；d≤0 说明速度不足以穿过路口，同样冻结在路口侧
//  3. 入口侧连续空位多于d：进入到距路口 长度-d 处，车速为vNext；
//     否则跟到末位车辆之后，车速取末位车速与最高车速的较小者
//  4. 释放原车位、登记途经道路并刷新下一条道路边权
func (s *Scheduler) carPassCross(car entity.ICar) {
	next := car.NextRoad()
	destLane := next.PickAdmittableLane()
	if destLane == nil {
		s.parkAtHead(car)
		return
	}
	p := car.OnCell()
	vNext := min(next.MaxV(), car.MaxSpeed())
	d := vNext - p
	if d <= 0 {
		s.parkAtHead(car)
		return
	}

	cell, speed := placeOnLane(destLane, car, d, vNext)
	car.OnLane().Clear(p)
	destLane.Set(cell, car)
	car.SetLocation(next, destLane, cell)
	car.SetCurrentSpeed(speed)
	car.SetAheadCross(next.ToCross())
	car.AppendPassed(next)
	car.SetPhase(entity.PhaseSettled)
	s.ctx.RoadNet().UpdateRoadWeight(next)
}

// parkAtHead 车辆无法过路口，冻结在本车道路口侧
// 说明：队首等待车辆前方必无他车，车位0可用；车速保持不变
func (s *Scheduler) parkAtHead(car entity.ICar) {
	s.moveInLane(car, car.OnLane(), 0)
	car.SetPhase(entity.PhaseSettled)
}

// placeOnLane 计算车辆进入车道的车位与车速
// 功能：上路与过路口共用的入场落位规则
// 参数：d-无阻挡时可行进的距离，vFree-无阻挡时的车速
// 返回：落位车位与入场后车速
// 算法说明：
// 1. 空车道：进入到距路口 长度-d 处（d超过长度则停在路口侧）
// 2. 入口侧连续空位多于d：进入到距路口 长度-d 处，不跟车
// 3. 否则跟到末位车辆之后，车速取末位车速与最高车速的较小者
func placeOnLane(lane entity.ILane, car entity.ICar, d, vFree int32) (int32, int32) {
	hf := lane.HeadFreeCell()
	if hf == lane.Length() {
		return max(lane.Length()-d, 0), vFree
	}
	if lane.EntryFree() > d {
		return lane.Length() - d, vFree
	}
	return hf, min(lane.DriveInSpeed(), car.MaxSpeed())
}
