package car

import (
	"fmt"

	"github.com/tsinghua-fib-lab/codecraft-sched/entity"
	"github.com/tsinghua-fib-lab/codecraft-sched/utils/input"
)

// Car 车辆实体
// 功能：维护单辆车的静态属性与调度运行时状态
// 说明：运行时状态只由调度器写入；上路后车辆始终占据唯一车道上的唯一车位
type Car struct {
	id          int32
	originCross int32
	destCross   int32
	maxSpeed    int32
	plannedTime int32

	phase        entity.CarPhase
	currentSpeed int32
	aheadCross   int32 // 待通过的下游路口，未上路时为出发路口

	intent   entity.Turn  // 过下一个路口的转向
	nextRoad entity.IRoad // 过路口后进入的道路

	idealPath    []int32 // 当前边权下的理想路径（路口序列）
	idealTime    float64 // 理想路径耗时
	idealArrival float64 // 预计到达时间

	onRoad entity.IRoad
	onLane entity.ILane
	onCell int32

	departureTime int32
	passedRoads   []entity.IRoad
	passedCrosses []int32
}

// newCar 创建并初始化一个新的Car实例
// 参数：base-车辆输入记录
// 说明：初始车速为最高车速，初始待通过路口为出发路口
func newCar(base *input.CarRecord) *Car {
	return &Car{
		id:           base.ID,
		originCross:  base.From,
		destCross:    base.To,
		maxSpeed:     base.MaxSpeed,
		plannedTime:  base.PlannedTime,
		phase:        entity.PhaseGaraged,
		currentSpeed: base.MaxSpeed,
		aheadCross:   base.From,
		onCell:       entity.NoCell,
	}
}

func (c *Car) String() string {
	return fmt.Sprintf("Car %d", c.id)
}

// 获取Car ID
func (c *Car) ID() int32 {
	return c.id
}

// 获取最高车速
func (c *Car) MaxSpeed() int32 {
	return c.maxSpeed
}

// 获取计划出发时间
func (c *Car) PlannedTime() int32 {
	return c.plannedTime
}

// 获取出发路口
func (c *Car) OriginCross() int32 {
	return c.originCross
}

// 获取目的路口
func (c *Car) DestCross() int32 {
	return c.destCross
}

// 获取调度状态
func (c *Car) Phase() entity.CarPhase {
	return c.phase
}

// 设置调度状态
func (c *Car) SetPhase(phase entity.CarPhase) {
	c.phase = phase
}

// 获取当前车速
func (c *Car) CurrentSpeed() int32 {
	return c.currentSpeed
}

// 设置当前车速
func (c *Car) SetCurrentSpeed(v int32) {
	c.currentSpeed = v
}

// 获取待通过的下游路口
func (c *Car) AheadCross() int32 {
	return c.aheadCross
}

// 设置待通过的下游路口
func (c *Car) SetAheadCross(id int32) {
	c.aheadCross = id
}

// 获取过路口转向
func (c *Car) Intent() entity.Turn {
	return c.intent
}

// 获取过路口后进入的道路
func (c *Car) NextRoad() entity.IRoad {
	return c.nextRoad
}

// SetPlan 写入过路口方案
func (c *Car) SetPlan(intent entity.Turn, next entity.IRoad) {
	c.intent = intent
	c.nextRoad = next
}

// ClearPlan 清除过路口方案（每个时间片开始时重新规划）
func (c *Car) ClearPlan() {
	c.intent = entity.TurnNone
	c.nextRoad = nil
}

// 获取理想路径
func (c *Car) IdealPath() []int32 {
	return c.idealPath
}

// 获取理想路径耗时
func (c *Car) IdealTime() float64 {
	return c.idealTime
}

// 获取预计到达时间
func (c *Car) IdealArrival() float64 {
	return c.idealArrival
}

// SetIdealPlan 写入理想路径与预计到达时间
func (c *Car) SetIdealPlan(path []int32, cost float64, arrival float64) {
	c.idealPath = path
	c.idealTime = cost
	c.idealArrival = arrival
}

// 获取所在道路，未上路为nil
func (c *Car) OnRoad() entity.IRoad {
	return c.onRoad
}

// 获取所在车道，未上路为nil
func (c *Car) OnLane() entity.ILane {
	return c.onLane
}

// 获取所在车位，未上路为NoCell
func (c *Car) OnCell() int32 {
	return c.onCell
}

// SetLocation 绑定车辆的道路、车道与车位
func (c *Car) SetLocation(road entity.IRoad, lane entity.ILane, cell int32) {
	c.onRoad = road
	c.onLane = lane
	c.onCell = cell
}

// SetCell 更新车辆在当前车道上的车位
func (c *Car) SetCell(cell int32) {
	c.onCell = cell
}

// ClearLocation 解除车辆的位置绑定（到达终点时）
func (c *Car) ClearLocation() {
	c.onRoad = nil
	c.onLane = nil
	c.onCell = entity.NoCell
}

// 获取实际出发时间
func (c *Car) DepartureTime() int32 {
	return c.departureTime
}

// 设置实际出发时间
func (c *Car) SetDepartureTime(t int32) {
	c.departureTime = t
}

// AppendPassed 追加途经道路与其入口路口
func (c *Car) AppendPassed(road entity.IRoad) {
	c.passedRoads = append(c.passedRoads, road)
	c.passedCrosses = append(c.passedCrosses, road.FromCross())
}

// PassedRoadIDs 途经道路的原始ID序列
func (c *Car) PassedRoadIDs() []int32 {
	ids := make([]int32, 0, len(c.passedRoads))
	for _, r := range c.passedRoads {
		ids = append(ids, r.OriginalID())
	}
	return ids
}

// PassedCrosses 途经路口序列（每条途经道路的入口路口）
func (c *Car) PassedCrosses() []int32 {
	return c.passedCrosses
}
