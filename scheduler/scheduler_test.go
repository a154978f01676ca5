package scheduler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/codecraft-sched/entity"
	"github.com/tsinghua-fib-lab/codecraft-sched/task"
	"github.com/tsinghua-fib-lab/codecraft-sched/utils/config"
	"github.com/tsinghua-fib-lab/codecraft-sched/utils/input"
)

// step 推进一个时间片
func step(ctx *task.Context) {
	ctx.Scheduler().Step()
	ctx.Clock().Tick()
}

// runToEnd 推进到全部车辆离开调度，返回经过的时间片数
func runToEnd(t *testing.T, ctx *task.Context, maxTicks int) int {
	t.Helper()
	ticks := 0
	for !ctx.Scheduler().Done() {
		require.Less(t, ticks, maxTicks, "schedule did not finish in %d ticks", maxTicks)
		step(ctx)
		ticks++
	}
	return ticks
}

// checkInvariants 全网占用一致性检查
func checkInvariants(t *testing.T, ctx *task.Context) {
	t.Helper()
	seen := make(map[entity.ICar]bool)
	for _, r := range ctx.RoadManager().Roads() {
		occupied := int32(0)
		for _, l := range r.Lanes() {
			for cell := int32(0); cell < l.Length(); cell++ {
				car := l.Get(cell)
				if car == nil {
					continue
				}
				occupied++
				assert.False(t, seen[car], "%v occupies more than one cell", car)
				seen[car] = true
				assert.Equal(t, l, car.OnLane())
				assert.Equal(t, cell, car.OnCell())
				assert.LessOrEqual(t, car.CurrentSpeed(), min(l.MaxV(), car.MaxSpeed()))
				assert.NotEqual(t, entity.PhaseArrived, car.Phase())
			}
		}
		// 空位数与占用数互补
		assert.Equal(t, r.Capacity(), r.CapacityFree()+occupied)
	}
}

// singleRoadInput 一条道路连接两个路口
func singleRoadInput(road *input.RoadRecord, cars ...*input.CarRecord) *input.Input {
	return &input.Input{
		Cars:  cars,
		Roads: []*input.RoadRecord{road},
		Crosses: []*input.CrossRecord{
			{ID: road.From, Slots: [4]int32{road.ID, -1, -1, -1}},
			{ID: road.To, Slots: [4]int32{road.ID, -1, -1, -1}},
		},
	}
}

// TestSingleCarSingleRoad 单车单路直达
func TestSingleCarSingleRoad(t *testing.T) {
	in := singleRoadInput(
		&input.RoadRecord{ID: 100, Length: 3, MaxSpeed: 2, LaneCount: 2, From: 1, To: 2},
		&input.CarRecord{ID: 1, From: 1, To: 2, MaxSpeed: 2, PlannedTime: 0},
	)
	ctx, err := task.NewContext(in, config.Default())
	require.NoError(t, err)

	ticks := runToEnd(t, ctx, 10)
	assert.Greater(t, ticks, 1)

	ended := ctx.Scheduler().EndedCars()
	require.Len(t, ended, 1)
	assert.Equal(t, int32(0), ended[0].DepartureTime())
	assert.Equal(t, []int32{100}, ended[0].PassedRoadIDs())
	assert.Equal(t, entity.PhaseArrived, ended[0].Phase())
}

// TestDuplexUsesReverseDirection 双向道路的反向行驶，输出原始道路编号
func TestDuplexUsesReverseDirection(t *testing.T) {
	in := singleRoadInput(
		&input.RoadRecord{ID: 7, Length: 4, MaxSpeed: 1, LaneCount: 1, From: 1, To: 2, IsDuplex: true},
		&input.CarRecord{ID: 5, From: 2, To: 1, MaxSpeed: 1, PlannedTime: 3},
	)
	ctx, err := task.NewContext(in, config.Default())
	require.NoError(t, err)

	runToEnd(t, ctx, 20)

	ended := ctx.Scheduler().EndedCars()
	require.Len(t, ended, 1)
	assert.Equal(t, int32(3), ended[0].DepartureTime())
	assert.Equal(t, []int32{7}, ended[0].PassedRoadIDs())
}

// TestFollowerPlacement 同时上路的后车跟到前车之后并采用跟车车速
func TestFollowerPlacement(t *testing.T) {
	in := singleRoadInput(
		&input.RoadRecord{ID: 9, Length: 5, MaxSpeed: 4, LaneCount: 1, From: 1, To: 2},
		&input.CarRecord{ID: 1, From: 1, To: 2, MaxSpeed: 4, PlannedTime: 0},
		&input.CarRecord{ID: 2, From: 1, To: 2, MaxSpeed: 4, PlannedTime: 0},
	)
	ctx, err := task.NewContext(in, config.Default())
	require.NoError(t, err)

	step(ctx)
	car1 := ctx.CarManager().Get(1)
	car2 := ctx.CarManager().Get(2)

	// 前车进入到 长度-车速=1 处，后车跟到入口侧第一个空位
	require.NotNil(t, car1.OnLane())
	assert.Equal(t, int32(1), car1.OnCell())
	assert.Equal(t, int32(2), car2.OnCell())
	assert.Equal(t, car1.OnLane(), car2.OnLane())
	assert.Equal(t, int32(4), car2.CurrentSpeed())
	checkInvariants(t, ctx)

	runToEnd(t, ctx, 10)
	assert.Len(t, ctx.Scheduler().EndedCars(), 2)
}

// TestAdmissionGates 在途车辆软上限推迟后车上路
func TestAdmissionGates(t *testing.T) {
	c := config.Default()
	c.Scheduling.CapacityThreshold = 0.0
	c.Scheduling.OnRoadSoftCap = 1
	in := singleRoadInput(
		&input.RoadRecord{ID: 1, Length: 2, MaxSpeed: 2, LaneCount: 2, From: 1, To: 2},
		&input.CarRecord{ID: 1, From: 1, To: 2, MaxSpeed: 2, PlannedTime: 0},
		&input.CarRecord{ID: 2, From: 1, To: 2, MaxSpeed: 2, PlannedTime: 0},
	)
	ctx, err := task.NewContext(in, c)
	require.NoError(t, err)

	step(ctx)
	assert.Equal(t, 1, ctx.Scheduler().RunningCount())
	assert.Equal(t, 1, ctx.Scheduler().GarageCount())

	runToEnd(t, ctx, 10)
	car1 := ctx.CarManager().Get(1)
	car2 := ctx.CarManager().Get(2)
	assert.Equal(t, int32(0), car1.DepartureTime())
	// 前车在时间片1到达，同一时间片的上路调度随即放行后车
	assert.Equal(t, int32(1), car2.DepartureTime())
}

// TestOriginEqualsDest 出发路口即终点：按时登记出发并直接到达，途经道路为空
func TestOriginEqualsDest(t *testing.T) {
	in := singleRoadInput(
		&input.RoadRecord{ID: 1, Length: 3, MaxSpeed: 2, LaneCount: 1, From: 1, To: 2},
		&input.CarRecord{ID: 1, From: 2, To: 2, MaxSpeed: 2, PlannedTime: 4},
	)
	ctx, err := task.NewContext(in, config.Default())
	require.NoError(t, err)

	runToEnd(t, ctx, 10)
	ended := ctx.Scheduler().EndedCars()
	require.Len(t, ended, 1)
	assert.Equal(t, int32(4), ended[0].DepartureTime())
	assert.Empty(t, ended[0].PassedRoadIDs())
}

// crossInput 十字路口路网：中心路口5，北1东2南3西4
func crossInput(cars ...*input.CarRecord) *input.Input {
	return &input.Input{
		Cars: cars,
		Roads: []*input.RoadRecord{
			{ID: 1, Length: 5, MaxSpeed: 2, LaneCount: 1, From: 1, To: 5, IsDuplex: true},
			{ID: 2, Length: 5, MaxSpeed: 2, LaneCount: 1, From: 2, To: 5, IsDuplex: true},
			{ID: 3, Length: 5, MaxSpeed: 2, LaneCount: 1, From: 3, To: 5, IsDuplex: true},
			{ID: 4, Length: 5, MaxSpeed: 2, LaneCount: 1, From: 4, To: 5, IsDuplex: true},
		},
		Crosses: []*input.CrossRecord{
			{ID: 1, Slots: [4]int32{1, -1, -1, -1}},
			{ID: 2, Slots: [4]int32{2, -1, -1, -1}},
			{ID: 3, Slots: [4]int32{3, -1, -1, -1}},
			{ID: 4, Slots: [4]int32{4, -1, -1, -1}},
			{ID: 5, Slots: [4]int32{1, 2, 3, 4}},
		},
	}
}

// TestStraightOverLeft 直行优先：左转车让行后冻结在路口侧，下一时间片再过
func TestStraightOverLeft(t *testing.T) {
	c := config.Default()
	c.Scheduling.PIdeal = 1.0
	// 车1：北→东，在中心路口左转（槽位1→槽位2为+1偏移）
	// 车2：东→西，在中心路口直行（槽位2→槽位4为+2偏移）
	in := crossInput(
		&input.CarRecord{ID: 1, From: 1, To: 2, MaxSpeed: 2, PlannedTime: 0},
		&input.CarRecord{ID: 2, From: 2, To: 4, MaxSpeed: 2, PlannedTime: 0},
	)
	ctx, err := task.NewContext(in, c)
	require.NoError(t, err)

	// t0：上路到距路口3处；t1：前进到1处；t2：到达路口判定
	step(ctx)
	step(ctx)
	car1 := ctx.CarManager().Get(1)
	car2 := ctx.CarManager().Get(2)
	require.Equal(t, "1#1", car1.OnRoad().ID())
	require.Equal(t, "2#1", car2.OnRoad().ID())
	require.Equal(t, int32(1), car1.OnCell())
	require.Equal(t, int32(1), car2.OnCell())

	step(ctx)
	// 直行的车2过了路口，左转的车1冻结在路口侧
	assert.Equal(t, "4#2", car2.OnRoad().ID())
	assert.Equal(t, entity.TurnStraight, car2.Intent())
	assert.Equal(t, "1#1", car1.OnRoad().ID())
	assert.Equal(t, int32(0), car1.OnCell())
	assert.Equal(t, entity.PhaseSettled, car1.Phase())
	checkInvariants(t, ctx)

	// 下一时间片车1过路口
	step(ctx)
	assert.Equal(t, "2#2", car1.OnRoad().ID())

	runToEnd(t, ctx, 20)
	assert.Len(t, ctx.Scheduler().EndedCars(), 2)
}

// TestUnreachableCarDropped 不可达车辆不参与调度与输出
func TestUnreachableCarDropped(t *testing.T) {
	in := &input.Input{
		Cars: []*input.CarRecord{
			{ID: 1, From: 1, To: 3, MaxSpeed: 2, PlannedTime: 0},
			{ID: 2, From: 1, To: 2, MaxSpeed: 2, PlannedTime: 0},
		},
		Roads: []*input.RoadRecord{
			{ID: 1, Length: 3, MaxSpeed: 2, LaneCount: 1, From: 1, To: 2},
		},
		Crosses: []*input.CrossRecord{
			{ID: 1, Slots: [4]int32{1, -1, -1, -1}},
			{ID: 2, Slots: [4]int32{1, -1, -1, -1}},
			{ID: 3, Slots: [4]int32{-1, -1, -1, -1}},
		},
	}
	ctx, err := task.NewContext(in, config.Default())
	require.NoError(t, err)

	runToEnd(t, ctx, 10)
	ended := ctx.Scheduler().EndedCars()
	require.Len(t, ended, 1)
	assert.Equal(t, int32(2), ended[0].ID())
}

// TestInvariantsUnderLoad 多车并发调度下的全程不变量
func TestInvariantsUnderLoad(t *testing.T) {
	cars := make([]*input.CarRecord, 0, 8)
	for i := int32(1); i <= 8; i++ {
		from, to := int32(1), int32(3)
		if i%2 == 0 {
			from, to = 2, 4
		}
		cars = append(cars, &input.CarRecord{ID: i, From: from, To: to, MaxSpeed: 1 + i%3, PlannedTime: i % 4})
	}
	ctx, err := task.NewContext(crossInput(cars...), config.Default())
	require.NoError(t, err)

	ticks := 0
	for !ctx.Scheduler().Done() {
		require.Less(t, ticks, 200)
		step(ctx)
		ticks++
		checkInvariants(t, ctx)
	}
	assert.Len(t, ctx.Scheduler().EndedCars(), 8)
}
