package roadnet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/codecraft-sched/entity"
	"github.com/tsinghua-fib-lab/codecraft-sched/entity/car"
	"github.com/tsinghua-fib-lab/codecraft-sched/entity/cross"
	"github.com/tsinghua-fib-lab/codecraft-sched/entity/road"
	"github.com/tsinghua-fib-lab/codecraft-sched/entity/roadnet"
	"github.com/tsinghua-fib-lab/codecraft-sched/utils/input"
)

func makeNet(t *testing.T) (*roadnet.RoadNet, entity.IRoadManager) {
	t.Helper()
	crossIDs := map[int32]bool{1: true, 2: true, 3: true}
	rm := road.NewManager()
	require.NoError(t, rm.Init([]*input.RoadRecord{
		{ID: 1, Length: 6, MaxSpeed: 3, LaneCount: 1, From: 1, To: 2, IsDuplex: true},
		{ID: 2, Length: 8, MaxSpeed: 2, LaneCount: 1, From: 2, To: 3},
	}, 0.5, crossIDs))
	cm := cross.NewManager()
	require.NoError(t, cm.Init([]*input.CrossRecord{
		{ID: 1, Slots: [4]int32{1, -1, -1, -1}},
		{ID: 2, Slots: [4]int32{1, 2, -1, -1}},
		{ID: 3, Slots: [4]int32{2, -1, -1, -1}},
	}, rm))
	return roadnet.New(cm, rm), rm
}

func TestNetTopology(t *testing.T) {
	net, rm := makeNet(t)

	assert.Equal(t, []int32{1, 2, 3}, net.Vertices())
	assert.Equal(t, []int32{2}, net.NeighborsOut(1))
	assert.Equal(t, []int32{1, 3}, net.NeighborsOut(2))
	assert.Empty(t, net.NeighborsOut(3))

	assert.Equal(t, rm.Get("1#1"), net.RoadBetween(1, 2))
	assert.Equal(t, rm.Get("1#2"), net.RoadBetween(2, 1))
	assert.Nil(t, net.RoadBetween(1, 3))
}

func TestNetWeights(t *testing.T) {
	net, rm := makeNet(t)

	// 初始权重为 长度/道路限速
	assert.InDelta(t, 2.0, net.EdgeWeight(1, 2), 1e-9)
	assert.InDelta(t, 4.0, net.EdgeWeight(2, 3), 1e-9)
	// 无边视为禁行
	assert.InDelta(t, entity.BlockedWeight, net.EdgeWeight(1, 3), 1e-9)

	// 入口侧末位车辆变慢后权重上升
	carM := car.NewManager()
	require.NoError(t, carM.Init([]*input.CarRecord{
		{ID: 1, From: 1, To: 2, MaxSpeed: 3, PlannedTime: 0},
		{ID: 2, From: 1, To: 2, MaxSpeed: 3, PlannedTime: 0},
	}, map[int32]bool{1: true, 2: true}))
	c := carM.Get(1)
	c.SetCurrentSpeed(1)

	r := rm.Get("1#1")
	r.Lanes()[0].Set(4, c)
	net.UpdateRoadWeight(r)
	assert.InDelta(t, 6.0, net.EdgeWeight(1, 2), 1e-9)

	// 入口无空位时权重为封锁值
	r.Lanes()[0].Set(5, carM.Get(2))
	net.UpdateRoadWeight(r)
	assert.InDelta(t, entity.BlockedWeight, net.EdgeWeight(1, 2), 1e-9)
}
