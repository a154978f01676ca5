package roadnet

import (
	"sort"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/codecraft-sched/entity"
)

// RoadNet 路网有向加权图
// 功能：以路口为顶点、有向道路为边的加权图视图，边权随路况动态刷新
// 说明：边权 = 道路长度 / 首条可进入车道的入场车速；无可进入车道时为BlockedWeight
type RoadNet struct {
	vertices []int32
	out      map[int32][]int32
	edges    map[[2]int32]entity.IRoad
	weights  map[[2]int32]float64
}

// New 创建路网图
// 功能：根据路口与有向道路构建邻接关系并初始化边权
// 参数：crossManager-路口管理器，roadManager-道路管理器
// 说明：初始边权为 长度/道路限速（空路面的自由通行耗时）
func New(crossManager entity.ICrossManager, roadManager entity.IRoadManager) *RoadNet {
	n := &RoadNet{
		out:     make(map[int32][]int32),
		edges:   make(map[[2]int32]entity.IRoad),
		weights: make(map[[2]int32]float64),
	}
	n.vertices = lo.Map(crossManager.Crosses(), func(c entity.ICross, _ int) int32 { return c.ID() })
	for _, r := range roadManager.Roads() {
		key := [2]int32{r.FromCross(), r.ToCross()}
		n.edges[key] = r
		n.weights[key] = float64(r.Length()) / float64(r.MaxV())
		n.out[r.FromCross()] = append(n.out[r.FromCross()], r.ToCross())
	}
	for u := range n.out {
		sort.Slice(n.out[u], func(i, j int) bool { return n.out[u][i] < n.out[u][j] })
	}
	return n
}

// Vertices 全部路口ID，按升序
func (n *RoadNet) Vertices() []int32 {
	return n.vertices
}

// NeighborsOut 出边邻接路口，按ID升序
func (n *RoadNet) NeighborsOut(u int32) []int32 {
	return n.out[u]
}

// RoadBetween 边(u,v)对应的有向道路，无边返回nil
func (n *RoadNet) RoadBetween(u, v int32) entity.IRoad {
	return n.edges[[2]int32{u, v}]
}

// EdgeWeight 边(u,v)的当前权重
// 说明：无边时视为不可通行
func (n *RoadNet) EdgeWeight(u, v int32) float64 {
	if w, ok := n.weights[[2]int32{u, v}]; ok {
		return w
	}
	return entity.BlockedWeight
}

// UpdateRoadWeight 按当前路况刷新道路对应边权
// 功能：车辆进入、离开或过路口后调用，保持边权与路况一致
// 算法说明：
// 1. 取首条可进入车道，边权 = 长度 / 该车道入场车速
// 2. 无可进入车道时边权为BlockedWeight（近似禁行）
func (n *RoadNet) UpdateRoadWeight(road entity.IRoad) {
	key := [2]int32{road.FromCross(), road.ToCross()}
	if lane := road.PickAdmittableLane(); lane != nil {
		n.weights[key] = float64(road.Length()) / float64(lane.DriveInSpeed())
	} else {
		n.weights[key] = entity.BlockedWeight
	}
}
