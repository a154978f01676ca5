package route

import (
	"github.com/tsinghua-fib-lab/codecraft-sched/utils/container"
)

// shortestPath 带屏蔽条件的Dijkstra最短路
// 功能：在当前边权下求from到to的最短路，可屏蔽指定边与路口
// 参数：bannedEdges-禁用边集合，bannedVerts-禁用路口集合（均可为nil）
// 返回：路口序列、耗时与是否可达
func (r *Router) shortestPath(from, to int32, bannedEdges map[[2]int32]bool, bannedVerts map[int32]bool) ([]int32, float64, bool) {
	if bannedVerts[from] {
		return nil, 0, false
	}
	if from == to {
		return []int32{from}, 0, true
	}
	dist := map[int32]float64{from: 0}
	prev := make(map[int32]int32)
	done := make(map[int32]bool)
	queue := container.NewPriorityQueue[int32]()
	queue.Push(from, 0)
	for queue.Len() > 0 {
		u, d := queue.Pop()
		if done[u] {
			continue
		}
		done[u] = true
		if u == to {
			path := []int32{to}
			for v := to; v != from; v = prev[v] {
				path = append(path, prev[v])
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path, d, true
		}
		for _, v := range r.net.NeighborsOut(u) {
			if done[v] || bannedVerts[v] || bannedEdges[[2]int32{u, v}] {
				continue
			}
			if nd := d + r.net.EdgeWeight(u, v); nd < distOrInf(dist, v) {
				dist[v] = nd
				prev[v] = u
				queue.Push(v, nd)
			}
		}
	}
	return nil, 0, false
}

func distOrInf(dist map[int32]float64, v int32) float64 {
	if d, ok := dist[v]; ok {
		return d
	}
	return inf
}

const inf = 1e18

// pathEnum 简单路径枚举器
// 功能：按耗时非降序惰性枚举from到to的简单路径（Yen算法）
// 说明：调用方负责探索/保留数量上限；边权在一次枚举过程中按调用时的值读取
type pathEnum struct {
	router *Router
	to     int32

	found      [][]int32                         // 已产出的路径
	candidates *container.PriorityQueue[[]int32] // 候选路径，按耗时排序
	seen       map[string]bool                   // 候选去重
	started    bool
	exhausted  bool
	first      []int32
	firstCost  float64
	firstOK    bool
}

// newPathEnum 创建简单路径枚举器
func (r *Router) newPathEnum(from, to int32) *pathEnum {
	e := &pathEnum{
		router:     r,
		to:         to,
		candidates: container.NewPriorityQueue[[]int32](),
		seen:       make(map[string]bool),
	}
	e.first, e.firstCost, e.firstOK = r.shortestPath(from, to, nil, nil)
	return e
}

// next 产出下一条简单路径
// 返回：路径、耗时与是否还有路径
// 算法说明：
//  1. 首次调用直接返回最短路
//  2. 之后以上一条产出路径的每个前缀为根，屏蔽已产出路径的分叉边与根上路口，
//     求偏移支路并加入候选集
//  3. 从候选集中弹出耗时最小且未产出过的路径
func (e *pathEnum) next() ([]int32, float64, bool) {
	if !e.started {
		e.started = true
		if !e.firstOK {
			e.exhausted = true
			return nil, 0, false
		}
		e.found = append(e.found, e.first)
		return e.first, e.firstCost, true
	}
	if e.exhausted {
		return nil, 0, false
	}
	prev := e.found[len(e.found)-1]
	for i := 0; i+1 < len(prev); i++ {
		spur := prev[i]
		root := prev[:i+1]
		bannedEdges := make(map[[2]int32]bool)
		for _, p := range e.found {
			if len(p) > i && samePath(p[:i+1], root) && len(p) > i+1 {
				bannedEdges[[2]int32{p[i], p[i+1]}] = true
			}
		}
		bannedVerts := make(map[int32]bool)
		for _, v := range root[:len(root)-1] {
			bannedVerts[v] = true
		}
		spurPath, _, ok := e.router.shortestPath(spur, e.to, bannedEdges, bannedVerts)
		if !ok {
			continue
		}
		total := make([]int32, 0, len(root)+len(spurPath)-1)
		total = append(total, root...)
		total = append(total, spurPath[1:]...)
		key := pathKey(total)
		if e.seen[key] {
			continue
		}
		e.seen[key] = true
		e.candidates.Push(total, e.router.PathCost(total))
	}
	for e.candidates.Len() > 0 {
		path, cost := e.candidates.Pop()
		if produced(e.found, path) {
			continue
		}
		e.found = append(e.found, path)
		return path, cost, true
	}
	e.exhausted = true
	return nil, 0, false
}

// produced 路径是否已产出过
func produced(found [][]int32, path []int32) bool {
	for _, p := range found {
		if samePath(p, path) {
			return true
		}
	}
	return false
}

// pathKey 路径的去重键
func pathKey(path []int32) string {
	key := make([]byte, 0, 4*len(path))
	for _, v := range path {
		key = append(key, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	}
	return string(key)
}
