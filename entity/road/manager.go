package road

import (
	"fmt"
	"sort"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/codecraft-sched/entity"
	"github.com/tsinghua-fib-lab/codecraft-sched/utils/input"
)

// directedRecord 输入道路的一个方向
type directedRecord struct {
	record    *input.RoadRecord
	direction int32
}

// RoadManager Road管理器
// 功能：管理所有有向Road实体，提供创建、查找、容量汇总等功能
type RoadManager struct {
	data   map[string]*Road
	byPair map[[2]int32]*Road
	roads  []*Road
	iRoads []entity.IRoad
}

// NewManager 创建Road管理器实例
func NewManager() *RoadManager {
	return &RoadManager{
		data:   make(map[string]*Road),
		byPair: make(map[[2]int32]*Road),
	}
}

// Init 初始化所有Road
// 功能：根据输入记录创建有向道路，双向道路拆分为两个实体
// 参数：records-道路输入记录，threshold-封锁容量比例，crossIDs-合法路口ID集合
// 返回：拓扑错误信息
// 说明：有向道路按(原始ID, 方向后缀)升序排序
func (m *RoadManager) Init(records []*input.RoadRecord, threshold float64, crossIDs map[int32]bool) error {
	for _, record := range records {
		if !crossIDs[record.From] {
			return fmt.Errorf("road %d references unknown cross %d", record.ID, record.From)
		}
		if !crossIDs[record.To] {
			return fmt.Errorf("road %d references unknown cross %d", record.ID, record.To)
		}
	}
	directed := make([]directedRecord, 0, 2*len(records))
	for _, record := range records {
		directed = append(directed, directedRecord{record, 1})
		if record.IsDuplex {
			directed = append(directed, directedRecord{record, 2})
		}
	}
	m.roads = parallel.GoMap(directed, func(d directedRecord) *Road {
		return newRoad(d.record, d.direction, threshold)
	})
	sort.Slice(m.roads, func(i, j int) bool {
		if m.roads[i].originalID != m.roads[j].originalID {
			return m.roads[i].originalID < m.roads[j].originalID
		}
		return m.roads[i].direction < m.roads[j].direction
	})
	m.data = lo.SliceToMap(m.roads, func(r *Road) (string, *Road) {
		return r.id, r
	})
	if len(m.data) != len(m.roads) {
		return fmt.Errorf("duplicate road id in input")
	}
	for _, r := range m.roads {
		pair := [2]int32{r.fromCross, r.toCross}
		if _, ok := m.byPair[pair]; ok {
			return fmt.Errorf("multiple roads between cross %d and cross %d", r.fromCross, r.toCross)
		}
		m.byPair[pair] = r
	}
	m.iRoads = lo.Map(m.roads, func(r *Road, _ int) entity.IRoad { return r })
	return nil
}

// Get 根据内部道路ID获取Road实例，不存在则panic
func (m *RoadManager) Get(id string) entity.IRoad {
	if r, ok := m.data[id]; !ok {
		log.Panicf("no id %s in road data", id)
		return nil
	} else {
		return r
	}
}

// GetBetween 根据两端路口获取有向道路
// 返回：不存在返回nil
func (m *RoadManager) GetBetween(from, to int32) entity.IRoad {
	if r, ok := m.byPair[[2]int32{from, to}]; ok {
		return r
	}
	return nil
}

// Roads 按(原始ID, 方向后缀)升序的全部有向道路
func (m *RoadManager) Roads() []entity.IRoad {
	return m.iRoads
}

// TotalCapacity 路网总容量
func (m *RoadManager) TotalCapacity() int32 {
	return lo.SumBy(m.iRoads, func(r entity.IRoad) int32 { return r.Capacity() })
}

// CapacityFree 路网剩余容量
func (m *RoadManager) CapacityFree() int32 {
	return lo.SumBy(m.iRoads, func(r entity.IRoad) int32 { return r.CapacityFree() })
}
