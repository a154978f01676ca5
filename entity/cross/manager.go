package cross

import (
	"sort"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/codecraft-sched/entity"
	"github.com/tsinghua-fib-lab/codecraft-sched/utils/input"
)

// CrossManager Cross管理器
// 功能：管理所有Cross实体，提供创建、查找、有序遍历等功能
type CrossManager struct {
	data     map[int32]*Cross
	crosses  []*Cross
	iCrosses []entity.ICross
}

// NewManager 创建Cross管理器实例
func NewManager() *CrossManager {
	return &CrossManager{
		data: make(map[int32]*Cross),
	}
}

// Init 初始化所有Cross
// 功能：根据输入记录创建路口并建立与有向道路的连接关系
// 参数：records-路口输入记录，roadManager-道路管理器
// 返回：拓扑错误信息
// 说明：路口按ID升序排序，调度阶段按该顺序遍历
func (m *CrossManager) Init(records []*input.CrossRecord, roadManager entity.IRoadManager) error {
	m.crosses = parallel.GoMap(records, func(record *input.CrossRecord) *Cross {
		return newCross(record)
	})
	sort.Slice(m.crosses, func(i, j int) bool { return m.crosses[i].id < m.crosses[j].id })
	m.data = lo.SliceToMap(m.crosses, func(c *Cross) (int32, *Cross) {
		return c.id, c
	})
	for _, c := range m.crosses {
		if err := c.initWithRoads(roadManager); err != nil {
			return err
		}
	}
	m.iCrosses = lo.Map(m.crosses, func(c *Cross, _ int) entity.ICross { return c })
	return nil
}

// Get 根据ID获取Cross实例，不存在则panic
func (m *CrossManager) Get(id int32) entity.ICross {
	if c, ok := m.data[id]; !ok {
		log.Panicf("no id %d in cross data", id)
		return nil
	} else {
		return c
	}
}

// Crosses 按ID升序的全部路口
func (m *CrossManager) Crosses() []entity.ICross {
	return m.iCrosses
}
