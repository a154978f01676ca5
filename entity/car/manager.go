package car

import (
	"fmt"
	"sort"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/codecraft-sched/entity"
	"github.com/tsinghua-fib-lab/codecraft-sched/utils/input"
)

// CarManager Car管理器
// 功能：管理所有Car实体，提供创建、查找、有序遍历等功能
// 说明：车库/在途/完成等调度分组由调度器维护，管理器只负责实体本身
type CarManager struct {
	data  map[int32]*Car
	cars  []*Car
	iCars []entity.ICar
}

// NewManager 创建Car管理器实例
func NewManager() *CarManager {
	return &CarManager{
		data: make(map[int32]*Car),
	}
}

// Init 初始化所有Car
// 功能：根据输入记录创建车辆
// 参数：records-车辆输入记录，crossIDs-合法路口ID集合
// 返回：拓扑错误信息
// 说明：车辆按ID升序排序
func (m *CarManager) Init(records []*input.CarRecord, crossIDs map[int32]bool) error {
	for _, record := range records {
		if !crossIDs[record.From] {
			return fmt.Errorf("car %d departs from unknown cross %d", record.ID, record.From)
		}
		if !crossIDs[record.To] {
			return fmt.Errorf("car %d heads to unknown cross %d", record.ID, record.To)
		}
	}
	m.cars = parallel.GoMap(records, func(record *input.CarRecord) *Car {
		return newCar(record)
	})
	sort.Slice(m.cars, func(i, j int) bool { return m.cars[i].id < m.cars[j].id })
	m.data = lo.SliceToMap(m.cars, func(c *Car) (int32, *Car) {
		return c.id, c
	})
	m.iCars = lo.Map(m.cars, func(c *Car, _ int) entity.ICar { return c })
	return nil
}

// Get 根据ID获取Car实例，不存在则panic
func (m *CarManager) Get(id int32) entity.ICar {
	if c, ok := m.data[id]; !ok {
		log.Panicf("no id %d in car data", id)
		return nil
	} else {
		return c
	}
}

// Cars 按ID升序的全部车辆
func (m *CarManager) Cars() []entity.ICar {
	return m.iCars
}
