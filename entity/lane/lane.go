package lane

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/codecraft-sched/entity"
)

// Lane 车道实体
// 功能：表示道路内的一条车道，用定长车位数组维护车辆占用
// 说明：车位0为路口侧（头部），下标越大离路口越远，车辆从高下标一侧进入
type Lane struct {
	id     string
	index  int           // 在道路中的序号，0为最左侧车道
	length int32         // 车位数
	maxV   int32         // 车道限速
	cells  []entity.ICar // 车位数组，nil表示空位
}

// New 创建并初始化一个新的Lane实例
// 参数：roadID-所属道路内部ID，index-车道序号（从0起），length-车位数，maxV-限速
func New(roadID string, index int, length, maxV int32) *Lane {
	return &Lane{
		id:     fmt.Sprintf("%s@%d", roadID, index+1),
		index:  index,
		length: length,
		maxV:   maxV,
		cells:  make([]entity.ICar, length),
	}
}

func (l *Lane) String() string {
	return fmt.Sprintf("Lane %s", l.id)
}

// 获取Lane ID
func (l *Lane) ID() string {
	return l.id
}

// 获取Lane在道路中的序号
func (l *Lane) Index() int {
	return l.index
}

// 获取Lane车位数
func (l *Lane) Length() int32 {
	return l.length
}

// 获取Lane限速
func (l *Lane) MaxV() int32 {
	return l.maxV
}

// Get 获取车位上的车辆，空位返回nil
func (l *Lane) Get(cell int32) entity.ICar {
	return l.cells[cell]
}

// Set 将车辆写入车位
// 说明：目标车位必须为空，占用冲突属于不变量破坏
func (l *Lane) Set(cell int32, car entity.ICar) {
	if l.cells[cell] != nil {
		log.Panicf("%v: cell %d already occupied by %v when placing %v", l, cell, l.cells[cell], car)
	}
	l.cells[cell] = car
}

// Clear 清空车位
func (l *Lane) Clear(cell int32) {
	l.cells[cell] = nil
}

// Cars 由路口侧到入口侧的全部车辆
func (l *Lane) Cars() []entity.ICar {
	return lo.Filter(l.cells, func(car entity.ICar, _ int) bool { return car != nil })
}

// HeadFreeCell 入口侧第一个空车位的下标
// 功能：返回末位车辆之后（更靠入口）的第一个空车位
// 返回：空车道返回length（整条车道可用）
func (l *Lane) HeadFreeCell() int32 {
	if tail := l.TailCarCell(); tail != entity.NoCell {
		return tail + 1
	}
	return l.length
}

// FreeCount 空车位总数
func (l *Lane) FreeCount() int32 {
	return int32(lo.CountBy(l.cells, func(car entity.ICar) bool { return car == nil }))
}

// EntryFree 入口侧连续空车位数
// 说明：决定入场车辆在不跟车的情况下能前进的最远距离
func (l *Lane) EntryFree() int32 {
	tail := l.TailCarCell()
	if tail == entity.NoCell {
		return l.length
	}
	return l.length - (tail + 1)
}

// Predecessor 前车车位
// 功能：返回pos向路口方向最近的有车车位
// 返回：无前车返回NoCell
func (l *Lane) Predecessor(pos int32) int32 {
	for i := pos - 1; i >= 0; i-- {
		if l.cells[i] != nil {
			return i
		}
	}
	return entity.NoCell
}

// Successor 后车车位
// 功能：返回pos向入口方向最近的有车车位
// 返回：无后车返回NoCell
func (l *Lane) Successor(pos int32) int32 {
	for i := pos + 1; i < l.length; i++ {
		if l.cells[i] != nil {
			return i
		}
	}
	return entity.NoCell
}

// LeaderSpeed 前车车速
// 返回：无前车时返回车道限速（前方畅通）
func (l *Lane) LeaderSpeed(pos int32) int32 {
	if lead := l.Predecessor(pos); lead != entity.NoCell {
		return l.cells[lead].CurrentSpeed()
	}
	return l.maxV
}

// DriveInSpeed 入口侧末位车辆的车速
// 功能：决定跟车入场车辆的车速与道路边权
// 返回：空车道时返回车道限速
func (l *Lane) DriveInSpeed() int32 {
	if tail := l.TailCarCell(); tail != entity.NoCell {
		return l.cells[tail].CurrentSpeed()
	}
	return l.maxV
}

// HeadCarCell 最靠近路口的有车车位，空车道返回NoCell
func (l *Lane) HeadCarCell() int32 {
	for i := int32(0); i < l.length; i++ {
		if l.cells[i] != nil {
			return i
		}
	}
	return entity.NoCell
}

// TailCarCell 最靠近入口的有车车位，空车道返回NoCell
func (l *Lane) TailCarCell() int32 {
	for i := l.length - 1; i >= 0; i-- {
		if l.cells[i] != nil {
			return i
		}
	}
	return entity.NoCell
}
