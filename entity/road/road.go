package road

import (
	"fmt"
	"math"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/codecraft-sched/entity"
	"github.com/tsinghua-fib-lab/codecraft-sched/entity/lane"
	"github.com/tsinghua-fib-lab/codecraft-sched/utils/input"
)

// Road 有向道路实体
// 功能：表示一条有向道路，持有其全部车道并提供容量与准入状态查询
// 说明：双向输入道路在初始化阶段拆分为两个Road实体，内部ID形如"<原始ID>#<方向>"
type Road struct {
	id            string
	originalID    int32
	direction     int32 // 1为输入方向，2为反向
	length        int32
	maxV          int32
	fromCross     int32
	toCross       int32
	lanes         []entity.ILane
	blockCapacity int32 // 封锁容量，剩余容量不高于该值时限制进入
}

// newRoad 创建并初始化一个新的Road实例
// 功能：根据输入记录的一个方向创建Road对象并初始化车道
// 参数：base-道路输入记录，direction-方向（1或2），threshold-封锁容量比例
// 返回：初始化完成的Road实例
func newRoad(base *input.RoadRecord, direction int32, threshold float64) *Road {
	r := &Road{
		id:            fmt.Sprintf("%d#%d", base.ID, direction),
		originalID:    base.ID,
		direction:     direction,
		length:        base.Length,
		maxV:          base.MaxSpeed,
		fromCross:     base.From,
		toCross:       base.To,
		blockCapacity: int32(math.Floor(float64(base.Length*base.LaneCount) * threshold)),
	}
	if direction == 2 {
		r.fromCross, r.toCross = base.To, base.From
	}
	r.lanes = make([]entity.ILane, 0, base.LaneCount)
	for i := 0; i < int(base.LaneCount); i++ {
		r.lanes = append(r.lanes, lane.New(r.id, i, base.Length, base.MaxSpeed))
	}
	return r
}

func (r *Road) String() string {
	return fmt.Sprintf("Road %s", r.id)
}

// 获取Road内部ID（含方向后缀）
func (r *Road) ID() string {
	return r.id
}

// 获取输入文件中的原始道路ID
func (r *Road) OriginalID() int32 {
	return r.originalID
}

// 获取方向后缀
func (r *Road) Direction() int32 {
	return r.direction
}

// 获取道路长度（车位数）
func (r *Road) Length() int32 {
	return r.length
}

// 获取道路限速
func (r *Road) MaxV() int32 {
	return r.maxV
}

// 获取车道数
func (r *Road) LaneCount() int32 {
	return int32(len(r.lanes))
}

// 获取道路起始路口
func (r *Road) FromCross() int32 {
	return r.fromCross
}

// 获取道路终点路口（车辆驶向的路口）
func (r *Road) ToCross() int32 {
	return r.toCross
}

// 获取道路的全部车道，从左到右排序
func (r *Road) Lanes() []entity.ILane {
	return r.lanes
}

// Capacity 道路总容量（长度×车道数）
func (r *Road) Capacity() int32 {
	return r.length * r.LaneCount()
}

// CapacityFree 剩余容量（全部车道空车位之和）
func (r *Road) CapacityFree() int32 {
	return lo.SumBy(r.lanes, func(l entity.ILane) int32 { return l.FreeCount() })
}

// EntryFree 入口侧连续空车位之和
func (r *Road) EntryFree() int32 {
	return lo.SumBy(r.lanes, func(l entity.ILane) int32 { return l.EntryFree() })
}

// PickAdmittableLane 分配可进入的车道
// 功能：返回序号最小的入口侧有空位的车道
// 返回：无可进入车道返回nil
func (r *Road) PickAdmittableLane() entity.ILane {
	for _, l := range r.lanes {
		if l.EntryFree() > 0 {
			return l
		}
	}
	return nil
}

// State 道路当前准入状态
// 功能：判断道路是否允许车辆进入
// 算法说明：
// 1. 剩余容量高于封锁容量：DriveIn
// 2. 否则检查每条车道入口侧末位车辆：全部调度完成则Blocked
// 3. 任一车道为空或末位车辆尚未调度完成：Waiting
func (r *Road) State() entity.RoadState {
	if r.CapacityFree() > r.blockCapacity {
		return entity.RoadDriveIn
	}
	for _, l := range r.lanes {
		tail := l.TailCarCell()
		if tail == entity.NoCell {
			return entity.RoadWaiting
		}
		if l.Get(tail).Phase() != entity.PhaseSettled {
			return entity.RoadWaiting
		}
	}
	return entity.RoadBlocked
}

// HeadWaitingCar 未完成调度车辆中最靠近路口者
// 功能：路口调度时确定本道路的待过路口车辆
// 返回：车位小者优先，同车位车道序小者优先；无则nil
func (r *Road) HeadWaitingCar() entity.ICar {
	for cell := int32(0); cell < r.length; cell++ {
		for _, l := range r.lanes {
			if car := l.Get(cell); car != nil && car.Phase() != entity.PhaseSettled {
				return car
			}
		}
	}
	return nil
}
