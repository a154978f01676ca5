package cross

import (
	"fmt"

	"github.com/tsinghua-fib-lab/codecraft-sched/entity"
	"github.com/tsinghua-fib-lab/codecraft-sched/utils/input"
)

// Cross 路口实体
// 功能：表示一个路口，维护四个旋转顺序的道路槽位与转向关系
// 说明：槽位顺序来自输入文件且不可重排，槽位角度偏移决定转向分类
type Cross struct {
	id    int32
	slots [4]int32 // 旋转顺序的道路原始ID，-1表示无道路

	// 每个槽位上进入本路口的有向道路（无则nil）
	incomingBySlot [4]entity.IRoad
	// 进入本路口的有向道路，按原始道路ID升序
	incoming []entity.IRoad
	// 进入道路原始ID到槽位下标的映射
	slotOf map[int32]int
}

// newCross 创建并初始化一个新的Cross实例
// 参数：base-路口输入记录
func newCross(base *input.CrossRecord) *Cross {
	return &Cross{
		id:     base.ID,
		slots:  base.Slots,
		slotOf: make(map[int32]int),
	}
}

// initWithRoads 建立路口与有向道路的连接关系
// 功能：为每个槽位找到进入本路口的有向道路
// 参数：roadManager-道路管理器
// 返回：槽位引用未知道路或道路与路口不相连时的拓扑错误
// 算法说明：对槽位上的原始道路ID，在两个方向实体中选取ToCross为本路口者
func (c *Cross) initWithRoads(roadManager entity.IRoadManager) error {
	known := make(map[int32]bool)
	for _, r := range roadManager.Roads() {
		known[r.OriginalID()] = true
	}
	for i, roadID := range c.slots {
		if roadID == -1 {
			continue
		}
		if !known[roadID] {
			return fmt.Errorf("cross %d slot %d references unknown road %d", c.id, i, roadID)
		}
		if _, ok := c.slotOf[roadID]; ok {
			return fmt.Errorf("cross %d: road %d appears in more than one slot", c.id, roadID)
		}
		c.slotOf[roadID] = i
		found := false
		for _, r := range roadManager.Roads() {
			if r.OriginalID() != roadID {
				continue
			}
			found = true
			if r.ToCross() == c.id {
				c.incomingBySlot[i] = r
			} else if r.FromCross() != c.id {
				return fmt.Errorf("cross %d slot %d: road %d connects %d-%d, not this cross",
					c.id, i, roadID, r.FromCross(), r.ToCross())
			}
		}
		if !found {
			return fmt.Errorf("cross %d slot %d references unknown road %d", c.id, i, roadID)
		}
	}
	// 槽位旋转序不变，调度遍历序按原始道路ID升序
	for _, roadID := range sortedSlotIDs(c.slots) {
		if in := c.incomingBySlot[c.slotOf[roadID]]; in != nil {
			c.incoming = append(c.incoming, in)
		}
	}
	return nil
}

// sortedSlotIDs 槽位上的有效道路ID按升序排列
func sortedSlotIDs(slots [4]int32) []int32 {
	ids := make([]int32, 0, 4)
	for _, id := range slots {
		if id != -1 {
			ids = append(ids, id)
		}
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
	return ids
}

func (c *Cross) String() string {
	return fmt.Sprintf("Cross %d", c.id)
}

// 获取Cross ID
func (c *Cross) ID() int32 {
	return c.id
}

// 获取四个旋转顺序槽位上的道路原始ID
func (c *Cross) Slots() [4]int32 {
	return c.slots
}

// Classify 计算(进入道路, 离开道路)的转向
// 功能：按槽位角度偏移分类转向：+1左转，+2直行，+3右转
// 参数：inRoadID/outRoadID-原始道路ID
// 返回：两条道路不构成本路口的转向关系时返回TurnNone
func (c *Cross) Classify(inRoadID, outRoadID int32) entity.Turn {
	in, ok := c.slotOf[inRoadID]
	if !ok {
		return entity.TurnNone
	}
	out, ok := c.slotOf[outRoadID]
	if !ok {
		return entity.TurnNone
	}
	switch (out - in + 4) % 4 {
	case 1:
		return entity.TurnLeft
	case 2:
		return entity.TurnStraight
	case 3:
		return entity.TurnRight
	default:
		return entity.TurnNone
	}
}

// Incoming 进入本路口的有向道路，按原始道路ID升序
func (c *Cross) Incoming() []entity.IRoad {
	return c.incoming
}

// incomingAt 相对进入道路槽位偏移offset处的进入道路
func (c *Cross) incomingAt(in entity.IRoad, offset int) entity.IRoad {
	slot, ok := c.slotOf[in.OriginalID()]
	if !ok {
		log.Panicf("%v: road %s does not enter this cross", c, in.ID())
	}
	return c.incomingBySlot[(slot+offset)%4]
}

// RightIncoming 进入道路右侧（槽位偏移+1）的进入道路，无则nil
func (c *Cross) RightIncoming(in entity.IRoad) entity.IRoad {
	return c.incomingAt(in, 1)
}

// OppositeIncoming 进入道路对面（槽位偏移+2）的进入道路，无则nil
func (c *Cross) OppositeIncoming(in entity.IRoad) entity.IRoad {
	return c.incomingAt(in, 2)
}

// LeftIncoming 进入道路左侧（槽位偏移+3）的进入道路，无则nil
func (c *Cross) LeftIncoming(in entity.IRoad) entity.IRoad {
	return c.incomingAt(in, 3)
}
