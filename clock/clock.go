package clock

import "fmt"

// Clock 仿真时钟管理器
// 功能：管理调度系统的时间推进
// 说明：调度以整数时间片为单位，每个时间片完成一次全网调度后推进
type Clock struct {
	T int32 // 当前时间片
}

// New 创建新的时钟实例
// 功能：从起始时间片初始化时钟
// 参数：start-起始时间片
// 返回：初始化完成的时钟实例
func New(start int32) *Clock {
	c := &Clock{}
	c.Init(start)
	return c
}

// Init 初始化时钟状态
// 功能：重置当前时间片为起始时间片
func (c *Clock) Init(start int32) {
	c.T = start
}

// Tick 推进一个时间片
func (c *Clock) Tick() {
	c.T++
}

// String 获取时钟的字符串表示
func (c *Clock) String() string {
	return fmt.Sprintf("tick %d", c.T)
}
