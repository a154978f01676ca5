package task

import (
	"flag"

	"github.com/tsinghua-fib-lab/codecraft-sched/utils/output"
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 100, "心跳日志间隔时间片数")
)

// Run 运行调度任务
// 功能：逐时间片推进调度，直到车库与路网都为空，然后写出答案文件
// 参数：answerPath-答案文件路径
// 算法说明：
// 1. 每个时间片执行一次完整调度（路上车辆、过路口、上路）
// 2. 定期输出心跳日志观察进度
// 3. 时钟在时间片调度完成后推进
func (ctx *Context) Run(answerPath string) error {
	sched := ctx.sched
	for !sched.Done() {
		sched.Step()
		if ctx.clock.T%int32(*heartBeatInterval) == 0 {
			log.Infof("TICK: %d, garage=%d running=%d arrived=%d",
				ctx.clock.T, sched.GarageCount(), sched.RunningCount(), len(sched.EndedCars()))
		}
		ctx.clock.Tick()
	}
	log.Infof("schedule complete at %v, %d cars arrived", ctx.clock, len(sched.EndedCars()))
	return output.WriteAnswer(answerPath, sched.EndedCars())
}
