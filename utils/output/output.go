// 输出每辆车的调度结果（出发时间与途经道路）
package output

import (
	"bufio"
	"fmt"
	"os"

	"github.com/tsinghua-fib-lab/codecraft-sched/entity"
)

// WriteAnswer 写出答案文件
// 功能：为每辆到达的车辆输出一行"(车辆ID, 实际出发时间, 途经道路...)"
// 参数：path-答案文件路径，cars-已到达车辆
// 说明：途经道路输出原始（未拆分方向的）道路编号
func WriteAnswer(path string, cars []entity.ICar) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, car := range cars {
		if _, err := fmt.Fprintf(w, "(%d, %d", car.ID(), car.DepartureTime()); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		for _, roadID := range car.PassedRoadIDs() {
			if _, err := fmt.Fprintf(w, ", %d", roadID); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		}
		if _, err := fmt.Fprintln(w, ")"); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
