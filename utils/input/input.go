// 读取官方赛题的三个输入文件（car/road/cross），解析为实体记录
package input

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// CarRecord 车辆输入记录
type CarRecord struct {
	ID          int32 // 车辆编号
	From        int32 // 出发路口
	To          int32 // 目的路口
	MaxSpeed    int32 // 最高车速
	PlannedTime int32 // 计划出发时间
}

// RoadRecord 道路输入记录
// 说明：IsDuplex为真时会在初始化阶段拆分为两条有向道路
type RoadRecord struct {
	ID        int32 // 道路编号
	Length    int32 // 道路长度
	MaxSpeed  int32 // 道路限速
	LaneCount int32 // 车道数目
	From      int32 // 起始路口
	To        int32 // 终点路口
	IsDuplex  bool  // 是否双向
}

// CrossRecord 路口输入记录
// 说明：Slots按输入的旋转顺序保存四个道路编号，-1表示无道路
type CrossRecord struct {
	ID    int32
	Slots [4]int32
}

// Input 调度器启动所需的全部输入
type Input struct {
	Cars    []*CarRecord
	Roads   []*RoadRecord
	Crosses []*CrossRecord
}

// Read 读取三个输入文件
// 功能：分别解析车辆、道路、路口文件并汇总
// 参数：carPath/roadPath/crossPath-三个输入文件路径
// 返回：解析后的输入与错误信息
func Read(carPath, roadPath, crossPath string) (*Input, error) {
	in := &Input{}
	if err := readLines(carPath, 5, func(fields []int32) error {
		in.Cars = append(in.Cars, &CarRecord{
			ID:          fields[0],
			From:        fields[1],
			To:          fields[2],
			MaxSpeed:    fields[3],
			PlannedTime: fields[4],
		})
		return nil
	}); err != nil {
		return nil, err
	}
	if err := readLines(roadPath, 7, func(fields []int32) error {
		if fields[6] != 0 && fields[6] != 1 {
			return fmt.Errorf("is_duplex must be 0 or 1, got %d", fields[6])
		}
		in.Roads = append(in.Roads, &RoadRecord{
			ID:        fields[0],
			Length:    fields[1],
			MaxSpeed:  fields[2],
			LaneCount: fields[3],
			From:      fields[4],
			To:        fields[5],
			IsDuplex:  fields[6] == 1,
		})
		return nil
	}); err != nil {
		return nil, err
	}
	if err := readLines(crossPath, 5, func(fields []int32) error {
		in.Crosses = append(in.Crosses, &CrossRecord{
			ID:    fields[0],
			Slots: [4]int32{fields[1], fields[2], fields[3], fields[4]},
		})
		return nil
	}); err != nil {
		return nil, err
	}
	log.Infof("input: %d cars, %d roads, %d crosses", len(in.Cars), len(in.Roads), len(in.Crosses))
	return in, nil
}

// readLines 逐行解析一个输入文件
// 功能：跳过注释与空行，把每个数据行解析为定长整数字段后回调
// 参数：path-文件路径，want-字段数，emit-数据行回调
// 说明：错误信息带文件名与1起始的行号
func readLines(path string, want int, emit func(fields []int32) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields, err := parseLine(line, want)
		if err != nil {
			return fmt.Errorf("parse %s:%d: %w", path, lineNo, err)
		}
		if err := emit(fields); err != nil {
			return fmt.Errorf("parse %s:%d: %w", path, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

// parseLine 解析一个形如"(v1, v2, ...)"的数据行
func parseLine(line string, want int) ([]int32, error) {
	line = strings.TrimPrefix(line, "(")
	line = strings.TrimSuffix(line, ")")
	parts := strings.Split(line, ",")
	if len(parts) != want {
		return nil, fmt.Errorf("expect %d fields, got %d", want, len(parts))
	}
	fields := make([]int32, 0, want)
	for _, part := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(part), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("bad integer field %q", strings.TrimSpace(part))
		}
		fields = append(fields, int32(v))
	}
	return fields, nil
}
