package input_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/codecraft-sched/utils/input"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadOK(t *testing.T) {
	dir := t.TempDir()
	carPath := writeFile(t, dir, "car.txt", `#id,from,to,speed,planTime
(10001, 1, 2, 6, 0)
( 10002 ,2, 1,4 , 3)

`)
	roadPath := writeFile(t, dir, "road.txt", `#id,length,speed,channel,from,to,isDuplex
(500, 10, 5, 2, 1, 2, 1)
(501, 8, 4, 1, 2, 3, 0)
`)
	crossPath := writeFile(t, dir, "cross.txt", `#id,roadId,roadId,roadId,roadId
(1, 500, -1, -1, -1)
(2, 500, 501, -1, -1)
(3, 501, -1, -1, -1)
`)

	in, err := input.Read(carPath, roadPath, crossPath)
	require.NoError(t, err)

	require.Len(t, in.Cars, 2)
	assert.Equal(t, &input.CarRecord{ID: 10001, From: 1, To: 2, MaxSpeed: 6, PlannedTime: 0}, in.Cars[0])
	assert.Equal(t, &input.CarRecord{ID: 10002, From: 2, To: 1, MaxSpeed: 4, PlannedTime: 3}, in.Cars[1])

	require.Len(t, in.Roads, 2)
	assert.Equal(t, &input.RoadRecord{ID: 500, Length: 10, MaxSpeed: 5, LaneCount: 2, From: 1, To: 2, IsDuplex: true}, in.Roads[0])
	assert.False(t, in.Roads[1].IsDuplex)

	require.Len(t, in.Crosses, 3)
	assert.Equal(t, [4]int32{500, 501, -1, -1}, in.Crosses[1].Slots)
}

func TestReadMissingFile(t *testing.T) {
	dir := t.TempDir()
	carPath := filepath.Join(dir, "missing.txt")
	roadPath := writeFile(t, dir, "road.txt", "")
	crossPath := writeFile(t, dir, "cross.txt", "")
	_, err := input.Read(carPath, roadPath, crossPath)
	assert.ErrorContains(t, err, "missing.txt")
}

func TestReadBadField(t *testing.T) {
	dir := t.TempDir()
	carPath := writeFile(t, dir, "car.txt", `# comment
(1, 2, 3, x, 5)
`)
	roadPath := writeFile(t, dir, "road.txt", "")
	crossPath := writeFile(t, dir, "cross.txt", "")
	_, err := input.Read(carPath, roadPath, crossPath)
	// 错误信息带文件名与1起始的行号
	assert.ErrorContains(t, err, "car.txt:2")
	assert.ErrorContains(t, err, `"x"`)
}

func TestReadWrongFieldCount(t *testing.T) {
	dir := t.TempDir()
	carPath := writeFile(t, dir, "car.txt", "(1, 2, 3, 4)\n")
	roadPath := writeFile(t, dir, "road.txt", "")
	crossPath := writeFile(t, dir, "cross.txt", "")
	_, err := input.Read(carPath, roadPath, crossPath)
	assert.ErrorContains(t, err, "expect 5 fields")
}

func TestReadBadDuplexFlag(t *testing.T) {
	dir := t.TempDir()
	carPath := writeFile(t, dir, "car.txt", "")
	roadPath := writeFile(t, dir, "road.txt", "(500, 10, 5, 2, 1, 2, 7)\n")
	crossPath := writeFile(t, dir, "cross.txt", "")
	_, err := input.Read(carPath, roadPath, crossPath)
	assert.ErrorContains(t, err, "road.txt:1")
}
