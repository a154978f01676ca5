package container

import "container/heap"

// item 优先队列中单个元素
// 功能：表示优先队列中的一个元素，包含值和优先级信息
type item[T any] struct {
	Value    T       // 元素的值（任意类型）
	Priority float64 // 元素在队列中的优先级（越小越优先）
	index    int     // 项在堆中的索引，由heap.Interface方法维护
}

// priorityQueue 优先队列实现了 heap.Interface 并保存了元素
type priorityQueue[T any] []*item[T]

func (pq priorityQueue[T]) Len() int { return len(pq) }

func (pq priorityQueue[T]) Less(i, j int) bool {
	// 我们希望 Pop 方法返回最低优先级的项，因此这里使用小于号。
	return pq[i].Priority < pq[j].Priority
}

func (pq priorityQueue[T]) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue[T]) Push(x any) {
	n := len(*pq)
	item := x.(*item[T])
	item.index = n
	*pq = append(*pq, item)
}

func (pq *priorityQueue[T]) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // 避免内存泄漏
	item.index = -1 // 为了安全起见
	*pq = old[0 : n-1]
	return item
}

// PriorityQueue 优先队列
// 功能：提供优先队列的公共接口，封装内部堆实现
// 说明：导航模块用它维护Dijkstra与简单路径枚举的候选集
type PriorityQueue[T any] struct {
	queue priorityQueue[T] // 内部优先队列实现
}

// NewPriorityQueue 创建优先队列
func NewPriorityQueue[T any]() *PriorityQueue[T] {
	return &PriorityQueue[T]{queue: make(priorityQueue[T], 0)}
}

// Len 获取当前队列长度
func (q *PriorityQueue[T]) Len() int {
	return len(q.queue)
}

// First 获取优先级数值最小的元素（不弹出）
func (q *PriorityQueue[T]) First() T {
	return q.queue[0].Value
}

// FirstPriority 获取最小的优先级数值（不弹出）
func (q *PriorityQueue[T]) FirstPriority() float64 {
	return q.queue[0].Priority
}

// Push 按优先级加入元素
func (q *PriorityQueue[T]) Push(value T, priority float64) {
	heap.Push(&q.queue, &item[T]{Value: value, Priority: priority})
}

// Pop 弹出优先级数值最小的元素
// 返回：元素值与其优先级
func (q *PriorityQueue[T]) Pop() (T, float64) {
	popped := heap.Pop(&q.queue).(*item[T])
	return popped.Value, popped.Priority
}
