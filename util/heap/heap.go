package heap

import "container/heap"

// Heap is a min-heap ordered by comparator.
type Heap[T any] struct {
	wrapper heapWrapper[T]
}

func NewHeap[T any](comparator func(a, b T) int, items ...T) Heap[T] {
	out := Heap[T]{
		wrapper: heapWrapper[T]{
			comparator: comparator,
			items:      items,
		},
	}
	heap.Init(&out.wrapper)
	return out
}

func (me *Heap[T]) Size() int {
	return len(me.wrapper.items)
}

func (me *Heap[T]) Peek() T {
	return me.wrapper.items[0]
}

func (me *Heap[T]) Pop() T {
	return heap.Pop(&me.wrapper).(T)
}

func (me *Heap[T]) Push(value T) {
	heap.Push(&me.wrapper, value)
}

// ReplaceTop swaps the minimum for value and restores heap order, which is cheaper than a Pop
// followed by a Push.
func (me *Heap[T]) ReplaceTop(value T) {
	me.wrapper.items[0] = value
	heap.Fix(&me.wrapper, 0)
}

var _ heap.Interface = (*heapWrapper[any])(nil)

type heapWrapper[T any] struct {
	comparator func(a, b T) int
	items      []T
}

func (me *heapWrapper[T]) Len() int           { return len(me.items) }
func (me *heapWrapper[T]) Swap(i, j int)      { me.items[i], me.items[j] = me.items[j], me.items[i] }
func (me *heapWrapper[T]) Less(i, j int) bool { return me.comparator(me.items[i], me.items[j]) < 0 }

func (me *heapWrapper[T]) Push(x any) {
	me.items = append(me.items, x.(T))
}

func (me *heapWrapper[T]) Pop() any {
	out := me.items[len(me.items)-1]
	me.items = me.items[:len(me.items)-1]
	return out
}
