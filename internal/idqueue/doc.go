// Package idqueue provides a fixed-capacity FIFO queue of free integer ids.
//
// A Queue bounds a resource to a fixed number of slots: ids are taken from
// the head and returned to the tail, so released ids are reused in the order
// they were freed.
//
//	q := idqueue.NewFull[uint32](4) // 0 1 2 3
//	id, _ := q.Pop()                // 0
//	q.Push(id)                      // 1 2 3 0
//
// # Thread Safety
//
// Queue is not safe for concurrent use.
package idqueue
