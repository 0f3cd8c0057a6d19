package walker

import "sync"

// workQueue is an unbounded multi-producer multi-consumer queue of directories.
// It tracks directories that are queued or being expanded and closes itself once
// that count drops to zero.
type workQueue struct {
	mutex       sync.Mutex
	available   *sync.Cond
	nodes       []Node
	outstanding int
	closed      bool
}

func newWorkQueue() *workQueue {
	queue := &workQueue{}
	queue.available = sync.NewCond(&queue.mutex)
	return queue
}

// push adds nodes; it is a no-op once the queue is closed.
func (queue *workQueue) push(nodes ...Node) {
	if len(nodes) == 0 {
		return
	}
	queue.mutex.Lock()
	defer queue.mutex.Unlock()
	if queue.closed {
		return
	}
	queue.nodes = append(queue.nodes, nodes...)
	queue.outstanding += len(nodes)
	queue.available.Broadcast()
}

// pop blocks until a node is available or the queue is closed.
func (queue *workQueue) pop() (Node, bool) {
	queue.mutex.Lock()
	defer queue.mutex.Unlock()
	for len(queue.nodes) == 0 && !queue.closed {
		queue.available.Wait()
	}
	if queue.closed {
		return Node{}, false
	}
	last := len(queue.nodes) - 1
	node := queue.nodes[last]
	queue.nodes[last] = Node{}
	queue.nodes = queue.nodes[:last]
	return node, true
}

// done marks one popped node as fully expanded. Children must be pushed before.
func (queue *workQueue) done() {
	queue.mutex.Lock()
	defer queue.mutex.Unlock()
	queue.outstanding--
	if queue.outstanding <= 0 {
		queue.closeLocked()
	}
}

// abort closes the queue, dropping queued nodes.
func (queue *workQueue) abort() {
	queue.mutex.Lock()
	defer queue.mutex.Unlock()
	queue.closeLocked()
}

func (queue *workQueue) closeLocked() {
	queue.closed = true
	queue.nodes = nil
	queue.available.Broadcast()
}
