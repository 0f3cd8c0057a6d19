package walker

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// walkParallel expands directories on a fixed pool of workers.
func (walker *walker) walkParallel(ctx context.Context, root Node) error {
	queue := newWorkQueue()
	group, groupContext := errgroup.WithContext(ctx)
	stopWatching := context.AfterFunc(groupContext, queue.abort)
	defer stopWatching()

	queue.push(root)
	for workerIndex := 0; workerIndex < walker.configuration.Workers; workerIndex++ {
		group.Go(func() error {
			return walker.work(groupContext, queue)
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (walker *walker) work(ctx context.Context, queue *workQueue) error {
	for {
		directory, available := queue.pop()
		if !available {
			return nil
		}
		if err := ctx.Err(); err != nil {
			queue.abort()
			return err
		}
		group := walker.expand(directory)
		if err := walker.emitGroup(group.entries); err != nil {
			queue.abort()
			return err
		}
		queue.push(group.descend...)
		queue.done()
	}
}
