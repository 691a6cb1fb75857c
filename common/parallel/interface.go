package parallel

import (
	"context"
	"time"
)

type Result struct {
	Routine int
	Task    int
	Value   interface{}
	Latency time.Duration // time spent in ParallelDo
	err     error
}

// Interface is implemented by task sets executed with Serial. Tasks are executed by
// ParallelDo, possibly concurrently, while ParallelCollect always observes results in
// task order.
type Interface interface {
	ParallelDo(ctx context.Context, routine, task int) (interface{}, error)
	ParallelCollect(result *Result) error
}
