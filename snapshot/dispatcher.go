package snapshot

import (
	"context"
	"strconv"
	"time"

	zg_common "github.com/lendscope/loan-preview-client/common"
	"github.com/lendscope/loan-preview-client/common/parallel"
	"github.com/lendscope/loan-preview-client/contract"
	"github.com/lendscope/loan-preview-client/node"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// BatchTransport sends a JSON-RPC batch in a single round trip and returns the raw
// response body.
type BatchTransport interface {
	BatchCall(ctx context.Context, requests []*node.Request) ([]byte, error)
}

// BatchStat describes a completed batch.
type BatchStat struct {
	Index   int // 0-based
	Total   int
	Size    int
	FirstID CorrelationID
	LastID  CorrelationID
	Latency time.Duration // round trip of the batch
}

// BatchObserver is notified once per batch, after the batch has been validated and decoded.
type BatchObserver func(stat BatchStat)

// Partition splits requests into contiguous batches of at most size requests.
func Partition(requests []*CallRequest, size int) ([][]*CallRequest, error) {
	if size <= 0 {
		return nil, &ConfigError{Field: "batch-size", Value: strconv.Itoa(size), Reason: "must be greater than 0"}
	}

	batches := make([][]*CallRequest, 0, (len(requests)+size-1)/size)
	for start := 0; start < len(requests); start += size {
		end := min(start+size, len(requests))
		batches = append(batches, requests[start:end])
	}

	return batches, nil
}

// Dispatcher sends requests in fixed-size batches, one batch at a time, and
// collects the decoded results of all batches.
type Dispatcher struct {
	transport BatchTransport
	codec     *contract.LoanPreviewCodec
	batchSize int
	observer  BatchObserver

	logger *logrus.Logger
}

// NewDispatcher creates a dispatcher. An invalid batch size is rejected here, before
// any request is sent.
func NewDispatcher(transport BatchTransport, codec *contract.LoanPreviewCodec, batchSize int, opts ...zg_common.LogOption) (*Dispatcher, error) {
	if transport == nil {
		return nil, errors.New("batch transport not specified")
	}

	if codec == nil {
		return nil, errors.New("codec not specified")
	}

	if batchSize <= 0 {
		return nil, &ConfigError{Field: "batch-size", Value: strconv.Itoa(batchSize), Reason: "must be greater than 0"}
	}

	return &Dispatcher{
		transport: transport,
		codec:     codec,
		batchSize: batchSize,
		logger:    zg_common.NewLogger(opts...),
	}, nil
}

// OnBatch registers an observer for completed batches.
func (dispatcher *Dispatcher) OnBatch(observer BatchObserver) {
	dispatcher.observer = observer
}

// Dispatch sends all requests and returns the decoded results of all batches.
// Results are in response order, not necessarily request order. Any failure
// aborts the remaining batches and discards results already collected.
func (dispatcher *Dispatcher) Dispatch(ctx context.Context, requests []*CallRequest) ([]DecodedResult, error) {
	batches, err := Partition(requests, dispatcher.batchSize)
	if err != nil {
		return nil, err
	}

	executor := batchExecutor{
		dispatcher: dispatcher,
		batches:    batches,
		results:    make([]DecodedResult, 0, len(requests)),
	}

	if err = parallel.Sequential(ctx, &executor, len(batches)); err != nil {
		return nil, err
	}

	return executor.results, nil
}

type batchResponse struct {
	body    []byte
	latency time.Duration // round trip only
}

// batchExecutor sends one batch per task. Tasks run strictly one after another.
type batchExecutor struct {
	dispatcher *Dispatcher
	batches    [][]*CallRequest
	results    []DecodedResult
}

// ParallelDo implements the parallel.Interface interface.
func (executor *batchExecutor) ParallelDo(ctx context.Context, routine, task int) (interface{}, error) {
	batch := executor.batches[task]

	requests := make([]*node.Request, 0, len(batch))
	for _, v := range batch {
		requests = append(requests, v.RPC())
	}

	executor.dispatcher.logger.WithFields(logrus.Fields{
		"batch": task,
		"size":  len(batch),
		"from":  batch[0].ID,
		"to":    batch[len(batch)-1].ID,
	}).Debug("Sending batch")

	start := time.Now()
	body, err := executor.dispatcher.transport.BatchCall(ctx, requests)
	if err != nil {
		return nil, errors.WithMessagef(err, "Failed to send batch %v", task)
	}

	return &batchResponse{body, time.Since(start)}, nil
}

// ParallelCollect implements the parallel.Interface interface.
func (executor *batchExecutor) ParallelCollect(result *parallel.Result) error {
	batch := executor.batches[result.Task]
	response := result.Value.(*batchResponse)

	items, err := ValidateBatch(result.Task, response.body, batch)
	if err != nil {
		return err
	}

	decoded, err := DecodeItems(executor.dispatcher.codec, items)
	if err != nil {
		return errors.WithMessagef(err, "Failed to decode batch %v", result.Task)
	}

	executor.results = append(executor.results, decoded...)

	stat := BatchStat{
		Index:   result.Task,
		Total:   len(executor.batches),
		Size:    len(batch),
		FirstID: batch[0].ID,
		LastID:  batch[len(batch)-1].ID,
		Latency: response.latency,
	}

	executor.dispatcher.logger.WithFields(logrus.Fields{
		"batch":   stat.Index + 1,
		"total":   stat.Total,
		"size":    stat.Size,
		"latency": stat.Latency,
	}).Info("Batch completed")

	if executor.dispatcher.observer != nil {
		executor.dispatcher.observer(stat)
	}

	return nil
}
