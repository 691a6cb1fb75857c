package snapshot

import (
	"context"
	"time"

	zg_common "github.com/lendscope/loan-preview-client/common"
	"github.com/lendscope/loan-preview-client/contract"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Node is the blockchain node a snapshot is taken from.
type Node interface {
	BatchTransport
	ChainId(ctx context.Context) (uint64, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Snapshot queries the tracked balance of every configured loan at every
// configured block.
type Snapshot struct {
	config *Config
	node   Node
	codec  *contract.LoanPreviewCodec

	dispatcher *Dispatcher

	logger *logrus.Logger
}

// New creates a snapshot for the specified config. The call ABI is verified here,
// so that a broken ABI fails the process before any request is sent.
func New(config *Config, node Node, opts ...zg_common.LogOption) (*Snapshot, error) {
	if config == nil {
		return nil, errors.New("config not specified")
	}

	codec, err := contract.NewLoanPreviewCodec()
	if err != nil {
		return nil, errors.WithMessage(err, "Failed to initialize loan preview codec")
	}

	dispatcher, err := NewDispatcher(node, codec, config.BatchSize, opts...)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		config:     config,
		node:       node,
		codec:      codec,
		dispatcher: dispatcher,
		logger:     zg_common.NewLogger(opts...),
	}, nil
}

// OnBatch registers an observer for completed batches.
func (snapshot *Snapshot) OnBatch(observer BatchObserver) {
	snapshot.dispatcher.OnBatch(observer)
}

// Probe queries the chain id and latest block of the node.
func (snapshot *Snapshot) Probe(ctx context.Context) error {
	chainId, err := snapshot.node.ChainId(ctx)
	if err != nil {
		return errors.WithMessage(err, "Failed to query chain id")
	}

	blockNumber, err := snapshot.node.BlockNumber(ctx)
	if err != nil {
		return errors.WithMessage(err, "Failed to query block number")
	}

	snapshot.logger.WithFields(logrus.Fields{
		"url":         snapshot.config.URL,
		"chainId":     chainId,
		"blockNumber": blockNumber,
	}).Info("Connected to blockchain node")

	return nil
}

// Run queries all (block, loan) pairs and returns one report row per pair, blocks
// in the outer order and loans in the inner order. Nothing is returned unless
// every call succeeded.
func (snapshot *Snapshot) Run(ctx context.Context) ([]ReportRow, error) {
	config := snapshot.config

	requests, err := BuildRequests(snapshot.codec, config.Contract, config.Blocks, config.Loans)
	if err != nil {
		return nil, errors.WithMessage(err, "Failed to build requests")
	}

	snapshot.logger.WithFields(logrus.Fields{
		"contract":  config.Contract,
		"blocks":    len(config.Blocks),
		"loans":     len(config.Loans),
		"requests":  len(requests),
		"batchSize": config.BatchSize,
		"batches":   config.NumBatches(),
	}).Info("Begin to query loan previews")

	start := time.Now()

	results, err := snapshot.dispatcher.Dispatch(ctx, requests)
	if err != nil {
		return nil, errors.WithMessage(err, "Failed to dispatch batches")
	}

	snapshot.logger.WithField("duration", time.Since(start)).Info("All batches completed")

	rows, err := Correlate(requests, results)
	if err != nil {
		return nil, errors.WithMessage(err, "Failed to correlate results")
	}

	var lossy int
	for _, v := range results {
		if IsLossy(v.Preview.TrackedBalance) {
			lossy++
		}
	}

	if lossy > 0 {
		snapshot.logger.WithField("rows", lossy).Warn("Tracked balance exceeds 2^53 and is rounded in report")
	}

	return rows, nil
}
