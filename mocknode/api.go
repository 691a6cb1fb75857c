// Package mocknode implements a synthetic blockchain node that answers
// getLoanPreview calls with deterministic previews. It is used to exercise the
// snapshot pipeline end to end without a real chain.
package mocknode

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/lendscope/loan-preview-client/contract"
	"github.com/lendscope/loan-preview-client/node"
	"github.com/pkg/errors"
)

// Namespace is the RPC namespace served by EthAPI.
const Namespace = "eth"

var balanceUnit = big.NewInt(1_000_000)

type Config struct {
	Contract        common.Address // calls to other addresses are reverted
	ChainId         uint64
	Head            uint64 // height of the latest block
	BlocksPerPeriod uint64 // defaults to 1000
	Shuffle         bool   // shuffle items of batch responses
}

// Preview returns the deterministic preview of loanId at the given height.
//
//	periodIndex        = height / blocksPerPeriod
//	trackedBalance     = loanId * 1,000,000 + height
//	outstandingBalance = trackedBalance * 2
func Preview(height uint64, loanId *big.Int, blocksPerPeriod uint64) contract.LoanPreview {
	if blocksPerPeriod == 0 {
		blocksPerPeriod = 1000
	}

	tracked := new(big.Int).Mul(loanId, balanceUnit)
	tracked.Add(tracked, new(big.Int).SetUint64(height))

	return contract.LoanPreview{
		PeriodIndex:        new(big.Int).SetUint64(height / blocksPerPeriod),
		TrackedBalance:     tracked,
		OutstandingBalance: new(big.Int).Lsh(tracked, 1),
	}
}

// EthAPI serves the eth namespace subset required by the snapshot client.
type EthAPI struct {
	config Config
	codec  *contract.LoanPreviewCodec
}

func NewEthAPI(config Config) (*EthAPI, error) {
	codec, err := contract.NewLoanPreviewCodec()
	if err != nil {
		return nil, err
	}

	return &EthAPI{config, codec}, nil
}

// ChainId serves eth_chainId.
func (api *EthAPI) ChainId() hexutil.Uint64 {
	return hexutil.Uint64(api.config.ChainId)
}

// BlockNumber serves eth_blockNumber.
func (api *EthAPI) BlockNumber() hexutil.Uint64 {
	return hexutil.Uint64(api.config.Head)
}

// Call serves eth_call for getLoanPreview only.
func (api *EthAPI) Call(ctx context.Context, args node.CallArgs, block string) (hexutil.Bytes, error) {
	height, err := api.resolve(block)
	if err != nil {
		return nil, err
	}

	if args.To != api.config.Contract {
		return nil, errors.Errorf("execution reverted: no contract at %v", args.To)
	}

	loanId, _, err := api.codec.UnpackGetLoanPreviewArgs(args.Input)
	if err != nil {
		return nil, errors.WithMessage(err, "execution reverted")
	}

	return api.codec.PackGetLoanPreviewResult(Preview(height, loanId, api.config.BlocksPerPeriod))
}

func (api *EthAPI) resolve(block string) (uint64, error) {
	switch block {
	case "latest", "pending", "safe", "finalized":
		return api.config.Head, nil
	case "earliest":
		return 0, nil
	}

	height, err := hexutil.DecodeUint64(block)
	if err != nil {
		return 0, errors.WithMessagef(err, "invalid block %v", block)
	}

	if height > api.config.Head {
		return 0, errors.New("header not found")
	}

	return height, nil
}
