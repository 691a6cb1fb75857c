package cmd

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/lendscope/loan-preview-client/common/rpc"
	"github.com/lendscope/loan-preview-client/mocknode"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	mockNodeArgs struct {
		endpoint        string
		contract        string
		chainId         uint64
		head            uint64
		blocksPerPeriod uint64
		shuffle         bool
	}

	mockNodeCmd = &cobra.Command{
		Use:   "mock-node",
		Short: "Start a synthetic node that answers getLoanPreview calls with deterministic values",
		Run:   startMockNode,
	}
)

func init() {
	mockNodeCmd.Flags().StringVar(&mockNodeArgs.endpoint, "endpoint", ":8545", "RPC endpoint to listen on")
	mockNodeCmd.Flags().StringVar(&mockNodeArgs.contract, "contract", "", "Loan contract address to serve")
	mockNodeCmd.MarkFlagRequired("contract")
	mockNodeCmd.Flags().Uint64Var(&mockNodeArgs.chainId, "chain-id", 31337, "Chain id to report")
	mockNodeCmd.Flags().Uint64Var(&mockNodeArgs.head, "head", 1_000_000, "Latest block number")
	mockNodeCmd.Flags().Uint64Var(&mockNodeArgs.blocksPerPeriod, "blocks-per-period", 1000, "Number of blocks per loan period")
	mockNodeCmd.Flags().BoolVar(&mockNodeArgs.shuffle, "shuffle", false, "Shuffle items of batch responses")

	rootCmd.AddCommand(mockNodeCmd)
}

func startMockNode(*cobra.Command, []string) {
	if !common.IsHexAddress(mockNodeArgs.contract) {
		logrus.WithField("contract", mockNodeArgs.contract).Fatal("Invalid contract address")
	}

	handler, err := mocknode.NewHandler(mocknode.Config{
		Contract:        common.HexToAddress(mockNodeArgs.contract),
		ChainId:         mockNodeArgs.chainId,
		Head:            mockNodeArgs.head,
		BlocksPerPeriod: mockNodeArgs.blocksPerPeriod,
		Shuffle:         mockNodeArgs.shuffle,
	})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create mock node")
	}

	rpc.MustServe(mockNodeArgs.endpoint, handler)
}
