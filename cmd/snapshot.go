package cmd

import (
	"context"
	"time"

	zg_common "github.com/lendscope/loan-preview-client/common"
	"github.com/lendscope/loan-preview-client/node"
	"github.com/lendscope/loan-preview-client/snapshot"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	snapshotArgs struct {
		opts snapshot.Options

		skipProbe bool
		timeout   time.Duration

		// malformed BATCH_SIZE, reported unless --batch-size is specified
		batchSizeErr error
	}

	snapshotCmd = &cobra.Command{
		Use:   "snapshot",
		Short: "Query tracked balances of loans at historical blocks and write them to a JSON file",
		Long: `Query tracked balances of loans at historical blocks and write them to a JSON file.

Every flag defaults to an environment variable, e.g. RPC_URL, CONTRACT_ADDRESS,
BATCH_SIZE, BLOCK_TAGS, LOAN_IDS and OUTPUT_FILE.`,
		Run: takeSnapshot,
	}
)

func init() {
	snapshotCmd.Flags().StringVar(&snapshotArgs.opts.URL, "url", envString("RPC_URL", ""), "Fullnode URL to query (env RPC_URL)")
	snapshotCmd.Flags().StringVar(&snapshotArgs.opts.Contract, "contract", envString("CONTRACT_ADDRESS", ""), "Loan contract address (env CONTRACT_ADDRESS)")
	var batchSize int
	batchSize, snapshotArgs.batchSizeErr = envInt("BATCH_SIZE", snapshot.DefaultBatchSize, snapshot.ParseBatchSize)
	snapshotCmd.Flags().IntVar(&snapshotArgs.opts.BatchSize, "batch-size", batchSize, "Number of calls per batch request (env BATCH_SIZE)")
	snapshotCmd.Flags().StringVar(&snapshotArgs.opts.Blocks, "blocks", envString("BLOCK_TAGS", ""), "Block numbers or tags separated by comma or space, e.g. 100,latest (env BLOCK_TAGS)")
	snapshotCmd.Flags().StringVar(&snapshotArgs.opts.Loans, "loans", envString("LOAN_IDS", ""), "Loan ids separated by comma or space (env LOAN_IDS)")
	snapshotCmd.Flags().StringVar(&snapshotArgs.opts.Output, "output", envString("OUTPUT_FILE", snapshot.DefaultOutputFile), "Report file to write (env OUTPUT_FILE)")

	snapshotCmd.Flags().BoolVar(&snapshotArgs.skipProbe, "skip-probe", false, "Skip querying chain id and latest block before sending calls")
	snapshotCmd.Flags().DurationVar(&snapshotArgs.timeout, "timeout", 0, "cli task timeout, 0 for no timeout")

	rootCmd.AddCommand(snapshotCmd)
}

func takeSnapshot(cmd *cobra.Command, _ []string) {
	if snapshotArgs.batchSizeErr != nil && !cmd.Flags().Changed("batch-size") {
		logrus.WithError(snapshotArgs.batchSizeErr).Fatal("Invalid arguments")
	}

	config, err := snapshot.NewConfig(snapshotArgs.opts)
	if err != nil {
		logrus.WithError(err).Fatal("Invalid arguments")
	}

	ctx := context.Background()
	var cancel context.CancelFunc
	if snapshotArgs.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, snapshotArgs.timeout)
		defer cancel()
	}

	client := node.MustNewClient(config.URL)
	defer client.Close()

	s, err := snapshot.New(config, client, zg_common.LogOption{Logger: logrus.StandardLogger()})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize snapshot")
	}

	if !snapshotArgs.skipProbe {
		if err = s.Probe(ctx); err != nil {
			logrus.WithError(err).Fatal("Failed to probe blockchain node")
		}
	}

	rows, err := s.Run(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to take snapshot")
	}

	if err = snapshot.WriteReport(config.Output, rows); err != nil {
		logrus.WithError(err).Fatal("Failed to write report")
	}

	logrus.WithFields(logrus.Fields{
		"file": config.Output,
		"rows": len(rows),
	}).Info("Report written")
}
