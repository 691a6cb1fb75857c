package snapshot

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOptions() Options {
	return Options{
		URL:       "http://127.0.0.1:8545",
		Contract:  "0x1111111111111111111111111111111111111111",
		BatchSize: 2,
		Blocks:    "100, latest",
		Loans:     "1 2",
		Output:    DefaultOutputFile,
	}
}

func TestNewConfig(t *testing.T) {
	config, err := NewConfig(validOptions())
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8545", config.URL)
	assert.Equal(t, common.HexToAddress("0x1111111111111111111111111111111111111111"), config.Contract)
	assert.Equal(t, []BlockReference{BlockHeight(100), MustParseBlockReference("latest")}, config.Blocks)
	assert.Equal(t, []LoanID{1, 2}, config.Loans)
	assert.Equal(t, 4, config.NumRequests())
	assert.Equal(t, 2, config.NumBatches())
}

func TestNewConfigInvalid(t *testing.T) {
	cases := []struct {
		field  string
		modify func(opts *Options)
	}{
		{"url", func(opts *Options) { opts.URL = "" }},
		{"url", func(opts *Options) { opts.URL = "not a url" }},
		{"contract", func(opts *Options) { opts.Contract = "0x1234" }},
		{"contract", func(opts *Options) { opts.Contract = "1111111111111111111111111111111111111111" }},
		{"batch-size", func(opts *Options) { opts.BatchSize = 0 }},
		{"batch-size", func(opts *Options) { opts.BatchSize = -3 }},
		{"blocks", func(opts *Options) { opts.Blocks = "" }},
		{"blocks", func(opts *Options) { opts.Blocks = " ,; " }},
		{"blocks", func(opts *Options) { opts.Blocks = "100 newest" }},
		{"loans", func(opts *Options) { opts.Loans = "" }},
		{"loans", func(opts *Options) { opts.Loans = "1 two" }},
		{"output", func(opts *Options) { opts.Output = "" }},
	}

	for _, c := range cases {
		opts := validOptions()
		c.modify(&opts)

		_, err := NewConfig(opts)

		var configErr *ConfigError
		require.ErrorAs(t, err, &configErr, c.field)
		assert.Equal(t, c.field, configErr.Field)
	}
}

func TestSplitTokens(t *testing.T) {
	assert.Equal(t, []string{"100", "200", "latest"}, SplitTokens(" 100,200;; latest\n"))
	assert.Equal(t, []string{"1", "2", "3"}, SplitTokens("1\t2  3"))
	assert.Nil(t, SplitTokens(" , "))
	assert.Nil(t, SplitTokens(""))
}

func TestParseBlockReferences(t *testing.T) {
	refs, err := ParseBlockReferences("17000000 | earliest,finalized")
	require.NoError(t, err)
	require.Len(t, refs, 3)
	assert.Equal(t, uint64(17000000), refs[0].Height())
	assert.Equal(t, "earliest", refs[1].Tag())
	assert.Equal(t, "finalized", refs[2].Tag())
}

func TestParseLoanIDs(t *testing.T) {
	ids, err := ParseLoanIDs("3 1 2 1")
	require.NoError(t, err)
	assert.Equal(t, []LoanID{3, 1, 2, 1}, ids)

	_, err = ParseLoanIDs("99999999999999999999")
	var configErr *ConfigError
	assert.ErrorAs(t, err, &configErr)
}

func TestConfigErrorMessage(t *testing.T) {
	_, err := NewConfig(Options{
		URL:       "http://127.0.0.1:8545",
		Contract:  "0x1111111111111111111111111111111111111111",
		BatchSize: 0,
		Blocks:    "1",
		Loans:     "1",
		Output:    "out.json",
	})
	assert.EqualError(t, err, `Invalid batch-size "0": must be greater than 0`)
}

func TestParseBatchSize(t *testing.T) {
	size, err := ParseBatchSize(" 25 ")
	require.NoError(t, err)
	assert.Equal(t, 25, size)

	_, err = ParseBatchSize("ten")
	assert.EqualError(t, err, `Invalid batch-size "ten": not a decimal integer`)

	var configErr *ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "ten", configErr.Value)

	_, err = ParseBatchSize("-4")
	assert.EqualError(t, err, `Invalid batch-size "-4": must be greater than 0`)
}
