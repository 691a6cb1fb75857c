package snapshot

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/lendscope/loan-preview-client/contract"
	"github.com/lendscope/loan-preview-client/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRoundTrip(t *testing.T) {
	// encode a call for (loan, block), then decode a synthetic answer to it
	requests, err := BuildRequests(testCodec, testContract, []BlockReference{BlockHeight(12345)}, []LoanID{42})
	require.NoError(t, err)

	loanId, _, err := testCodec.UnpackGetLoanPreviewArgs(requests[0].Data)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), loanId.Uint64())

	tracked, ok := new(big.Int).SetString("340282366920938463463374607431768211457", 10)
	require.True(t, ok)

	expected := contract.LoanPreview{
		PeriodIndex:        big.NewInt(12),
		TrackedBalance:     tracked,
		OutstandingBalance: big.NewInt(7),
	}

	data, err := testCodec.PackGetLoanPreviewResult(expected)
	require.NoError(t, err)

	result := hexutil.Bytes(data)
	decoded, err := DecodeItem(testCodec, &node.ResponseItem{ID: uint64(requests[0].ID), Result: &result})
	require.NoError(t, err)

	assert.Equal(t, requests[0].ID, decoded.ID)
	assert.Equal(t, 0, expected.PeriodIndex.Cmp(decoded.Preview.PeriodIndex))
	assert.Equal(t, 0, expected.TrackedBalance.Cmp(decoded.Preview.TrackedBalance))
	assert.Equal(t, 0, expected.OutstandingBalance.Cmp(decoded.Preview.OutstandingBalance))
}

func TestDecodeMalformed(t *testing.T) {
	full := successItem(t, 5)

	for _, data := range []hexutil.Bytes{{}, (*full.Result)[:64], (*full.Result)[:95]} {
		result := data
		_, err := DecodeItem(testCodec, &node.ResponseItem{ID: 5, Result: &result})

		var decodeErr *DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Equal(t, CorrelationID(5), decodeErr.ID)
		assert.Error(t, decodeErr.Unwrap())
	}

	_, err := DecodeItem(testCodec, &node.ResponseItem{ID: 6})
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, CorrelationID(6), decodeErr.ID)
}

func TestDecodeItems(t *testing.T) {
	results, err := DecodeItems(testCodec, []*node.ResponseItem{successItem(t, 2), successItem(t, 1)})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, CorrelationID(2), results[0].ID)
	assert.Equal(t, int64(200), results[0].Preview.TrackedBalance.Int64())
	assert.Equal(t, CorrelationID(1), results[1].ID)
	assert.Equal(t, int64(100), results[1].Preview.TrackedBalance.Int64())
}
