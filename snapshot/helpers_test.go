package snapshot

import (
	"context"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/lendscope/loan-preview-client/contract"
	"github.com/lendscope/loan-preview-client/node"
	"github.com/stretchr/testify/require"
)

var (
	testContract = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testCodec    = contract.MustNewLoanPreviewCodec()
)

// testPreview is the preview returned by fake transports for request id.
func testPreview(id uint64) contract.LoanPreview {
	return contract.LoanPreview{
		PeriodIndex:        new(big.Int).SetUint64(id),
		TrackedBalance:     new(big.Int).SetUint64(id * 100),
		OutstandingBalance: new(big.Int).SetUint64(id * 200),
	}
}

func successItem(t *testing.T, id uint64) *node.ResponseItem {
	data, err := testCodec.PackGetLoanPreviewResult(testPreview(id))
	require.NoError(t, err)

	result := hexutil.Bytes(data)
	return &node.ResponseItem{JSONRPC: node.JSONRPCVersion, ID: id, Result: &result}
}

func errorItem(id uint64, code int, message string) *node.ResponseItem {
	return &node.ResponseItem{JSONRPC: node.JSONRPCVersion, ID: id, Error: &node.Error{Code: code, Message: message}}
}

func marshal(t *testing.T, v interface{}) []byte {
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func testRequests(t *testing.T, numBlocks, numLoans int) []*CallRequest {
	blocks := make([]BlockReference, numBlocks)
	for i := range blocks {
		blocks[i] = BlockHeight(uint64(100 + i))
	}

	loans := make([]LoanID, numLoans)
	for i := range loans {
		loans[i] = LoanID(i + 1)
	}

	requests, err := BuildRequests(testCodec, testContract, blocks, loans)
	require.NoError(t, err)

	return requests
}

// fakeTransport records batches and answers them with respond.
type fakeTransport struct {
	t       *testing.T
	batches [][]*node.Request
	respond func(batch int, requests []*node.Request) ([]byte, error)
}

func (f *fakeTransport) BatchCall(ctx context.Context, requests []*node.Request) ([]byte, error) {
	f.batches = append(f.batches, requests)
	return f.respond(len(f.batches)-1, requests)
}

// echo answers every request successfully, in request order.
func (f *fakeTransport) echo(batch int, requests []*node.Request) ([]byte, error) {
	items := make([]*node.ResponseItem, 0, len(requests))
	for _, v := range requests {
		items = append(items, successItem(f.t, v.ID))
	}

	return marshal(f.t, items), nil
}

// reverse answers every request successfully, in reverse request order.
func (f *fakeTransport) reverse(batch int, requests []*node.Request) ([]byte, error) {
	items := make([]*node.ResponseItem, 0, len(requests))
	for i := len(requests) - 1; i >= 0; i-- {
		items = append(items, successItem(f.t, requests[i].ID))
	}

	return marshal(f.t, items), nil
}
