package node_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/lendscope/loan-preview-client/mocknode"
	"github.com/lendscope/loan-preview-client/node"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchCall(t *testing.T) {
	var received []map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))

		w.Write([]byte(`[{"jsonrpc":"2.0","id":8,"result":"0x01"}]`))
	}))
	defer server.Close()

	client, err := node.NewClient(server.URL)
	require.NoError(t, err)
	defer client.Close()

	to := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	body, err := client.BatchCall(context.Background(), []*node.Request{
		node.NewCallRequest(7, to, []byte{0xab}, "latest"),
		node.NewCallRequest(8, to, []byte{0xcd}, "0x64"),
	})
	require.NoError(t, err)
	assert.Equal(t, `[{"jsonrpc":"2.0","id":8,"result":"0x01"}]`, string(body))

	require.Len(t, received, 2)
	assert.Equal(t, float64(7), received[0]["id"])
	assert.Equal(t, "eth_call", received[0]["method"])
	assert.Equal(t, "2.0", received[0]["jsonrpc"])
	assert.Equal(t, []interface{}{
		map[string]interface{}{"to": "0x00000000000000000000000000000000000000aa", "input": "0xcd"},
		"0x64",
	}, received[1]["params"])
}

func TestBatchCallEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	client := node.MustNewClient(server.URL)
	defer client.Close()

	body, err := client.BatchCall(context.Background(), []*node.Request{
		node.NewCallRequest(1, common.Address{}, nil, "latest"),
	})
	require.NoError(t, err)
	assert.Empty(t, body)
}

func TestBatchCallHTTPStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := node.MustNewClient(server.URL)
	defer client.Close()

	_, err := client.BatchCall(context.Background(), []*node.Request{
		node.NewCallRequest(1, common.Address{}, nil, "latest"),
	})

	var rpcErr *node.RPCError
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, http.StatusTooManyRequests, rpcErr.Status)
	assert.Equal(t, node.MethodCall, rpcErr.Method)
	assert.Equal(t, server.URL, rpcErr.URL)
	assert.Contains(t, rpcErr.Message, "rate limited")
}

func TestBatchCallUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := node.MustNewClient(url)
	defer client.Close()

	_, err := client.BatchCall(context.Background(), []*node.Request{
		node.NewCallRequest(1, common.Address{}, nil, "latest"),
	})

	var rpcErr *node.RPCError
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, 0, rpcErr.Status)
}

func TestProbe(t *testing.T) {
	handler, err := mocknode.NewHandler(mocknode.Config{ChainId: 1337, Head: 42})
	require.NoError(t, err)

	server := httptest.NewServer(handler)
	defer server.Close()

	client := node.MustNewClient(server.URL)
	defer client.Close()

	chainId, err := client.ChainId(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1337), chainId)

	blockNumber, err := client.BlockNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(42), blockNumber)
}

func TestProbeErrorWrapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	client := node.MustNewClient(server.URL)
	defer client.Close()

	_, err := client.ChainId(context.Background())

	var rpcErr *node.RPCError
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, node.MethodChainId, rpcErr.Method)
	assert.Equal(t, server.URL, rpcErr.URL)
}
