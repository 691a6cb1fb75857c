package node_test

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"

	"github.com/lendscope/loan-preview-client/node"
	"gotest.tools/assert"
)

func extractRPCError(err error) *node.RPCError {
	var rpcError *node.RPCError
	if errors.As(err, &rpcError) {
		return rpcError
	}
	return nil
}

func TestErrorAs(t *testing.T) {
	err := fmt.Errorf("123")
	assert.Equal(t, extractRPCError(err) == nil, true)
	err = &node.RPCError{
		Method:  "eth_call",
		URL:     "127.0.0.1:8545",
		Message: "connection refused",
	}
	assert.DeepEqual(
		t,
		extractRPCError(errors.WithMessage(err, "Failed to send batch")),
		err,
	)
	assert.DeepEqual(
		t,
		extractRPCError(errors.WithMessage(errors.WithMessage(err, "Failed to send batch 3"), "Failed to dispatch batches")),
		err,
	)
}

func TestErrorMessage(t *testing.T) {
	err := &node.RPCError{Method: "eth_call", URL: "http://node", Message: "bad gateway", Status: 502}
	assert.Equal(t, err.Error(), "Node: http://node, Method: eth_call, Status: 502, Message: bad gateway")

	err.Status = 0
	assert.Equal(t, err.Error(), "Node: http://node, Method: eth_call, Message: bad gateway")
}
