package node

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	JSONRPCVersion = "2.0"

	MethodCall        = "eth_call"
	MethodChainId     = "eth_chainId"
	MethodBlockNumber = "eth_blockNumber"
)

// CallArgs is the transaction object of eth_call.
type CallArgs struct {
	To    common.Address `json:"to"`
	Input hexutil.Bytes  `json:"input"`
}

// Request is a single JSON-RPC request within a batch.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// NewCallRequest creates an eth_call request evaluated at the given block parameter.
func NewCallRequest(id uint64, to common.Address, input []byte, block string) *Request {
	return &Request{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Method:  MethodCall,
		Params: []any{
			CallArgs{To: to, Input: input},
			block,
		},
	}
}

// Error is the error object of a JSON-RPC response.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	if len(e.Data) > 0 {
		return fmt.Sprintf("code = %v, message = %v, data = %s", e.Code, e.Message, e.Data)
	}

	return fmt.Sprintf("code = %v, message = %v", e.Code, e.Message)
}

// ResponseItem is a single JSON-RPC response within a batch.
type ResponseItem struct {
	JSONRPC string         `json:"jsonrpc,omitempty"`
	ID      uint64         `json:"id"`
	Result  *hexutil.Bytes `json:"result,omitempty"`
	Error   *Error         `json:"error,omitempty"`
}

// Succeeded returns true if the item carries a result and no error.
func (item *ResponseItem) Succeeded() bool {
	return item.Error == nil && item.Result != nil
}
