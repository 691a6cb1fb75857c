package snapshot

import (
	"encoding/json"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/lendscope/loan-preview-client/contract"
	"github.com/lendscope/loan-preview-client/node"
)

// Block tags accepted in place of a block height.
var blockTags = map[string]bool{
	"latest":    true,
	"earliest":  true,
	"pending":   true,
	"safe":      true,
	"finalized": true,
}

// BlockReference is either a block height or a symbolic block tag.
type BlockReference struct {
	tag    string // empty for heights
	height uint64
}

// BlockHeight returns a reference to the block at the given height.
func BlockHeight(height uint64) BlockReference {
	return BlockReference{height: height}
}

// ParseBlockReference parses a decimal block height or a block tag, e.g. latest.
func ParseBlockReference(token string) (BlockReference, error) {
	if blockTags[token] {
		return BlockReference{tag: token}, nil
	}

	height, err := strconv.ParseUint(token, 10, 64)
	if err != nil {
		return BlockReference{}, &ConfigError{Field: "blocks", Value: token, Reason: "neither a decimal block height nor a block tag"}
	}

	return BlockHeight(height), nil
}

// MustParseBlockReference is like ParseBlockReference but panics on failure.
func MustParseBlockReference(token string) BlockReference {
	ref, err := ParseBlockReference(token)
	if err != nil {
		panic(err)
	}

	return ref
}

func (ref BlockReference) IsTag() bool {
	return len(ref.tag) > 0
}

// Tag returns the block tag, or empty string for heights.
func (ref BlockReference) Tag() string {
	return ref.tag
}

// Height returns the block height, or 0 for tags.
func (ref BlockReference) Height() uint64 {
	return ref.height
}

// String returns the block parameter in RPC form, i.e. the tag itself or the
// height in 0x-prefixed lowercase hex.
func (ref BlockReference) String() string {
	if ref.IsTag() {
		return ref.tag
	}

	return hexutil.EncodeUint64(ref.height)
}

// MarshalJSON encodes heights as JSON numbers and tags as JSON strings.
func (ref BlockReference) MarshalJSON() ([]byte, error) {
	if ref.IsTag() {
		return json.Marshal(ref.tag)
	}

	return json.Marshal(ref.height)
}

type LoanID uint64

func (id LoanID) Big() *big.Int {
	return new(big.Int).SetUint64(uint64(id))
}

// CorrelationID tags a request so that its response can be matched regardless of
// response order. IDs start at 1 and are never reused within a run.
type CorrelationID uint64

// CallRequest is a single getLoanPreview call evaluated at a block.
type CallRequest struct {
	ID       CorrelationID
	Block    BlockReference
	Loan     LoanID
	Contract common.Address
	Data     []byte // abi encoded call data
}

// RPC converts the call into an eth_call JSON-RPC request.
func (req *CallRequest) RPC() *node.Request {
	return node.NewCallRequest(uint64(req.ID), req.Contract, req.Data, req.Block.String())
}

// DecodedResult is a decoded preview along with the id of the request it answers.
type DecodedResult struct {
	ID      CorrelationID
	Preview *contract.LoanPreview
}

// ReportRow is a single row of the output report.
type ReportRow struct {
	BlockTag       BlockReference `json:"blockTag"`
	LoanID         LoanID         `json:"loanId"`
	TrackedBalance float64        `json:"trackedBalance"`
}
