package contract

import (
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

const (
	// GetLoanPreviewSignature is the canonical signature of the loan preview view function.
	GetLoanPreviewSignature = "getLoanPreview(uint256,uint256)"

	getLoanPreviewMethod = "getLoanPreview"
)

// LoanPreviewMetaData contains all meta data concerning the loan preview view function.
var LoanPreviewMetaData = &bind.MetaData{
	ABI: "[{\"inputs\":[{\"internalType\":\"uint256\",\"name\":\"loanId\",\"type\":\"uint256\"},{\"internalType\":\"uint256\",\"name\":\"timestamp\",\"type\":\"uint256\"}],\"name\":\"getLoanPreview\",\"outputs\":[{\"internalType\":\"uint256\",\"name\":\"periodIndex\",\"type\":\"uint256\"},{\"internalType\":\"uint256\",\"name\":\"trackedBalance\",\"type\":\"uint256\"},{\"internalType\":\"uint256\",\"name\":\"outstandingBalance\",\"type\":\"uint256\"}],\"stateMutability\":\"view\",\"type\":\"function\"}]",
}

// LoanPreview is the return tuple of getLoanPreview.
type LoanPreview struct {
	PeriodIndex        *big.Int
	TrackedBalance     *big.Int
	OutstandingBalance *big.Int
}

// LoanPreviewCodec packs getLoanPreview calls and unpacks their return data.
type LoanPreviewCodec struct {
	abi    *abi.ABI
	method abi.Method
}

// NewLoanPreviewCodec parses the loan preview ABI and verifies the function selector.
func NewLoanPreviewCodec() (*LoanPreviewCodec, error) {
	parsed, err := LoanPreviewMetaData.GetAbi()
	if err != nil {
		return nil, errors.WithMessage(err, "Failed to parse loan preview ABI")
	}

	method, ok := parsed.Methods[getLoanPreviewMethod]
	if !ok {
		return nil, errors.Errorf("Method %v not found in ABI", getLoanPreviewMethod)
	}

	if method.Sig != GetLoanPreviewSignature {
		return nil, errors.Errorf("Unexpected method signature %v, expected %v", method.Sig, GetLoanPreviewSignature)
	}

	selector := crypto.Keccak256([]byte(GetLoanPreviewSignature))[:4]
	if !bytes.Equal(method.ID, selector) {
		return nil, errors.Errorf("Selector mismatch, abi = %x, computed = %x", method.ID, selector)
	}

	return &LoanPreviewCodec{parsed, method}, nil
}

// MustNewLoanPreviewCodec is like NewLoanPreviewCodec but panics on failure.
func MustNewLoanPreviewCodec() *LoanPreviewCodec {
	codec, err := NewLoanPreviewCodec()
	if err != nil {
		panic(err)
	}

	return codec
}

// Selector returns the 4-byte function selector.
func (codec *LoanPreviewCodec) Selector() []byte {
	return common.CopyBytes(codec.method.ID)
}

// PackGetLoanPreview encodes a getLoanPreview call. The timestamp argument is always
// zero so that the node evaluates the preview at the timestamp of the queried block.
func (codec *LoanPreviewCodec) PackGetLoanPreview(loanId *big.Int) ([]byte, error) {
	return codec.abi.Pack(getLoanPreviewMethod, loanId, common.Big0)
}

// UnpackGetLoanPreviewArgs decodes call data produced by PackGetLoanPreview.
func (codec *LoanPreviewCodec) UnpackGetLoanPreviewArgs(input []byte) (loanId, timestamp *big.Int, err error) {
	if len(input) < 4 || !bytes.Equal(input[:4], codec.method.ID) {
		return nil, nil, errors.New("Call data does not target getLoanPreview")
	}

	values, err := codec.method.Inputs.Unpack(input[4:])
	if err != nil {
		return nil, nil, errors.WithMessage(err, "Failed to unpack getLoanPreview arguments")
	}

	loanId = *abi.ConvertType(values[0], new(*big.Int)).(**big.Int)
	timestamp = *abi.ConvertType(values[1], new(*big.Int)).(**big.Int)

	return loanId, timestamp, nil
}

// PackGetLoanPreviewResult encodes the return data of getLoanPreview.
func (codec *LoanPreviewCodec) PackGetLoanPreviewResult(preview LoanPreview) ([]byte, error) {
	return codec.method.Outputs.Pack(preview.PeriodIndex, preview.TrackedBalance, preview.OutstandingBalance)
}

// UnpackGetLoanPreview decodes the return data of getLoanPreview.
func (codec *LoanPreviewCodec) UnpackGetLoanPreview(data []byte) (*LoanPreview, error) {
	var preview LoanPreview
	if err := codec.abi.UnpackIntoInterface(&preview, getLoanPreviewMethod, data); err != nil {
		return nil, err
	}

	return &preview, nil
}
