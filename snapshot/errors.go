package snapshot

import (
	"fmt"

	"github.com/lendscope/loan-preview-client/node"
	"github.com/pkg/errors"
)

var errNoResult = errors.New("result missing")

// ConfigError is returned for invalid inputs, always before any network activity.
type ConfigError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigError) Error() string {
	if len(e.Value) > 0 {
		return fmt.Sprintf("Invalid %v %q: %v", e.Field, e.Value, e.Reason)
	}

	return fmt.Sprintf("Invalid %v: %v", e.Field, e.Reason)
}

type ProtocolCheck string

const (
	CheckBodyPresent ProtocolCheck = "response body present"
	CheckArray       ProtocolCheck = "response is array"
	CheckLength      ProtocolCheck = "response length"
	CheckItemFormat  ProtocolCheck = "response item format"
	CheckSuccess     ProtocolCheck = "success payload"
	CheckID          ProtocolCheck = "response id"
)

// ProtocolError is returned when a batch response violates the expected shape.
type ProtocolError struct {
	Batch    int
	Check    ProtocolCheck
	Expected int         // expected array length
	Actual   int         // actual array length
	Index    int         // index of the offending item in the response
	ID       uint64      // id of the offending item
	RPCError *node.Error // error payload of the offending item
	Detail   string
}

func (e *ProtocolError) Error() string {
	switch e.Check {
	case CheckLength:
		return fmt.Sprintf("Batch %v: %v mismatch, expected = %v, actual = %v", e.Batch, e.Check, e.Expected, e.Actual)
	case CheckSuccess:
		if e.RPCError != nil {
			return fmt.Sprintf("Batch %v: item %v (id = %v) failed, code = %v, message = %v", e.Batch, e.Index, e.ID, e.RPCError.Code, e.RPCError.Message)
		}

		return fmt.Sprintf("Batch %v: item %v (id = %v) has no result", e.Batch, e.Index, e.ID)
	case CheckID:
		return fmt.Sprintf("Batch %v: item %v has id %v, %v", e.Batch, e.Index, e.ID, e.Detail)
	default:
		return fmt.Sprintf("Batch %v: %v check failed, %v", e.Batch, e.Check, e.Detail)
	}
}

// DecodeError is returned when the return data of a call cannot be decoded.
type DecodeError struct {
	ID    CorrelationID
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("Failed to decode result of request %v: %v", e.ID, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// CorrelationError is returned when decoded results do not line up with requests.
// Zero is never assigned as an id, so a zero Expected or Actual means the
// counterpart is missing.
type CorrelationError struct {
	Position int
	Expected CorrelationID
	Actual   CorrelationID
}

func (e *CorrelationError) Error() string {
	switch {
	case e.Actual == 0:
		return fmt.Sprintf("Correlation failed at position %v: no result for request %v", e.Position, e.Expected)
	case e.Expected == 0:
		return fmt.Sprintf("Correlation failed at position %v: unexpected result %v", e.Position, e.Actual)
	default:
		return fmt.Sprintf("Correlation failed at position %v: expected id %v, got %v", e.Position, e.Expected, e.Actual)
	}
}
