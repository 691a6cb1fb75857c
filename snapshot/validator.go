package snapshot

import (
	"bytes"
	"encoding/json"

	"github.com/lendscope/loan-preview-client/node"
)

// ValidateBatch parses the raw response body of a batch and checks that it is an
// array with exactly one successful item per request, whose ids all belong to the
// batch. The first violation is returned as a *ProtocolError. Items are returned
// in response order.
func ValidateBatch(batch int, body []byte, requests []*CallRequest) ([]*node.ResponseItem, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, &ProtocolError{Batch: batch, Check: CheckBodyPresent, Detail: "empty response body"}
	}

	if body[0] != '[' {
		return nil, &ProtocolError{Batch: batch, Check: CheckArray, Detail: describeNonArray(body)}
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, &ProtocolError{Batch: batch, Check: CheckArray, Detail: err.Error()}
	}

	if len(raws) != len(requests) {
		return nil, &ProtocolError{Batch: batch, Check: CheckLength, Expected: len(requests), Actual: len(raws)}
	}

	pending := make(map[uint64]bool, len(requests))
	for _, v := range requests {
		pending[uint64(v.ID)] = true
	}

	items := make([]*node.ResponseItem, 0, len(raws))
	for i, raw := range raws {
		var item node.ResponseItem
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, &ProtocolError{Batch: batch, Check: CheckItemFormat, Index: i, Detail: err.Error()}
		}

		if !item.Succeeded() {
			return nil, &ProtocolError{Batch: batch, Check: CheckSuccess, Index: i, ID: item.ID, RPCError: item.Error}
		}

		if !pending[item.ID] {
			return nil, &ProtocolError{Batch: batch, Check: CheckID, Index: i, ID: item.ID, Detail: "not requested in batch or duplicated"}
		}

		delete(pending, item.ID)
		items = append(items, &item)
	}

	return items, nil
}

// describeNonArray describes a non-array body. Nodes usually reply with a single
// error object when the batch as a whole is rejected.
func describeNonArray(body []byte) string {
	var item node.ResponseItem
	if err := json.Unmarshal(body, &item); err == nil && item.Error != nil {
		return "node replied with error, " + item.Error.Error()
	}

	const maxLen = 128
	if len(body) > maxLen {
		return "unexpected response " + string(body[:maxLen]) + "..."
	}

	return "unexpected response " + string(body)
}
