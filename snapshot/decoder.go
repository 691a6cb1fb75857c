package snapshot

import (
	"github.com/lendscope/loan-preview-client/contract"
	"github.com/lendscope/loan-preview-client/node"
)

// DecodeItem decodes the result of a successful response item.
func DecodeItem(codec *contract.LoanPreviewCodec, item *node.ResponseItem) (DecodedResult, error) {
	id := CorrelationID(item.ID)

	if item.Result == nil {
		return DecodedResult{}, &DecodeError{ID: id, Cause: errNoResult}
	}

	preview, err := codec.UnpackGetLoanPreview(*item.Result)
	if err != nil {
		return DecodedResult{}, &DecodeError{ID: id, Cause: err}
	}

	return DecodedResult{ID: id, Preview: preview}, nil
}

// DecodeItems decodes all items of a validated batch, keeping their order.
func DecodeItems(codec *contract.LoanPreviewCodec, items []*node.ResponseItem) ([]DecodedResult, error) {
	results := make([]DecodedResult, 0, len(items))

	for _, v := range items {
		result, err := DecodeItem(codec, v)
		if err != nil {
			return nil, err
		}

		results = append(results, result)
	}

	return results, nil
}
