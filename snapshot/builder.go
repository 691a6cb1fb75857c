package snapshot

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/lendscope/loan-preview-client/contract"
	"github.com/pkg/errors"
)

// BuildRequests creates one call per (block, loan) pair, blocks in the outer loop
// and loans in the inner loop. Correlation ids are assigned in the same order,
// starting from 1.
func BuildRequests(codec *contract.LoanPreviewCodec, target common.Address, blocks []BlockReference, loans []LoanID) ([]*CallRequest, error) {
	// call data only depends on the loan
	payloads := make([][]byte, len(loans))
	for i, loan := range loans {
		data, err := codec.PackGetLoanPreview(loan.Big())
		if err != nil {
			return nil, errors.WithMessagef(err, "Failed to encode call for loan %v", loan)
		}

		payloads[i] = data
	}

	requests := make([]*CallRequest, 0, len(blocks)*len(loans))
	var id CorrelationID

	for _, block := range blocks {
		for i, loan := range loans {
			id++
			requests = append(requests, &CallRequest{
				ID:       id,
				Block:    block,
				Loan:     loan,
				Contract: target,
				Data:     payloads[i],
			})
		}
	}

	return requests, nil
}
