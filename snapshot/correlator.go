package snapshot

import (
	"math/big"
	"sort"
)

// maxSafeInteger is the largest integer n such that every integer in [0, n] has an
// exact float64 representation.
var maxSafeInteger = new(big.Int).SetUint64(1<<53 - 1)

// Correlate matches decoded results to requests by correlation id, regardless of
// the order results were received in, and returns one report row per request in
// request order.
//
// Requests must be ordered by id, as returned by BuildRequests. Results are sorted
// by id and then aligned with requests position by position; any mismatch is
// returned as a *CorrelationError.
func Correlate(requests []*CallRequest, results []DecodedResult) ([]ReportRow, error) {
	sorted := make([]DecodedResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})

	rows := make([]ReportRow, 0, len(requests))

	for i, req := range requests {
		if i >= len(sorted) {
			return nil, &CorrelationError{Position: i, Expected: req.ID}
		}

		if sorted[i].ID != req.ID {
			return nil, &CorrelationError{Position: i, Expected: req.ID, Actual: sorted[i].ID}
		}

		rows = append(rows, ReportRow{
			BlockTag:       req.Block,
			LoanID:         req.Loan,
			TrackedBalance: narrow(sorted[i].Preview.TrackedBalance),
		})
	}

	if len(sorted) > len(requests) {
		return nil, &CorrelationError{Position: len(requests), Actual: sorted[len(requests)].ID}
	}

	return rows, nil
}

// narrow converts the value to the nearest float64. Precision is lost beyond 2^53.
func narrow(value *big.Int) float64 {
	if value == nil {
		return 0
	}

	f, _ := new(big.Float).SetInt(value).Float64()
	return f
}

// IsLossy returns true if the value cannot be represented exactly as float64.
func IsLossy(value *big.Int) bool {
	return value != nil && value.CmpAbs(maxSafeInteger) > 0
}
