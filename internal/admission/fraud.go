package admission

import "sort"

// PaymentRef pairs an applicant record with its submitted M-PESA code.
type PaymentRef struct {
	ApplicantID string
	Code        string
}

// DuplicateCode is a payment code shared by more than one applicant record.
type DuplicateCode struct {
	Code  string `json:"mpesa_code"`
	Count int    `json:"count"`
}

// DetectDuplicateCodes scans the full population of payment codes and
// reports each code appearing more than once, exactly once per distinct
// code. The scan is a read-time aggregation and mutates nothing.
func DetectDuplicateCodes(refs []PaymentRef) []DuplicateCode {
	counts := make(map[string]int, len(refs))
	for _, ref := range refs {
		if ref.Code == "" {
			continue
		}
		counts[ref.Code]++
	}

	var dups []DuplicateCode
	for code, count := range counts {
		if count > 1 {
			dups = append(dups, DuplicateCode{Code: code, Count: count})
		}
	}

	// Highest counts first, then by code for stable output.
	sort.Slice(dups, func(i, j int) bool {
		if dups[i].Count != dups[j].Count {
			return dups[i].Count > dups[j].Count
		}
		return dups[i].Code < dups[j].Code
	})

	return dups
}
