package admission

// Grade is a KCSE mean grade symbol. The empty string means the applicant
// did not report a grade.
type Grade string

// gradeRanks maps each of the 12 ordinal grade symbols to its numeric rank.
var gradeRanks = map[Grade]int{
	"A":  12,
	"A-": 11,
	"B+": 10,
	"B":  9,
	"B-": 8,
	"C+": 7,
	"C":  6,
	"C-": 5,
	"D+": 4,
	"D":  3,
	"D-": 2,
	"E":  1,
}

// Rank returns the ordinal rank of the grade (A=12 down to E=1). The second
// return value is false when the symbol is not a recognized grade.
func (g Grade) Rank() (int, bool) {
	rank, ok := gradeRanks[g]
	return rank, ok
}

// IsZero reports whether no grade was provided.
func (g Grade) IsZero() bool {
	return g == ""
}

// Validate returns a ValidationError for an unrecognized grade symbol.
// An absent grade is valid input; eligibility is the classifier's concern.
func (g Grade) Validate() error {
	if g.IsZero() {
		return nil
	}
	if _, ok := gradeRanks[g]; !ok {
		return &ValidationError{Field: "kcseMeanGrade", Reason: "unrecognized grade symbol " + string(g)}
	}
	return nil
}
