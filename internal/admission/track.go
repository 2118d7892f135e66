package admission

// Track is the admissions program an applicant is routed into.
type Track string

const (
	TrackCBET        Track = "CBET"
	TrackDiploma     Track = "DIPLOMA"
	TrackCertificate Track = "CERTIFICATE"
)

const (
	// AdultTrackAge is the age at which applicants are routed to CBET
	// regardless of grade.
	AdultTrackAge = 21

	minDiplomaRank     = 5 // C- or better
	minCertificateRank = 3 // D plain or better
)

// Campus is a preferred study campus.
type Campus string

const (
	CampusNyeri    Campus = "Nyeri"
	CampusThika    Campus = "Thika"
	CampusUgenya   Campus = "Ugenya"
	CampusAinabkoi Campus = "Ainabkoi"
)

// ClassifyTrack routes an applicant into exactly one track from calculated
// age and KCSE mean grade. Age alone gates CBET; below the adult age the
// grade rank decides between DIPLOMA, CERTIFICATE, and rejection.
//
// The same function runs on the submission path and the correction path so
// the grade floor cannot be bypassed by editing and resubmitting.
func ClassifyTrack(age int, grade Grade) (Track, error) {
	if age >= AdultTrackAge {
		return TrackCBET, nil
	}

	if grade.IsZero() {
		return "", &EligibilityError{Reason: "academic requirement not met (minimum D plain required)"}
	}

	rank, ok := grade.Rank()
	if !ok {
		return "", &ValidationError{Field: "kcseMeanGrade", Reason: "unrecognized grade symbol " + string(grade)}
	}

	switch {
	case rank >= minDiplomaRank:
		return TrackDiploma, nil
	case rank >= minCertificateRank:
		return TrackCertificate, nil
	default:
		return "", &EligibilityError{Reason: "academic requirement not met (minimum D plain required)"}
	}
}

// AllowedCampuses returns the campuses an applicant on the given track may
// choose from. CBET applicants select freely; the younger tracks are
// restricted to the two campuses running those programs.
func AllowedCampuses(track Track) []Campus {
	switch track {
	case TrackCBET:
		return []Campus{CampusNyeri, CampusThika, CampusUgenya, CampusAinabkoi}
	default:
		return []Campus{CampusThika, CampusAinabkoi}
	}
}

// DefaultCampus is assigned when a non-CBET applicant leaves the campus
// unset.
func DefaultCampus(track Track) Campus {
	if track == TrackCBET {
		return ""
	}
	return CampusThika
}

// ValidateCampus checks a chosen campus against the track constraint. An
// empty campus is allowed; submission assigns the default for non-CBET
// tracks.
func ValidateCampus(track Track, campus Campus) error {
	if campus == "" {
		return nil
	}
	for _, c := range AllowedCampuses(track) {
		if c == campus {
			return nil
		}
	}
	return &ValidationError{
		Field:  "preferredCampus",
		Reason: string(campus) + " is not available for the " + string(track) + " track",
	}
}
