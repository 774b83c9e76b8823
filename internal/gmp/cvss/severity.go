package cvss

// Rating is the qualitative severity of a score.
type Rating string

const (
	RatingFalsePositive Rating = "False Positive"
	RatingError         Rating = "Error"
	RatingDebug         Rating = "Debug"
	RatingNA            Rating = "N/A"
	RatingLog           Rating = "Log"
	RatingLow           Rating = "Low"
	RatingMedium        Rating = "Medium"
	RatingHigh          Rating = "High"
	RatingCritical      Rating = "Critical"
)

// Special severity values used by gvmd for results that do not carry a score.
const (
	SeverityFalsePositive = -1.0
	SeverityError         = -2.0
	SeverityDebug         = -3.0
)

// SeverityRating maps a severity to its rating. A nil severity is N/A.
func SeverityRating(severity *float64) Rating {
	if severity == nil {
		return RatingNA
	}
	s := *severity
	switch {
	case s == SeverityFalsePositive:
		return RatingFalsePositive
	case s == SeverityError:
		return RatingError
	case s == SeverityDebug:
		return RatingDebug
	case s < 0:
		return RatingNA
	case s == 0:
		return RatingLog
	case s < 4:
		return RatingLow
	case s < 7:
		return RatingMedium
	case s < 9:
		return RatingHigh
	}
	return RatingCritical
}
