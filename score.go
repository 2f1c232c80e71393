package mailcheck

// Rating is a coarse band over the deliverability score.
type Rating string

const (
	// RatingExcellent is a score of 75 or more.
	RatingExcellent Rating = "excellent"

	// RatingGood is a score of 50 to 74.
	RatingGood Rating = "good"

	// RatingPoor is a score below 50.
	RatingPoor Rating = "poor"
)

// pointsPerCheck is the flat weight of each of the four record checks.
// Sub-detail (policy strength, key revocation) does not change it.
const pointsPerCheck = 25

// Score returns the deliverability score of a report, 0 to 100.
func Score(r DomainReport) int {
	return pointsPerCheck * r.PresentCount()
}

// RateScore maps a score to its rating band.
func RateScore(score int) Rating {
	switch {
	case score >= 75:
		return RatingExcellent
	case score >= 50:
		return RatingGood
	default:
		return RatingPoor
	}
}
