// Package limits encodes the monthly QR generation limit staircase and
// the subscription override.
package limits

// Progression maps cumulative top-up count to the monthly limit. Index 0
// is the default limit every account starts with; each top-up purchase
// moves one step up, permanently.
var Progression = []int{50, 150, 250, 350, 450, 500}

const (
	// DefaultMonthlyLimit is the limit granted at registration
	DefaultMonthlyLimit = 50

	// SubscriptionLimit is the flat limit of the starter subscription,
	// independent of the top-up staircase
	SubscriptionLimit = 500

	// FirstTopUpBonus is the advertised bonus for the first top-up. It is
	// reported to the caller for display and is not added to the stored
	// limit (see DESIGN.md).
	FirstTopUpBonus = 100

	// NearLimitThreshold is the remaining-credits level at which usage
	// responses start carrying a warning flag
	NearLimitThreshold = 5
)

// NextLimit returns the limit a user with the given top-up count would
// get from one more top-up. The second return value is false when the
// staircase is exhausted and no further upgrade exists.
func NextLimit(topUpCount int) (int, bool) {
	if topUpCount < 0 {
		topUpCount = 0
	}
	next := topUpCount + 1
	if next >= len(Progression) {
		return 0, false
	}
	return Progression[next], true
}

// LimitFor returns the staircase limit for a given top-up count, clamped
// to the last step
func LimitFor(topUpCount int) int {
	if topUpCount < 0 {
		topUpCount = 0
	}
	if topUpCount >= len(Progression) {
		topUpCount = len(Progression) - 1
	}
	return Progression[topUpCount]
}

// MaxTopUps returns how many top-up purchases the staircase supports
func MaxTopUps() int {
	return len(Progression) - 1
}
