package user

import "time"

// User represents an account and its entitlement state. The monthly
// counters live directly on the row so that one atomic update can both
// check and consume a generation credit.
type User struct {
	ID              int64     `json:"id"`
	Email           string    `json:"email"`
	FullName        *string   `json:"full_name,omitempty"`
	PasswordHash    string    `json:"-"` // Not exposed in JSON
	Plan            string    `json:"plan"`
	MonthlyQrLimit  int       `json:"monthly_qr_limit"`
	QrUsedThisMonth int       `json:"qr_used_this_month"`
	TopUpCount      int       `json:"top_up_count"`
	LimitResetDate  time.Time `json:"limit_reset_date"`
	TotalSpentCents int64     `json:"total_spent_cents"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Plans. Anonymous callers have no stored plan; they are reported as
// "anonymous" by the usage endpoint.
const (
	PlanFree         = "free"
	PlanStarter      = "starter"
	PlanProfessional = "professional"
	PlanAnonymous    = "anonymous"
)

// Remaining returns how many generations the user has left this month
func (u *User) Remaining() int {
	r := u.MonthlyQrLimit - u.QrUsedThisMonth
	if r < 0 {
		return 0
	}
	return r
}

// Usage is the entitlement snapshot returned by the usage endpoint and
// attached to rate-limit errors
type Usage struct {
	Used             int       `json:"used"`
	Limit            int       `json:"limit"`
	Remaining        int       `json:"remaining"`
	Plan             string    `json:"plan"`
	TopUpCount       int       `json:"topUpCount"`
	TotalSpentCents  int64     `json:"totalSpentCents"`
	ResetDate        time.Time `json:"resetDate"`
	IsNearLimit      bool      `json:"isNearLimit"`
	HasExceededLimit bool      `json:"hasExceededLimit"`
}
