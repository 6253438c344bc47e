package proto

import (
	"fmt"
	"strings"
	"time"
)

// User is an interface representing a member.
type User interface {
	// ID returns the user's ID.
	ID() int64
	// Email returns the user's lower-cased email address.
	Email() string
	// IsVerified returns whether the user confirmed their email.
	IsVerified() bool
	// Plan returns the user's membership plan.
	Plan() Plan
	// CreatedAt returns the time the user signed up.
	CreatedAt() time.Time
}

// Plan is a membership plan.
type Plan string

const (
	// PlanFree is the default plan.
	PlanFree Plan = "free"
	// PlanPremium is the paid plan.
	PlanPremium Plan = "premium"
)

// ParsePlan parses a plan name.
func ParsePlan(s string) (Plan, error) {
	switch p := Plan(strings.ToLower(strings.TrimSpace(s))); p {
	case PlanFree, PlanPremium:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPlan, s)
	}
}

// String returns the plan name.
func (p Plan) String() string {
	return string(p)
}

// Features describes what a plan offers.
type Features struct {
	Name     string   `json:"name"`
	Price    string   `json:"price"`
	Features []string `json:"features"`
}

// PlanFeatures returns the feature sheet of a plan. freeTreeLimit is the
// number of trees a free member can own.
func PlanFeatures(p Plan, freeTreeLimit int) Features {
	if p == PlanPremium {
		return Features{
			Name:  "Premium",
			Price: "$9.99/month",
			Features: []string{
				"Unlimited family trees",
				"Share trees with unlimited editors",
				"GEDCOM export",
				"Priority support",
			},
		}
	}

	return Features{
		Name:  "Free",
		Price: "$0",
		Features: []string{
			fmt.Sprintf("Create up to %d family trees", freeTreeLimit),
			"Share trees with editors",
			"GEDCOM export",
		},
	}
}
