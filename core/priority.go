package core

import "fmt"

// Priority is the caller-chosen speed/cost tier for a transaction. It drives
// both the fee and the simulated confirmation delay.
type Priority string

const (
	PriorityEconomy  Priority = "ECONOMY"
	PriorityStandard Priority = "STANDARD"
	PriorityFast     Priority = "FAST"
)

// ParsePriority converts external input into a Priority.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityEconomy:
		return PriorityEconomy, nil
	case PriorityStandard:
		return PriorityStandard, nil
	case PriorityFast:
		return PriorityFast, nil
	default:
		return "", fmt.Errorf("unknown priority tier %q", s)
	}
}

// Rank orders tiers for mempool comparison: higher rank confirms first.
// Unrecognized tiers rank with STANDARD, matching the fee schedule fallback.
func (p Priority) Rank() int {
	switch p {
	case PriorityFast:
		return 2
	case PriorityEconomy:
		return 0
	default:
		return 1
	}
}
