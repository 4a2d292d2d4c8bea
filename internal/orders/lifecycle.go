// Package orders enforces the order state machine:
// pending_customization -> customized -> paid, with failed reachable from
// any non-terminal state. paid and failed are terminal.
package orders

import "colormybook-backend/internal/models"

var transitions = map[string][]string{
	models.OrderPendingCustomization: {models.OrderCustomized, models.OrderFailed},
	models.OrderCustomized:           {models.OrderPaid, models.OrderFailed},
	models.OrderPaid:                 {},
	models.OrderFailed:               {},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Terminal reports whether a status admits no further transitions.
func Terminal(status string) bool {
	return len(transitions[status]) == 0
}

// ValidStatus reports whether status belongs to the closed enumeration.
func ValidStatus(status string) bool {
	_, ok := transitions[status]
	return ok
}
