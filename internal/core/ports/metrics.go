package ports

import "time"

// Metrics records dispatch observations.
type Metrics interface {
	ObserveAssignment(orderType string, assigned bool, elapsed time.Duration)
	ObserveTransition(status string, applied bool)
	ObserveRetry(orderType string, outcome string)
	ObserveNotification(audience string, outcome string)
}
