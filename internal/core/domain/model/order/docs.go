// Package order provides the Order aggregate of the dispatch service and the
// fixed milestone state machine it moves through.
//
// The package includes:
//   - Order: the aggregate root holding the customer, shop, destination, the
//     assigned partner and the current milestone
//   - Status: milestones 0..6 with the transitions between them
//   - Stage: display metadata (label, colours, history entries) per milestone
//   - ID: the date-prefixed order identifier
//
// Key business rules:
//   - Statuses only move forward: 0 -> 1 -> 2 -> 3 -> 4 -> 5 -> 6
//   - Status 2 is a fork: a partner is either assigned or the order waits for one
//   - An unassigned order at status 2 can still receive a partner, nothing else
//   - Repeating a transition that already happened is reported with
//     ErrTransitionAlreadyApplied so callers can treat it as a no-op
//   - Any other jump is an invalid transition
package order
