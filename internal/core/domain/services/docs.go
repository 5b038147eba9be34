// Package services provides the pure domain services of the dispatch system.
//
// The package includes:
//   - AssignmentEngine: picks the on-duty partner for a shop from a directory snapshot
//   - ShopLocator: picks the shop that serves a voice order near the customer
//   - MessageRouter: decides how a chat message reaches the other side
//
// None of them perform I/O. Callers fetch snapshots through ports, ask a
// service for a decision and then apply it.
package services
