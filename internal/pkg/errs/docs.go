// Package errs provides the typed errors shared by the dispatch service.
//
// Every error type follows the same pattern:
//   - a sentinel variable (e.g. ErrObjectNotFound) that callers match with errors.Is
//   - a struct carrying the details of the failure
//   - New… and New…WithCause constructors
//   - Error() for the message and Unwrap() returning the sentinel
//
// The types map onto the failure classes of the service:
//   - ObjectNotFoundError: a referenced order, partner, shop or view does not exist
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: bad input
//     or a state transition that the order lifecycle does not allow
//   - ExternalServiceError: the document store, push service or maps API failed
package errs
