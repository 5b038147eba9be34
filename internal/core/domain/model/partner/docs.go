// Package partner models delivery partners as the dispatch service sees them:
// their duty mode, the duty bucket they are filed under for a given day, and
// the read-only Candidate snapshot handed to the assignment engine.
//
// A duty bucket is keyed by (state, district, day). Partners are only
// considered for orders whose shop lies in the same bucket, and inside a bucket
// the partner whose duty timestamp is the oldest is chosen first. Assigning an
// order resets that timestamp, which rotates partners fairly.
package partner
