// Package kernel provides the shared value objects and pure helpers of the
// dispatch domain.
//
// The package includes:
//   - Location: a validated latitude/longitude pair
//   - Haversine and Centroid: great-circle math on the Earth sphere
//   - Geohash helpers used as a coarse pre-filter before exact distance checks
//   - DutyDate and DisplayTime: the two calendar formats that appear in stored
//     documents and in user-facing notifications
//
// Everything here is immutable and free of I/O, so it is safe for concurrent use.
package kernel
