package partner

import "dispatch/internal/core/domain/model/kernel"

// Candidate is the snapshot of one on-duty partner returned by the directory.
// Location is nil when the partner never reported a position.
type Candidate struct {
	ID                   string
	Name                 string
	Location             *kernel.Location
	Geohash              string
	LastDutyUpdateMillis int64
}

// HasLocation reports whether the candidate can be measured against a shop.
func (c Candidate) HasLocation() bool {
	return c.Location != nil && c.Location.Validate() == nil
}
