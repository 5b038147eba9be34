package ports

import (
	"context"

	"dispatch/internal/core/domain/model/partner"
)

// PartnerDirectory is the per-day duty registry of delivery partners,
// bucketed by state and district.
type PartnerDirectory interface {
	// FindOnDutyPartners returns the on-duty partners of the bucket ordered by
	// LastDutyUpdateMillis ascending. A bucket nobody reported into yields an
	// empty slice.
	FindOnDutyPartners(ctx context.Context, bucket partner.DutyBucket) ([]partner.Candidate, error)

	// UpdatePartnerTimestamp sets the fairness timestamp of partnerID to
	// nextMillis only if it still equals expectedMillis. It reports false when
	// another writer got there first.
	UpdatePartnerTimestamp(
		ctx context.Context,
		bucket partner.DutyBucket,
		partnerID string,
		expectedMillis int64,
		nextMillis int64,
	) (bool, error)

	// SetPartnerDutyMode upserts the duty record of p.
	SetPartnerDutyMode(ctx context.Context, bucket partner.DutyBucket, p *partner.Partner) error

	// GetPartnerDuty returns errs.ObjectNotFoundError when the record is absent.
	GetPartnerDuty(ctx context.Context, bucket partner.DutyBucket, partnerID string) (*partner.Partner, error)

	RemovePartnerDuty(ctx context.Context, bucket partner.DutyBucket, partnerID string) error
}
