package services

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/partner"
)

var ErrNoPartnerAvailable = errors.New("no partner available nearby")

// RadiusPolicy is the pair of search radii in kilometres. The secondary
// radius is only searched when the primary one holds no candidate.
type RadiusPolicy struct {
	Primary   float64
	Secondary float64
}

var (
	// ShopBrowsePolicy applies to orders placed from a chosen shop.
	ShopBrowsePolicy = RadiusPolicy{Primary: 5, Secondary: 10}
	// StorePreferencePolicy applies to voice orders.
	StorePreferencePolicy = RadiusPolicy{Primary: 2.5, Secondary: 5}
)

// PolicyFor returns the radius policy of an order type.
func PolicyFor(t order.Type) RadiusPolicy {
	if t == order.TypeStorePreference {
		return StorePreferencePolicy
	}
	return ShopBrowsePolicy
}

// Selection is the partner chosen for an order.
type Selection struct {
	PartnerID          string
	Name               string
	Location           kernel.Location
	DistanceToShopKm   float64
	PreviousDutyMillis int64
}

// AssignmentEngine selects partners. It is stateless.
type AssignmentEngine struct{}

func NewAssignmentEngine() AssignmentEngine {
	return AssignmentEngine{}
}

// Select returns the candidate within the primary radius of shop whose duty
// timestamp is the oldest, falling back to the secondary radius on the same
// snapshot. Distance only decides eligibility; ties on the timestamp keep
// directory order. Candidates without a location are skipped.
func (e AssignmentEngine) Select(shop kernel.Location, candidates []partner.Candidate, policy RadiusPolicy) (Selection, error) {
	if err := shop.Validate(); err != nil {
		return Selection{}, err
	}

	measured := e.measure(shop, candidates, policy.Secondary)

	if best, ok := oldestWithin(measured, policy.Primary); ok {
		return best, nil
	}
	if best, ok := oldestWithin(measured, policy.Secondary); ok {
		return best, nil
	}
	return Selection{}, ErrNoPartnerAvailable
}

// measure computes the distance of every usable candidate, dropping those
// outside maxRadius. A stored geohash lets far candidates be dropped without
// computing the distance.
func (e AssignmentEngine) measure(shop kernel.Location, candidates []partner.Candidate, maxRadius float64) []Selection {
	cells, precision := kernel.CoarseCells(shop, maxRadius)

	measured := make([]Selection, 0, len(candidates))
	for _, c := range candidates {
		if !c.HasLocation() {
			continue
		}
		if precision > 0 && c.Geohash != "" && !kernel.InCells(c.Geohash, cells, precision) {
			continue
		}

		d := kernel.Haversine(*c.Location, shop)
		if d > maxRadius {
			continue
		}
		measured = append(measured, Selection{
			PartnerID:          c.ID,
			Name:               c.Name,
			Location:           *c.Location,
			DistanceToShopKm:   d,
			PreviousDutyMillis: c.LastDutyUpdateMillis,
		})
	}
	return measured
}

func oldestWithin(measured []Selection, radius float64) (Selection, bool) {
	var (
		best  Selection
		found bool
	)
	for _, s := range measured {
		if s.DistanceToShopKm > radius {
			continue
		}
		if !found || s.PreviousDutyMillis < best.PreviousDutyMillis {
			best = s
			found = true
		}
	}
	return best, found
}

// Without returns candidates minus the partner with id.
func Without(candidates []partner.Candidate, id string) []partner.Candidate {
	out := make([]partner.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}
