package docviews

import (
	"context"
	"strings"

	"dispatch/internal/core/domain/model/view"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// PartnerProfiles reads and updates DeliveryPartners/{dp}.
type PartnerProfiles struct {
	store ports.DocumentStore
}

var _ ports.PartnerProfiles = (*PartnerProfiles)(nil)

func NewPartnerProfiles(store ports.DocumentStore) *PartnerProfiles {
	return &PartnerProfiles{store: store}
}

func (p *PartnerProfiles) GetProfile(ctx context.Context, partnerID string) (ports.PartnerProfile, error) {
	doc, ok, err := p.store.Get(ctx, view.Partner(partnerID))
	if err != nil {
		return ports.PartnerProfile{}, err
	}
	if !ok {
		return ports.PartnerProfile{}, errs.NewObjectNotFoundError("dp_id", partnerID)
	}
	return ports.PartnerProfile{
		ID:       partnerID,
		Name:     doc.String(fieldProfileName),
		State:    strings.ToLower(doc.String(fieldProfileState)),
		District: strings.ToLower(doc.String(fieldProfileDistrict)),
	}, nil
}

// UpdateArea merges the new duty area into the profile.
func (p *PartnerProfiles) UpdateArea(ctx context.Context, partnerID string, state string, district string) error {
	return p.store.Set(ctx, view.Partner(partnerID), view.Document{
		fieldProfileState:    strings.ToLower(strings.TrimSpace(state)),
		fieldProfileDistrict: strings.ToLower(strings.TrimSpace(district)),
	}, true)
}
