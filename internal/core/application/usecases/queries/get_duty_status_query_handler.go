package queries

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/partner"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// GetDutyStatusQueryHandler looks up the partner profile for the duty area,
// then reads today's duty record of that area.
//
// Example:
//
//	handler := NewGetDutyStatusQueryHandler(profiles, directory, clock)
//	query, _ := NewGetDutyStatusQuery("dp-1")
//
//	status, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	if !status.HasData {
//	    fmt.Println(status.Message)
//	}
type GetDutyStatusQueryHandler struct {
	profiles  ports.PartnerProfiles
	directory ports.PartnerDirectory
	clock     ports.Clock
}

func NewGetDutyStatusQueryHandler(
	profiles ports.PartnerProfiles,
	directory ports.PartnerDirectory,
	clock ports.Clock,
) GetDutyStatusQueryHandler {
	return GetDutyStatusQueryHandler{profiles: profiles, directory: directory, clock: clock}
}

// Handle treats a missing profile or duty record as "no data". Other store
// failures are returned.
func (h GetDutyStatusQueryHandler) Handle(
	ctx context.Context,
	query GetDutyStatusQuery,
) (GetDutyStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDutyStatusQueryResponse{}, err
	}

	unavailable := GetDutyStatusQueryResponse{Message: MessageDutyStatusUnavailable}

	profile, err := h.profiles.GetProfile(ctx, query.PartnerID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return unavailable, nil
	}
	if err != nil {
		return GetDutyStatusQueryResponse{}, err
	}

	bucket, err := partner.NewDutyBucket(profile.State, profile.District, h.clock.Now())
	if err != nil {
		return unavailable, nil //nolint:nilerr // a profile without an area has no duty record
	}

	p, err := h.directory.GetPartnerDuty(ctx, bucket, query.PartnerID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return unavailable, nil
	}
	if err != nil {
		return GetDutyStatusQueryResponse{}, err
	}

	name := p.Name()
	if name == "" {
		name = profile.Name
	}
	return GetDutyStatusQueryResponse{
		HasData:              true,
		DutyMode:             p.DutyMode(),
		LastDutyUpdateMillis: p.LastDutyUpdateMillis(),
		Message:              fmt.Sprintf(dutyStatusFetchedFormat, name),
	}, nil
}
