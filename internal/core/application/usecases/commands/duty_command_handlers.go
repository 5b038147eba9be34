package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/partner"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// DutyResult is the duty record of a partner after a duty change.
type DutyResult struct {
	PartnerID            string
	State                string
	District             string
	DutyMode             partner.DutyMode
	LastDutyUpdateMillis int64
	Moved                bool
}

func dutyResultOf(p *partner.Partner) DutyResult {
	return DutyResult{
		PartnerID:            p.ID(),
		State:                p.State(),
		District:             p.District(),
		DutyMode:             p.DutyMode(),
		LastDutyUpdateMillis: p.LastDutyUpdateMillis(),
	}
}

// dutyDesk loads the duty record of a partner in today's bucket of the area
// stored in their profile.
type dutyDesk struct {
	profiles  ports.PartnerProfiles
	directory ports.PartnerDirectory
	clock     ports.Clock
	logger    *zap.Logger
}

func (d dutyDesk) load(ctx context.Context, partnerID string) (*partner.Partner, partner.DutyBucket, error) {
	profile, err := d.profiles.GetProfile(ctx, partnerID)
	if err != nil {
		return nil, partner.DutyBucket{}, err
	}
	bucket, err := partner.NewDutyBucket(profile.State, profile.District, d.clock.Now())
	if err != nil {
		return nil, partner.DutyBucket{}, err
	}

	p, err := d.directory.GetPartnerDuty(ctx, bucket, partnerID)
	switch {
	case err == nil:
		return p, bucket, nil
	case errors.Is(err, errs.ErrObjectNotFound):
		p, err = partner.NewPartner(partnerID, profile.Name, profile.State, profile.District)
		if err != nil {
			return nil, partner.DutyBucket{}, err
		}
		return p, bucket, nil
	default:
		return nil, partner.DutyBucket{}, err
	}
}

type StartDutyCommandHandler struct {
	desk dutyDesk
}

func NewStartDutyCommandHandler(
	profiles ports.PartnerProfiles,
	directory ports.PartnerDirectory,
	clock ports.Clock,
	logger *zap.Logger,
) StartDutyCommandHandler {
	return StartDutyCommandHandler{desk: dutyDesk{profiles, directory, clock, orNopLogger(logger)}}
}

// Handle puts the partner on duty at the reported location. Starting again
// refreshes the location and the duty timestamp.
func (h StartDutyCommandHandler) Handle(ctx context.Context, cmd StartDutyCommand) (DutyResult, error) {
	if err := cmd.Validate(); err != nil {
		return DutyResult{}, err
	}

	p, bucket, err := h.desk.load(ctx, cmd.PartnerID())
	if err != nil {
		return DutyResult{}, err
	}
	if err := p.StartDuty(cmd.Location(), kernel.UnixMillis(h.desk.clock.Now())); err != nil {
		return DutyResult{}, err
	}
	if err := h.desk.directory.SetPartnerDutyMode(ctx, bucket, p); err != nil {
		return DutyResult{}, err
	}

	h.desk.logger.Info("partner on duty", zap.String("partner_id", p.ID()), zap.String("bucket", bucket.Key()))
	return dutyResultOf(p), nil
}

type EndDutyCommandHandler struct {
	desk dutyDesk
}

func NewEndDutyCommandHandler(
	profiles ports.PartnerProfiles,
	directory ports.PartnerDirectory,
	clock ports.Clock,
	logger *zap.Logger,
) EndDutyCommandHandler {
	return EndDutyCommandHandler{desk: dutyDesk{profiles, directory, clock, orNopLogger(logger)}}
}

func (h EndDutyCommandHandler) Handle(ctx context.Context, cmd EndDutyCommand) (DutyResult, error) {
	if err := cmd.Validate(); err != nil {
		return DutyResult{}, err
	}

	p, bucket, err := h.desk.load(ctx, cmd.PartnerID())
	if err != nil {
		return DutyResult{}, err
	}
	p.EndDuty(kernel.UnixMillis(h.desk.clock.Now()))
	if err := h.desk.directory.SetPartnerDutyMode(ctx, bucket, p); err != nil {
		return DutyResult{}, err
	}

	h.desk.logger.Info("partner off duty", zap.String("partner_id", p.ID()), zap.String("bucket", bucket.Key()))
	return dutyResultOf(p), nil
}

type UpdateDutyAreaCommandHandler struct {
	desk dutyDesk
}

func NewUpdateDutyAreaCommandHandler(
	profiles ports.PartnerProfiles,
	directory ports.PartnerDirectory,
	clock ports.Clock,
	logger *zap.Logger,
) UpdateDutyAreaCommandHandler {
	return UpdateDutyAreaCommandHandler{desk: dutyDesk{profiles, directory, clock, orNopLogger(logger)}}
}

// Handle moves the partner's duty record to the bucket of the new area and
// records the area in the profile. An unchanged area is a no-op.
func (h UpdateDutyAreaCommandHandler) Handle(ctx context.Context, cmd UpdateDutyAreaCommand) (DutyResult, error) {
	if err := cmd.Validate(); err != nil {
		return DutyResult{}, err
	}

	p, oldBucket, err := h.desk.load(ctx, cmd.PartnerID())
	if err != nil {
		return DutyResult{}, err
	}
	moved, err := p.MoveTo(cmd.State(), cmd.District())
	if err != nil {
		return DutyResult{}, err
	}
	if !moved {
		return dutyResultOf(p), nil
	}

	newBucket, err := p.Bucket(h.desk.clock.Now())
	if err != nil {
		return DutyResult{}, err
	}
	// The new record goes first so a failure never leaves the partner in no bucket.
	if err := h.desk.directory.SetPartnerDutyMode(ctx, newBucket, p); err != nil {
		return DutyResult{}, err
	}
	if err := h.desk.directory.RemovePartnerDuty(ctx, oldBucket, p.ID()); err != nil {
		return DutyResult{}, err
	}
	if err := h.desk.profiles.UpdateArea(ctx, p.ID(), cmd.State(), cmd.District()); err != nil {
		return DutyResult{}, err
	}

	h.desk.logger.Info("partner moved",
		zap.String("partner_id", p.ID()),
		zap.String("from", oldBucket.Key()),
		zap.String("to", newBucket.Key()))

	result := dutyResultOf(p)
	result.Moved = true
	return result, nil
}
