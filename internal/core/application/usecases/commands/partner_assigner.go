package commands

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/partner"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// partnerAssigner runs the engine over a directory snapshot and claims the
// selected partner by resetting its fairness timestamp.
type partnerAssigner struct {
	directory ports.PartnerDirectory
	engine    services.AssignmentEngine
	locker    ports.Locker
	clock     ports.Clock
	timeout   time.Duration
	logger    *zap.Logger
}

// assign returns services.ErrNoPartnerAvailable, possibly joined with the
// directory error that caused it, when nobody can be claimed.
func (a partnerAssigner) assign(
	ctx context.Context,
	shop kernel.Location,
	bucket partner.DutyBucket,
	policy services.RadiusPolicy,
) (services.Selection, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	candidates, err := a.directory.FindOnDutyPartners(ctx, bucket)
	if err != nil {
		a.logger.Warn("partner directory unavailable", zap.String("bucket", bucket.Key()), zap.Error(err))
		return services.Selection{}, fmt.Errorf("%w: %w", services.ErrNoPartnerAvailable, err)
	}

	for range len(candidates) {
		selection, err := a.engine.Select(shop, candidates, policy)
		if err != nil {
			return services.Selection{}, err
		}

		won, err := a.claim(ctx, bucket, selection)
		if err != nil {
			a.logger.Warn("partner claim failed", zap.String("partner_id", selection.PartnerID), zap.Error(err))
			return services.Selection{}, fmt.Errorf("%w: %w", services.ErrNoPartnerAvailable, err)
		}
		if won {
			return selection, nil
		}

		a.logger.Debug("partner claimed concurrently, selecting again", zap.String("partner_id", selection.PartnerID))
		candidates = services.Without(candidates, selection.PartnerID)
	}

	return services.Selection{}, services.ErrNoPartnerAvailable
}

func (a partnerAssigner) claim(ctx context.Context, bucket partner.DutyBucket, s services.Selection) (bool, error) {
	release, err := a.locker.Lock(ctx, "partner:"+s.PartnerID)
	if err != nil {
		return false, err
	}
	defer release()

	next := max(kernel.UnixMillis(a.clock.Now()), s.PreviousDutyMillis+1)
	return a.directory.UpdatePartnerTimestamp(ctx, bucket, s.PartnerID, s.PreviousDutyMillis, next)
}
