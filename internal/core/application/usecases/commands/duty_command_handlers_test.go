package commands_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/partner"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

func anuProfile() ports.PartnerProfile {
	return ports.PartnerProfile{ID: "dp-1", Name: "Anu", State: "kerala", District: "thiruvananthapuram"}
}

func TestStartAndEndDuty(t *testing.T) {
	ctx := t.Context()
	directory := memory.NewPartnerDirectory()
	profiles := new(MockPartnerProfiles)
	profiles.On("GetProfile", mock.Anything, "dp-1").Return(anuProfile(), nil)
	clock := fixedClock{at: now}

	// When
	start, err := commands.NewStartDutyCommand("dp-1", 8.51, 76.95)
	require.NoError(t, err)
	result, err := commands.NewStartDutyCommandHandler(profiles, directory, clock, nil).Handle(ctx, start)

	// Then
	require.NoError(t, err)
	assert.Equal(t, partner.DutyModeOn, result.DutyMode)
	assert.Equal(t, kernel.UnixMillis(now), result.LastDutyUpdateMillis)

	candidates, err := directory.FindOnDutyPartners(ctx, mustBucket(t))
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Anu", candidates[0].Name)

	// When
	end, err := commands.NewEndDutyCommand("dp-1")
	require.NoError(t, err)
	result, err = commands.NewEndDutyCommandHandler(profiles, directory, clock, nil).Handle(ctx, end)

	// Then
	require.NoError(t, err)
	assert.Equal(t, partner.DutyModeOff, result.DutyMode)
	candidates, err = directory.FindOnDutyPartners(ctx, mustBucket(t))
	require.NoError(t, err)
	assert.Empty(t, candidates)

	stored, err := directory.GetPartnerDuty(ctx, mustBucket(t), "dp-1")
	require.NoError(t, err)
	require.NotNil(t, stored.Location())
	assert.InDelta(t, 8.51, stored.Location().Lat(), 1e-9)
}

func TestStartDuty_UnknownPartner(t *testing.T) {
	profiles := new(MockPartnerProfiles)
	profiles.On("GetProfile", mock.Anything, "dp-9").
		Return(ports.PartnerProfile{}, errs.NewObjectNotFoundError("dp_id", "dp-9")).Once()

	cmd, err := commands.NewStartDutyCommand("dp-9", 8.51, 76.95)
	require.NoError(t, err)
	_, err = commands.NewStartDutyCommandHandler(profiles, memory.NewPartnerDirectory(), fixedClock{at: now}, nil).
		Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestUpdateDutyArea(t *testing.T) {
	ctx := t.Context()
	clock := fixedClock{at: now}

	t.Run("moves the duty record", func(t *testing.T) {
		// Given
		directory := memory.NewPartnerDirectory()
		profiles := new(MockPartnerProfiles)
		profiles.On("GetProfile", mock.Anything, "dp-1").Return(anuProfile(), nil)
		profiles.On("UpdateArea", mock.Anything, "dp-1", "kerala", "kollam").Return(nil).Once()

		start, err := commands.NewStartDutyCommand("dp-1", 8.51, 76.95)
		require.NoError(t, err)
		_, err = commands.NewStartDutyCommandHandler(profiles, directory, clock, nil).Handle(ctx, start)
		require.NoError(t, err)

		// When
		cmd, err := commands.NewUpdateDutyAreaCommand("dp-1", "kerala", "kollam")
		require.NoError(t, err)
		result, err := commands.NewUpdateDutyAreaCommandHandler(profiles, directory, clock, nil).Handle(ctx, cmd)

		// Then
		require.NoError(t, err)
		assert.True(t, result.Moved)

		_, err = directory.GetPartnerDuty(ctx, mustBucket(t), "dp-1")
		require.ErrorIs(t, err, errs.ErrObjectNotFound)

		kollam, err := partner.NewDutyBucket("kerala", "kollam", now)
		require.NoError(t, err)
		moved, err := directory.GetPartnerDuty(ctx, kollam, "dp-1")
		require.NoError(t, err)
		assert.Equal(t, partner.DutyModeOn, moved.DutyMode())
		profiles.AssertExpectations(t)
	})

	t.Run("failed write keeps the old record", func(t *testing.T) {
		// Given
		onDuty, err := partner.NewPartner("dp-1", "Anu", "kerala", "thiruvananthapuram")
		require.NoError(t, err)
		require.NoError(t, onDuty.StartDuty(kernel.MustNewLocation(8.51, 76.95), 1000))

		profiles := new(MockPartnerProfiles)
		profiles.On("GetProfile", mock.Anything, "dp-1").Return(anuProfile(), nil)
		directory := new(MockPartnerDirectory)
		directory.On("GetPartnerDuty", mock.Anything, mustBucket(t), "dp-1").Return(onDuty, nil).Once()
		directory.On("SetPartnerDutyMode", mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("directory unavailable")).Once()

		// When
		cmd, err := commands.NewUpdateDutyAreaCommand("dp-1", "kerala", "kollam")
		require.NoError(t, err)
		_, err = commands.NewUpdateDutyAreaCommandHandler(profiles, directory, clock, nil).Handle(ctx, cmd)

		// Then
		require.Error(t, err)
		directory.AssertNotCalled(t, "RemovePartnerDuty", mock.Anything, mock.Anything, mock.Anything)
		profiles.AssertNotCalled(t, "UpdateArea", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		directory.AssertExpectations(t)
	})

	t.Run("same area is a no-op", func(t *testing.T) {
		// Given
		profiles := new(MockPartnerProfiles)
		profiles.On("GetProfile", mock.Anything, "dp-1").Return(anuProfile(), nil)

		// When
		cmd, err := commands.NewUpdateDutyAreaCommand("dp-1", "kerala", "thiruvananthapuram")
		require.NoError(t, err)
		result, err := commands.NewUpdateDutyAreaCommandHandler(profiles, memory.NewPartnerDirectory(), clock, nil).Handle(ctx, cmd)

		// Then
		require.NoError(t, err)
		assert.False(t, result.Moved)
		profiles.AssertNotCalled(t, "UpdateArea", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestNewDutyCommands(t *testing.T) {
	_, err := commands.NewStartDutyCommand("", 200, 0)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = commands.NewEndDutyCommand(" ")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = commands.NewUpdateDutyAreaCommand("dp-1", "", "kollam")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	var zero commands.StartDutyCommand
	require.ErrorIs(t, zero.Validate(), commands.ErrStartDutyCommandIsNotConstructed)
}
