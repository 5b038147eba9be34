package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/partner"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var dutyNow = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

type MockPartnerProfiles struct {
	mock.Mock
}

func (m *MockPartnerProfiles) GetProfile(ctx context.Context, partnerID string) (ports.PartnerProfile, error) {
	args := m.Called(ctx, partnerID)
	return args.Get(0).(ports.PartnerProfile), args.Error(1)
}

func (m *MockPartnerProfiles) UpdateArea(ctx context.Context, partnerID string, state string, district string) error {
	args := m.Called(ctx, partnerID, state, district)
	return args.Error(0)
}

func TestGetDutyStatusQueryHandler_Handle(t *testing.T) {
	arun := ports.PartnerProfile{ID: "dp-1", Name: "Arun", State: "kerala", District: "thiruvananthapuram"}
	query, err := queries.NewGetDutyStatusQuery("dp-1")
	require.NoError(t, err)

	t.Run("on_duty_partner", func(t *testing.T) {
		// Given
		profiles := new(MockPartnerProfiles)
		profiles.On("GetProfile", mock.Anything, "dp-1").Return(arun, nil).Once()
		directory := memory.NewPartnerDirectory()
		p, err := partner.NewPartner("dp-1", "Arun", arun.State, arun.District)
		require.NoError(t, err)
		require.NoError(t, p.StartDuty(kernel.MustNewLocation(8.5, 76.95), kernel.UnixMillis(dutyNow)))
		bucket, err := partner.NewDutyBucket(arun.State, arun.District, dutyNow)
		require.NoError(t, err)
		require.NoError(t, directory.SetPartnerDutyMode(t.Context(), bucket, p))

		handler := queries.NewGetDutyStatusQueryHandler(profiles, directory, fixedClock{dutyNow})

		// When
		status, err := handler.Handle(t.Context(), query)

		// Then
		require.NoError(t, err)
		assert.True(t, status.HasData)
		assert.Equal(t, partner.DutyModeOn, status.DutyMode)
		assert.Equal(t, kernel.UnixMillis(dutyNow), status.LastDutyUpdateMillis)
		assert.Equal(t, "Duty status for Arun fetched successfully.", status.Message)
		profiles.AssertExpectations(t)
	})

	t.Run("no_record_today", func(t *testing.T) {
		profiles := new(MockPartnerProfiles)
		profiles.On("GetProfile", mock.Anything, "dp-1").Return(arun, nil).Once()
		handler := queries.NewGetDutyStatusQueryHandler(profiles, memory.NewPartnerDirectory(), fixedClock{dutyNow})

		status, err := handler.Handle(t.Context(), query)

		require.NoError(t, err)
		assert.False(t, status.HasData)
		assert.Equal(t, queries.MessageDutyStatusUnavailable, status.Message)
	})

	t.Run("unknown_partner", func(t *testing.T) {
		profiles := new(MockPartnerProfiles)
		profiles.On("GetProfile", mock.Anything, "dp-1").
			Return(ports.PartnerProfile{}, errs.NewObjectNotFoundError("dp_id", "dp-1")).Once()
		handler := queries.NewGetDutyStatusQueryHandler(profiles, memory.NewPartnerDirectory(), fixedClock{dutyNow})

		status, err := handler.Handle(t.Context(), query)

		require.NoError(t, err)
		assert.False(t, status.HasData)
	})

	t.Run("profile_store_failure", func(t *testing.T) {
		boom := errors.New("firestore unavailable")
		profiles := new(MockPartnerProfiles)
		profiles.On("GetProfile", mock.Anything, "dp-1").Return(ports.PartnerProfile{}, boom).Once()
		handler := queries.NewGetDutyStatusQueryHandler(profiles, memory.NewPartnerDirectory(), fixedClock{dutyNow})

		_, err := handler.Handle(t.Context(), query)

		require.ErrorIs(t, err, boom)
	})
}
