package partner_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/partner"
	"dispatch/internal/pkg/errs"
)

func TestParseDutyMode(t *testing.T) {
	mode, err := partner.ParseDutyMode("on_duty")
	require.NoError(t, err)
	assert.Equal(t, partner.DutyModeOn, mode)
	assert.Equal(t, "on_duty", mode.String())

	mode, err = partner.ParseDutyMode("off_duty")
	require.NoError(t, err)
	assert.False(t, mode.IsOnDuty())

	_, err = partner.ParseDutyMode("ON_DUTY")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewDutyBucket(t *testing.T) {
	day := time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)

	t.Run("normalises the key", func(t *testing.T) {
		b, err := partner.NewDutyBucket(" Kerala", "ERNAKULAM ", day)

		require.NoError(t, err)
		require.NoError(t, b.Validate())
		assert.Equal(t, "kerala", b.State())
		assert.Equal(t, "ernakulam", b.District())
		assert.Equal(t, "14OCT2026", b.Date())
	})

	t.Run("requires state and district", func(t *testing.T) {
		_, err := partner.NewDutyBucket("", "", day)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "state")
		assert.Contains(t, err.Error(), "district")
	})

	t.Run("zero value is invalid", func(t *testing.T) {
		var b partner.DutyBucket

		require.ErrorIs(t, b.Validate(), partner.ErrDutyBucketIsNotConstructed)
	})
}
