package kernel_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"dispatch/internal/core/domain/model/kernel"
)

func TestDutyDate(t *testing.T) {
	day := time.Date(2026, time.October, 14, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, "14OCT2026", kernel.DutyDate(day))
	assert.Equal(t, "03JAN2027", kernel.DutyDate(time.Date(2027, time.January, 3, 0, 0, 0, 0, time.UTC)))
}

func TestDisplayTime(t *testing.T) {
	at := time.Date(2026, time.October, 14, 17, 21, 9, 0, time.UTC)

	assert.Equal(t, "14-Oct-2026 05:21:09 PM", kernel.DisplayTime(at))
}

func TestUnixMillis(t *testing.T) {
	at := time.Date(2026, time.October, 14, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, at.UnixMilli(), kernel.UnixMillis(at))
}
