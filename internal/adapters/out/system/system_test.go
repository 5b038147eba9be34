package system_test

import (
	"regexp"
	"testing"
	"time"

	"dispatch/internal/adapters/out/system"
	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDGenerator_NewOrderID(t *testing.T) {
	at := time.Date(2026, 10, 14, 9, 30, 5, 0, time.UTC)
	gen := system.IDGenerator{}

	id, err := gen.NewOrderID(order.TypeShopBrowse, at)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^ORDOBS20261014093005[0-9A-F]{8}$`), id.String())

	other, err := gen.NewOrderID(order.TypeShopBrowse, at)
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

func TestIDGenerator_RejectsUnknownType(t *testing.T) {
	_, err := system.IDGenerator{}.NewOrderID(order.Type("xyz"), time.Now())
	require.Error(t, err)
}

func TestClock_Now(t *testing.T) {
	before := time.Now()
	now := system.Clock{}.Now()
	assert.False(t, now.Before(before))
}
