package payroll

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestCommission(t *testing.T, rate, serviceAmount string) *Commission {
	t.Helper()
	c, err := NewCommission(uuid.New(), uuid.New(), uuid.New(), uuid.New(), dec(rate), dec(serviceAmount))
	require.NoError(t, err)
	return c
}

func TestCommissionAmount(t *testing.T) {
	tests := []struct {
		serviceAmount string
		rate          string
		want          string
	}{
		{"1000.00", "10", "100.00"},
		{"333.33", "15", "50.00"},  // 49.9995 rounds half-up
		{"100.00", "12.5", "12.50"},
		{"0.00", "10", "0.00"},
	}

	for _, tt := range tests {
		got := CommissionAmount(dec(tt.serviceAmount), dec(tt.rate))
		assert.Equal(t, tt.want, got.StringFixed(2), "%s at %s%%", tt.serviceAmount, tt.rate)
	}
}

func TestNewCommission(t *testing.T) {
	t.Run("computes amount on creation", func(t *testing.T) {
		c := newTestCommission(t, "10", "1000.00")
		assert.Equal(t, CommissionStatusAvailable, c.Status)
		assert.Equal(t, "100.00", c.Amount.StringFixed(2))
	})

	t.Run("rejects negative rate", func(t *testing.T) {
		_, err := NewCommission(uuid.New(), uuid.New(), uuid.New(), uuid.New(), dec("-1"), dec("100"))
		assert.Error(t, err)
	})

	t.Run("rejects empty employee", func(t *testing.T) {
		_, err := NewCommission(uuid.Nil, uuid.New(), uuid.New(), uuid.New(), dec("10"), dec("100"))
		assert.Error(t, err)
	})
}

func TestCommissionRecalculate(t *testing.T) {
	c := newTestCommission(t, "10", "1000.00")

	// a stale amount is overwritten from the snapshots
	c.Amount = dec("999.99")
	c.Recalculate()
	assert.Equal(t, "100.00", c.Amount.StringFixed(2))
}

func TestCommissionStatusTransitions(t *testing.T) {
	tests := []struct {
		from    CommissionStatus
		to      CommissionStatus
		allowed bool
	}{
		{CommissionStatusAvailable, CommissionStatusPayable, true},
		{CommissionStatusAvailable, CommissionStatusCancelled, true},
		{CommissionStatusAvailable, CommissionStatusPaid, false},
		{CommissionStatusPayable, CommissionStatusPaid, true},
		{CommissionStatusPayable, CommissionStatusCancelled, true},
		{CommissionStatusPayable, CommissionStatusAvailable, false},
		{CommissionStatusPaid, CommissionStatusCancelled, false},
		{CommissionStatusCancelled, CommissionStatusAvailable, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestCommissionLifecycle(t *testing.T) {
	c := newTestCommission(t, "10", "1000.00")

	require.NoError(t, c.MarkPayable())
	assert.Equal(t, CommissionStatusPayable, c.Status)

	paidAt := time.Now()
	require.NoError(t, c.MarkPaid(paidAt))
	assert.Equal(t, CommissionStatusPaid, c.Status)
	require.NotNil(t, c.PaidAt)

	assert.Error(t, c.Cancel(), "paid is terminal")
}

func TestCommissionCancelFromAvailable(t *testing.T) {
	c := newTestCommission(t, "10", "1000.00")
	require.NoError(t, c.Cancel())
	assert.Error(t, c.MarkPayable())
}

func TestResolveRate(t *testing.T) {
	employeeID := uuid.New()
	variantID := uuid.New()
	otherVariantID := uuid.New()

	defaultRate, err := NewCommissionRate(employeeID, nil, dec("5"))
	require.NoError(t, err)
	variantRate, err := NewCommissionRate(employeeID, &variantID, dec("12"))
	require.NoError(t, err)

	t.Run("variant-specific wins over default", func(t *testing.T) {
		got := ResolveRate([]CommissionRate{*defaultRate, *variantRate}, variantID)
		require.NotNil(t, got)
		assert.Equal(t, "12", got.Rate.String())
	})

	t.Run("falls back to default", func(t *testing.T) {
		got := ResolveRate([]CommissionRate{*defaultRate, *variantRate}, otherVariantID)
		require.NotNil(t, got)
		assert.Equal(t, "5", got.Rate.String())
	})

	t.Run("no rate means no commission", func(t *testing.T) {
		got := ResolveRate([]CommissionRate{*variantRate}, otherVariantID)
		assert.Nil(t, got)
	})

	t.Run("inactive rates are skipped", func(t *testing.T) {
		inactive := *variantRate
		require.NoError(t, inactive.Deactivate())
		got := ResolveRate([]CommissionRate{inactive, *defaultRate}, variantID)
		require.NotNil(t, got)
		assert.Equal(t, "5", got.Rate.String())
	})
}

func TestNewCommissionRateValidation(t *testing.T) {
	_, err := NewCommissionRate(uuid.Nil, nil, dec("5"))
	assert.Error(t, err)

	_, err = NewCommissionRate(uuid.New(), nil, dec("120"))
	assert.Error(t, err)

	_, err = NewCommissionRate(uuid.New(), nil, dec("-1"))
	assert.Error(t, err)
}
