package assets

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestMonthsElapsed(t *testing.T) {
	purchase := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		asOf time.Time
		want int
	}{
		{"same day", purchase, 0},
		{"before a full month", time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC), 0},
		{"exactly one month", time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC), 1},
		{"one year later", time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), 12},
		{"future purchase", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MonthsElapsed(purchase, tt.asOf))
		})
	}
}

func TestComputeStraightLine(t *testing.T) {
	in := DepreciationInput{
		PurchaseCost:    dec("12000"),
		SalvageValue:    decimal.Zero,
		UsefulLifeYears: 1,
		Method:          MethodStraightLine,
		PurchaseDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	t.Run("monthly proration", func(t *testing.T) {
		accumulated, bookValue, err := Compute(in, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, "3000.00", accumulated.StringFixed(2))
		assert.Equal(t, "9000.00", bookValue.StringFixed(2))
	})

	t.Run("fully depreciated after life", func(t *testing.T) {
		accumulated, bookValue, err := Compute(in, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, "12000.00", accumulated.StringFixed(2))
		assert.Equal(t, "0.00", bookValue.StringFixed(2))
	})

	t.Run("zero before purchase date", func(t *testing.T) {
		accumulated, bookValue, err := Compute(in, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.True(t, accumulated.IsZero())
		assert.Equal(t, "12000.00", bookValue.StringFixed(2))
	})
}

func TestComputeDoubleDeclining(t *testing.T) {
	// cost 10000, salvage 1000, life 5 -> year-1 4000, year-2 2400
	in := DepreciationInput{
		PurchaseCost:    dec("10000"),
		SalvageValue:    dec("1000"),
		UsefulLifeYears: 5,
		Method:          MethodDoubleDeclining,
		PurchaseDate:    time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	t.Run("first year", func(t *testing.T) {
		accumulated, bookValue, err := Compute(in, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, "4000.00", accumulated.StringFixed(2))
		assert.Equal(t, "6000.00", bookValue.StringFixed(2))
	})

	t.Run("second year", func(t *testing.T) {
		accumulated, _, err := Compute(in, time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, "6400.00", accumulated.StringFixed(2))
	})

	t.Run("partial year prorates", func(t *testing.T) {
		// 6 months into year 1: 4000 * 6/12 = 2000
		accumulated, _, err := Compute(in, time.Date(2020, 7, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, "2000.00", accumulated.StringFixed(2))
	})

	t.Run("salvage floor holds far in the future", func(t *testing.T) {
		accumulated, bookValue, err := Compute(in, time.Date(2060, 1, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, "9000.00", accumulated.StringFixed(2))
		assert.Equal(t, "1000.00", bookValue.StringFixed(2))
	})
}

func TestComputeDecliningBalanceRate(t *testing.T) {
	in := DepreciationInput{
		PurchaseCost:    dec("10000"),
		SalvageValue:    decimal.Zero,
		UsefulLifeYears: 5,
		Method:          MethodDecliningBalance,
		PurchaseDate:    time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	// rate 1.5/5 = 0.3 -> year-1 3000
	accumulated, _, err := Compute(in, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "3000.00", accumulated.StringFixed(2))
}

func TestComputeUnknownMethodDefaultsToStraightLine(t *testing.T) {
	in := DepreciationInput{
		PurchaseCost:    dec("1200"),
		SalvageValue:    decimal.Zero,
		UsefulLifeYears: 1,
		Method:          DepreciationMethod(""),
		PurchaseDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	accumulated, _, err := Compute(in, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "100.00", accumulated.StringFixed(2))
}

func TestComputeValidation(t *testing.T) {
	base := DepreciationInput{
		PurchaseCost:    dec("1000"),
		SalvageValue:    decimal.Zero,
		UsefulLifeYears: 5,
		Method:          MethodStraightLine,
		PurchaseDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	asOf := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("negative cost", func(t *testing.T) {
		in := base
		in.PurchaseCost = dec("-5")
		_, _, err := Compute(in, asOf)
		assert.Error(t, err)
	})

	t.Run("salvage above cost", func(t *testing.T) {
		in := base
		in.SalvageValue = dec("2000")
		_, _, err := Compute(in, asOf)
		assert.Error(t, err)
	})

	t.Run("zero life", func(t *testing.T) {
		in := base
		in.UsefulLifeYears = 0
		_, _, err := Compute(in, asOf)
		assert.Error(t, err)
	})
}

func TestGenerateScheduleStraightLine(t *testing.T) {
	// cost 12000, salvage 0, life 1 year -> 1000.00 for 12 periods
	in := DepreciationInput{
		PurchaseCost:    dec("12000"),
		SalvageValue:    decimal.Zero,
		UsefulLifeYears: 1,
		Method:          MethodStraightLine,
		PurchaseDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	schedule, err := GenerateSchedule(in)
	require.NoError(t, err)
	require.Len(t, schedule, 12)

	for i, entry := range schedule {
		assert.Equal(t, i+1, entry.Period)
		assert.Equal(t, "1000.00", entry.Amount.StringFixed(2), "period %d", i+1)
	}
	last := schedule[len(schedule)-1]
	assert.Equal(t, "0.00", last.BookValue.StringFixed(2))
	assert.Equal(t, "12000.00", last.Accumulated.StringFixed(2))
}

func TestGenerateScheduleStopsAtSalvage(t *testing.T) {
	in := DepreciationInput{
		PurchaseCost:    dec("10000"),
		SalvageValue:    dec("1000"),
		UsefulLifeYears: 5,
		Method:          MethodDoubleDeclining,
		PurchaseDate:    time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	schedule, err := GenerateSchedule(in)
	require.NoError(t, err)
	require.NotEmpty(t, schedule)

	last := schedule[len(schedule)-1]
	assert.Equal(t, "1000.00", last.BookValue.StringFixed(2))
	assert.Equal(t, "9000.00", last.Accumulated.StringFixed(2))
	assert.LessOrEqual(t, len(schedule), 60)

	// schedule amounts sum to the depreciable amount
	total := decimal.Zero
	for _, entry := range schedule {
		total = total.Add(entry.Amount)
		assert.True(t, entry.BookValue.GreaterThanOrEqual(in.SalvageValue),
			"book value below salvage in period %d", entry.Period)
	}
	assert.Equal(t, "9000.00", total.StringFixed(2))
}

func TestScheduleIteratorRestartable(t *testing.T) {
	in := DepreciationInput{
		PurchaseCost:    dec("1200"),
		SalvageValue:    decimal.Zero,
		UsefulLifeYears: 1,
		Method:          MethodStraightLine,
		PurchaseDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	it, err := NewScheduleIterator(in)
	require.NoError(t, err)

	first, ok := it.Next()
	require.True(t, ok)

	it.Reset()
	again, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, first.Period, again.Period)
	assert.True(t, first.Amount.Equal(again.Amount))
}
