package assets

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/timax/backend/internal/domain/shared"
)

// DepreciationMethod selects how an asset's cost is spread over its life
type DepreciationMethod string

const (
	// MethodStraightLine spreads the depreciable amount evenly per month
	MethodStraightLine DepreciationMethod = "STRAIGHT_LINE"
	// MethodDoubleDeclining applies 2/life of remaining book value per year
	MethodDoubleDeclining DepreciationMethod = "DOUBLE_DECLINING"
	// MethodDecliningBalance applies 1.5/life of remaining book value per year
	MethodDecliningBalance DepreciationMethod = "DECLINING_BALANCE"
)

// IsValid checks if the method is a valid DepreciationMethod
func (m DepreciationMethod) IsValid() bool {
	switch m {
	case MethodStraightLine, MethodDoubleDeclining, MethodDecliningBalance:
		return true
	}
	return false
}

// String returns the string representation of DepreciationMethod
func (m DepreciationMethod) String() string {
	return string(m)
}

// annualRateNumerator returns the declining-balance factor, zero for
// straight line
func (m DepreciationMethod) annualRateNumerator() decimal.Decimal {
	switch m {
	case MethodDoubleDeclining:
		return decimal.NewFromInt(2)
	case MethodDecliningBalance:
		return decimal.NewFromFloat(1.5)
	}
	return decimal.Zero
}

// DepreciationInput carries the financial parameters of one asset.
// It is a snapshot: the calculator never reads the asset record.
type DepreciationInput struct {
	PurchaseCost    decimal.Decimal
	SalvageValue    decimal.Decimal
	UsefulLifeYears int
	Method          DepreciationMethod
	PurchaseDate    time.Time
}

// Validate checks the input parameters
func (in DepreciationInput) Validate() error {
	if in.PurchaseCost.IsNegative() || in.PurchaseCost.IsZero() {
		return shared.NewDomainError("INVALID_COST", "Purchase cost must be positive")
	}
	if in.SalvageValue.IsNegative() {
		return shared.NewDomainError("INVALID_SALVAGE", "Salvage value cannot be negative")
	}
	if in.SalvageValue.GreaterThan(in.PurchaseCost) {
		return shared.NewDomainError("INVALID_SALVAGE", "Salvage value cannot exceed purchase cost")
	}
	if in.UsefulLifeYears < 1 {
		return shared.NewDomainError("INVALID_USEFUL_LIFE", "Useful life must be at least one year")
	}
	if in.PurchaseDate.IsZero() {
		return shared.NewDomainError("INVALID_PURCHASE_DATE", "Purchase date cannot be empty")
	}
	return nil
}

// DepreciableAmount returns cost minus salvage
func (in DepreciationInput) DepreciableAmount() decimal.Decimal {
	return in.PurchaseCost.Sub(in.SalvageValue)
}

// method returns the effective method, defaulting unknown values to
// straight line
func (in DepreciationInput) method() DepreciationMethod {
	if in.Method.IsValid() {
		return in.Method
	}
	return MethodStraightLine
}

// MonthsElapsed counts whole months between the purchase date and asOf.
// A month only counts once the same day-of-month has been reached.
// Never negative.
func MonthsElapsed(purchaseDate, asOf time.Time) int {
	months := (asOf.Year()-purchaseDate.Year())*12 + int(asOf.Month()) - int(purchaseDate.Month())
	if asOf.Day() < purchaseDate.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// Compute returns (accumulated depreciation, book value) as of a date.
// Results are clamped so accumulated never exceeds cost minus salvage
// and book value never drops below salvage, then rounded half-up to
// two decimal places.
func Compute(in DepreciationInput, asOf time.Time) (decimal.Decimal, decimal.Decimal, error) {
	if err := in.Validate(); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	months := MonthsElapsed(in.PurchaseDate, asOf)
	accumulated := accumulatedAfterMonths(in, months)
	bookValue := in.PurchaseCost.Sub(accumulated)

	return accumulated, bookValue, nil
}

// accumulatedAfterMonths computes unclamped-input accumulated
// depreciation for a whole number of elapsed months, clamped to the
// depreciable amount and rounded to 2dp.
func accumulatedAfterMonths(in DepreciationInput, months int) decimal.Decimal {
	if months <= 0 {
		return decimal.Zero
	}

	depreciable := in.DepreciableAmount()
	totalMonths := in.UsefulLifeYears * 12
	if months > totalMonths {
		months = totalMonths
	}

	var accumulated decimal.Decimal
	if in.method() == MethodStraightLine {
		accumulated = depreciable.
			Mul(decimal.NewFromInt(int64(months))).
			Div(decimal.NewFromInt(int64(totalMonths)))
	} else {
		accumulated = decliningAccumulated(in, months)
	}

	if accumulated.GreaterThan(depreciable) {
		accumulated = depreciable
	}
	return accumulated.Round(2)
}

// decliningAccumulated walks the declining-balance years. Each year
// depreciates rate * remaining book value, capped at the salvage
// floor; a partial final year prorates by elapsed months within it.
func decliningAccumulated(in DepreciationInput, months int) decimal.Decimal {
	rate := in.method().annualRateNumerator().Div(decimal.NewFromInt(int64(in.UsefulLifeYears)))
	floor := in.SalvageValue

	accumulated := decimal.Zero
	bookValue := in.PurchaseCost
	remaining := months

	for year := 0; year < in.UsefulLifeYears && remaining > 0; year++ {
		yearAmount := bookValue.Mul(rate)
		if bookValue.Sub(yearAmount).LessThan(floor) {
			yearAmount = bookValue.Sub(floor)
		}
		if yearAmount.IsNegative() {
			yearAmount = decimal.Zero
		}

		monthsThisYear := remaining
		if monthsThisYear > 12 {
			monthsThisYear = 12
		}
		if monthsThisYear < 12 {
			yearAmount = yearAmount.
				Mul(decimal.NewFromInt(int64(monthsThisYear))).
				Div(decimal.NewFromInt(12))
		}

		accumulated = accumulated.Add(yearAmount)
		bookValue = in.PurchaseCost.Sub(accumulated)
		remaining -= monthsThisYear
	}

	return accumulated
}

// ScheduleEntry is one month of a depreciation schedule
type ScheduleEntry struct {
	Period      int             `json:"period"` // 1-based month index
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Accumulated decimal.Decimal `json:"accumulated"`
	BookValue   decimal.Decimal `json:"book_value"`
}

// ScheduleIterator lazily walks the monthly schedule for an asset.
// It is finite: iteration stops when the book value reaches salvage
// or the useful life is exhausted, whichever comes first.
type ScheduleIterator struct {
	input DepreciationInput
	month int
	prev  decimal.Decimal
	done  bool
}

// NewScheduleIterator creates an iterator positioned before the first
// period
func NewScheduleIterator(in DepreciationInput) (*ScheduleIterator, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &ScheduleIterator{input: in}, nil
}

// Next returns the next schedule entry. The second return value is
// false once the schedule is exhausted.
func (it *ScheduleIterator) Next() (ScheduleEntry, bool) {
	if it.done {
		return ScheduleEntry{}, false
	}

	totalMonths := it.input.UsefulLifeYears * 12
	depreciable := it.input.DepreciableAmount()

	for it.month < totalMonths {
		it.month++
		accumulated := accumulatedAfterMonths(it.input, it.month)
		amount := accumulated.Sub(it.prev)
		it.prev = accumulated

		if accumulated.GreaterThanOrEqual(depreciable) || it.month == totalMonths {
			it.done = true
		}
		if amount.IsZero() && it.done {
			return ScheduleEntry{}, false
		}

		return ScheduleEntry{
			Period:      it.month,
			Date:        it.input.PurchaseDate.AddDate(0, it.month, 0),
			Amount:      amount,
			Accumulated: accumulated,
			BookValue:   it.input.PurchaseCost.Sub(accumulated),
		}, true
	}

	it.done = true
	return ScheduleEntry{}, false
}

// Reset rewinds the iterator to the first period
func (it *ScheduleIterator) Reset() {
	it.month = 0
	it.prev = decimal.Zero
	it.done = false
}

// GenerateSchedule materializes the full monthly schedule
func GenerateSchedule(in DepreciationInput) ([]ScheduleEntry, error) {
	it, err := NewScheduleIterator(in)
	if err != nil {
		return nil, err
	}
	entries := make([]ScheduleEntry, 0, in.UsefulLifeYears*12)
	for {
		entry, ok := it.Next()
		if !ok {
			break
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
