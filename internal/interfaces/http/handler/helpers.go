package handler

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/timax/backend/internal/domain/shared"
	"github.com/timax/backend/internal/interfaces/http/dto"
)

const dateLayout = "2006-01-02"

// toDecimal converts a float64 to a decimal.Decimal
func toDecimal(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// toDecimalPtr converts an optional float64 to a *decimal.Decimal
func toDecimalPtr(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}

// parseDate parses a YYYY-MM-DD query value
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// buildFilter converts list request parameters into a repository filter
func buildFilter(req dto.ListRequest, filters map[string]interface{}) shared.Filter {
	req.Normalize()
	return shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
		Filters:  filters,
	}
}
