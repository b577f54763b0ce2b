package shared

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Storage scales for quantities and money columns
const (
	TonnageScale int32 = 3
	MoneyScale   int32 = 2
)

// ExceedsScale reports whether d carries more decimal places than places
func ExceedsScale(d decimal.Decimal, places int32) bool {
	return !d.Equal(d.Truncate(places))
}

// CheckScale returns ErrInvalidInput naming field when d has more than places
// decimal places, so the stored value never differs from the validated one.
func CheckScale(field string, d decimal.Decimal, places int32) error {
	if ExceedsScale(d, places) {
		return ErrInvalidInput.WithMessage(fmt.Sprintf("%s allows at most %d decimal places", field, places))
	}
	return nil
}
