package shopping

import (
	"strconv"
	"strings"

	"github.com/danprasetia/belanja/internal/model"
)

// ParseNumber extracts a number from free-form input, tolerating currency
// symbols, separators, and units left over from pre-formatted display
// strings. Everything except digits and the decimal point is stripped;
// unparseable input yields 0.
func ParseNumber(value string) float64 {
	var b strings.Builder
	for _, r := range value {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return n
}

// IsIncomplete flags a task that still needs attention before shopping:
// missing price, missing quantity, missing unit, or no seller assigned.
func IsIncomplete(task model.Task, sellers []model.Seller) bool {
	return task.Price == 0 ||
		task.Quantity == 0 ||
		task.Unit == "" ||
		ResolveSeller(task, sellers) == SentinelUnassigned
}
