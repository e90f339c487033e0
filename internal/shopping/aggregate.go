package shopping

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/danprasetia/belanja/internal/model"
)

// Group partitions tasks by resolved seller name. Two tasks share a group
// iff they resolve to the identical string, orphan and sentinel labels
// included. Input order is preserved within each group.
func Group(tasks []model.Task, sellers []model.Seller) map[string][]model.Task {
	groups := make(map[string][]model.Task)
	for _, t := range tasks {
		name := ResolveSeller(t, sellers)
		groups[name] = append(groups[name], t)
	}
	return groups
}

// SortedNames returns group keys in display order: Indonesian locale
// collation, case-insensitive, with the unassigned sentinel always last.
func SortedNames(groups map[string][]model.Task) []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	c := collate.New(language.Indonesian, collate.IgnoreCase)
	sort.SliceStable(names, func(i, j int) bool {
		if names[i] == SentinelUnassigned {
			return false
		}
		if names[j] == SentinelUnassigned {
			return true
		}
		return c.CompareString(names[i], names[j]) < 0
	})
	return names
}

// Subtotal sums price × quantity over the given tasks.
func Subtotal(tasks []model.Task) float64 {
	var sum float64
	for _, t := range tasks {
		sum += float64(t.Price) * t.Quantity
	}
	return sum
}

// GrandTotal is the sum over all tasks regardless of grouping.
func GrandTotal(tasks []model.Task) float64 {
	return Subtotal(tasks)
}

// AllComplete reports whether every task in the slice is completed.
func AllComplete(tasks []model.Task) bool {
	for _, t := range tasks {
		if !t.Completed {
			return false
		}
	}
	return true
}

// SellerTaskIDs returns the ids of tasks that resolve to the given seller
// name right now. Bulk complete-by-seller must target the current
// resolution, not a grouping cached from an earlier render.
func SellerTaskIDs(tasks []model.Task, sellers []model.Seller, name string) []int64 {
	var ids []int64
	for _, t := range tasks {
		if ResolveSeller(t, sellers) == name {
			ids = append(ids, t.ID)
		}
	}
	return ids
}
