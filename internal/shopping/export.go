package shopping

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/danprasetia/belanja/internal/model"
)

// Format selects the text layout produced by Serialize.
type Format string

const (
	// FormatFull renders every task grouped by seller with subtotals and a
	// grand total.
	FormatFull Format = "full"
	// FormatSellerOnly renders just the seller names, one per line.
	FormatSellerOnly Format = "sellerOnly"
	// FormatItemAndPrice renders a flat item/price list sorted by item name.
	FormatItemAndPrice Format = "itemAndPrice"
)

// excludedSellerName is dropped entirely from sellerOnly output. The name
// marks internal transport entries that should never appear on a shared
// seller list, though their tasks still count toward totals.
const excludedSellerName = "Mobil"

// ValidFormat reports whether f is one of the supported export formats.
func ValidFormat(f Format) bool {
	switch f {
	case FormatFull, FormatSellerOnly, FormatItemAndPrice:
		return true
	}
	return false
}

// Serialize renders tasks as shareable plain text in the given format.
// createdAt, when parseable, becomes a locale date header followed by a
// blank line. Empty input produces an empty string.
func Serialize(tasks []model.Task, sellers []model.Seller, format Format, createdAt string) string {
	if len(tasks) == 0 {
		return ""
	}

	var lines []string
	if header := FormatDate(createdAt); header != "" {
		lines = append(lines, header, "")
	}

	switch format {
	case FormatSellerOnly:
		lines = append(lines, sellerOnlyLines(tasks, sellers)...)
	case FormatItemAndPrice:
		lines = append(lines, itemAndPriceLines(tasks)...)
	default:
		lines = append(lines, fullLines(tasks, sellers)...)
	}

	return strings.Join(lines, "\n")
}

func fullLines(tasks []model.Task, sellers []model.Seller) []string {
	groups := Group(tasks, sellers)

	var lines []string
	for _, name := range SortedNames(groups) {
		lines = append(lines, "*"+name+"*")
		for _, t := range groups[name] {
			subtotal := float64(t.Price) * t.Quantity
			lines = append(lines, fmt.Sprintf("%s %s %s %s subtotal: %s",
				t.Item.Name, FormatQuantity(t.Quantity), t.Unit,
				FormatThousands(float64(t.Price)), FormatThousands(subtotal)))
		}
		lines = append(lines, fmt.Sprintf("Subtotal %s: %s", name, FormatThousands(Subtotal(groups[name]))))
		lines = append(lines, "")
	}

	lines = append(lines, "Grand Total: "+FormatThousands(GrandTotal(tasks)))
	return lines
}

func sellerOnlyLines(tasks []model.Task, sellers []model.Seller) []string {
	var lines []string
	for _, name := range SortedNames(Group(tasks, sellers)) {
		if name == SentinelUnassigned || name == excludedSellerName {
			continue
		}
		lines = append(lines, name)
	}
	return lines
}

func itemAndPriceLines(tasks []model.Task) []string {
	sorted := make([]model.Task, len(tasks))
	copy(sorted, tasks)
	c := collate.New(language.Indonesian, collate.IgnoreCase)
	sort.SliceStable(sorted, func(i, j int) bool {
		return c.CompareString(sorted[i].Item.Name, sorted[j].Item.Name) < 0
	})

	lines := make([]string, 0, len(sorted))
	for _, t := range sorted {
		lines = append(lines, fmt.Sprintf("%s %s", t.Item.Name, FormatThousands(float64(t.Price))))
	}
	return lines
}

// FormatThousands renders a monetary amount in thousands: whole quotients
// as integers, anything else with one decimal place (4500 → "4.5",
// 5000 → "5"). Presentation only — stored prices stay in the smallest unit.
func FormatThousands(v float64) string {
	q := v / 1000
	if q == math.Trunc(q) {
		return strconv.FormatFloat(q, 'f', 0, 64)
	}
	return strconv.FormatFloat(q, 'f', 1, 64)
}

// FormatQuantity renders a quantity without trailing zeros.
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

var indonesianMonths = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatDate renders an ISO-8601-ish timestamp as an Indonesian date line
// such as "14 Januari 2025". Unparseable or empty input yields "".
func FormatDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		return fmt.Sprintf("%d %s %d", t.Day(), indonesianMonths[t.Month()-1], t.Year())
	}
	return ""
}
