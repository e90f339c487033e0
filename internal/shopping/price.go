package shopping

import "strconv"

// NormalizePrice canonicalizes raw user price input into the smallest
// currency unit. Non-digits are stripped and the rest parsed as an integer
// (0 for empty or invalid input). A non-zero result under 1000 is taken as
// shorthand for thousands and multiplied up: "15" means 15000.
//
// The shorthand is ambiguous (a literal price of 500 cannot be typed) and
// is applied exactly once, at the form/API boundary, never to stored values.
func NormalizePrice(raw string) int64 {
	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}
	if len(digits) == 0 {
		return 0
	}
	n, err := strconv.ParseInt(string(digits), 10, 64)
	if err != nil {
		return 0
	}
	if n > 0 && n < 1000 {
		n *= 1000
	}
	return n
}
