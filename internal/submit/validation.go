package submit

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var routingNumberPattern = regexp.MustCompile(`^\d{9}$`)

// ValidateRoutingNumber checks an ABA routing number: exactly 9 digits when
// non-empty. Empty is allowed here; required-ness is decided per form.
func ValidateRoutingNumber(value string) error {
	if value == "" {
		return nil
	}
	if !routingNumberPattern.MatchString(value) {
		return fmt.Errorf("routing number must be exactly 9 digits, got %q", value)
	}
	return nil
}

// CheckRange is a parsed "<start> - <end>" check number range.
type CheckRange struct {
	Start int64
	End   int64
}

// ParseCheckRange accepts "1000-2000" and "1000 - 2000" and requires
// start < end.
func ParseCheckRange(value string) (CheckRange, error) {
	parts := strings.SplitN(value, "-", 2)
	if len(parts) != 2 {
		return CheckRange{}, fmt.Errorf("range must be \"<start> - <end>\", got %q", value)
	}

	start, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return CheckRange{}, fmt.Errorf("range start is not a number: %q", parts[0])
	}
	end, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return CheckRange{}, fmt.Errorf("range end is not a number: %q", parts[1])
	}

	if start >= end {
		return CheckRange{}, fmt.Errorf("range start %d must be below end %d", start, end)
	}
	return CheckRange{Start: start, End: end}, nil
}

// Overlaps reports whether two ranges share any check number.
func (r CheckRange) Overlaps(other CheckRange) bool {
	return r.Start <= other.End && other.Start <= r.End
}
