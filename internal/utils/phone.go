package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// PREFIXES defines the valid national prefixes per mobile operator
var PREFIXES = struct {
	MTN        []int
	TELECEL    []int
	AIRTELTIGO []int
}{
	MTN:        []int{24, 25, 53, 54, 55, 59},
	TELECEL:    []int{20, 50},
	AIRTELTIGO: []int{26, 27, 56, 57},
}

// ValidateMSISDN validates a Ghanaian phone number and normalizes it to the
// 233-prefixed international format used for storage and lookup. Callers may
// submit local-format numbers (e.g. 0241234567).
func ValidateMSISDN(msisdn string) (bool, string, error) {
	// Clean the input by removing separators and the plus sign
	stripped := strings.ReplaceAll(msisdn, "-", "")
	stripped = strings.ReplaceAll(stripped, " ", "")
	stripped = strings.ReplaceAll(stripped, "+", "")

	// Remove country code or trunk prefix if present
	if strings.HasPrefix(stripped, "233") {
		stripped = stripped[3:]
	} else if strings.HasPrefix(stripped, "0") {
		stripped = stripped[1:]
	}

	prefixes := make([]string, 0, len(PREFIXES.MTN)+len(PREFIXES.TELECEL)+len(PREFIXES.AIRTELTIGO))
	for _, group := range [][]int{PREFIXES.MTN, PREFIXES.TELECEL, PREFIXES.AIRTELTIGO} {
		for _, prefix := range group {
			prefixes = append(prefixes, fmt.Sprintf("%d", prefix))
		}
	}

	// A national subscriber number is a known two-digit prefix plus 7 digits
	pattern := fmt.Sprintf("^(%s)\\d{7}$", strings.Join(prefixes, "|"))
	isValid := regexp.MustCompile(pattern).MatchString(stripped)

	if !isValid {
		return false, "", fmt.Errorf("invalid MSISDN format or unsupported operator")
	}

	// Format with country code
	formatted := "233" + stripped

	return true, formatted, nil
}
