package utils

import (
	"regexp"
	"strings"
)

var phoneRegexp = regexp.MustCompile(`^[0-9]{10,11}$`)

// NormalizePhone strips whitespace from a phone number.
func NormalizePhone(phone string) string {
	return strings.Join(strings.Fields(phone), "")
}

// IsValidPhone accepts 10-11 digit numbers after whitespace is stripped.
func IsValidPhone(phone string) bool {
	return phoneRegexp.MatchString(NormalizePhone(phone))
}
