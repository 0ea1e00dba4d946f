package crm

import (
	"regexp"
	"strings"
)

var (
	intlPhoneRe   = regexp.MustCompile(`^\+?1?\d{9,15}$`)
	dashedPhoneRe = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)
)

// ValidatePhone checks that a phone number is either in international
// form like +1234567890 (dashes are stripped before matching) or in
// the dashed form 123-456-7890.
func ValidatePhone(value string) error {
	if intlPhoneRe.MatchString(strings.ReplaceAll(value, "-", "")) {
		return nil
	}
	if dashedPhoneRe.MatchString(value) {
		return nil
	}
	return ErrInvalidPhone
}
