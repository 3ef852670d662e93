package utils

// NormalizePhone strips every non-digit rune from a phone number and reports
// whether the remaining digit string has an acceptable length (8–15 digits,
// E.164 upper bound). "+1 (555) 123-4567" normalizes to "15551234567".
func NormalizePhone(raw string) (string, bool) {
	digits := make([]rune, 0, len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	s := string(digits)
	if len(s) < 8 || len(s) > 15 {
		return s, false
	}
	return s, true
}
