// Package phone normalizes Bangladeshi mobile numbers, which members type
// either in local form (01XXXXXXXXX) or international form (+8801XXXXXXXXX).
package phone

import "strings"

const countryPrefix = "+880"

// Candidates returns the forms to try when looking up an account, in order:
// the number as given, then its counterpart form.
func Candidates(number string) []string {
	number = strings.TrimSpace(number)
	switch {
	case strings.HasPrefix(number, countryPrefix):
		return []string{number, "0" + number[len(countryPrefix):]}
	case strings.HasPrefix(number, "0"):
		return []string{number, countryPrefix + number[1:]}
	default:
		return []string{number}
	}
}
