package domain

import "regexp"

// UPI IDs look like localpart@bankname: alphanumeric/dot/underscore/hyphen
// local part, alphabetic suffix of at least three letters.
var upiPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z]{3,}$`)

// ValidUPI reports whether id is an acceptable UPI payment identifier.
func ValidUPI(id string) bool {
	return upiPattern.MatchString(id)
}
