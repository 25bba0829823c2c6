package model

import "strings"

// Principal is the authenticated identity of the caller submitting a transaction.
// Only equality is meaningful.
type Principal string

func (p Principal) IsZero() bool {
	return strings.TrimSpace(string(p)) == ""
}

func (p Principal) String() string {
	return string(p)
}
