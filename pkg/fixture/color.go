package fixture

import "strings"

// Colors lists the five color symbols in WUBRG order.
var Colors = []string{"W", "U", "B", "R", "G"}

// ColorIdentity returns the colors whose symbol appears anywhere in manaCost, in WUBRG order.
// The result is never nil.
func ColorIdentity(manaCost string) []string {
	identity := make([]string, 0, len(Colors))
	for _, c := range Colors {
		if strings.Contains(manaCost, c) {
			identity = append(identity, c)
		}
	}
	return identity
}
