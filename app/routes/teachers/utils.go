package teachers

import (
	"fmt"
	"strings"
)

// GenerateStaffNo builds a staff number from the teacher's name: TCH-ADALOV-007.
func GenerateStaffNo(firstName, lastName string, seq int) string {
	return fmt.Sprintf("TCH-%s%s-%03d", initials(firstName), initials(lastName), seq)
}

// initials returns the first three letters of name, upper cased.
func initials(name string) string {
	r := []rune(strings.ToUpper(strings.TrimSpace(name)))
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r)
}
