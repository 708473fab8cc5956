package validate

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Uri reports whether uri is an absolute http or https address.
func Uri(uri string) bool {
	re := regexp.MustCompile(`(?i)^https?:\/\/([\w-]+:[\w-]+@)?[\w-]+(?:\.[\w-]+)*(?::\d+)?(?:\/(?:[\w~%()=.,+-]|%[0-9A-Fa-f]{2})*)*$`)
	return re.MatchString(uri)
}

// UUID reports whether id is a platform object id.
func UUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func OneOf(value string, values []string) bool {
	for _, v := range values {
		if value == v {
			return true
		}
	}
	return false
}

func Required(text string) bool {
	return len(strings.TrimSpace(text)) > 0
}

func IsPositiveNumber(value int) bool {
	return value >= 0
}
