package tool

import (
	"strings"

	"github.com/google/uuid"
)

func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// GeneratePrefixedID returns "<prefix>_<32 hex chars>" built from a random
// (v4) uuid, giving 122 bits from crypto/rand.
func GeneratePrefixedID(prefix string) string {
	suffix := strings.ReplaceAll(uuid.Must(uuid.NewRandom()).String(), "-", "")
	if prefix == "" {
		return suffix
	}
	return prefix + "_" + suffix
}
