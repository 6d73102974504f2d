package tool

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGeneratePrefixedID(t *testing.T) {
	id := GeneratePrefixedID("session")
	require.Regexp(t, regexp.MustCompile(`^session_[0-9a-f]{32}$`), id)
	require.NotEqual(t, id, GeneratePrefixedID("session"))
	require.Len(t, GeneratePrefixedID(""), 32)
}

func TestGenerateUUIDV7(t *testing.T) {
	u, err := uuid.Parse(GenerateUUIDV7())
	require.NoError(t, err)
	require.Equal(t, uuid.Version(7), u.Version())
}
