package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeTextStripsMarkup(t *testing.T) {
	require.Equal(t, "Psalms", SanitizeText("<script>alert(1)</script>Psalms"))
	require.Equal(t, "weekly recap", SanitizeText("  <b>weekly</b> recap  "))
	require.Equal(t, "", SanitizeText("   "))
	require.Equal(t, "plain text", SanitizeText("plain text"))
}
