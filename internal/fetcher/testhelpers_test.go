package fetcher

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeTestFile writes fixture content to a path.
func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
