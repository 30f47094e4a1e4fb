package fetcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamCSV_TrimAndVariableFields(t *testing.T) {
	input := " a , b \n1,2,3\n"

	rows, err := collectCSV(context.Background(), strings.NewReader(input), CSVOptions{TrimSpace: true})
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"a", "b"}, rows[0])
	assert.Equal(t, []string{"1", "2", "3"}, rows[1])
}

func TestStreamCSV_DelimiterAndComment(t *testing.T) {
	input := "# skipped\nx;y\n1;2\n"

	rows, err := collectCSV(context.Background(), strings.NewReader(input), CSVOptions{
		Delimiter: ';',
		Comment:   '#',
	})
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"x", "y"}, rows[0])
}

func TestStreamCSV_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := collectCSV(ctx, strings.NewReader("a,b\n1,2\n"), CSVOptions{})
	require.Error(t, err)
}
