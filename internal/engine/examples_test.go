package engine_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldmap/internal/engine"
	"fieldmap/internal/mapping"
	"fieldmap/internal/module/tree"
)

func TestExamples(t *testing.T) {
	t.Parallel()

	dirs, err := filepath.Glob(filepath.Join("..", "..", "examples", "*", "mapping.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, dirs)

	for _, file := range dirs {
		dir := filepath.Dir(file)

		t.Run(filepath.Base(dir), func(t *testing.T) {
			t.Parallel()

			spec, err := mapping.LoadFile(file)
			require.NoError(t, err)

			ctx, err := engine.New(spec)
			require.NoError(t, err)

			source, err := tree.ReadFile(tree.FormatJSON, filepath.Join(dir, "source.json"))
			require.NoError(t, err)

			s, err := ctx.Run(map[string]any{"src": source}, nil)
			require.NoError(t, err)
			require.Empty(t, s.Audits.Errors(), spew.Sdump(s.Audits))

			got, ok := s.Document("tgt")
			require.True(t, ok)

			assert.Equal(t, readExpected(t, dir), normalize(t, got), spew.Sdump(got))
		})
	}
}

func readExpected(t *testing.T, dir string) any {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(dir, "expected.json"))
	require.NoError(t, err)

	var want any
	require.NoError(t, json.Unmarshal(data, &want))

	return want
}

// normalize round-trips doc through JSON so Go integer types compare equal
// to decoded numbers.
func normalize(t *testing.T, doc any) any {
	t.Helper()

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var out any
	require.NoError(t, json.Unmarshal(data, &out))

	return out
}
