package molecule

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewtarzia/stk/internal/domain/fg"
	"github.com/andrewtarzia/stk/pkg/errors"
	"github.com/andrewtarzia/stk/pkg/types/chem"
)

func TestWriteXYZ(t *testing.T) {
	m := buildWater(t)

	var sb strings.Builder
	require.NoError(t, m.WriteXYZ(&sb))

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "3", lines[0])
	assert.Equal(t, "water", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "O "))
	assert.True(t, strings.HasPrefix(lines[3], "H "))
}

func TestWriteMDL(t *testing.T) {
	m := buildWater(t)

	var sb strings.Builder
	require.NoError(t, m.WriteMDL(&sb))
	out := sb.String()

	assert.Contains(t, out, "V2000")
	assert.Contains(t, out, "M  END")
	// Counts line: 3 atoms, 2 bonds.
	assert.Contains(t, out, "  3  2  0")
	// 1-based bond indices.
	assert.Contains(t, out, "  1  2  1")
}

func TestLoadBuildingBlock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "diamine.json")
	payload := `{
		"name": "diamine",
		"atoms": [
			{"id": 0, "element": "N", "x": -1, "y": 0, "z": 0},
			{"id": 1, "element": "C", "x": 0, "y": 0, "z": 0},
			{"id": 2, "element": "N", "x": 1, "y": 0, "z": 0}
		],
		"bonds": [
			{"a": 0, "b": 1, "order": 1},
			{"a": 1, "b": 2, "order": 1}
		],
		"functional_group": "amine",
		"reactive_atoms": [0, 2]
	}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	bb, err := LoadBuildingBlock(path, fg.DefaultRegistry())
	require.NoError(t, err)
	assert.Equal(t, "diamine", bb.Name())
	assert.Equal(t, 2, bb.NumFunctionalGroups())
	assert.Equal(t, []chem.AtomID{0, 2}, bb.ReactiveAtoms())
}

func TestLoadBuildingBlock_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadBuildingBlock("/nonexistent/bb.json", fg.DefaultRegistry())
		assert.True(t, errors.IsCode(err, errors.CodeMoleculeParse))
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
		_, err := LoadBuildingBlock(path, fg.DefaultRegistry())
		assert.True(t, errors.IsCode(err, errors.CodeMoleculeParse))
	})
}
