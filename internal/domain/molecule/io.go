package molecule

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/andrewtarzia/stk/internal/domain/fg"
	"github.com/andrewtarzia/stk/pkg/errors"
)

// LoadBuildingBlock reads a building block from a JSON file.
func LoadBuildingBlock(path string, registry *fg.Registry) (*BuildingBlock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeMoleculeParse, "failed to read building block file").
			WithDetail(path)
	}
	var rec BuildingBlockRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(err, errors.CodeMoleculeParse, "failed to decode building block JSON").
			WithDetail(path)
	}
	if rec.Name == "" {
		rec.Name = strings.TrimSuffix(trimPath(path), ".json")
	}
	return BuildingBlockFromRecord(rec, registry)
}

func trimPath(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// WriteXYZ writes the molecule in XYZ format: atom count, comment line,
// then one "element x y z" line per atom.
func (m *Molecule) WriteXYZ(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%d\n%s\n", len(m.atoms), m.name); err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "failed to write xyz header")
	}
	for _, a := range m.atoms {
		if _, err := fmt.Fprintf(w, "%s %.6f %.6f %.6f\n",
			a.Element, a.Pos.X, a.Pos.Y, a.Pos.Z); err != nil {
			return errors.Wrap(err, errors.CodeSerialization, "failed to write xyz atom")
		}
	}
	return nil
}

// WriteMDL writes the molecule as an MDL V2000 molfile.  Counts above the
// format's 999 limit are rejected rather than silently truncated.
func (m *Molecule) WriteMDL(w io.Writer) error {
	if len(m.atoms) > 999 || len(m.bonds) > 999 {
		return errors.New(errors.CodeSerialization, "molecule exceeds V2000 atom or bond limit").
			WithDetail(fmt.Sprintf("atoms=%d bonds=%d", len(m.atoms), len(m.bonds)))
	}

	var sb strings.Builder
	sb.WriteString(m.name + "\n")
	sb.WriteString(fmt.Sprintf("  stk     %s\n", time.Now().UTC().Format("0102061504")))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%3d%3d  0  0  0  0  0  0  0  0999 V2000\n",
		len(m.atoms), len(m.bonds)))
	for _, a := range m.atoms {
		sb.WriteString(fmt.Sprintf("%10.4f%10.4f%10.4f %-3s 0  0  0  0  0  0  0  0  0  0  0  0\n",
			a.Pos.X, a.Pos.Y, a.Pos.Z, a.Element))
	}
	for _, b := range m.bonds {
		// V2000 atom indices are 1-based.
		sb.WriteString(fmt.Sprintf("%3d%3d%3d  0\n", b.A+1, b.B+1, b.Order))
	}
	sb.WriteString("M  END\n")

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "failed to write molfile")
	}
	return nil
}

// SaveXYZ writes the molecule in XYZ format to path.
func (m *Molecule) SaveXYZ(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "failed to create xyz file").
			WithDetail(path)
	}
	defer f.Close()
	return m.WriteXYZ(f)
}

// SaveMDL writes the molecule as a molfile to path.
func (m *Molecule) SaveMDL(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "failed to create molfile").
			WithDetail(path)
	}
	defer f.Close()
	return m.WriteMDL(f)
}
