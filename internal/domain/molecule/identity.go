package molecule

import (
	"crypto/sha256"
	"encoding/base32"
	"fmt"
	"sort"
	"strings"
)

// IdentityKey returns a 27-character constitution key in the style of an
// InChIKey.  It hashes elements and bond connectivity only; coordinates
// are excluded so the two mirror orientations a random linker flip can
// produce share one key.
func (m *Molecule) IdentityKey() string {
	var sb strings.Builder
	for _, a := range m.atoms {
		sb.WriteString(string(a.Element))
		sb.WriteByte(';')
	}
	sb.WriteByte('|')

	bonds := make([]string, 0, len(m.bonds))
	for _, b := range m.bonds {
		a, bb := b.A, b.B
		if bb < a {
			a, bb = bb, a
		}
		bonds = append(bonds, fmt.Sprintf("%d-%d:%d", a, bb, b.Order))
	}
	sort.Strings(bonds)
	sb.WriteString(strings.Join(bonds, ";"))

	sum := sha256.Sum256([]byte(sb.String()))
	enc := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(sum[:])
	return enc[:14] + "-" + enc[14:24] + "-S"
}
