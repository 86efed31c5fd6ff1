package fg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewtarzia/stk/pkg/errors"
	"github.com/andrewtarzia/stk/pkg/types/chem"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	g, err := r.ByName("amine")
	require.NoError(t, err)
	assert.Equal(t, chem.ElementRh, g.Placeholder)
	assert.Equal(t, chem.ElementN, g.Target)

	g, err = r.ByPlaceholder(chem.ElementY)
	require.NoError(t, err)
	assert.Equal(t, "aldehyde", g.Name)

	assert.True(t, r.IsPlaceholder(chem.ElementPd))
	assert.False(t, r.IsPlaceholder(chem.ElementC))
	assert.Len(t, r.Groups(), 5)
}

func TestRegistry_BondOrder(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		name     string
		a, b     chem.Element
		expected chem.BondOrder
	}{
		{"amine plus aldehyde is double", chem.ElementRh, chem.ElementY, chem.BondDouble},
		{"pair order does not matter", chem.ElementY, chem.ElementRh, chem.BondDouble},
		{"amine plus amine is single", chem.ElementRh, chem.ElementRh, chem.BondSingle},
		{"thiol plus acid is single", chem.ElementPd, chem.ElementZr, chem.BondSingle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.BondOrder(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	t.Run("unregistered placeholder fails", func(t *testing.T) {
		_, err := r.BondOrder(chem.ElementRh, "Tc")
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeMissingFunctionalGroup))
	})
}

func TestRegistry_LookupFailures(t *testing.T) {
	r := DefaultRegistry()

	_, err := r.ByName("phosphine")
	assert.True(t, errors.IsCode(err, errors.CodeUnknownFunctionalGroup))

	_, err = r.ByPlaceholder(chem.ElementC)
	assert.True(t, errors.IsCode(err, errors.CodeMissingFunctionalGroup))
}

func TestNewRegistry_Validation(t *testing.T) {
	t.Run("duplicate name rejected", func(t *testing.T) {
		_, err := NewRegistry([]Group{
			{Name: "amine", Placeholder: chem.ElementRh, Target: chem.ElementN},
			{Name: "amine", Placeholder: chem.ElementY, Target: chem.ElementC},
		}, nil)
		assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
	})

	t.Run("duplicate placeholder rejected", func(t *testing.T) {
		_, err := NewRegistry([]Group{
			{Name: "amine", Placeholder: chem.ElementRh, Target: chem.ElementN},
			{Name: "aldehyde", Placeholder: chem.ElementRh, Target: chem.ElementC},
		}, nil)
		assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
	})

	t.Run("double bond over unknown placeholder rejected", func(t *testing.T) {
		_, err := NewRegistry(
			[]Group{{Name: "amine", Placeholder: chem.ElementRh, Target: chem.ElementN}},
			[]DoubleBondPair{{A: chem.ElementRh, B: chem.ElementY}},
		)
		assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
	})
}
