package prometheus

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveBuild(t *testing.T) {
	m := NewBuildMetrics()

	m.ObserveBuild("FourPlusSix", nil, 50*time.Millisecond, 12)
	m.ObserveBuild("FourPlusSix", errors.New("boom"), 5*time.Millisecond, 0)

	assert.InDelta(t, 1, testutil.ToFloat64(
		m.buildsTotal.WithLabelValues("FourPlusSix", "ok")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(
		m.buildsTotal.WithLabelValues("FourPlusSix", "error")), 1e-9)

	// Failed builds contribute no bonds.
	assert.InDelta(t, 12, testutil.ToFloat64(m.bondsMade), 1e-9)
}

func TestObservePlacements(t *testing.T) {
	m := NewBuildMetrics()
	m.ObservePlacements(4, 6)
	m.ObservePlacements(2, 3)

	assert.InDelta(t, 6, testutil.ToFloat64(
		m.placements.WithLabelValues("vertex")), 1e-9)
	assert.InDelta(t, 9, testutil.ToFloat64(
		m.placements.WithLabelValues("edge")), 1e-9)
}

func TestRegistryGathers(t *testing.T) {
	m := NewBuildMetrics()
	m.ObserveBuild("TwoPlusThree", nil, time.Millisecond, 6)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
