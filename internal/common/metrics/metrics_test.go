package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Offer", StatusLabel("Offer", true))
	assert.Equal(t, "custom", StatusLabel("Ghosted", false))
}

func TestStatusTransitions_Counts(t *testing.T) {
	c := StatusTransitions.WithLabelValues("Applied", "Interview")
	before := testutil.ToFloat64(c)
	c.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}
