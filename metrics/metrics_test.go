package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordFetch(t *testing.T) {
	before := testutil.ToFloat64(fetchRequests.WithLabelValues("dblp", "failure"))
	RecordFetch("dblp", false)
	RecordFetch("dblp", true)
	assert.Equal(t, before+1, testutil.ToFloat64(fetchRequests.WithLabelValues("dblp", "failure")))
}

func TestGauges(t *testing.T) {
	SetDatasetAuthors(42)
	assert.Equal(t, float64(42), testutil.ToFloat64(datasetAuthors))

	SetContentViolations("website", 0)
	assert.Equal(t, float64(0), testutil.ToFloat64(contentViolations.WithLabelValues("website")))
}
