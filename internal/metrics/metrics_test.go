package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCacheLookup(t *testing.T) {
	before := testutil.ToFloat64(CacheLookups.WithLabelValues("similar_users", ResultHit))
	RecordCacheLookup("similar_users", ResultHit)
	RecordCacheLookup("similar_users", ResultHit)
	assert.Equal(t, before+2, testutil.ToFloat64(CacheLookups.WithLabelValues("similar_users", ResultHit)))
}

func TestRecordInvalidation(t *testing.T) {
	okBefore := testutil.ToFloat64(CacheInvalidations.WithLabelValues("ok"))
	errBefore := testutil.ToFloat64(CacheInvalidations.WithLabelValues("error"))

	RecordInvalidation(nil)
	RecordInvalidation(errors.New("redis down"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(CacheInvalidations.WithLabelValues("ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(CacheInvalidations.WithLabelValues("error")))
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/recommendations", "200"))
	RecordAPIRequest("GET", "/api/v1/recommendations", 200, 15*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/recommendations", "200")))

	RecordCompute("recommend_restaurants", 3*time.Millisecond)
	assert.Positive(t, testutil.CollectAndCount(CacheComputeDuration))
}
