package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	handler := Handler()
	require.NotNil(t, handler)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cache_hits_total")
	assert.Contains(t, rec.Body.String(), "spicy_ids_encoded_total")
}

func TestRecordRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/test", "200"))
	RecordRequest("GET", "/test", 200, 100*time.Millisecond)
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/test", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordDecode(t *testing.T) {
	before := testutil.ToFloat64(IDsDecodedTotal.WithLabelValues(OutcomeMalformed))
	RecordDecode(OutcomeMalformed)
	assert.Equal(t, before+1, testutil.ToFloat64(IDsDecodedTotal.WithLabelValues(OutcomeMalformed)))
}

func TestRecordEncode(t *testing.T) {
	before := testutil.ToFloat64(IDsEncodedTotal)
	RecordEncode()
	assert.Equal(t, before+1, testutil.ToFloat64(IDsEncodedTotal))
}

func TestRecordCreated(t *testing.T) {
	before := testutil.ToFloat64(RecordsCreatedTotal.WithLabelValues(AllocationDefault))
	RecordCreated(AllocationDefault)
	assert.Equal(t, before+1, testutil.ToFloat64(RecordsCreatedTotal.WithLabelValues(AllocationDefault)))
}

func TestRecordCacheAndDB(t *testing.T) {
	hits := testutil.ToFloat64(CacheHitsTotal)
	misses := testutil.ToFloat64(CacheMissesTotal)

	RecordCacheHit()
	RecordCacheMiss()
	RecordDBQuery("get_record", 5*time.Millisecond)

	assert.Equal(t, hits+1, testutil.ToFloat64(CacheHitsTotal))
	assert.Equal(t, misses+1, testutil.ToFloat64(CacheMissesTotal))
}
