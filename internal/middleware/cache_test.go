package middleware

import (
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestCacheableSkipsOversizedBodies(t *testing.T) {
    assert.True(t, cacheable(http.StatusOK, 100, 1024))
    assert.True(t, cacheable(http.StatusOK, 1024, 1024), "exactly at the limit is still complete")
    assert.True(t, cacheable(http.StatusOK, 1<<20, 0), "no limit means everything fits")

    // A body past the limit was captured truncated; storing it would
    // replay a cut-off response as a hit.
    assert.False(t, cacheable(http.StatusOK, 1025, 1024))
    assert.False(t, cacheable(http.StatusNotFound, 10, 1024))
}

func TestCaptureWriterCountsPastLimit(t *testing.T) {
    rec := httptest.NewRecorder()
    cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 10}

    _, err := cw.Write([]byte("0123456789")) // fills the buffer exactly
    require.NoError(t, err)
    _, err = cw.Write([]byte("overflow"))
    require.NoError(t, err)

    // The client got everything, the buffer stopped at the limit, and
    // size still reflects the full body so the overflow is detectable.
    assert.Equal(t, "0123456789overflow", rec.Body.String())
    assert.Equal(t, "0123456789", cw.buf.String())
    assert.Equal(t, int64(18), cw.size)
    assert.False(t, cacheable(cw.status, cw.size, cw.limit))
}

func TestEncodeDecodePayload(t *testing.T) {
    hdr := http.Header{"Content-Type": {"application/json"}}
    body := []byte(`{"movies":[]}`)

    payload, err := encodePayload(http.StatusOK, hdr, body)
    require.NoError(t, err)

    status, gotHdr, gotBody, ok := decodePayload(payload)
    require.True(t, ok)
    assert.Equal(t, http.StatusOK, status)
    assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
    assert.Equal(t, body, gotBody)

    // Garbage too short to hold the fixed prefix is rejected.
    _, _, _, ok = decodePayload([]byte(strings.Repeat("x", 7)))
    assert.False(t, ok)
}
