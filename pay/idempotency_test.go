package pay

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCachedStatusHandlesBSONIntegerTypes(t *testing.T) {
	// Mongo decodes the stored status into interface{} as int32 or int64
	assert.Equal(t, 409, cachedStatus(map[string]interface{}{"status": int32(409)}))
	assert.Equal(t, 404, cachedStatus(map[string]interface{}{"status": int64(404)}))
	assert.Equal(t, 500, cachedStatus(map[string]interface{}{"status": float64(500)}))
	assert.Equal(t, 201, cachedStatus(map[string]interface{}{"status": 201}))
}

func TestCachedStatusDefaultsToOK(t *testing.T) {
	assert.Equal(t, http.StatusOK, cachedStatus(map[string]interface{}{}))
	assert.Equal(t, http.StatusOK, cachedStatus(map[string]interface{}{"status": "weird"}))
	assert.Equal(t, http.StatusOK, cachedStatus(map[string]interface{}{"status": nil}))
}

func TestCaptureResponseWriterRecordsStatusAndBody(t *testing.T) {
	rec := httptest.NewRecorder()
	crw := NewCaptureResponseWriter(rec)

	crw.WriteHeader(http.StatusConflict)
	crw.WriteHeader(http.StatusOK) // second header write is ignored
	_, err := crw.Write([]byte(`{"ok":false}`))
	assert.NoError(t, err)

	assert.Equal(t, http.StatusConflict, crw.Status())
	assert.Equal(t, `{"ok":false}`, string(crw.BodyBytes()))
	assert.Equal(t, http.StatusConflict, rec.Code)
}
