package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	appErrors "github.com/inkwellhq/inkwell/pkg/errors"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, rec
}

func TestNewMetaArithmetic(t *testing.T) {
	meta := NewMeta(41, 2, 10)
	require.Equal(t, int64(41), meta.Total)
	require.Equal(t, 5, meta.TotalPages)
	require.True(t, meta.HasNext)
	require.True(t, meta.HasPrevious)

	first := NewMeta(5, 1, 10)
	require.Equal(t, 1, first.TotalPages)
	require.False(t, first.HasNext)
	require.False(t, first.HasPrevious)

	empty := NewMeta(0, 1, 10)
	require.Equal(t, 0, empty.TotalPages)
	require.False(t, empty.HasNext)
}

func TestErrorRendersAppErrorDetails(t *testing.T) {
	c, rec := newTestContext(t)

	Error(c, appErrors.ErrForbidden.WithDetails(map[string]any{
		"missing_permissions": []string{"blogs:update"},
	}))

	require.Equal(t, http.StatusForbidden, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.Success)
	require.Equal(t, "FORBIDDEN", body.Error.Code)
	require.Contains(t, body.Error.Details, "missing_permissions")
}

func TestErrorDefaultsToInternal(t *testing.T) {
	c, rec := newTestContext(t)

	Error(c, nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPaginatedIncludesMeta(t *testing.T) {
	c, rec := newTestContext(t)

	Paginated(c, []string{"a"}, NewMeta(1, 1, 20))
	require.Equal(t, http.StatusOK, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.NotNil(t, body.Meta)
	require.Equal(t, int64(1), body.Meta.Total)
}
