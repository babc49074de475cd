package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func paramsFor(t *testing.T, query string) PaginationParams {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return GetPaginationParams(c)
}

func TestGetPaginationParams(t *testing.T) {
	p := paramsFor(t, "page=3&per_page=20")
	require.Equal(t, 3, p.Page)
	require.Equal(t, 20, p.Limit)
	require.Equal(t, 40, p.Offset)
}

func TestGetPaginationParams_Defaults(t *testing.T) {
	p := paramsFor(t, "")
	require.Equal(t, 1, p.Page)
	require.Equal(t, 10, p.Limit)
	require.Equal(t, 0, p.Offset)
}

func TestGetPaginationParams_ClampsBadInput(t *testing.T) {
	p := paramsFor(t, "page=-2&per_page=9999")
	require.Equal(t, 1, p.Page)
	require.Equal(t, 10, p.Limit)
}

func TestNewPaginationResponse(t *testing.T) {
	resp := NewPaginationResponse(PaginationParams{Page: 2, Limit: 10}, 25)
	require.Equal(t, 2, resp.CurrentPage)
	require.Equal(t, 3, resp.TotalPages)
	require.Equal(t, 10, resp.PerPage)
	require.EqualValues(t, 25, resp.Total)
}
