package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/commerce-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: product p1", models.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: sku", models.ErrDuplicateKey), http.StatusConflict},
		{fmt.Errorf("%w: delivered -> pending", models.ErrInvalidTransition), http.StatusConflict},
		{models.ErrInsufficientStock, http.StatusConflict},
		{models.ErrInvalidCredentials, http.StatusUnauthorized},
		{fmt.Errorf("%w: bad zip", models.ErrValidation), http.StatusBadRequest},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(tc.err), tc.err.Error())
	}
}

func serve(h gin.HandlerFunc) (*httptest.ResponseRecorder, Envelope) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	h(c)

	var env Envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestEnvelopes(t *testing.T) {
	w, env := serve(func(c *gin.Context) { OK(c, gin.H{"id": "p1"}) })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"success":true,"data":{"id":"p1"}}`, w.Body.String())

	w, env = serve(func(c *gin.Context) { Created(c, nil, "Product created successfully") })
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Product created successfully", env.Message)
}

func TestErrorHidesInternalDetails(t *testing.T) {
	w, env := serve(func(c *gin.Context) { Error(c, errors.New("pq: connection refused")) })
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "internal server error", env.Error)

	w, env = serve(func(c *gin.Context) { Error(c, fmt.Errorf("%w: order ORD-1", models.ErrNotFound)) })
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not found: order ORD-1", env.Error)

	_, env = serve(func(c *gin.Context) { Error(c, fmt.Errorf("%w: role mismatch", models.ErrInvalidCredentials)) })
	assert.Equal(t, "invalid email or password", env.Error)
}
