package response

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFail(t *testing.T) {
	rec := httptest.NewRecorder()

	Fail(rec, http.StatusTeapot, "boom")

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"error","error":"boom"}`, rec.Body.String())
}

func TestInternal(t *testing.T) {
	rec := httptest.NewRecorder()

	Internal(rec)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":"error","error":"internal server error"}`, rec.Body.String())
}

func TestWriteJSON_EncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()

	err := WriteJSON(rec, http.StatusOK, RequestOK("bad", math.Inf(1)))

	assert.Error(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidationError(t *testing.T) {
	type req struct {
		Email string `validate:"required,email"`
		Name  string `validate:"required"`
	}

	err := validator.New().Struct(req{Email: "nope"})
	var ve validator.ValidationErrors
	require.ErrorAs(t, err, &ve)

	resp := ValidationError(ve)
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "Email: email; Name: required", resp.Error)
}
