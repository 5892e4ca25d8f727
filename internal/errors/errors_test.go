package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

func TestValidationFailed_FieldDetails(t *testing.T) {
	type request struct {
		OldPassword string `validate:"required"`
		AvatarIndex int    `validate:"lte=11"`
	}

	err := validator.New().Struct(request{AvatarIndex: 40})
	require.Error(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	ValidationFailed(c, err)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, ErrCodeInvalidInput, body.Code)
	require.Equal(t, "This field is required.", body.Details["old_password"])
	require.Equal(t, "Must be less than or equal to 11.", body.Details["avatar_index"])
}

func TestValidationFailed_NonValidatorError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	ValidationFailed(c, &json.SyntaxError{})

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NotContains(t, w.Body.String(), "details")
}

func TestToSnake(t *testing.T) {
	require.Equal(t, "old_password", toSnake("OldPassword"))
	require.Equal(t, "id", toSnake("ID"))
	require.Equal(t, "project_id", toSnake("ProjectID"))
}
