package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/progress-api/internal/dto"
	apierrors "github.com/yukikurage/progress-api/internal/errors"
)

func TestAuthHandler_Register(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(http.MethodPost, "/api/register/", "", map[string]string{
		"username": "newuser",
		"email":    "new@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	user := decode[dto.UserDTO](t, w)
	assert.Equal(t, "newuser", user.Username)
	assert.NotZero(t, user.ID)

	// Same username again
	w = env.do(http.MethodPost, "/api/register/", "", map[string]string{
		"username": "newuser",
		"password": "supersecret",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_RegisterRejectsShortPassword(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(http.MethodPost, "/api/register/", "", map[string]string{
		"username": "shorty",
		"password": "short",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decode[apierrors.APIError](t, w)
	assert.Equal(t, apierrors.ErrCodeInvalidInput, resp.Code)
	assert.Contains(t, resp.Details, "password")
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupTestEnv(t)
	env.signup("existing")

	w := env.do(http.MethodPost, "/api/login/", "", map[string]string{
		"username": "existing",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	token := decode[dto.TokenDTO](t, w)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, "existing", token.User.Username)
	require.NotEmpty(t, token.AccessToken)
	require.NotEmpty(t, w.Result().Cookies(), "expected session cookie to be set")

	// The issued token authenticates later requests.
	w = env.do(http.MethodGet, "/api/me/", token.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[dto.MeDTO](t, w)
	assert.Equal(t, "existing", me.Username)
	require.NotNil(t, me.Profile)
}

func TestAuthHandler_LoginWrongPassword(t *testing.T) {
	env := setupTestEnv(t)
	env.signup("existing")

	w := env.do(http.MethodPost, "/api/login/", "", map[string]string{
		"username": "existing",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	resp := decode[apierrors.APIError](t, w)
	assert.Equal(t, apierrors.ErrCodeInvalidCredentials, resp.Code)
}

func TestAuthHandler_SessionCookieAuthenticates(t *testing.T) {
	env := setupTestEnv(t)
	env.signup("cookie-user")

	w := env.do(http.MethodPost, "/api/login/", "", map[string]string{
		"username": "cookie-user",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := newRequest(t, http.MethodGet, "/api/me/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = serve(env, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cookie-user", decode[dto.MeDTO](t, w).Username)
}

func TestAuthHandler_RequiresAuthentication(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(http.MethodGet, "/api/me/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodGet, "/api/me/", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.signup("changer")

	w := env.do(http.MethodPatch, "/api/change-password/", token, map[string]string{
		"old_password": "not-my-password",
		"new_password": "evenmoresecret",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[apierrors.APIError](t, w)
	details, ok := resp.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Wrong password.", details["old_password"])

	w = env.do(http.MethodPatch, "/api/change-password/", token, map[string]string{
		"old_password": "supersecret",
		"new_password": "evenmoresecret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPost, "/api/login/", "", map[string]string{
		"username": "changer",
		"password": "evenmoresecret",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}
