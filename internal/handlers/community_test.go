package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/progress-api/internal/dto"
	apierrors "github.com/yukikurage/progress-api/internal/errors"
	"github.com/yukikurage/progress-api/internal/models"
)

func createCommunity(t *testing.T, env *testEnv, token, name string) dto.CommunityDTO {
	t.Helper()

	w := env.do(http.MethodPost, "/api/communities/", token, map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.CommunityDTO](t, w)
}

func TestCommunityHandler_InviteAndAccept(t *testing.T) {
	env := setupTestEnv(t)
	_, ownerToken := env.signup("owner")
	_, aliceToken := env.signup("alice")

	community := createCommunity(t, env, ownerToken, "Makers")
	require.Len(t, community.Members, 1)

	// Outsiders cannot see the community.
	w := env.do(http.MethodGet, fmt.Sprintf("/api/communities/%d/", community.ID), aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodPost, fmt.Sprintf("/api/communities/%d/add_member", community.ID), ownerToken, map[string]string{
		"username": "alice",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"status":"Invitation sent."}`, w.Body.String())

	w = env.do(http.MethodGet, "/api/notifications/unread_count", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":1}`, w.Body.String())

	w = env.do(http.MethodGet, "/api/notifications/", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	inbox := decode[dto.NotificationListResponse](t, w)
	require.Len(t, inbox.Notifications, 1)
	invite := inbox.Notifications[0]
	assert.Equal(t, models.NotificationTypeInvite, invite.Type)
	assert.Equal(t, "Makers", invite.Community)
	require.NotNil(t, invite.Actor)
	assert.Equal(t, "owner", invite.Actor.Username)

	// Invitations cannot be dismissed as read.
	w = env.do(http.MethodPost, fmt.Sprintf("/api/notifications/%d/mark_read", invite.ID), aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, fmt.Sprintf("/api/notifications/%d/accept", invite.ID), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(http.MethodPost, fmt.Sprintf("/api/notifications/%d/accept", invite.ID), aliceToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[apierrors.APIError](t, w)
	assert.Equal(t, "Already processed.", resp.Message)

	w = env.do(http.MethodGet, fmt.Sprintf("/api/communities/%d/", community.ID), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[dto.CommunityDTO](t, w).Members, 2)
}

func TestCommunityHandler_MemberManagementErrors(t *testing.T) {
	env := setupTestEnv(t)
	_, ownerToken := env.signup("owner")
	_, aliceToken := env.signup("alice")
	env.signup("bob")

	community := createCommunity(t, env, ownerToken, "Makers")
	addURL := fmt.Sprintf("/api/communities/%d/add_member", community.ID)
	removeURL := fmt.Sprintf("/api/communities/%d/remove_member", community.ID)

	tests := []struct {
		name    string
		url     string
		user    string
		code    int
		message string
	}{
		{"unknown user", addURL, "ghost", http.StatusNotFound, "User not found."},
		{"owner is already a member", addURL, "owner", http.StatusBadRequest, "User is already a member."},
		{"remove owner", removeURL, "owner", http.StatusBadRequest, "The owner cannot be removed."},
		{"remove non-member", removeURL, "bob", http.StatusNotFound, "User is not a member."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, tt.url, ownerToken, map[string]string{"username": tt.user})
			require.Equal(t, tt.code, w.Code, w.Body.String())
			assert.Equal(t, tt.message, decode[apierrors.APIError](t, w).Message)
		})
	}

	w := env.do(http.MethodPost, addURL, ownerToken, map[string]string{"username": "alice"})
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(http.MethodPost, addURL, ownerToken, map[string]string{"username": "alice"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invitation already sent.", decode[apierrors.APIError](t, w).Message)

	// Only the owner manages members.
	w = env.do(http.MethodPost, addURL, aliceToken, map[string]string{"username": "bob"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodGet, "/api/communities/999/", ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
