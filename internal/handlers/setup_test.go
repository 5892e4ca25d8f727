package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/progress-api/internal/constants"
	"github.com/yukikurage/progress-api/internal/database"
	"github.com/yukikurage/progress-api/internal/dto"
	"github.com/yukikurage/progress-api/internal/middleware"
	"github.com/yukikurage/progress-api/internal/repository"
	"github.com/yukikurage/progress-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	t      *testing.T
	repos  *repository.Repositories
	tokens *services.TokenService
	router *gin.Engine
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	database.SetDB(db)
	require.NoError(t, database.Migrate())

	env := &testEnv{
		t:      t,
		repos:  repository.New(db),
		tokens: services.NewTokenService("test-secret", time.Hour),
	}
	env.router = env.newRouter()
	return env
}

func (env *testEnv) newRouter() *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))

	auth := NewAuthHandler(services.NewAuthService(env.repos.Users), env.tokens)
	projects := NewProjectHandler(services.NewProjectService(env.repos))
	tasks := NewTaskHandler(services.NewTaskService(env.repos, nil))
	communities := NewCommunityHandler(services.NewCommunityService(env.repos))
	notifications := NewNotificationHandler(services.NewNotificationService(env.repos))

	requireAuth := middleware.RequireAuth(env.tokens)
	communityAccess := middleware.RequireCommunityAccess(env.repos.Communities)

	api := r.Group("/api")
	api.POST("/register/", auth.Register)
	api.POST("/login/", auth.Login)
	api.GET("/me/", requireAuth, auth.GetMe)
	api.PATCH("/change-password/", requireAuth, auth.ChangePassword)
	api.GET("/projects/community/", projects.ListCommunityProjects)

	authed := api.Group("", requireAuth)
	authed.POST("/projects/", projects.CreateProject)
	authed.GET("/projects/:id/", middleware.RequireIDParam("project"), projects.GetProject)
	authed.DELETE("/projects/:id/", middleware.RequireIDParam("project"), projects.DeleteProject)
	authed.POST("/tasks/", tasks.CreateTask)
	authed.GET("/tasks/:id/", middleware.RequireIDParam("task"), tasks.GetTask)
	authed.POST("/tasks/:id/suggest-subtasks", middleware.RequireIDParam("task"), tasks.SuggestSubtasks)
	authed.POST("/subtasks/", tasks.CreateSubtask)
	authed.PATCH("/subtasks/:id/", middleware.RequireIDParam("subtask"), tasks.UpdateSubtask)
	authed.DELETE("/subtasks/:id/", middleware.RequireIDParam("subtask"), tasks.DeleteSubtask)
	authed.POST("/communities/", communities.CreateCommunity)
	authed.GET("/communities/:id/", communityAccess, communities.GetCommunity)
	authed.POST("/communities/:id/add_member", communityAccess, middleware.RequireCommunityOwner(), communities.AddMember)
	authed.POST("/communities/:id/remove_member", communityAccess, middleware.RequireCommunityOwner(), communities.RemoveMember)
	authed.GET("/notifications/", notifications.ListNotifications)
	authed.GET("/notifications/unread_count", notifications.UnreadCount)
	authed.POST("/notifications/:id/accept", middleware.RequireIDParam("notification"), notifications.Accept)
	authed.POST("/notifications/:id/mark_read", middleware.RequireIDParam("notification"), notifications.MarkRead)

	return r
}

// do sends a JSON request, authenticated with token when it is not empty.
func (env *testEnv) do(method, url, token string, body interface{}) *httptest.ResponseRecorder {
	env.t.Helper()

	req := newRequest(env.t, method, url, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return serve(env, req)
}

// signup registers a user and returns a bearer token for them.
func (env *testEnv) signup(username string) (dto.UserDTO, string) {
	env.t.Helper()

	w := env.do(http.MethodPost, "/api/register/", "", map[string]string{
		"username": username,
		"password": "supersecret",
	})
	require.Equal(env.t, http.StatusCreated, w.Code, w.Body.String())

	var user dto.UserDTO
	require.NoError(env.t, json.Unmarshal(w.Body.Bytes(), &user))

	token, _, err := env.tokens.Issue(user.ID)
	require.NoError(env.t, err)
	return user, token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func newRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()

	if body == nil {
		return httptest.NewRequest(method, url, nil)
	}
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, url, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(env *testEnv, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}
