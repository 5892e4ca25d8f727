package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/progress-api/internal/models"
	"github.com/yukikurage/progress-api/internal/repository"
	"gorm.io/gorm"
)

// staleUsernameRepo never sees existing usernames, as if a concurrent request
// claimed the name between the check and the write.
type staleUsernameRepo struct {
	repository.UserRepository
}

func (r staleUsernameRepo) FindByUsername(string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestAuthService_UpdateMe(t *testing.T) {
	repos := newTestRepos(t)
	service := NewAuthService(repos.Users)
	alice := createTestUser(t, repos, "alice")
	createTestUser(t, repos, "bob")

	taken := "bob"
	_, err := service.UpdateMe(alice.ID, UpdateMeInput{Username: &taken})
	require.ErrorIs(t, err, ErrUsernameTaken)

	renamed := " alicia "
	user, err := service.UpdateMe(alice.ID, UpdateMeInput{Username: &renamed})
	require.NoError(t, err)
	assert.Equal(t, "alicia", user.Username)
}

func TestAuthService_UsernameClaimedAfterCheck(t *testing.T) {
	repos := newTestRepos(t)
	service := NewAuthService(staleUsernameRepo{UserRepository: repos.Users})
	alice := createTestUser(t, repos, "alice")
	createTestUser(t, repos, "bob")

	taken := "bob"
	_, err := service.UpdateMe(alice.ID, UpdateMeInput{Username: &taken})
	require.ErrorIs(t, err, ErrUsernameTaken)

	_, err = service.Register(RegisterInput{Username: "bob", Password: "password123"})
	require.ErrorIs(t, err, ErrUsernameTaken)
}
