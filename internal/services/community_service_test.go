package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/progress-api/internal/models"
	"github.com/yukikurage/progress-api/internal/repository"
	"github.com/yukikurage/progress-api/internal/utils"
)

type CommunityServiceTestSuite struct {
	suite.Suite
	repos         *repository.Repositories
	communities   *CommunityService
	notifications *NotificationService
	shared        *SharedService
	owner         *models.User
	alice         *models.User
	bob           *models.User
	community     *models.Community
}

func (suite *CommunityServiceTestSuite) SetupTest() {
	suite.repos = newTestRepos(suite.T())
	suite.communities = NewCommunityService(suite.repos)
	suite.notifications = NewNotificationService(suite.repos)
	suite.shared = NewSharedService(suite.repos)

	suite.owner = createTestUser(suite.T(), suite.repos, "owner")
	suite.alice = createTestUser(suite.T(), suite.repos, "alice")
	suite.bob = createTestUser(suite.T(), suite.repos, "bob")

	community, err := suite.communities.CreateCommunity(CreateCommunityInput{
		OwnerID: suite.owner.ID,
		Name:    "Makers",
	})
	suite.Require().NoError(err)
	suite.community = community
}

// join invites user and accepts the invitation on their behalf.
func (suite *CommunityServiceTestSuite) join(user *models.User) {
	invite, err := suite.communities.InviteMember(suite.community.ID, suite.owner.ID, user.Username)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.notifications.Accept(invite.ID, user.ID))
}

func (suite *CommunityServiceTestSuite) pendingOf(user *models.User) []models.Notification {
	items, _, err := suite.notifications.ListNotifications(user.ID, utils.PaginationParams{Page: 1, Limit: 50})
	suite.Require().NoError(err)

	var pending []models.Notification
	for _, n := range items {
		if n.IsPending() {
			pending = append(pending, n)
		}
	}
	return pending
}

func (suite *CommunityServiceTestSuite) TestCreateCommunity_OwnerIsMember() {
	suite.Require().Len(suite.community.Members, 1)
	suite.Equal(suite.owner.ID, suite.community.Members[0].UserID)
	suite.Equal(models.RoleOwner, suite.community.Members[0].Role)
}

func (suite *CommunityServiceTestSuite) TestInviteMember_CreatesPendingInvite() {
	invite, err := suite.communities.InviteMember(suite.community.ID, suite.owner.ID, "alice")
	suite.Require().NoError(err)
	suite.NotZero(invite.ID)
	suite.Equal(models.NotificationTypeInvite, invite.Type)
	suite.Equal(suite.alice.ID, invite.RecipientID)
	suite.Equal("owner invited you to join Makers", invite.Message)

	count, err := suite.notifications.UnreadCount(suite.alice.ID)
	suite.Require().NoError(err)
	suite.Equal(int64(1), count)

	// A second invite while the first is pending is refused.
	_, err = suite.communities.InviteMember(suite.community.ID, suite.owner.ID, "alice")
	suite.ErrorIs(err, ErrInvitationSent)
}

func (suite *CommunityServiceTestSuite) TestInviteMember_Errors() {
	_, err := suite.communities.InviteMember(suite.community.ID, suite.owner.ID, "nobody")
	suite.ErrorIs(err, ErrTargetUserNotFound)

	_, err = suite.communities.InviteMember(suite.community.ID, suite.owner.ID, "owner")
	suite.ErrorIs(err, ErrAlreadyMember)

	_, err = suite.communities.InviteMember(suite.community.ID, suite.alice.ID, "bob")
	suite.ErrorIs(err, ErrNotCommunityOwner)
}

func (suite *CommunityServiceTestSuite) TestAccept_AddsMemberOnce() {
	invite, err := suite.communities.InviteMember(suite.community.ID, suite.owner.ID, "alice")
	suite.Require().NoError(err)

	suite.Require().NoError(suite.notifications.Accept(invite.ID, suite.alice.ID))

	community, err := suite.communities.GetCommunity(suite.community.ID, suite.alice.ID)
	suite.Require().NoError(err)
	suite.Len(community.Members, 2)

	err = suite.notifications.Accept(invite.ID, suite.alice.ID)
	suite.ErrorIs(err, ErrAlreadyProcessed)

	err = suite.notifications.Reject(invite.ID, suite.alice.ID)
	suite.ErrorIs(err, ErrAlreadyProcessed)
}

func (suite *CommunityServiceTestSuite) TestAccept_OnlyByRecipient() {
	invite, err := suite.communities.InviteMember(suite.community.ID, suite.owner.ID, "alice")
	suite.Require().NoError(err)

	err = suite.notifications.Accept(invite.ID, suite.bob.ID)
	suite.ErrorIs(err, ErrNotificationNotFound)
}

func (suite *CommunityServiceTestSuite) TestReject_LeavesMembershipUntouched() {
	invite, err := suite.communities.InviteMember(suite.community.ID, suite.owner.ID, "alice")
	suite.Require().NoError(err)

	suite.Require().NoError(suite.notifications.Reject(invite.ID, suite.alice.ID))

	_, err = suite.communities.GetCommunity(suite.community.ID, suite.alice.ID)
	suite.ErrorIs(err, ErrNotCommunityMember)

	// A rejected invite does not block a new one.
	_, err = suite.communities.InviteMember(suite.community.ID, suite.owner.ID, "alice")
	suite.NoError(err)
}

func (suite *CommunityServiceTestSuite) TestMarkRead_RejectsInvitations() {
	invite, err := suite.communities.InviteMember(suite.community.ID, suite.owner.ID, "alice")
	suite.Require().NoError(err)

	err = suite.notifications.MarkRead(invite.ID, suite.alice.ID)
	suite.ErrorIs(err, ErrInvitationNeedsReply)

	count, err := suite.notifications.MarkAllRead(suite.alice.ID)
	suite.Require().NoError(err)
	suite.Equal(int64(0), count)
	suite.Len(suite.pendingOf(suite.alice), 1)
}

func (suite *CommunityServiceTestSuite) TestRemoveMember() {
	suite.join(suite.alice)

	err := suite.communities.RemoveMember(suite.community.ID, suite.owner.ID, "owner")
	suite.ErrorIs(err, ErrCannotRemoveOwner)

	err = suite.communities.RemoveMember(suite.community.ID, suite.owner.ID, "bob")
	suite.ErrorIs(err, ErrMemberNotFound)

	suite.Require().NoError(suite.communities.RemoveMember(suite.community.ID, suite.owner.ID, "alice"))

	_, err = suite.communities.GetCommunity(suite.community.ID, suite.alice.ID)
	suite.ErrorIs(err, ErrNotCommunityMember)
}

func (suite *CommunityServiceTestSuite) TestSharedProject_NotifiesOtherMembers() {
	suite.join(suite.alice)
	suite.join(suite.bob)

	_, err := suite.shared.CreateSharedProject(CreateSharedProjectInput{
		CommunityID: suite.community.ID,
		ActorID:     suite.bob.ID,
		Name:        "Garden",
	})
	suite.Require().NoError(err)

	for _, user := range []*models.User{suite.owner, suite.alice} {
		pending := suite.pendingOf(user)
		suite.Require().Len(pending, 1, user.Username)
		suite.Equal(models.NotificationTypeNewProject, pending[0].Type)
		suite.Equal(suite.bob.ID, pending[0].ActorID)
		suite.Require().NotNil(pending[0].CommunityID)
		suite.Equal(suite.community.ID, *pending[0].CommunityID)
	}
	suite.Empty(suite.pendingOf(suite.bob))
}

func (suite *CommunityServiceTestSuite) TestSharedNote_NotifiesOtherMembers() {
	suite.join(suite.alice)
	suite.join(suite.bob)

	project, err := suite.shared.CreateSharedProject(CreateSharedProjectInput{
		CommunityID: suite.community.ID,
		ActorID:     suite.alice.ID,
		Name:        "Workbench",
	})
	suite.Require().NoError(err)

	_, err = suite.notifications.MarkAllRead(suite.owner.ID)
	suite.Require().NoError(err)
	_, err = suite.notifications.MarkAllRead(suite.bob.ID)
	suite.Require().NoError(err)

	_, err = suite.shared.CreateSharedNote(CreateSharedNoteInput{
		SharedProjectID: project.ID,
		ActorID:         suite.alice.ID,
		Title:           "Sketch",
	})
	suite.Require().NoError(err)

	for _, user := range []*models.User{suite.owner, suite.bob} {
		pending := suite.pendingOf(user)
		suite.Require().Len(pending, 1, user.Username)
		suite.Equal(models.NotificationTypeNewNote, pending[0].Type)
		suite.Equal(suite.alice.ID, pending[0].ActorID)
	}
	suite.Empty(suite.pendingOf(suite.alice))
}

func (suite *CommunityServiceTestSuite) TestSharedProject_AuthorOrOwnerOnly() {
	suite.join(suite.alice)
	suite.join(suite.bob)

	project, err := suite.shared.CreateSharedProject(CreateSharedProjectInput{
		CommunityID: suite.community.ID,
		ActorID:     suite.alice.ID,
		Name:        "Workbench",
	})
	suite.Require().NoError(err)

	name := "Renamed"
	_, err = suite.shared.UpdateSharedProject(project.ID, suite.bob.ID, UpdateSharedProjectInput{Name: &name})
	suite.ErrorIs(err, ErrNotSharedAuthor)

	updated, err := suite.shared.UpdateSharedProject(project.ID, suite.owner.ID, UpdateSharedProjectInput{Name: &name})
	suite.Require().NoError(err)
	suite.Equal("Renamed", updated.Name)

	// Any member may work on the tasks.
	task, err := suite.shared.CreateSharedTask(CreateSharedTaskInput{
		SharedProjectID: project.ID,
		ActorID:         suite.bob.ID,
		Title:           "Sand",
	})
	suite.Require().NoError(err)
	completed := true
	_, err = suite.shared.UpdateSharedTask(task.ID, suite.alice.ID, UpdateSharedTaskInput{Completed: &completed})
	suite.Require().NoError(err)
}

func (suite *CommunityServiceTestSuite) TestSharedProject_HiddenFromOutsiders() {
	project, err := suite.shared.CreateSharedProject(CreateSharedProjectInput{
		CommunityID: suite.community.ID,
		ActorID:     suite.owner.ID,
		Name:        "Secret",
	})
	suite.Require().NoError(err)

	_, err = suite.shared.GetSharedProject(project.ID, suite.alice.ID)
	suite.ErrorIs(err, ErrSharedProjectNotFound)

	_, err = suite.shared.CreateSharedProject(CreateSharedProjectInput{
		CommunityID: suite.community.ID,
		ActorID:     suite.alice.ID,
		Name:        "Intruder",
	})
	suite.ErrorIs(err, ErrNotCommunityMember)

	projects, err := suite.shared.ListSharedProjects(suite.alice.ID, nil)
	suite.Require().NoError(err)
	suite.Empty(projects)
}

func TestCommunityServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CommunityServiceTestSuite))
}
