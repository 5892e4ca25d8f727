package constants

const (
	// ContextKeyUserID is the key under which the authenticated user ID is stored
	// in both the gin context and the session.
	ContextKeyUserID = "user_id"

	// SessionCookieName is the name of the session cookie set at login.
	SessionCookieName = "progress_session"

	// MinPasswordLength is the shortest password accepted at registration.
	MinPasswordLength = 8

	// Pagination
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// ProgressEpsilon is the smallest progress delta that is persisted.
	ProgressEpsilon = 0.01

	// MaxAvatarIndex is the highest selectable predefined avatar.
	MaxAvatarIndex = 11

	// FocusReportWindowDays is how far back the focus report looks.
	FocusReportWindowDays = 365

	// MaxAISuggestedSubtasks caps the number of subtasks the AI may propose.
	MaxAISuggestedSubtasks = 20
)
