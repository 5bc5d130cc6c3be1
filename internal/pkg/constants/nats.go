package constants

// NATS subjects for authentication audit events
const (
	SubjectAuthLogin   = "auth.events.login"
	SubjectAuthRefresh = "auth.events.refresh"
	SubjectAuthLogout  = "auth.events.logout"
)
