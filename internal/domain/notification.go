package domain

type NotificationType string

const (
	NotifyInfo    NotificationType = "info"
	NotifySuccess NotificationType = "success"
	NotifyError   NotificationType = "error"
)

// Notification is an ephemeral user-facing message. It self-destructs after
// a fixed display duration or on explicit dismissal.
type Notification struct {
	ID      string           `json:"id"`
	Message string           `json:"message"`
	Type    NotificationType `json:"type"`
}
