package notification

import "context"

// NoticeType identifies the kind of notice being sent
type NoticeType string

const (
	NoticeRoleChanged        NoticeType = "role_changed"
	NoticeAccountDeactivated NoticeType = "account_deactivated"
	NoticeAccountCreated     NoticeType = "account_created"
)

// Notifier delivers notices to an account's email address. Implementations
// must be safe for concurrent use.
type Notifier interface {
	Notify(ctx context.Context, noticeType NoticeType, to string, data map[string]string) error
}
