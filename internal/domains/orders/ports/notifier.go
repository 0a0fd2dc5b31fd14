package ports

import "context"

// NotificationSink displays user-facing confirmations. Delivery is fire-and-forget.
type NotificationSink interface {
	Notify(ctx context.Context, message string)
}
