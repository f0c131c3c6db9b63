package error_notificator

import "context"

type Notificator interface {
	// Notify tells operators that a collaborator call failed.
	Notify(ctx context.Context, source string, err error, details string) error
}
