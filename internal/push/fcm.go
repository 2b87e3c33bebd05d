package push

import (
	"context"

	"firebase.google.com/go/v4/messaging"
)

// Messenger is the slice of *messaging.Client the dispatcher uses.
// Mocking this interface in tests gives full control over provider
// behaviour without talking to FCM.
type Messenger interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// compile-time check that the real FCM client satisfies Messenger
var _ Messenger = (*messaging.Client)(nil)
