package inbox

import (
	"context"
	"errors"

	"firebase.google.com/go/messaging"
)

// FCMNotifier pushes notifications to one device through Firebase Cloud
// Messaging.
type FCMNotifier struct {
	Client      *messaging.Client
	DeviceToken string
}

func NewFCMNotifier(client *messaging.Client, deviceToken string) *FCMNotifier {
	return &FCMNotifier{Client: client, DeviceToken: deviceToken}
}

func (n *FCMNotifier) Notify(ctx context.Context, title, body string) error {
	if n.Client == nil || n.DeviceToken == "" {
		return errors.New("fcm notifier not configured")
	}

	message := &messaging.Message{
		Token: n.DeviceToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	}

	_, err := n.Client.Send(ctx, message)
	return err
}
