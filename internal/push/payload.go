// Package push batches device tokens and delivers notifications through
// Firebase Cloud Messaging.
package push

import "firebase.google.com/go/v4/messaging"

// MaxTokensPerBatch is FCM's hard limit on registration tokens per
// multicast call.
const MaxTokensPerBatch = 500

// Delivery hints are static: their only job is making sure the receiving OS
// renders the notification audibly and promptly.
const (
	androidSound = "notification_sound"
	apnsSound    = "notification_sound.caf"
)

// Payload is the provider-agnostic notification content for one event:
// human-readable title and body plus the string-valued data map the client
// app uses for deep linking.
type Payload struct {
	Title string
	Body  string
	Data  map[string]string
}

// Batch is at most MaxTokensPerBatch tokens with one payload attached,
// ready for a single multicast call.
type Batch struct {
	Tokens  []string
	Payload Payload
}

func (p Payload) multicastMessage(tokens []string) *messaging.MulticastMessage {
	return &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: p.Title,
			Body:  p.Body,
		},
		Data:    p.Data,
		Android: androidConfig(),
		APNS:    apnsConfig(),
	}
}

func (p Payload) message(token string) *messaging.Message {
	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: p.Title,
			Body:  p.Body,
		},
		Data:    p.Data,
		Android: androidConfig(),
		APNS:    apnsConfig(),
	}
}

func androidConfig() *messaging.AndroidConfig {
	return &messaging.AndroidConfig{
		Priority: "high",
		Notification: &messaging.AndroidNotification{
			Sound: androidSound,
		},
	}
}

func apnsConfig() *messaging.APNSConfig {
	badge := 1
	return &messaging.APNSConfig{
		Headers: map[string]string{"apns-priority": "10"},
		Payload: &messaging.APNSPayload{
			Aps: &messaging.Aps{
				Sound: apnsSound,
				Badge: &badge,
				CustomData: map[string]interface{}{
					"interruption-level": "time-sensitive",
				},
			},
		},
	}
}
