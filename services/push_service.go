package services

import (
	"context"
	"log"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"github.com/propvista/backend/config"
	"google.golang.org/api/option"
)

// PushService delivers mobile push notifications over FCM. Without Firebase
// credentials it degrades to a logged no-op.
type PushService interface {
	SendPush(ctx context.Context, deviceToken, title, body string, data map[string]string) error
	SendPushToMany(ctx context.Context, deviceTokens []string, title, body string) int
}

type pushService struct {
	client *messaging.Client
}

func NewPushService(conf *config.Config) PushService {
	if conf.FirebaseCredentialsFile == "" {
		log.Println("firebase credentials not configured, push notifications disabled")
		return &pushService{}
	}

	opt := option.WithCredentialsFile(conf.FirebaseCredentialsFile)
	app, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		log.Printf("error initializing Firebase app: %v", err)
		return &pushService{}
	}

	client, err := app.Messaging(context.Background())
	if err != nil {
		log.Printf("error getting Messaging client: %v", err)
		return &pushService{}
	}

	log.Println("Firebase Messaging client initialized")
	return &pushService{client: client}
}

func (p *pushService) SendPush(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	if p.client == nil || deviceToken == "" {
		return nil
	}

	message := &messaging.Message{
		Token: deviceToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := p.client.Send(ctx, message); err != nil {
		log.Printf("sending push to device failed: %v", err)
		return err
	}
	return nil
}

// SendPushToMany fans a message out to a token list and returns how many
// sends succeeded. Per-token failures are logged and skipped.
func (p *pushService) SendPushToMany(ctx context.Context, deviceTokens []string, title, body string) int {
	if p.client == nil || len(deviceTokens) == 0 {
		return 0
	}

	sent := 0
	for _, token := range deviceTokens {
		if err := p.SendPush(ctx, token, title, body, nil); err == nil {
			sent++
		}
	}
	return sent
}
