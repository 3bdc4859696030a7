package Notifications

import (
	"context"
	"fmt"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
	"gorm.io/gorm"

	"Whiskers/Models"
)

// Global Firebase client
var firebaseClient *messaging.Client
var ctx = context.Background()

// InitFirebase initializes the FCM client from the service account file
// named in FIREBASE_CREDENTIALS. Call once at startup; push sending is a
// no-op until it succeeds.
func InitFirebase() error {
	credentials := os.Getenv("FIREBASE_CREDENTIALS")
	if credentials == "" {
		return fmt.Errorf("FIREBASE_CREDENTIALS not set")
	}
	opt := option.WithCredentialsFile(credentials)

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return fmt.Errorf("error initializing Firebase app: %v", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return fmt.Errorf("error getting Messaging client: %v", err)
	}

	firebaseClient = client
	log.Println("Firebase initialized successfully")
	return nil
}

// PushToStaff sends a notification to every registered staff device.
// Failures on individual tokens are logged and skipped so one stale token
// cannot block the rest.
func PushToStaff(db *gorm.DB, title, body string) error {
	if firebaseClient == nil {
		return fmt.Errorf("firebase client not initialized")
	}

	tokens, err := Models.StaffDeviceTokens(db)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}

	sent := 0
	for _, token := range tokens {
		message := &messaging.Message{
			Token: token,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
		}
		if _, err := firebaseClient.Send(ctx, message); err != nil {
			log.Printf("Failed to push to token %s...: %v", token[:min(12, len(token))], err)
			continue
		}
		sent++
	}
	log.Printf("Pushed %q to %d/%d staff devices", title, sent, len(tokens))
	return nil
}

// NotifyOverdueTasks pushes a summary when open tasks have slipped past
// their scheduled time.
func NotifyOverdueTasks(db *gorm.DB, overdue int) error {
	if overdue == 0 {
		return nil
	}
	return PushToStaff(db,
		"Overdue care tasks",
		fmt.Sprintf("%d care tasks are past their scheduled time", overdue))
}
