package Slack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// SlackClient holds the Slack bot token and base URL
type SlackClient struct {
	Token   string
	BaseURL string
}

// SlackMessage represents a message payload
type SlackMessage struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
	Parse   string `json:"parse,omitempty"`
}

// NewSlackClient builds a client from SLACK_BOT_TOKEN in the environment.
func NewSlackClient() (*SlackClient, error) {
	_ = godotenv.Load(".env")

	token := os.Getenv("SLACK_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("SLACK_BOT_TOKEN not set")
	}
	return &SlackClient{
		Token:   token,
		BaseURL: "https://slack.com/api",
	}, nil
}

// PostMessage sends a text message to the given channel.
func (c *SlackClient) PostMessage(channel, text string) error {
	payload := SlackMessage{Channel: channel, Text: text}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/chat.postMessage", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var result struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return err
	}
	if !result.OK {
		return fmt.Errorf("slack API error: %s", result.Error)
	}
	return nil
}

// NotifyBookings posts to the bookings channel (SLACK_BOOKINGS_CHANNEL,
// default #bookings). A missing token disables the integration silently so
// local setups work without Slack.
func NotifyBookings(text string) error {
	client, err := NewSlackClient()
	if err != nil {
		return nil
	}

	channel := os.Getenv("SLACK_BOOKINGS_CHANNEL")
	if channel == "" {
		channel = "#bookings"
	}
	return client.PostMessage(channel, text)
}
