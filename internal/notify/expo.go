package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ExpoSender delivers push messages through the Expo push API.
type ExpoSender struct {
	url    string
	client *http.Client
}

func NewExpoSender(url string) *ExpoSender {
	return &ExpoSender{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type expoMessage struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
	Sound string            `json:"sound"`
}

func (s *ExpoSender) Send(deviceToken, title, body string, data map[string]string) error {
	payload, err := json.Marshal(expoMessage{
		To:    deviceToken,
		Title: title,
		Body:  body,
		Data:  data,
		Sound: "default",
	})
	if err != nil {
		return err
	}

	resp, err := s.client.Post(s.url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push service returned %d", resp.StatusCode)
	}
	return nil
}
