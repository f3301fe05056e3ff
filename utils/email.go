package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

const sendGridEndpoint = "https://api.sendgrid.com/v3/mail/send"

// SendMail delivers one HTML email through the SendGrid API. Returns false
// without an error when no API key is configured, so the caller can report
// that nothing was sent.
func SendMail(to, subject, html string) (bool, error) {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		return false, nil
	}

	payload := map[string]interface{}{
		"personalizations": []map[string]interface{}{
			{"to": []map[string]string{{"email": to}}},
		},
		"from":    map[string]string{"email": os.Getenv("MAIL_FROM")},
		"subject": subject,
		"content": []map[string]string{
			{"type": "text/html", "value": html},
		},
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return false, err
	}

	req, err := http.NewRequest("POST", sendGridEndpoint, bytes.NewReader(encoded))
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		resBody, _ := io.ReadAll(res.Body)
		return false, fmt.Errorf("mail service returned %d: %s", res.StatusCode, string(resBody))
	}

	return true, nil
}
