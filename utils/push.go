package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const expoPushEndpoint = "https://exp.host/--/api/v2/push/send"

// SendPushNotification delivers one push message to an Expo push token.
func SendPushNotification(token, title, body string, data map[string]string) error {
	if !strings.HasPrefix(token, "ExponentPushToken") {
		return fmt.Errorf("invalid push token format: %s", token)
	}

	payload := map[string]interface{}{
		"to":    token,
		"title": title,
		"body":  body,
		"sound": "default",
	}
	if len(data) > 0 {
		payload["data"] = data
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", expoPushEndpoint, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != 200 {
		resBody, _ := io.ReadAll(res.Body)
		return fmt.Errorf("push service returned %d: %s", res.StatusCode, string(resBody))
	}

	return nil
}
