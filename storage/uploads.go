package storage

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Cloudinary configuration via environment variables
// CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY, CLOUDINARY_API_SECRET, CLOUDINARY_FOLDER (optional)

func InitializeUploads() {
	if os.Getenv("CLOUDINARY_CLOUD_NAME") == "" {
		log.Println("Warning: Cloudinary env vars not set, document uploads will fail")
	}
}

// UploadBase64Document uploads a base64-encoded evidence document (image or
// PDF) to Cloudinary and returns its durable URL, or "" on failure. The bytes
// are never stored locally; callers persist the returned URL only.
func UploadBase64Document(base64Src string, publicID string) string {
	if base64Src == "" {
		log.Println("ERROR: Empty base64 document")
		return ""
	}

	// Strip an optional data-URI prefix, keeping the payload
	payload := base64Src
	mime := "application/pdf"
	if i := strings.Index(base64Src, ","); i != -1 {
		header := base64Src[:i]
		payload = base64Src[i+1:]
		if strings.HasPrefix(header, "data:") {
			if j := strings.Index(header, ";"); j != -1 {
				mime = header[5:j]
			}
		}
	}

	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")
	folder := os.Getenv("CLOUDINARY_FOLDER")

	if cloudName == "" || apiKey == "" || apiSecret == "" {
		log.Println("ERROR: Missing Cloudinary env vars")
		return ""
	}

	// "auto" lets Cloudinary accept both images and PDFs
	endpoint := "https://api.cloudinary.com/v1_1/" + cloudName + "/auto/upload"

	finalPublicID := publicID
	if folder != "" {
		finalPublicID = folder + "/" + publicID
	}

	form := url.Values{}
	form.Add("file", "data:"+mime+";base64,"+payload)
	form.Add("api_key", apiKey)
	form.Add("public_id", finalPublicID)

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	form.Add("timestamp", timestamp)

	// Signature string for signed uploads (must be SHA1)
	signatureString := fmt.Sprintf("public_id=%s&timestamp=%s%s", finalPublicID, timestamp, apiSecret)
	signature := fmt.Sprintf("%x", sha1.Sum([]byte(signatureString)))
	form.Add("signature", signature)

	req, err := http.NewRequest("POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		log.Printf("ERROR: Failed to create upload request: %v", err)
		return ""
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("ERROR: Upload request failed: %v", err)
		return ""
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		log.Printf("ERROR: Failed to read upload response: %v", err)
		return ""
	}

	if res.StatusCode != 200 {
		log.Printf("ERROR: Upload failed with status %d: %s", res.StatusCode, string(body))
		return ""
	}

	var cloudRes struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
		Error     struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &cloudRes); err != nil {
		log.Printf("ERROR: Failed to parse upload response: %v", err)
		return ""
	}

	if cloudRes.Error.Message != "" {
		log.Printf("ERROR: Cloudinary error: %s", cloudRes.Error.Message)
		return ""
	}

	if cloudRes.SecureURL != "" {
		return cloudRes.SecureURL
	}
	return cloudRes.URL
}
