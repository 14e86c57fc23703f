package notify

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"os"
)

// SendCertificateIssued posts a small alert to the configured webhook when
// a certificate is issued. Fire-and-forget: failures are logged, never
// propagated. No-op when CERT_WEBHOOK_URL is unset.
func SendCertificateIssued(learnerName, certificateID string) {
	url := os.Getenv("CERT_WEBHOOK_URL")
	if url == "" {
		return
	}
	payload := map[string]string{
		"message":       "Certificate issued",
		"learner":       learnerName,
		"certificateId": certificateID,
	}
	body, _ := json.Marshal(payload)

	resp, err := http.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		log.Printf("failed to send webhook: %v", err)
		return
	}
	defer resp.Body.Close()
}
