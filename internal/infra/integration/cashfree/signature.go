package cashfree

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// Sign calcula base64(HMAC-SHA256(secret, rawBody + timestamp)).
func Sign(secret string, rawBody []byte, timestamp string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	mac.Write([]byte(timestamp))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifyWebhookSignature nunca entra em pânico nem devolve erro: qualquer falha vira false.
func (c *Client) VerifyWebhookSignature(rawBody []byte, signature, timestamp string) bool {
	return VerifySignature(c.secret, rawBody, signature, timestamp)
}

func VerifySignature(secret string, rawBody []byte, signature, timestamp string) bool {
	if secret == "" || signature == "" || timestamp == "" || len(rawBody) == 0 {
		return false
	}

	provided, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	mac.Write([]byte(timestamp))
	return hmac.Equal(provided, mac.Sum(nil))
}
