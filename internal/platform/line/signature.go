package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// ValidateSignature はWebhookリクエストの署名を検証します。
// signatureはX-Line-Signatureヘッダの値（HMAC-SHA256のBase64）です。
func ValidateSignature(channelSecret string, body []byte, signature string) bool {
	decoded, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	return hmac.Equal(decoded, mac.Sum(nil))
}
