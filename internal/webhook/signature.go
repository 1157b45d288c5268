package webhook

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // GitHub's legacy X-Hub-Signature header
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"strconv"
	"strings"
	"time"
)

// Algorithm names an HMAC digest.
type Algorithm string

// Supported HMAC digests
const (
	SHA1   Algorithm = "sha1"
	SHA256 Algorithm = "sha256"
	SHA384 Algorithm = "sha384"
	SHA512 Algorithm = "sha512"
)

// StripeTolerance is the oldest Stripe signature timestamp still accepted.
const StripeTolerance = 300 * time.Second

func (a Algorithm) hash() (func() hash.Hash, bool) {
	switch a {
	case SHA1:
		return sha1.New, true
	case SHA256, "":
		return sha256.New, true
	case SHA384:
		return sha512.New384, true
	case SHA512:
		return sha512.New, true
	default:
		return nil, false
	}
}

func (a Algorithm) orDefault() Algorithm {
	if a == "" {
		return SHA256
	}
	return a
}

// ComputeHMAC returns the hex HMAC of body under secret.
// An empty algorithm means SHA256; an unknown one yields "".
func ComputeHMAC(body []byte, secret string, algorithm Algorithm) string {
	newHash, ok := algorithm.hash()
	if !ok {
		return ""
	}
	mac := hmac.New(newHash, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyHMAC reports whether signature is the HMAC of body under secret.
// The signature is hex, optionally prefixed with "<algorithm>=".
// Comparison is constant-time. Any malformed input yields false.
func VerifyHMAC(body []byte, signature, secret string, algorithm Algorithm) bool {
	newHash, ok := algorithm.hash()
	if !ok || signature == "" || secret == "" {
		return false
	}
	signature = strings.TrimPrefix(signature, string(algorithm.orDefault())+"=")

	got, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(newHash, []byte(secret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

// VerifyStripe checks a Stripe-Signature header of the form
// "t=<unix>,v1=<hex>[,v1=<hex>...]". The signed content is "<t>.<body>".
// Signatures older than StripeTolerance are rejected.
func VerifyStripe(body []byte, header, secret string, now time.Time) bool {
	if header == "" || secret == "" {
		return false
	}

	var timestamp string
	var candidates []string
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			candidates = append(candidates, value)
		}
	}
	if timestamp == "" || len(candidates) == 0 {
		return false
	}

	unix, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	if now.Sub(time.Unix(unix, 0)) > StripeTolerance {
		return false
	}

	signed := make([]byte, 0, len(timestamp)+1+len(body))
	signed = append(signed, timestamp...)
	signed = append(signed, '.')
	signed = append(signed, body...)

	for _, candidate := range candidates {
		if VerifyHMAC(signed, candidate, secret, SHA256) {
			return true
		}
	}
	return false
}

// StripeHeader builds a Stripe-Signature header for body at time t.
func StripeHeader(body []byte, secret string, t time.Time) string {
	timestamp := strconv.FormatInt(t.Unix(), 10)
	signed := append([]byte(timestamp+"."), body...)
	return "t=" + timestamp + ",v1=" + ComputeHMAC(signed, secret, SHA256)
}
