package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	signatureHeaderClientID  = "X-Client-ID"
	signatureHeaderTimestamp = "X-Timestamp"
	signatureHeaderValue     = "X-Signature"
)

type signatureVerifier struct {
	secrets map[string][]byte
	maxAge  time.Duration
	now     func() time.Time
}

// NewRequestSignatureMiddleware rejects /v1/ requests that are not signed by
// one of clientSecrets. With no usable secrets it lets every request through.
func NewRequestSignatureMiddleware(clientSecrets map[string]string, maxAge time.Duration) func(http.Handler) http.Handler {
	return newSignatureVerifier(clientSecrets, maxAge, time.Now).middleware
}

func newSignatureVerifier(clientSecrets map[string]string, maxAge time.Duration, now func() time.Time) *signatureVerifier {
	secrets := make(map[string][]byte, len(clientSecrets))
	for clientID, secret := range clientSecrets {
		cleanClientID := strings.TrimSpace(clientID)
		cleanSecret := strings.TrimSpace(secret)
		if cleanClientID == "" || cleanSecret == "" {
			continue
		}
		secrets[cleanClientID] = []byte(cleanSecret)
	}
	if maxAge <= 0 {
		maxAge = 5 * time.Minute
	}
	return &signatureVerifier{secrets: secrets, maxAge: maxAge, now: now}
}

func (v *signatureVerifier) middleware(next http.Handler) http.Handler {
	if len(v.secrets) == 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v1/") {
			next.ServeHTTP(w, r)
			return
		}
		if !v.verify(r) {
			writeJSONError(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (v *signatureVerifier) verify(r *http.Request) bool {
	clientID := strings.TrimSpace(r.Header.Get(signatureHeaderClientID))
	timestamp := strings.TrimSpace(r.Header.Get(signatureHeaderTimestamp))
	signature := strings.TrimPrefix(strings.TrimSpace(r.Header.Get(signatureHeaderValue)), "sha256=")
	if clientID == "" || timestamp == "" || signature == "" {
		return false
	}

	secret, ok := v.secrets[clientID]
	if !ok {
		return false
	}
	if !isFreshTimestamp(timestamp, v.maxAge, v.now()) {
		return false
	}

	signatureBytes, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	expected := buildSignature(secret, r.Method, r.URL.Path, canonicalQuery(r), timestamp)
	return hmac.Equal(signatureBytes, expected)
}

// SignRequest sets the signature headers on req for clientID.
func SignRequest(req *http.Request, clientID, secret string, now time.Time) {
	ts := strconv.FormatInt(now.Unix(), 10)
	sig := buildSignature([]byte(secret), req.Method, req.URL.Path, canonicalQuery(req), ts)
	req.Header.Set(signatureHeaderClientID, clientID)
	req.Header.Set(signatureHeaderTimestamp, ts)
	req.Header.Set(signatureHeaderValue, "sha256="+hex.EncodeToString(sig))
}

// canonicalQuery re-encodes the query with sorted keys so parameter order
// does not change the signature.
func canonicalQuery(r *http.Request) string {
	return r.URL.Query().Encode()
}

func isFreshTimestamp(ts string, maxAge time.Duration, now time.Time) bool {
	epochSeconds, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return false
	}
	age := now.Sub(time.Unix(epochSeconds, 0))
	if age < 0 {
		age = -age
	}
	return age <= maxAge
}

func buildSignature(secret []byte, method, path, query, timestamp string) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(method))
	mac.Write([]byte("\n"))
	mac.Write([]byte(path))
	mac.Write([]byte("\n"))
	mac.Write([]byte(query))
	mac.Write([]byte("\n"))
	mac.Write([]byte(timestamp))
	return mac.Sum(nil)
}
