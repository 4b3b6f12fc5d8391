package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignatureHeader carries the webhook signature: "t=<unix>,v1=<hex hmac>",
// where the MAC covers "<unix>.<raw body>".
const SignatureHeader = "X-Pay-Signature"

const signatureTolerance = 5 * time.Minute

// ErrInvalidSignature reports a webhook whose signature could not be verified.
// Nothing from such a payload may be trusted.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// VerifySignature checks a webhook signature header against the shared secret.
// The timestamp must fall within the tolerance window to blunt replays.
func VerifySignature(payload []byte, header, secret string, now time.Time) error {
	ts, sig, err := parseSignatureHeader(header)
	if err != nil {
		return ErrInvalidSignature
	}

	issued := time.Unix(ts, 0)
	age := now.Sub(issued)
	if age < -signatureTolerance || age > signatureTolerance {
		return ErrInvalidSignature
	}

	expected := computeSignature(payload, secret, ts)
	provided, err := hex.DecodeString(sig)
	if err != nil {
		return ErrInvalidSignature
	}
	if !hmac.Equal(provided, expected) {
		return ErrInvalidSignature
	}
	return nil
}

// SignPayload produces a signature header value for the given payload.
// Used by tests and local webhook replay tooling.
func SignPayload(payload []byte, secret string, at time.Time) string {
	ts := at.Unix()
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(computeSignature(payload, secret, ts)))
}

func parseSignatureHeader(header string) (int64, string, error) {
	var tsRaw, sig string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			tsRaw = kv[1]
		case "v1":
			sig = kv[1]
		}
	}
	if tsRaw == "" || sig == "" {
		return 0, "", errors.New("missing signature components")
	}
	ts, err := strconv.ParseInt(tsRaw, 10, 64)
	if err != nil {
		return 0, "", err
	}
	return ts, sig, nil
}

func computeSignature(payload []byte, secret string, ts int64) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return mac.Sum(nil)
}
