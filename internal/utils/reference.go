package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

// GenerateTrackingRef synthesizes a provider-style tracking reference for
// orders that never touch a gateway (pay on delivery).
func GenerateTrackingRef() string {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		// fallback: time-based entropy
		return fmt.Sprintf("%010x", time.Now().UnixNano()&0xffffffffff)
	}
	return hex.EncodeToString(buf)
}

// GenerateReportRef builds a human-readable reference for mailed digests.
func GenerateReportRef() string {
	now := time.Now().UTC()

	datePart := now.Format("20060102-150405")

	// 4-digit cryptographic random
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		n = big.NewInt(now.UnixNano() % 10000)
	}

	return fmt.Sprintf("RPT-%s-%04d", datePart, n.Int64())
}
