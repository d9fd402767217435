// Package xid generates receipt numbers. The timestamp keeps receipts roughly
// sortable; the random suffix keeps concurrent checkouts from colliding.
package xid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Receipt returns a receipt number like TRX-20260115143052-3F9A0C. Falls back
// to nanosecond time alone if the random source is unavailable.
func Receipt() string {
	now := time.Now().UTC().Format("20060102150405")
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("TRX-%s-%d", now, time.Now().UnixNano()%1000000)
	}
	return fmt.Sprintf("TRX-%s-%s", now, strings.ToUpper(hex.EncodeToString(buf)))
}
