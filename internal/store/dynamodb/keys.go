package dynamodb

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// PK/SK prefix constants.
const (
	prefixRun    = "RUN#"
	prefixRecord = "RECORD#"
	prefixLock   = "LOCK#"

	skStatus = "STATUS"
	skLock   = "LOCK"
)

func runPK(runID string) string { return prefixRun + runID }
func lockPK(key string) string  { return prefixLock + key }

func statusSK() string { return skStatus }
func lockSK() string   { return skLock }

// recordSK sorts records chronologically; the nonce breaks same-millisecond
// ties.
func recordSK(ts time.Time) string {
	millis := ts.UnixMilli()
	nonce := make([]byte, 4)
	_, _ = rand.Read(nonce)
	return fmt.Sprintf("%s%013d#%s", prefixRecord, millis, hex.EncodeToString(nonce))
}

func ttlEpoch(d time.Duration) int64 {
	return time.Now().Add(d).Unix()
}
