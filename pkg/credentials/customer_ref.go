package credentials

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

const refPrefix = "cust_"

// CustomerRef derives the one-way reference used wherever a customer must
// be correlated without exposing the raw ID (logs, traces, events, admin
// views). The key keeps references from being brute-forced over the small
// ID space.
func CustomerRef(key []byte, customerID string) string {
	if customerID == "" {
		return ""
	}
	if len(key) > blake2b.Size {
		sum := blake2b.Sum256(key)
		key = sum[:]
	}
	h, err := blake2b.New256(key)
	if err != nil {
		sum := blake2b.Sum256([]byte(customerID))
		return refPrefix + hex.EncodeToString(sum[:8])
	}
	h.Write([]byte(customerID))
	return refPrefix + hex.EncodeToString(h.Sum(nil)[:8])
}
