package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// NewReference returns an order reference such as LL-20260101-093000-042-1234. It
// is logged and returned to the client; the transcript does not carry it.
func NewReference(now time.Time) string {
	now = now.UTC()

	datePart := now.Format("20060102-150405")
	millis := now.Nanosecond() / int(time.Millisecond)

	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		n = big.NewInt(now.UnixNano() % 10000)
	}

	return fmt.Sprintf("LL-%s-%03d-%04d", datePart, millis, n.Int64())
}
