package settlement

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// newDigest builds a unique transaction digest like the audit tables expect:
// operation prefix, millisecond timestamp, random suffix.
func newDigest(prefix string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_%d_%s", prefix, now.UnixMilli(), suffix)
}
