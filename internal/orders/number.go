package orders

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const orderNumberPrefix = "GV"

// NewOrderNumber renders GV-YYYYMMDD-XXXXXX from the UTC date and six random hex digits.
func NewOrderNumber(now time.Time) string {
	id := uuid.New()
	suffix := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))[:6]
	return orderNumberPrefix + "-" + now.UTC().Format("20060102") + "-" + suffix
}
