package repository

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type IDGenerator interface {
	NewID() string
}

// TimestampIDs produces RES-<last 6 digits of epoch millis>-<000..999>.
// Uniqueness is probabilistic: two IDs minted in the same millisecond window
// collide one time in a thousand, and the millisecond part wraps every
// ~16.7 minutes.
type TimestampIDs struct {
	Now  func() time.Time
	Intn func(n int) int
}

func NewTimestampIDs() TimestampIDs {
	return TimestampIDs{Now: time.Now, Intn: rand.Intn}
}

func (g TimestampIDs) NewID() string {
	ms := strconv.FormatInt(g.Now().UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	} else {
		ms = strings.Repeat("0", 6-len(ms)) + ms
	}
	return fmt.Sprintf("RES-%s-%03d", ms, g.Intn(1000))
}

// UUIDIDs trades the short human-readable form for collision-free IDs.
type UUIDIDs struct{}

func (UUIDIDs) NewID() string {
	return "RES-" + uuid.NewString()
}

// IDGeneratorFor maps the configured scheme name to a generator.
func IDGeneratorFor(scheme string) (IDGenerator, error) {
	switch scheme {
	case "", "timestamp":
		return NewTimestampIDs(), nil
	case "uuid":
		return UUIDIDs{}, nil
	}
	return nil, fmt.Errorf("unknown id scheme %q", scheme)
}
