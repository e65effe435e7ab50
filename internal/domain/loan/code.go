package loan

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const (
	defaultCodePrefix = "ITEM"
	base36Alphabet    = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// GenerateProductCode builds a PPP-TTTT-RRRR label from the item category,
// the clock and randomness. Collisions are possible and tolerated.
func GenerateProductCode(itemType string, now time.Time) string {
	t := strings.TrimSpace(itemType)
	if t == "" {
		t = defaultCodePrefix
	}
	prefix := []rune(t)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}

	millis := strconv.FormatInt(now.UnixMilli(), 10)
	if len(millis) > 4 {
		millis = millis[len(millis)-4:]
	}

	random := make([]byte, 4)
	for i := range random {
		random[i] = base36Alphabet[rand.Intn(len(base36Alphabet))]
	}

	return strings.ToUpper(string(prefix)) + "-" + millis + "-" + strings.ToUpper(string(random))
}
