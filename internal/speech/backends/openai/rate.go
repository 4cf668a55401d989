package openai

import (
	"fmt"
	"strconv"
	"strings"
)

// parseRate converts a signed percentage rate such as "+10%" or "-25%" into
// the API's speed multiplier. An empty rate means normal speed.
func parseRate(rate string) (float64, error) {
	if rate == "" {
		return 1.0, nil
	}

	trimmed := strings.TrimSuffix(rate, "%")
	pct, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid rate %q: %w", rate, err)
	}

	speed := 1.0 + pct/100.0
	if speed < 0.25 {
		speed = 0.25
	}
	if speed > 4.0 {
		speed = 4.0
	}
	return speed, nil
}
