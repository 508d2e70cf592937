package sim

import (
	"fmt"
	"regexp"
	"strconv"
)

var roomNamePattern = regexp.MustCompile(`^([WE])(\d+)([NS])(\d+)$`)

// parseRoomName maps a name like W3N7 onto world grid coordinates. West and
// north are negative; W0 and E0 are adjacent columns.
func parseRoomName(name string) (int, int, error) {
	m := roomNamePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, 0, fmt.Errorf("invalid room name %q", name)
	}
	x, _ := strconv.Atoi(m[2])
	y, _ := strconv.Atoi(m[4])
	if m[1] == "W" {
		x = -x - 1
	}
	if m[3] == "N" {
		y = -y - 1
	}
	return x, y, nil
}

// roomLinearDistance is the Chebyshev distance between two rooms on the grid
func roomLinearDistance(a, b string) int {
	ax, ay, errA := parseRoomName(a)
	bx, by, errB := parseRoomName(b)
	if errA != nil || errB != nil {
		return 0
	}
	dx, dy := ax-bx, ay-by
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}
