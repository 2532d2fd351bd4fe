package stats

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const positionPrefix = "Posición "

// PositionLabel returns the generated key of the n-th position (1 is the goalkeeper).
func PositionLabel(n int) string {
	return positionPrefix + strconv.Itoa(n)
}

// PositionCount is the number of positions of a shape, goalkeeper included.
func PositionCount(defenders, midfielders, forwards []int) int {
	n := 1
	for _, lines := range [][]int{defenders, midfielders, forwards} {
		for _, c := range lines {
			n += c
		}
	}
	return n
}

// ShapeType renders a shape as its dashed notation, e.g. "1-4-4-2".
func ShapeType(defenders, midfielders, forwards []int) string {
	parts := []string{"1"}
	for _, lines := range [][]int{defenders, midfielders, forwards} {
		for _, c := range lines {
			parts = append(parts, strconv.Itoa(c))
		}
	}
	return strings.Join(parts, "-")
}

// BuildRoles maps every position label of a shape to a role name. Custom names are taken in
// order; blank or missing entries fall back to Arquero, Defensor i, Mediocampista i and
// Delantero i, numbered within each line.
func BuildRoles(custom []string, defenders, midfielders, forwards []int) map[string]string {
	defaults := []string{"Arquero"}
	for _, group := range []struct {
		lines []int
		name  string
	}{
		{defenders, "Defensor"},
		{midfielders, "Mediocampista"},
		{forwards, "Delantero"},
	} {
		for _, c := range group.lines {
			for i := 1; i <= c; i++ {
				defaults = append(defaults, fmt.Sprintf("%s %d", group.name, i))
			}
		}
	}

	roles := make(map[string]string, len(defaults))
	for i, def := range defaults {
		role := def
		if i < len(custom) && strings.TrimSpace(custom[i]) != "" {
			role = strings.TrimSpace(custom[i])
		}
		roles[PositionLabel(i+1)] = role
	}
	return roles
}

// PositionIndex extracts n from "Posición n". Anything but the exact PositionLabel(n) form,
// such as "Posición 03" or "Posición +3", returns 0.
func PositionIndex(label string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(label, positionPrefix))
	if err != nil || n < 1 || label != PositionLabel(n) {
		return 0
	}
	return n
}

// SortPositions orders labels by position number, then lexically.
func SortPositions(labels []string) {
	sort.Slice(labels, func(i, j int) bool {
		a, b := PositionIndex(labels[i]), PositionIndex(labels[j])
		if a != b {
			return a < b
		}
		return labels[i] < labels[j]
	})
}
