package status

import "strings"

// Priority levels, lowest first.
const (
	PriorityLow      = "low"
	PriorityNormal   = "normal"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityUrgent   = "urgent"
	PriorityCritical = "critical"
)

// DefaultPriorityIcon is used for unknown levels.
const DefaultPriorityIcon = "help_outline"

// PriorityDescriptor is how a priority level is displayed.
type PriorityDescriptor struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

var priorityOrder = []string{
	PriorityLow,
	PriorityNormal,
	PriorityMedium,
	PriorityHigh,
	PriorityUrgent,
	PriorityCritical,
}

var priorityTable = map[string]PriorityDescriptor{
	PriorityLow:      {Label: "低", Color: ColorDefault, Icon: "arrow_downward"},
	PriorityNormal:   {Label: "普通", Color: ColorInfo, Icon: "remove"},
	PriorityMedium:   {Label: "中", Color: ColorPrimary, Icon: "drag_handle"},
	PriorityHigh:     {Label: "高", Color: ColorWarning, Icon: "arrow_upward"},
	PriorityUrgent:   {Label: "紧急", Color: ColorError, Icon: "priority_high"},
	PriorityCritical: {Label: "严重", Color: ColorError, Icon: "error"},
}

// Priority looks up an exact, already normalized level.
func Priority(level string) (PriorityDescriptor, bool) {
	d, ok := priorityTable[level]
	return d, ok
}

// PriorityConfig normalizes level and returns its descriptor, falling back to a
// neutral descriptor labelled with level itself.
func PriorityConfig(level string) PriorityDescriptor {
	if d, ok := priorityTable[fold(level)]; ok {
		return d
	}
	return PriorityDescriptor{Label: level, Color: ColorDefault, Icon: DefaultPriorityIcon}
}

// PriorityLevels returns the levels from low to critical.
func PriorityLevels() []string {
	out := make([]string, len(priorityOrder))
	copy(out, priorityOrder)
	return out
}

// PriorityRank is the zero-based position of level, or -1 when unknown.
func PriorityRank(level string) int {
	key := fold(level)
	for i, l := range priorityOrder {
		if l == key {
			return i
		}
	}
	return -1
}

// ComparePriority orders two levels, returning -1, 0 or 1. Unknown levels sort
// below low.
func ComparePriority(a, b string) int {
	ra, rb := PriorityRank(a), PriorityRank(b)
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	}
	if ra < 0 {
		return strings.Compare(fold(a), fold(b))
	}
	return 0
}
