// Package status maps entity status codes and priority levels to the label,
// color and chip style the dashboard renders for them.
package status

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Category names a family of status codes.
type Category string

// Status categories.
const (
	CategoryUser         Category = "USER"
	CategoryNovel        Category = "NOVEL"
	CategoryChapter      Category = "CHAPTER"
	CategoryComment      Category = "COMMENT"
	CategoryReview       Category = "REVIEW"
	CategoryReport       Category = "REPORT"
	CategoryTransaction  Category = "TRANSACTION"
	CategorySubscription Category = "SUBSCRIPTION"
	CategorySystem       Category = "SYSTEM"
	CategoryYuan         Category = "YUAN"
	CategoryPoints       Category = "POINTS"
)

// Chip colors.
const (
	ColorDefault   = "default"
	ColorPrimary   = "primary"
	ColorSecondary = "secondary"
	ColorSuccess   = "success"
	ColorWarning   = "warning"
	ColorError     = "error"
	ColorInfo      = "info"
)

// Chip variants.
const (
	VariantFilled   = "filled"
	VariantOutlined = "outlined"
)

// UnknownLabel is shown for a blank status code.
const UnknownLabel = "Unknown"

// Descriptor is how a status code is displayed.
type Descriptor struct {
	Label   string `json:"label"`
	Color   string `json:"color"`
	Variant string `json:"variant"`
}

// fold trims and case-folds a lookup key. A cases.Caser must not be shared
// between goroutines, so one is built per call.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

var (
	// category -> folded code -> descriptor
	statusIndex map[string]map[string]Descriptor
	categoryIDs map[string]Category
)

func init() {
	statusIndex = make(map[string]map[string]Descriptor, len(statusTable))
	categoryIDs = make(map[string]Category, len(statusTable))
	for category, codes := range statusTable {
		key := fold(string(category))
		categoryIDs[key] = category
		entries := make(map[string]Descriptor, len(codes))
		for code, d := range codes {
			entries[fold(code)] = d
		}
		statusIndex[key] = entries
	}
}

// Lookup finds the descriptor for code within category. Both are matched
// case-insensitively with surrounding whitespace ignored.
func Lookup(category, code string) (Descriptor, bool) {
	entries, ok := statusIndex[fold(category)]
	if !ok {
		return Descriptor{}, false
	}
	d, ok := entries[fold(code)]
	return d, ok
}

// Config returns the descriptor for code within category, or a neutral
// outlined chip labelled with the code itself when nothing matches.
func Config(category, code string) Descriptor {
	if d, ok := Lookup(category, code); ok {
		return d
	}
	return DefaultDescriptor(code)
}

// DefaultDescriptor is the fallback for an unrecognized code.
func DefaultDescriptor(code string) Descriptor {
	label := strings.TrimSpace(code)
	if label == "" {
		label = UnknownLabel
	}
	return Descriptor{Label: label, Color: ColorDefault, Variant: VariantOutlined}
}

// Categories lists the known categories in alphabetical order.
func Categories() []Category {
	out := make([]Category, 0, len(statusTable))
	for category := range statusTable {
		out = append(out, category)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseCategory resolves a category name case-insensitively.
func ParseCategory(name string) (Category, bool) {
	c, ok := categoryIDs[fold(name)]
	return c, ok
}

// Codes returns the sorted status codes of a category, nil when unknown.
func Codes(category string) []string {
	c, ok := ParseCategory(category)
	if !ok {
		return nil
	}
	codes := statusTable[c]
	out := make([]string, 0, len(codes))
	for code := range codes {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// All returns a copy of every category's table, keyed by category then code.
func All() map[Category]map[string]Descriptor {
	out := make(map[Category]map[string]Descriptor, len(statusTable))
	for category, codes := range statusTable {
		inner := make(map[string]Descriptor, len(codes))
		for code, d := range codes {
			inner[code] = d
		}
		out[category] = inner
	}
	return out
}
