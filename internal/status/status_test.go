package status

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	tests := []struct {
		name     string
		category string
		code     string
		want     Descriptor
	}{
		{"exact", "USER", "active", Descriptor{Label: "正常", Color: ColorSuccess, Variant: VariantFilled}},
		{"lowercase category", "user", "banned", Descriptor{Label: "已封禁", Color: ColorError, Variant: VariantFilled}},
		{"mixed case code", "Novel", "SERIALIZING", Descriptor{Label: "连载中", Color: ColorPrimary, Variant: VariantFilled}},
		{"whitespace", "  report ", " Pending ", Descriptor{Label: "待处理", Color: ColorWarning, Variant: VariantOutlined}},
		{"unknown code", "USER", "ghost", Descriptor{Label: "ghost", Color: ColorDefault, Variant: VariantOutlined}},
		{"unknown category", "PLANET", "active", Descriptor{Label: "active", Color: ColorDefault, Variant: VariantOutlined}},
		{"blank code", "USER", "", Descriptor{Label: UnknownLabel, Color: ColorDefault, Variant: VariantOutlined}},
		{"blank everything", "", "  ", Descriptor{Label: UnknownLabel, Color: ColorDefault, Variant: VariantOutlined}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Config(tt.category, tt.code))
		})
	}
}

func TestLookup(t *testing.T) {
	d, ok := Lookup("transaction", "Refunded")
	require.True(t, ok)
	assert.Equal(t, "已退款", d.Label)

	_, ok = Lookup("transaction", "lost")
	assert.False(t, ok)

	_, ok = Lookup("", "active")
	assert.False(t, ok)
}

func TestLookupConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				d, ok := Lookup(" Transaction ", "REFUNDED")
				if !ok || d.Label != "已退款" {
					t.Errorf("lookup %d: got %+v, %v", j, d, ok)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestEveryDescriptorIsComplete(t *testing.T) {
	validColors := map[string]bool{
		ColorDefault: true, ColorPrimary: true, ColorSecondary: true,
		ColorSuccess: true, ColorWarning: true, ColorError: true, ColorInfo: true,
	}
	for category, codes := range All() {
		require.NotEmpty(t, codes, "category %s", category)
		for code, d := range codes {
			assert.NotEmpty(t, d.Label, "%s/%s", category, code)
			assert.True(t, validColors[d.Color], "%s/%s color %q", category, code, d.Color)
			assert.Contains(t, []string{VariantFilled, VariantOutlined}, d.Variant, "%s/%s", category, code)

			got, ok := Lookup(string(category), code)
			assert.True(t, ok)
			assert.Equal(t, d, got)
		}
	}
}

func TestCategoriesAndCodes(t *testing.T) {
	cats := Categories()
	assert.Len(t, cats, 11)
	assert.True(t, sort.SliceIsSorted(cats, func(i, j int) bool { return cats[i] < cats[j] }))

	codes := Codes("review")
	assert.Equal(t, []string{"approved", "flagged", "pending", "rejected"}, codes)
	assert.Nil(t, Codes("unknown"))

	c, ok := ParseCategory("subscription")
	require.True(t, ok)
	assert.Equal(t, CategorySubscription, c)
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	all[CategoryUser]["active"] = Descriptor{Label: "changed"}

	assert.Equal(t, "正常", Config("USER", "active").Label)
}
