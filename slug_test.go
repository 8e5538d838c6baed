package hubfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSlug(t *testing.T) {
	assert.NoError(t, ValidateSlug("myapp"))
	assert.NoError(t, ValidateSlug("myapp/home"))
	assert.NoError(t, ValidateSlug("my-app/page-2"))

	assert.Error(t, ValidateSlug(""))
	assert.Error(t, ValidateSlug("/leading"))
	assert.Error(t, ValidateSlug("trailing/"))
	assert.Error(t, ValidateSlug("My/Upper"))
	assert.Error(t, ValidateSlug("sp ace"))
}

func TestUnderPrefix(t *testing.T) {
	assert.True(t, UnderPrefix("shop", "shop"))
	assert.True(t, UnderPrefix("shop/home", "shop"))
	assert.True(t, UnderPrefix("shop/catalog/item", "shop"))
	assert.False(t, UnderPrefix("shopping", "shop"))
	assert.False(t, UnderPrefix("other/home", "shop"))
}

func TestMapTemplateSlug(t *testing.T) {
	cases := []struct {
		doc, want string
		ok        bool
	}{
		{"tpl", "mine/home", true},
		{"tpl/home", "mine/home", true},
		{"tpl/about", "mine/about", true},
		{"tpl/blog/post", "mine/blog/post", true},
		{"elsewhere/about", "", false},
	}
	for _, tc := range cases {
		got, ok := MapTemplateSlug(tc.doc, "tpl", "mine")
		assert.Equal(t, tc.ok, ok, tc.doc)
		assert.Equal(t, tc.want, got, tc.doc)
	}
}

func TestNextCloneName(t *testing.T) {
	taken := func(existing ...string) func(string) bool {
		set := map[string]bool{}
		for _, name := range existing {
			set[name] = true
		}
		return func(name string) bool { return set[name] }
	}

	assert.Equal(t, "X", NextCloneName("X", taken()))
	assert.Equal(t, "X (2)", NextCloneName("X", taken("X")))
	assert.Equal(t, "X (3)", NextCloneName("X", taken("X", "X (2)")))
	assert.Equal(t, "X (2)", NextCloneName("X", taken("X", "X (3)")))
}
