package hubfolio

import (
	"fmt"
	"regexp"
	"strings"
)

var slugSegmentPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ValidateSlug checks a hierarchical page slug like "myapp/about". Segments
// are lowercase alphanumerics and hyphens; empty segments are rejected.
func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("slug is empty")
	}
	for _, segment := range strings.Split(slug, "/") {
		if !slugSegmentPattern.MatchString(segment) {
			return fmt.Errorf("invalid slug segment %q", segment)
		}
	}
	return nil
}

// UnderPrefix reports whether slug addresses a page of the app rooted at
// prefix: the bare prefix itself or anything one or more segments below it.
func UnderPrefix(slug, prefix string) bool {
	return slug == prefix || strings.HasPrefix(slug, prefix+"/")
}

// HomeSlug returns the canonical landing-page slug for an app.
func HomeSlug(appSlug string) string {
	return appSlug + "/" + HomeSegment
}

// MapTemplateSlug maps a template page's slug onto a destination app's slug
// prefix. The page named exactly the template's own slug, or its "/home"
// leaf, maps to the destination's "/home"; every other page keeps its
// relative name. Returns false when the slug is not under the source prefix.
func MapTemplateSlug(docSlug, srcPrefix, dstPrefix string) (string, bool) {
	if !UnderPrefix(docSlug, srcPrefix) {
		return "", false
	}
	if docSlug == srcPrefix || docSlug == HomeSlug(srcPrefix) {
		return HomeSlug(dstPrefix), true
	}
	relative := strings.TrimPrefix(docSlug, srcPrefix+"/")
	return dstPrefix + "/" + relative, true
}

// NextCloneName resolves a free name for a cloned group by probing "name",
// "name (2)", "name (3)" and so on until taken reports false.
func NextCloneName(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s (%d)", base, i)
		if !taken(candidate) {
			return candidate
		}
	}
}
