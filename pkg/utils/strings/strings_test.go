package strings_test

import (
	"testing"

	kstr "github.com/sareeloom/storefront/pkg/utils/strings"
)

func TestTrimPrefixAll(t *testing.T) {
	for name, testcase := range map[string]struct {
		s, prefix string
		then      string
	}{
		"one prefix":             {s: "/api/", prefix: "/", then: "api/"},
		"repeated prefixes":      {s: "///api/", prefix: "/", then: "api/"},
		"prefix in middle stays": {s: "/api//v1", prefix: "/", then: "api//v1"},
		"no prefix":              {s: "api", prefix: "/", then: "api"},
		"empty prefix":           {s: "api", prefix: "", then: "api"},
	} {
		t.Run(name, func(t *testing.T) {
			if actual := kstr.TrimPrefixAll(testcase.s, testcase.prefix); actual != testcase.then {
				t.Errorf("(actual, expected) = (%q, %q)", actual, testcase.then)
			}
		})
	}
}

func TestSupplySuffix(t *testing.T) {
	for name, testcase := range map[string]struct {
		text, suffix string
		then         string
	}{
		"missing suffix": {text: "https://shop.example.com", suffix: "/", then: "https://shop.example.com/"},
		"has suffix":     {text: "https://shop.example.com/", suffix: "/", then: "https://shop.example.com/"},
		"empty text":     {text: "", suffix: "/", then: "/"},
	} {
		t.Run(name, func(t *testing.T) {
			if actual := kstr.SupplySuffix(testcase.text, testcase.suffix); actual != testcase.then {
				t.Errorf("(actual, expected) = (%q, %q)", actual, testcase.then)
			}
		})
	}
}
