package utils_test

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sareeloom/storefront/pkg/utils"
)

func TestMap(t *testing.T) {
	for name, testcase := range map[string]struct {
		given    []int
		expected []string
	}{
		"nil":   {given: nil, expected: []string{}},
		"empty": {given: []int{}, expected: []string{}},
		"some":  {given: []int{4150, 899, 0}, expected: []string{"4150", "899", "0"}},
	} {
		t.Run(name, func(t *testing.T) {
			actual := utils.Map(testcase.given, strconv.Itoa)
			if diff := cmp.Diff(testcase.expected, actual); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	limit := 12
	if got := utils.Default(&limit, 24); got != 12 {
		t.Errorf("non-nil: %d", got)
	}
	if got := utils.Default(nil, 24); got != 24 {
		t.Errorf("nil: %d", got)
	}
}
