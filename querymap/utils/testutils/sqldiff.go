package testutils

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// SQLDiff renders a readable diff between expected and actual SQL for test
// failure messages.
func SQLDiff(expected, actual string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(expected, actual, false)
	return dmp.DiffPrettyText(diffs)
}
