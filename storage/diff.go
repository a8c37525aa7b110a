package storage

import "github.com/pmezard/go-difflib/difflib"

// schemaDiff renders a unified diff between the expected and stored schema.
func schemaDiff(expected, stored string) string {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(stored),
		FromFile: "expected",
		ToFile:   "stored",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}
	return text
}
