package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DisplayDiff prints a colorized unified diff, satisfying tools.UI. The
// hunk computation itself is delegated to go-difflib rather than hand-rolled
// so the context window and hunk headers follow the same conventions as
// `diff -u`; this package only adds the terminal coloring on top.
func (t *Terminal) DisplayDiff(path, oldContent, newContent string) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldContent),
		B:        difflib.SplitLines(newContent),
		FromFile: path,
		ToFile:   path,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		fmt.Fprintln(os.Stderr, t.c(Red, "diff error: "+err.Error()))
		return
	}

	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---"):
			fmt.Println(t.c(Bold, line))
		case strings.HasPrefix(line, "@@"):
			fmt.Println(t.c(Cyan, line))
		case strings.HasPrefix(line, "+"):
			fmt.Println(t.c(Green, line))
		case strings.HasPrefix(line, "-"):
			fmt.Println(t.c(Red, line))
		default:
			fmt.Println(t.c(Gray, line))
		}
	}
}

