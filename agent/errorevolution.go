package agent

import (
	"regexp"
	"sort"
	"strconv"
	"time"
)

// errorPattern is one priority-ordered (type, regex) entry of the parsing table.
type errorPattern struct {
	errType string
	re      *regexp.Regexp
}

// errorPatterns is checked top to bottom; the first match wins.
var errorPatterns = []errorPattern{
	{"module_error", regexp.MustCompile(`(?i)ModuleNotFoundError:\s*(.+)`)},
	{"import_error", regexp.MustCompile(`(?i)ImportError:\s*(.+)`)},
	{"key_error", regexp.MustCompile(`(?i)KeyError:\s*(.+)`)},
	{"file_not_found", regexp.MustCompile(`(?i)FileNotFoundError:\s*(.+)`)},
	{"syntax_error", regexp.MustCompile(`(?i)SyntaxError:\s*(.+)`)},
	{"attribute_error", regexp.MustCompile(`(?i)AttributeError:\s*(.+)`)},
	{"value_error", regexp.MustCompile(`(?i)ValueError:\s*(.+)`)},
	{"type_error", regexp.MustCompile(`(?i)TypeError:\s*(.+)`)},
	{"command_not_found", regexp.MustCompile(`(?i)(?:command not found|is not recognized as an internal or external command)[:\s]*(.*)`)},
	{"exception", regexp.MustCompile(`(?i)Exception:\s*(.+)`)},
	{"generic_error", regexp.MustCompile(`(?i)Error:\s*(.+)`)},
}

var fileRefPattern = regexp.MustCompile(`File\s+"([^"]+)"`)
var lineRefPattern = regexp.MustCompile(`line\s+(\d+)`)

// ParseError scans the combined stderr/stdout of the most recent execution
// into a structured error record. Returns nil when no pattern matches.
func ParseError(combined string) *BlockingError {
	for _, p := range errorPatterns {
		m := p.re.FindStringSubmatch(combined)
		if m == nil {
			continue
		}
		message := ""
		if len(m) > 1 {
			message = m[1]
		}
		return &BlockingError{
			Type:      p.errType,
			Message:   message,
			FileRefs:  dedupeStrings(extractFileRefs(combined)),
			LineRefs:  dedupeInts(extractLineRefs(combined)),
			RawOutput: combined,
			Status:    "active",
		}
	}
	return nil
}

func extractFileRefs(s string) []string {
	matches := fileRefPattern.FindAllStringSubmatch(s, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

func extractLineRefs(s string) []int {
	matches := lineRefPattern.FindAllStringSubmatch(s, -1)
	out := make([]int, 0, len(matches))
	for _, m := range matches {
		if n, err := strconv.Atoi(m[1]); err == nil {
			out = append(out, n)
		}
	}
	return out
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func dedupeInts(in []int) []int {
	seen := make(map[int]bool, len(in))
	out := make([]int, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// comparison labels the relationship between a previous and current parse,
// per spec §4.4.
type comparison string

const (
	comparisonSameError    comparison = "same_error"
	comparisonProgression  comparison = "progression"
	comparisonNewError     comparison = "new_error"
	comparisonResolved     comparison = "resolved"
	comparisonNoneToNone   comparison = "none"
)

func compareErrors(previous, current *BlockingError) comparison {
	if current == nil {
		if previous != nil {
			return comparisonResolved
		}
		return comparisonNoneToNone
	}
	if previous == nil {
		return comparisonNewError
	}
	sameFiles := sameFileSet(previous.FileRefs, current.FileRefs)
	switch {
	case previous.Type == current.Type && previous.Message == current.Message && sameFiles:
		return comparisonSameError
	case sameFiles && previous.Type != current.Type:
		return comparisonProgression
	default:
		return comparisonNewError
	}
}

func sameFileSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	sa := append([]string(nil), a...)
	sb := append([]string(nil), b...)
	sort.Strings(sa)
	sort.Strings(sb)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}

// UpdateErrorState applies the §4.4 state transition to ctx, given the
// combined output of the most recently executed command. currentStep is the
// step number the transition is attributed to.
func UpdateErrorState(ctx *AgentContext, combined string, currentStep int, now time.Time) {
	current := ParseError(combined)
	previous := ctx.CurrentBlockingError

	cmp := compareErrors(previous, current)

	switch cmp {
	case comparisonResolved:
		ctx.ArchiveSolved(*previous, currentStep, now)
		ctx.InstallCurrentError(nil)
	case comparisonNewError, comparisonProgression:
		if previous != nil {
			ctx.ArchiveSolved(*previous, currentStep-1, now)
		}
		current.FirstSeenStep = currentStep
		current.LastSeenStep = currentStep
		ctx.InstallCurrentError(current)
	case comparisonSameError:
		previous.LastSeenStep = currentStep
		ctx.InstallCurrentError(previous)
	}

	// ErrorDetected mirrors the authoritative current_blocking_error so the
	// invariant "current equals the last non-null progression entry" holds
	// even in the same_error case, where first/last_seen_step differ from
	// a bare fresh parse.
	ctx.AppendProgression(ErrorProgressionEntry{
		Step:          currentStep,
		ErrorDetected: ctx.CurrentBlockingError,
		PreviousError: previous,
		Timestamp:     now,
	})
}
