package filters

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/arthur-debert/dosort/pkg/registry"
	"github.com/arthur-debert/dosort/pkg/types"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

const FNSFilterName = "fns"

// Keys of the values parsed from a tagged file name
const (
	FNSCreateTime = "createTime"
	FNSSubject    = "subject"
	FNSPage       = "page"
	FNSVersion    = "version"
	FNSTags       = "tags"
)

var (
	fnsDateRe   = regexp.MustCompile(`^(\d{2})(\d{2})(\d{2})`)
	fnsWeekRe   = regexp.MustCompile(`^(\d{2})(\d{2})w`)
	fnsSemverRe = regexp.MustCompile(`^\[(\d+\.\d+\.\d+)\]$`)
	fnsDigitsRe = regexp.MustCompile(`^\d+$`)
)

// FNSFilter matches files following the tagged naming standard
//
//	<name>.C250412.SReport-Q1.P3.V[1.2.0].Twork-draft.pdf
//
// where C is the creation date (YYMMDD or YYWWw), S the subject, P the page,
// V a version ([x.y.z] or a plain count) and T hyphen separated tags.
//
// Conditions are either one set where every key must hold, a list of sets
// where one set must hold, or a boolean expression over the parsed values.
type FNSFilter struct {
	conditions []map[string]interface{}
	program    *vm.Program
}

// NewFNSFilter builds the filter from its options. A "match" string is an
// expression, a "match" list holds alternative condition sets, and any
// other keys form a single condition set.
func NewFNSFilter(opts registry.Options) (*FNSFilter, error) {
	match, hasMatch := opts["match"]
	if !hasMatch {
		set, err := fnsConditionSet(map[string]interface{}(opts))
		if err != nil {
			return nil, err
		}
		return &FNSFilter{conditions: []map[string]interface{}{set}}, nil
	}
	if len(opts) > 1 {
		return nil, fmt.Errorf("%s: match cannot be combined with conditions", FNSFilterName)
	}

	switch m := match.(type) {
	case string:
		program, err := expr.Compile(m, expr.AllowUndefinedVariables(), expr.AsBool())
		if err != nil {
			return nil, err
		}
		return &FNSFilter{program: program}, nil
	case []interface{}:
		f := &FNSFilter{}
		for _, item := range m {
			raw, ok := item.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("%s: every alternative must be a mapping, got %T", FNSFilterName, item)
			}
			set, err := fnsConditionSet(raw)
			if err != nil {
				return nil, err
			}
			f.conditions = append(f.conditions, set)
		}
		return f, nil
	}
	return nil, fmt.Errorf("%s: unsupported condition %T", FNSFilterName, match)
}

func fnsConditionSet(raw map[string]interface{}) (map[string]interface{}, error) {
	set := make(map[string]interface{}, len(raw))
	for key, value := range raw {
		switch key {
		case FNSCreateTime, FNSSubject, FNSPage, FNSVersion, FNSTags:
		default:
			return nil, fmt.Errorf("%s: unknown condition %q", FNSFilterName, key)
		}
		// YAML dates may arrive as times
		if t, ok := value.(time.Time); ok {
			value = t.Format("2006-01-02")
		}
		set[key] = value
	}
	return set, nil
}

func (f *FNSFilter) Config() types.FilterConfig {
	return types.FilterConfig{Name: FNSFilterName, Files: true, Dirs: false}
}

func (f *FNSFilter) Pipeline(res *types.Resource, out types.Output) (bool, error) {
	if !res.HasPath() {
		return false, fmt.Errorf("%s filter needs a path", FNSFilterName)
	}
	info, err := res.FS.Stat(res.Path)
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}

	parsed := ParseTaggedName(filepath.Base(res.Path))
	res.Vars.Set(FNSFilterName, parsed)

	if f.program != nil {
		result, err := expr.Run(f.program, parsed)
		if err != nil {
			return false, err
		}
		return result.(bool), nil
	}
	for _, set := range f.conditions {
		if fnsMatch(set, parsed) {
			return true, nil
		}
	}
	return false, nil
}

// ParseTaggedName extracts the tag values of a file name. Values not present
// or not parseable are nil.
func ParseTaggedName(name string) map[string]interface{} {
	parsed := map[string]interface{}{
		FNSCreateTime: nil,
		FNSSubject:    nil,
		FNSPage:       nil,
		FNSVersion:    nil,
		FNSTags:       nil,
	}

	stem := strings.TrimSuffix(name, filepath.Ext(name))
	parts := splitTagParts(stem)
	var tags []string
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		content := part[1:]
		switch part[0] {
		case 'C':
			parsed[FNSCreateTime] = nil
			if date, ok := parseTagDate(content); ok {
				parsed[FNSCreateTime] = date
			}
		case 'S':
			parsed[FNSSubject] = content
		case 'P':
			if fnsDigitsRe.MatchString(content) {
				page, err := strconv.Atoi(content)
				if err == nil {
					parsed[FNSPage] = page
				}
			}
		case 'V':
			if m := fnsSemverRe.FindStringSubmatch(content); m != nil {
				parsed[FNSVersion] = m[1]
			} else if fnsDigitsRe.MatchString(content) {
				parsed[FNSVersion] = content
			}
		case 'T':
			tags = append(tags, strings.Split(content, "-")...)
		}
	}
	if len(tags) > 0 {
		parsed[FNSTags] = tags
	}
	return parsed
}

// splitTagParts splits a stem on dots outside of brackets, so V[1.2.0]
// stays one part
func splitTagParts(stem string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range stem {
		switch {
		case r == '[':
			depth++
		case r == ']' && depth > 0:
			depth--
		case r == '.' && depth == 0:
			parts = append(parts, stem[start:i])
			start = i + 1
		}
	}
	return append(parts, stem[start:])
}

// parseTagDate turns YYMMDD into YYYY-MM-DD and YYWWw into YYYY-Www. Years
// are in the 2000s.
func parseTagDate(content string) (string, bool) {
	if m := fnsDateRe.FindStringSubmatch(content); m != nil {
		year := 2000 + atoi(m[1])
		month, day := atoi(m[2]), atoi(m[3])
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if t.Year() != year || int(t.Month()) != month || t.Day() != day {
			return "", false
		}
		return fmt.Sprintf("%d-%s-%s", year, m[2], m[3]), true
	}
	if m := fnsWeekRe.FindStringSubmatch(content); m != nil {
		if week := atoi(m[2]); week >= 1 && week <= 53 {
			return fmt.Sprintf("%d-W%s", 2000+atoi(m[1]), m[2]), true
		}
	}
	return "", false
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// fnsMatch reports whether every condition of set holds for parsed
func fnsMatch(set map[string]interface{}, parsed map[string]interface{}) bool {
	for key, expected := range set {
		actual := parsed[key]
		switch key {
		case FNSSubject:
			if actual == nil || !strings.Contains(fmt.Sprint(actual), fmt.Sprint(expected)) {
				return false
			}
		case FNSTags:
			if !fnsHasTags(actual, expected) {
				return false
			}
		default:
			if actual == nil || fmt.Sprint(actual) != fmt.Sprint(expected) {
				return false
			}
		}
	}
	return true
}

// fnsHasTags reports whether all required tags are present. A required
// string may list several tags separated by hyphens.
func fnsHasTags(actual, expected interface{}) bool {
	var required []string
	switch e := expected.(type) {
	case string:
		if e != "" {
			required = strings.Split(e, "-")
		}
	case []interface{}:
		for _, item := range e {
			s, ok := item.(string)
			if !ok {
				return false
			}
			required = append(required, s)
		}
	case []string:
		required = e
	default:
		return false
	}

	have := make(map[string]bool)
	if tags, ok := actual.([]string); ok {
		for _, tag := range tags {
			have[tag] = true
		}
	}
	for _, tag := range required {
		if !have[tag] {
			return false
		}
	}
	return true
}

func init() {
	registry.MustRegisterFilter(registry.FilterSpec{
		Config:      (&FNSFilter{}).Config(),
		Primary:     "match",
		Description: "Match files by tags in their name (date, subject, page, version, tags)",
		New: func(opts registry.Options) (types.Filter, error) {
			return NewFNSFilter(opts)
		},
	})
}
