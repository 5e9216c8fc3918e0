package config

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/dosort/pkg/actions"
	"github.com/arthur-debert/dosort/pkg/errors"
	"github.com/arthur-debert/dosort/pkg/filesystem"
	"github.com/arthur-debert/dosort/pkg/filters"
	"github.com/arthur-debert/dosort/pkg/logging"
	"github.com/arthur-debert/dosort/pkg/registry"
	"github.com/arthur-debert/dosort/pkg/rules"
	"github.com/arthur-debert/dosort/pkg/types"
)

// notPrefix inverts a filter or a dependency edge
const notPrefix = "not "

var ruleKeys = map[string]bool{
	"name": true, "enabled": true, "targets": true, "locations": true,
	"subfolders": true, "tags": true, "filters": true, "filter_mode": true,
	"actions": true,
}

var groupFilterKeys = map[string]bool{
	"filters": true, "filter_mode": true, "depend_on": true, "depend_on_mode": true,
}

type ruleDoc struct {
	Name       string     `yaml:"name"`
	Enabled    *bool      `yaml:"enabled"`
	Targets    string     `yaml:"targets"`
	Locations  yaml.Node  `yaml:"locations"`
	Subfolders bool       `yaml:"subfolders"`
	Tags       stringList `yaml:"tags"`
	Filters    yaml.Node  `yaml:"filters"`
	FilterMode string     `yaml:"filter_mode"`
	Actions    yaml.Node  `yaml:"actions"`
}

type locationDoc struct {
	Path               string      `yaml:"path"`
	MinDepth           int         `yaml:"min_depth"`
	MaxDepth           interface{} `yaml:"max_depth"`
	ExcludeFiles       stringList  `yaml:"exclude_files"`
	ExcludeDirs        stringList  `yaml:"exclude_dirs"`
	SystemExcludeFiles *stringList `yaml:"system_exclude_files"`
	SystemExcludeDirs  *stringList `yaml:"system_exclude_dirs"`
	Filter             stringList  `yaml:"filter"`
	FilterDirs         stringList  `yaml:"filter_dirs"`
	IgnoreErrors       bool        `yaml:"ignore_errors"`
}

type groupFilterDoc struct {
	Filters      yaml.Node  `yaml:"filters"`
	FilterMode   string     `yaml:"filter_mode"`
	DependOn     stringList `yaml:"depend_on"`
	DependOnMode string     `yaml:"depend_on_mode"`
}

// stringList accepts a single string or a possibly nested list of strings
type stringList []string

func (s *stringList) UnmarshalYAML(n *yaml.Node) error {
	var out []string
	for _, item := range flatten(n) {
		if item.Kind != yaml.ScalarNode {
			return nodeError(item, "expected a string")
		}
		out = append(out, item.Value)
	}
	*s = out
	return nil
}

// LoadRules reads the rules file at path from fsys and builds the rules.
// The rules act on fsys, or on the OS filesystem when fsys is nil.
func LoadRules(fsys types.FS, path string) ([]*rules.Rule, error) {
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read rules file %s", path)
	}
	logger := logging.GetLogger("config.rules")
	logger.Debug().Str("path", path).Msg("Loading rules")
	return ParseRules(data, fsys)
}

// ParseRules builds the rules of a YAML rules document
func ParseRules(data []byte, fsys types.FS) ([]*rules.Rule, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "invalid YAML")
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := resolve(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, nodeError(root, "expected a mapping with a rules key")
	}

	var ruleNodes []*yaml.Node
	for _, pair := range pairs(root) {
		if pair[0].Value == "rules" {
			ruleNodes = flatten(pair[1])
		}
	}

	result := make([]*rules.Rule, 0, len(ruleNodes))
	for nr, n := range ruleNodes {
		rule, err := parseRule(n, fsys)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "rule #%d", nr)
		}
		result = append(result, rule)
	}
	return result, nil
}

func parseRule(n *yaml.Node, fsys types.FS) (*rules.Rule, error) {
	if n.Kind != yaml.MappingNode {
		return nil, nodeError(n, "a rule must be a mapping")
	}
	for _, pair := range pairs(n) {
		if !ruleKeys[pair[0].Value] {
			return nil, nodeError(pair[0], "unknown rule key %q", pair[0].Value)
		}
	}

	var doc ruleDoc
	if err := n.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "invalid rule")
	}

	r := rules.Rule{
		Name:       doc.Name,
		Enabled:    doc.Enabled == nil || *doc.Enabled,
		Targets:    types.Target(doc.Targets),
		Subfolders: doc.Subfolders,
		Tags:       doc.Tags,
		FilterMode: types.FilterMode(doc.FilterMode),
		FS:         fsys,
	}

	var err error
	if r.Locations, err = parseLocations(&doc.Locations); err != nil {
		return nil, err
	}

	filtersNode := resolve(&doc.Filters)
	if filtersNode.Kind == yaml.MappingNode {
		r.GroupFilters, err = parseGroupFilters(filtersNode)
	} else {
		r.Filters, err = parseFilterList(filtersNode)
	}
	if err != nil {
		return nil, err
	}

	actionsNode := resolve(&doc.Actions)
	if actionsNode.Kind == yaml.MappingNode {
		r.GroupActions, err = parseGroupActions(actionsNode)
	} else {
		r.Actions, err = parseActionList(actionsNode)
	}
	if err != nil {
		return nil, err
	}

	return rules.New(r)
}

func parseLocations(n *yaml.Node) ([]rules.Location, error) {
	var locations []rules.Location
	for _, item := range flatten(n) {
		if item.Kind == yaml.ScalarNode {
			locations = append(locations, rules.Location{Path: item.Value})
			continue
		}

		var doc locationDoc
		if err := item.Decode(&doc); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigParse, "invalid location")
		}
		loc := rules.Location{
			Path:         doc.Path,
			MinDepth:     doc.MinDepth,
			ExcludeFiles: doc.ExcludeFiles,
			ExcludeDirs:  doc.ExcludeDirs,
			Filter:       doc.Filter,
			FilterDirs:   doc.FilterDirs,
			IgnoreErrors: doc.IgnoreErrors,
		}
		if doc.SystemExcludeFiles != nil {
			loc.SystemExcludeFiles = append([]string{}, *doc.SystemExcludeFiles...)
		}
		if doc.SystemExcludeDirs != nil {
			loc.SystemExcludeDirs = append([]string{}, *doc.SystemExcludeDirs...)
		}
		switch depth := doc.MaxDepth.(type) {
		case nil:
		case int:
			loc.MaxDepth = &depth
		case string:
			if depth != "inherit" {
				return nil, nodeError(item, "max_depth must be a number or inherit")
			}
		default:
			return nil, nodeError(item, "max_depth must be a number or inherit")
		}
		locations = append(locations, loc)
	}
	return locations, nil
}

func parseFilterList(n *yaml.Node) ([]types.Filter, error) {
	var list []types.Filter
	for _, item := range flatten(n) {
		name, value, err := parseItem(item)
		if err != nil {
			return nil, err
		}
		inverted := strings.HasPrefix(name, notPrefix)
		name = strings.TrimSpace(strings.TrimPrefix(name, notPrefix))

		filter, err := registry.NewFilter(name, value)
		if err != nil {
			return nil, err
		}
		if inverted {
			filter = filters.Not(filter)
		}
		list = append(list, filter)
	}
	return list, nil
}

func parseGroupFilters(n *yaml.Node) ([]filters.GroupFilter, error) {
	var groups []filters.GroupFilter
	for _, pair := range pairs(n) {
		group := filters.GroupFilter{Name: pair[0].Value}
		value := resolve(pair[1])

		var filterNode *yaml.Node
		switch value.Kind {
		case yaml.MappingNode:
			for _, p := range pairs(value) {
				if !groupFilterKeys[p[0].Value] {
					return nil, nodeError(p[0], "unknown key %q in group filter %q", p[0].Value, group.Name)
				}
			}
			var doc groupFilterDoc
			if err := value.Decode(&doc); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "invalid group filter %q", group.Name)
			}
			filterNode = &doc.Filters
			group.FilterMode = types.FilterMode(doc.FilterMode)
			group.DependOnMode = types.DependOnMode(doc.DependOnMode)
			for _, dep := range doc.DependOn {
				if strings.HasPrefix(dep, notPrefix) {
					dep = strings.TrimSpace(strings.TrimPrefix(dep, notPrefix))
					group.DependOnInverted = append(group.DependOnInverted, dep)
				}
				group.DependOn = append(group.DependOn, dep)
			}
		default:
			filterNode = value
		}

		var err error
		if group.Filters, err = parseFilterList(filterNode); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "group filter %q", group.Name)
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func parseActionList(n *yaml.Node) ([]types.Action, error) {
	var list []types.Action
	for _, item := range flatten(n) {
		name, value, err := parseItem(item)
		if err != nil {
			return nil, err
		}
		action, err := registry.NewAction(name, value)
		if err != nil {
			return nil, err
		}
		list = append(list, action)
	}
	return list, nil
}

func parseGroupActions(n *yaml.Node) ([]*actions.GroupAction, error) {
	var groups []*actions.GroupAction
	for _, pair := range pairs(n) {
		group := &actions.GroupAction{Name: pair[0].Value}
		value := resolve(pair[1])
		if value.Kind == yaml.MappingNode {
			var inner *yaml.Node
			for _, p := range pairs(value) {
				if p[0].Value != "actions" {
					return nil, nodeError(p[0], "unknown key %q in group action %q", p[0].Value, group.Name)
				}
				inner = p[1]
			}
			value = inner
		}

		var err error
		if group.Actions, err = parseActionList(value); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "group action %q", group.Name)
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// parseItem splits a filter or action entry into its name and raw option
// value. Accepted shapes are name, {name: null}, {name: scalar} and
// {name: {option: value}}.
func parseItem(n *yaml.Node) (string, interface{}, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Value, nil, nil
	case yaml.MappingNode:
		p := pairs(n)
		if len(p) != 1 {
			return "", nil, nodeError(n, "expected a single name, got %d keys", len(p))
		}
		var value interface{}
		if err := resolve(p[0][1]).Decode(&value); err != nil {
			return "", nil, errors.Wrapf(err, errors.ErrConfigParse, "invalid options for %q", p[0][0].Value)
		}
		return p[0][0].Value, value, nil
	}
	return "", nil, nodeError(n, "expected a name or a mapping")
}
