package filters

import (
	"github.com/arthur-debert/dosort/pkg/errors"
	"github.com/arthur-debert/dosort/pkg/logging"
	"github.com/arthur-debert/dosort/pkg/types"
)

// GroupFilter is a named set of filters that may depend on other groups.
// A group is only evaluated once the groups it depends on have been decided.
type GroupFilter struct {
	Name       string
	Filters    []types.Filter
	FilterMode types.FilterMode

	// DependOn lists parent group names in declaration order. Names that do
	// not refer to a group of the same rule are ignored.
	DependOn     []string
	DependOnMode types.DependOnMode

	// DependOnInverted holds the parents whose edge fires when the parent
	// did NOT match. Every entry must also appear in DependOn.
	DependOnInverted []string
}

// Pipeline evaluates the group's own filters
func (g GroupFilter) Pipeline(res *types.Resource, out types.Output) (bool, error) {
	mode := g.FilterMode
	if mode == "" {
		mode = types.FilterModeAll
	}
	return Evaluate(g.Filters, mode, res, out)
}

// IsInverted reports whether the edge from parent is inverted
func (g GroupFilter) IsInverted(parent string) bool {
	for _, name := range g.DependOnInverted {
		if name == parent {
			return true
		}
	}
	return false
}

// Graph is the dependency graph of the group filters of one rule. It is
// built once per rule and matched against every resource.
type Graph struct {
	groups   []GroupFilter
	index    map[string]int
	indegree []int
	children [][]int

	// inverted[child][parent] is set when the edge parent -> child is inverted
	inverted []map[int]bool
}

// buildEdges indexes groups and returns in-degrees and child lists. Children
// are kept in group declaration order, duplicate edges are counted once.
func buildEdges(groups []GroupFilter) (map[string]int, []int, [][]int) {
	index := make(map[string]int, len(groups))
	for i, g := range groups {
		if _, exists := index[g.Name]; !exists {
			index[g.Name] = i
		}
	}

	indegree := make([]int, len(groups))
	children := make([][]int, len(groups))
	for i, g := range groups {
		seen := make(map[int]bool, len(g.DependOn))
		for _, dep := range g.DependOn {
			parent, ok := index[dep]
			if !ok || seen[parent] {
				continue
			}
			seen[parent] = true
			indegree[i]++
			children[parent] = append(children[parent], i)
		}
	}
	return index, indegree, children
}

// IsCyclic reports whether the dependency edges between groups form a cycle
func IsCyclic(groups []GroupFilter) bool {
	_, indegree, children := buildEdges(groups)

	queue := make([]int, 0, len(groups))
	for i, deg := range indegree {
		if deg == 0 {
			queue = append(queue, i)
		}
	}

	visited := 0
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		visited++
		for _, child := range children[current] {
			indegree[child]--
			if indegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}
	return visited != len(groups)
}

// NewGraph validates groups and builds their dependency graph
func NewGraph(groups []GroupFilter) (*Graph, error) {
	seen := make(map[string]bool, len(groups))
	for _, g := range groups {
		if g.Name == "" {
			return nil, errors.New(errors.ErrInvalidInput, "group filter name cannot be empty")
		}
		if seen[g.Name] {
			return nil, errors.Newf(errors.ErrInvalidInput, "duplicate group filter %q", g.Name)
		}
		seen[g.Name] = true
	}

	if IsCyclic(groups) {
		return nil, errors.New(errors.ErrCyclicDependency, "cyclic dependency detected in group filters")
	}

	index, indegree, children := buildEdges(groups)
	inverted := make([]map[int]bool, len(groups))
	for i, g := range groups {
		for _, dep := range g.DependOnInverted {
			parent, ok := index[dep]
			if !ok {
				continue
			}
			if inverted[i] == nil {
				inverted[i] = make(map[int]bool)
			}
			inverted[i][parent] = true
		}
	}

	return &Graph{
		groups:   groups,
		index:    index,
		indegree: indegree,
		children: children,
		inverted: inverted,
	}, nil
}

// Groups returns the groups in declaration order
func (g *Graph) Groups() []GroupFilter {
	return g.groups
}

// Match evaluates the graph for res and returns the names of the matched
// groups in the order they were decided.
//
// Evaluation proceeds in rounds starting from the groups without parents.
// A decided parent fires the edge to each child when its result differs from
// the edge's inversion flag. A fired edge consumes one unit of the child's
// in-degree; the child joins the next round as soon as it is in "or" mode or
// all its edges fired. Groups whose edges never fire are never evaluated.
func (g *Graph) Match(res *types.Resource, out types.Output) []string {
	logger := logging.GetLogger("filters.graph")

	indegree := make([]int, len(g.indegree))
	copy(indegree, g.indegree)
	evaluated := make([]bool, len(g.groups))

	var frontier []int
	for i, deg := range indegree {
		if deg == 0 {
			frontier = append(frontier, i)
		}
	}

	var result []string
	for round := 0; len(frontier) > 0; round++ {
		var next []int
		for _, current := range frontier {
			if evaluated[current] {
				continue
			}
			evaluated[current] = true

			group := g.groups[current]
			matched, err := group.Pipeline(res, out)
			if err != nil {
				reportGroupError(group.Name, err, res, out)
				matched = false
			}

			logger.Trace().
				Int("round", round).
				Str("group", group.Name).
				Bool("matched", matched).
				Str("path", res.Path).
				Msg("Group evaluated")

			if matched {
				result = append(result, group.Name)
			}

			for _, child := range g.children[current] {
				if matched == g.inverted[child][current] {
					continue
				}
				indegree[child]--
				if evaluated[child] {
					continue
				}
				if g.groups[child].DependOnMode == types.DependOnOr || indegree[child] == 0 {
					next = append(next, child)
				}
			}
		}
		frontier = next
	}

	return result
}

// MatchGroups builds the graph of groups and matches res against it
func MatchGroups(groups []GroupFilter, res *types.Resource, out types.Output) ([]string, error) {
	graph, err := NewGraph(groups)
	if err != nil {
		return nil, err
	}
	return graph.Match(res, out), nil
}

func reportGroupError(name string, err error, res *types.Resource, out types.Output) {
	logger := logging.GetLogger("filters.graph")
	logger.Error().Err(err).Str("group", name).Msg("Group filter failed")
	if out != nil {
		out.Msg(res, err.Error(), types.LevelError, name)
	}
}
