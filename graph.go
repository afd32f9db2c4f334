package units

import (
	"sort"
	"strings"

	"github.com/golang/glog"
)

// Rule is one line of a conversion table: 1 From = Rate To.
type Rule struct {
	From string
	Rate float64
	To   string
}

// Conversion is a direct edge out of a unit: 1 <unit> = Rate To.
type Conversion struct {
	To   string
	Rate float64
}

// Path is a chain of units discovered by FindPath together with the
// compounded factor from its first unit to its last.
type Path struct {
	Units  []string
	Factor float64
}

func (p Path) String() string {
	return strings.Join(p.Units, " -> ")
}

// ConversionGraph maps every known unit to its direct conversions.
// It is not safe for concurrent mutation; populate it before use.
type ConversionGraph struct {
	edges map[string][]Conversion
}

func NewConversionGraph() *ConversionGraph {
	return &ConversionGraph{
		edges: make(map[string][]Conversion),
	}
}

// RegisterEdge records 1 src = rate dst and its inverse 1 dst = 1/rate src.
// The rate is not validated; a zero or negative rate is the caller's problem.
func (g *ConversionGraph) RegisterEdge(src, dst string, rate float64) {
	g.edges[src] = append(g.edges[src], Conversion{To: dst, Rate: rate})
	g.edges[dst] = append(g.edges[dst], Conversion{To: src, Rate: 1 / rate})
	glog.V(4).Infof("registered 1 %s = %g %s", src, rate, dst)
}

// Load registers every rule in order.
func (g *ConversionGraph) Load(rules []Rule) {
	for _, r := range rules {
		g.RegisterEdge(r.From, r.To, r.Rate)
	}
}

// Reset drops all units and conversions.
func (g *ConversionGraph) Reset() {
	g.edges = make(map[string][]Conversion)
}

// Reload replaces the whole table with rules.
func (g *ConversionGraph) Reload(rules []Rule) {
	g.Reset()
	g.Load(rules)
}

func (g *ConversionGraph) Exists(unit string) bool {
	_, ok := g.edges[unit]
	return ok
}

// Len returns the number of registered units.
func (g *ConversionGraph) Len() int {
	return len(g.edges)
}

// Units returns the registered unit names in sorted order.
func (g *ConversionGraph) Units() []string {
	names := make([]string, 0, len(g.edges))
	for name := range g.edges {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Conversions returns a copy of the direct conversions out of unit.
func (g *ConversionGraph) Conversions(unit string) []Conversion {
	return append([]Conversion(nil), g.edges[unit]...)
}

// FindConversionFactor returns f such that 1 from = f to.
func (g *ConversionGraph) FindConversionFactor(from, to string) (float64, bool) {
	p, ok := g.FindPath(from, to)
	if !ok {
		return 0, false
	}
	return p.Factor, true
}

type searchEntry struct {
	path   []string
	factor float64
}

// FindPath searches breadth-first from `from` for `to`. A unit is never
// expanded twice on the same path, but may appear on many different paths.
// The first path reaching `to` wins: fewest hops, ties broken by insertion order.
func (g *ConversionGraph) FindPath(from, to string) (Path, bool) {
	if from == to {
		return Path{Units: []string{from}, Factor: 1}, true
	}

	queue := []searchEntry{{path: []string{from}, factor: 1}}
	expanded := 0
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		last := current.path[len(current.path)-1]
		if last == to {
			glog.V(4).Infof("conversion path %s (x%g)", strings.Join(current.path, " -> "), current.factor)
			return Path{Units: current.path, Factor: current.factor}, true
		}

		expanded++
		for _, c := range g.edges[last] {
			if onPath(c.To, current.path) {
				continue
			}
			next := make([]string, len(current.path), len(current.path)+1)
			copy(next, current.path)
			queue = append(queue, searchEntry{
				path:   append(next, c.To),
				factor: current.factor * c.Rate,
			})
		}
	}
	glog.V(5).Infof("no conversion path %s -> %s after expanding %d paths", from, to, expanded)
	return Path{}, false
}

func onPath(unit string, path []string) bool {
	for _, u := range path {
		if u == unit {
			return true
		}
	}
	return false
}
