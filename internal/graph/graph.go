// Package graph renders trajectories as Graphviz DOT.
package graph

import (
	"fmt"

	"github.com/emicklei/dot"

	"github.com/shivanikabu/agentic-governance-suite/pkg/types"
)

// palette colours trajectories in turn, wrapping after the last entry.
var palette = []string{
	"lightblue",
	"lightgreen",
	"lightcoral",
	"khaki",
	"lightgoldenrod1",
	"lightgrey",
}

// Color returns the fill colour of the i-th (0-based) trajectory.
func Color(i int) string {
	return palette[i%len(palette)]
}

// Build creates a left-to-right directed graph with one cluster per
// trajectory. Every position in a path gets its own node, so a participant
// that appears in several trajectories is drawn once per trajectory.
func Build(trajectories []types.Trajectory) *dot.Graph {
	g := dot.NewGraph(dot.Directed)
	g.Attr("rankdir", "LR")
	g.Attr("size", "16,6")

	for i, t := range trajectories {
		n := t.Index
		if n == 0 {
			n = i + 1
		}
		color := Color(i)

		sub := g.Subgraph(fmt.Sprintf("Trajectory %d", n), dot.ClusterOption{})
		sub.Attr("style", "filled")
		sub.Attr("color", "white")
		sub.Attr("rank", "same")

		var prev dot.Node
		for j, name := range t.Path {
			node := sub.Node(fmt.Sprintf("%s_traj%d_%d", name, n, j)).
				Label(name).
				Attr("style", "filled").
				Attr("fillcolor", color).
				Attr("shape", "box")
			if j > 0 {
				sub.Edge(prev, node)
			}
			prev = node
		}
	}
	return g
}

// Render returns the DOT source for trajectories.
func Render(trajectories []types.Trajectory) string {
	return Build(trajectories).String()
}
