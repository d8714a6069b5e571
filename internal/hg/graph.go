package hg

import (
	"strings"

	"github.com/maxbolgarin/errm"

	"github.com/sergeknystautas/hgview/internal/vcs"
)

const (
	// graphCommitMarker is the text printed by graphTemplate on a node row.
	graphCommitMarker = 'o'
	// graphNodeMarker is the glyph drawn at the node's lane.
	graphNodeMarker = '*'
)

// ReconstructGraph assigns a lane to every commit from the rows of a graph
// log of the same page. The i-th commit row belongs to the i-th commit, so
// commits and rows must come from queries with identical pagination.
// Reconstruction stops when either input is exhausted.
func ReconstructGraph(commits []vcs.Commit, rows []string) (vcs.Graph, error) {
	g := vcs.Graph{Commits: make([]vcs.Commit, 0, len(commits))}
	next := 0
	for _, row := range rows {
		if next >= len(commits) {
			break
		}
		compact, ok := commitRow(row)
		if !ok {
			continue
		}
		level := strings.IndexByte(compact, graphNodeMarker)
		if level < 0 {
			return vcs.Graph{}, vcs.E(vcs.MalformedOutput, "reconstruct graph",
				errm.Errorf("commit row %q has no node marker", row))
		}

		c := commits[next]
		c.GraphLevel = level
		g.Commits = append(g.Commits, c)
		g.Levels = max(g.Levels, level)
		next++
	}
	return g, nil
}

// CountCommitRows returns the number of node rows in a graph log.
func CountCommitRows(rows []string) int {
	n := 0
	for _, row := range rows {
		if _, ok := commitRow(row); ok {
			n++
		}
	}
	return n
}

// commitRow strips the spaces between lanes and reports whether row is a node row.
func commitRow(row string) (string, bool) {
	compact := strings.ReplaceAll(row, " ", "")
	return compact, strings.IndexByte(compact, graphCommitMarker) >= 0
}
