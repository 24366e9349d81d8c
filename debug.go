package trackview

import (
	"fmt"
	"log/slog"
	"os"
	"time"
)

// debugEnvVar enables debug mode for every new chart when set to any value.
const debugEnvVar = "TRACKVIEW_DEBUG"

// debugEnabled reports whether n is attached to a scene in debug mode. Nodes
// reach their scene through the root of their tree.
func debugEnabled(n *Node) bool {
	for n.Parent != nil {
		n = n.Parent
	}
	return n.scene != nil && n.scene.debug
}

// passStats holds per-pass timing and reconciliation counts.
// Only populated when debug mode is on.
type passStats struct {
	prepareTime   time.Duration
	reconcileTime time.Duration
	decorateTime  time.Duration
	tracks        Diff
	items         Diff
	leaves        Diff
}

// newDebugLogger returns a text logger on stderr with a trackview group.
func newDebugLogger() *slog.Logger {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(h).WithGroup("trackview")
}

func debugFromEnv() bool {
	return os.Getenv(debugEnvVar) != ""
}

// logPass prints timing and reconciliation stats.
func (s *Scene) logPass(mode string, stats passStats) {
	if !s.debug {
		return
	}
	total := stats.prepareTime + stats.reconcileTime + stats.decorateTime
	s.logger.Debug("render pass",
		"mode", mode,
		"prepare", stats.prepareTime,
		"reconcile", stats.reconcileTime,
		"decorate", stats.decorateTime,
		"total", total,
	)
	s.logger.Debug("reconcile",
		"tracks", stats.tracks.String(),
		"items", stats.items.String(),
		"leaves", stats.leaves.String(),
	)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("trackview debug: %s on disposed node %q (ID %d)", op, n.Name, n.ID))
	}
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[trackview] warning: tree depth %d exceeds %d (node %q)\n",
			depth, debugMaxTreeDepth, n.Name)
	}
}

// debugCheckChildCount warns on stderr if a node has more than 10000 children.
const debugMaxChildCount = 10000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[trackview] warning: node %q has %d children (threshold %d)\n",
			n.Name, len(n.children), debugMaxChildCount)
	}
}
