// Package trackview is a retained-mode layout and rendering engine for
// genomic interval tracks.
//
// Records (scored regions, exon/intron transcripts, or region-to-region
// associations) are grouped by chromosome into tracks, placed along a shared
// coordinate axis, colored by a normalized score, and reconciled
// incrementally against a persistent scene graph as data and settings change.
//
// # Quick start
//
//	chart, err := trackview.New("heatmap")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := chart.Load(ctx, trackview.File("scores.tsv")); err != nil {
//		log.Fatal(err)
//	}
//	chart.Settle()
//	trackview.WriteSVG(os.Stdout, chart.Scene())
//
// Hosts drive time themselves: call [Chart.Update] every frame with the
// elapsed seconds, or [Chart.Settle] to jump to the end of all transitions.
// The viewer subpackage runs a chart in an [Ebitengine] window and the server
// subpackage exposes charts over HTTP.
//
// # Graph modes
//
//   - heatmap: one column per interval, one score box per sample, filtered to
//     a single record type. Clicking a box sorts every column by the clicked
//     column's scores.
//   - associations: pairs of regions on a track joined by an arc link colored
//     by the association score. Clicking brings the association to the front.
//   - exons: BED12 transcripts drawn as blocks joined by an intron line.
//
// # Scene graph
//
// Every visual element is a [Node]. Nodes form a tree rooted at
// [Scene.Root]; chart content lives under [Scene.Layer], which carries the
// zoom transform. Children inherit their parent's transform and alpha.
// Nodes carry a class marker (track, heatcolumn, scorebox, link, ...) and a
// reconciliation key.
//
// # Reconciliation
//
// [Reconcile] binds a slice of items to the children of a node by key. Nodes
// whose key is still present are updated in place and keep their identity,
// running transitions and handlers; nodes whose key vanished are disposed;
// new keys get new nodes. Charts reconcile three levels per pass: tracks,
// items within a track, and leaves within an item.
//
// # Interaction
//
// Input never mutates the chart directly. Clicks map to a [Command]
// ([SetSortOrder], [BringToFront]) and gestures to [ZoomBy], [Pan] and
// [ResetZoom]; [Chart.Dispatch] applies them. Whenever the zoom scale returns
// to 1, translation returns to (0, 0).
//
// # Transitions
//
// Position, size, color and alpha changes run through the scene's [Animator]
// using eased tweens from [gween]. Starting a transition on a node supersedes
// the one already running on it.
//
// # Export
//
// [WriteSVG] and [WritePNG] render a scene to SVG or PNG.
//
// # Debug mode
//
// Set TRACKVIEW_DEBUG or call [Chart.SetDebugMode] to log per-pass timings
// and reconciliation counts, and to panic on use of disposed nodes.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package trackview
