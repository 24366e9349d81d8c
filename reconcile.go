package trackview

import (
	"fmt"
	"strconv"
)

// Binding describes how one level of the scene is bound to a slice of items.
// Nodes are matched to items by Key among the parent's children that carry
// Class; children of other classes are ignored.
type Binding[T any] struct {
	// Class is the class marker of the bound children.
	Class string

	// Key derives an item's identity. It must come from the item's domain
	// identity (sample name, interval), never from its index.
	Key func(item T, i int) string

	// Create builds the node for a new key. The node is appended to the parent
	// after Create returns, and Update runs on it in the same pass.
	Create func(item T, i int) *Node

	// Update writes the item's current state onto its node. It runs for every
	// bound item, new or existing, in item order.
	Update func(n *Node, item T, i int)

	// Remove detaches a node whose key vanished. Defaults to Dispose.
	Remove func(n *Node)
}

// Diff summarizes one reconciliation.
type Diff struct {
	Created int
	Updated int
	Removed int

	// Nodes holds the bound nodes in item order.
	Nodes []*Node
}

func (d Diff) String() string {
	return fmt.Sprintf("+%d ~%d -%d", d.Created, d.Updated, d.Removed)
}

// add accumulates counts from another diff. Nodes are not merged.
func (d *Diff) add(o Diff) {
	d.Created += o.Created
	d.Updated += o.Updated
	d.Removed += o.Removed
}

// match pairs an item index with the existing node bound to its key.
type match struct {
	index int
	node  *Node
}

// reconcilePlan partitions existing nodes and incoming keys into three
// disjoint sets.
type reconcilePlan struct {
	enter  []int   // item indices with no node
	update []match // item indices with an existing node
	exit   []*Node // nodes whose key is gone
}

// planReconcile computes the plan for existing nodes against incoming keys.
// Keys must already be unique.
func planReconcile(existing []*Node, keys []string) reconcilePlan {
	byKey := make(map[string]*Node, len(existing))
	for _, n := range existing {
		if _, dup := byKey[n.Key]; !dup {
			byKey[n.Key] = n
		}
	}
	var p reconcilePlan
	used := make(map[*Node]bool, len(keys))
	for i, k := range keys {
		if n, ok := byKey[k]; ok && !used[n] {
			used[n] = true
			p.update = append(p.update, match{index: i, node: n})
			continue
		}
		p.enter = append(p.enter, i)
	}
	for _, n := range existing {
		if !used[n] {
			p.exit = append(p.exit, n)
		}
	}
	return p
}

// uniqueKeys suffixes repeated keys with "#2", "#3", ... in order of
// appearance so each item binds to its own node.
func uniqueKeys[T any](items []T, key func(T, int) string) []string {
	keys := make([]string, len(items))
	seen := make(map[string]int, len(items))
	for i, it := range items {
		k := key(it, i)
		seen[k]++
		if c := seen[k]; c > 1 {
			k += "#" + strconv.Itoa(c)
		}
		keys[i] = k
	}
	return keys
}

// Reconcile binds items to the children of parent that carry b.Class.
// A node is removed only when its key is absent from items; a node whose key
// is present is kept and updated in place, so its ID, running transitions and
// click handlers survive. New nodes are appended after the existing children;
// existing nodes keep their paint order.
func Reconcile[T any](parent *Node, items []T, b Binding[T]) Diff {
	keys := uniqueKeys(items, b.Key)
	plan := planReconcile(parent.ChildrenByClass(b.Class), keys)

	var d Diff
	for _, n := range plan.exit {
		if b.Remove != nil {
			b.Remove(n)
		} else {
			n.Dispose()
		}
		d.Removed++
	}

	nodes := make([]*Node, len(items))
	for _, m := range plan.update {
		nodes[m.index] = m.node
		d.Updated++
	}
	for _, i := range plan.enter {
		n := b.Create(items[i], i)
		n.Class = b.Class
		n.Key = keys[i]
		parent.AddChild(n)
		nodes[i] = n
		d.Created++
	}

	if b.Update != nil {
		for i, n := range nodes {
			b.Update(n, items[i], i)
		}
	}
	d.Nodes = nodes
	return d
}
