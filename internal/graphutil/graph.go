// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package graphutil provides a small directed-graph abstraction over labeled nodes that
// works with existing graph libraries. It is used to validate lexical containment
// relations (scope chains) before the visibility analysis runs.
package graphutil

import (
	"sort"

	"gonum.org/v1/gonum/graph"
)

// SGraph is a directed graph over labeled nodes. It implements the methods to satisfy
// yourbasic's graph.Iterator and Gonum's graph.Graph.
type SGraph struct {
	// The order of the graph
	order int

	// IDMap maps from node IDs to SNodes
	IDMap map[int64]SNode

	// Keys are all the node IDs
	Keys []int64

	// Edges is an adjacency matrix: Edges[x][y] means there is a directed edge between IDMap[x] and IDMap[y]
	Edges map[int64]map[int64]bool
}

// Builder accumulates labeled nodes and edges, and produces an SGraph. Node ids are
// assigned in insertion order, so graphs built from sorted inputs are deterministic.
type Builder struct {
	ids    map[string]int64
	labels []string
	edges  map[int64]map[int64]bool
}

// NewBuilder returns an empty graph builder.
func NewBuilder() *Builder {
	return &Builder{
		ids:   map[string]int64{},
		edges: map[int64]map[int64]bool{},
	}
}

// AddNode inserts a node with the given label if not already present and returns its id.
func (b *Builder) AddNode(label string) int64 {
	if id, ok := b.ids[label]; ok {
		return id
	}
	id := int64(len(b.labels))
	b.ids[label] = id
	b.labels = append(b.labels, label)
	b.edges[id] = map[int64]bool{}
	return id
}

// AddEdge inserts a directed edge between the nodes labeled from and to, inserting the
// nodes themselves when needed.
func (b *Builder) AddEdge(from string, to string) {
	f := b.AddNode(from)
	t := b.AddNode(to)
	b.edges[f][t] = true
}

// Graph returns the graph accumulated so far.
func (b *Builder) Graph() SGraph {
	n := len(b.labels)
	idmap := make(map[int64]SNode, n)
	keys := make([]int64, n)
	for label, id := range b.ids {
		idmap[id] = SNode{id: id, Label: label}
		keys[id] = id
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return SGraph{
		order: n,
		IDMap: idmap,
		Keys:  keys,
		Edges: b.edges,
	}
}

// Subgraph returns a new graph that is the original graph with only the nodes in include. Only the edges that have
// both the origin and destination nodes in the include nodes are kept in the resulting graph.
// The subgraph's order and IDMap are the same as in the original, meaning that node indices will stay consistent
// across subgraphs.
func Subgraph(original SGraph, include []int64) SGraph {
	idmap := make(map[int64]SNode, len(include))
	edges := make(map[int64]map[int64]bool, len(include))
	keys := make([]int64, len(include))

	for j, i := range include {
		keys[j] = i
		idmap[i] = original.IDMap[i]
	}

	for _, i := range include {
		edges[i] = map[int64]bool{}
		for e := range original.Edges[i] {
			if _, ok := idmap[e]; ok {
				edges[i][e] = true
			}
		}
	}

	return SGraph{
		order: original.Order(),
		IDMap: original.IDMap,
		Edges: edges,
		Keys:  keys,
	}
}

// Order implements the order of the graph.Iterator interface for the SGraph
func (c SGraph) Order() int {
	return c.order
}

// Visit implements the graph.Iterator interface for the SGraph
func (c SGraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	if _, ok := c.IDMap[int64(v)]; !ok {
		return false
	}
	for w := range c.Edges[int64(v)] {
		if do(int(w), 1) {
			return true
		}
	}
	return false
}

// *************** Graph interface implementation **********************

// Node implements the Graph interface
func (c SGraph) Node(v int) graph.Node {
	return c.IDMap[int64(v)]
}

// Nodes returns the set of nodes in the graph
func (c SGraph) Nodes() graph.Nodes {
	keys := make([]int64, len(c.IDMap))

	i := 0
	for k := range c.IDMap {
		keys[i] = k
		i++
	}
	return &NodeSet{
		nodes: c.IDMap,
		ids:   keys,
		cur:   0,
	}
}

// From returns the set of nodes reachable from the id
func (c SGraph) From(id int64) graph.Nodes {
	var keys []int64

	for out := range c.Edges[id] {
		keys = append(keys, out)
	}
	return &NodeSet{
		nodes: c.IDMap,
		ids:   keys,
		cur:   0,
	}
}

// HasEdgeBetween returns a boolean indicating whether an edge exists between the two node identifiers
func (c SGraph) HasEdgeBetween(xid, yid int64) bool {
	xe := c.Edges[xid]
	ye := c.Edges[yid]
	return xe[yid] || ye[xid]
}

// Edge returns the edge between the two identifiers (nil if none exists)
func (c SGraph) Edge(uid, vid int64) graph.Edge {
	ue := c.Edges[uid]
	if ue != nil {
		if ue[vid] {
			return SEdge{from: c.IDMap[uid], to: c.IDMap[vid]}
		}
	}
	return nil
}

// *************** Nodes implementation **********************

// SNode is a labeled node that implements the graph.Node interface
type SNode struct {
	id int64

	// Label is the scope identity this node stands for
	Label string
}

// ID returns the id of the node
func (n SNode) ID() int64 {
	return n.id
}

func (n SNode) String() string {
	return n.Label
}

// NodeSet implements the graph.Nodes interface, an iterator over a set of nodes
type NodeSet struct {
	// nodes is the set of nodes in the iterator
	nodes map[int64]SNode

	// ids is the set of node ids in the iterator
	// invariant: len(ids) = len(nodes)
	ids []int64

	// cur is the current index of the iterator. The current node is nodes[ids[cur]]
	// invariant: 0 <= cur < len(nodes)
	cur int
}

// Next moves the current node to the next, and returns true if such a node exists. Otherwise, returns false
// and the current node has not changed.
func (ns *NodeSet) Next() bool {
	if ns.cur < len(ns.ids)-1 {
		ns.cur++
		return true
	}
	return false
}

// Len returns the length of the node set
func (ns *NodeSet) Len() int {
	return len(ns.ids)
}

// Reset resets the id of the current node in the set
func (ns *NodeSet) Reset() {
	ns.cur = 0
}

// Node return the current node in the set
func (ns *NodeSet) Node() graph.Node {
	return ns.nodes[ns.ids[ns.cur]]
}

// *************** Edge implementation **********************

// SEdge implements the graph.Edge interface
type SEdge struct {
	from SNode
	to   SNode
}

// From returns the origin of the edge
func (e SEdge) From() graph.Node {
	return e.from
}

// To returns the destination of the edge
func (e SEdge) To() graph.Node {
	return e.to
}

// ReversedEdge returns a new value representing the reversed edge
func (e SEdge) ReversedEdge() graph.Edge {
	return SEdge{from: e.to, to: e.from}
}
