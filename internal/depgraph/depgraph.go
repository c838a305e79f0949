// Package depgraph verifies that declared dependencies between entries form
// a fully resolvable acyclic graph.
package depgraph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCycle matches any CycleError.
	ErrCycle = errors.New("dependency cycle detected")

	// ErrUnresolvedDependency matches any UnresolvedError.
	ErrUnresolvedDependency = errors.New("unresolvable dependency")

	// ErrDuplicateID is returned when two nodes share an id.
	ErrDuplicateID = errors.New("duplicate id")
)

// Node is anything exposing an id and the ids it depends on.
type Node interface {
	NodeID() string
	DependencyIDs() []string
}

// CycleError reports a cycle. ID is the node that closes the back edge and
// Cycle lists the path from ID around the cycle back to ID.
type CycleError struct {
	ID    string
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected at %q: %s", e.ID, strings.Join(e.Cycle, " -> "))
}

// Is reports whether target is ErrCycle.
func (e *CycleError) Is(target error) bool { return target == ErrCycle }

// UnresolvedError reports a dependency on an id that is not in the batch.
type UnresolvedError struct {
	ID         string
	Dependency string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("entry %q depends on unknown id %q", e.ID, e.Dependency)
}

// Is reports whether target is ErrUnresolvedDependency.
func (e *UnresolvedError) Is(target error) bool { return target == ErrUnresolvedDependency }

type color uint8

const (
	unvisited color = iota
	visiting
	visited
)

type checker struct {
	adj   map[string][]string
	color map[string]color
	stack []string
}

// Check returns nil when every dependency names a node in nodes and the
// dependency relation is acyclic. Blank dependency ids are ignored.
func Check[N Node](nodes []N) error {
	c := &checker{
		adj:   make(map[string][]string, len(nodes)),
		color: make(map[string]color, len(nodes)),
	}

	order := make([]string, 0, len(nodes))

	for _, n := range nodes {
		id := n.NodeID()
		if _, dup := c.adj[id]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateID, id)
		}

		deps := make([]string, 0, len(n.DependencyIDs()))
		for _, d := range n.DependencyIDs() {
			if strings.TrimSpace(d) != "" {
				deps = append(deps, d)
			}
		}

		c.adj[id] = deps
		order = append(order, id)
	}

	for _, id := range order {
		if c.color[id] == unvisited {
			if err := c.visit(id); err != nil {
				return err
			}
		}
	}

	return nil
}

func (c *checker) visit(id string) error {
	c.color[id] = visiting
	c.stack = append(c.stack, id)

	for _, dep := range c.adj[id] {
		if _, ok := c.adj[dep]; !ok {
			return &UnresolvedError{ID: id, Dependency: dep}
		}

		switch c.color[dep] {
		case visiting:
			return &CycleError{ID: dep, Cycle: c.cycleFrom(dep)}
		case unvisited:
			if err := c.visit(dep); err != nil {
				return err
			}
		case visited:
		}
	}

	c.stack = c.stack[:len(c.stack)-1]
	c.color[id] = visited

	return nil
}

func (c *checker) cycleFrom(id string) []string {
	for i, s := range c.stack {
		if s == id {
			cycle := append([]string(nil), c.stack[i:]...)

			return append(cycle, id)
		}
	}

	return []string{id}
}
