// Package resulttree stores assembled test results as an ordered tree.
//
// Nodes live in a single slice owned by the Tree and are addressed by NodeID.
// Parent links are plain indexes used for upward traversal only. A subtree built
// elsewhere (for example a parsed report) joins a tree through Attach, which moves
// its nodes over and leaves the donor tree consumed.
package resulttree

import "fmt"

// NodeID addresses a node inside one Tree.
type NodeID int

// NoNode is the parent of a tree's root.
const NoNode NodeID = -1

// Kind ...
type Kind int

// Node kinds.
const (
	KindRoot Kind = iota
	KindSuite
	KindCase
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindSuite:
		return "suite"
	case KindCase:
		return "case"
	default:
		return "unknown"
	}
}

// Node is a read-only copy of a node's attributes.
type Node struct {
	Kind  Kind
	Name  string
	State State

	// ClassName is the declaring class of a case.
	ClassName string
	// Time is the reported duration in seconds.
	Time float64
	// Source is the report file a suite was parsed from.
	Source string

	// Message, Type and Details describe a failure, error or skip.
	Message string
	Type    string
	Details string
}

// IsContainer ...
func (n Node) IsContainer() bool {
	return n.Kind != KindCase
}

// Case holds the attributes of a case node.
type Case struct {
	Name      string
	ClassName string
	State     State
	Time      float64
	Message   string
	Type      string
	Details   string
}

type entry struct {
	node     Node
	parent   NodeID
	children []NodeID
}

// Tree ...
type Tree struct {
	entries  []entry
	consumed bool
}

// New returns a tree holding a single root node named name.
func New(name string) *Tree {
	return newTree(Node{Kind: KindRoot, Name: name, State: Aggregated})
}

// NewSuite returns a detached tree rooted at a suite node.
func NewSuite(name, source string) *Tree {
	return newTree(Node{Kind: KindSuite, Name: name, State: Aggregated, Source: source})
}

func newTree(root Node) *Tree {
	return &Tree{entries: []entry{{node: root, parent: NoNode}}}
}

// Root ...
func (t *Tree) Root() NodeID {
	t.mustBeLive()
	return 0
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.entries)
}

// Node returns a copy of the node's attributes.
func (t *Tree) Node(id NodeID) Node {
	return t.entry(id).node
}

// Parent returns the parent of id, or NoNode for the root.
func (t *Tree) Parent(id NodeID) NodeID {
	return t.entry(id).parent
}

// Children returns the children of id in insertion order.
func (t *Tree) Children(id NodeID) []NodeID {
	children := t.entry(id).children
	return append([]NodeID(nil), children...)
}

// AddSuite appends a suite container under parent.
func (t *Tree) AddSuite(parent NodeID, name string) NodeID {
	return t.add(parent, Node{Kind: KindSuite, Name: name, State: Aggregated})
}

// AddCase appends a case leaf under parent.
func (t *Tree) AddCase(parent NodeID, c Case) NodeID {
	if !c.State.IsLeafState() {
		panic(fmt.Sprintf("resulttree: case %q cannot carry state %s", c.Name, c.State))
	}

	return t.add(parent, Node{
		Kind:      KindCase,
		Name:      c.Name,
		ClassName: c.ClassName,
		State:     c.State,
		Time:      c.Time,
		Message:   c.Message,
		Type:      c.Type,
		Details:   c.Details,
	})
}

// Attach moves every node of sub under parent and returns the new id of sub's root.
// sub is consumed: it must not be used afterwards.
func (t *Tree) Attach(parent NodeID, sub *Tree) NodeID {
	t.mustAcceptChildren(parent)
	if sub == t {
		panic("resulttree: cannot attach a tree to itself")
	}
	sub.mustBeLive()
	if sub.entries[0].node.Kind == KindRoot {
		panic("resulttree: cannot attach a root node as a child")
	}

	offset := NodeID(len(t.entries))
	for i, e := range sub.entries {
		moved := entry{node: e.node, parent: e.parent + offset}
		if i == 0 {
			moved.parent = parent
		}
		if len(e.children) > 0 {
			moved.children = make([]NodeID, len(e.children))
			for j, child := range e.children {
				moved.children[j] = child + offset
			}
		}
		t.entries = append(t.entries, moved)
	}
	t.entries[parent].children = append(t.entries[parent].children, offset)

	sub.entries = nil
	sub.consumed = true

	return offset
}

// State returns the effective state of id: the stored state for a case,
// the rollup of the children's effective states for a container.
func (t *Tree) State(id NodeID) State {
	e := t.entry(id)
	if e.node.Kind == KindCase {
		return e.node.State
	}

	states := make([]State, 0, len(e.children))
	for _, child := range e.children {
		states = append(states, t.State(child))
	}
	return Rollup(states...)
}

// Walk visits id and its descendants in pre-order and stops at the first error fn returns.
func (t *Tree) Walk(id NodeID, fn func(id NodeID, node Node) error) error {
	e := t.entry(id)
	if err := fn(id, e.node); err != nil {
		return err
	}
	for _, child := range e.children {
		if err := t.Walk(child, fn); err != nil {
			return err
		}
	}
	return nil
}

// Leaves returns the case nodes at or beneath id in pre-order.
func (t *Tree) Leaves(id NodeID) []NodeID {
	var leaves []NodeID
	_ = t.Walk(id, func(id NodeID, node Node) error {
		if node.Kind == KindCase {
			leaves = append(leaves, id)
		}
		return nil
	})
	return leaves
}

// Containers returns the root and suite nodes strictly beneath id in pre-order.
func (t *Tree) Containers(id NodeID) []NodeID {
	var containers []NodeID
	_ = t.Walk(id, func(nodeID NodeID, node Node) error {
		if nodeID != id && node.IsContainer() {
			containers = append(containers, nodeID)
		}
		return nil
	})
	return containers
}

func (t *Tree) add(parent NodeID, node Node) NodeID {
	t.mustAcceptChildren(parent)

	id := NodeID(len(t.entries))
	t.entries = append(t.entries, entry{node: node, parent: parent})
	t.entries[parent].children = append(t.entries[parent].children, id)
	return id
}

func (t *Tree) mustAcceptChildren(parent NodeID) {
	if t.entry(parent).node.Kind == KindCase {
		panic(fmt.Sprintf("resulttree: case node %d cannot have children", parent))
	}
}

func (t *Tree) mustBeLive() {
	if t.consumed {
		panic("resulttree: tree was already attached to another tree")
	}
}

func (t *Tree) entry(id NodeID) *entry {
	t.mustBeLive()
	if id < 0 || int(id) >= len(t.entries) {
		panic(fmt.Sprintf("resulttree: unknown node %d", id))
	}
	return &t.entries[id]
}
