package parser

// Visitor receives enter and exit events for each node of a depth-first walk.
// Exit for a node is always delivered after the exits of all its children.
type Visitor interface {
	Enter(n Node)
	Exit(n Node)
}

// Walk traverses the tree rooted at n in document order.
func Walk(n Node, v Visitor) {
	if n == nil {
		return
	}
	v.Enter(n)
	for _, child := range n.Children() {
		Walk(child, v)
	}
	v.Exit(n)
}
