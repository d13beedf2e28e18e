package ir

// Walk performs a depth-first, pre-order traversal of the tree rooted at
// node, invoking fn for each node. If fn returns a non-nil error, the walk
// aborts immediately and returns that error.
func Walk(node Node, fn func(Node) error) error {
	return WalkEnterAndExit(node, fn, nil)
}

// WalkEnterAndExit performs a depth-first traversal of the tree rooted at
// node. The enter function is invoked before a node's children are visited
// and the exit function after. Either may be nil. If either returns a
// non-nil error, the walk aborts immediately and returns that error.
func WalkEnterAndExit(node Node, enter, exit func(Node) error) error {
	if enter != nil {
		if err := enter(node); err != nil {
			return err
		}
	}
	for _, child := range node.Children() {
		if err := WalkEnterAndExit(child, enter, exit); err != nil {
			return err
		}
	}
	if exit != nil {
		if err := exit(node); err != nil {
			return err
		}
	}
	return nil
}
