package avl

import "cmp"

// node is one key of the tree together with every value inserted under it.
// Each node owns its subtrees; there are no parent pointers.
type node[K, V any] struct {
	key    K
	values []V
	left   *node[K, V]
	right  *node[K, V]
	height int
}

// Tree is a height-balanced binary search tree mapping each key to the
// values inserted under it, in insertion order.
//
// Tree is not safe for concurrent use; callers serialize access.
type Tree[K, V any] struct {
	root    *node[K, V]
	compare func(a, b K) int
	keys    int
	size    int
}

// New returns an empty tree ordered by compare, which returns a negative
// number, zero or a positive number when a < b, a == b or a > b.
func New[K, V any](compare func(a, b K) int) *Tree[K, V] {
	return &Tree[K, V]{compare: compare}
}

// NewOrdered returns an empty tree over a naturally ordered key type.
func NewOrdered[K cmp.Ordered, V any]() *Tree[K, V] {
	return New[K, V](cmp.Compare[K])
}

// Len returns the number of values stored.
func (t *Tree[K, V]) Len() int { return t.size }

// Keys returns the number of distinct keys.
func (t *Tree[K, V]) Keys() int { return t.keys }

// Height returns the height of the tree; an empty tree has height 0.
func (t *Tree[K, V]) Height() int { return height(t.root) }

// Insert adds v under key. An existing key gets v appended to its value
// list and the tree shape does not change.
func (t *Tree[K, V]) Insert(key K, v V) {
	t.root = t.insert(t.root, key, v)
	t.size++
}

func (t *Tree[K, V]) insert(n *node[K, V], key K, v V) *node[K, V] {
	if n == nil {
		t.keys++
		return &node[K, V]{key: key, values: []V{v}, height: 1}
	}

	c := t.compare(key, n.key)
	switch {
	case c == 0:
		n.values = append(n.values, v)
		return n
	case c < 0:
		n.left = t.insert(n.left, key, v)
	default:
		n.right = t.insert(n.right, key, v)
	}

	updateHeight(n)

	// The inserted key against the near child's key tells the outer
	// (single rotation) case from the inner (double rotation) one.
	switch bf := balance(n); {
	case bf > 1:
		if t.compare(key, n.left.key) < 0 {
			return rotateRight(n)
		}
		n.left = rotateLeft(n.left)
		return rotateRight(n)
	case bf < -1:
		if t.compare(key, n.right.key) > 0 {
			return rotateLeft(n)
		}
		n.right = rotateRight(n.right)
		return rotateLeft(n)
	}
	return n
}

func rotateLeft[K, V any](z *node[K, V]) *node[K, V] {
	y := z.right
	z.right = y.left
	y.left = z
	updateHeight(z)
	updateHeight(y)
	return y
}

func rotateRight[K, V any](z *node[K, V]) *node[K, V] {
	y := z.left
	z.left = y.right
	y.right = z
	updateHeight(z)
	updateHeight(y)
	return y
}

func height[K, V any](n *node[K, V]) int {
	if n == nil {
		return 0
	}
	return n.height
}

func updateHeight[K, V any](n *node[K, V]) {
	n.height = 1 + max(height(n.left), height(n.right))
}

func balance[K, V any](n *node[K, V]) int {
	if n == nil {
		return 0
	}
	return height(n.left) - height(n.right)
}

// Equal returns the values stored under target, in insertion order.
func (t *Tree[K, V]) Equal(target K) []V {
	n := t.root
	for n != nil {
		c := t.compare(target, n.key)
		switch {
		case c == 0:
			out := make([]V, len(n.values))
			copy(out, n.values)
			return out
		case c < 0:
			n = n.left
		default:
			n = n.right
		}
	}
	return nil
}

// LessThan returns the values of every key strictly below target. Values of
// one key keep their insertion order; the order across keys is unspecified.
func (t *Tree[K, V]) LessThan(target K) []V {
	var out []V
	t.lessThan(t.root, target, &out)
	return out
}

func (t *Tree[K, V]) lessThan(n *node[K, V], target K, out *[]V) {
	if n == nil {
		return
	}
	if t.compare(n.key, target) < 0 {
		collect(n.left, out)
		*out = append(*out, n.values...)
		t.lessThan(n.right, target, out)
		return
	}
	t.lessThan(n.left, target, out)
}

// GreaterThan returns the values of every key strictly above target.
func (t *Tree[K, V]) GreaterThan(target K) []V {
	var out []V
	t.greaterThan(t.root, target, &out)
	return out
}

func (t *Tree[K, V]) greaterThan(n *node[K, V], target K, out *[]V) {
	if n == nil {
		return
	}
	if t.compare(n.key, target) > 0 {
		collect(n.right, out)
		*out = append(*out, n.values...)
		t.greaterThan(n.left, target, out)
		return
	}
	t.greaterThan(n.right, target, out)
}

func collect[K, V any](n *node[K, V], out *[]V) {
	if n == nil {
		return
	}
	collect(n.left, out)
	*out = append(*out, n.values...)
	collect(n.right, out)
}

// Walk visits keys in ascending order with their values and the height of
// their node. It stops early when fn returns false.
func (t *Tree[K, V]) Walk(fn func(key K, values []V, height int) bool) {
	walk(t.root, fn)
}

func walk[K, V any](n *node[K, V], fn func(K, []V, int) bool) bool {
	if n == nil {
		return true
	}
	if !walk(n.left, fn) {
		return false
	}
	if !fn(n.key, n.values, n.height) {
		return false
	}
	return walk(n.right, fn)
}
