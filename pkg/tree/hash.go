package tree

import (
	"sort"

	"github.com/cqfn/patternika-sub000/pkg/hashutil"
)

// Hash domain separators keep type, data, and child contributions apart so
// that e.g. a type "ab" with no data does not collide with type "a" data "b".
const (
	isoSeed  uint64 = 0x6973_6f6d_6f72_7068
	simSeed  uint64 = 0x7369_6d69_6c61_7220
	dataSalt uint64 = 0x6461_7461_0000_0001
)

// Hasher computes memoized structural hashes. Each hash is computed once per
// node identity and reused for the lifetime of the Hasher, so hashing a whole
// tree is O(N). A Hasher is not safe for concurrent use.
type Hasher struct {
	isomorphism map[Node]uint64
	similarity  map[Node]uint64
}

// NewHasher creates an empty Hasher.
func NewHasher() *Hasher {
	return &Hasher{
		isomorphism: make(map[Node]uint64),
		similarity:  make(map[Node]uint64),
	}
}

// Isomorphism returns a hash of the type shape of the subtree rooted at n:
// the node type combined with the ordered hashes of its children. Data is
// ignored, so equal hashes identify families of structurally identical trees.
func (hasher *Hasher) Isomorphism(n Node) uint64 {
	if cached, ok := hasher.isomorphism[n]; ok {
		return cached
	}

	value := hashutil.Combine(isoSeed, hashutil.String(n.Type()))

	for idx := range n.ChildCount() {
		value = hashutil.Combine(value, hasher.Isomorphism(n.Child(idx)))
	}

	hasher.isomorphism[n] = value

	return value
}

// Similarity returns a hash of type, data, and the ordered hashes of the
// children. Equal values imply (up to collisions) equal subtrees, which makes
// it a fast pre-filter before a full predicate comparison.
func (hasher *Hasher) Similarity(n Node) uint64 {
	if cached, ok := hasher.similarity[n]; ok {
		return cached
	}

	value := hashutil.Combine(simSeed, hashutil.String(n.Type()))
	value = hashutil.Combine(value, hashutil.String(n.Data())^dataSalt)

	for idx := range n.ChildCount() {
		value = hashutil.Combine(value, hasher.Similarity(n.Child(idx)))
	}

	hasher.similarity[n] = value

	return value
}

// Family is a set of subtrees sharing one isomorphism hash.
type Family struct {
	Members []Node
	Hash    uint64
	Size    int
}

// Families groups the non-leaf subtrees of root by isomorphism hash and
// returns every group with at least two members. Groups are sorted by subtree
// size, largest first, then by hash; members keep pre-order.
func (hasher *Hasher) Families(root Node) []Family {
	groups := make(map[uint64]*Family)

	var order []uint64

	for _, current := range DepthFirst(root) {
		if current.ChildCount() == 0 {
			continue
		}

		key := hasher.Isomorphism(current)

		group, ok := groups[key]
		if !ok {
			group = &Family{Hash: key, Size: Size(current)}
			groups[key] = group
			order = append(order, key)
		}

		group.Members = append(group.Members, current)
	}

	families := make([]Family, 0, len(order))

	for _, key := range order {
		if group := groups[key]; len(group.Members) > 1 {
			families = append(families, *group)
		}
	}

	sort.SliceStable(families, func(i, j int) bool {
		if families[i].Size != families[j].Size {
			return families[i].Size > families[j].Size
		}

		return families[i].Hash < families[j].Hash
	})

	return families
}
