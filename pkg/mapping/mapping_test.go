package mapping_test

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cqfn/patternika-sub000/pkg/mapping"
)

// element stands in for a tree node: distinct pointers with equal contents
// must be distinct keys.
type element struct{ name string }

func assertBalanced[T comparable](t *testing.T, table *mapping.Mapping[T]) {
	t.Helper()

	for key, value := range table.All() {
		back, ok := table.Get(value)
		require.True(t, ok, "partner %v of %v has no link back", value, key)
		require.Equal(t, key, back, "unbalanced link %v -> %v -> %v", key, value, back)
	}
}

func TestMapping_ConnectAndGet(t *testing.T) {
	t.Parallel()

	table := mapping.New[string]()
	table.Connect("a", "b")

	partner, ok := table.Get("a")
	require.True(t, ok)
	assert.Equal(t, "b", partner)

	partner, ok = table.Get("b")
	require.True(t, ok)
	assert.Equal(t, "a", partner)

	assert.True(t, table.Contains("a"))
	assert.True(t, table.Connected("a", "b"))
	assert.True(t, table.Connected("b", "a"))
	assert.False(t, table.Connected("a", "c"))
	assert.Equal(t, 2, table.Len())

	_, ok = table.Get("c")
	assert.False(t, ok)
}

func TestMapping_ConnectBreaksPreviousLinks(t *testing.T) {
	t.Parallel()

	table := mapping.New[string]()
	table.Connect("a", "b")
	table.Connect("c", "d")
	table.Connect("a", "d")

	assert.True(t, table.Connected("a", "d"))
	assert.False(t, table.Contains("b"))
	assert.False(t, table.Contains("c"))
	assert.Equal(t, 2, table.Len())
	assertBalanced(t, table)
}

func TestMapping_ConnectIsIdempotent(t *testing.T) {
	t.Parallel()

	table := mapping.New[string]()
	table.Connect("a", "b")
	table.Connect("a", "b")
	table.Connect("b", "a")

	assert.True(t, table.Connected("a", "b"))
	assert.Equal(t, 2, table.Len())
}

func TestMapping_Disconnect(t *testing.T) {
	t.Parallel()

	table := mapping.New[string]()
	table.Connect("a", "b")

	assert.True(t, table.Disconnect("b"))
	assert.False(t, table.Contains("a"))
	assert.False(t, table.Contains("b"))
	assert.False(t, table.Disconnect("a"))
	assert.Equal(t, 0, table.Len())
}

func TestMapping_IdentityKeys(t *testing.T) {
	t.Parallel()

	first, second := &element{"x"}, &element{"x"}
	target := &element{"y"}

	table := mapping.New[*element]()
	table.Connect(first, target)

	assert.True(t, table.Contains(first))
	assert.False(t, table.Contains(second))
}

func TestMapping_Merge(t *testing.T) {
	t.Parallel()

	left := mapping.New[string]()
	left.Connect("a", "1")

	right := mapping.New[string]()
	right.Connect("b", "2")
	right.Connect("a", "1")

	merged, err := left.Merge(right)
	require.NoError(t, err)

	assert.True(t, merged.Connected("a", "1"))
	assert.True(t, merged.Connected("b", "2"))
	assert.Equal(t, 4, merged.Len())
	assertBalanced(t, merged)

	assert.Equal(t, 2, left.Len())
	assert.Equal(t, 4, right.Len())
}

func TestMapping_MergeConflict(t *testing.T) {
	t.Parallel()

	left := mapping.New[string]()
	left.Connect("a", "1")

	right := mapping.New[string]()
	right.Connect("a", "2")

	merged, err := left.Merge(right)
	require.Error(t, err)
	assert.Nil(t, merged)
	require.ErrorIs(t, err, mapping.ErrMergeConflict)

	var conflict *mapping.ConflictError[string]
	require.True(t, errors.As(err, &conflict))
	assert.NotEqual(t, conflict.Existing, conflict.Incoming)

	// Inputs are untouched.
	assert.True(t, left.Connected("a", "1"))
	assert.Equal(t, 2, left.Len())
	assert.True(t, right.Connected("a", "2"))
	assert.Equal(t, 2, right.Len())
}

func TestMapping_Redirect(t *testing.T) {
	t.Parallel()

	pattern, intermediate, target := &element{"p"}, &element{"i"}, &element{"t"}
	orphan, orphanMid := &element{"q"}, &element{"j"}

	first := mapping.New[*element]()
	first.Connect(pattern, intermediate)
	first.Connect(orphan, orphanMid)

	second := mapping.New[*element]()
	second.Connect(intermediate, target)

	chained, err := first.Redirect(second)
	require.NoError(t, err)

	assert.True(t, chained.Connected(pattern, target))
	assert.False(t, chained.Contains(orphan))
	assert.False(t, chained.Contains(intermediate))
	assert.Equal(t, 2, chained.Len())
	assertBalanced(t, chained)
}

func TestMapping_RedirectOverlap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		first     [][2]string
		second    [][2]string
		wantPairs [][2]string
	}{
		{
			name:   "two sources reach one target",
			first:  [][2]string{{"a", "b"}, {"c", "d"}},
			second: [][2]string{{"b", "c"}, {"d", "e"}},
		},
		{
			name:      "consistent overlap",
			first:     [][2]string{{"a", "b"}, {"c", "d"}},
			second:    [][2]string{{"b", "c"}, {"d", "a"}},
			wantPairs: [][2]string{{"a", "c"}, {"b", "d"}},
		},
		{
			name:      "disjoint chains",
			first:     [][2]string{{"a", "b"}, {"c", "d"}},
			second:    [][2]string{{"b", "x"}, {"d", "y"}},
			wantPairs: [][2]string{{"a", "x"}, {"c", "y"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			first, second := mapping.New[string](), mapping.New[string]()
			for _, pair := range tt.first {
				first.Connect(pair[0], pair[1])
			}

			for _, pair := range tt.second {
				second.Connect(pair[0], pair[1])
			}

			// The outcome must not depend on map iteration order.
			for range 50 {
				chained, err := first.Redirect(second)

				if tt.wantPairs == nil {
					require.ErrorIs(t, err, mapping.ErrMergeConflict)

					var conflict *mapping.ConflictError[string]
					require.ErrorAs(t, err, &conflict)
					assert.Nil(t, chained)

					continue
				}

				require.NoError(t, err)
				assertBalanced(t, chained)

				for _, pair := range tt.wantPairs {
					assert.True(t, chained.Connected(pair[0], pair[1]), "%v", pair)
				}
			}
		})
	}
}

func TestMapping_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	table := mapping.New[int]()
	table.Connect(1, 2)

	clone := table.Clone()
	clone.Connect(1, 3)

	assert.True(t, table.Connected(1, 2))
	assert.True(t, clone.Connected(1, 3))
	assert.False(t, clone.Contains(2))
}

func TestConvert(t *testing.T) {
	t.Parallel()

	table := mapping.New[int]()
	table.Connect(1, 2)
	table.Connect(3, 4)

	converted := mapping.Convert(table, func(v int) int { return v * 10 })

	assert.True(t, converted.Connected(10, 20))
	assert.True(t, converted.Connected(30, 40))
	assertBalanced(t, converted)
}

func TestMapping_BalanceUnderRandomOperations(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(7, 11))
	table := mapping.New[int]()

	const (
		elements   = 12
		operations = 2000
	)

	for range operations {
		switch rng.IntN(4) {
		case 0, 1:
			table.Connect(rng.IntN(elements), rng.IntN(elements))
		case 2:
			table.Disconnect(rng.IntN(elements))
		default:
			other := mapping.New[int]()
			other.Connect(rng.IntN(elements), rng.IntN(elements))

			if merged, err := table.Merge(other); err == nil {
				table = merged
			} else {
				require.ErrorIs(t, err, mapping.ErrMergeConflict)
			}

			redirected, err := table.Redirect(identity(elements))
			require.NoError(t, err)

			table = redirected
		}

		assertBalanced(t, table)
	}
}

func identity(n int) *mapping.Mapping[int] {
	table := mapping.New[int]()
	for idx := range n {
		table.Connect(idx, idx)
	}

	return table
}
