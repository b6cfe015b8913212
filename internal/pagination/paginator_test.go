package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestParsePageNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"abc", 1},
		{"0", 1},
		{"-3", 1},
		{"2", 2},
		{" 7 ", 7},
		{"1.5", 1},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePageNumber(tt.raw))
		})
	}
}

func TestPaginate_ThirteenItems(t *testing.T) {
	t.Parallel()

	items := seq(13)

	first := Paginate(items, 10, 1)
	assert.Len(t, first.Items, 10)
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, 2, first.NumPages)
	assert.Equal(t, 13, first.Count)
	assert.True(t, first.HasNext)
	assert.False(t, first.HasPrevious)

	second := Paginate(items, 10, 2)
	assert.Equal(t, []int{10, 11, 12}, second.Items)
	assert.False(t, second.HasNext)
	assert.True(t, second.HasPrevious)
}

func TestPaginate_ClampsOutOfRange(t *testing.T) {
	t.Parallel()

	page := Paginate(seq(13), 10, 99)
	assert.Equal(t, 2, page.Number)
	assert.Len(t, page.Items, 3)

	page = Paginate(seq(13), 10, 0)
	assert.Equal(t, 1, page.Number)
	assert.Len(t, page.Items, 10)
}

func TestPaginate_Empty(t *testing.T) {
	t.Parallel()

	page := Paginate([]int{}, 10, 3)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.NumPages)
	assert.False(t, page.HasNext)
	assert.False(t, page.HasPrevious)
}

func TestPaginate_DefaultPageSize(t *testing.T) {
	t.Parallel()

	page := Paginate(seq(25), 0, 1)
	assert.Len(t, page.Items, DefaultPageSize)
	assert.Equal(t, 3, page.NumPages)
}

func TestPaginate_PagesReassembleSequence(t *testing.T) {
	t.Parallel()

	for total := 1; total <= 40; total++ {
		for size := 1; size <= 12; size++ {
			items := seq(total)
			first := Paginate(items, size, 1)

			var joined []int
			for n := 1; n <= first.NumPages; n++ {
				page := Paginate(items, size, n)
				require.Equal(t, n, page.Number)
				if n < first.NumPages {
					require.Len(t, page.Items, size, "total=%d size=%d page=%d", total, size, n)
				} else {
					want := total % size
					if want == 0 {
						want = size
					}
					require.Len(t, page.Items, want, "total=%d size=%d last page", total, size)
				}
				joined = append(joined, page.Items...)
			}
			require.Equal(t, items, joined, "total=%d size=%d", total, size)
		}
	}
}

func TestResolve_Window(t *testing.T) {
	t.Parallel()

	w := Resolve(13, 10, 2)
	assert.Equal(t, Window{Number: 2, NumPages: 2, Count: 13, Offset: 10, Limit: 3}, w)

	w = Resolve(0, 10, 5)
	assert.Equal(t, Window{Number: 1, NumPages: 1, Count: 0, Offset: 0, Limit: 0}, w)
}
