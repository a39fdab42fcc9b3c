//go:build unit

package table_test

import (
	"testing"
	"time"

	"mesa-reserve/internal/domain/table"
	"mesa-reserve/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type availabilityCase struct {
	name   string
	mutate func(*builder.TableBuilder)
	errIs  error
}

func runAvailabilityCases(t *testing.T, cases []availabilityCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := builder.NewTableBuilder()
			tc.mutate(b)
			_, err := b.BuildAvailability()
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewAvailability(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		availability, err := builder.NewTableBuilder().BuildAvailability()
		require.NoError(t, err)

		blocks := availability.Blocks()
		require.Len(t, blocks, 1)
		assert.Equal(t, "2025-06-11", blocks[0].Date().String())
		require.Len(t, blocks[0].Ranges(), 2)
		assert.Equal(t, "18:00-20:00", blocks[0].Ranges()[0].String())
		assert.Equal(t, "20:00-22:00", blocks[0].Ranges()[1].String())
	})

	t.Run("block validation", func(t *testing.T) {
		runAvailabilityCases(t, []availabilityCase{
			{
				name: "ranges out of order are sorted",
				mutate: func(b *builder.TableBuilder) {
					b.WithBlocks(builder.BlockSpec{
						Date:  "2025-06-11",
						Times: []string{"20:00-22:00", "18:00-20:00"},
					})
				},
			},
			{
				name: "overlapping ranges",
				mutate: func(b *builder.TableBuilder) {
					b.WithBlocks(builder.BlockSpec{
						Date:  "2025-06-11",
						Times: []string{"18:00-20:00", "19:00-21:00"},
					})
				},
				errIs: table.ErrOverlappingRanges,
			},
			{
				name: "block without ranges",
				mutate: func(b *builder.TableBuilder) {
					b.WithBlocks(builder.BlockSpec{Date: "2025-06-11"})
				},
				errIs: table.ErrEmptyBlock,
			},
		})
	})

	t.Run("authoring time checks", func(t *testing.T) {
		runAvailabilityCases(t, []availabilityCase{
			{
				name: "duplicate date across blocks",
				mutate: func(b *builder.TableBuilder) {
					b.WithBlocks(
						builder.BlockSpec{Date: "2025-06-11", Times: []string{"18:00-20:00"}},
						builder.BlockSpec{Date: "2025-06-11", Times: []string{"20:00-22:00"}},
					)
				},
				errIs: table.ErrDuplicateDate,
			},
			{
				name: "date before today",
				mutate: func(b *builder.TableBuilder) {
					b.WithBlocks(builder.BlockSpec{Date: "2025-06-09", Times: []string{"18:00-20:00"}})
				},
				errIs: table.ErrDateInPast,
			},
			{
				name: "today with a start already passed",
				mutate: func(b *builder.TableBuilder) {
					b.WithBlocks(builder.BlockSpec{Date: "2025-06-10", Times: []string{"11:00-13:00"}})
				},
				errIs: table.ErrStartInPast,
			},
			{
				name: "today with only future starts",
				mutate: func(b *builder.TableBuilder) {
					b.WithBlocks(builder.BlockSpec{Date: "2025-06-10", Times: []string{"13:00-15:00"}})
				},
			},
		})
	})

	t.Run("blocks are sorted by date", func(t *testing.T) {
		availability, err := builder.NewTableBuilder().WithBlocks(
			builder.BlockSpec{Date: "2025-06-13", Times: []string{"18:00-20:00"}},
			builder.BlockSpec{Date: "2025-06-11", Times: []string{"18:00-20:00"}},
			builder.BlockSpec{Date: "2025-06-12", Times: []string{"18:00-20:00"}},
		).BuildAvailability()
		require.NoError(t, err)

		blocks := availability.Blocks()
		require.Len(t, blocks, 3)
		assert.Equal(t, "2025-06-11", blocks[0].Date().String())
		assert.Equal(t, "2025-06-12", blocks[1].Date().String())
		assert.Equal(t, "2025-06-13", blocks[2].Date().String())
	})
}

func TestReconstructAvailability(t *testing.T) {
	t.Run("accepts blocks that aged into the past", func(t *testing.T) {
		b := builder.NewTableBuilder()
		b.Now = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		blocks, err := b.BuildBlocks()
		require.NoError(t, err)

		availability := table.ReconstructAvailability(blocks)
		assert.False(t, availability.IsEmpty())

		_, err = b.BuildAvailability()
		assert.ErrorIs(t, err, table.ErrDateInPast)
	})
}
