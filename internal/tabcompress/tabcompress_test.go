package tabcompress

import "testing"

func TestPack(t *testing.T) {
	const empty = 0

	tests := []struct {
		name     string
		original []int
		rowCount int
		colCount int
	}{
		{
			name: "fully dense",
			original: []int{
				1, 1, 1, 1, 1,
				1, 1, 1, 1, 1,
				1, 1, 1, 1, 1,
			},
			rowCount: 3,
			colCount: 5,
		},
		{
			name: "fully empty",
			original: []int{
				empty, empty, empty, empty, empty,
				empty, empty, empty, empty, empty,
				empty, empty, empty, empty, empty,
			},
			rowCount: 3,
			colCount: 5,
		},
		{
			name: "one empty row",
			original: []int{
				1, 1, 1, 1, 1,
				empty, empty, empty, empty, empty,
				1, 1, 1, 1, 1,
			},
			rowCount: 3,
			colCount: 5,
		},
		{
			name: "staggered sparsity",
			original: []int{
				1, empty, 1, 1, 1,
				1, 1, empty, 1, 1,
				1, 1, 1, empty, 1,
			},
			rowCount: 3,
			colCount: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dup := append([]int{}, tt.original...)

			orig, err := NewDenseTable(tt.original, tt.colCount)
			if err != nil {
				t.Fatal(err)
			}
			packed := Pack(orig, empty)

			rowCount, colCount := packed.OriginalRowCount, packed.OriginalColCount
			if rowCount != tt.rowCount || colCount != tt.colCount {
				t.Fatalf("unexpected table size; want: %vx%v, got: %vx%v", tt.rowCount, tt.colCount, rowCount, colCount)
			}
			for i := 0; i < tt.rowCount; i++ {
				for j := 0; j < tt.colCount; j++ {
					v, err := packed.Lookup(i, j)
					if err != nil {
						t.Fatal(err)
					}
					want := tt.original[i*tt.colCount+j]
					if v != want {
						t.Fatalf("unexpected entry (%v, %v); want: %v, got: %v", i, j, want, v)
					}
				}
			}

			if _, err := packed.Lookup(0, -1); err == nil {
				t.Fatalf("expected error didn't occur (0, -1)")
			}
			if _, err := packed.Lookup(-1, 0); err == nil {
				t.Fatalf("expected error didn't occur (-1, 0)")
			}
			if _, err := packed.Lookup(rowCount, 0); err == nil {
				t.Fatalf("expected error didn't occur (%v, 0)", rowCount)
			}
			if _, err := packed.Lookup(0, colCount); err == nil {
				t.Fatalf("expected error didn't occur (0, %v)", colCount)
			}

			for i, v := range tt.original {
				if v != dup[i] {
					t.Fatalf("the original table was mutated at %v; want: %v, got: %v", i, dup[i], v)
				}
			}
		})
	}
}

func TestDedupe(t *testing.T) {
	original := []int{
		1, 2, 3,
		1, 2, 3,
		4, 5, 6,
		1, 2, 3,
	}
	orig, err := NewDenseTable(original, 3)
	if err != nil {
		t.Fatal(err)
	}
	deduped := Dedupe(orig)

	if len(deduped.UniqueEntries) != 6 {
		t.Fatalf("expected 2 unique rows (6 entries), got %v entries", len(deduped.UniqueEntries))
	}
	if deduped.RowNums[0] != deduped.RowNums[1] || deduped.RowNums[1] != deduped.RowNums[3] {
		t.Fatalf("rows 0, 1, and 3 are identical and must share a row number: %v", deduped.RowNums)
	}
	if deduped.RowNums[2] == deduped.RowNums[0] {
		t.Fatalf("row 2 differs from row 0 and must not share its row number")
	}
}
