package pagination

import (
	"sort"
	"strconv"
	"testing"
	"time"
)

type row struct {
	id      int
	created time.Time
}

func rowCursor(r row) Cursor {
	return Cursor{SortValue: r.created, Tiebreak: strconv.Itoa(r.id)}
}

func TestTrimPage(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []row{
		{1, base},
		{2, base.Add(time.Minute)},
		{3, base.Add(2 * time.Minute)},
	}

	// Fewer rows than the limit: last page, no cursor.
	page := TrimPage(rows, 5, rowCursor)
	if len(page.Data) != 3 || page.NextCursor != nil {
		t.Errorf("short page: got %d rows, cursor %v", len(page.Data), page.NextCursor)
	}

	// Exactly the limit: still the last page. The surplus row never arrived.
	page = TrimPage(rows, 3, rowCursor)
	if len(page.Data) != 3 || page.NextCursor != nil {
		t.Errorf("exact page: got %d rows, cursor %v", len(page.Data), page.NextCursor)
	}

	// One past the limit: surplus dropped, cursor points at the last kept row.
	page = TrimPage(rows, 2, rowCursor)
	if len(page.Data) != 2 {
		t.Fatalf("full page: got %d rows, want 2", len(page.Data))
	}
	if page.NextCursor == nil {
		t.Fatal("full page must carry a next cursor")
	}
	c, err := Decode(*page.NextCursor)
	if err != nil {
		t.Fatalf("decode next cursor: %v", err)
	}
	if c.Tiebreak != "2" {
		t.Errorf("cursor tiebreak: got %s, want 2 (last kept row)", c.Tiebreak)
	}
}

// ---------------------------------------------------------------------------
// Completeness walk: paging through a collection in every order must visit
// each row exactly once, in the collection's total order, regardless of page
// size. Rows share timestamps so the tiebreak column actually decides.
// ---------------------------------------------------------------------------

// listRows mirrors what a repository does with BuildPredicate: sort, apply
// the strict "past this position" filter, take limit+1.
func listRows(rows []row, order Order, cursor *Cursor, limit int) []row {
	sorted := make([]row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		switch order {
		case OrderCreatedDesc:
			if !a.created.Equal(b.created) {
				return a.created.After(b.created)
			}
			return a.id > b.id
		case OrderCreatedAsc:
			if !a.created.Equal(b.created) {
				return a.created.Before(b.created)
			}
			return a.id < b.id
		case OrderIDDesc:
			return a.id > b.id
		default: // OrderIDAsc
			return a.id < b.id
		}
	})

	var out []row
	for _, r := range sorted {
		if cursor != nil && !pastCursor(r, order, *cursor) {
			continue
		}
		out = append(out, r)
		if len(out) == limit+1 {
			break
		}
	}
	return out
}

func pastCursor(r row, order Order, c Cursor) bool {
	tie, _ := strconv.Atoi(c.Tiebreak)
	switch order {
	case OrderCreatedDesc:
		return r.created.Before(c.SortValue) || (r.created.Equal(c.SortValue) && r.id < tie)
	case OrderCreatedAsc:
		return r.created.After(c.SortValue) || (r.created.Equal(c.SortValue) && r.id > tie)
	case OrderIDDesc:
		return r.id < tie
	default: // OrderIDAsc
		return r.id > tie
	}
}

func TestPaginationWalk_CompleteAndOrdered(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var rows []row
	for i := 1; i <= 25; i++ {
		// Five rows per timestamp, forcing tiebreak comparisons.
		rows = append(rows, row{id: i, created: base.Add(time.Duration(i/5) * time.Hour)})
	}

	orders := []Order{OrderCreatedDesc, OrderCreatedAsc, OrderIDDesc, OrderIDAsc}
	for _, order := range orders {
		for _, limit := range []int{1, 4, 10, 25, 30} {
			full := listRows(rows, order, nil, len(rows))

			var walked []row
			var cursor *Cursor
			for pages := 0; ; pages++ {
				if pages > len(rows) {
					t.Fatalf("%s limit=%d: walk did not terminate", order, limit)
				}
				fetched := listRows(rows, order, cursor, limit)
				page := TrimPage(fetched, limit, rowCursor)
				walked = append(walked, page.Data...)
				if page.NextCursor == nil {
					break
				}
				c, err := Decode(*page.NextCursor)
				if err != nil {
					t.Fatalf("%s limit=%d: decode cursor: %v", order, limit, err)
				}
				cursor = &c
			}

			if len(walked) != len(full) {
				t.Fatalf("%s limit=%d: walked %d rows, want %d", order, limit, len(walked), len(full))
			}
			for i := range full {
				if walked[i].id != full[i].id {
					t.Fatalf("%s limit=%d: position %d: got id %d, want %d",
						order, limit, i, walked[i].id, full[i].id)
				}
			}
		}
	}
}
