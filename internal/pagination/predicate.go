package pagination

import "fmt"

// Columns names the two keyset columns of a collection.
type Columns struct {
	Sort     string // timestamp column, e.g. "created_at"
	Tiebreak string // id column, e.g. "id"
}

// Predicate is a SQL fragment plus its arguments, ready to be conjoined
// into a WHERE clause. Placeholders are numbered from the offset given to
// BuildPredicate.
type Predicate struct {
	SQL  string
	Args []any
}

// BuildPredicate produces the strict "strictly past this position"
// comparison for the given order. tiebreak is the cursor's tiebreak already
// converted to the column's native type by the caller.
//
// For a descending primary key the next page holds rows that compare
// lower; ascending mirrors with the comparison flipped. The secondary
// column only decides among rows equal on the primary.
func BuildPredicate(order Order, cols Columns, c Cursor, tiebreak any, firstArg int) Predicate {
	sortArg := fmt.Sprintf("$%d", firstArg)
	tieArg := fmt.Sprintf("$%d", firstArg+1)
	args := []any{c.SortValue, tiebreak}

	var sql string
	switch order {
	case OrderCreatedDesc:
		sql = fmt.Sprintf("(%[1]s < %[3]s OR (%[1]s = %[3]s AND %[2]s < %[4]s))",
			cols.Sort, cols.Tiebreak, sortArg, tieArg)
	case OrderCreatedAsc:
		sql = fmt.Sprintf("(%[1]s > %[3]s OR (%[1]s = %[3]s AND %[2]s > %[4]s))",
			cols.Sort, cols.Tiebreak, sortArg, tieArg)
	case OrderIDDesc:
		sql = fmt.Sprintf("(%[2]s < %[4]s OR (%[2]s = %[4]s AND %[1]s < %[3]s))",
			cols.Sort, cols.Tiebreak, sortArg, tieArg)
	case OrderIDAsc:
		sql = fmt.Sprintf("(%[2]s > %[4]s OR (%[2]s = %[4]s AND %[1]s > %[3]s))",
			cols.Sort, cols.Tiebreak, sortArg, tieArg)
	}
	return Predicate{SQL: sql, Args: args}
}

// OrderBy renders the ORDER BY expression matching the predicate, both
// columns in the same direction so the ordering is total.
func OrderBy(order Order, cols Columns) string {
	switch order {
	case OrderCreatedDesc:
		return fmt.Sprintf("%s DESC, %s DESC", cols.Sort, cols.Tiebreak)
	case OrderCreatedAsc:
		return fmt.Sprintf("%s ASC, %s ASC", cols.Sort, cols.Tiebreak)
	case OrderIDDesc:
		return fmt.Sprintf("%s DESC, %s DESC", cols.Tiebreak, cols.Sort)
	case OrderIDAsc:
		return fmt.Sprintf("%s ASC, %s ASC", cols.Tiebreak, cols.Sort)
	}
	return fmt.Sprintf("%s DESC, %s DESC", cols.Sort, cols.Tiebreak)
}
