package btree

import (
	"fmt"

	"litequery/pkg/sqlerr"
	"litequery/pkg/storage/page"
	"litequery/pkg/types"
)

// Seek returns the entry with the given rowid from the table tree rooted at
// root, or nil when no row has it. Interior pages are binary searched for
// the first boundary at or past the target, leaves for the exact rowid.
func Seek(src *page.Source, root uint32, rowid int64) (*Entry, error) {
	p, err := loadPage(src, root)
	if err != nil {
		return nil, err
	}

	for depth := 0; depth < maxDepth; depth++ {
		if !p.table() {
			return nil, sqlerr.New(sqlerr.CodeCorruptBTree, "rowid seek into an index tree").
				WithDetail(fmt.Sprintf("page %d", p.pageNo))
		}

		if p.leaf() {
			lo, hi := 0, p.cellCount
			for lo < hi {
				mid := (lo + hi) / 2
				off, err := p.cellPointer(mid)
				if err != nil {
					return nil, err
				}
				rid, pay, err := p.tableLeafCell(off)
				if err != nil {
					return nil, err
				}
				switch {
				case rid < rowid:
					lo = mid + 1
				case rid > rowid:
					hi = mid
				default:
					rec, err := decodePayload(src, pay)
					if err != nil {
						return nil, err
					}
					return &Entry{Rowid: rid, Record: rec}, nil
				}
			}
			return nil, nil
		}

		lo, hi := 0, p.cellCount
		for lo < hi {
			mid := (lo + hi) / 2
			off, err := p.cellPointer(mid)
			if err != nil {
				return nil, err
			}
			_, key, err := p.tableInteriorCell(off)
			if err != nil {
				return nil, err
			}
			if key < rowid {
				lo = mid + 1
			} else {
				hi = mid
			}
		}

		next := p.rightMost
		if lo < p.cellCount {
			off, err := p.cellPointer(lo)
			if err != nil {
				return nil, err
			}
			next, _, err = p.tableInteriorCell(off)
			if err != nil {
				return nil, err
			}
		}
		if p, err = childPage(src, next); err != nil {
			return nil, err
		}
	}
	return nil, sqlerr.New(sqlerr.CodeCorruptBTree, "tree deeper than the format allows").
		WithDetail(fmt.Sprintf("%d levels", maxDepth))
}

// IndexMatch is one index entry hit by an equality probe.
type IndexMatch struct {
	Key   types.Value
	Rowid int64
}

// SeekIndex returns every entry of the index tree rooted at root whose key
// column equals key, in ascending rowid order. Subtrees that cannot contain
// the key are pruned: a boundary entry below the key rules out its left
// child, a boundary past the key ends the walk after that child.
//
// A NULL key matches nothing, so the probe returns empty without touching
// the tree.
func SeekIndex(src *page.Source, root uint32, key types.Value) ([]IndexMatch, error) {
	if key == nil || key.Kind() == types.KindNull {
		return nil, nil
	}

	p, err := loadPage(src, root)
	if err != nil {
		return nil, err
	}

	var matches []IndexMatch
	var walk func(p *btPage, depth int) (bool, error)
	walk = func(p *btPage, depth int) (bool, error) {
		if depth >= maxDepth {
			return false, sqlerr.New(sqlerr.CodeCorruptBTree, "tree deeper than the format allows").
				WithDetail(fmt.Sprintf("%d levels", depth))
		}
		if p.table() {
			return false, sqlerr.New(sqlerr.CodeCorruptBTree, "index seek into a table tree").
				WithDetail(fmt.Sprintf("page %d", p.pageNo))
		}

		if p.leaf() {
			for i := 0; i < p.cellCount; i++ {
				off, err := p.cellPointer(i)
				if err != nil {
					return false, err
				}
				_, pay, err := p.indexCell(off)
				if err != nil {
					return false, err
				}
				entryKey, rowid, err := splitIndexRecord(src, pay)
				if err != nil {
					return false, err
				}
				cmp := types.Compare(entryKey, key)
				if cmp < 0 {
					continue
				}
				if cmp > 0 {
					return true, nil
				}
				if types.Equal(entryKey, key) {
					matches = append(matches, IndexMatch{Key: entryKey, Rowid: rowid})
				}
			}
			return false, nil
		}

		// Entries with the probed key can sit on either side of an equal
		// boundary, so an equal boundary is collected and the walk goes on.
		for i := 0; i < p.cellCount; i++ {
			off, err := p.cellPointer(i)
			if err != nil {
				return false, err
			}
			child, pay, err := p.indexCell(off)
			if err != nil {
				return false, err
			}
			entryKey, rowid, err := splitIndexRecord(src, pay)
			if err != nil {
				return false, err
			}

			cmp := types.Compare(entryKey, key)
			if cmp < 0 {
				continue
			}

			cp, err := childPage(src, child)
			if err != nil {
				return false, err
			}
			if stop, err := walk(cp, depth+1); err != nil || stop {
				return stop, err
			}
			if cmp > 0 {
				return true, nil
			}
			if types.Equal(entryKey, key) {
				matches = append(matches, IndexMatch{Key: entryKey, Rowid: rowid})
			}
		}

		cp, err := childPage(src, p.rightMost)
		if err != nil {
			return false, err
		}
		return walk(cp, depth+1)
	}

	if _, err := walk(p, 0); err != nil {
		return nil, err
	}
	return matches, nil
}

// splitIndexRecord decodes an index cell's record into its key column and
// trailing rowid.
func splitIndexRecord(src *page.Source, pay cellPayload) (types.Value, int64, error) {
	rec, err := decodePayload(src, pay)
	if err != nil {
		return nil, 0, err
	}
	if rec.Len() < 2 {
		return nil, 0, sqlerr.New(sqlerr.CodeCorruptBTree, "index record missing key or rowid").
			WithDetail(fmt.Sprintf("%d columns", rec.Len()))
	}
	last, ok := rec.Values[rec.Len()-1].(*types.IntegerValue)
	if !ok {
		return nil, 0, sqlerr.New(sqlerr.CodeCorruptBTree, "index entry rowid is not an integer")
	}
	return rec.Values[0], last.Value, nil
}

// CountRows counts the entries of the tree rooted at root without decoding
// any record. Table trees keep every row in a leaf, so leaf cell counts are
// summed. Index trees keep real entries on interior pages too, so there all
// cells count.
func CountRows(src *page.Source, root uint32) (int64, error) {
	rootPg, err := loadPage(src, root)
	if err != nil {
		return 0, err
	}
	isTable := rootPg.table()

	var total int64
	var visited uint32
	stack := []*btPage{rootPg}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		visited++
		if visited > src.PageCount() {
			return 0, sqlerr.New(sqlerr.CodeCorruptBTree, "tree references more pages than the database holds").
				WithDetail(fmt.Sprintf("%d pages visited", visited))
		}
		if p.table() != isTable {
			return 0, sqlerr.New(sqlerr.CodeCorruptBTree, "page type changes mid-tree").
				WithDetail(fmt.Sprintf("page %d", p.pageNo))
		}

		if p.leaf() {
			total += int64(p.cellCount)
			continue
		}
		if !p.table() {
			total += int64(p.cellCount)
		}

		for i := 0; i < p.cellCount; i++ {
			off, err := p.cellPointer(i)
			if err != nil {
				return 0, err
			}
			var child uint32
			if p.table() {
				child, _, err = p.tableInteriorCell(off)
			} else {
				child, _, err = p.indexCell(off)
			}
			if err != nil {
				return 0, err
			}
			cp, err := childPage(src, child)
			if err != nil {
				return 0, err
			}
			stack = append(stack, cp)
		}
		cp, err := childPage(src, p.rightMost)
		if err != nil {
			return 0, err
		}
		stack = append(stack, cp)
	}
	return total, nil
}
