package database

import (
	"context"

	"golang.org/x/sync/errgroup"

	"litequery/pkg/catalog"
	"litequery/pkg/logging"
	"litequery/pkg/sqlerr"
	"litequery/pkg/storage/btree"
)

// CheckResult is one object's verdict from .check: its tree walked end to
// end and its entries counted.
type CheckResult struct {
	Name    string
	Kind    catalog.ObjectKind
	Root    uint32
	Entries int64
}

// Check walks every tree in the file concurrently, the schema tree included,
// and counts the entries of each. Any cell or page that fails to decode
// fails the whole check; the first error cancels the remaining walks.
// Results come back in catalog order.
func (db *Database) Check(ctx context.Context) ([]CheckResult, error) {
	schema, err := db.cat.Table("sqlite_schema")
	if err != nil {
		return nil, err
	}
	objects := []*catalog.SchemaObject{schema}
	for _, obj := range db.cat.ObjectsInOrder() {
		if obj.RootPage == 0 {
			continue
		}
		objects = append(objects, obj)
	}

	results := make([]CheckResult, len(objects))
	g, ctx := errgroup.WithContext(ctx)
	for i, obj := range objects {
		i, obj := i, obj
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			n, err := btree.CountRows(db.src, obj.RootPage)
			if err != nil {
				return sqlerr.Wrap(err, sqlerr.CodeCorruptBTree, "Check", "Database").
					WithDetail("object " + obj.Name)
			}
			results[i] = CheckResult{
				Name:    obj.Name,
				Kind:    obj.Kind,
				Root:    obj.RootPage,
				Entries: n,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logging.WithDatabase(db.path).Debug("check complete", "objects", len(results))
	return results, nil
}
