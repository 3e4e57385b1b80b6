package ui

import (
	"strings"

	"github.com/google/btree"

	"litequery/pkg/catalog"
)

// maxCompletions caps how many candidates one prefix offers.
const maxCompletions = 8

// completionItem orders words case-insensitively. Words equal under folding
// collapse to one entry.
type completionItem string

func (c completionItem) Less(than btree.Item) bool {
	return strings.ToLower(string(c)) < strings.ToLower(string(than.(completionItem)))
}

// Completer offers prefix completion over everything typable at the prompt:
// the query keywords, the dot commands, and the object and column names of
// the open database.
type Completer struct {
	words *btree.BTree
}

var queryWords = []string{
	"SELECT", "FROM", "WHERE", "COUNT", "NULL",
	".dbinfo", ".tables", ".schema", ".indexes", ".check",
	"sqlite_schema", "sqlite_master",
}

// NewCompleter builds the completion index from the catalog.
func NewCompleter(cat *catalog.Catalog) *Completer {
	c := &Completer{words: btree.New(8)}
	for _, word := range queryWords {
		c.add(word)
	}
	if cat != nil {
		for _, obj := range cat.ObjectsInOrder() {
			c.add(obj.Name)
			for _, col := range obj.Columns {
				c.add(col)
			}
		}
	}
	return c
}

func (c *Completer) add(word string) {
	if word != "" {
		c.words.ReplaceOrInsert(completionItem(word))
	}
}

// Complete returns up to maxCompletions words starting with prefix, in
// case-insensitive order. An empty prefix completes to nothing.
func (c *Completer) Complete(prefix string) []string {
	if prefix == "" {
		return nil
	}
	lower := strings.ToLower(prefix)

	var out []string
	c.words.AscendGreaterOrEqual(completionItem(prefix), func(i btree.Item) bool {
		word := string(i.(completionItem))
		if !strings.HasPrefix(strings.ToLower(word), lower) {
			return false
		}
		out = append(out, word)
		return len(out) < maxCompletions
	})
	return out
}
