// Package storage is the root of litequery's read-only view of the SQLite 3
// on-disk format.
//
// A database is one file of fixed-size pages, numbered from 1, with a
// 100-byte header at the start of page 1 describing the whole file.
// Sub-packages peel the format apart layer by layer; each one depends only on
// the layers below it.
//
// # Sub-packages
//
//   - [litequery/pkg/storage/page]   – Source: the open file, the decoded
//     header, and a bounded LRU cache of whole pages fetched by number.
//   - [litequery/pkg/storage/record] – the byte-level codecs: varints, serial
//     types, record (row payload) decoding, and overflow-chain assembly.
//   - [litequery/pkg/storage/btree]  – page and cell parsing for the four
//     B-tree page types, lazy cursors over table trees, point seeks by rowid
//     and by index key, and the page-header entry count used by fast COUNT.
//
// # Page layout
//
// Every page holding tree data starts with a B-tree page header (8 bytes on
// leaves, 12 on interior pages with a right-most child pointer), then a cell
// pointer array in key order; cell content is packed from the end of the page
// toward the middle. On page 1 the B-tree header sits at offset 100, after
// the file header, while cell pointers stay page-relative. Nothing here ever
// writes a page.
package storage
