// Package page opens a database file read-only and serves whole pages by
// page number. It owns the file header and the page cache; everything above
// it works with page images and never touches the file directly.
package page

import (
	"fmt"
	"io"
	"os"

	"litequery/pkg/logging"
	"litequery/pkg/sqlerr"
)

// DefaultCachePages is the page cache capacity used by Open.
const DefaultCachePages = 256

// Source reads pages from a single database file. Pages are numbered from 1;
// page 1 begins with the 100-byte file header and its B-tree content starts
// at offset 100, so returned slices always hold the full page image and all
// in-page offsets stay page-relative.
//
// A Source is safe for concurrent readers.
type Source struct {
	file      *os.File
	path      string
	header    *Header
	pageCount uint32
	cache     *lruCache // nil when caching is disabled
}

// Open opens the database file at path with the default cache capacity.
func Open(path string) (*Source, error) {
	return OpenWithCache(path, DefaultCachePages)
}

// OpenWithCache opens the database file at path, keeping up to cachePages
// page images in memory. cachePages <= 0 disables caching.
//
// The file is opened read-only; the header is parsed and validated before
// Open returns, so a non-database file fails here with NOT_A_SQLITE_FILE.
func OpenWithCache(path string, cachePages int) (*Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, sqlerr.Wrap(err, sqlerr.CodeIO, "Open", "PageSource")
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, sqlerr.Wrap(err, sqlerr.CodeIO, "Open", "PageSource")
	}

	if info.Size() < HeaderSize {
		file.Close()
		return nil, sqlerr.New(sqlerr.CodeNotASQLiteFile, "file smaller than the 100-byte header").
			WithDetail(fmt.Sprintf("%d bytes", info.Size()))
	}

	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(io.NewSectionReader(file, 0, HeaderSize), buf); err != nil {
		file.Close()
		return nil, sqlerr.Wrap(err, sqlerr.CodeIO, "Open", "PageSource")
	}

	header, err := ParseHeader(buf)
	if err != nil {
		file.Close()
		return nil, err
	}

	src := &Source{
		file:      file,
		path:      path,
		header:    header,
		pageCount: resolvePageCount(header, info.Size()),
	}
	if cachePages > 0 {
		src.cache = newLRUCache(cachePages)
	}

	logging.WithDatabase(path).Debug("database opened",
		"page_size", header.PageSize,
		"pages", src.pageCount,
		"encoding", header.Encoding.String())

	return src, nil
}

// resolvePageCount picks the trusted page count. The in-header count is only
// valid when it is non-zero and the change counter matches the
// version-valid-for number; legacy writers bumped the counter without
// updating the count, so otherwise the count is derived from the file size.
func resolvePageCount(h *Header, fileSize int64) uint32 {
	if h.PageCount != 0 && h.ChangeCounter == h.VersionValidFor {
		return h.PageCount
	}
	return uint32(fileSize / int64(h.PageSize)) // #nosec G115
}

// Page returns the full image of page n (1-based). The returned slice is
// shared with the cache and must be treated as read-only.
func (s *Source) Page(n uint32) ([]byte, error) {
	if n < 1 || n > s.pageCount {
		return nil, sqlerr.New(sqlerr.CodePageOutOfRange, "page number outside database").
			WithDetail(fmt.Sprintf("page %d of %d", n, s.pageCount))
	}

	if s.cache != nil {
		if data, ok := s.cache.get(n); ok {
			return data, nil
		}
	}

	data := make([]byte, s.header.PageSize)
	offset := int64(n-1) * int64(s.header.PageSize)
	if _, err := s.file.ReadAt(data, offset); err != nil {
		return nil, sqlerr.Wrap(err, sqlerr.CodeIO, "Page", "PageSource").
			WithDetail(fmt.Sprintf("page %d", n))
	}

	if s.cache != nil {
		s.cache.put(n, data)
	}
	return data, nil
}

// Header returns the decoded file header.
func (s *Source) Header() *Header {
	return s.header
}

// PageSize returns the page size in bytes.
func (s *Source) PageSize() uint32 {
	return s.header.PageSize
}

// UsableSize returns the usable bytes per page (page size minus the reserved
// region). All payload overflow thresholds derive from this value.
func (s *Source) UsableSize() uint32 {
	return s.header.UsableSize()
}

// PageCount returns the trusted number of pages in the database.
func (s *Source) PageCount() uint32 {
	return s.pageCount
}

// Encoding returns the text encoding all TEXT values in the file use.
func (s *Source) Encoding() Encoding {
	return s.header.Encoding
}

// Path returns the path the Source was opened with.
func (s *Source) Path() string {
	return s.path
}

// Close releases the underlying file. Pages already handed out stay valid.
func (s *Source) Close() error {
	if s.cache != nil {
		s.cache.clear()
	}
	if err := s.file.Close(); err != nil {
		return sqlerr.Wrap(err, sqlerr.CodeIO, "Close", "PageSource")
	}
	return nil
}
