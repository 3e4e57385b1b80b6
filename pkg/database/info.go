package database

import (
	"fmt"

	"litequery/pkg/catalog"
)

// Info is the header and catalog summary behind .dbinfo.
type Info struct {
	PageSize        uint32
	WriteFormat     uint8
	ReadFormat      uint8
	ReservedBytes   uint8
	ChangeCounter   uint32
	PageCount       uint32
	FreelistPages   uint32
	SchemaCookie    uint32
	SchemaFormat    uint32
	TextEncoding    string
	EncodingNumber  uint32
	UserVersion     uint32
	ApplicationID   uint32
	SoftwareVersion uint32
	Tables          int
	Indexes         int
	Triggers        int
	Views           int
	SchemaBytes     int
}

// InfoField is one .dbinfo line, already rendered.
type InfoField struct {
	Name  string
	Value string
}

// Info summarizes the open file: the decoded header plus object counts and
// the total size of the stored DDL text.
func (db *Database) Info() Info {
	h := db.src.Header()
	info := Info{
		PageSize:        h.PageSize,
		WriteFormat:     h.WriteVersion,
		ReadFormat:      h.ReadVersion,
		ReservedBytes:   h.ReservedSpace,
		ChangeCounter:   h.ChangeCounter,
		PageCount:       db.src.PageCount(),
		FreelistPages:   h.FreelistPages,
		SchemaCookie:    h.SchemaCookie,
		SchemaFormat:    h.SchemaFormat,
		TextEncoding:    h.Encoding.String(),
		EncodingNumber:  uint32(h.Encoding),
		UserVersion:     h.UserVersion,
		ApplicationID:   h.ApplicationID,
		SoftwareVersion: h.SQLiteVersion,
	}

	for _, obj := range db.cat.ObjectsInOrder() {
		switch obj.Kind {
		case catalog.ObjectTable:
			info.Tables++
		case catalog.ObjectIndex:
			info.Indexes++
		case catalog.ObjectTrigger:
			info.Triggers++
		case catalog.ObjectView:
			info.Views++
		}
		info.SchemaBytes += len(obj.SQL)
	}
	return info
}

// Fields returns the info lines in .dbinfo display order.
func (i Info) Fields() []InfoField {
	return []InfoField{
		{"database page size", fmt.Sprintf("%d", i.PageSize)},
		{"write format", fmt.Sprintf("%d", i.WriteFormat)},
		{"read format", fmt.Sprintf("%d", i.ReadFormat)},
		{"reserved bytes", fmt.Sprintf("%d", i.ReservedBytes)},
		{"file change counter", fmt.Sprintf("%d", i.ChangeCounter)},
		{"database page count", fmt.Sprintf("%d", i.PageCount)},
		{"freelist page count", fmt.Sprintf("%d", i.FreelistPages)},
		{"schema cookie", fmt.Sprintf("%d", i.SchemaCookie)},
		{"schema format", fmt.Sprintf("%d", i.SchemaFormat)},
		{"text encoding", fmt.Sprintf("%d (%s)", i.EncodingNumber, i.TextEncoding)},
		{"user version", fmt.Sprintf("%d", i.UserVersion)},
		{"application id", fmt.Sprintf("%d", i.ApplicationID)},
		{"software version", fmt.Sprintf("%d", i.SoftwareVersion)},
		{"number of tables", fmt.Sprintf("%d", i.Tables)},
		{"number of indexes", fmt.Sprintf("%d", i.Indexes)},
		{"number of triggers", fmt.Sprintf("%d", i.Triggers)},
		{"number of views", fmt.Sprintf("%d", i.Views)},
		{"schema size", fmt.Sprintf("%d", i.SchemaBytes)},
	}
}
