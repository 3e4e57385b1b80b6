package record

import (
	"bytes"
	"encoding/binary"
	"testing"

	"litequery/pkg/sqlerr"
)

// chainFixture lays payload out over synthetic overflow pages of the given
// usable size and returns the local part, the first chain page, and a fetch
// function over the fake page array.
func chainFixture(t *testing.T, payload []byte, local, usable, pageCount int) ([]byte, uint32, FetchPage) {
	t.Helper()

	pages := make([][]byte, pageCount+1)
	rest := payload[local:]
	next := uint32(2)
	first := next
	for i := 0; len(rest) > 0; i++ {
		pg := make([]byte, usable)
		n := usable - 4
		if n > len(rest) {
			n = len(rest)
		}
		copy(pg[4:], rest[:n])
		rest = rest[n:]

		if len(rest) > 0 {
			binary.BigEndian.PutUint32(pg[0:4], next+1)
		}
		pages[next] = pg
		next++
	}

	fetch := func(n uint32) ([]byte, error) {
		if int(n) >= len(pages) || pages[n] == nil {
			t.Fatalf("fetch of unexpected page %d", n)
		}
		return pages[n], nil
	}
	return payload[:local], first, fetch
}

func TestAssemblePayloadNoOverflow(t *testing.T) {
	local := []byte("all local")
	out, err := AssemblePayload(local, int64(len(local)), 0, nil, 10, 512)
	if err != nil {
		t.Fatalf("AssemblePayload: %v", err)
	}
	if !bytes.Equal(out, local) {
		t.Errorf("got %q", out)
	}
}

func TestAssemblePayloadChain(t *testing.T) {
	payload := bytes.Repeat([]byte("abcdefgh"), 200) // 1600 bytes
	local, first, fetch := chainFixture(t, payload, 100, 512, 10)

	out, err := AssemblePayload(local, int64(len(payload)), first, fetch, 10, 512)
	if err != nil {
		t.Fatalf("AssemblePayload: %v", err)
	}
	if !bytes.Equal(out, payload) {
		t.Error("assembled payload differs from original")
	}
}

func TestAssemblePayloadSingleOverflowPage(t *testing.T) {
	payload := bytes.Repeat([]byte{0x5a}, 300)
	local, first, fetch := chainFixture(t, payload, 100, 512, 5)

	out, err := AssemblePayload(local, int64(len(payload)), first, fetch, 5, 512)
	if err != nil {
		t.Fatalf("AssemblePayload: %v", err)
	}
	if !bytes.Equal(out, payload) {
		t.Error("assembled payload differs from original")
	}
}

func TestAssemblePayloadPointerOutOfRange(t *testing.T) {
	local := []byte("x")
	_, err := AssemblePayload(local, 100, 99, nil, 10, 512)
	if !sqlerr.HasCode(err, sqlerr.CodeCorruptBTree) {
		t.Errorf("err = %v, want CORRUPT_BTREE", err)
	}
}

func TestAssemblePayloadCycleDetected(t *testing.T) {
	// Page 2 points at itself forever; the declared total is feasible for a
	// 10-page database, so only the hop bound can stop the walk.
	pg := make([]byte, 512)
	binary.BigEndian.PutUint32(pg[0:4], 2)
	fetch := func(n uint32) ([]byte, error) { return pg, nil }

	_, err := AssemblePayload([]byte("x"), 5120, 2, fetch, 10, 512)
	if !sqlerr.HasCode(err, sqlerr.CodeCorruptBTree) {
		t.Errorf("err = %v, want CORRUPT_BTREE", err)
	}
}

func TestAssemblePayloadChainEndsShort(t *testing.T) {
	// One page, zero next pointer, but the declared total needs two.
	pg := make([]byte, 512)
	fetch := func(n uint32) ([]byte, error) { return pg, nil }

	_, err := AssemblePayload(nil, 1000, 2, fetch, 10, 512)
	if !sqlerr.HasCode(err, sqlerr.CodeCorruptBTree) {
		t.Errorf("err = %v, want CORRUPT_BTREE", err)
	}
}

func TestAssemblePayloadDeclaredLargerThanDatabase(t *testing.T) {
	_, err := AssemblePayload(nil, 1<<40, 2, nil, 10, 512)
	if !sqlerr.HasCode(err, sqlerr.CodeCorruptBTree) {
		t.Errorf("err = %v, want CORRUPT_BTREE", err)
	}
}
