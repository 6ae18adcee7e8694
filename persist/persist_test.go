package persist

import (
	"bytes"
	"sort"
	"testing"

	"github.com/zhongpingliang/simhash/fingerprint"
)

// fakeStore is a minimal Source+Sink backed by a plain slice, standing in for
// an index's canonical store without pulling in internal/permindex.
type fakeStore struct {
	items []fingerprint.Fingerprint
	seen  map[fingerprint.Fingerprint]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{seen: map[fingerprint.Fingerprint]bool{}}
}

func (f *fakeStore) Insert(h fingerprint.Fingerprint) bool {
	if f.seen[h] {
		return false
	}
	f.seen[h] = true
	f.items = append(f.items, h)
	return true
}

func (f *fakeStore) Ascend(fn func(fingerprint.Fingerprint) bool) {
	sorted := append([]fingerprint.Fingerprint{}, f.items...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for _, h := range sorted {
		if !fn(h) {
			return
		}
	}
}

func TestSaveLoadBinaryRoundTrip(t *testing.T) {
	src := newFakeStore()
	want := []fingerprint.Fingerprint{0, 1, 42, 0xDEADBEEFCAFEBABE, 0xFFFFFFFFFFFFFFFF}
	for _, h := range want {
		src.Insert(h)
	}

	var buf bytes.Buffer
	if err := SaveBinary(&buf, src); err != nil {
		t.Fatalf("SaveBinary failed: %v", err)
	}

	dst := newFakeStore()
	if err := LoadBinary(&buf, dst); err != nil {
		t.Fatalf("LoadBinary failed: %v", err)
	}

	assertSameSet(t, dst.items, want)
}

func TestSaveLoadTextRoundTrip(t *testing.T) {
	src := newFakeStore()
	want := []fingerprint.Fingerprint{0, 1, 42, 0xDEADBEEFCAFEBABE, 0xFFFFFFFFFFFFFFFF}
	for _, h := range want {
		src.Insert(h)
	}

	var buf bytes.Buffer
	if err := SaveText(&buf, src); err != nil {
		t.Fatalf("SaveText failed: %v", err)
	}

	dst := newFakeStore()
	if err := LoadText(&buf, dst); err != nil {
		t.Fatalf("LoadText failed: %v", err)
	}

	assertSameSet(t, dst.items, want)
}

func TestLoadTextSkipsEmptyLines(t *testing.T) {
	dst := newFakeStore()
	text := fingerprint.ToBinaryString(5) + "\n\n" + fingerprint.ToBinaryString(6) + "\n"
	if err := LoadText(bytes.NewBufferString(text), dst); err != nil {
		t.Fatalf("LoadText failed: %v", err)
	}
	assertSameSet(t, dst.items, []fingerprint.Fingerprint{5, 6})
}

func TestLoadTextRejectsMalformedLine(t *testing.T) {
	dst := newFakeStore()
	text := fingerprint.ToBinaryString(5) + "\n" + "not-a-binary-string" + "\n"
	err := LoadText(bytes.NewBufferString(text), dst)
	if err == nil {
		t.Fatal("expected an error for a malformed line")
	}
	loadErr, ok := err.(*LoadError)
	if !ok {
		t.Fatalf("expected *LoadError, got %T: %v", err, err)
	}
	if loadErr.Line != 2 {
		t.Fatalf("LoadError.Line = %d, want 2", loadErr.Line)
	}
}

func TestLoadTextRejectsWrongLength(t *testing.T) {
	dst := newFakeStore()
	err := LoadText(bytes.NewBufferString("101\n"), dst)
	if err == nil {
		t.Fatal("expected an error for a short line")
	}
}

func TestLoadBinaryRejectsTruncatedTrailer(t *testing.T) {
	dst := newFakeStore()
	// 3 trailing bytes: not a multiple of 8.
	err := LoadBinary(bytes.NewReader([]byte{1, 2, 3}), dst)
	if err == nil {
		t.Fatal("expected an error for a truncated binary record")
	}
}

func TestSaveTextDeterministicOrder(t *testing.T) {
	src := newFakeStore()
	src.Insert(30)
	src.Insert(10)
	src.Insert(20)

	var buf bytes.Buffer
	if err := SaveText(&buf, src); err != nil {
		t.Fatalf("SaveText failed: %v", err)
	}
	want := fingerprint.ToBinaryString(10) + "\n" + fingerprint.ToBinaryString(20) + "\n" + fingerprint.ToBinaryString(30) + "\n"
	if buf.String() != want {
		t.Fatalf("SaveText did not write in ascending order:\ngot:  %q\nwant: %q", buf.String(), want)
	}
}

func assertSameSet(t *testing.T, got, want []fingerprint.Fingerprint) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d fingerprints, want %d (got=%v want=%v)", len(got), len(want), got, want)
	}
	set := map[fingerprint.Fingerprint]bool{}
	for _, h := range got {
		set[h] = true
	}
	for _, h := range want {
		if !set[h] {
			t.Fatalf("missing expected fingerprint %#x in %v", h, got)
		}
	}
}
