// Package simhash provides a near-duplicate fingerprint index: a container
// of 64-bit Simhash fingerprints supporting fast exact membership and fast
// approximate membership — finding stored fingerprints within a bounded
// Hamming distance of a query.
//
// The index beats a naive O(N) scan by organizing fingerprints into
// permuted, prefix-keyed sub-indexes (see internal/permindex) that exploit
// the pigeonhole principle: split a fingerprint into d+1 blocks, and any
// pair within Hamming distance d must agree on at least one block.
//
// Table is not safe for concurrent use: it follows a single-owner mutation
// model (see spec.md §5). Callers needing concurrent access should guard a
// Table with their own sync.RWMutex; the index itself performs no locking.
package simhash

import (
	"errors"
	"os"

	"github.com/zhongpingliang/simhash/fingerprint"
	"github.com/zhongpingliang/simhash/internal/permindex"
	"github.com/zhongpingliang/simhash/mixer"
	"github.com/zhongpingliang/simhash/persist"
)

// Re-exported so callers need only import this package for the common case.
type Fingerprint = fingerprint.Fingerprint

// ErrMaxHamDistTooLarge is returned by New when Config.MaxHamDist is not
// strictly less than fingerprint.Width (64): a block width of zero or less
// makes the pigeonhole argument vacuous.
var ErrMaxHamDistTooLarge = errors.New("simhash: MaxHamDist must be less than 64")

// ErrPathologicalLevel is returned by New when Config.Level exceeds
// MaxLevel. Storage cost multiplies by (MaxHamDist+1) per level, so
// uncapped levels are a memory foot-gun rather than a useful knob.
var ErrPathologicalLevel = errors.New("simhash: Level exceeds MaxLevel")

// MaxLevel is the highest Config.Level New will accept. spec.md §5 calls
// level values above 4 "absurd"; levels beyond 2 are already pathological
// in practice (see Config's doc comment), but 4 is kept as the hard ceiling
// so a caller who truly wants to push it is only stopped at outright abuse.
const MaxLevel = 4

// Config configures a Table. The zero Config is not valid; use
// DefaultConfig as a starting point.
type Config struct {
	// MaxHamDist is the maximum Hamming distance tolerated between a query
	// and a stored fingerprint for them to count as near-duplicates. Must
	// be in [0, 64).
	MaxHamDist int

	// Level controls index recursion depth: 0 gives a single level of
	// (MaxHamDist+1) blocks; each additional level re-partitions the
	// remaining bits below the matched prefix, multiplying storage by
	// (MaxHamDist+1) and proportionally reducing query cost. 1 or 2 is the
	// suggested range; see MaxLevel for the hard ceiling.
	Level int
}

// DefaultConfig returns the spec-mandated defaults: MaxHamDist=3, Level=1.
func DefaultConfig() Config {
	return Config{MaxHamDist: fingerprint.DefaultMaxHamDist, Level: 1}
}

// Validate checks that c's fields are in range, returning
// ErrMaxHamDistTooLarge or ErrPathologicalLevel if not.
func (c Config) Validate() error {
	if c.MaxHamDist < 0 || c.MaxHamDist >= fingerprint.Width {
		return ErrMaxHamDistTooLarge
	}
	if c.Level < 0 || c.Level > MaxLevel {
		return ErrPathologicalLevel
	}
	return nil
}

// Stats tracks cumulative counters for a Table, purely for diagnostics —
// nothing in Table's behavior depends on them. They are updated
// synchronously as part of each operation under the same single-owner
// model as the rest of Table (see the package doc comment).
type Stats struct {
	Inserts            uint64
	RejectedDuplicates uint64
	Removes            uint64
	RejectedRemoves    uint64
	NearDupQueries     uint64
	NearDupQueriesHit  uint64
}

// Table is the public near-duplicate fingerprint index.
type Table struct {
	stats  Stats
	config Config
	index  *permindex.Index
}

// New creates a Table with the given Config, rejecting out-of-range values
// per Config.Validate.
func New(config Config) (*Table, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Table{
		config: config,
		index:  permindex.New(config.MaxHamDist, config.Level, 0, fingerprint.Width),
	}, nil
}

// NewDefault creates a Table with DefaultConfig. Since the defaults always
// pass Validate, this never fails.
func NewDefault() *Table {
	t, err := New(DefaultConfig())
	if err != nil {
		panic("simhash: DefaultConfig failed validation: " + err.Error())
	}
	return t
}

// Insert adds h to the table. It returns false if h was already present.
func (t *Table) Insert(h Fingerprint) bool {
	ok := t.index.Insert(h)
	if ok {
		t.stats.Inserts++
	} else {
		t.stats.RejectedDuplicates++
	}
	return ok
}

// Remove deletes h from the table. It returns true iff h was present.
func (t *Table) Remove(h Fingerprint) bool {
	ok := t.index.Remove(h)
	if ok {
		t.stats.Removes++
	} else {
		t.stats.RejectedRemoves++
	}
	return ok
}

// Contains reports exact membership of h.
func (t *Table) Contains(h Fingerprint) bool {
	return t.index.Contains(h)
}

// HasNearDup reports whether any stored fingerprint is within
// Config.MaxHamDist of h.
func (t *Table) HasNearDup(h Fingerprint) bool {
	t.stats.NearDupQueries++
	hit := t.index.HasNearDup(h, 0)
	if hit {
		t.stats.NearDupQueriesHit++
	}
	return hit
}

// FindFirstNearDup returns the first stored fingerprint found within
// Config.MaxHamDist of h, and whether one was found at all.
func (t *Table) FindFirstNearDup(h Fingerprint) (Fingerprint, bool) {
	t.stats.NearDupQueries++
	var out Fingerprint
	ok := t.index.FindFirstNearDup(h, 0, &out)
	if ok {
		t.stats.NearDupQueriesHit++
	}
	return out, ok
}

// FindNearDups returns every stored fingerprint within Config.MaxHamDist of
// h, sorted in ascending order with duplicates removed. A single
// near-duplicate can be found via more than one of the index's blocks (see
// permindex.Index.FindNearDups), so this sort-and-dedup pass is not
// optional.
func (t *Table) FindNearDups(h Fingerprint) []Fingerprint {
	t.stats.NearDupQueries++
	var ans []Fingerprint
	t.index.FindNearDups(h, 0, &ans)
	ans = sortUniqueFingerprints(ans)
	if len(ans) > 0 {
		t.stats.NearDupQueriesHit++
	}
	return ans
}

// Clear empties the table.
func (t *Table) Clear() {
	t.index.Clear()
}

// Size returns the number of distinct fingerprints stored.
func (t *Table) Size() int {
	return t.index.Size()
}

// Stats returns a snapshot of the table's cumulative counters.
func (t *Table) Stats() Stats {
	return t.stats
}

// Save writes the table's fingerprints to path, in binary or text mode
// (spec.md §6), returning false on any I/O failure.
func (t *Table) Save(path string, binary bool) bool {
	return t.SaveErr(path, binary) == nil
}

// SaveErr is Save's error-returning counterpart, for callers that want to
// know why a save failed rather than just that it did.
func (t *Table) SaveErr(path string, binaryMode bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if binaryMode {
		return persist.SaveBinary(f, t.index)
	}
	return persist.SaveText(f, t.index)
}

// Load replaces the table's contents with the fingerprints stored at path,
// in binary or text mode, returning false on any I/O or parse failure. If
// path cannot be opened, the table is left unchanged. Otherwise the table is
// cleared before the first record is read, so a failure while reading leaves
// only the records inserted before it (none, if the first record fails); the
// previous contents are not restored.
func (t *Table) Load(path string, binary bool) bool {
	return t.LoadErr(path, binary) == nil
}

// LoadErr is Load's error-returning counterpart.
func (t *Table) LoadErr(path string, binaryMode bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	t.index.Clear()
	if binaryMode {
		return persist.LoadBinary(f, t.index)
	}
	return persist.LoadText(f, t.index)
}

// BuildFromStrings is a convenience wrapper around
// fingerprint.BuildFromStrings using mixer.Lookup3, the spec-default mixer.
func BuildFromStrings(features []fingerprint.StringFeature) Fingerprint {
	return fingerprint.BuildFromStrings(features, mixer.Lookup3)
}
