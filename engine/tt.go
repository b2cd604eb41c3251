package engine

import (
	"go.uber.org/atomic"

	"github.com/mhib/lazybeak/backend"
	"github.com/mhib/lazybeak/evaluation"
)

// Bound types a TT entry can carry. Named after the teacher's convention:
// TransAlpha is a fail-low (upper) bound, TransBeta a fail-high (lower)
// bound, matching spec.md C1 {EXACT, LOWER, UPPER} with LOWER == TransBeta
// and UPPER == TransAlpha.
const (
	TransAlpha uint8 = iota
	TransBeta
	TransExact
)

const ttBucketSize = 3

// genCycle bounds the rolling generation counter; age_penalty in the
// replacement formula (spec.md §4.2) wraps modulo this.
const genCycle = 1 << 6
const genMask = genCycle - 1

// ttEntry packs a 16-byte transposition table record into two lock-free
// words. keyMove (key fragment, move, score, static eval) and meta (depth,
// bound, generation) are each written with a single atomic store, so a
// concurrent reader never sees a torn field within one word — only
// inconsistency *between* the two words, which the key-fragment compare
// in Probe filters out (spec.md §5 "Torn reads are accepted").
type ttEntry struct {
	keyMove atomic.Uint64
	meta    atomic.Uint64
}

func packKeyMove(key16 uint16, move backend.Move, score, eval int16) uint64 {
	return uint64(key16) | uint64(uint16(move))<<16 | uint64(uint16(score))<<32 | uint64(uint16(eval))<<48
}

func unpackKeyMove(w uint64) (key16 uint16, move backend.Move, score, eval int16) {
	key16 = uint16(w)
	move = backend.Move(uint16(w >> 16))
	score = int16(uint16(w >> 32))
	eval = int16(uint16(w >> 48))
	return
}

func packMeta(depth int8, bound uint8, gen uint8) uint64 {
	return uint64(uint8(depth)) | uint64(bound)<<8 | uint64(gen)<<10
}

func unpackMeta(w uint64) (depth int8, bound uint8, gen uint8) {
	depth = int8(uint8(w))
	bound = uint8((w >> 8) & 0x3)
	gen = uint8((w >> 10) & genMask)
	return
}

type ttBucket struct {
	entries [ttBucketSize]ttEntry
}

// TransTableImpl is the shared, lock-free transposition table every Lazy
// SMP worker probes and saves into concurrently (spec.md C1/C7). There is
// exactly one of these per Engine; no per-thread copies.
type TransTableImpl struct {
	buckets    []ttBucket
	mask       uint64
	generation atomic.Uint32
}

const ttEntrySize = 16 // bytes: two uint64 words

// NewTransTable allocates a table sized to the largest power-of-two
// bucket count fitting in sizeMB megabytes.
func NewTransTable(sizeMB int) *TransTableImpl {
	if sizeMB < 1 {
		sizeMB = 1
	}
	bytes := uint64(sizeMB) * 1024 * 1024
	maxEntries := bytes / ttEntrySize
	bucketCount := uint64(1)
	for bucketCount*2*ttBucketSize <= maxEntries {
		bucketCount *= 2
	}
	if bucketCount == 0 {
		bucketCount = 1
	}
	return &TransTableImpl{
		buckets: make([]ttBucket, bucketCount),
		mask:    bucketCount - 1,
	}
}

func (tt *TransTableImpl) bucketFor(key uint64) *ttBucket {
	return &tt.buckets[key&tt.mask]
}

func keyFragment(key uint64) uint16 {
	return uint16(key >> 48)
}

// NewSearch bumps the generation counter. Called once by the main thread
// at the start of every root search (spec.md §4.7 step 1); entries from
// earlier searches age out of replacement priority without being erased.
func (tt *TransTableImpl) NewSearch() {
	tt.generation.Add(1)
}

// Get implements the TransTable interface the search package depends on.
// A hit refreshes the entry's generation so it survives future
// replacement decisions (spec.md §4.2 "on hit, refresh the generation"),
// except while the current generation is 0.
func (tt *TransTableImpl) Get(key uint64, height int) (ok bool, value int16, depth int16, move backend.Move, flag uint8) {
	bucket := tt.bucketFor(key)
	frag := keyFragment(key)
	gen := uint8(tt.generation.Load() & genMask)
	for i := range bucket.entries {
		e := &bucket.entries[i]
		km := e.keyMove.Load()
		meta := e.meta.Load()
		k, m, s, _ := unpackKeyMove(km)
		// An all-zero entry is an unused slot (fresh table or after Clear),
		// not a stored position whose key fragment happens to be 0.
		if k != frag || (km == 0 && meta == 0) {
			continue
		}
		d, bnd, _ := unpackMeta(meta)
		if gen != 0 {
			e.meta.Store(packMeta(d, bnd, gen))
		}
		return true, scoreFromTT(s, height), int16(d), m, bnd
	}
	return false, 0, 0, backend.NullMove, TransExact
}

// Set writes a search result, applying the replacement policy from
// spec.md §4.2: on a matching key, overwrite when the new bound is exact or
// the new depth is at least the stored depth; otherwise replace the bucket
// entry with the lowest depth minus generation age. Preserve the stored
// move when the new move is null and the key already matched.
func (tt *TransTableImpl) Set(key uint64, value, depth int, move backend.Move, flag, height int) {
	bucket := tt.bucketFor(key)
	frag := keyFragment(key)
	gen := uint8(tt.generation.Load() & genMask)
	score := scoreToTT(int16(value), height)

	var victim *ttEntry
	victimScore := 1 << 30
	for i := range bucket.entries {
		e := &bucket.entries[i]
		km := e.keyMove.Load()
		k, storedMove, _, eval := unpackKeyMove(km)
		d, _, entryGen := unpackMeta(e.meta.Load())

		if k == frag {
			if move == backend.NullMove {
				move = storedMove
			}
			if flag == int(TransExact) || int(d) <= depth {
				e.keyMove.Store(packKeyMove(frag, move, score, eval))
				e.meta.Store(packMeta(int8(depth), uint8(flag), gen))
			}
			return
		}

		agePenalty := int((uint8(genCycle) + gen - entryGen) & genMask)
		replacementScore := int(d) - agePenalty
		if replacementScore < victimScore {
			victimScore = replacementScore
			victim = e
		}
	}

	if victim == nil {
		victim = &bucket.entries[0]
	}
	victim.keyMove.Store(packKeyMove(frag, move, score, 0))
	victim.meta.Store(packMeta(int8(depth), uint8(flag), gen))
}

// Clear wipes every entry, used by ucinewgame and the ClearHash button
// option (spec.md §6).
func (tt *TransTableImpl) Clear() {
	for i := range tt.buckets {
		for j := range tt.buckets[i].entries {
			tt.buckets[i].entries[j].keyMove.Store(0)
			tt.buckets[i].entries[j].meta.Store(0)
		}
	}
	tt.generation.Store(0)
}

// HashFull statistically samples 1000 entries and returns per-mille
// occupancy of current-generation entries (spec.md §4.2 hash_full, and
// the UCI "hashfull" info field, spec.md §6).
func (tt *TransTableImpl) HashFull() int {
	if len(tt.buckets) == 0 {
		return 0
	}
	gen := uint8(tt.generation.Load() & genMask)
	samples := 1000
	if samples > len(tt.buckets)*ttBucketSize {
		samples = len(tt.buckets) * ttBucketSize
	}
	filled := 0
	for i := 0; i < samples; i++ {
		bucket := &tt.buckets[i/ttBucketSize]
		e := &bucket.entries[i%ttBucketSize]
		km := e.keyMove.Load()
		if k, _, _, _ := unpackKeyMove(km); k == 0 {
			continue
		}
		_, _, entryGen := unpackMeta(e.meta.Load())
		if entryGen == gen {
			filled++
		}
	}
	return filled * 1000 / samples
}

const mateThreshold = evaluation.Mate - 512

// scoreToTT adjusts a mate score from "distance from root" to "distance
// from this node" before storing, so the same TT entry stays valid when
// probed from a different ply (spec.md §4.5/§9 mate-distance handling).
func scoreToTT(score int16, height int) int16 {
	s := int(score)
	if s >= mateThreshold {
		return int16(s + height)
	}
	if s <= -mateThreshold {
		return int16(s - height)
	}
	return score
}

// scoreFromTT is the inverse of scoreToTT, applied on every probe.
func scoreFromTT(score int16, height int) int16 {
	s := int(score)
	if s >= mateThreshold {
		return int16(s - height)
	}
	if s <= -mateThreshold {
		return int16(s + height)
	}
	return score
}
