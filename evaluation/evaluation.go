// Package evaluation implements the static evaluation function the core
// search treats as a pure collaborator (spec.md §1): material, piece-square
// tables, and a pawn-structure term cached per pawn-hash key. It never
// looks at search state — callers always pass a position and get back a
// centipawn score from the side-to-move's perspective.
package evaluation

import "github.com/mhib/lazybeak/backend"

// Mate is the base score for "found a forced mate"; the search encodes
// distance to mate as Mate - plies (spec.md GLOSSARY "Mate score").
const Mate = 32000

// Phase is a tapered [middlegame, endgame] pair, the classic way to blend
// piece-square tables across the middlegame/endgame without a hard cutoff.
type Phase struct {
	Middle, End int16
}

var PawnValue = Phase{100, 120}
var KnightValue = Phase{320, 290}
var BishopValue = Phase{330, 310}
var RookValue = Phase{500, 520}
var QueenValue = Phase{950, 940}

var pieceValue = [7]Phase{{}, PawnValue, KnightValue, BishopValue, RookValue, QueenValue, {}}

// phaseWeight is how much each piece type contributes to the game-phase
// counter used to blend middlegame/endgame piece-square tables.
var phaseWeight = [7]int{0, 0, 1, 1, 2, 4, 0}

// 4N + 4B + 2Q worth; rooks are not counted, so startpos (phase 24) and any
// position with phase >= 16 is scored with middlegame values alone.
const totalPhase = 4*1 + 4*1 + 2*4

// pst holds (square-relative-to-white, phase) piece-square values; index
// by [piece][phase][square], square always from White's perspective — the
// accessor mirrors for Black.
var pst [7][2][64]int16

func init() {
	// Centre-biased knight/bishop tables, advance-biased pawn tables,
	// flat rook/queen tables, king safety early / centralise late — the
	// standard shape, kept small since evaluation.md explicitly treats
	// this as a pluggable external collaborator, not the object of study.
	knightMid := [64]int16{
		-50, -40, -30, -30, -30, -30, -40, -50,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-30, 5, 15, 20, 20, 15, 5, -30,
		-30, 0, 15, 20, 20, 15, 0, -30,
		-30, 5, 10, 15, 15, 10, 5, -30,
		-40, -20, 0, 5, 5, 0, -20, -40,
		-50, -40, -30, -30, -30, -30, -40, -50,
	}
	for sq := 0; sq < 64; sq++ {
		pst[backend.Knight][0][sq] = knightMid[sq]
		pst[backend.Knight][1][sq] = knightMid[sq]
	}

	bishopMid := [64]int16{
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 5, 0, 0, 0, 0, 5, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	}
	for sq := 0; sq < 64; sq++ {
		pst[backend.Bishop][0][sq] = bishopMid[sq]
		pst[backend.Bishop][1][sq] = bishopMid[sq]
	}

	pawnMid := [64]int16{
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 10, 10, -20, -20, 10, 10, 5,
		5, -5, -10, 0, 0, -10, -5, 5,
		0, 0, 0, 20, 20, 0, 0, 0,
		5, 5, 10, 25, 25, 10, 5, 5,
		10, 10, 20, 30, 30, 20, 10, 10,
		50, 50, 50, 50, 50, 50, 50, 50,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	pawnEnd := pawnMid
	for sq := 0; sq < 64; sq++ {
		pst[backend.Pawn][0][sq] = pawnMid[sq]
		pst[backend.Pawn][1][sq] = pawnEnd[sq]
	}

	kingMid := [64]int16{
		20, 30, 10, 0, 0, 10, 30, 20,
		20, 20, 0, 0, 0, 0, 20, 20,
		-10, -20, -20, -20, -20, -20, -20, -10,
		-20, -30, -30, -40, -40, -30, -30, -20,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
	}
	kingEnd := [64]int16{
		-50, -30, -30, -30, -30, -30, -30, -50,
		-30, -30, 0, 0, 0, 0, -30, -30,
		-30, -10, 20, 30, 30, 20, -10, -30,
		-30, -10, 30, 40, 40, 30, -10, -30,
		-30, -10, 30, 40, 40, 30, -10, -30,
		-30, -10, 20, 30, 30, 20, -10, -30,
		-30, -20, -10, 0, 0, -10, -20, -30,
		-50, -40, -30, -20, -20, -30, -40, -50,
	}
	for sq := 0; sq < 64; sq++ {
		pst[backend.King][0][sq] = kingMid[sq]
		pst[backend.King][1][sq] = kingEnd[sq]
	}
}

func mirror(square int) int {
	return square ^ 56
}

// pawnEntry is one cached pawn-structure evaluation, keyed by the
// position's pawn-and-king Zobrist hash (backend.Position.PawnKey).
type pawnEntry struct {
	key   uint64
	score int16
}

// PawnKingTable caches the pawn/king-structure term of the evaluation,
// the same shape as the teacher's PawnHash option: sized in MiB, cleared
// on resize, looked up by pawn hash.
type PawnKingTable struct {
	entries []pawnEntry
	mask    uint64
}

// NewPKTable allocates a pawn-hash table sized sizeMB megabytes (0 means
// "disabled": every probe misses and every lookup recomputes).
func NewPKTable(sizeMB int) PawnKingTable {
	if sizeMB <= 0 {
		return PawnKingTable{}
	}
	const entrySize = 16
	count := sizeMB * 1024 * 1024 / entrySize
	size := 1
	for size*2 <= count {
		size *= 2
	}
	if size == 0 {
		return PawnKingTable{}
	}
	return PawnKingTable{entries: make([]pawnEntry, size), mask: uint64(size - 1)}
}

func (pk PawnKingTable) probe(key uint64) (int, bool) {
	if len(pk.entries) == 0 {
		return 0, false
	}
	e := &pk.entries[key&pk.mask]
	if e.key == key {
		return int(e.score), true
	}
	return 0, false
}

func (pk PawnKingTable) store(key uint64, score int) {
	if len(pk.entries) == 0 {
		return
	}
	e := &pk.entries[key&pk.mask]
	e.key = key
	e.score = int16(score)
}

func pawnStructureScore(pos *backend.Position) int {
	score := 0
	for bb := pos.Pawns & pos.White; bb != 0; bb &= bb - 1 {
		sq := backend.BitScan(bb)
		file := backend.File(sq)
		if pos.Pawns&pos.White&backend.FILES[file]&^backend.SquareMask[sq] != 0 {
			score -= 10 // doubled
		}
	}
	for bb := pos.Pawns & pos.Black; bb != 0; bb &= bb - 1 {
		sq := backend.BitScan(bb)
		file := backend.File(sq)
		if pos.Pawns&pos.Black&backend.FILES[file]&^backend.SquareMask[sq] != 0 {
			score += 10
		}
	}
	return score
}

func pieceSquareAndMaterial(pos *backend.Position) (mid, end, phase int) {
	add := func(piece int, white bool, square int) {
		if !white {
			square = mirror(square)
		}
		v := pieceValue[piece]
		sign := 1
		if !white {
			sign = -1
		}
		mid += sign * (int(v.Middle) + int(pst[piece][0][square]))
		end += sign * (int(v.End) + int(pst[piece][1][square]))
		phase += phaseWeight[piece]
	}

	for bb := pos.Pawns; bb != 0; bb &= bb - 1 {
		sq := backend.BitScan(bb)
		add(backend.Pawn, pos.White&backend.SquareMask[sq] != 0, sq)
	}
	for bb := pos.Knights; bb != 0; bb &= bb - 1 {
		sq := backend.BitScan(bb)
		add(backend.Knight, pos.White&backend.SquareMask[sq] != 0, sq)
	}
	for bb := pos.Bishops; bb != 0; bb &= bb - 1 {
		sq := backend.BitScan(bb)
		add(backend.Bishop, pos.White&backend.SquareMask[sq] != 0, sq)
	}
	for bb := pos.Rooks; bb != 0; bb &= bb - 1 {
		sq := backend.BitScan(bb)
		add(backend.Rook, pos.White&backend.SquareMask[sq] != 0, sq)
	}
	for bb := pos.Queens; bb != 0; bb &= bb - 1 {
		sq := backend.BitScan(bb)
		add(backend.Queen, pos.White&backend.SquareMask[sq] != 0, sq)
	}
	for bb := pos.Kings; bb != 0; bb &= bb - 1 {
		sq := backend.BitScan(bb)
		add(backend.King, pos.White&backend.SquareMask[sq] != 0, sq)
	}
	return
}

// mobilityScore rewards pieces with more legal-looking destination
// squares, the cheap approximation of mobility spec.md §1 names as part
// of the static evaluation ("material + piece-square tables +
// pawn/king/mobility terms").
func mobilityScore(pos *backend.Position) int {
	occ := pos.White | pos.Black
	score := 0
	for bb := pos.Knights & pos.White; bb != 0; bb &= bb - 1 {
		score += backend.PopCount(backend.KnightAttacks[backend.BitScan(bb)]&^pos.White) * 2
	}
	for bb := pos.Knights & pos.Black; bb != 0; bb &= bb - 1 {
		score -= backend.PopCount(backend.KnightAttacks[backend.BitScan(bb)]&^pos.Black) * 2
	}
	for bb := pos.Bishops & pos.White; bb != 0; bb &= bb - 1 {
		score += backend.PopCount(backend.BishopAttacks(backend.BitScan(bb), occ)&^pos.White) * 2
	}
	for bb := pos.Bishops & pos.Black; bb != 0; bb &= bb - 1 {
		score -= backend.PopCount(backend.BishopAttacks(backend.BitScan(bb), occ)&^pos.Black) * 2
	}
	for bb := pos.Rooks & pos.White; bb != 0; bb &= bb - 1 {
		score += backend.PopCount(backend.RookAttacks(backend.BitScan(bb), occ)&^pos.White)
	}
	for bb := pos.Rooks & pos.Black; bb != 0; bb &= bb - 1 {
		score -= backend.PopCount(backend.RookAttacks(backend.BitScan(bb), occ)&^pos.Black)
	}
	return score
}

// Evaluate is the pure static evaluation function: centipawns from the
// side-to-move's perspective (spec.md §1).
func Evaluate(pos *backend.Position, pk PawnKingTable) int {
	mid, end, phase := pieceSquareAndMaterial(pos)

	var pawnScore int
	if cached, ok := pk.probe(pos.PawnKey); ok {
		pawnScore = cached
	} else {
		pawnScore = pawnStructureScore(pos)
		pk.store(pos.PawnKey, pawnScore)
	}

	score := mobilityScore(pos) + pawnScore
	if phase >= totalPhase {
		score += mid
	} else {
		score += (mid*phase + end*(totalPhase-phase)) / totalPhase
	}

	if !pos.WhiteMove {
		score = -score
	}
	return score
}

// IsLateEndGame reports whether the side to move has no non-pawn material
// besides a possible single minor piece — the guard null-move pruning
// (spec.md §4.5 step 3, "non-pawn material on side to move") uses to avoid
// zugzwang-prone null moves.
func IsLateEndGame(pos *backend.Position) bool {
	var nonPawn uint64
	if pos.WhiteMove {
		nonPawn = pos.White &^ (pos.Pawns | pos.Kings)
	} else {
		nonPawn = pos.Black &^ (pos.Pawns | pos.Kings)
	}
	if nonPawn == 0 {
		return true
	}
	return !backend.MoreThanOne(nonPawn) && nonPawn&pos.Queens == 0 && nonPawn&pos.Rooks == 0
}
