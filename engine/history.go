package engine

import (
	. "github.com/mhib/lazybeak/backend"
)

// Move-ordering value buckets. Every EvaledMove.Value the move picker
// compares falls into exactly one band; the bands themselves only need
// to stay ordered relative to each other (spec.md C2/C3).
const (
	HashMoveValue    int16 = 32000
	GoodCaptureBase  int16 = 16384
	Killer1Value     int16 = 8192
	Killer2Value     int16 = 8191
	CounterMoveValue int16 = 8190
	BadCaptureBase   int16 = -16384
)

// MinSpecialMoveValue separates killers/countermoves from plain
// history-ordered quiets; quiets below it are the ones futility and
// move-count pruning are allowed to skip (spec.md §4.5).
const MinSpecialMoveValue = CounterMoveValue

// MinGoodCapture is the floor of the good-capture bucket; captures at or
// above it already passed a SEE test during scoring and are exempt from
// the search's own SEE-pruning pass.
const MinGoodCapture = GoodCaptureBase

// MaxBadCapture bounds the bad-capture bucket from above; used by the
// singular-extension search to stop scanning once it reaches moves this
// uninteresting (spec.md §4.5 singular extensions).
const MaxBadCapture = BadCaptureBase + 256

const maxHistory = 16384

// historyBonus implements the gravity-formula update shared by every
// history table (spec.md C2): bonus grows with depth up to a cap, and an
// entry is nudged toward +-maxHistory proportionally to how far it
// already is from the cap, so no single update can saturate a slot.
func historyBonus(depth int) int16 {
	b := depth * depth * 4
	if b > 1200 {
		b = 1200
	}
	return int16(b)
}

func updateHistory(entry *int16, bonus int16) {
	*entry += int16(int(bonus) - int(*entry)*int(abs16(bonus))/maxHistory)
}

func abs16(v int16) int16 {
	if v < 0 {
		return -v
	}
	return v
}

// maxContHistOffset is the deepest ply-offset a continuation-history table
// is kept for (spec.md §3 Data Model: "offsets {1,2,3,5,7} plies back").
// Index 0 is unused; every offset named anywhere in spec.md's Data Model
// or its QUIETS scoring formula (spec.md §4.3) fits in 1..7, so tables are
// kept for every offset in that union rather than guessing which of the
// two (mutually inconsistent) named sets is authoritative.
const maxContHistOffset = 7

// threatBonus values for the QUIETS formula's threat_bonus term (spec.md
// §4.3): rewards moving a piece off a square attacked by a cheaper enemy
// piece. Tuning knobs (spec.md §9 open question (a)), not invariants.
const (
	threatBonusQueenByRook int16 = 12000
	threatBonusRookByMinor int16 = 6000
	threatBonusMinorByPawn int16 = 3000
)

// MoveEvaluator owns every per-thread move-ordering table: butterfly
// history, capture history, a continuation history kept at every ply
// offset spec.md §3/§4.3 names, killers and countermoves (spec.md C2). One
// lives inside each search thread; tables are never shared across
// threads, so no synchronization is needed here even under Lazy SMP
// (spec.md §5).
type MoveEvaluator struct {
	stack *[STACK_SIZE]StackEntry

	butterfly [2][64][64]int16
	capture   [7][64][7]int16
	// continu[k] is the continuation-history table for the move made k
	// plies back; index 0 is unused. The per-ply "pointer" spec.md's Data
	// Model describes is just stack[height-k].position.LastMove — every
	// ply already records the move that reached it, so no separate
	// pointer field is needed to look any offset up.
	continu [maxContHistOffset + 1][6][64][6][64]int16

	killers     [STACK_SIZE][2]Move
	countermove [7][64]Move
}

func movedPiece(pos *Position, move Move) int {
	return pos.TypeOnSquare(SquareMask[move.From()])
}

func capturedPieceType(pos *Position, move Move) int {
	if move.Type() == EnpassMove {
		return Pawn
	}
	return pos.TypeOnSquare(SquareMask[move.To()])
}

// scoreCapture assigns MVV-plus-history ordering value (the attacker's
// type does not enter the score) to a capture
// or promotion, bucketed by whether its static exchange evaluation is
// non-negative (spec.md C3 "good" vs "bad" capture stage).
func (me *MoveEvaluator) scoreCapture(pos *Position, move Move) int16 {
	piece := movedPiece(pos, move)
	captured := capturedPieceType(pos, move)
	hist := me.capture[piece][move.To()][captured]
	base := GoodCaptureBase
	if !SeeSign(pos, move) {
		base = BadCaptureBase
	}
	return base + int16(captured)*64 + hist/64
}

// contHistAncestor reports the piece/to-square of the move that reached
// the ply k plies behind height, if any. Returns ok=false at the root,
// past a null move, or before the search stack begins — the caller then
// treats that offset's continuation-history term as zero.
func (me *MoveEvaluator) contHistAncestor(height, k int) (piece, to int, ok bool) {
	if me.stack == nil || height-k < 0 {
		return 0, 0, false
	}
	prevMove := me.stack[height-k].position.LastMove
	if prevMove == NullMove {
		return 0, 0, false
	}
	piece = me.stack[height-k].position.TypeOnSquare(SquareMask[prevMove.To()])
	to = prevMove.To()
	return piece, to, true
}

func (me *MoveEvaluator) contHistValue(pos *Position, move Move, height, k int) int {
	prevPiece, prevTo, ok := me.contHistAncestor(height, k)
	if !ok {
		return 0
	}
	piece := movedPiece(pos, move)
	return int(me.continu[k][prevPiece][prevTo][piece][move.To()])
}

// threatenedBitboards identifies, for the side to move, own pieces sitting
// on a square attacked by a cheaper enemy piece type (spec.md §4.3
// "threatened pieces are identified by intersecting own pieces with
// attack-by-lower-value-piece bitboards"): queens attacked by a rook,
// rooks attacked by a minor, minors attacked by a pawn.
func threatenedBitboards(pos *Position) (queens, rooks, minors uint64) {
	var own, enemy uint64
	if pos.WhiteMove {
		own, enemy = pos.White, pos.Black
	} else {
		own, enemy = pos.Black, pos.White
	}
	occ := pos.White | pos.Black

	var pawnAttacks uint64
	for bb := pos.Pawns & enemy; bb != 0; bb &= bb - 1 {
		sq := BitScan(bb)
		if pos.WhiteMove {
			// enemy is Black: attacks fan out from Black's side
			pawnAttacks |= BlackPawnAttacks[sq]
		} else {
			pawnAttacks |= WhitePawnAttacks[sq]
		}
	}

	var minorAttacks uint64
	for bb := pos.Knights & enemy; bb != 0; bb &= bb - 1 {
		minorAttacks |= KnightAttacks[BitScan(bb)]
	}
	for bb := pos.Bishops & enemy; bb != 0; bb &= bb - 1 {
		minorAttacks |= BishopAttacks(BitScan(bb), occ)
	}

	var rookAttacks uint64
	for bb := pos.Rooks & enemy; bb != 0; bb &= bb - 1 {
		rookAttacks |= RookAttacks(BitScan(bb), occ)
	}

	queens = pos.Queens & own & rookAttacks
	rooks = pos.Rooks & own & minorAttacks
	minors = (pos.Knights | pos.Bishops) & own & pawnAttacks
	return
}

// threatBonusFor returns the threat_bonus term of the QUIETS formula
// (spec.md §4.3) for a move leaving a threatened piece's square.
func threatBonusFor(pos *Position, move Move, queens, rooks, minors uint64) int16 {
	fromBB := SquareMask[move.From()]
	switch movedPiece(pos, move) {
	case Queen:
		if fromBB&queens != 0 {
			return threatBonusQueenByRook
		}
	case Rook:
		if fromBB&rooks != 0 {
			return threatBonusRookByMinor
		}
	case Knight, Bishop:
		if fromBB&minors != 0 {
			return threatBonusMinorByPawn
		}
	}
	return 0
}

// scoreQuiet implements the QUIETS formula of spec.md §4.3:
// threat_bonus + butterfly[side][from][to] + 2·CH1 + CH2 + CH4 + CH6.
// Continuation-history tables are kept for every offset spec.md names
// (1..7, see maxContHistOffset); this formula reads the four offsets the
// literal equation weights (1, 2, 4, 6) — the others are still maintained
// by Update so a future consumer (e.g. a deeper singular-extension
// verification) can read them without re-deriving the stack-walk.
func (me *MoveEvaluator) scoreQuiet(pos *Position, move Move, height int, queens, rooks, minors uint64) int16 {
	side := 0
	if !pos.WhiteMove {
		side = 1
	}
	value := int(me.butterfly[side][move.From()][move.To()])
	value += int(threatBonusFor(pos, move, queens, rooks, minors))
	value += 2 * me.contHistValue(pos, move, height, 1)
	value += me.contHistValue(pos, move, height, 2)
	value += me.contHistValue(pos, move, height, 4)
	value += me.contHistValue(pos, move, height, 6)
	return int16(value / 32)
}

// EvaluateMoves scores every move in the list for the main search move
// picker: the TT move first, then captures/promotions by scoreCapture,
// killers and the countermove above ordinary quiets, and everything else
// by the threat/butterfly/continuation-history QUIETS formula (spec.md
// C2/C3). The threatened-piece bitboards only depend on pos, not on any
// individual move, so they're computed once per call rather than per
// quiet move.
func (me *MoveEvaluator) EvaluateMoves(pos *Position, moves []EvaledMove, hashMove Move, height, depth int) {
	var counter Move
	if prevPiece, prevTo, ok := me.contHistAncestor(height, 1); ok {
		counter = me.countermove[prevPiece][prevTo]
	}
	k1, k2 := me.killers[height][0], me.killers[height][1]
	queens, rooks, minors := threatenedBitboards(pos)

	for i := range moves {
		m := moves[i].Move
		switch {
		case m == hashMove:
			moves[i].Value = HashMoveValue
		case m.IsCaptureOrPromotion():
			moves[i].Value = me.scoreCapture(pos, m)
		case m == k1:
			moves[i].Value = Killer1Value
		case m == k2:
			moves[i].Value = Killer2Value
		case counter != NullMove && m == counter:
			moves[i].Value = CounterMoveValue
		default:
			moves[i].Value = me.scoreQuiet(pos, m, height, queens, rooks, minors)
		}
	}
}

// EvaluateQsMoves scores the capture-only move list quiescence recurses
// over (spec.md §4.4): the TT move first, everything else by
// scoreCapture since quiescence never generates quiets outside of check.
func (me *MoveEvaluator) EvaluateQsMoves(pos *Position, moves []EvaledMove, hashMove Move, inCheck bool) {
	for i := range moves {
		m := moves[i].Move
		if m == hashMove {
			moves[i].Value = HashMoveValue
			continue
		}
		if m.IsCaptureOrPromotion() {
			moves[i].Value = me.scoreCapture(pos, m)
			continue
		}
		moves[i].Value = 0
	}
}

// Update runs after a beta cutoff (or a best-move improvement at a PV
// node): it rewards bestMove and penalizes every quiet move searched
// before it, records killers/countermoves, and feeds every continuation
// history offset spec.md §3 names (spec.md C2). Captures never touch the
// quiet tables; the caller only appends quiets to quietsSearched.
func (me *MoveEvaluator) Update(pos *Position, quietsSearched []Move, bestMove Move, depth, height int) {
	bonus := historyBonus(depth)
	side := 0
	if !pos.WhiteMove {
		side = 1
	}

	if prevPiece, prevTo, ok := me.contHistAncestor(height, 1); ok {
		me.countermove[prevPiece][prevTo] = bestMove
	}

	type ancestor struct {
		piece, to int
	}
	var ancestors [maxContHistOffset + 1]ancestor
	var ancestorOk [maxContHistOffset + 1]bool
	for k := 1; k <= maxContHistOffset; k++ {
		piece, to, ok := me.contHistAncestor(height, k)
		ancestors[k] = ancestor{piece, to}
		ancestorOk[k] = ok
	}

	for _, m := range quietsSearched {
		sign := bonus
		if m != bestMove {
			sign = -bonus
		}
		updateHistory(&me.butterfly[side][m.From()][m.To()], sign)
		piece := movedPiece(pos, m)
		for k := 1; k <= maxContHistOffset; k++ {
			if !ancestorOk[k] {
				continue
			}
			a := ancestors[k]
			updateHistory(&me.continu[k][a.piece][a.to][piece][m.To()], sign)
		}
	}

	if me.killers[height][0] != bestMove {
		me.killers[height][1] = me.killers[height][0]
		me.killers[height][0] = bestMove
	}
}
