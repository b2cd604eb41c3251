package backend

import "github.com/mhib/lazybeak/utils"

// Static exchange evaluation: approximates the material outcome of a
// sequence of captures on a single square, without recursing into the
// search. Used by move ordering (spec.md C3, "good capture" vs "bad
// capture" split) and by SEE-based pruning in the main search (spec.md
// §4.5 step f).

// seeValues mirrors the ordering of piece material the evaluation
// package uses, kept local so backend has no dependency on evaluation.
var seeValues = [7]int{0, 100, 320, 330, 500, 900, 20000}

// attackersTo returns every piece (of either color) attacking square,
// given occupancy occ (which the caller may have already stripped of a
// hypothetical captured piece to uncover x-ray attackers).
func (pos *Position) attackersTo(square int, occ uint64) uint64 {
	var attackers uint64
	attackers |= WhitePawnAttacks[square] & pos.Pawns & pos.Black & occ
	attackers |= BlackPawnAttacks[square] & pos.Pawns & pos.White & occ
	attackers |= KnightAttacks[square] & pos.Knights & occ
	attackers |= KingAttacks[square] & pos.Kings & occ
	attackers |= BishopAttacks(square, occ) & (pos.Bishops | pos.Queens) & occ
	attackers |= RookAttacks(square, occ) & (pos.Rooks | pos.Queens) & occ
	return attackers
}

func (pos *Position) leastValuableAttacker(attackers uint64, white bool) (int, uint64) {
	var side uint64
	if white {
		side = pos.White
	} else {
		side = pos.Black
	}
	side &= attackers
	if side == 0 {
		return None, 0
	}
	for _, piece := range [...]int{Pawn, Knight, Bishop, Rook, Queen, King} {
		bb := side & pos.bitboardOf(piece)
		if bb != 0 {
			return piece, bb & -bb
		}
	}
	return None, 0
}

func (pos *Position) bitboardOf(piece int) uint64 {
	switch piece {
	case Pawn:
		return pos.Pawns
	case Knight:
		return pos.Knights
	case Bishop:
		return pos.Bishops
	case Rook:
		return pos.Rooks
	case Queen:
		return pos.Queens
	case King:
		return pos.Kings
	}
	return 0
}

// SeeValue runs the full swap-off algorithm and returns the net material
// gain, in centipawns, of playing move on the current side to move.
func (pos *Position) SeeValue(move Move) int {
	from, to := move.From(), move.To()
	occ := pos.White | pos.Black

	var gain [32]int
	depth := 0

	target := pos.TypeOnSquare(SquareMask[to])
	if move.Type() == EnpassMove {
		target = Pawn
	}
	gain[0] = seeValues[target]
	attacker := pos.TypeOnSquare(SquareMask[from])

	occ ^= SquareMask[from]
	if move.Type() == EnpassMove {
		occ ^= SquareMask[pos.EpSquare]
	}

	white := !pos.WhiteMove
	attackers := pos.attackersTo(to, occ)

	for {
		depth++
		gain[depth] = seeValues[attacker] - gain[depth-1]
		if utils.Max(-gain[depth-1], gain[depth]) < 0 {
			break
		}
		var fromBB uint64
		attacker, fromBB = pos.leastValuableAttacker(attackers, white)
		if attacker == None {
			break
		}
		occ ^= fromBB
		attackers &^= fromBB
		attackers |= pos.attackersTo(to, occ) & occ
		white = !white
	}

	for depth--; depth > 0; depth-- {
		gain[depth-1] = -utils.Max(-gain[depth-1], gain[depth])
	}
	return gain[0]
}


// SeeSign reports whether move has non-negative SEE value — the cutoff
// quiescence search uses to discard losing captures (spec.md §4.4 step 5
// analogue, "Ignore move with negative SEE unless in check").
func SeeSign(pos *Position, move Move) bool {
	if move.Type() != NormalMove || move.Special() != CaptureMove {
		if move.Type() != EnpassMove && move.Type() != PromotionMove {
			return true
		}
	}
	return pos.SeeValue(move) >= 0
}

// SeeAbove reports whether move's SEE value is >= threshold, used by the
// main search's SEE-based pruning (spec.md §4.5 step f) with a
// depth-scaled threshold.
func SeeAbove(pos *Position, move Move, threshold int) bool {
	return pos.SeeValue(move) >= threshold
}
