package backend

// Pseudo-legal move generation: callers validate legality by attempting
// Position.MakeMove and discarding moves that leave the mover's own king
// in check. Nothing here allocates; every generator writes into a
// caller-owned backing array (see engine.StackEntry.moves) and returns a
// reslice of it.

func appendMove(buf []EvaledMove, n int, m Move) int {
	buf[n] = EvaledMove{Move: m}
	return n + 1
}

// IsMovePseudoLegal reports whether move is a pseudo-legal move in pos.
// Used to validate a TT move before spending a move-generation pass on
// it (spec.md §4.3), and to drop TT moves that belong to a different
// position entirely after a hash collision (spec.md §7).
func (pos *Position) IsMovePseudoLegal(move Move) bool {
	if move == NullMove {
		return false
	}
	from, to := move.From(), move.To()
	fromBB := SquareMask[from]
	ownOcc, theirOcc := pos.ownOccupancy()

	if fromBB&ownOcc == 0 {
		return false
	}
	piece := pos.TypeOnSquare(fromBB)
	if piece == None {
		return false
	}
	toBB := SquareMask[to]
	if toBB&ownOcc != 0 {
		return false
	}

	switch move.Type() {
	case CastleMove:
		var buf [8]EvaledMove
		n := pos.generateCastling(buf[:0], 0)
		for i := 0; i < n; i++ {
			if buf[i].Move == move {
				return true
			}
		}
		return false
	case EnpassMove:
		return piece == Pawn && pos.EpSquare != 0 && to == pos.epCaptureSquare()
	case PromotionMove:
		if piece != Pawn {
			return false
		}
		promRank := RANK_8
		if !pos.WhiteMove {
			promRank = RANK_1
		}
		if Rank(to) != promRank {
			return false
		}
	}

	switch piece {
	case Pawn:
		masks := pos.pawnAttacksOrPushes(from)
		if toBB&theirOcc != 0 {
			return masks.attacks&toBB != 0
		}
		return masks.pushes&toBB != 0
	case Knight:
		return KnightAttacks[from]&toBB != 0
	case Bishop:
		return BishopAttacks(from, pos.White|pos.Black)&toBB != 0
	case Rook:
		return RookAttacks(from, pos.White|pos.Black)&toBB != 0
	case Queen:
		return QueenAttacks(from, pos.White|pos.Black)&toBB != 0
	case King:
		return KingAttacks[from]&toBB != 0
	}
	return false
}

// epCaptureSquare returns the square a capturing pawn lands on to take
// pos.EpSquare en passant. EpSquare itself holds the square the
// just-moved pawn sits on (spec.md C9 "en-passant target"); the landing
// square is one rank behind it from the side-to-move's perspective.
func (pos *Position) epCaptureSquare() int {
	if pos.WhiteMove {
		return pos.EpSquare + 8
	}
	return pos.EpSquare - 8
}

func (pos *Position) ownOccupancy() (own, their uint64) {
	if pos.WhiteMove {
		return pos.White, pos.Black
	}
	return pos.Black, pos.White
}

type pawnMoveMasks struct {
	attacks uint64
	pushes  uint64
}

func (pos *Position) pawnAttacksOrPushes(from int) pawnMoveMasks {
	bb := SquareMask[from]
	occ := pos.White | pos.Black
	if pos.WhiteMove {
		pushes := North(bb) &^ occ
		if pushes != 0 && Rank(from) == RANK_2 {
			pushes |= North(pushes) &^ occ
		}
		return pawnMoveMasks{WhitePawnAttacks[from], pushes}
	}
	pushes := South(bb) &^ occ
	if pushes != 0 && Rank(from) == RANK_7 {
		pushes |= South(pushes) &^ occ
	}
	return pawnMoveMasks{BlackPawnAttacks[from], pushes}
}

// GenerateAllMoves generates every pseudo-legal move (quiet and noisy)
// into buffer, returning the used prefix.
func (pos *Position) GenerateAllMoves(buffer []EvaledMove) []EvaledMove {
	n := pos.generatePawnMoves(buffer, 0, true)
	n = pos.generatePieceMoves(buffer, n, true)
	n = pos.generateCastling(buffer, n)
	return buffer[:n]
}

// GenerateAllCaptures generates captures and promotions (all four
// promotion pieces, capturing or not) only, the move set the quiescence
// search (C4) recurses over.
func (pos *Position) GenerateAllCaptures(buffer []EvaledMove) []EvaledMove {
	n := pos.generatePawnMoves(buffer, 0, false)
	n = pos.generatePieceMoves(buffer, n, false)
	return buffer[:n]
}

// GenerateQuietChecks generates non-capturing moves that give check,
// used by the quiescence move picker's QTACTICAL stage when depth >= 0
// (spec.md §4.4 step 4).
func (pos *Position) GenerateQuietChecks(buffer []EvaledMove) []EvaledMove {
	var all [256]EvaledMove
	moves := pos.GenerateAllMoves(all[:])
	n := 0
	var child Position
	for i := range moves {
		if moves[i].Move.IsCaptureOrPromotion() {
			continue
		}
		if !pos.MakeMove(moves[i].Move, &child) {
			continue
		}
		if child.IsInCheck() {
			n = appendMove(buffer, n, moves[i].Move)
		}
	}
	return buffer[:n]
}

func (pos *Position) generatePieceMoves(buffer []EvaledMove, n int, includeQuiets bool) int {
	ownOcc, theirOcc := pos.ownOccupancy()
	occ := ownOcc | theirOcc

	for bb := pos.Knights & ownOcc; bb != 0; bb &= bb - 1 {
		from := BitScan(bb)
		n = pos.emitAttacks(buffer, n, from, KnightAttacks[from]&^ownOcc, theirOcc, includeQuiets)
	}
	for bb := pos.Bishops & ownOcc; bb != 0; bb &= bb - 1 {
		from := BitScan(bb)
		n = pos.emitAttacks(buffer, n, from, BishopAttacks(from, occ)&^ownOcc, theirOcc, includeQuiets)
	}
	for bb := pos.Rooks & ownOcc; bb != 0; bb &= bb - 1 {
		from := BitScan(bb)
		n = pos.emitAttacks(buffer, n, from, RookAttacks(from, occ)&^ownOcc, theirOcc, includeQuiets)
	}
	for bb := pos.Queens & ownOcc; bb != 0; bb &= bb - 1 {
		from := BitScan(bb)
		n = pos.emitAttacks(buffer, n, from, QueenAttacks(from, occ)&^ownOcc, theirOcc, includeQuiets)
	}
	for bb := pos.Kings & ownOcc; bb != 0; bb &= bb - 1 {
		from := BitScan(bb)
		n = pos.emitAttacks(buffer, n, from, KingAttacks[from]&^ownOcc, theirOcc, includeQuiets)
	}
	return n
}

func (pos *Position) emitAttacks(buffer []EvaledMove, n, from int, attacks, theirOcc uint64, includeQuiets bool) int {
	for captures := attacks & theirOcc; captures != 0; captures &= captures - 1 {
		to := BitScan(captures)
		n = appendMove(buffer, n, NewMove(from, to, NormalMove, CaptureMove))
	}
	if includeQuiets {
		for quiets := attacks &^ theirOcc; quiets != 0; quiets &= quiets - 1 {
			to := BitScan(quiets)
			n = appendMove(buffer, n, NewMove(from, to, NormalMove, QuietMove))
		}
	}
	return n
}

var promotionPieces = [4]int{Queen, Rook, Bishop, Knight}

func (pos *Position) generatePawnMoves(buffer []EvaledMove, n int, includeQuiets bool) int {
	ownOcc, theirOcc := pos.ownOccupancy()
	pawns := pos.Pawns & ownOcc
	promRank := RANK_8
	if !pos.WhiteMove {
		promRank = RANK_1
	}

	for bb := pawns; bb != 0; bb &= bb - 1 {
		from := BitScan(bb)
		masks := pos.pawnAttacksOrPushes(from)

		for caps := masks.attacks & theirOcc; caps != 0; caps &= caps - 1 {
			to := BitScan(caps)
			if Rank(to) == promRank {
				for _, p := range promotionPieces {
					n = appendMove(buffer, n, NewPromotion(from, to, p))
				}
			} else {
				n = appendMove(buffer, n, NewMove(from, to, NormalMove, CaptureMove))
			}
		}

		if pos.EpSquare != 0 {
			if landing := pos.epCaptureSquare(); masks.attacks&SquareMask[landing] != 0 {
				n = appendMove(buffer, n, NewMove(from, landing, EnpassMove, CaptureMove))
			}
		}

		for pushes := masks.pushes; pushes != 0; pushes &= pushes - 1 {
			to := BitScan(pushes)
			if Rank(to) == promRank {
				for _, p := range promotionPieces {
					n = appendMove(buffer, n, NewPromotion(from, to, p))
				}
			} else if includeQuiets {
				n = appendMove(buffer, n, NewMove(from, to, NormalMove, QuietMove))
			}
		}
	}
	return n
}

func (pos *Position) generateCastling(buffer []EvaledMove, n int) int {
	if pos.WhiteMove {
		if pos.Flags&WhiteKingSideCastleFlag == 0 &&
			(pos.White|pos.Black)&(SquareMask[F1]|SquareMask[G1]) == 0 &&
			!pos.IsSquareAttacked(E1, false) && !pos.IsSquareAttacked(F1, false) && !pos.IsSquareAttacked(G1, false) {
			n = appendMove(buffer, n, WhiteKingSideCastle)
		}
		if pos.Flags&WhiteQueenSideCastleFlag == 0 &&
			(pos.White|pos.Black)&(SquareMask[B1]|SquareMask[C1]|SquareMask[D1]) == 0 &&
			!pos.IsSquareAttacked(E1, false) && !pos.IsSquareAttacked(D1, false) && !pos.IsSquareAttacked(C1, false) {
			n = appendMove(buffer, n, WhiteQueenSideCastle)
		}
	} else {
		if pos.Flags&BlackKingSideCastleFlag == 0 &&
			(pos.White|pos.Black)&(SquareMask[F8]|SquareMask[G8]) == 0 &&
			!pos.IsSquareAttacked(E8, true) && !pos.IsSquareAttacked(F8, true) && !pos.IsSquareAttacked(G8, true) {
			n = appendMove(buffer, n, BlackKingSideCastle)
		}
		if pos.Flags&BlackQueenSideCastleFlag == 0 &&
			(pos.White|pos.Black)&(SquareMask[B8]|SquareMask[C8]|SquareMask[D8]) == 0 &&
			!pos.IsSquareAttacked(E8, true) && !pos.IsSquareAttacked(D8, true) && !pos.IsSquareAttacked(C8, true) {
			n = appendMove(buffer, n, BlackQueenSideCastle)
		}
	}
	return n
}
