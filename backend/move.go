package backend

import "fmt"

// Move packs from/to/promotion/type into 16 bits so it both fits a TT
// entry's 16-bit move field (spec.md C1 TT Entry) and needs no allocation
// to generate or compare.
//
//	bits 0-5:   from square
//	bits 6-11:  to square
//	bits 12-13: move type (NormalMove/CastleMove/EnpassMove/PromotionMove)
//	bits 14-15: special (QuietMove/CaptureMove, or promoted piece for PromotionMove)
type Move uint16

const (
	NormalMove = iota
	CastleMove
	EnpassMove
	PromotionMove
)

const (
	QuietMove = iota
	CaptureMove
)

const (
	fromMask  = 0x3f
	toShift   = 6
	toMask    = 0x3f << toShift
	typeShift = 12
	typeMask  = 0x3 << typeShift
	specShift = 14
	specMask  = 0x3 << specShift
)

const NullMove Move = 0

func NewMove(from, to, moveType, special int) Move {
	return Move(from&fromMask | (to<<toShift)&toMask | (moveType<<typeShift)&typeMask | (special<<specShift)&specMask)
}

// NewPromotion encodes a promotion move; promotedPiece is one of
// Knight/Bishop/Rook/Queen and is stashed in the "special" field since
// promotions never reuse QuietMove/CaptureMove there. Whether a
// promotion is also a capture is recovered from board state at make time
// (see Position.MakeMove), not encoded in the move itself.
func NewPromotion(from, to, promotedPiece int) Move {
	special := promotedPiece - Knight
	return Move(from&fromMask | (to<<toShift)&toMask | (PromotionMove<<typeShift)&typeMask | (special<<specShift)&specMask)
}

func (m Move) From() int { return int(m) & fromMask }
func (m Move) To() int   { return (int(m) & toMask) >> toShift }
func (m Move) Type() int { return (int(m) & typeMask) >> typeShift }

// Special returns QuietMove/CaptureMove for NormalMove, or the promoted
// piece type for PromotionMove (via PromotedPiece()).
func (m Move) Special() int { return (int(m) & specMask) >> specShift }

// PromotedPiece returns the piece a PromotionMove promotes to.
func (m Move) PromotedPiece() int { return m.Special() + Knight }

// IsCaptureOrPromotion reports whether the move removes a piece from the
// target square or replaces the mover with a new piece type. Used
// pervasively by move ordering (quiet vs. noisy) and by the 50-move clock.
func (m Move) IsCaptureOrPromotion() bool {
	switch m.Type() {
	case PromotionMove, EnpassMove:
		return true
	case NormalMove:
		return m.Special() == CaptureMove
	default:
		return false
	}
}

var (
	WhiteKingSideCastle  = NewMove(E1, G1, CastleMove, QuietMove)
	WhiteQueenSideCastle = NewMove(E1, C1, CastleMove, QuietMove)
	BlackKingSideCastle  = NewMove(E8, G8, CastleMove, QuietMove)
	BlackQueenSideCastle = NewMove(E8, C8, CastleMove, QuietMove)
)

var squareNames = [64]string{
	"a1", "b1", "c1", "d1", "e1", "f1", "g1", "h1",
	"a2", "b2", "c2", "d2", "e2", "f2", "g2", "h2",
	"a3", "b3", "c3", "d3", "e3", "f3", "g3", "h3",
	"a4", "b4", "c4", "d4", "e4", "f4", "g4", "h4",
	"a5", "b5", "c5", "d5", "e5", "f5", "g5", "h5",
	"a6", "b6", "c6", "d6", "e6", "f6", "g6", "h6",
	"a7", "b7", "c7", "d7", "e7", "f7", "g7", "h7",
	"a8", "b8", "c8", "d8", "e8", "f8", "g8", "h8",
}

var promotionLetters = [4]string{"n", "b", "r", "q"}

// String renders the move in long algebraic notation, e.g. "e2e4",
// "e7e8q" — the wire format spec.md §6 mandates.
func (m Move) String() string {
	if m == NullMove {
		return "0000"
	}
	s := squareNames[m.From()] + squareNames[m.To()]
	if m.Type() == PromotionMove {
		s += promotionLetters[m.Special()]
	}
	return s
}

// EvaledMove pairs a pseudo-legal move with its move-ordering score slot,
// filled in by the move picker (engine.MoveEvaluator) and consumed by the
// partial-sort in sortMoves. Kept allocation-free: callers pass a
// stack-owned backing array.
type EvaledMove struct {
	Move  Move
	Value int16
}

func (e EvaledMove) String() string {
	return fmt.Sprintf("%s(%d)", e.Move, e.Value)
}
