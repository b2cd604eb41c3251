package backend

import (
	"fmt"
	"strconv"
	"strings"
)

// StartPosFEN is the FEN for the initial position.
const StartPosFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var pieceFromFEN = map[rune]int{'p': Pawn, 'n': Knight, 'b': Bishop, 'r': Rook, 'q': Queen, 'k': King}
var fenFromPiece = map[int]rune{Pawn: 'p', Knight: 'n', Bishop: 'b', Rook: 'r', Queen: 'q', King: 'k'}

// ParseFEN builds a Position from Forsyth-Edwards Notation, the format
// the UCI "position fen <fen>" command carries (spec.md §6).
func ParseFEN(fen string) (Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return Position{}, fmt.Errorf("backend: malformed FEN %q: need at least 4 fields", fen)
	}

	var pos Position
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return Position{}, fmt.Errorf("backend: malformed FEN %q: expected 8 ranks", fen)
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, c := range rankStr {
			if file > 7 {
				return Position{}, fmt.Errorf("backend: malformed FEN %q: rank overflow", fen)
			}
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			square := rank*8 + file
			white := c >= 'A' && c <= 'Z'
			piece, ok := pieceFromFEN[toLowerRune(c)]
			if !ok {
				return Position{}, fmt.Errorf("backend: malformed FEN %q: unknown piece %q", fen, c)
			}
			pos.TogglePiece(piece, white, square)
			file++
		}
	}

	switch fields[1] {
	case "w":
		pos.WhiteMove = true
	case "b":
		pos.WhiteMove = false
	default:
		return Position{}, fmt.Errorf("backend: malformed FEN %q: bad side to move", fen)
	}

	pos.Flags = WhiteKingSideCastleFlag | WhiteQueenSideCastleFlag | BlackKingSideCastleFlag | BlackQueenSideCastleFlag
	if fields[2] != "-" {
		for _, c := range fields[2] {
			switch c {
			case 'K':
				pos.Flags &^= WhiteKingSideCastleFlag
			case 'Q':
				pos.Flags &^= WhiteQueenSideCastleFlag
			case 'k':
				pos.Flags &^= BlackKingSideCastleFlag
			case 'q':
				pos.Flags &^= BlackQueenSideCastleFlag
			}
		}
	}

	if fields[3] != "-" {
		file := int(fields[3][0] - 'a')
		rank := int(fields[3][1] - '1')
		// FEN names the square behind the double-pushed pawn; EpSquare
		// holds the pawn's own square, one rank further on.
		if pos.WhiteMove {
			pos.EpSquare = rank*8 + file - 8
		} else {
			pos.EpSquare = rank*8 + file + 8
		}
	}

	if len(fields) > 4 {
		if n, err := strconv.Atoi(fields[4]); err == nil {
			pos.FiftyMove = int32(n)
		}
	}

	HashPosition(&pos)
	return pos, nil
}

func toLowerRune(c rune) rune {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// FEN renders pos back to Forsyth-Edwards Notation.
func (pos *Position) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			square := rank*8 + file
			bb := SquareMask[square]
			piece := pos.TypeOnSquare(bb)
			if piece == None {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			c := fenFromPiece[piece]
			if pos.White&bb != 0 {
				c = c - ('a' - 'A')
			}
			sb.WriteRune(c)
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if pos.WhiteMove {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	rights := ""
	if pos.Flags&WhiteKingSideCastleFlag == 0 {
		rights += "K"
	}
	if pos.Flags&WhiteQueenSideCastleFlag == 0 {
		rights += "Q"
	}
	if pos.Flags&BlackKingSideCastleFlag == 0 {
		rights += "k"
	}
	if pos.Flags&BlackQueenSideCastleFlag == 0 {
		rights += "q"
	}
	if rights == "" {
		rights = "-"
	}
	sb.WriteString(rights)

	sb.WriteByte(' ')
	if pos.EpSquare == 0 {
		sb.WriteByte('-')
	} else {
		sb.WriteString(squareNames[pos.epCaptureSquare()])
	}

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(int(pos.FiftyMove)))
	sb.WriteString(" 1")
	return sb.String()
}
