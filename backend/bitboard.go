package backend

import "math/bits"

// Square indices, a1 = 0 .. h8 = 63, matching the little-endian rank-file
// mapping the magic bitboard tables in magic_bitboard.go are built against.
const (
	A1 = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

const (
	FILE_A = iota
	FILE_B
	FILE_C
	FILE_D
	FILE_E
	FILE_F
	FILE_G
	FILE_H
)

const (
	RANK_1 = iota
	RANK_2
	RANK_3
	RANK_4
	RANK_5
	RANK_6
	RANK_7
	RANK_8
)

var FILES [8]uint64
var RANKS [8]uint64
var SquareMask [64]uint64

const FILE_A_BB = uint64(0x0101010101010101)
const FILE_H_BB = FILE_A_BB << 7
const RANK_1_BB = uint64(0xff)
const RANK_8_BB = RANK_1_BB << 56

func init() {
	for i := 0; i < 64; i++ {
		SquareMask[i] = uint64(1) << uint(i)
	}
	for f := 0; f < 8; f++ {
		FILES[f] = FILE_A_BB << uint(f)
	}
	for r := 0; r < 8; r++ {
		RANKS[r] = RANK_1_BB << uint(8*r)
	}
}

// File returns the file (0..7) of square.
func File(square int) int {
	return square & 7
}

// Rank returns the rank (0..7) of square.
func Rank(square int) int {
	return square >> 3
}

// BitScan returns the index of the least significant set bit.
// Result is undefined for bb == 0, mirroring the teacher's usage where
// callers always guard with a non-zero check first.
func BitScan(bb uint64) int {
	return bits.TrailingZeros64(bb)
}

// PopCount returns the number of set bits.
func PopCount(bb uint64) int {
	return bits.OnesCount64(bb)
}

// MoreThanOne reports whether bb has two or more set bits, without a full
// popcount — the classic bb & (bb-1) != 0 trick.
func MoreThanOne(bb uint64) bool {
	return bb&(bb-1) != 0
}

func initArray(arr *[64]uint64, fn func(uint64) uint64) {
	for i := 0; i < 64; i++ {
		arr[i] = fn(SquareMask[i])
	}
}

func North(bb uint64) uint64 { return bb << 8 }
func South(bb uint64) uint64 { return bb >> 8 }
func East(bb uint64) uint64  { return (bb &^ FILE_H_BB) << 1 }
func West(bb uint64) uint64  { return (bb &^ FILE_A_BB) >> 1 }

func NorthEast(bb uint64) uint64 { return North(East(bb)) }
func NorthWest(bb uint64) uint64 { return North(West(bb)) }
func SouthEast(bb uint64) uint64 { return South(East(bb)) }
func SouthWest(bb uint64) uint64 { return South(West(bb)) }

var KnightAttacks [64]uint64
var KingAttacks [64]uint64
var WhitePawnAttacks [64]uint64
var BlackPawnAttacks [64]uint64

func knightAttacksFrom(bb uint64) (res uint64) {
	res |= North(North(East(bb))) | North(North(West(bb)))
	res |= South(South(East(bb))) | South(South(West(bb)))
	res |= East(East(North(bb))) | East(East(South(bb)))
	res |= West(West(North(bb))) | West(West(South(bb)))
	return
}

func kingAttacksFrom(bb uint64) uint64 {
	return North(bb) | South(bb) | East(bb) | West(bb) |
		NorthEast(bb) | NorthWest(bb) | SouthEast(bb) | SouthWest(bb)
}

func init() {
	initArray(&KnightAttacks, knightAttacksFrom)
	initArray(&KingAttacks, kingAttacksFrom)
	initArray(&WhitePawnAttacks, func(bb uint64) uint64 { return NorthEast(bb) | NorthWest(bb) })
	initArray(&BlackPawnAttacks, func(bb uint64) uint64 { return SouthEast(bb) | SouthWest(bb) })
}

// BishopAttacks returns bishop attack squares from square given the full
// board occupancy, via the precomputed magic-bitboard tables.
func BishopAttacks(square int, occupation uint64) uint64 {
	magic := bishopMagics[square]
	blockers := occupation & magic.blockerMask
	return bishopMoveBoard[square][(blockers*magic.magicIndex)>>bishopShift]
}

// RookAttacks returns rook attack squares from square given the full board
// occupancy, via the precomputed magic-bitboard tables.
func RookAttacks(square int, occupation uint64) uint64 {
	magic := rookMagics[square]
	blockers := occupation & magic.blockerMask
	return rookMoveBoard[square][(blockers*magic.magicIndex)>>rookShift]
}

// QueenAttacks is the union of bishop and rook attacks.
func QueenAttacks(square int, occupation uint64) uint64 {
	return BishopAttacks(square, occupation) | RookAttacks(square, occupation)
}
