package ppos

import "fmt"

// 棋盘尺寸
const (
	BoardRows = 8
	BoardCols = 4
)

type Piece int8

const (
	PcNop Piece = 0x00

	PcWKing   Piece = 0x08
	PcWQueen  Piece = 0x09
	PcWRook   Piece = 0x0A
	PcWBishop Piece = 0x0B
	PcWKnight Piece = 0x0C
	PcWPawn   Piece = 0x0D

	PcBKing   Piece = 0x10
	PcBQueen  Piece = 0x11
	PcBRook   Piece = 0x12
	PcBBishop Piece = 0x13
	PcBKnight Piece = 0x14
	PcBPawn   Piece = 0x15
)

func GetPiece(pieceType PieceType, side Side) Piece {
	return Piece(side<<3) + Piece(pieceType)
}

func (pc Piece) GetSide() Side {
	return Side(pc >> 3)
}
func (pc Piece) GetType() PieceType {
	return PieceType(pc & 0x07)
}

// 换色，棋子种类不变
func (pc Piece) Flip() Piece {
	if pc == PcNop {
		return PcNop
	}
	return GetPiece(pc.GetType(), pc.GetSide().OpSide())
}
func (pc Piece) String() string {
	pcType := pc.GetType()
	switch pc.GetSide() {
	case SdWhite:
		return "KQRBNP"[pcType : pcType+1]
	case SdBlack:
		return "kqrbnp"[pcType : pcType+1]
	default:
		return "."
	}
}

type PieceType int8

const (
	PtKing   PieceType = 0x00
	PtQueen  PieceType = 0x01
	PtRook   PieceType = 0x02
	PtBishop PieceType = 0x03
	PtKnight PieceType = 0x04
	PtPawn   PieceType = 0x05
)

func (pt PieceType) String() string {
	switch pt {
	case PtKing:
		return "king"
	case PtQueen:
		return "queen"
	case PtRook:
		return "rook"
	case PtBishop:
		return "bishop"
	case PtKnight:
		return "knight"
	case PtPawn:
		return "pawn"
	default:
		return fmt.Sprintf("PieceType(%d)", int8(pt))
	}
}

type Side int8

const (
	SdWhite Side = 0x01
	SdBlack Side = 0x02
)

// 对方
func (site Side) OpSide() Side {
	return 0x03 - site
}
func (site Side) String() string {
	switch site {
	case SdWhite:
		return "White"
	case SdBlack:
		return "Black"
	default:
		return "Nop"
	}
}

// GameState classifies the position for the side to move.
type GameState int8

const (
	StateNormal GameState = iota
	StateCheckmate
	StateStalemate
)

func (s GameState) String() string {
	switch s {
	case StateCheckmate:
		return "checkmate"
	case StateStalemate:
		return "stalemate"
	default:
		return "normal"
	}
}

type Move uint16

const MvNop Move = 0x0000

func (mv Move) Src() Square {
	return Square(mv & 0xff)
}
func (mv Move) Dst() Square {
	return Square(mv >> 8)
}
func (mv Move) String() string {
	if mv == MvNop {
		return "(none)"
	}
	return mv.Coord()
}

// 坐标记法，如 a2a3
func (mv Move) Coord() string {
	return string([]rune{
		rune('a' + mv.Src().GetX()),
		rune('0' + BoardRows - mv.Src().GetY()),
		rune('a' + mv.Dst().GetX()),
		rune('0' + BoardRows - mv.Dst().GetY())},
	)
}

func GetMove(src Square, dst Square) Move {
	return Move(dst<<8 + src)
}

// ParseMove reads coordinate notation, e.g. "b2b3".
func ParseMove(coord string) (Move, error) {
	if len(coord) != 4 {
		return MvNop, fmt.Errorf("%w: %q", ErrBadMove, coord)
	}
	srcX, srcY, dstX, dstY := coordToX(coord[0]), coordToY(coord[1]), coordToX(coord[2]), coordToY(coord[3])
	src, dst := GetSquare(srcX, srcY), GetSquare(dstX, dstY)
	if !src.InBoard() || !dst.InBoard() {
		return MvNop, fmt.Errorf("%w: %q", ErrBadMove, coord)
	}
	return GetMove(src, dst), nil
}
func coordToX(c byte) int {
	return int(c) - 'a'
}
func coordToY(c byte) int {
	return BoardRows - (int(c) - '0')
}

// 棋盘格子
type Square int

func (sq Square) GetX() int {
	return int(sq&0x0f) - 3
}
func (sq Square) GetY() int {
	return int(sq>>4) - 3
}
func (sq Square) String() string {
	return fmt.Sprintf("%2x", int(sq))
}

// 上下翻转在棋盘的位置
func (sq Square) Flip() Square {
	return GetSquare(sq.GetX(), BoardRows-1-sq.GetY())
}
func GetSquare(x, y int) Square {
	if x < -3 || x > 12 || y < -3 || y > 12 {
		return 0
	}
	x += 3
	y += 3
	return Square(y<<4 + x)
}

const (
	SqStart Square = 0x33
	SqEnd   Square = 0xa6
)

var sqInBoard = func() [256]bool {
	var res [256]bool
	for y := 0; y < BoardRows; y++ {
		for x := 0; x < BoardCols; x++ {
			res[GetSquare(x, y)] = true
		}
	}
	return res
}()

func (sq Square) InBoard() bool {
	return sq >= 0 && sq < 256 && sqInBoard[sq]
}

// 兵的升变行
func (sq Square) PromotionRank(sd Side) bool {
	if sd == SdWhite {
		return sq.GetY() == 0
	}
	return sq.GetY() == BoardRows-1
}
