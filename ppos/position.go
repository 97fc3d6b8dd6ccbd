package ppos

import (
	"errors"
	"strings"
)

// 初始move长度
const initMovesSize = 32

var (
	ErrBadFen      = errors.New("ppos: malformed fen")
	ErrBadMove     = errors.New("ppos: malformed move")
	ErrIllegalMove = errors.New("ppos: illegal move")
)

type HistoryMove struct {
	move       Move
	pcMoved    Piece
	pcCaptured Piece
}

// Position is a mutable 4x8 board. Moves are applied in place and taken
// back in LIFO order through UndoMove.
type Position struct {
	// 棋盘
	pcSquares [256]Piece
	// 该哪方走
	playerSd Side
	// 走棋栈
	mvStack []HistoryMove
}

// 创建局面
func CreatePosition() *Position {
	pos := &Position{}
	pos.playerSd = SdWhite
	pos.mvStack = make([]HistoryMove, 0, 64)
	return pos
}

func (pos *Position) ChangeSide() {
	pos.playerSd = pos.playerSd.OpSide()
}
func (pos *Position) AddPiece(sq Square, pc Piece) {
	pos.pcSquares[sq] = pc
}
func (pos *Position) DelPiece(sq Square) Piece {
	pcCaptured := pos.pcSquares[sq]
	pos.pcSquares[sq] = PcNop
	return pcCaptured
}

func (pos *Position) Side() Side {
	return pos.playerSd
}
func (pos *Position) WhiteToMove() bool {
	return pos.playerSd == SdWhite
}
func (pos *Position) Rows() int {
	return BoardRows
}
func (pos *Position) Cols() int {
	return BoardCols
}
func (pos *Position) PieceAt(row, col int) Piece {
	sq := GetSquare(col, row)
	if !sq.InBoard() {
		return PcNop
	}
	return pos.pcSquares[sq]
}

// 已走的步数
func (pos *Position) Ply() int {
	return len(pos.mvStack)
}

func (pos *Position) MovePiece(mv Move) (pcMoved, pcCaptured Piece) {
	var sqSrc, sqDst = mv.Src(), mv.Dst()
	pcMoved = pos.DelPiece(sqSrc)
	pcCaptured = pos.DelPiece(sqDst)
	pcPlaced := pcMoved
	if pcMoved.GetType() == PtPawn && sqDst.PromotionRank(pcMoved.GetSide()) {
		pcPlaced = GetPiece(PtQueen, pcMoved.GetSide())
	}
	pos.AddPiece(sqDst, pcPlaced)
	return pcMoved, pcCaptured
}
func (pos *Position) UndoMovePiece(mv Move, pcMoved, pcCaptured Piece) {
	var sqSrc, sqDst = mv.Src(), mv.Dst()
	pos.DelPiece(sqDst)
	pos.AddPiece(sqSrc, pcMoved)
	pos.AddPiece(sqDst, pcCaptured)
}

func (pos *Position) kingSquare(sd Side) (Square, bool) {
	king := GetPiece(PtKing, sd)
	for sq := SqStart; sq <= SqEnd; sq++ {
		if sq.InBoard() && pos.pcSquares[sq] == king {
			return sq, true
		}
	}
	return 0, false
}

// HasKing reports whether the given side still has its king on the board.
func (pos *Position) HasKing(sd Side) bool {
	_, ok := pos.kingSquare(sd)
	return ok
}

// 判断格子是否被 opSide 攻击
func (pos *Position) Attacked(sq Square, opSide Side) bool {
	// 1. 兵
	opPawn := GetPiece(PtPawn, opSide)
	for delta := Square(-0x01); delta <= 0x01; delta += 0x02 {
		sqSrc := sq - pawnForward(opSide) + delta
		if sqSrc.InBoard() && pos.pcSquares[sqSrc] == opPawn {
			return true
		}
	}
	// 2. 马和王
	opKnight := GetPiece(PtKnight, opSide)
	for _, delta := range knightMoveTab {
		sqSrc := sq + delta
		if sqSrc.InBoard() && pos.pcSquares[sqSrc] == opKnight {
			return true
		}
	}
	opKing := GetPiece(PtKing, opSide)
	for _, delta := range kingMoveTab {
		sqSrc := sq + delta
		if sqSrc.InBoard() && pos.pcSquares[sqSrc] == opKing {
			return true
		}
	}
	// 3. 直线与斜线
	opQueen := GetPiece(PtQueen, opSide)
	if pos.slideHits(sq, lineMoveDelta[:], GetPiece(PtRook, opSide), opQueen) {
		return true
	}
	return pos.slideHits(sq, diagMoveDelta[:], GetPiece(PtBishop, opSide), opQueen)
}

func (pos *Position) slideHits(sq Square, deltas []Square, pcA, pcB Piece) bool {
	for _, delta := range deltas {
		sqDst := sq + delta
		for ; sqDst.InBoard() && pos.pcSquares[sqDst] == PcNop; sqDst += delta {
		}
		if !sqDst.InBoard() {
			continue
		}
		if pc := pos.pcSquares[sqDst]; pc == pcA || pc == pcB {
			return true
		}
	}
	return false
}

// Checked reports whether the side to move has its king attacked.
// A side without a king is never in check.
func (pos *Position) Checked() bool {
	return pos.sideChecked(pos.playerSd)
}

func (pos *Position) sideChecked(sd Side) bool {
	sqKing, ok := pos.kingSquare(sd)
	if !ok {
		return false
	}
	return pos.Attacked(sqKing, sd.OpSide())
}

func (pos *Position) InCheck() bool {
	return pos.Checked()
}

// onlyCapture=true  只生成吃子的走法，否则生成所有走法
func (pos *Position) GenerateMoves(moves []Move, onlyCapture bool) []Move {
	var testCapture = func(pcDst Piece) bool {
		return !onlyCapture || pcDst != PcNop
	}
	var stepMoves = func(sqSrc Square, deltas []Square) {
		for _, delta := range deltas {
			sqDst := sqSrc + delta
			if !sqDst.InBoard() {
				continue
			}
			pcDst := pos.pcSquares[sqDst]
			if pcDst.GetSide() != pos.playerSd && testCapture(pcDst) {
				moves = append(moves, GetMove(sqSrc, sqDst))
			}
		}
	}
	var slideMoves = func(sqSrc Square, deltas []Square) {
		for _, sqDelta := range deltas {
			for sqDst := sqSrc + sqDelta; sqDst.InBoard(); sqDst += sqDelta {
				pcDst := pos.pcSquares[sqDst]
				if pcDst == PcNop {
					if !onlyCapture {
						moves = append(moves, GetMove(sqSrc, sqDst))
					}
					continue
				}
				if pcDst.GetSide() != pos.playerSd {
					moves = append(moves, GetMove(sqSrc, sqDst))
				}
				break
			}
		}
	}
	for sqSrc := SqStart; sqSrc <= SqEnd; sqSrc++ {
		if !sqSrc.InBoard() {
			continue
		}
		pcSrc := pos.pcSquares[sqSrc]
		if pcSrc == PcNop || pcSrc.GetSide() != pos.playerSd {
			continue
		}
		switch pcSrc.GetType() {
		case PtKing:
			stepMoves(sqSrc, kingMoveTab[:])
		case PtKnight:
			stepMoves(sqSrc, knightMoveTab[:])
		case PtBishop:
			slideMoves(sqSrc, diagMoveDelta[:])
		case PtRook:
			slideMoves(sqSrc, lineMoveDelta[:])
		case PtQueen:
			slideMoves(sqSrc, lineMoveDelta[:])
			slideMoves(sqSrc, diagMoveDelta[:])
		case PtPawn:
			sqDst := sqSrc + pawnForward(pos.playerSd)
			if sqDst.InBoard() && pos.pcSquares[sqDst] == PcNop && !onlyCapture {
				moves = append(moves, GetMove(sqSrc, sqDst))
			}
			for delta := Square(-0x01); delta <= 0x01; delta += 0x02 {
				sqDst := sqSrc + pawnForward(pos.playerSd) + delta
				if !sqDst.InBoard() {
					continue
				}
				pcDst := pos.pcSquares[sqDst]
				if pcDst != PcNop && pcDst.GetSide() != pos.playerSd {
					moves = append(moves, GetMove(sqSrc, sqDst))
				}
			}
		}
	}
	return moves
}

// 走棋 会变更当前走棋方；走完后己方王被攻击则撤销并返回 false
func (pos *Position) MakeMove(move Move) bool {
	sqSrc := move.Src()
	if !sqSrc.InBoard() || !move.Dst().InBoard() {
		return false
	}
	if pc := pos.pcSquares[sqSrc]; pc == PcNop || pc.GetSide() != pos.playerSd {
		return false
	}
	pcMoved, pcCaptured := pos.MovePiece(move)
	if pos.sideChecked(pos.playerSd) {
		pos.UndoMovePiece(move, pcMoved, pcCaptured)
		return false
	}
	pos.ChangeSide()
	pos.mvStack = append(pos.mvStack, HistoryMove{move, pcMoved, pcCaptured})
	return true
}

// UndoMove takes back the most recent MakeMove. It is a no-op on a
// position without history.
func (pos *Position) UndoMove() {
	n := len(pos.mvStack)
	if n == 0 {
		return
	}
	moveHis := pos.mvStack[n-1]
	pos.mvStack = pos.mvStack[:n-1]
	pos.ChangeSide()
	pos.UndoMovePiece(moveHis.move, moveHis.pcMoved, moveHis.pcCaptured)
}

// LegalMoves lists the moves of the side to move in generation order:
// squares from a8 to d1, then piece directions.
func (pos *Position) LegalMoves() []Move {
	pseudo := pos.GenerateMoves(make([]Move, 0, initMovesSize), false)
	legal := pseudo[:0]
	for _, mv := range pseudo {
		if pos.MakeMove(mv) {
			pos.UndoMove()
			legal = append(legal, mv)
		}
	}
	return legal
}

func (pos *Position) LegalMove(mv Move) bool {
	for _, legal := range pos.LegalMoves() {
		if legal == mv {
			return true
		}
	}
	return false
}

// GameState classifies the position for the side to move. Losing the king
// counts as checkmate.
func (pos *Position) GameState() GameState {
	if !pos.HasKing(pos.playerSd) {
		return StateCheckmate
	}
	if len(pos.LegalMoves()) > 0 {
		return StateNormal
	}
	if pos.Checked() {
		return StateCheckmate
	}
	return StateStalemate
}

// Mirror returns the colour-flipped position: every piece changes side and
// moves to the vertically mirrored square, and the other side is to move.
// History is not carried over.
func (pos *Position) Mirror() *Position {
	mirrored := CreatePosition()
	for sq := SqStart; sq <= SqEnd; sq++ {
		if !sq.InBoard() || pos.pcSquares[sq] == PcNop {
			continue
		}
		mirrored.AddPiece(sq.Flip(), pos.pcSquares[sq].Flip())
	}
	mirrored.playerSd = pos.playerSd.OpSide()
	return mirrored
}

func (pos *Position) String() string {
	var sb strings.Builder
	for y := 0; y < BoardRows; y++ {
		sb.WriteRune(rune('0' + BoardRows - y))
		sb.WriteRune(' ')
		for x := 0; x < BoardCols; x++ {
			sb.WriteString(pos.pcSquares[GetSquare(x, y)].String())
		}
		sb.WriteRune('\n')
	}
	sb.WriteString("  abcd\n")
	return sb.String()
}

var lineMoveDelta = [4]Square{-0x10, -0x01, +0x01, +0x10}
var diagMoveDelta = [4]Square{-0x11, -0x0f, +0x0f, +0x11}
var kingMoveTab = [8]Square{-0x11, -0x10, -0x0f, -0x01, +0x01, +0x0f, +0x10, +0x11}
var knightMoveTab = [8]Square{-0x21, -0x1f, -0x12, -0x0e, +0x0e, +0x12, +0x1f, +0x21}

// 白兵向上(y 减小)，黑兵向下
func pawnForward(sd Side) Square {
	if sd == SdWhite {
		return -0x10
	}
	return 0x10
}
