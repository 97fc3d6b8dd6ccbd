package search

import "github.com/fuyuntt/minichess/ppos"

type pieceSquareTable = [ppos.BoardRows][ppos.BoardCols]Score

// 子力价值
var pieceValues = [...]Score{
	ppos.PtKing:   0,
	ppos.PtQueen:  90,
	ppos.PtRook:   50,
	ppos.PtBishop: 30,
	ppos.PtKnight: 30,
	ppos.PtPawn:   10,
}

// Row 0 is black's back rank; white pawns advance towards it.
var pawnTable = pieceSquareTable{
	{0, 0, 0, 0},
	{8, 8, 8, 8},
	{6, 6, 6, 6},
	{4, 5, 5, 4},
	{2, 3, 3, 2},
	{1, 2, 2, 1},
	{0, 0, 0, 0},
	{0, 0, 0, 0},
}

var knightTable = pieceSquareTable{
	{-5, -3, -3, -5},
	{-3, 0, 0, -3},
	{-2, 2, 2, -2},
	{-2, 3, 3, -2},
	{-2, 3, 3, -2},
	{-2, 2, 2, -2},
	{-3, 0, 0, -3},
	{-5, -3, -3, -5},
}

var bishopTable = pieceSquareTable{
	{-2, -1, -1, -2},
	{-1, 1, 1, -1},
	{-1, 2, 2, -1},
	{0, 2, 2, 0},
	{0, 2, 2, 0},
	{-1, 2, 2, -1},
	{-1, 1, 1, -1},
	{-2, -1, -1, -2},
}

// 残局王
var kingTable = pieceSquareTable{
	{-5, -3, -3, -5},
	{-3, 0, 0, -3},
	{-2, 1, 1, -2},
	{-1, 2, 2, -1},
	{-1, 2, 2, -1},
	{-2, 1, 1, -2},
	{-3, 0, 0, -3},
	{-5, -3, -3, -5},
}

// Rooks and queens have no table.
var pieceSquareTables = [...]*pieceSquareTable{
	ppos.PtKing:   &kingTable,
	ppos.PtQueen:  nil,
	ppos.PtRook:   nil,
	ppos.PtBishop: &bishopTable,
	ppos.PtKnight: &knightTable,
	ppos.PtPawn:   &pawnTable,
}
