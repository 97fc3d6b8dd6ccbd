// Package search picks a move for the side to move with a depth-limited,
// time-bounded alpha-beta search over a board it does not own.
package search

import "github.com/fuyuntt/minichess/ppos"

// Grid is the read-only view the evaluator needs.
type Grid interface {
	Rows() int
	Cols() int
	// PieceAt returns ppos.PcNop for an empty cell.
	PieceAt(row, col int) ppos.Piece
	WhiteToMove() bool
	// InCheck reports whether the side to move is in check.
	InCheck() bool
}

// Board is the collaborator the engine searches. Moves are opaque values
// of type M; the engine only hands them back to MakeMove.
//
// MakeMove applies a move in place and flips the side to move. It returns
// false, leaving the board untouched, when the move is rejected. UndoMove
// reverses the most recent successful MakeMove.
type Board[M comparable] interface {
	Grid
	LegalMoves() []M
	MakeMove(mv M) bool
	UndoMove()
	GameState() ppos.GameState
}
