package search

import "github.com/fuyuntt/minichess/ppos"

// Score is a position value in points, from the root side's perspective.
type Score int32

const (
	// Infinity bounds every score the search can produce.
	Infinity Score = 1<<31 - 1

	// MateScore is returned for a checkmated node. It is flat: a mate in one
	// and a mate in three score the same.
	MateScore Score = 1_000_000

	// KingLossScore is charged against a side whose king is off the board.
	KingLossScore Score = 300

	// CheckPenalty is charged against the side to move when it is in check.
	CheckPenalty Score = 2
)

// Evaluator scores a position for the root side.
type Evaluator interface {
	Evaluate(g Grid, rootWhite bool) Score
}

// DefaultEvaluator adds material, piece-square bonuses, a check term and a
// king-loss term.
type DefaultEvaluator struct{}

func (DefaultEvaluator) Evaluate(g Grid, rootWhite bool) Score {
	score := whiteScore(g)
	if !rootWhite {
		return -score
	}
	return score
}

// whiteScore is the evaluation from white's point of view. It never stops
// early on a missing king: the rest of the board is always counted.
func whiteScore(g Grid) Score {
	var score Score
	whiteKing, blackKing := false, false
	rows, cols := g.Rows(), g.Cols()
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			pc := g.PieceAt(row, col)
			if pc == ppos.PcNop {
				continue
			}
			switch pc {
			case ppos.PcWKing:
				whiteKing = true
			case ppos.PcBKing:
				blackKing = true
			}
			score += materialValue(pc)
			score += pstValue(pc, row, col, rows)
		}
	}

	// 白方视角：被将军的一方扣分，黑方根节点在 Evaluate 中取反
	if g.InCheck() {
		if g.WhiteToMove() {
			score -= CheckPenalty
		} else {
			score += CheckPenalty
		}
	}

	if !whiteKing {
		score -= KingLossScore
	}
	if !blackKing {
		score += KingLossScore
	}
	return score
}

func materialValue(pc ppos.Piece) Score {
	pt := pc.GetType()
	if int(pt) >= len(pieceValues) {
		return 0
	}
	if pc.GetSide() == ppos.SdBlack {
		return -pieceValues[pt]
	}
	return pieceValues[pt]
}

// pstValue looks the piece up in the table of its kind. Tables are written
// for white; black reads the vertically mirrored cell with the sign flipped.
func pstValue(pc ppos.Piece, row, col, rows int) Score {
	pt := pc.GetType()
	if int(pt) >= len(pieceSquareTables) || pieceSquareTables[pt] == nil {
		return 0
	}
	table := pieceSquareTables[pt]
	white := pc.GetSide() == ppos.SdWhite
	if !white {
		row = rows - 1 - row
	}
	if row < 0 || row >= len(table) || col < 0 || col >= len(table[row]) {
		return 0
	}
	if white {
		return table[row][col]
	}
	return -table[row][col]
}
