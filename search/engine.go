package search

import (
	"fmt"
	"time"

	"github.com/fuyuntt/minichess/ppos"
	"github.com/sirupsen/logrus"
)

const (
	DefaultDepth      = 3
	DefaultTimeBudget = 1200 * time.Millisecond
)

// Engine is a fixed-depth alpha-beta searcher. Depth and TimeBudget may be
// changed between calls; they are read once at the start of each search.
// A TimeBudget of zero or less disables the deadline.
type Engine[M comparable] struct {
	Depth      int
	TimeBudget time.Duration
	Evaluator  Evaluator
	// Clock defaults to time.Now.
	Clock func() time.Time
	Log   logrus.FieldLogger

	nodesExpanded uint64
	totalNodes    uint64
}

// Result describes one finished search.
type Result[M comparable] struct {
	Move M
	// Found is false when the root had no legal move.
	Found bool
	Score Score
	// Nodes counts the moves applied during this search.
	Nodes uint64
	// RootMoves counts the root moves whose subtree was searched.
	RootMoves int
	TimedOut  bool
	Elapsed   time.Duration
}

func NewEngine[M comparable](depth int, timeBudget time.Duration) *Engine[M] {
	return &Engine[M]{
		Depth:      depth,
		TimeBudget: timeBudget,
		Evaluator:  DefaultEvaluator{},
	}
}

func (e *Engine[M]) Name() string {
	return fmt.Sprintf("alpha-beta (depth %d, %v)", e.Depth, e.TimeBudget)
}

// NodesExpanded is the number of moves applied by the last search.
func (e *Engine[M]) NodesExpanded() uint64 {
	return e.nodesExpanded
}

// TotalNodes is the number of moves applied since the engine was created.
func (e *Engine[M]) TotalNodes() uint64 {
	return e.totalNodes
}

// SelectBestMove returns the best move for the side to move, or false when
// there is none. The board is back in its original state on return.
func (e *Engine[M]) SelectBestMove(b Board[M]) (M, bool) {
	res := e.Search(b)
	return res.Move, res.Found
}

type searchCtx[M comparable] struct {
	board     Board[M]
	evaluator Evaluator
	now       func() time.Time

	// 根节点走棋方
	rootWhite bool
	// 停止搜索的时间
	deadline    time.Time
	hasDeadline bool
	timedOut    bool

	// 已走的步数
	nodes uint64
}

func (e *Engine[M]) newSearchCtx(b Board[M]) *searchCtx[M] {
	ctx := &searchCtx[M]{
		board:     b,
		evaluator: e.Evaluator,
		now:       e.Clock,
		rootWhite: b.WhiteToMove(),
	}
	if ctx.evaluator == nil {
		ctx.evaluator = DefaultEvaluator{}
	}
	if ctx.now == nil {
		ctx.now = time.Now
	}
	return ctx
}

func (e *Engine[M]) logger() logrus.FieldLogger {
	if e.Log != nil {
		return e.Log
	}
	return logrus.StandardLogger()
}

// Search runs one top-level search. If the deadline passes before every
// root move is searched, the best of the searched ones is returned; if it
// passes before any, the first legal move is returned.
func (e *Engine[M]) Search(b Board[M]) Result[M] {
	ctx := e.newSearchCtx(b)
	startTime := ctx.now()
	if e.TimeBudget > 0 {
		ctx.deadline = startTime.Add(e.TimeBudget)
		ctx.hasDeadline = true
	}
	depth := e.Depth
	if depth < 1 {
		depth = 1
	}

	var res Result[M]
	moves := b.LegalMoves()
	if len(moves) == 0 {
		e.nodesExpanded = 0
		e.logger().WithField("state", b.GameState()).Debug("no legal move at root")
		return res
	}
	res.Move = moves[0]
	res.Found = true

	vlBest := -Infinity
	vlAlpha, vlBeta := -Infinity, Infinity
	for _, mv := range moves {
		if ctx.outOfTime() {
			break
		}
		vl, applied := ctx.withMove(mv, func() Score {
			return ctx.alphaBeta(depth-1, vlAlpha, vlBeta, false)
		})
		if !applied {
			continue
		}
		res.RootMoves++
		if vl > vlBest {
			vlBest = vl
			res.Move = mv
		}
		vlAlpha = max(vlAlpha, vl)
	}

	if res.RootMoves > 0 {
		res.Score = vlBest
	} else {
		res.Score = ctx.evaluate()
	}
	res.Nodes = ctx.nodes
	res.TimedOut = ctx.timedOut
	res.Elapsed = ctx.now().Sub(startTime)
	e.nodesExpanded = ctx.nodes
	e.totalNodes += ctx.nodes

	e.logger().WithFields(logrus.Fields{
		"depth":      depth,
		"nodes":      res.Nodes,
		"root_moves": fmt.Sprintf("%d/%d", res.RootMoves, len(moves)),
		"timed_out":  res.TimedOut,
		"elapsed":    res.Elapsed,
		"best":       res.Move,
		"score":      res.Score,
	}).Debug("search finished")
	return res
}

// alphaBeta returns the value of the node for the root side. Values inside
// (vlAlpha, vlBeta) are exact; outside they are bounds.
func (ctx *searchCtx[M]) alphaBeta(depth int, vlAlpha, vlBeta Score, maximizing bool) Score {
	if ctx.outOfTime() {
		return ctx.evaluate()
	}

	switch ctx.board.GameState() {
	case ppos.StateCheckmate:
		if ctx.board.WhiteToMove() == ctx.rootWhite {
			return -MateScore
		}
		return MateScore
	case ppos.StateStalemate:
		return ctx.evaluate()
	}
	if depth <= 0 {
		return ctx.evaluate()
	}

	moves := ctx.board.LegalMoves()
	if len(moves) == 0 {
		return ctx.evaluate()
	}

	searched := 0
	var vlBest Score
	if maximizing {
		vlBest = -Infinity
		for _, mv := range moves {
			if ctx.outOfTime() {
				break
			}
			vl, applied := ctx.withMove(mv, func() Score {
				return ctx.alphaBeta(depth-1, vlAlpha, vlBeta, false)
			})
			if !applied {
				continue
			}
			searched++
			vlBest = max(vlBest, vl)
			vlAlpha = max(vlAlpha, vlBest)
			if vlAlpha >= vlBeta {
				break
			}
		}
	} else {
		vlBest = Infinity
		for _, mv := range moves {
			if ctx.outOfTime() {
				break
			}
			vl, applied := ctx.withMove(mv, func() Score {
				return ctx.alphaBeta(depth-1, vlAlpha, vlBeta, true)
			})
			if !applied {
				continue
			}
			searched++
			vlBest = min(vlBest, vl)
			vlBeta = min(vlBeta, vlBest)
			if vlAlpha >= vlBeta {
				break
			}
		}
	}
	// 一步未搜就超时，用静态评价代替无穷值
	if searched == 0 {
		return ctx.evaluate()
	}
	return vlBest
}

// withMove applies mv, runs fn, and takes the move back on every exit path.
// It reports false without calling fn when the board rejects the move.
func (ctx *searchCtx[M]) withMove(mv M, fn func() Score) (Score, bool) {
	if !ctx.board.MakeMove(mv) {
		return 0, false
	}
	defer ctx.board.UndoMove()
	ctx.nodes++
	return fn(), true
}

func (ctx *searchCtx[M]) evaluate() Score {
	return ctx.evaluator.Evaluate(ctx.board, ctx.rootWhite)
}

// 超时检查，只在递归入口和走法循环中轮询
func (ctx *searchCtx[M]) outOfTime() bool {
	if !ctx.hasDeadline {
		return false
	}
	if ctx.timedOut {
		return true
	}
	if !ctx.now().Before(ctx.deadline) {
		ctx.timedOut = true
	}
	return ctx.timedOut
}
