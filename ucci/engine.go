package ucci

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fuyuntt/minichess/ppos"
	"github.com/fuyuntt/minichess/search"
	"github.com/fuyuntt/minichess/util"
	"github.com/sirupsen/logrus"
)

const (
	MaxDepth      = 10
	MaxTimeBudget = 60 * time.Second
)

var setOptionRegexp = regexp.MustCompile(`^name (?P<name>\w+) value (?P<value>-?\d+)$`)
var goArgRegexp = regexp.MustCompile(`(?:depth (?P<depth>\d+)|movetime (?P<movetime>\d+))`)

// Engine speaks the line protocol for one session. It is not safe for
// concurrent use; every connection gets its own Engine.
type Engine struct {
	pos      *ppos.Position
	searcher *search.Engine[ppos.Move]
}

func CreateEngine(depth int, timeBudget time.Duration) *Engine {
	searcher := search.NewEngine[ppos.Move](depth, timeBudget)
	searcher.Log = logrus.WithField("component", "search")
	return &Engine{searcher: searcher}
}

// Searcher exposes the underlying search engine and its settings.
func (engine *Engine) Searcher() *search.Engine[ppos.Move] {
	return engine.searcher
}

// ExecCommand runs one command line and reports whether the session goes on.
func (engine *Engine) ExecCommand(ctx *CmdCtx, cmdStr string) bool {
	cmdStr = strings.TrimSpace(cmdStr)
	if cmdStr == "" {
		return true
	}
	logrus.Infof("cmd: %s", cmdStr)
	cmdParam := strings.SplitN(cmdStr, " ", 2)
	args := ""
	if len(cmdParam) > 1 {
		args = strings.TrimSpace(cmdParam[1])
	}
	switch cmdParam[0] {
	case "uci":
		engine.uci(ctx)
	case "isready":
		engine.isReady(ctx)
	case "setoption":
		engine.setOption(ctx, args)
	case "position":
		engine.position(ctx, args)
	case "go":
		engine.goThink(ctx, args)
	case "eval":
		engine.eval(ctx)
	case "d":
		engine.display(ctx)
	case "quit":
		engine.quit(ctx)
		return false
	default:
		logrus.Warnf("unknown command: %s", cmdStr)
	}
	return true
}

func (engine *Engine) uci(ctx *CmdCtx) {
	ctx.fPrintln("id name MiniChess 1.0")
	ctx.fPrintln("id author Fu Yun")

	ctx.fPrintf("option name Depth type spin default %d min 1 max %d\n", engine.searcher.Depth, MaxDepth)
	ctx.fPrintf("option name TimeBudget type spin default %d min 1 max %d\n",
		engine.searcher.TimeBudget.Milliseconds(), MaxTimeBudget.Milliseconds())
	ctx.fPrintln("uciok")
}

func (engine *Engine) isReady(ctx *CmdCtx) {
	ctx.fPrintln("readyok")
}

func (engine *Engine) setOption(ctx *CmdCtx, args string) {
	groups := util.ParseGroup(setOptionRegexp, args)
	name, _ := util.GroupValue(groups, "name")
	valueStr, _ := util.GroupValue(groups, "value")
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		logrus.Errorf("bad setoption: %s", args)
		ctx.fPrintln("info string bad option")
		return
	}
	switch strings.ToLower(name) {
	case "depth":
		if value < 1 || value > MaxDepth {
			logrus.Errorf("depth out of range: %d", value)
			ctx.fPrintln("info string depth out of range")
			return
		}
		engine.searcher.Depth = value
	case "timebudget":
		budget := time.Duration(value) * time.Millisecond
		if budget <= 0 || budget > MaxTimeBudget {
			logrus.Errorf("time budget out of range: %d", value)
			ctx.fPrintln("info string time budget out of range")
			return
		}
		engine.searcher.TimeBudget = budget
	default:
		logrus.Warnf("unknown option: %s", name)
		ctx.fPrintln("info string unknown option " + name)
	}
}

// position keeps the previous position when the new one cannot be parsed.
func (engine *Engine) position(ctx *CmdCtx, positionStr string) {
	pos, err := ppos.ParsePosition(positionStr)
	if err != nil {
		logrus.Errorf("parse position failure, position: %s, err: %v", positionStr, err)
		ctx.fPrintln("info string bad position")
		return
	}
	engine.pos = pos
}

func (engine *Engine) currentPos() *ppos.Position {
	if engine.pos == nil {
		engine.pos, _ = ppos.ParseFen(ppos.InitFen)
	}
	return engine.pos
}

func (engine *Engine) goThink(ctx *CmdCtx, args string) {
	searcher := engine.searcher
	depth, budget := searcher.Depth, searcher.TimeBudget
	defer func() {
		searcher.Depth, searcher.TimeBudget = depth, budget
	}()

	groups := util.ParseGroups(goArgRegexp, args)
	if v, ok := util.GroupValue(groups, "depth"); ok {
		if d, err := strconv.Atoi(v); err == nil && d >= 1 && d <= MaxDepth {
			searcher.Depth = d
		}
	}
	if v, ok := util.GroupValue(groups, "movetime"); ok {
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 1 || int64(ms) > MaxTimeBudget.Milliseconds() {
			logrus.Errorf("movetime out of range: %s", v)
			ctx.fPrintln("info string movetime out of range")
		} else {
			searcher.TimeBudget = time.Duration(ms) * time.Millisecond
		}
	}

	res := searcher.Search(engine.currentPos())
	logrus.Infof("think result, move: %v, score: %d, nodes: %d", res.Move, res.Score, res.Nodes)
	if !res.Found {
		ctx.fPrintln("bestmove (none)")
		return
	}
	ctx.fPrintf("info depth %d score %d nodes %d time %d\n",
		searcher.Depth, res.Score, res.Nodes, res.Elapsed.Milliseconds())
	if res.TimedOut {
		ctx.fPrintln("info string deadline reached")
	}
	ctx.fPrintln("bestmove " + res.Move.String())
}

func (engine *Engine) eval(ctx *CmdCtx) {
	pos := engine.currentPos()
	var evaluator search.DefaultEvaluator
	ctx.fPrintf("info score %d\n", evaluator.Evaluate(pos, pos.WhiteToMove()))
}

func (engine *Engine) display(ctx *CmdCtx) {
	pos := engine.currentPos()
	for _, line := range strings.Split(strings.TrimRight(pos.String(), "\n"), "\n") {
		ctx.fPrintln(line)
	}
	ctx.fPrintln("fen " + pos.Fen())
	ctx.fPrintln("state " + pos.GameState().String())
}

func (engine *Engine) quit(ctx *CmdCtx) {
	ctx.fPrintln("bye")
}

type CmdCtx struct {
	output io.Writer
}

func CreateCmdCtx(writer io.Writer) *CmdCtx {
	return &CmdCtx{writer}
}

func (ctx *CmdCtx) fPrintln(a ...interface{}) {
	logrus.Debugf("ucci: %v", a)
	_, err := fmt.Fprintln(ctx.output, a...)
	if err != nil {
		logrus.Errorf("output write failure. %v, err=%v", a, err)
	}
}

func (ctx *CmdCtx) fPrintf(format string, a ...interface{}) {
	logrus.Debugf("ucci: "+strings.TrimSuffix(format, "\n"), a...)
	_, err := fmt.Fprintf(ctx.output, format, a...)
	if err != nil {
		logrus.Errorf("output write failure. err=%v", err)
	}
}
