package webapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/fuyuntt/minichess/ppos"
	"github.com/fuyuntt/minichess/search"
	"github.com/fuyuntt/minichess/ucci"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var errBadParam = errors.New("bad parameter")

type api struct {
	depth      int
	timeBudget time.Duration
	upgrader   websocket.Upgrader
}

type thinkResponse struct {
	Move      string       `json:"move"`
	Score     search.Score `json:"score"`
	Nodes     uint64       `json:"nodes"`
	ElapsedMs int64        `json:"elapsed_ms"`
	TimedOut  bool         `json:"timed_out"`
}

// NewRouter serves the JSON endpoints and the protocol websocket. depth and
// timeBudget are the defaults for requests that do not name their own.
func NewRouter(depth int, timeBudget time.Duration) http.Handler {
	a := &api{
		depth:      depth,
		timeBudget: timeBudget,
		upgrader:   websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logrus.StandardLogger(), NoColor: true}))
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/api/think", a.think)
	r.Get("/api/legal", a.legalMove)
	r.Get("/api/eval", a.eval)
	r.Get("/ws", a.serveWS)
	return r
}

func (a *api) think(w http.ResponseWriter, req *http.Request) {
	pos, ok := positionParam(w, req)
	if !ok {
		return
	}
	depth, err := intParam(req, "depth", a.depth, 1, ucci.MaxDepth)
	if err != nil {
		writeError(w, err)
		return
	}
	movetime, err := intParam(req, "movetime", int(a.timeBudget/time.Millisecond), 1, int(ucci.MaxTimeBudget/time.Millisecond))
	if err != nil {
		writeError(w, err)
		return
	}

	engine := search.NewEngine[ppos.Move](depth, time.Duration(movetime)*time.Millisecond)
	engine.Log = logrus.WithField("request_id", middleware.GetReqID(req.Context()))
	res := engine.Search(pos)
	logrus.Infof("think result, score: %d, move: %v", res.Score, res.Move)
	writeJSON(w, http.StatusOK, thinkResponse{
		Move:      res.Move.String(),
		Score:     res.Score,
		Nodes:     res.Nodes,
		ElapsedMs: res.Elapsed.Milliseconds(),
		TimedOut:  res.TimedOut,
	})
}

func (a *api) legalMove(w http.ResponseWriter, req *http.Request) {
	pos, ok := positionParam(w, req)
	if !ok {
		return
	}
	mv, err := ppos.ParseMove(req.URL.Query().Get("move"))
	legal := err == nil && pos.LegalMove(mv)
	writeJSON(w, http.StatusOK, map[string]bool{"legal": legal})
}

func (a *api) eval(w http.ResponseWriter, req *http.Request) {
	pos, ok := positionParam(w, req)
	if !ok {
		return
	}
	var evaluator search.DefaultEvaluator
	writeJSON(w, http.StatusOK, map[string]search.Score{"score": evaluator.Evaluate(pos, pos.WhiteToMove())})
}

func positionParam(w http.ResponseWriter, req *http.Request) (*ppos.Position, bool) {
	position := req.URL.Query().Get("position")
	pos, err := ppos.ParsePosition(position)
	if err != nil {
		logrus.Errorf("create position failure. err=%v", err)
		writeError(w, err)
		return nil, false
	}
	return pos, true
}

func intParam(req *http.Request, name string, def, lo, hi int) (int, error) {
	raw := req.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return 0, fmt.Errorf("%w: %s must be in [%d, %d]", errBadParam, name, lo, hi)
	}
	return v, nil
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
