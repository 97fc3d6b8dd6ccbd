package webapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/fuyuntt/minichess/ppos"
)

func get(t *testing.T, h http.Handler, path string, query url.Values) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path+"?"+query.Encode(), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("%s: bad json %q: %v", path, rec.Body.String(), err)
	}
	return rec.Code, body
}

func TestPing(t *testing.T) {
	code, body := get(t, NewRouter(3, time.Second), "/api/ping", nil)
	if code != http.StatusOK || body["ok"] != true {
		t.Fatalf("unexpected ping: %d %v", code, body)
	}
}

func TestThink(t *testing.T) {
	h := NewRouter(3, 1200*time.Millisecond)
	code, body := get(t, h, "/api/think", url.Values{
		"position": {"fen 3k/2P1/4/4/4/4/4/K3 w"},
		"depth":    {"1"},
	})
	if code != http.StatusOK || body["move"] != "c7d8" {
		t.Fatalf("expected the king capture, got %d %v", code, body)
	}
	if body["nodes"].(float64) <= 0 || body["timed_out"] != false {
		t.Fatalf("unexpected stats: %v", body)
	}

	code, body = get(t, h, "/api/think", url.Values{"position": {"startpos moves b2b3"}})
	if code != http.StatusOK {
		t.Fatalf("unexpected status %d %v", code, body)
	}
	pos, _ := ppos.ParsePosition("startpos moves b2b3")
	mv, err := ppos.ParseMove(body["move"].(string))
	if err != nil || !pos.LegalMove(mv) {
		t.Fatalf("illegal move %v", body["move"])
	}
}

func TestThinkNoMove(t *testing.T) {
	code, body := get(t, NewRouter(3, time.Second), "/api/think", url.Values{
		"position": {"fen k2R/3R/4/4/4/4/4/3K b"},
	})
	if code != http.StatusOK || body["move"] != "(none)" || body["nodes"].(float64) != 0 {
		t.Fatalf("expected no move, got %d %v", code, body)
	}
}

func TestThinkBadParams(t *testing.T) {
	h := NewRouter(3, time.Second)
	cases := []url.Values{
		{},
		{"position": {"fen 3k w"}},
		{"position": {"startpos"}, "depth": {"0"}},
		{"position": {"startpos"}, "depth": {"x"}},
		{"position": {"startpos"}, "movetime": {"-5"}},
		{"position": {"startpos"}, "movetime": {"0"}},
		{"position": {"startpos"}, "depth": {"10"}, "movetime": {"0"}},
		{"position": {"startpos"}, "movetime": {"600000"}},
	}
	for _, query := range cases {
		code, body := get(t, h, "/api/think", query)
		if code != http.StatusBadRequest || body["error"] == nil {
			t.Errorf("%v: expected 400, got %d %v", query, code, body)
		}
	}
}

func TestLegal(t *testing.T) {
	h := NewRouter(3, time.Second)
	cases := []struct {
		position string
		move     string
		legal    bool
	}{
		{"startpos", "a2a3", true},
		{"startpos", "a2a4", false},
		{"startpos", "a7a6", false},
		{"startpos moves a2a3", "a7a6", true},
		{"startpos", "zz", false},
		{"fen 3k/4/4/4/4/4/r3/K3 w", "a1b2", false},
	}
	for _, c := range cases {
		code, body := get(t, h, "/api/legal", url.Values{"position": {c.position}, "move": {c.move}})
		if code != http.StatusOK || body["legal"] != c.legal {
			t.Errorf("%s %s: expected %v, got %d %v", c.position, c.move, c.legal, code, body)
		}
	}
}

func TestEval(t *testing.T) {
	h := NewRouter(3, time.Second)
	code, body := get(t, h, "/api/eval", url.Values{"position": {"startpos"}})
	if code != http.StatusOK || body["score"].(float64) != 0 {
		t.Fatalf("expected a balanced start, got %d %v", code, body)
	}
	// white is a rook up; the score flips with the side to move
	_, white := get(t, h, "/api/eval", url.Values{"position": {"fen 3k/4/4/4/4/4/4/R2K w"}})
	_, black := get(t, h, "/api/eval", url.Values{"position": {"fen 3k/4/4/4/4/4/4/R2K b"}})
	if white["score"].(float64) <= 0 || black["score"].(float64) >= 0 {
		t.Fatalf("unexpected scores: %v %v", white, black)
	}
	if code, _ := get(t, h, "/api/eval", url.Values{"position": {"moves a2a3"}}); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}
