package ppos

import (
	"errors"
	"reflect"
	"testing"
)

func mustFen(t *testing.T, fen string) *Position {
	t.Helper()
	pos, err := ParseFen(fen)
	if err != nil {
		t.Fatalf("parse %q: %v", fen, err)
	}
	return pos
}

func moveStrings(moves []Move) []string {
	res := make([]string, 0, len(moves))
	for _, mv := range moves {
		res = append(res, mv.String())
	}
	return res
}

func TestStartPosition(t *testing.T) {
	pos := mustFen(t, InitFen)
	if pos.Fen() != InitFen {
		t.Fatalf("fen round trip: %s", pos.Fen())
	}
	want := []string{"a2a3", "b2b3", "c2c3", "d2d3", "b1a3", "b1c3"}
	if got := moveStrings(pos.LegalMoves()); !reflect.DeepEqual(got, want) {
		t.Fatalf("expact: %v, actual: %v", want, got)
	}
	if pos.GameState() != StateNormal || pos.InCheck() {
		t.Fatalf("start position must be a normal, unchecked position")
	}
}

func TestMakeUndoRestores(t *testing.T) {
	pos := mustFen(t, InitFen)
	before := pos.Fen()
	for _, mv := range pos.LegalMoves() {
		if !pos.MakeMove(mv) {
			t.Fatalf("legal move %v rejected", mv)
		}
		if pos.WhiteToMove() {
			t.Fatalf("side must flip after %v", mv)
		}
		pos.UndoMove()
		if pos.Fen() != before || pos.Ply() != 0 {
			t.Fatalf("undo %v: got %s", mv, pos.Fen())
		}
	}
}

func TestUndoWithoutHistoryIsNoop(t *testing.T) {
	pos := mustFen(t, InitFen)
	pos.UndoMove()
	if pos.Fen() != InitFen {
		t.Fatalf("got %s", pos.Fen())
	}
}

func TestPromotion(t *testing.T) {
	pos := mustFen(t, "4/P3/4/4/4/4/4/K2k w")
	mv, _ := ParseMove("a7a8")
	if !pos.MakeMove(mv) {
		t.Fatalf("promotion push rejected")
	}
	if got := pos.Fen(); got != "Q3/4/4/4/4/4/4/K2k b" {
		t.Fatalf("expected queen on a8, got %s", got)
	}
	pos.UndoMove()
	if got := pos.Fen(); got != "4/P3/4/4/4/4/4/K2k w" {
		t.Fatalf("undo promotion: got %s", got)
	}
}

func TestSelfCheckFiltered(t *testing.T) {
	pos := mustFen(t, "3k/4/4/4/4/4/r3/K3 w")
	if !pos.InCheck() {
		t.Fatalf("white king must be in check")
	}
	want := []string{"a1a2", "a1b1"}
	if got := moveStrings(pos.LegalMoves()); !reflect.DeepEqual(got, want) {
		t.Fatalf("expact: %v, actual: %v", want, got)
	}
	bad, _ := ParseMove("a1b2")
	if pos.MakeMove(bad) {
		t.Fatalf("move into check accepted")
	}
	if pos.Fen() != "3k/4/4/4/4/4/r3/K3 w" {
		t.Fatalf("rejected move changed the board: %s", pos.Fen())
	}
}

func TestGameState(t *testing.T) {
	cases := []struct {
		name    string
		fen     string
		state   GameState
		inCheck bool
	}{
		{"normal", InitFen, StateNormal, false},
		{"back rank mate", "k2R/3R/4/4/4/4/4/3K b", StateCheckmate, true},
		{"stalemate", "k3/4/1Q2/4/4/4/4/3K b", StateStalemate, false},
		{"king captured", "4/4/4/4/4/4/4/3K b", StateCheckmate, false},
		{"check with escape", "3k/2P1/4/4/4/4/4/K3 b", StateNormal, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			pos := mustFen(t, c.fen)
			if got := pos.GameState(); got != c.state {
				t.Errorf("state: expact %v, actual %v", c.state, got)
			}
			if got := pos.InCheck(); got != c.inCheck {
				t.Errorf("in check: expact %v, actual %v", c.inCheck, got)
			}
		})
	}
}

func TestKingCaptureIsGenerated(t *testing.T) {
	pos := mustFen(t, "3k/2P1/4/4/4/4/4/K3 w")
	capture, _ := ParseMove("c7d8")
	if !pos.LegalMove(capture) {
		t.Fatalf("capturing an exposed king must be playable")
	}
	pos.MakeMove(capture)
	if pos.HasKing(SdBlack) || pos.GameState() != StateCheckmate {
		t.Fatalf("black must be lost after the king is taken")
	}
}

func TestMirror(t *testing.T) {
	pos := mustFen(t, InitFen)
	if got := pos.Mirror().Fen(); got != "rnbk/pppp/4/4/4/4/PPPP/RNBK b" {
		t.Fatalf("mirror of the start position: %s", got)
	}
	pos = mustFen(t, "k2R/3R/4/4/4/4/4/3K b")
	if got := pos.Mirror().Fen(); got != "3k/4/4/4/4/4/3r/K2r w" {
		t.Fatalf("mirror: %s", got)
	}
}

func TestParsePosition(t *testing.T) {
	pos, err := ParsePosition("startpos moves b2b3 c7c6 b1c3")
	if err != nil {
		t.Fatal(err)
	}
	if got := pos.Fen(); got != "rnbk/pp1p/2p1/4/4/1PN1/P1PP/R1BK b" {
		t.Fatalf("got %s", got)
	}
	if pos.Ply() != 3 {
		t.Fatalf("ply: %d", pos.Ply())
	}
	pos, err = ParsePosition("fen 3k/2P1/4/4/4/4/4/K3 w moves c7c8")
	if err != nil {
		t.Fatal(err)
	}
	if got := pos.Fen(); got != "2Qk/4/4/4/4/4/4/K3 b" {
		t.Fatalf("got %s", got)
	}
	if _, err := ParsePosition("startpos moves a2a4"); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}
	if _, err := ParsePosition("moves a2a3"); !errors.Is(err, ErrBadFen) {
		t.Fatalf("expected ErrBadFen, got %v", err)
	}
	if _, err := ParseFen("rnbk/pppp/5/4/4/4/PPPP/RNBK w"); !errors.Is(err, ErrBadFen) {
		t.Fatalf("expected ErrBadFen for a wide rank, got %v", err)
	}
}
