package ppos

import (
	"fmt"
	"strings"
)

var pieceMap = map[int32]Piece{
	'k': PcBKing,
	'q': PcBQueen,
	'r': PcBRook,
	'b': PcBBishop,
	'n': PcBKnight,
	'p': PcBPawn,

	'K': PcWKing,
	'Q': PcWQueen,
	'R': PcWRook,
	'B': PcWBishop,
	'N': PcWKnight,
	'P': PcWPawn,
}

const InitFen = "rnbk/pppp/4/4/4/4/PPPP/RNBK w"

// ParsePosition accepts "startpos [moves ...]" or "fen <board> <side> [moves ...]".
func ParsePosition(positionStr string) (*Position, error) {
	parts := strings.Fields(positionStr)
	var pos *Position
	var i = 0
	for i < len(parts) {
		cmd := parts[i]
		switch cmd {
		case "fen":
			if len(parts) <= i+2 {
				return nil, fmt.Errorf("%w: %s", ErrBadFen, positionStr)
			}
			var err error
			pos, err = ParseFen(strings.Join(parts[i+1:i+3], " "))
			if err != nil {
				return nil, fmt.Errorf("fen parse failure: %s: %w", positionStr, err)
			}
			i += 3
		case "startpos":
			pos, _ = ParseFen(InitFen)
			i += 1
		case "moves":
			if pos == nil {
				return nil, fmt.Errorf("%w: moves without position: %s", ErrBadFen, positionStr)
			}
			for i++; i < len(parts); i++ {
				mv, err := ParseMove(parts[i])
				if err != nil {
					return nil, err
				}
				if !pos.LegalMove(mv) || !pos.MakeMove(mv) {
					return nil, fmt.Errorf("%w: %s in %s", ErrIllegalMove, parts[i], positionStr)
				}
			}
		default:
			return nil, fmt.Errorf("%w: unexpected token %q", ErrBadFen, cmd)
		}
	}
	if pos == nil {
		return nil, fmt.Errorf("%w: empty position", ErrBadFen)
	}
	return pos, nil
}

func ParseFen(fenStr string) (*Position, error) {
	pos := CreatePosition()
	fenParts := strings.Fields(fenStr)
	if len(fenParts) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrBadFen, fenStr)
	}
	ranks := strings.Split(fenParts[0], "/")
	if len(ranks) != BoardRows {
		return nil, fmt.Errorf("%w: want %d ranks: %s", ErrBadFen, BoardRows, fenStr)
	}
	for y, rank := range ranks {
		x := 0
		for _, b := range rank {
			if b >= '1' && b <= '9' {
				x += int(b - '0')
				continue
			}
			piece, ok := pieceMap[b]
			if !ok || x >= BoardCols {
				return nil, fmt.Errorf("%w: %s", ErrBadFen, fenStr)
			}
			pos.AddPiece(GetSquare(x, y), piece)
			x++
		}
		if x != BoardCols {
			return nil, fmt.Errorf("%w: rank %d has %d files: %s", ErrBadFen, BoardRows-y, x, fenStr)
		}
	}
	if len(fenParts) > 1 {
		switch fenParts[1] {
		case "w":
		case "b":
			pos.ChangeSide()
		default:
			return nil, fmt.Errorf("%w: side %q", ErrBadFen, fenParts[1])
		}
	}
	return pos, nil
}

// Fen renders the board and side to move in the format ParseFen reads.
func (pos *Position) Fen() string {
	var sb strings.Builder
	for y := 0; y < BoardRows; y++ {
		if y > 0 {
			sb.WriteRune('/')
		}
		empty := 0
		for x := 0; x < BoardCols; x++ {
			pc := pos.pcSquares[GetSquare(x, y)]
			if pc == PcNop {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteRune(rune('0' + empty))
				empty = 0
			}
			sb.WriteString(pc.String())
		}
		if empty > 0 {
			sb.WriteRune(rune('0' + empty))
		}
	}
	if pos.playerSd == SdWhite {
		sb.WriteString(" w")
	} else {
		sb.WriteString(" b")
	}
	return sb.String()
}
