package webapi

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fuyuntt/minichess/ucci"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var wsIdlePingInterval = 30 * time.Second

var errConnClosed = errors.New("websocket closed")

// frameWriter turns each protocol line into one text frame.
type frameWriter struct {
	send chan<- []byte
	done <-chan struct{}
}

func (w frameWriter) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(bytes.TrimRight(p, "\n"), []byte("\n")) {
		msg := append([]byte(nil), line...)
		select {
		case w.send <- msg:
		case <-w.done:
			return 0, errConnClosed
		}
	}
	return len(p), nil
}

// serveWS runs one protocol session per connection. A frame may hold
// several command lines.
func (a *api) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Errorf("websocket upgrade failure. err=%v", err)
		return
	}
	defer conn.Close()
	logrus.Infof("accept websocket: %v", conn.RemoteAddr())

	send := make(chan []byte, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := writeWSWithHeartbeat(conn, send); err != nil {
			logrus.Warnf("websocket write failure. err=%v", err)
		}
	}()

	engine := ucci.CreateEngine(a.depth, a.timeBudget)
	ctx := ucci.CreateCmdCtx(frameWriter{send: send, done: done})
	running := true
	for running {
		_, message, err := conn.ReadMessage()
		if err != nil {
			break
		}
		for _, line := range strings.Split(string(message), "\n") {
			if running = engine.ExecCommand(ctx, line); !running {
				break
			}
		}
	}
	close(send)
	<-done
	if !running {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))
	}
	logrus.Infof("websocket closed: %v", conn.RemoteAddr())
}

func writeWSWithHeartbeat(conn *websocket.Conn, send <-chan []byte) error {
	interval := wsIdlePingInterval
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	lastWrite := time.Now()

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return nil
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < interval {
				continue
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
