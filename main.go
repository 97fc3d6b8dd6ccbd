package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fuyuntt/minichess/config"
	"github.com/fuyuntt/minichess/ucci"
	"github.com/fuyuntt/minichess/webapi"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var configPath = flag.String("config", "", "json config file")
var serverMode = flag.Bool("s", false, "open server mode")
var port = flag.Int("p", 0, "server mode listening port, overrides the config")
var httpAddr = flag.String("http", "", "web api listening address, overrides the config")

func main() {
	flag.Parse()
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *port != 0 {
		cfg.TCPPort = *port
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}
	logrus.SetLevel(cfg.Level())

	if !*serverMode && *httpAddr == "" {
		// 标准输出是协议通道，日志写文件
		if cfg.LogFile != "" {
			if file := logToFile(cfg.LogFile, os.Stderr); file != nil {
				defer file.Close()
			}
		}
		deal(newEngine(cfg), os.Stdin, os.Stdout)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := serve(ctx, cfg, *serverMode); err != nil {
		logrus.Errorf("server failure, err=%v", err)
		os.Exit(1)
	}
	logrus.Infof("server stopped")
}

// logToFile sends logrus output to path. When the file cannot be created it
// warns on warn, leaves the output alone and returns nil.
func logToFile(path string, warn io.Writer) *os.File {
	file, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(warn, "warning: cannot open log file %s, logging to stderr: %v\n", path, err)
		return nil
	}
	logrus.SetOutput(file)
	return file
}

func newEngine(cfg config.Config) *ucci.Engine {
	return ucci.CreateEngine(cfg.Depth, cfg.TimeBudget())
}

// serve runs the tcp engine and the web api until ctx is done or one of
// them fails.
func serve(ctx context.Context, cfg config.Config, tcp bool) error {
	g, ctx := errgroup.WithContext(ctx)
	if tcp {
		listen, err := net.Listen("tcp", fmt.Sprintf("0.0.0.0:%d", cfg.TCPPort))
		if err != nil {
			return fmt.Errorf("listen tcp port %d: %w", cfg.TCPPort, err)
		}
		logrus.Infof("start listening: %v", listen.Addr())
		g.Go(func() error {
			return networkEngine(ctx, listen, cfg)
		})
	}
	if cfg.HTTPAddr != "" {
		server := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: webapi.NewRouter(cfg.Depth, cfg.TimeBudget()),
		}
		g.Go(func() error {
			logrus.Infof("web api listening on %s", cfg.HTTPAddr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}
	return g.Wait()
}

// 网络引擎 可配合客户端使用
func networkEngine(ctx context.Context, listen net.Listener, cfg config.Config) error {
	go func() {
		<-ctx.Done()
		_ = listen.Close()
	}()
	for {
		conn, err := listen.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		logrus.Infof("accept connection: %v", conn.RemoteAddr())
		go func() {
			defer conn.Close()
			deal(newEngine(cfg), conn, conn)
		}()
	}
}

func deal(engine *ucci.Engine, reader io.Reader, writer io.Writer) {
	scanner := bufio.NewScanner(reader)
	ctx := ucci.CreateCmdCtx(writer)
	for scanner.Scan() {
		if !engine.ExecCommand(ctx, scanner.Text()) {
			logrus.Infof("engine quit")
			return
		}
	}
}
