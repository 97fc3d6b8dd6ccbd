package main

import (
	"bufio"
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/sirupsen/logrus"
)

var addr = flag.String("addr", "127.0.0.1:1234", "engine server address")

func main() {
	flag.Parse()
	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		logrus.Errorf("connection failed. err=%v", err)
		os.Exit(1)
	}
	defer conn.Close()
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			text := scanner.Text()
			if _, err := fmt.Fprintln(conn, text); err != nil {
				logrus.Errorf("send failure. err=%v", err)
				return
			}
		}
	}()
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		text := scanner.Text()
		fmt.Fprintln(os.Stdout, text)
	}
}
