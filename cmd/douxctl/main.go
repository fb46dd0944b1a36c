// Command douxctl is a thin client that streams command lines to a
// running douxd's TCP control listener: stdin in, one line per command.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
)

func main() {
	addr := flag.String("addr", "localhost:7670", "douxd -listen address to connect to")
	flag.Parse()

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		log.Fatalf("douxctl: connecting to %s: %v", *addr, err)
	}
	defer conn.Close()

	if flag.NArg() > 0 {
		for _, line := range flag.Args() {
			if err := sendLine(conn, line); err != nil {
				log.Fatalf("douxctl: %v", err)
			}
		}
		return
	}

	if err := streamStdin(conn, os.Stdin); err != nil && err != io.EOF {
		log.Fatalf("douxctl: %v", err)
	}
}

func sendLine(w io.Writer, line string) error {
	_, err := fmt.Fprintln(w, line)
	return err
}

// streamStdin forwards each line read from in to conn as it arrives,
// letting a caller pipe a live sequence of commands through.
func streamStdin(conn net.Conn, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := sendLine(conn, scanner.Text()); err != nil {
			return err
		}
	}
	return scanner.Err()
}
