// Command gen_hmac prints the HMAC-SHA256 signature the webhook expects for a payload.
//
//	gen_hmac <secret> [payload.json]
//
// Without a file argument the payload is read from stdin.
package main

import (
	"fmt"
	"io"
	"os"

	"signal_go/internal/infra/webhook"
)

const (
	exitUsage   = 1
	exitFailure = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintln(stderr, "Usage: gen_hmac <secret> [payload.json]")
		return exitUsage
	}

	secret := args[0]

	var payload []byte
	var err error
	if len(args) > 1 && args[1] != "" {
		payload, err = os.ReadFile(args[1])
	} else {
		payload, err = io.ReadAll(stdin)
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}

	fmt.Fprintln(stdout, webhook.Sign(secret, payload))
	return 0
}
