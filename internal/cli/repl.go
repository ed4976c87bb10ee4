package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Frames(ctx context.Context) error
	Assets(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
}

// runREPL starts a simple read-eval-print loop for the aura shell.
//
// It reads a line from the provided scanner, parses the first token as
// the command, and dispatches to methods on 'a'. Unknown commands are
// reported back to the user. The loop exits on scanner EOF or when the
// user types "exit" or "quit".
//
// Commands taking a <frame> argument accept either a frame id or a
// position from the last `frames` listing.
//
// Any errors returned by command handlers are ignored here; handlers
// print their own errors. This keeps the REPL loop resilient and
// focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("aura> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (f)rames, (a)ssets <frame>, upload <frame> <file>, export <frame> [dir], logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "f", "frames":
			_ = a.Frames(ctx)

		case "a", "assets":
			_ = a.Assets(ctx, args)

		case "upload":
			_ = a.Upload(ctx, args)

		case "export":
			_ = a.Export(ctx, args)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
