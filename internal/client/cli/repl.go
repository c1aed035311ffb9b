package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. *App satisfies it.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Login(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	SetServer(ctx context.Context, name string) error
	Viewable(ctx context.Context) error
	Profile(ctx context.Context, userID string) error
	Notes(ctx context.Context, userID string, days int) error
}

const defaultNoteDays = 7

// notesArgs parses "[userid] [days]". A lone numeric argument is days.
func notesArgs(args []string) (string, int, error) {
	var (
		userID string
		days   = defaultNoteDays
	)
	if len(args) > 2 {
		return "", 0, fmt.Errorf("too many arguments")
	}
	if len(args) > 0 {
		last := args[len(args)-1]
		if n, err := strconv.Atoi(last); err == nil {
			if n <= 0 {
				return "", 0, fmt.Errorf("days must be positive")
			}
			days = n
			args = args[:len(args)-1]
		} else if len(args) == 2 {
			return "", 0, fmt.Errorf("invalid days %q", last)
		}
	}
	if len(args) == 1 {
		userID = args[0]
	}
	return userID, days, nil
}

// runREPL reads commands from in until EOF or "exit"/"quit".
//
// Errors returned by handlers are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("urchin %s> ", statusFn()))
		line, err := readLine(in)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn("Available commands: whoami, viewable, profile [userid], notes [userid] [days], server <name>, login, exit")
			} else {
				printlnFn("Available commands: login, whoami, server <name>, exit")
			}

		case "login":
			cmdErr = a.Login(ctx)

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "server":
			if len(args) != 1 {
				printlnFn("Usage: server <production|staging|development>")
				continue
			}
			cmdErr = a.SetServer(ctx, args[0])

		case "viewable":
			cmdErr = a.Viewable(ctx)

		case "profile":
			if len(args) > 1 {
				printlnFn("Usage: profile [userid]")
				continue
			}
			userID := ""
			if len(args) == 1 {
				userID = args[0]
			}
			cmdErr = a.Profile(ctx, userID)

		case "notes":
			userID, days, err := notesArgs(args)
			if err != nil {
				printlnFn("Usage: notes [userid] [days]:", err)
				continue
			}
			cmdErr = a.Notes(ctx, userID, days)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}
