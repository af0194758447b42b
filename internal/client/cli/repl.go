package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a recording stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error

	ListClients(ctx context.Context, args []string) error
	AddClient(ctx context.Context, args []string) error
	RenameClient(ctx context.Context, args []string) error
	DeleteClient(ctx context.Context, args []string) error
	SelectClient(ctx context.Context, args []string) error
	MoveClient(ctx context.Context, args []string) error
	ReorderClients(ctx context.Context, args []string) error

	ListTasks(ctx context.Context, args []string) error
	AddTask(ctx context.Context, args []string) error
	ToggleTask(ctx context.Context, args []string) error
	ArchiveTask(ctx context.Context, args []string) error
	UnarchiveTask(ctx context.Context, args []string) error
	EditNotes(ctx context.Context, args []string) error
	EditTask(ctx context.Context, args []string) error
	DeleteTask(ctx context.Context, args []string) error
	MoveTask(ctx context.Context, args []string) error
	ReorderTasks(ctx context.Context, args []string) error

	Urgent(ctx context.Context, args []string) error
	Overdue(ctx context.Context, args []string) error
	Archived(ctx context.Context, args []string) error
	Stats(ctx context.Context, args []string) error

	Sync(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
}

var errUsage = errors.New("usage")

const helpText = `Clients:  clients, addclient <name>, rename <n> <name>, delclient <n>, select <n>, moveclient <n> <pos>, reorder <n>...
Tasks:    tasks, addtask [text], toggle <n>, archive <n>, unarchive <id>, notes <n>, edit <n>, deltask <n>, movetask <n> <pos>, reordertasks <n>...
Views:    urgent, overdue, archived, stats
Session:  status, help, exit`

const helpOnline = `Account:  sync [--replace], profile [edit], logout`
const helpOffline = `Account:  register, login`

// runREPL reads commands from in until EOF, "exit" or "quit", dispatching
// each to a. Handler errors are printed and never end the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(out, "gt [%s]> ", statusFn())
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(out)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		var handler func(context.Context, []string) error
		switch cmd {
		case "help", "?":
			fmt.Fprintln(out, helpText)
			if a.isLoggedIn() {
				fmt.Fprintln(out, helpOnline)
			} else {
				fmt.Fprintln(out, helpOffline)
			}
			continue

		case "register":
			handler = a.Register
		case "login":
			handler = a.Login
		case "logout":
			handler = a.Logout
		case "profile":
			handler = a.Profile

		case "clients", "lc":
			handler = a.ListClients
		case "addclient", "ac":
			handler = a.AddClient
		case "rename":
			handler = a.RenameClient
		case "delclient":
			handler = a.DeleteClient
		case "select", "sel":
			handler = a.SelectClient
		case "moveclient":
			handler = a.MoveClient
		case "reorder":
			handler = a.ReorderClients

		case "tasks", "l", "ls":
			handler = a.ListTasks
		case "addtask", "at":
			handler = a.AddTask
		case "toggle", "t":
			handler = a.ToggleTask
		case "archive":
			handler = a.ArchiveTask
		case "unarchive":
			handler = a.UnarchiveTask
		case "notes":
			handler = a.EditNotes
		case "edit":
			handler = a.EditTask
		case "deltask":
			handler = a.DeleteTask
		case "movetask":
			handler = a.MoveTask
		case "reordertasks":
			handler = a.ReorderTasks

		case "urgent":
			handler = a.Urgent
		case "overdue":
			handler = a.Overdue
		case "archived":
			handler = a.Archived
		case "stats":
			handler = a.Stats

		case "sync":
			handler = a.Sync
		case "status":
			handler = a.Status

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
			continue
		}

		if err := handler(ctx, args); err != nil {
			if errors.Is(err, errUsage) {
				fmt.Fprintln(out, err.Error())
				continue
			}
			fmt.Fprintln(out, "Error:", err)
		}
	}
}

func usage(format string) error {
	return fmt.Errorf("%w: %s", errUsage, format)
}
