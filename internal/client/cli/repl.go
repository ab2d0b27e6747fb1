package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. *App satisfies it.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Add(ctx context.Context) error
	Delete(ctx context.Context, args []string) error
	Categories(ctx context.Context) error
	Favorites(ctx context.Context) error
	Favorite(ctx context.Context, args []string) error
	Unfavorite(ctx context.Context, args []string) error
	UploadAudio(ctx context.Context, args []string) error
	FetchAudio(ctx context.Context, args []string) error
}

// runREPL reads one command per line and dispatches it. It returns on EOF
// or on "exit"/"quit". Handlers print their own errors.
//
//	Not logged in:  help, register, login, exit
//	Logged in:      help, me, (l)ist [category] [skip] [limit], add,
//	                delete <id>, categories, favorites, fav <id>,
//	                unfav <id>, audio <id> <file>, fetch <id>,
//	                logout, exit
//
// Commands and their prompts share one reader so buffered input is never
// split between two consumers.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "vk %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: me, (l)ist, add, delete, categories, favorites, fav, unfav, audio, fetch, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		case "me", "l", "list", "add", "delete", "categories", "favorites", "fav", "unfav", "audio", "fetch", "logout":
			if !a.isLoggedIn() {
				fmt.Fprintln(w, "Please log in first")
				continue
			}
			dispatch(ctx, a, cmd, args)

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) {
	switch cmd {
	case "me":
		_ = a.Me(ctx)
	case "l", "list":
		_ = a.List(ctx, args)
	case "add":
		_ = a.Add(ctx)
	case "delete":
		_ = a.Delete(ctx, args)
	case "categories":
		_ = a.Categories(ctx)
	case "favorites":
		_ = a.Favorites(ctx)
	case "fav":
		_ = a.Favorite(ctx, args)
	case "unfav":
		_ = a.Unfavorite(ctx, args)
	case "audio":
		_ = a.UploadAudio(ctx, args)
	case "fetch":
		_ = a.FetchAudio(ctx, args)
	case "logout":
		_ = a.Logout(ctx)
	}
}
