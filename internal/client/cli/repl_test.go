package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	logged bool
	calls  []string
	args   [][]string
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return nil
}

func (f *fakeExec) isLoggedIn() bool                   { return f.logged }
func (f *fakeExec) Register(context.Context) error     { return f.record("register", nil) }
func (f *fakeExec) Login(context.Context) error        { f.logged = true; return f.record("login", nil) }
func (f *fakeExec) Logout(context.Context) error       { f.logged = false; return f.record("logout", nil) }
func (f *fakeExec) Me(context.Context) error           { return f.record("me", nil) }
func (f *fakeExec) Add(context.Context) error          { return f.record("add", nil) }
func (f *fakeExec) Categories(context.Context) error   { return f.record("categories", nil) }
func (f *fakeExec) Favorites(context.Context) error    { return f.record("favorites", nil) }
func (f *fakeExec) List(_ context.Context, a []string) error {
	return f.record("list", a)
}
func (f *fakeExec) Delete(_ context.Context, a []string) error {
	return f.record("delete", a)
}
func (f *fakeExec) Favorite(_ context.Context, a []string) error {
	return f.record("fav", a)
}
func (f *fakeExec) Unfavorite(_ context.Context, a []string) error {
	return f.record("unfav", a)
}

func (f *fakeExec) UploadAudio(_ context.Context, a []string) error {
	return f.record("audio", a)
}
func (f *fakeExec) FetchAudio(_ context.Context, a []string) error {
	return f.record("fetch", a)
}

func runScript(t *testing.T, f *fakeExec, script string) string {
	t.Helper()
	var out bytes.Buffer
	runREPL(context.Background(), f, func() string { return "" }, bufio.NewReader(strings.NewReader(script)), &out)
	return out.String()
}

func TestREPL_RequiresLogin(t *testing.T) {
	f := &fakeExec{}
	out := runScript(t, f, "list\nme\n")

	if len(f.calls) != 0 {
		t.Fatalf("no command should run before login, got %v", f.calls)
	}
	if strings.Count(out, "Please log in first") != 2 {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestREPL_Dispatch(t *testing.T) {
	f := &fakeExec{}
	out := runScript(t, f, "login\n\nl verbs\ndelete v1\nfav v2\nunfav v2\ncategories\nfavorites\nadd\nme\naudio v1 cat.wav\nfetch v1\nbogus\nlogout\nexit\nlist\n")

	want := []string{"login", "list", "delete", "fav", "unfav", "categories", "favorites", "add", "me", "audio", "fetch", "logout"}
	if strings.Join(f.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", f.calls, want)
	}
	if f.args[1][0] != "verbs" || f.args[2][0] != "v1" || f.args[3][0] != "v2" {
		t.Fatalf("args not forwarded: %v", f.args)
	}
	if !strings.Contains(out, "Unknown command: bogus") || !strings.Contains(out, "Bye!") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestREPL_HelpDependsOnLogin(t *testing.T) {
	f := &fakeExec{}
	out := runScript(t, f, "help\nlogin\nhelp")

	if !strings.Contains(out, "Available commands: register, login, exit") {
		t.Fatalf("missing logged-out help: %q", out)
	}
	if !strings.Contains(out, "Available commands: me, (l)ist") {
		t.Fatalf("missing logged-in help (last line has no newline): %q", out)
	}
}
