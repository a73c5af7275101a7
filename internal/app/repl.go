package app

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// errQuit ends the REPL loop.
var errQuit = errors.New("quit")

const replHelp = `commands:
  add <type> <id> <x> <y>                    place a catalog block
  move <id> <x> <y>                          move a block
  delete <id>                                delete a block and its connections
  connect <id> <src>:<port> <dst>:<port>     connect an output port to an input port
  disconnect <id>                            remove a connection
  select <id> [on|off]                       toggle selection (not undoable)
  undo | redo | clear                        history
  key <chord>                                press a shortcut, e.g. ctrl+z
  state | history | catalog | help | quit`

// RunREPL reads commands from in, one per line, until EOF, quit or ctx is
// done. Command errors are printed and do not stop the loop.
func (a *App) RunREPL(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, "--- stackcanvas (type 'help') ---")
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		err := a.Exec(line, out)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

// Exec runs a single REPL command line.
func (a *App) Exec(line string, out io.Writer) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "add":
		if len(args) != 4 {
			return usage("add <type> <id> <x> <y>")
		}
		x, y, err := parseXY(args[2], args[3])
		if err != nil {
			return err
		}
		b, err := a.AddBlock(args[0], args[1], x, y)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "added %s %s at (%g, %g)\n", b.Type, b.ID, b.Position.X, b.Position.Y)

	case "move":
		if len(args) != 3 {
			return usage("move <id> <x> <y>")
		}
		x, y, err := parseXY(args[1], args[2])
		if err != nil {
			return err
		}
		if err := a.MoveBlock(args[0], x, y); err != nil {
			return err
		}
		fmt.Fprintf(out, "moved %s to (%g, %g)\n", args[0], x, y)

	case "delete", "rm":
		if len(args) != 1 {
			return usage("delete <id>")
		}
		if err := a.DeleteBlock(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(out, "deleted %s\n", args[0])

	case "connect":
		if len(args) != 3 {
			return usage("connect <id> <src>:<port> <dst>:<port>")
		}
		srcBlock, srcPort, err := parseEndpoint(args[1])
		if err != nil {
			return err
		}
		dstBlock, dstPort, err := parseEndpoint(args[2])
		if err != nil {
			return err
		}
		c, err := a.Connect(args[0], srcBlock, srcPort, dstBlock, dstPort)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "connected %s: %s:%s -> %s:%s\n", c.ID, srcBlock, srcPort, dstBlock, dstPort)

	case "disconnect":
		if len(args) != 1 {
			return usage("disconnect <id>")
		}
		if err := a.Disconnect(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(out, "disconnected %s\n", args[0])

	case "select":
		if len(args) < 1 || len(args) > 2 {
			return usage("select <id> [on|off]")
		}
		selected := true
		if len(args) == 2 {
			switch args[1] {
			case "on", "true":
			case "off", "false":
				selected = false
			default:
				return usage("select <id> [on|off]")
			}
		}
		if err := a.SelectBlock(args[0], selected); err != nil {
			return err
		}
		state := "off"
		if selected {
			state = "on"
		}
		fmt.Fprintf(out, "selected %s %s\n", args[0], state)

	case "undo":
		printApplied(out, "undo", a.Undo())

	case "redo":
		printApplied(out, "redo", a.Redo())

	case "clear":
		a.ClearHistory()
		fmt.Fprintln(out, "history cleared")

	case "key":
		if len(args) != 1 {
			return usage("key <chord>")
		}
		ev, err := ParseChord(args[0])
		if err != nil {
			return err
		}
		moved, err := a.PressKey(args[0])
		if err != nil {
			return err
		}
		action := ResolveShortcut(ev)
		if action != ActionNone && !moved {
			fmt.Fprintf(out, "%s -> %s (nothing to %s)\n", args[0], action, action)
			break
		}
		fmt.Fprintf(out, "%s -> %s\n", args[0], action)

	case "state":
		return writeJSON(out, a.State())

	case "history":
		st := a.HistoryStatus()
		for i, e := range a.HistorySummary() {
			marker := " "
			if i == st.Index {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %2d  %-17s %s  %s\n", marker, i, e.Type, e.Timestamp.Format("15:04:05.000"), e.ID)
		}
		fmt.Fprintf(out, "size=%d index=%d canUndo=%t canRedo=%t\n", st.Size, st.Index, st.CanUndo, st.CanRedo)

	case "catalog":
		printCatalog(out, a)

	case "help", "?":
		fmt.Fprintln(out, replHelp)

	case "quit", "exit":
		return errQuit

	default:
		return fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
	return nil
}

func usage(s string) error {
	return fmt.Errorf("usage: %s", s)
}

func parseXY(xs, ys string) (float64, float64, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x %q", xs)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y %q", ys)
	}
	return x, y, nil
}

func parseEndpoint(s string) (string, string, error) {
	block, port, ok := strings.Cut(s, ":")
	if !ok || block == "" || port == "" {
		return "", "", fmt.Errorf("invalid endpoint %q, want <block>:<port>", s)
	}
	return block, port, nil
}

func printApplied(out io.Writer, op string, applied bool) {
	if applied {
		fmt.Fprintf(out, "%s applied\n", op)
		return
	}
	fmt.Fprintf(out, "nothing to %s\n", op)
}

func printCatalog(out io.Writer, a *App) {
	for _, t := range a.Catalog() {
		ports := make([]string, 0, len(t.Ports))
		for _, p := range t.Ports {
			ports = append(ports, fmt.Sprintf("%s(%s)", p.ID, p.Direction))
		}
		fmt.Fprintf(out, "%-14s %-10s %s\n", t.Type, t.Category, strings.Join(ports, " "))
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
