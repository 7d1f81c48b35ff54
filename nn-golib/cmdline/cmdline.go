package cmdline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	arg "github.com/alexflint/go-arg"
)

// Command represents an action that can be run from the command line
type Command struct {
	Name     string
	Synopsis string
	Args     Handler
}

// Handler represents a function that gets called for an action
type Handler interface {
	Handle() error
}

// Validator is the interface for custom validation of command line arguments
type Validator interface {
	Validate() error
}

func prog() string {
	if len(os.Args) > 0 {
		return filepath.Base(os.Args[0])
	}
	return "program"
}

func writeUsage(w io.Writer, cmds ...Command) {
	fmt.Fprintf(w, "Usage: %s COMMAND [ARGS]\n", prog())
	fmt.Fprintf(w, "Command can be one of:\n")
	for _, cmd := range cmds {
		fmt.Fprintf(w, "  %-20s %s\n", cmd.Name, cmd.Synopsis)
	}
	fmt.Fprintf(w, "  %-20s %s\n", "help", "display this help and exit")
	fmt.Fprintf(w, "  %-20s %s\n", "help COMMAND", "display help for command and exit")
}

// Dispatch parses args (without the program name) into one of the commands,
// validates it, and runs its handler. It returns the process exit code.
func Dispatch(w io.Writer, args []string, cmds ...Command) int {
	if len(args) < 1 {
		writeUsage(w, cmds...)
		fmt.Fprintln(w, "\nError: no command provided")
		return 1
	}

	var help bool
	action := args[0]
	if action == "help" {
		if len(args) < 2 {
			writeUsage(w, cmds...)
			return 0
		}
		help = true
		action = args[1]
	}

	var cmd *Command
	for i := range cmds {
		if cmds[i].Name == action {
			cmd = &cmds[i]
			break
		}
	}
	if cmd == nil {
		writeUsage(w, cmds...)
		fmt.Fprintln(w, "\nError: unknown command", action)
		return 1
	}

	config := arg.Config{
		Program: prog() + " " + action,
	}
	parser, err := arg.NewParser(config, cmd.Args)
	if err != nil {
		fmt.Fprintln(w, err)
		return 1
	}

	if help {
		parser.WriteHelp(w)
		return 0
	}

	switch err := parser.Parse(args[1:]); {
	case err == arg.ErrHelp:
		parser.WriteHelp(w)
		return 0
	case err != nil:
		parser.WriteUsage(w)
		fmt.Fprintln(w, "error:", err)
		return 1
	}

	if v, ok := cmd.Args.(Validator); ok {
		if err := v.Validate(); err != nil {
			parser.WriteUsage(w)
			fmt.Fprintln(w, "error:", err)
			return 1
		}
	}

	if err := cmd.Args.Handle(); err != nil {
		fmt.Fprintln(w, err)
		return 1
	}
	return 0
}

// MustDispatch dispatches one of the commands using os.Args and exits with
// a non-zero status if anything fails.
func MustDispatch(cmds ...Command) {
	if code := Dispatch(os.Stderr, os.Args[1:], cmds...); code != 0 {
		os.Exit(code)
	}
}
