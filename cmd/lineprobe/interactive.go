package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// interactiveCmd reads commands from stdin and runs each as if it had been
// given on the command line.
type interactiveCmd struct {
	*root
	fs    *flag.FlagSet
	execs commandList
	in    io.Reader
}

// commandList collects repeated -e flags.
type commandList []string

func (c *commandList) String() string { return strings.Join(*c, "; ") }

func (c *commandList) Set(s string) error {
	*c = append(*c, s)
	return nil
}

func (i *interactiveCmd) FlagSet() *flag.FlagSet {
	return i.fs
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	fs := flag.NewFlagSet("interactive", flag.ContinueOnError)
	i := &interactiveCmd{root: r.subcommand("interactive"), fs: fs, in: os.Stdin}
	fs.SetOutput(r.stderr)
	fs.Usage = usageFunc(i)
	fs.Var(&i.execs, "e", "execute a command and exit (may be given multiple times)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return i, nil
}

// execute runs one line. It reports true when the session should end.
func (i *interactiveCmd) execute(line string) (bool, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false, nil
	}
	switch args[0] {
	case "exit", "quit":
		return true, nil
	case "interactive":
		return false, nil
	}
	// Each line gets a fresh flag set so flags do not leak between lines.
	r := newRootWithConfig(i.config, i.stdout, i.stderr)
	r.notifier = i.notifier
	return false, r.Run(args)
}

func (i *interactiveCmd) Run() error {
	if len(i.execs) > 0 {
		for _, line := range i.execs {
			done, err := i.execute(line)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		return nil
	}

	fmt.Fprintln(i.stdout, "Enter commands (type 'exit' to quit)")
	scanner := bufio.NewScanner(i.in)
	for {
		fmt.Fprint(i.stdout, "> ")
		if !scanner.Scan() {
			break
		}
		done, err := i.execute(strings.TrimSpace(scanner.Text()))
		if err != nil {
			fmt.Fprintln(i.stderr, err)
		}
		if done {
			break
		}
	}
	return scanner.Err()
}
