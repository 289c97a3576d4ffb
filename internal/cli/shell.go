package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"phonenet/internal/display"
	"phonenet/internal/domain"
	"phonenet/internal/network"
)

// Prompt is printed before each command
const Prompt = "Enter command: "

type command struct {
	args  int
	usage string
	help  string
	run   func(ctx context.Context, s *Shell, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"switch-add":     {1, "switch-add <area>", "add a switchboard", cmdSwitchAdd},
		"switch-connect": {2, "switch-connect <area> <area>", "add a trunk line between two switchboards", cmdSwitchConnect},
		"phone-add":      {1, "phone-add <area-number>", "add a phone to its switchboard", cmdPhoneAdd},
		"start-call":     {2, "start-call <area-number> <area-number>", "connect two phones", cmdStartCall},
		"end-call":       {1, "end-call <area-number>", "hang up the call a phone is in", cmdEndCall},
		"network-save":   {1, "network-save <file>", "save switchboards, trunks and phones", cmdSave},
		"network-load":   {1, "network-load <file>", "merge a saved network into this one", cmdLoad},
		"display":        {0, "display", "show every switchboard", cmdDisplay},
		"route":          {2, "route <area> <area>", "show the trunk route between two switchboards", cmdRoute},
		"calls":          {0, "calls", "list active calls", cmdCalls},
		"help":           {0, "help", "list commands", cmdHelp},
	}
}

// Shell reads commands line by line and applies them to a network
type Shell struct {
	net    *network.Network
	in     io.Reader
	out    *display.Printer
	prompt io.Writer
	now    func() time.Time

	// OnQuit runs once input ends or quit is entered
	OnQuit func(ctx context.Context) error
}

// NewShell creates a shell reading from in and writing to out
func NewShell(n *network.Network, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		net:    n,
		in:     in,
		out:    display.NewPrinter(out),
		prompt: out,
		now:    time.Now,
	}
}

// DisablePrompt stops the shell printing a prompt before each command
func (s *Shell) DisablePrompt() {
	s.prompt = io.Discard
}

// Run processes commands until quit, end of input or ctx is done
func (s *Shell) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.prompt, Prompt)
		if !scanner.Scan() {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if quit := s.Execute(ctx, scanner.Text()); quit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if s.OnQuit != nil {
		return s.OnQuit(ctx)
	}
	return nil
}

// Execute runs one command line and reports whether the shell should stop.
// Failures are printed and never stop the shell.
func (s *Shell) Execute(ctx context.Context, line string) (quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	name := strings.ToLower(fields[0])
	if name == "quit" || name == "exit" {
		return true
	}

	cmd, ok := commands[name]
	if !ok {
		s.out.Error(fmt.Errorf("unknown command %q, type help for a list", fields[0]))
		return false
	}

	args := fields[1:]
	if len(args) != cmd.args {
		s.out.Message("Usage: %s", cmd.usage)
		return false
	}

	if err := cmd.run(ctx, s, args); err != nil {
		s.out.Error(err)
	}
	return false
}

func cmdSwitchAdd(_ context.Context, s *Shell, args []string) error {
	area, err := parseArea(args[0])
	if err != nil {
		return err
	}
	if _, created := s.net.AddSwitchboard(area); !created {
		s.out.Message("Switchboard %d already exists.", area)
	}
	return nil
}

func cmdSwitchConnect(_ context.Context, s *Shell, args []string) error {
	a1, err := parseArea(args[0])
	if err != nil {
		return err
	}
	a2, err := parseArea(args[1])
	if err != nil {
		return err
	}
	return s.net.ConnectSwitchboards(a1, a2)
}

func cmdPhoneAdd(_ context.Context, s *Shell, args []string) error {
	id, err := domain.ParsePhoneID(args[0])
	if err != nil {
		return err
	}
	_, err = s.net.AddPhone(id.AreaCode, id.Number)
	return err
}

func cmdStartCall(ctx context.Context, s *Shell, args []string) error {
	from, err := domain.ParsePhoneID(args[0])
	if err != nil {
		return err
	}
	to, err := domain.ParsePhoneID(args[1])
	if err != nil {
		return err
	}

	call, err := s.net.ConnectCall(ctx, from.AreaCode, from.Number, to.AreaCode, to.Number)
	if err != nil {
		return err
	}
	s.out.Message("Call started: %s -> %s via %s", call.Caller, call.Callee, display.FormatRoute(call.Route))
	return nil
}

func cmdEndCall(_ context.Context, s *Shell, args []string) error {
	id, err := domain.ParsePhoneID(args[0])
	if err != nil {
		return err
	}
	call, err := s.net.EndCall(id.AreaCode, id.Number)
	if err != nil {
		return err
	}
	s.out.Message("Call ended: %s -> %s, %s", call.Caller, call.Callee, display.Elapsed(*call, s.now()))
	return nil
}

func cmdSave(ctx context.Context, s *Shell, args []string) error {
	if err := s.net.Save(ctx, args[0]); err != nil {
		return err
	}
	s.out.Message("Network saved to %s.", args[0])
	return nil
}

func cmdLoad(ctx context.Context, s *Shell, args []string) error {
	if err := s.net.Load(ctx, args[0]); err != nil {
		return err
	}
	s.out.Message("Network loaded from %s.", args[0])
	return nil
}

func cmdDisplay(_ context.Context, s *Shell, _ []string) error {
	return s.out.Status(s.net.Status())
}

func cmdRoute(ctx context.Context, s *Shell, args []string) error {
	a1, err := parseArea(args[0])
	if err != nil {
		return err
	}
	a2, err := parseArea(args[1])
	if err != nil {
		return err
	}
	path, err := s.net.FindConnection(ctx, a1, a2)
	if err != nil {
		return err
	}
	return s.out.Route(path)
}

func cmdCalls(_ context.Context, s *Shell, _ []string) error {
	return s.out.Calls(s.net.Calls(), s.now())
}

func cmdHelp(_ context.Context, s *Shell, _ []string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cmd := commands[name]
		s.out.Message("  %-40s %s", cmd.usage, cmd.help)
	}
	s.out.Message("  %-40s %s", "quit", "leave the shell")
	return nil
}

func parseArea(s string) (int, error) {
	area, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: area code %q is not a number", domain.ErrInvalidOperation, s)
	}
	return area, nil
}
