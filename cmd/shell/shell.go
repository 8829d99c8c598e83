package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"coinbot/application"
	"coinbot/domain/entities"

	log "github.com/sirupsen/logrus"
)

const genericFailure = "❌ Something went wrong. Please try again later."

// Shell is a line-oriented chat surface: each line is one command typed by the
// currently selected user
type Shell struct {
	dispatcher  *application.Dispatcher
	in          io.Reader
	out         io.Writer
	commands    map[string]Command
	history     []string
	currentUser int64
	running     bool
}

// Command represents a shell command
type Command struct {
	Handler     CommandHandler
	Description string
	Usage       string
	Category    string // "economy", "games", "utility"
}

// CommandHandler is a function that handles a shell command
type CommandHandler func(ctx context.Context, args []string) error

// New creates a shell acting as user until "as" switches identity
func New(dispatcher *application.Dispatcher, in io.Reader, out io.Writer, user int64) *Shell {
	s := &Shell{
		dispatcher:  dispatcher,
		in:          in,
		out:         out,
		history:     []string{},
		currentUser: user,
		running:     true,
	}
	s.initializeCommands()
	return s
}

// Run reads commands until EOF, "exit" or ctx cancellation. It returns only
// after the command in progress has finished.
func (s *Shell) Run(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go s.readLines(lines, scanErr, stop)

	fmt.Fprintln(s.out, "🪙 coinbot shell. Type 'help' for commands.")

	for s.running {
		fmt.Fprintf(s.out, "\n🎲 <@%d>> ", s.currentUser)

		var line string
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				if err := <-scanErr; err != nil {
					return fmt.Errorf("scanner error: %w", err)
				}
				return nil
			}
			line = l
		}
		if ctx.Err() != nil {
			return nil
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		s.history = append(s.history, input)

		parts := strings.Fields(input)
		cmdName := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmdName {
		case "exit", "quit":
			s.running = false
			fmt.Fprintln(s.out, "👋 Bye.")
			continue
		case "clear":
			fmt.Fprint(s.out, "\033[H\033[2J")
			continue
		}

		cmd, exists := s.commands[cmdName]
		if !exists {
			s.printError(fmt.Errorf("unknown command: %s. Type 'help' for available commands", cmdName))
			continue
		}

		if err := cmd.Handler(ctx, args); err != nil {
			s.printError(err)
		}
	}
	return nil
}

// readLines feeds input lines to Run until EOF or stop is closed. A read that
// is still blocked when Run returns never reaches the dispatcher.
func (s *Shell) readLines(lines chan<- string, scanErr chan<- error, stop <-chan struct{}) {
	defer close(lines)
	scanner := bufio.NewScanner(s.in)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-stop:
			scanErr <- nil
			return
		}
	}
	scanErr <- scanner.Err()
}

// dispatch sends one command as the current user and prints the reply
func (s *Shell) dispatch(ctx context.Context, name entities.CommandName, args entities.CommandArgs) error {
	resp, err := s.dispatcher.Handle(ctx, entities.Command{
		UserID: s.currentUser,
		Name:   name,
		Args:   args,
	})
	if err != nil {
		log.WithError(err).WithField("command", name).Error("Shell command failed")
		fmt.Fprintln(s.out, genericFailure)
		return nil
	}

	fmt.Fprintln(s.out, resp.Text)
	return nil
}

// printError displays an error message in red
func (s *Shell) printError(err error) {
	fmt.Fprintf(s.out, "\033[31m❌ Error: %s\033[0m\n", err.Error())
}
