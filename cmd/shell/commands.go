package shell

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"coinbot/domain/entities"
)

// initializeCommands sets up all available shell commands
func (s *Shell) initializeCommands() {
	s.commands = map[string]Command{
		"help": {
			Handler:     s.handleHelp,
			Description: "Show available commands",
			Usage:       "help [command]",
			Category:    "utility",
		},
		"as": {
			Handler:     s.handleAs,
			Description: "Act as another user",
			Usage:       "as <user_id>",
			Category:    "utility",
		},
		"history": {
			Handler:     s.handleHistory,
			Description: "Show the commands typed so far",
			Usage:       "history",
			Category:    "utility",
		},
		"balance": {
			Handler:     s.handleBalance,
			Description: "Show your balance or another user's",
			Usage:       "balance [user_id]",
			Category:    "economy",
		},
		"claim": {
			Handler:     s.handleClaim,
			Description: "Claim a periodic reward",
			Usage:       "claim <hourly|daily|monthly>",
			Category:    "economy",
		},
		"send": {
			Handler:     s.handleSend,
			Description: "Send currency to another user",
			Usage:       "send <user_id> <amount>",
			Category:    "economy",
		},
		"coinflip": {
			Handler:     s.handleCoinFlip,
			Description: "Bet on a coin flip",
			Usage:       "coinflip <heads|tails> <amount>",
			Category:    "games",
		},
		"dice": {
			Handler:     s.handleDice,
			Description: "Bet on a die face",
			Usage:       "dice <1-6> <amount>",
			Category:    "games",
		},
		"wheel": {
			Handler:     s.handleWheel,
			Description: "Spin the multiplier wheel",
			Usage:       "wheel <amount>",
			Category:    "games",
		},
	}
}

func (s *Shell) handleHelp(_ context.Context, args []string) error {
	if len(args) > 0 {
		cmdName := strings.ToLower(args[0])
		cmd, exists := s.commands[cmdName]
		if !exists {
			return fmt.Errorf("unknown command: %s", cmdName)
		}
		fmt.Fprintf(s.out, "\n📖 %s\n", cmdName)
		fmt.Fprintf(s.out, "   %s\n", cmd.Description)
		fmt.Fprintf(s.out, "   Usage: %s\n", cmd.Usage)
		fmt.Fprintf(s.out, "   Category: %s\n", cmd.Category)
		return nil
	}

	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(s.out, "\n📚 Available Commands:")
	for _, category := range []string{"economy", "games", "utility"} {
		fmt.Fprintf(s.out, "\n%s:\n", strings.ToUpper(category))
		for _, name := range names {
			if cmd := s.commands[name]; cmd.Category == category {
				fmt.Fprintf(s.out, "  %-30s %s\n", cmd.Usage, cmd.Description)
			}
		}
	}
	fmt.Fprintf(s.out, "  %-30s %s\n", "exit", "Leave the shell")
	return nil
}

func (s *Shell) handleAs(_ context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: %s", s.commands["as"].Usage)
	}
	id, err := parseUserID(args[0])
	if err != nil {
		return err
	}
	s.currentUser = id
	fmt.Fprintf(s.out, "Now acting as <@%d>\n", id)
	return nil
}

func (s *Shell) handleHistory(_ context.Context, _ []string) error {
	// The last entry is this "history" line itself
	past := s.history[:len(s.history)-1]
	if len(past) == 0 {
		fmt.Fprintln(s.out, "No commands yet.")
		return nil
	}
	for i, line := range past {
		fmt.Fprintf(s.out, "%4d  %s\n", i+1, line)
	}
	return nil
}

func (s *Shell) handleBalance(ctx context.Context, args []string) error {
	var target *int64
	if len(args) > 0 {
		id, err := parseUserID(args[0])
		if err != nil {
			return err
		}
		target = entities.UserTarget(id)
	}
	return s.dispatch(ctx, entities.CommandBalance, entities.CommandArgs{Target: target})
}

func (s *Shell) handleClaim(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: %s", s.commands["claim"].Usage)
	}
	return s.dispatch(ctx, entities.CommandClaim, entities.CommandArgs{Bucket: args[0]})
}

func (s *Shell) handleSend(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: %s", s.commands["send"].Usage)
	}
	target, err := parseUserID(args[0])
	if err != nil {
		return err
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	return s.dispatch(ctx, entities.CommandSend, entities.CommandArgs{Target: entities.UserTarget(target), Amount: amount})
}

func (s *Shell) handleCoinFlip(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: %s", s.commands["coinflip"].Usage)
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	return s.dispatch(ctx, entities.CommandBetCoinFlip, entities.CommandArgs{Side: args[0], Amount: amount})
}

func (s *Shell) handleDice(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: %s", s.commands["dice"].Usage)
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	return s.dispatch(ctx, entities.CommandBetDiceRoll, entities.CommandArgs{Side: args[0], Amount: amount})
}

func (s *Shell) handleWheel(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: %s", s.commands["wheel"].Usage)
	}
	amount, err := parseAmount(args[0])
	if err != nil {
		return err
	}
	return s.dispatch(ctx, entities.CommandBetWheel, entities.CommandArgs{Amount: amount})
}

// parseUserID accepts a bare id or a <@id> mention
func parseUserID(s string) (int64, error) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(s, "<@"), ">")
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user id: %s", s)
	}
	return id, nil
}

func parseAmount(s string) (int64, error) {
	amount, err := strconv.ParseInt(strings.ReplaceAll(s, ",", ""), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount: %s", s)
	}
	return amount, nil
}
