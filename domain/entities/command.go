package entities

// CommandName identifies an inbound command
type CommandName string

const (
	CommandBalance     CommandName = "balance"
	CommandClaim       CommandName = "claim"
	CommandSend        CommandName = "send"
	CommandBetCoinFlip CommandName = "bet_coin_flip"
	CommandBetDiceRoll CommandName = "bet_dice_roll"
	CommandBetWheel    CommandName = "bet_wheel"
)

// CommandArgs carries the loosely-typed options delivered by the chat layer.
// Only the fields relevant to the command are read.
type CommandArgs struct {
	Bucket string // claim
	Side   string // bet_coin_flip: heads|tails, bet_dice_roll: 1-6
	Target *int64 // send recipient, optional balance subject; nil when not given
	Amount int64  // send and bets
}

// UserTarget returns a Target pointing at userID
func UserTarget(userID int64) *int64 {
	return &userID
}

// Command is one inbound request from a user
type Command struct {
	UserID int64
	Name   CommandName
	Args   CommandArgs
}

// Response is what the chat layer renders back to the user
type Response struct {
	Text    string
	IsError bool
	Balance *int64 // Caller's balance after the command, when known
}
