package entities

// TransactionType represents the type of balance change
type TransactionType string

// All transaction types supported by the ledger
const (
	TransactionTypeClaimReward TransactionType = "claim_reward"
	TransactionTypeTransferIn  TransactionType = "transfer_in"
	TransactionTypeTransferOut TransactionType = "transfer_out"
	TransactionTypeWagerStake  TransactionType = "wager_stake"
	TransactionTypeWagerPayout TransactionType = "wager_payout"
)

// IsTransferType returns true if the transaction type represents a transfer
func (tt TransactionType) IsTransferType() bool {
	return tt == TransactionTypeTransferIn ||
		tt == TransactionTypeTransferOut
}

// IsWagerType returns true if the transaction type is gambling-related
func (tt TransactionType) IsWagerType() bool {
	return tt == TransactionTypeWagerStake ||
		tt == TransactionTypeWagerPayout
}

// Category groups the type into claim, transfer or wager
func (tt TransactionType) Category() string {
	switch {
	case tt.IsTransferType():
		return "transfer"
	case tt.IsWagerType():
		return "wager"
	default:
		return "claim"
	}
}

// String returns the string representation of the transaction type
func (tt TransactionType) String() string {
	return string(tt)
}
