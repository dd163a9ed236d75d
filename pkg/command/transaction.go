package command

import (
	"github.com/kknero/neromind/pkg/errors"
	"github.com/kknero/neromind/pkg/state"
)

// Transaction applies several commands as one all-or-nothing step.
type Transaction struct {
	description string
	commands    []state.Command
}

// NewTransaction groups commands under description. An empty description
// defaults to "Transaction".
func NewTransaction(description string, commands ...state.Command) *Transaction {
	if description == "" {
		description = "Transaction"
	}
	return &Transaction{
		description: description,
		commands:    append([]state.Command(nil), commands...),
	}
}

func (t *Transaction) Description() string { return t.description }

// Commands returns the grouped commands in execution order.
func (t *Transaction) Commands() []state.Command {
	return append([]state.Command(nil), t.commands...)
}

// Execute runs every command in order. When one fails, the commands that
// already ran are undone in reverse order and the failure is returned
// wrapped with TRANSACTION_FAILED. Errors raised while rolling back are
// dropped.
func (t *Transaction) Execute(ctx *state.Context) error {
	for i, cmd := range t.commands {
		if err := cmd.Execute(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = t.commands[j].Undo(ctx)
			}
			return errors.Wrap(errors.ErrCodeTransactionFailed, err,
				"%s: %s failed at step %d of %d", t.description, cmd.Description(), i+1, len(t.commands))
		}
	}
	return nil
}

// Undo undoes every command in reverse order, even when some of them fail,
// and returns the joined errors.
func (t *Transaction) Undo(ctx *state.Context) error {
	var errs []error
	for i := len(t.commands) - 1; i >= 0; i-- {
		if err := t.commands[i].Undo(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
