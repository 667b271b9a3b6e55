package commands

import "fmt"

type Result struct {
	Message string
}

// Handlers maps each command to its handler for the screen being served.
type Handlers map[Type]func(Command) (Result, error)

func Execute(cmd Command, handlers Handlers) (Result, error) {
	if cmd.Type == "" {
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: "command type is empty"}
	}
	h, ok := handlers[cmd.Type]
	if !ok || h == nil {
		return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", cmd.Type)}
	}
	return h(cmd)
}
