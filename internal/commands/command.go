package commands

import (
	"fmt"
	"slices"
	"strings"
)

// Screen is one menu of the planner. Each screen accepts its own commands.
type Screen string

const (
	ScreenHome      Screen = "home"
	ScreenCalendar  Screen = "cal"
	ScreenToday     Screen = "today"
	ScreenTasks     Screen = "tasks"
	ScreenNotes     Screen = "notes"
	ScreenHabits    Screen = "habits"
	ScreenStudents  Screen = "students"
	ScreenDeadlines Screen = "deadlines"
)

type Type string

const (
	// navigation
	TypeCalendar  Type = "cal"
	TypeToday     Type = "today"
	TypeTasks     Type = "tasks"
	TypeNotes     Type = "notes"
	TypeHabits    Type = "habits"
	TypeStudents  Type = "students"
	TypeDeadlines Type = "deadlines"
	TypeNext      Type = "next"
	TypePrev      Type = "prev"
	TypeBack      Type = "back"
	TypeExit      Type = "exit"
	TypeHelp      Type = "help"

	TypeAdd        Type = "add"
	TypeModify     Type = "modify"
	TypeRemove     Type = "remove"
	TypeList       Type = "list"
	TypeGrid       Type = "grid"
	TypeExport     Type = "export"
	TypeDone       Type = "done"
	TypeDelete     Type = "delete"
	TypeSchedule   Type = "schedule"
	TypeUnschedule Type = "unschedule"
	TypeFree       Type = "free"
	TypeView       Type = "view"
	TypeFolder     Type = "folder"
	TypeInfo       Type = "info"
	TypeAttendance Type = "attendance"
	TypeReceipts   Type = "receipts"
)

var screenCommands = map[Screen][]Type{
	ScreenHome:      {TypeCalendar, TypeToday, TypeTasks, TypeNotes, TypeHabits, TypeStudents, TypeDeadlines, TypeNext, TypePrev, TypeExit},
	ScreenCalendar:  {TypeAdd, TypeModify, TypeRemove, TypeList, TypeGrid, TypeExport, TypeNext, TypePrev, TypeBack},
	ScreenToday:     {TypeBack},
	ScreenTasks:     {TypeAdd, TypeModify, TypeDone, TypeDelete, TypeSchedule, TypeUnschedule, TypeFree, TypeBack},
	ScreenNotes:     {TypeAdd, TypeModify, TypeView, TypeFolder, TypeBack},
	ScreenHabits:    {TypeAdd, TypeDelete, TypeDone, TypeInfo, TypeBack},
	ScreenStudents:  {TypeAdd, TypeDelete, TypeAttendance, TypeReceipts, TypeBack},
	ScreenDeadlines: {TypeAdd, TypeDelete, TypeBack},
}

var aliases = map[string]Type{
	"calendar": TypeCalendar,
	"quit":     TypeExit,
	"q":        TypeExit,
	"b":        TypeBack,
	"rm":       TypeRemove,
	"?":        TypeHelp,
}

func (s Screen) IsValid() bool {
	_, ok := screenCommands[s]
	return ok
}

// Available lists the commands accepted on s, in menu order. Help is accepted
// everywhere and not listed.
func Available(s Screen) []Type {
	return slices.Clone(screenCommands[s])
}

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Command is a parsed menu line. Arg carries whatever followed the verb, e.g.
// the display index in "done 2"; commands that need more input prompt for it.
type Command struct {
	Type   Type
	Screen Screen
	Raw    string
	Arg    string
}

func Parse(screen Screen, input string) (Command, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if !screen.IsValid() {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown screen: %s", screen)}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	typ := Type(head)
	if alias, ok := aliases[head]; ok {
		typ = alias
	}
	arg := strings.TrimSpace(strings.TrimPrefix(raw, parts[0]))

	if typ == TypeHelp {
		return Command{Type: TypeHelp, Screen: screen, Raw: input}, nil
	}
	if !slices.Contains(screenCommands[screen], typ) {
		return Command{}, &CommandError{
			Code:    ErrCodeUnknownCommand,
			Message: fmt.Sprintf("unsupported command on %s: %s (try: %s)", screen, head, strings.Join(names(screenCommands[screen]), ", ")),
		}
	}
	return Command{Type: typ, Screen: screen, Raw: input, Arg: arg}, nil
}

func names(types []Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}
