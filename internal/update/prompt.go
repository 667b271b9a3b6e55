package update

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/planner/internal/commands"
)

type question struct {
	Label string
	// Default replaces an empty answer.
	Default string
}

func (q question) String() string {
	if q.Default == "" {
		return q.Label + ":"
	}
	return fmt.Sprintf("%s [%s]:", q.Label, q.Default)
}

// submitFunc receives one answer per question and returns the status text.
type submitFunc func(m *Model, answers []string) (string, error)

// promptState is a running question sequence. Each enter answers the current
// question; the last answer submits.
type promptState struct {
	questions []question
	answers   []string
	submit    submitFunc
}

func (p promptState) active() bool {
	return len(p.questions) > 0 && p.submit != nil
}

func (p promptState) current() question {
	return p.questions[len(p.answers)]
}

// ask opens a prompt, or submits right away when there is nothing to ask.
func (m *Model) ask(questions []question, submit submitFunc) (commands.Result, error) {
	if len(questions) == 0 {
		msg, err := submit(m, nil)
		return commands.Result{Message: msg}, err
	}
	m.prompt = promptState{questions: questions, submit: submit}
	return commands.Result{}, nil
}

// answer records one line of input and runs the submit step after the last
// question.
func (m *Model) answer(raw string) {
	q := m.prompt.current()
	v := strings.TrimSpace(raw)
	if v == "" {
		v = q.Default
	}
	m.prompt.answers = append(m.prompt.answers, v)
	if len(m.prompt.answers) < len(m.prompt.questions) {
		return
	}
	p := m.prompt
	m.prompt = promptState{}
	msg, err := p.submit(m, p.answers)
	m.report(msg, err)
}

func (m *Model) cancelPrompt() {
	m.prompt = promptState{}
	m.Status = StatusBar{Text: "cancelled"}
}

// indexed runs fn on the display index taken from the command argument, or
// asked for first when the command came without one.
func (m *Model) indexed(cmd commands.Command, label string, rest []question, fn func(m *Model, index int, answers []string) (string, error)) (commands.Result, error) {
	if cmd.Arg != "" {
		index, err := parseIndex(cmd.Arg)
		if err != nil {
			return commands.Result{}, err
		}
		return m.ask(rest, func(m *Model, answers []string) (string, error) {
			return fn(m, index, answers)
		})
	}
	questions := append([]question{{Label: label}}, rest...)
	return m.ask(questions, func(m *Model, answers []string) (string, error) {
		index, err := parseIndex(answers[0])
		if err != nil {
			return "", err
		}
		return fn(m, index, answers[1:])
	})
}

func parseIndex(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("not a valid ID: %q", raw)}
	}
	return n, nil
}

func parseMinutes(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("minutes must be a positive number: %q", raw)}
	}
	return n, nil
}

func isYes(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
