// ABOUTME: Interactive terminal input for questionnaires
// ABOUTME: Wraps readline so prompts get line editing and Ctrl+C aborts cleanly
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// ErrAborted is returned when the user interrupts input or closes stdin
var ErrAborted = errors.New("input aborted")

// Console asks questions on a terminal
type Console struct {
	rl  *readline.Instance
	out io.Writer
}

// Options overrides the terminal streams; zero values mean the process stdio
type Options struct {
	Stdin  io.ReadCloser
	Stdout io.Writer
	Prompt string
}

// New opens a console
func New(opts Options) (*Console, error) {
	prompt := opts.Prompt
	if prompt == "" {
		prompt = "> "
	}
	cfg := &readline.Config{
		Prompt:          prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "",
		Stdin:           opts.Stdin,
		Stdout:          opts.Stdout,
	}
	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening terminal: %w", err)
	}
	return &Console{rl: rl, out: rl.Stdout()}, nil
}

// Ask prints prompt on its own line and reads one reply
func (c *Console) Ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := fmt.Fprintln(c.out, prompt); err != nil {
		return "", err
	}

	line, err := c.rl.Readline()
	switch {
	case errors.Is(err, readline.ErrInterrupt), errors.Is(err, io.EOF):
		return "", ErrAborted
	case err != nil:
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Println writes a line above the prompt
func (c *Console) Println(s string) {
	_, _ = fmt.Fprintln(c.out, s)
}

// Close releases the terminal
func (c *Console) Close() error {
	return c.rl.Close()
}
