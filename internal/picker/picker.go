// Package picker is the terminal front end: a numbered category list, the
// current joke label and a "get a new joke" action.
package picker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/aryannaik/joke-teller/internal/jokeapi"
	"github.com/aryannaik/joke-teller/internal/teller"
)

// Teller is the part of teller.Teller the picker drives.
type Teller interface {
	Select(category jokeapi.Category) error
	Selected() jokeapi.Category
	Text() string
	Tell(ctx context.Context) <-chan teller.Result
}

type Picker struct {
	teller Teller

	mu  sync.Mutex
	out io.Writer
}

func New(t Teller, out io.Writer) *Picker {
	return &Picker{teller: t, out: out}
}

// ShowJoke prints a new label text. It is meant to be passed to
// teller.WithOnDisplay.
func (p *Picker) ShowJoke(text string) {
	p.printf("\n%s\n\n", text)
}

// Run reads commands from in until quit, EOF or ctx is done. Jokes are
// requested without waiting; labels arrive through ShowJoke.
func (p *Picker) Run(ctx context.Context, in io.Reader) error {
	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-readCtx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	p.draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return nil
		case line := <-lines:
			if quit := p.handle(ctx, line); quit {
				return nil
			}
		}
	}
}

func (p *Picker) handle(ctx context.Context, line string) bool {
	cmd := strings.ToLower(strings.TrimSpace(line))
	switch cmd {
	case "", "j", "joke":
		p.printf("Fetching a %s joke...\n", p.teller.Selected())
		p.teller.Tell(ctx)
		return false
	case "q", "quit", "exit":
		return true
	case "l", "list":
		p.draw()
		return false
	}

	category, ok := parseChoice(cmd)
	if !ok {
		p.printf("Unknown choice %q. Pick 1-%d or a category name, Enter for a joke, q to quit.\n", line, len(jokeapi.Categories()))
		return false
	}
	if err := p.teller.Select(category); err != nil {
		p.printf("%v\n", err)
		return false
	}
	p.printf("Selected %s\n", category)
	return false
}

func parseChoice(cmd string) (jokeapi.Category, bool) {
	categories := jokeapi.Categories()
	if n, err := strconv.Atoi(cmd); err == nil {
		if n < 1 || n > len(categories) {
			return "", false
		}
		return categories[n-1], true
	}
	category, err := jokeapi.ParseCategory(cmd)
	if err != nil {
		return "", false
	}
	return category, true
}

func (p *Picker) draw() {
	var b strings.Builder
	selected := p.teller.Selected()

	b.WriteString("Categories:\n")
	for i, category := range jokeapi.Categories() {
		mark := " "
		if category == selected {
			mark = "*"
		}
		fmt.Fprintf(&b, "  (%s) %d. %s\n", mark, i+1, category)
	}
	if text := p.teller.Text(); text != "" {
		fmt.Fprintf(&b, "\n%s\n", text)
	}
	b.WriteString("\n[1-7 or name] select  [Enter] Get a new Joke  [l] list  [q] quit\n")

	p.printf("%s", b.String())
}

func (p *Picker) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.out, format, args...)
}
