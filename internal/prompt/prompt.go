// Package prompt asks for run settings on a line-oriented terminal.
//
// Every question shows its default in brackets. An empty answer or end of
// input keeps the default; an answer that does not parse is rejected and
// the question is asked again.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/born-ml/mlp/internal/config"
)

// Prompter reads answers from in and writes questions to out.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// New creates a Prompter.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// ask writes the question and returns the trimmed answer. ok is false at
// end of input.
func (p *Prompter) ask(question, def string) (answer string, ok bool, err error) {
	fmt.Fprintf(p.out, "%s [%s]: ", question, def)
	if !p.in.Scan() {
		fmt.Fprintln(p.out)
		return "", false, p.in.Err()
	}
	return strings.TrimSpace(p.in.Text()), true, nil
}

// Int asks for a positive integer.
func (p *Prompter) Int(question string, def int) (int, error) {
	for {
		answer, ok, err := p.ask(question, strconv.Itoa(def))
		if err != nil {
			return def, err
		}
		if !ok || answer == "" {
			return def, nil
		}
		v, err := strconv.Atoi(answer)
		if err != nil || v <= 0 {
			fmt.Fprintf(p.out, "invalid answer %q: want a positive integer\n", answer)
			continue
		}
		return v, nil
	}
}

// Sizes asks for a list of positive integers separated by spaces or commas,
// or NoSizes for an empty list.
func (p *Prompter) Sizes(question string, def []int) ([]int, error) {
	for {
		answer, ok, err := p.ask(question, FormatSizes(def))
		if err != nil {
			return def, err
		}
		if !ok || answer == "" {
			return def, nil
		}
		sizes, err := ParseSizes(answer)
		if err != nil {
			fmt.Fprintf(p.out, "invalid answer %q: %v\n", answer, err)
			continue
		}
		return sizes, nil
	}
}

// Configure asks for the number of epochs, the examples per epoch and the
// hidden layer sizes, updating cfg in place.
func (p *Prompter) Configure(cfg *config.Config) error {
	epochs, err := p.Int("epochs", cfg.Epochs)
	if err != nil {
		return err
	}
	examples, err := p.Int("examples per epoch", cfg.Examples)
	if err != nil {
		return err
	}
	hidden, err := p.Sizes("hidden layer sizes (none for no hidden layer)", cfg.Hidden)
	if err != nil {
		return err
	}
	cfg.Epochs = epochs
	cfg.Examples = examples
	cfg.Hidden = hidden
	return nil
}

// NoSizes is the answer for an empty size list.
const NoSizes = "none"

// ParseSizes parses positive integers separated by spaces or commas.
// NoSizes or "-" yields an empty, non-nil list.
func ParseSizes(s string) ([]int, error) {
	if t := strings.TrimSpace(s); t == NoSizes || t == "-" {
		return []int{}, nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("no sizes given")
	}
	sizes := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("size %q is not an integer", f)
		}
		if v <= 0 {
			return nil, fmt.Errorf("size %d must be positive", v)
		}
		sizes = append(sizes, v)
	}
	return sizes, nil
}

// FormatSizes renders sizes the way ParseSizes reads them.
func FormatSizes(sizes []int) string {
	if len(sizes) == 0 {
		return NoSizes
	}
	parts := make([]string, len(sizes))
	for i, s := range sizes {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, " ")
}
