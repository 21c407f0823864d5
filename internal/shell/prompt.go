package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"sales-records/internal/domain/sale"

	"github.com/shopspring/decimal"
)

// errInput marks failures reading from the terminal, as opposed to bad answers.
var errInput = errors.New("input error")

type promptOptions struct {
	optional bool
	choices  []string
}

type PromptOption func(*promptOptions)

// Optional accepts an empty answer and returns the zero value for it.
func Optional() PromptOption {
	return func(o *promptOptions) { o.optional = true }
}

// Choices restricts answers to the given values, compared without case.
// The configured spelling is returned.
func Choices(choices ...string) PromptOption {
	return func(o *promptOptions) { o.choices = choices }
}

// Prompter asks questions on out and reads line answers from in, asking again
// until the answer is acceptable. At end of input every call returns io.EOF.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", fmt.Errorf("%w: %w", errInput, err)
	}
	return strings.TrimSpace(line), nil
}

func ask[T any](p *Prompter, label, typeName string, convert func(string) (T, error), opts []PromptOption) (T, error) {
	var o promptOptions
	for _, fn := range opts {
		fn(&o)
	}

	var zero T
	for {
		fmt.Fprint(p.out, label)
		answer, err := p.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(p.out)
			}
			return zero, err
		}

		if answer == "" {
			if o.optional {
				return zero, nil
			}
			fmt.Fprintln(p.out, "Input is required. Please try again.")
			continue
		}

		if len(o.choices) > 0 {
			i := slices.IndexFunc(o.choices, func(c string) bool { return strings.EqualFold(c, answer) })
			if i < 0 {
				fmt.Fprintf(p.out, "Invalid input. Please choose from: %s\n", strings.Join(o.choices, ", "))
				continue
			}
			answer = o.choices[i]
		}

		v, err := convert(answer)
		if err != nil {
			fmt.Fprintf(p.out, "Invalid input type. Please enter a valid %s.\n", typeName)
			continue
		}
		return v, nil
	}
}

func (p *Prompter) String(label string, opts ...PromptOption) (string, error) {
	return ask(p, label, "text", func(s string) (string, error) { return s, nil }, opts)
}

func (p *Prompter) Int(label string, opts ...PromptOption) (int64, error) {
	return ask(p, label, "whole number", func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	}, opts)
}

// Decimal accepts amounts like "49.99", "$1,250" or "£3".
func (p *Prompter) Decimal(label string, opts ...PromptOption) (decimal.Decimal, error) {
	return ask(p, label, "amount", sale.ParseValue, opts)
}

// Confirm asks a y/n question.
func (p *Prompter) Confirm(label string) (bool, error) {
	answer, err := p.String(label, Choices("y", "n"))
	if err != nil {
		return false, err
	}
	return answer == "y", nil
}
