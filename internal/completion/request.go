package completion

import (
	"strings"

	"github.com/atinylittleshell/diskcomplete/internal/environment"
	"mvdan.cc/sh/v3/expand"
)

// Request is one completion request: the words after the command name and
// the 1-based index of the word being completed.
type Request struct {
	Words []string
	Index int
}

// NewRequest builds a Request from the shell's space-joined COMP_WORDS and
// COMP_CWORD. Empty words collapse, so a trailing blank slot shows up as an
// Index past the last word.
func NewRequest(compWords string, cword int) Request {
	words := strings.Fields(compWords)
	if len(words) > 0 {
		words = words[1:]
	}
	return Request{
		Words: words,
		Index: cword,
	}
}

// RequestFromEnv reads COMP_WORDS and COMP_CWORD from env.
func RequestFromEnv(env expand.Environ) (Request, error) {
	cword, err := environment.GetCompCword(env)
	if err != nil {
		return Request{}, err
	}
	return NewRequest(environment.GetCompWords(env), cword), nil
}

// Current returns the partial word being completed, or "" for a fresh slot.
func (r Request) Current() string {
	if r.Index >= 1 && r.Index <= len(r.Words) {
		return r.Words[r.Index-1]
	}
	return ""
}

// Result is what the resolver decided. A halted result means no completion
// applies at all and nothing should be printed, which differs from an empty
// candidate list that still prints an empty line.
type Result struct {
	candidates []string
	halted     bool
}

// NoCompletions tells the caller to print nothing.
func NoCompletions() Result {
	return Result{halted: true}
}

// Candidates wraps an ordered candidate list.
func Candidates(list []string) Result {
	if list == nil {
		list = []string{}
	}
	return Result{candidates: list}
}

// Halted reports whether nothing at all should be printed.
func (r Result) Halted() bool {
	return r.halted
}

// List returns the candidates in output order.
func (r Result) List() []string {
	return r.candidates
}

// String is the line printed for the shell.
func (r Result) String() string {
	return strings.Join(r.candidates, " ")
}
