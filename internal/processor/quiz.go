package processor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"codeberg.org/snonux/polyglot/internal/session"
)

const quizHelp = `Keys:
  Enter, n     next word
  l            listen
  p            pronunciation
  t <text>     translate text
  r            fetch new words
  ?            this help
  q            quit`

// Quiz steps through the vocabulary of the named language interactively
func (p *Processor) Quiz(ctx context.Context, name string) error {
	lang, err := targetLanguage(name)
	if err != nil {
		return err
	}

	s, err := p.newSession(ctx, lang, true)
	if err != nil {
		return err
	}
	defer s.Close()

	fetch := func() error {
		fmt.Fprintf(p.out, "Fetching basic %s words...\n", lang.Label)
		result, err := s.SelectLanguage(ctx, lang)
		if err != nil {
			return err
		}
		if !result.OK() {
			fmt.Fprintf(p.out, "%s (%s)\n", result.Failure.Marker(), result.Failure.Reason)
			return nil
		}
		p.printWord(s.State())
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}
	fmt.Fprintln(p.out, "Press ? for help.")

	scanner := bufio.NewScanner(p.in)
	for {
		fmt.Fprint(p.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(p.out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		command, arg, _ := strings.Cut(line, " ")

		switch command {
		case "", "n":
			if s.Next() {
				p.printWord(s.State())
			} else {
				fmt.Fprintln(p.out, "No more words. r fetches new ones, q quits.")
			}

		case "l":
			if err := s.SpeakCurrent(); err != nil {
				p.printQuizError(err)
			}

		case "p":
			word, ok := s.State().CurrentWord()
			if !ok {
				fmt.Fprintln(p.out, "No word to pronounce.")
				continue
			}
			pronunciation, err := p.pronunciation(ctx, word, lang)
			if err != nil {
				p.printQuizError(err)
				continue
			}
			fmt.Fprintf(p.out, "  %s\n", pronunciation)

		case "t":
			translated, err := translate(ctx, s, arg)
			if err != nil {
				p.printQuizError(err)
				continue
			}
			fmt.Fprintf(p.out, "  %s: %s\n", lang.Label, translated)

		case "r":
			if err := fetch(); err != nil {
				return err
			}

		case "?", "h":
			fmt.Fprintln(p.out, quizHelp)

		case "q":
			return nil

		default:
			fmt.Fprintf(p.out, "Unknown key %q, press ? for help.\n", command)
		}
	}
}

// printWord prints the current word with its position
func (p *Processor) printWord(state session.State) {
	word, ok := state.CurrentWord()
	if !ok {
		fmt.Fprintln(p.out, "No words received")
		return
	}
	fmt.Fprintf(p.out, "[%d/%d] %s\n", state.Index+1, len(state.Words), word)
}

func (p *Processor) printQuizError(err error) {
	switch {
	case errors.Is(err, session.ErrUnsupported):
		fmt.Fprintln(p.out, "Speech is not available, see --speech.")
	case errors.Is(err, session.ErrEmptyInput):
		fmt.Fprintln(p.out, "Nothing to do, the input is empty.")
	default:
		fmt.Fprintf(p.out, "Error: %v\n", err)
	}
}
