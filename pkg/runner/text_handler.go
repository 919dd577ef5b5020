package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/embld/interviewflow/pkg/domain"
)

// lineReader reads one line of input at a time.
type lineReader interface {
	ReadLine() (string, error)
}

type bufioReader struct{ r *bufio.Reader }

func (b bufioReader) ReadLine() (string, error) {
	text, err := b.r.ReadString('\n')
	if text != "" && errors.Is(err, io.EOF) {
		return text, nil
	}
	return text, err
}

type readlineReader struct{ rl *readline.Instance }

func (r readlineReader) ReadLine() (string, error) {
	line, err := r.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", io.EOF
	}
	return line, err
}

// TextHandler implements the standard text-based interface.
// On a terminal it reads with line editing; otherwise it reads plain lines.
type TextHandler struct {
	Writer   io.Writer
	Renderer ContentRenderer

	reader    lineReader
	closer    io.Closer
	choices   []domain.Choice
	inputType domain.QuestionType

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// NewTextHandler creates a handler for standard text IO.
// Nil arguments default to stdin and stdout.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{Writer: w}
	for _, opt := range opts {
		opt(h)
	}

	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          "> ",
			Stdin:           f,
			Stdout:          w,
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err == nil {
			h.reader = readlineReader{rl: rl}
			h.closer = rl
			return h
		}
	}
	h.reader = bufioReader{r: bufio.NewReader(r)}
	return h
}

// Close releases the terminal, if one was taken over.
func (h *TextHandler) Close() error {
	if h.closer != nil {
		return h.closer.Close()
	}
	return nil
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honor cancellation.
func (h *TextHandler) pump() {
	defer close(h.inputChan)
	for {
		text, err := h.reader.ReadLine()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				h.inputChan <- inputResult{err: err}
			}
			return
		}
		h.inputChan <- inputResult{text: text}
	}
}

func (h *TextHandler) Output(_ context.Context, resp domain.Response) (bool, error) {
	p := &textPrinter{h: h}
	resp.Accept(p)
	return p.needsInput, p.err
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		if _, ok := h.reader.(bufioReader); ok {
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}

			clean, err := domain.SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return h.resolveChoice(clean), nil
		}
	}
}

// resolveChoice maps choice numbers ("2", or "1,3" for multi) to values.
func (h *TextHandler) resolveChoice(answer string) string {
	if len(h.choices) == 0 || answer == "" {
		return answer
	}
	parts := strings.Split(answer, ",")
	if h.inputType != domain.QuestionMulti && len(parts) > 1 {
		return answer
	}
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 1 || n > len(h.choices) {
			return answer
		}
		values = append(values, h.choices[n-1].Value)
	}
	return strings.Join(values, ", ")
}

func (h *TextHandler) SystemOutput(_ context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "\n[System] %s\n", msg)
	return err
}

// textPrinter renders each response variant for a terminal.
type textPrinter struct {
	h          *TextHandler
	needsInput bool
	err        error
}

func (p *textPrinter) VisitQuestion(q domain.QuestionResponse) {
	w := p.h.Writer
	p.needsInput = true
	p.h.choices = q.Choices
	p.h.inputType = q.InputType

	fmt.Fprintf(w, "\n[%d/%d] %s\n", q.Current, q.Total, q.Prompt)
	for i, c := range q.Choices {
		fmt.Fprintf(w, "  %d) %s\n", i+1, c.Label)
	}
	switch {
	case q.InputType == domain.QuestionYesNo:
		fmt.Fprintln(w, "  (yes / no / unknown)")
	case q.InputType == domain.QuestionMulti && len(q.Choices) > 0:
		fmt.Fprintln(w, "  (pick numbers separated by commas, or type your own)")
	case q.Placeholder != "":
		fmt.Fprintf(w, "  %s\n", q.Placeholder)
	}
}

func (p *textPrinter) VisitPlan(r domain.PlanResponse) {
	_, p.err = fmt.Fprintf(p.h.Writer, "» %s\n", r.Content)
}

func (p *textPrinter) VisitStreaming(r domain.StreamingResponse) {
	_, p.err = fmt.Fprint(p.h.Writer, r.Content)
	if p.err == nil && r.IsComplete {
		_, p.err = fmt.Fprintln(p.h.Writer)
	}
}

func (p *textPrinter) VisitMessage(r domain.MessageResponse) {
	w := p.h.Writer
	if r.Fallback {
		_, p.err = fmt.Fprintf(w, "\n[!] %s\n", r.Content)
		return
	}
	content := r.Content
	if r.Title != "" {
		content = "# " + r.Title + "\n\n" + content
	}
	if p.h.Renderer != nil {
		if rendered, err := p.h.Renderer(content); err == nil {
			content = rendered
		}
	}
	_, p.err = fmt.Fprintf(w, "\n%s\n", strings.TrimSpace(content))
}
