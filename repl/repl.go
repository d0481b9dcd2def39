// Package repl implements the Read-Eval-Print Loop for the Finch
// programming language.
//
// The REPL provides an interactive interface for users to enter Finch
// code, have it evaluated, and see the results immediately. It uses the
// Charm libraries (Bubbletea, Bubbles, and Lipgloss) to create a
// modern, user-friendly terminal interface with features like syntax
// highlighting and command history.
//
// Key features:
//   - Interactive command input and execution
//   - Command history tracking
//   - Styled output with different colors for results and errors
//   - A persistent Environment shared across commands, exactly like a
//     Finch program's interpreter.Interpreter
//
// The main entry point is the Start function, which initializes and
// runs the REPL with the given username.
package repl

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xbee/finch/host"
	"github.com/xbee/finch/interpreter"
	"github.com/xbee/finch/lexer"
	"github.com/xbee/finch/token"
)

const (
	// Prompt is the default prompt for the REPL.
	Prompt = ">> "

	// ContPrompt is the continuation prompt used in multiline input mode.
	ContPrompt = ".. "
)

// Options contains configuration options for the REPL.
type Options struct {
	NoColor bool // Disable syntax highlighting and colored output
	Debug   bool // Enable debug mode with more verbose output
}

// Start initializes and runs the REPL with the given username and
// options. It creates a new bubbletea program with an initial model and
// runs it. If an error occurs while running the program, it is printed
// to the console.
func Start(username string, options Options) {
	p := tea.NewProgram(initialModel(username, options))
	if _, err := p.Run(); err != nil {
		fmt.Println("Error running program:", err)
	}
}

// Styling
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87"))

	parseErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87")).
			Bold(true)

	runtimeErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF8700")).
				Bold(true)

	historyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676"))

	// Syntax highlighting styles
	keywordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF79C6")).
			Bold(true)

	identifierStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8F8F2"))

	literalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F1FA8C"))

	operatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555"))

	delimiterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#BD93F9"))

	stringStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#50FA7B"))
)

// ErrorType represents the type of error that occurred during one
// evaluation.
type ErrorType int

const (
	// NoError indicates that no error occurred.
	NoError ErrorType = iota
	// ParseError indicates an error during parsing.
	ParseError
	// RuntimeError indicates an error reported during execution.
	RuntimeError
)

// evalResultMsg is the async result of one evaluation.
type evalResultMsg struct {
	output    string
	isError   bool
	errorType ErrorType
	elapsed   time.Duration
}

// model represents the state of the application.
type model struct {
	textInput       textinput.Model
	history         []historyEntry
	in              *interpreter.Interpreter
	buf             *host.Buffer
	username        string
	evaluating      bool
	currentInput    string
	multilineBuffer string
	isMultiline     bool
	spinner         spinner.Model
	options         Options
}

func (m model) applyStyle(style lipgloss.Style, text string) string {
	if m.options.NoColor {
		return text
	}
	return style.Render(text)
}

// historyEntry represents a single entry in the REPL history.
type historyEntry struct {
	input          string
	output         string
	isError        bool
	errorType      ErrorType
	evaluationTime time.Duration
}

// initialModel creates a new model with default values.
func initialModel(username string, options Options) model {
	ti := textinput.New()
	ti.Placeholder = "Enter Finch code"
	ti.Focus()
	ti.Width = 80
	ti.Prompt = promptStyle.Render(Prompt)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6"))

	buf := &host.Buffer{}
	return model{
		textInput:    ti,
		history:      []historyEntry{},
		in:           interpreter.New(buf),
		buf:          buf,
		username:     username,
		evaluating:   false,
		multilineBuffer: "",
		isMultiline:  false,
		spinner:      s,
		options:      options,
	}
}

// Init is the first function that will be called.
func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// isBalanced checks if brackets and braces are balanced in the input.
func isBalanced(input string) bool {
	var stack []rune

	for _, char := range input {
		switch char {
		case '(', '{', '[':
			stack = append(stack, char)
		case ')':
			if len(stack) == 0 || stack[len(stack)-1] != '(' {
				return false
			}
			stack = stack[:len(stack)-1]
		case '}':
			if len(stack) == 0 || stack[len(stack)-1] != '{' {
				return false
			}
			stack = stack[:len(stack)-1]
		case ']':
			if len(stack) == 0 || stack[len(stack)-1] != '[' {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}

	return len(stack) == 0
}

// evalCmd is a command that evaluates Finch code asynchronously against
// the model's shared interpreter.
func evalCmd(input string, in *interpreter.Interpreter, buf *host.Buffer, debug bool) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		buf.Reset()

		result, err := in.Run(input)
		elapsed := time.Since(start)

		if debug {
			fmt.Printf("DEBUG: eval time: %v\n", elapsed)
		}

		var output string
		isError := false
		errorType := NoError

		switch {
		case err != nil:
			isError = true
			errorType = ParseError
			output = formatParseError(err.Error())
		case buf.Errors() != "":
			isError = true
			errorType = RuntimeError
			output = formatRuntimeError(buf.Errors())
		default:
			var b strings.Builder
			b.WriteString(buf.Written())
			if result != nil {
				b.WriteString(result.Display())
			} else {
				b.WriteString("nil")
			}
			output = b.String()
		}

		return evalResultMsg{output: output, isError: isError, errorType: errorType, elapsed: elapsed}
	}
}

// Update handles all the updates to our model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.evaluating {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case evalResultMsg:
		m.evaluating = false
		m.history = append(m.history, historyEntry{
			input:          m.currentInput,
			output:         msg.output,
			isError:        msg.isError,
			errorType:      msg.errorType,
			evaluationTime: msg.elapsed,
		})
		m.currentInput = ""
		return m, nil

	case tea.KeyMsg:
		if m.evaluating && msg.Type != tea.KeyCtrlC {
			return m, m.spinner.Tick
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyEnter:
			input := m.textInput.Value()
			if input == "" {
				if m.isMultiline {
					if m.multilineBuffer == "" {
						m.isMultiline = false
						return m, nil
					}
					m.evaluating = true
					m.currentInput = m.multilineBuffer
					m.textInput.SetValue("")
					m.isMultiline = false

					buffer := m.multilineBuffer
					m.multilineBuffer = ""
					return m, evalCmd(buffer, m.in, m.buf, m.options.Debug)
				}
				return m, nil
			}

			if m.isMultiline {
				m.multilineBuffer += "\n" + input
				m.textInput.SetValue("")

				if isBalanced(m.multilineBuffer) {
					m.evaluating = true
					m.currentInput = m.multilineBuffer
					m.isMultiline = false

					buffer := m.multilineBuffer
					m.multilineBuffer = ""
					return m, evalCmd(buffer, m.in, m.buf, m.options.Debug)
				}
				return m, nil
			}

			if !isBalanced(input) {
				m.isMultiline = true
				m.multilineBuffer = input
				m.textInput.SetValue("")
				return m, nil
			}

			m.evaluating = true
			m.currentInput = input
			m.textInput.SetValue("")
			return m, evalCmd(input, m.in, m.buf, m.options.Debug)
		}
	}

	if !m.evaluating {
		m.textInput, cmd = m.textInput.Update(msg)
	}
	if m.evaluating {
		return m, m.spinner.Tick
	}
	return m, cmd
}

// View renders the current UI.
func (m model) View() string {
	var s strings.Builder

	s.WriteString(m.applyStyle(titleStyle, " Finch Programming Language REPL "))
	s.WriteString("\n")

	if m.username != "" {
		s.WriteString(fmt.Sprintf("\nHello %s! Feel free to type in commands\n", m.username))
	}
	s.WriteString("\n")

	for _, entry := range m.history {
		lines := strings.Split(entry.input, "\n")
		for i, line := range lines {
			if i == 0 {
				s.WriteString(m.applyStyle(promptStyle, Prompt))
			} else {
				s.WriteString(m.applyStyle(promptStyle, ContPrompt))
			}
			s.WriteString(m.highlightCode(line))
			s.WriteString("\n")
		}

		if entry.isError {
			switch entry.errorType {
			case ParseError:
				s.WriteString(m.applyStyle(parseErrorStyle, entry.output))
			case RuntimeError:
				s.WriteString(m.applyStyle(runtimeErrorStyle, entry.output))
			default:
				s.WriteString(m.applyStyle(errorStyle, entry.output))
			}
		} else {
			s.WriteString(m.applyStyle(resultStyle, entry.output))
		}

		if entry.evaluationTime > 10*time.Millisecond {
			s.WriteString(m.applyStyle(historyStyle, fmt.Sprintf(" (%.2fs)", entry.evaluationTime.Seconds())))
		}

		s.WriteString("\n\n")
	}

	if m.evaluating {
		s.WriteString(m.applyStyle(promptStyle, Prompt))
		s.WriteString(m.highlightCode(m.currentInput))
		s.WriteString("\n")
		s.WriteString(m.spinner.View())
		s.WriteString(" Evaluating...")
		s.WriteString("\n\n")
	}

	if m.isMultiline && !m.evaluating {
		s.WriteString(m.applyStyle(historyStyle, "Current multiline input:\n"))
		s.WriteString(m.highlightCode(m.multilineBuffer))
		s.WriteString("\n")
	}

	if !m.evaluating {
		if m.isMultiline {
			m.textInput.Prompt = m.applyStyle(promptStyle, ContPrompt)
		} else {
			m.textInput.Prompt = m.applyStyle(promptStyle, Prompt)
		}
		s.WriteString(m.textInput.View())
		s.WriteString("\n")
	}

	helpText := "\nPress Esc or Ctrl+C/D to exit"
	if m.isMultiline {
		helpText += " | Multiline mode: Enter empty line to evaluate or continue typing"
	} else {
		helpText += " | Multiline input supported for unbalanced brackets"
	}
	s.WriteString(m.applyStyle(historyStyle, helpText))

	return s.String()
}

// formatParseError formats a parser error with a short hint.
func formatParseError(msg string) string {
	var s strings.Builder
	s.WriteString("Parse error: ")
	s.WriteString(msg)
	s.WriteString("\nTips:\n")
	s.WriteString("  • Check that statements are separated by '.'\n")
	s.WriteString("  • Verify keyword message parts end with ':'\n")
	return s.String()
}

// formatRuntimeError formats the host error messages collected during
// one evaluation.
func formatRuntimeError(messages string) string {
	var s strings.Builder
	s.WriteString("Runtime error:\n")
	for _, line := range strings.Split(strings.TrimRight(messages, "\n"), "\n") {
		s.WriteString("  " + line + "\n")
	}
	s.WriteString("Tips:\n")
	s.WriteString("  • Check that the message is understood by the receiver\n")
	s.WriteString("  • Verify argument counts match the selector's keyword parts\n")
	return s.String()
}

// highlightCode applies syntax highlighting to a line of Finch source.
func (m model) highlightCode(code string) string {
	l := lexer.New(code)
	var s strings.Builder

	isKeyword := func(t token.Token) bool {
		switch t.Type {
		case token.LET, token.GLOBAL, token.SELF, token.UNDEF:
			return true
		}
		return false
	}
	isOperator := func(t token.Token) bool {
		switch t.Type {
		case token.PLUS, token.MINUS, token.STAR, token.SLASH,
			token.LT, token.GT, token.LTE, token.GTE, token.EQ, token.NOT_EQ, token.DEFINE:
			return true
		}
		return false
	}
	isDelimiter := func(t token.Token) bool {
		switch t.Type {
		case token.DOT, token.COLON, token.COMMA, token.PIPE,
			token.LPAREN, token.RPAREN, token.LBRACKET, token.RBRACKET, token.LBRACE, token.RBRACE:
			return true
		}
		return false
	}

	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}

		switch {
		case isKeyword(tok):
			s.WriteString(m.applyStyle(keywordStyle, tok.Literal))
		case tok.Type == token.IDENT:
			s.WriteString(m.applyStyle(identifierStyle, tok.Literal))
		case tok.Type == token.NUMBER:
			s.WriteString(m.applyStyle(literalStyle, tok.Literal))
		case tok.Type == token.STRING:
			s.WriteString(m.applyStyle(stringStyle, "\""+tok.Literal+"\""))
		case isOperator(tok):
			s.WriteString(m.applyStyle(operatorStyle, tok.Literal))
		case isDelimiter(tok):
			s.WriteString(m.applyStyle(delimiterStyle, tok.Literal))
		default:
			s.WriteString(tok.Literal)
		}
		s.WriteString(" ")
	}

	return strings.TrimRight(s.String(), " ")
}
