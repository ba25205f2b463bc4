package blockterm

// Command holds the command line captured for a block: the raw text as
// it appeared on screen plus a quote-aware token split.
type Command struct {
	// Raw is the command text exactly as captured.
	Raw string `json:"raw"`
	// Tokens is the shell-style token split of Raw.
	Tokens []string `json:"tokens"`
	// WorkingDir is the working directory reported by the shell
	// (OSC 7) at the time the command was captured, if any.
	WorkingDir string `json:"working_dir,omitempty"`
}

// NewCommand tokenizes raw and returns the resulting command.
func NewCommand(raw string) Command {
	return Command{
		Raw:    raw,
		Tokens: tokenizeCommand(raw),
	}
}

// Program returns the first token (the executable name), or empty
// string for an empty command.
func (c Command) Program() string {
	if len(c.Tokens) == 0 {
		return ""
	}
	return c.Tokens[0]
}

// Args returns the tokens after the program name.
func (c Command) Args() []string {
	if len(c.Tokens) <= 1 {
		return nil
	}
	return c.Tokens[1:]
}

// Empty returns true if no command text was captured.
func (c Command) Empty() bool {
	return len(c.Tokens) == 0
}

// String returns the raw command text. Implements fmt.Stringer.
func (c Command) String() string {
	return c.Raw
}

// tokenizeCommand splits a command line into tokens. Backslash escapes
// the next character. Single and double quotes group tokens; inside
// quotes the other quote character is literal. Unterminated quotes
// consume the rest of the input.
func tokenizeCommand(input string) []string {
	var tokens []string
	var current []rune

	inQuotes := false
	quoteChar := ' '
	escapeNext := false

	for _, r := range input {
		if escapeNext {
			current = append(current, r)
			escapeNext = false
			continue
		}

		switch r {
		case '\\':
			escapeNext = true
		case '"', '\'':
			if inQuotes {
				if r == quoteChar {
					inQuotes = false
				} else {
					current = append(current, r)
				}
			} else {
				inQuotes = true
				quoteChar = r
			}
		case ' ', '\t':
			if inQuotes {
				current = append(current, r)
			} else if len(current) > 0 {
				tokens = append(tokens, string(current))
				current = nil
			}
		default:
			current = append(current, r)
		}
	}

	if len(current) > 0 {
		tokens = append(tokens, string(current))
	}

	return tokens
}
