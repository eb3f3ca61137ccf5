package input

import "strings"

// ParsedCommand is a single tokenized input line.
type ParsedCommand struct {
	Name string
	Args []string
}

// Tokenize splits line on runs of whitespace. The first token becomes the
// command name and the rest its arguments, in order. No quoting, escaping or
// substitution is applied.
//
// ok is false when the line holds no tokens at all.
func Tokenize(line string) (cmd ParsedCommand, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ParsedCommand{}, false
	}

	return ParsedCommand{
		Name: fields[0],
		Args: fields[1:],
	}, true
}

// Arg returns the i-th argument, or "" when there are fewer arguments.
func (c ParsedCommand) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}

// String joins the command back into a single space separated line.
func (c ParsedCommand) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}
