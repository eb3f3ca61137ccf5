// Package builtin classifies command names and dispatches them either to a
// built-in handled inside the shell or to an external process.
package builtin

// Kind is the closed set of things a command name can mean.
type Kind int

const (
	// KindNone is an empty command name; nothing happens.
	KindNone Kind = iota
	// KindExit ends the REPL.
	KindExit
	// KindChangeDir is the cd built-in.
	KindChangeDir
	// KindHome is a bare "~", shorthand for cd ~.
	KindHome
	// KindParent is a bare "..", shorthand for cd ..
	KindParent
	// KindExternal is any other name, run as a separate process.
	KindExternal
)

var builtins = map[string]Kind{
	"":     KindNone,
	"exit": KindExit,
	"cd":   KindChangeDir,
	"~":    KindHome,
	"..":   KindParent,
}

// Classify maps a command name to its Kind. Names that are not built-ins
// are external.
func Classify(name string) Kind {
	if kind, ok := builtins[name]; ok {
		return kind
	}
	return KindExternal
}

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindExit:
		return "exit"
	case KindChangeDir:
		return "cd"
	case KindHome:
		return "home"
	case KindParent:
		return "parent"
	case KindExternal:
		return "external"
	default:
		return "unknown"
	}
}
