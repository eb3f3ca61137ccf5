package render

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/rshell-dev/rshell/internal/repl/config"
	"github.com/rshell-dev/rshell/internal/repl/session"
)

const promptName = "rshell"

// PromptRenderer renders "rshell @ <user>:<dir>> " before each read.
type PromptRenderer struct {
	writer  io.Writer
	session *session.Session
	config  config.PromptConfig
	styles  PromptStyles
	logger  *zap.Logger
}

// NewPromptRenderer creates a PromptRenderer writing to w.
func NewPromptRenderer(w io.Writer, s *session.Session, cfg config.PromptConfig, logger *zap.Logger) *PromptRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PromptRenderer{
		writer:  w,
		session: s,
		config:  cfg,
		styles:  NewPromptStyles(w, cfg.Color),
		logger:  logger,
	}
}

// Prompt builds the prompt string. It fails when the home directory is
// unknown, when the working directory is gone, or, under the strict identity
// policy, when the user is unknown.
func (p *PromptRenderer) Prompt() (string, error) {
	user, err := p.user()
	if err != nil {
		return "", err
	}

	home, err := p.session.Home()
	if err != nil {
		return "", err
	}

	wd, err := p.session.Getwd()
	if err != nil {
		return "", err
	}

	dir := session.Abbreviate(wd, home)
	if dir == wd {
		if resolved, err := filepath.EvalSymlinks(home); err == nil {
			dir = session.Abbreviate(wd, resolved)
		}
	}

	return p.styles.Frame.Render(promptName+" @ ") +
		p.styles.User.Render(user) +
		p.styles.Frame.Render(":") +
		p.styles.Dir.Render(dir) +
		p.styles.Frame.Render(">") + " ", nil
}

func (p *PromptRenderer) user() (string, error) {
	user, err := p.session.User()
	if err == nil {
		return user, nil
	}

	var envErr *session.EnvError
	if p.config.Identity == config.IdentityDegrade && errors.As(err, &envErr) {
		return p.config.PlaceholderUser, nil
	}
	return "", err
}

// Render writes the prompt without a trailing newline and flushes the writer
// if it buffers. Nothing is written when the prompt cannot be built.
func (p *PromptRenderer) Render() error {
	prompt, err := p.Prompt()
	if err != nil {
		p.logger.Debug("prompt render failed", zap.Error(err))
		return err
	}

	if _, err := io.WriteString(p.writer, prompt); err != nil {
		return fmt.Errorf("failed to write prompt: %w", err)
	}

	if f, ok := p.writer.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("failed to flush prompt: %w", err)
		}
	}

	return nil
}
