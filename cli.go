package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	catalogx "github.com/tanpawarit/Chative-Parts-Finder/agent/catalog"
	"github.com/tanpawarit/Chative-Parts-Finder/agent/console"
	contractx "github.com/tanpawarit/Chative-Parts-Finder/agent/contract"
	intentx "github.com/tanpawarit/Chative-Parts-Finder/agent/intent"
	"github.com/tanpawarit/Chative-Parts-Finder/agent/orchestrator"
	promptx "github.com/tanpawarit/Chative-Parts-Finder/agent/prompt"
	statex "github.com/tanpawarit/Chative-Parts-Finder/agent/state"
)

// Dependencies holds everything a command needs.
type Dependencies struct {
	Ctx         context.Context
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
	Catalog     *catalogx.Catalog
	Replies     *promptx.ReplySet
	SessionTTL  time.Duration
	Interactive bool
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Env string `help:"Path to an env file with PARTSBOT_* and LOG_* settings." type:"path"`

	Chat   ChatCmd   `cmd:"" default:"withargs" help:"Start an interactive chat session (default)"`
	Lookup LookupCmd `cmd:"" help:"Look up one part by model number and description"`
	Models ModelsCmd `cmd:"" help:"List the loaded models"`
}

// ChatCmd is the "chat" subcommand.
type ChatCmd struct{}

// LookupCmd is the "lookup" subcommand.
type LookupCmd struct {
	Model       string   `arg:"" help:"Model number, matched exactly"`
	Description []string `arg:"" help:"Part description, matched ignoring case"`
}

// ModelsCmd is the "models" subcommand.
type ModelsCmd struct{}

// Run executes the chat command.
func (c *ChatCmd) Run(deps *Dependencies) error {
	dispatcher, err := intentx.NewDispatcher(deps.Catalog, deps.Replies)
	if err != nil {
		return err
	}

	store := statex.NewMemoryStore(statex.WithTTL(deps.SessionTTL))
	orch, err := orchestrator.New(store, dispatcher)
	if err != nil {
		return err
	}

	sessionID := uuid.New().String()
	defer func() {
		if err := orch.EndSession(context.Background(), sessionID); err != nil {
			log.Warn().Err(err).Str("session_id", sessionID).Msg("end session")
		}
	}()

	con, err := console.New(orch, sessionID,
		console.WithBanner(deps.Replies.Banner),
		console.WithPrompt(deps.Interactive),
	)
	if err != nil {
		return err
	}

	log.Debug().Str("session_id", sessionID).Msg("chat session started")
	if err := con.Run(deps.Ctx, deps.Stdin, deps.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Run executes the lookup command.
func (c *LookupCmd) Run(deps *Dependencies) error {
	description := strings.Join(c.Description, " ")
	part, err := deps.Catalog.FindPart(c.Model, description)
	if err != nil {
		if !errors.Is(err, contractx.ErrPartNotFound) {
			log.Error().
				Err(err).
				Str("model_number", c.Model).
				Str("description", description).
				Msg("error retrieving part info")
		}
		fmt.Fprintln(deps.Stdout, deps.Replies.PartNotFound)
		return nil
	}

	reply, err := deps.Replies.PartDetails(part)
	if err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout, reply)
	return nil
}

// Run executes the models command.
func (c *ModelsCmd) Run(deps *Dependencies) error {
	models := deps.Catalog.Models
	if models.Len() == 0 {
		fmt.Fprintln(deps.Stdout, "No models loaded.")
		return nil
	}

	columns := models.Columns()
	models.Each(func(_ int, row catalogx.Row) bool {
		fields := make([]string, 0, len(columns))
		for _, col := range columns {
			v, err := row.String(col)
			if err != nil {
				continue
			}
			fields = append(fields, col+"="+v)
		}
		fmt.Fprintln(deps.Stdout, strings.Join(fields, "  "))
		return true
	})
	return nil
}
