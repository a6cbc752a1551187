package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/sipeed/sobot/cmd/sobot/internal"
	"github.com/sipeed/sobot/pkg/channels"
	"github.com/sipeed/sobot/pkg/commands"
)

const prompt = internal.Logo + " so> "

type executor interface {
	Execute(ctx context.Context, query string, sink commands.Sink) error
}

type lineReader interface {
	Readline() (string, error)
}

func searchCmd(args []string, interactive bool, debug bool) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if !interactive && query == "" {
		return fmt.Errorf("a search query is required (or use --interactive)")
	}

	cfg, err := internal.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	internal.SetupLogging(cfg, debug)

	search, err := internal.NewSearchCommand(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sink := channels.NewTerminalSink(os.Stdout)

	if !interactive {
		return search.Execute(ctx, query, sink)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     filepath.Join(filepath.Dir(internal.GetConfigPath()), "search_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("error starting prompt: %w", err)
	}
	defer rl.Close()

	fmt.Printf("%s Interactive search (type 'exit' or press Ctrl+D to quit)\n\n", internal.Logo)
	return interactiveLoop(ctx, rl, search, sink, os.Stderr)
}

// interactiveLoop runs one search per non-empty line until EOF, "exit" or a
// cancelled context. Failed searches are reported to errOut and the loop
// continues.
func interactiveLoop(ctx context.Context, rl lineReader, search executor, sink commands.Sink, errOut io.Writer) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("error reading input: %w", err)
		}

		query := strings.TrimSpace(line)
		switch query {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		if err := search.Execute(ctx, query, sink); err != nil {
			fmt.Fprintf(errOut, "✗ Search failed: %v\n", err)
		}
		fmt.Println()
	}
}
