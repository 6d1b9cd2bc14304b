package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"marvin/internal/config"
)

// runChat starts the interactive REPL session.
func runChat(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := setupApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	// Config edits take effect mid-session.
	watcher, err := config.NewWatcher(a.cfg.Workspace(), func(cfg *config.Config) {
		a.cfg = cfg
	})
	if err == nil {
		if err := watcher.Start(ctx); err == nil {
			defer watcher.Stop()
		}
	}

	fmt.Printf("%s ready. Type a message, or \"exit\" to quit.\n", a.cfg.Name)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		if line == "/reset" {
			a.agent.Reset()
			fmt.Println("Conversation cleared.")
			continue
		}

		result, err := a.agent.Turn(ctx, line)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Println(result.Display())
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	fmt.Println("Bye.")
	return nil
}
