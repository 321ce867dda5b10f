package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"autoinclude/internal/driver"
	"autoinclude/internal/ui"
)

type fixOutcome struct {
	results []driver.FileResult
	err     error
}

// runFixWithUI runs driver.FixFiles while a progress view is drawn on
// stderr. Quitting the view cancels the remaining files.
func runFixWithUI(ctx context.Context, title string, files []string, opts driver.Options) ([]driver.FileResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan fixOutcome, 1)

	go func() {
		runOpts := opts
		runOpts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.FixFiles(ctx, files, runOpts)
		outcomeCh <- fixOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	final, uiErr := program.Run()
	if uiErr != nil || ui.Interrupted(final) {
		cancel()
	}
	// воркеры не должны блокироваться на отправке в закрытую модель
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
