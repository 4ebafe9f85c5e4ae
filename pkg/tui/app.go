package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/tessera-io/tessera/pkg/config"
	"github.com/tessera-io/tessera/pkg/logger"
	"github.com/tessera-io/tessera/pkg/session"
	"github.com/tessera-io/tessera/pkg/toolsched"
	"github.com/tessera-io/tessera/pkg/transport"
)

const spinnerInterval = 120 * time.Millisecond

// App drives the interactive renderer: one screen, one session, one
// transport stream at a time.
type App struct {
	screen  tcell.Screen
	session *session.Session
	source  transport.Source

	view       session.View
	haveView   bool
	streamDone bool
	streamErr  error

	replyView *ReplyView
	cancel    context.CancelFunc
}

// StartApp runs the interactive renderer against the given packet source
// until the user quits.
func StartApp(source transport.Source) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer screen.Fini()

	settings := config.Get()
	width, _ := screen.Size()
	if settings.Display.Width > 0 && settings.Display.Width < width {
		width = settings.Display.Width
	}

	app := &App{
		screen:    screen,
		source:    source,
		replyView: NewReplyView(width, settings.Display.ShowDocuments),
	}
	app.session = session.New(
		toolsched.DefaultOptions(settings.Display.Animate),
		func(v session.View) { app.post(NewViewUpdateEvent(v)) },
	)
	defer app.session.Close()

	return app.run()
}

func (a *App) run() error {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	defer cancel()

	a.startStream(ctx)
	go a.spin(ctx)

	for {
		switch ev := a.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if a.handleKey(ev) {
				return nil
			}
		case *tcell.EventResize:
			width, _ := a.screen.Size()
			a.replyView.SetWidth(width)
			a.screen.Sync()
			a.draw()
		case *ViewUpdateEvent:
			a.view = ev.View
			a.haveView = true
			a.draw()
			a.maybeConfirmRender()
		case *StreamDoneEvent:
			a.streamDone = true
			a.draw()
			a.maybeConfirmRender()
		case *StreamErrorEvent:
			a.streamDone = true
			a.streamErr = ev.Error
			a.draw()
		case *SpinnerTickEvent:
			a.replyView.Tick()
			// timed stage transitions (searching -> searched) do not publish
			// a view of their own; pick them up here so each stage is visible
			// for its minimum duration
			if v, ok := a.session.Current(); ok {
				a.view = v
				a.haveView = true
			}
			a.draw()
			a.maybeConfirmRender()
		case nil:
			// screen finalized
			return nil
		}
	}
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch {
	case ev.Key() == tcell.KeyCtrlC, ev.Key() == tcell.KeyEscape:
		return true
	case ev.Rune() == 'q':
		return true
	case ev.Rune() == 'r':
		// restart the stream; the fresh message identity tears down all
		// pending tool timers
		a.cancel()
		ctx, cancel := context.WithCancel(context.Background())
		a.cancel = cancel
		a.streamDone = false
		a.streamErr = nil
		a.startStream(ctx)
	}
	return false
}

func (a *App) startStream(ctx context.Context) {
	go func() {
		err := a.source.Stream(ctx, a.session.HandleUpdate)
		if ev := streamOutcome(ctx, err); ev != nil {
			a.post(ev)
		}
	}()
}

// streamOutcome maps a finished stream to the event the UI should see. A
// stream torn down by its own context produces nothing: the retry that
// cancelled it already owns the status line.
func streamOutcome(ctx context.Context, err error) tcell.Event {
	if ctx.Err() != nil {
		return nil
	}
	if err != nil {
		logger.Error("stream failed: %v", err)
		return NewStreamErrorEvent(err)
	}
	return NewStreamDoneEvent()
}

func (a *App) spin(ctx context.Context) {
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.post(NewSpinnerTickEvent())
		}
	}
}

// maybeConfirmRender reports render completion for the current message once
// its stream has formally ended and everything available is on screen. The
// session decides whether the completion gate actually opens, and calling it
// again after a late update is harmless.
func (a *App) maybeConfirmRender() {
	if !a.haveView || !a.view.Snapshot.StopSeen {
		return
	}
	a.session.RenderComplete()
}

func (a *App) post(ev tcell.Event) {
	if err := a.screen.PostEvent(ev); err != nil {
		logger.Warn("dropped event: %v", err)
	}
}

func (a *App) draw() {
	a.screen.Clear()

	row := 0
	if a.haveView {
		for _, line := range a.replyView.Render(a.view) {
			a.drawLine(row, line)
			row++
		}
	}

	a.drawStatusBar()
	a.screen.Show()
}

func (a *App) drawLine(row int, line Line) {
	col := 0
	for _, span := range line.Spans {
		for _, r := range span.Text {
			a.screen.SetContent(col, row, r, nil, span.Style)
			col += runewidth.RuneWidth(r)
		}
	}
}

func (a *App) drawStatusBar() {
	_, height := a.screen.Size()
	text, style := a.statusLine()
	for i, r := range text {
		a.screen.SetContent(i, height-1, r, nil, style)
	}
}

func (a *App) statusLine() (string, tcell.Style) {
	switch {
	case a.streamErr != nil:
		return fmt.Sprintf("stream error: %v  (r to retry, q to quit)", a.streamErr), StyleErrorText
	case a.haveView && a.view.Snapshot.DisplayComplete:
		return "done  (r to rerun, q to quit)", StyleStatusReady
	case a.streamDone:
		return "stream ended  (r to rerun, q to quit)", StyleDimText
	default:
		return "streaming...  (q to quit)", StyleStatusBusy
	}
}
