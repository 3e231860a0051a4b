// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of smarttable

package view

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/smarttable/smarttable/internal/config"
	"github.com/smarttable/smarttable/internal/logging"
	"github.com/smarttable/smarttable/internal/model"
	"github.com/smarttable/smarttable/internal/model1"
	"github.com/smarttable/smarttable/internal/render"
	"github.com/smarttable/smarttable/internal/ui"
)

const (
	// FlashDelay sets the flash auto-clear delay.
	FlashDelay = 5 * time.Second

	mainPage = "main"
	helpPage = "help"
)

// FlashLevel represents flash message severity.
type FlashLevel int

const (
	// FlashInfo represents an info message.
	FlashInfo FlashLevel = iota
	// FlashWarn represents a warning message.
	FlashWarn
	// FlashErr represents an error message.
	FlashErr
)

// Flash handles flash messages in the application.
type Flash struct {
	*tview.TextView
	app    *App
	cancel context.CancelFunc
	mx     sync.RWMutex
}

// NewFlash creates a new Flash instance.
func NewFlash(app *App) *Flash {
	f := &Flash{
		TextView: tview.NewTextView(),
		app:      app,
	}
	f.SetDynamicColors(true)
	f.SetTextAlign(tview.AlignLeft)
	f.SetBorderPadding(0, 0, 1, 1)
	return f
}

// Info displays an informational message.
func (f *Flash) Info(msg string) {
	f.setMessage(FlashInfo, msg)
}

// Infof displays a formatted informational message.
func (f *Flash) Infof(format string, args ...interface{}) {
	f.Info(fmt.Sprintf(format, args...))
}

// Warn displays a warning message.
func (f *Flash) Warn(msg string) {
	f.setMessage(FlashWarn, msg)
}

// Warnf displays a formatted warning message.
func (f *Flash) Warnf(format string, args ...interface{}) {
	f.Warn(fmt.Sprintf(format, args...))
}

// Err displays an error message.
func (f *Flash) Err(err error) {
	if err != nil {
		logging.For("flash").WithError(err).Debug("error flashed")
		f.setMessage(FlashErr, err.Error())
	}
}

// Errf displays a formatted error message.
func (f *Flash) Errf(format string, args ...interface{}) {
	f.setMessage(FlashErr, fmt.Sprintf(format, args...))
}

// Clear clears the flash message.
func (f *Flash) Clear() {
	f.mx.Lock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.mx.Unlock()

	f.queue(func() {
		f.TextView.Clear()
	})
}

func (f *Flash) queue(fn func()) {
	if f.app != nil && f.app.IsRunning() {
		f.app.QueueUpdateDraw(fn)
		return
	}
	fn()
}

func (f *Flash) setMessage(level FlashLevel, msg string) {
	f.mx.Lock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.mx.Unlock()

	if msg == "" {
		f.Clear()
		return
	}

	f.queue(func() {
		f.TextView.Clear()
		f.SetTextColor(flashColor(level))
		fmt.Fprintf(f.TextView, "%s %s", flashPrefix(level), tview.Escape(msg))
	})

	ctx, cancel := context.WithCancel(context.Background())
	f.mx.Lock()
	f.cancel = cancel
	f.mx.Unlock()

	go f.autoClear(ctx)
}

func (f *Flash) autoClear(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(FlashDelay):
		f.Clear()
	}
}

func flashColor(level FlashLevel) tcell.Color {
	switch level {
	case FlashWarn:
		return tcell.ColorYellow
	case FlashErr:
		return tcell.ColorRed
	default:
		return tcell.ColorGreen
	}
}

func flashPrefix(level FlashLevel) string {
	switch level {
	case FlashWarn:
		return "[WARN]"
	case FlashErr:
		return "[ERROR]"
	default:
		return "[INFO]"
	}
}

// App represents the main application container.
type App struct {
	*tview.Application

	Main    *tview.Pages
	Content *ui.Pages

	version string
	cfg     *config.Config
	model   *model.Table
	command *Command
	prompt  *ui.CmdIndicator
	menu    *ui.Menu
	crumbs  *ui.Crumbs
	pager   *tview.TextView
	flash   *Flash
	help    *Help
	running bool
	mx      sync.RWMutex
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Config, version string) *App {
	app := App{
		Application: tview.NewApplication(),
		version:     version,
		cfg:         cfg,
		Main:        tview.NewPages(),
		Content:     ui.NewPages(),
		prompt:      ui.NewCmdIndicator(),
		menu:        ui.NewMenu(),
		crumbs:      ui.NewCrumbs(),
		pager:       tview.NewTextView(),
		help:        NewHelp(),
	}
	app.flash = NewFlash(&app)
	app.pager.SetDynamicColors(true)
	app.pager.SetTextAlign(tview.AlignRight)
	app.pager.SetBorderPadding(0, 0, 1, 1)

	app.Content.Stack.AddListener(app.menu)
	app.Content.Stack.AddListener(app.crumbs)

	app.prompt.SetActiveFn(func(active bool) {
		if active {
			app.SetFocus(app.prompt)
			return
		}
		if c := app.Content.Current(); c != nil {
			app.SetFocus(c)
		}
	})
	app.prompt.SetExecuteFn(app.execute)

	return &app
}

// Init builds the layout and pushes the table view over m.
func (a *App) Init(m *model.Table) error {
	a.model = m
	a.command = NewCommand(a, m)
	if err := a.command.Init(); err != nil {
		return fmt.Errorf("failed to initialize command: %w", err)
	}

	a.Main.AddPage(mainPage, a.buildLayout(), true, true)
	a.SetRoot(a.Main, true)
	a.Application.SetInputCapture(a.keyboard)

	return a.Push(NewTable(a, m))
}

// Run starts the application.
func (a *App) Run() error {
	a.mx.Lock()
	a.running = true
	a.mx.Unlock()

	logging.For("app").WithField("version", a.version).Info("starting ui")
	return a.Application.Run()
}

// Stop stops the application and its refresh loop.
func (a *App) Stop() {
	a.mx.Lock()
	a.running = false
	a.mx.Unlock()

	if a.model != nil {
		a.model.Stop()
	}
	a.Application.Stop()
}

// IsRunning returns whether the application is currently running.
func (a *App) IsRunning() bool {
	a.mx.RLock()
	defer a.mx.RUnlock()

	return a.running
}

// Flash returns the flash message handler.
func (a *App) Flash() *Flash {
	return a.flash
}

// QueueUpdateDraw queues a function to be executed on the UI thread.
func (a *App) QueueUpdateDraw(fn func()) {
	go a.Application.QueueUpdateDraw(fn)
}

// Push initializes a component and shows it on top of the content stack.
func (a *App) Push(c ui.Component) error {
	if err := c.Init(context.Background()); err != nil {
		return err
	}
	a.Content.Push(c)
	a.SetFocus(c)
	c.Start()
	logging.For("app").WithField("stack", a.Content.Names()).Debug("View pushed")

	return nil
}

// SetPager updates the footer page buttons.
func (a *App) SetPager(p model1.Pager, maxSize int) {
	a.pager.SetText(PagerText(p, maxSize))
}

// PagerText renders the page buttons of a pager, current page highlighted.
func PagerText(p model1.Pager, maxSize int) string {
	if p.NumberOfPages <= 1 {
		return ""
	}

	var b strings.Builder
	for _, n := range p.Window(maxSize) {
		if n == p.CurrentPage {
			fmt.Fprintf(&b, "[black:aqua:b] %d [-:-:-]", n)
			continue
		}
		fmt.Fprintf(&b, " %d ", n)
	}
	fmt.Fprintf(&b, " [gray::]%s[-::]", render.PageLabel(p.CurrentPage, p.NumberOfPages))

	return b.String()
}

func (a *App) execute(cmd string) {
	go func() {
		if err := a.command.Run(context.Background(), cmd); err != nil {
			a.flash.Errf("Command error: %v", err)
		}
	}()
}

func (a *App) buildLayout() *tview.Flex {
	footer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(a.prompt, 0, 1, false).
		AddItem(a.pager, 0, 1, false)

	return tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.Content, 0, 1, true).
		AddItem(footer, 1, 0, false).
		AddItem(a.flash, 1, 0, false).
		AddItem(a.menu, 3, 0, false)
}

// keyboard handles global keyboard events.
func (a *App) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	if name, _ := a.Main.GetFrontPage(); name != mainPage {
		return evt
	}
	if a.prompt.IsActive() {
		return a.prompt.HandleKey(evt)
	}
	if s, ok := a.Content.Current().(interface{ IsSearching() bool }); ok && s.IsSearching() {
		return evt
	}

	if evt.Key() == tcell.KeyRune {
		switch evt.Rune() {
		case ':':
			a.prompt.Activate()
			return nil
		case '?':
			a.showHelp()
			return nil
		case 'q':
			if a.Content.IsLast() {
				a.Stop()
				return nil
			}
		}
	}
	if evt.Key() == tcell.KeyCtrlC {
		a.Stop()
		return nil
	}

	return evt
}

func (a *App) showHelp() {
	a.QueueUpdateDraw(func() {
		a.help.SetCloseFn(func() {
			a.Main.RemovePage(helpPage)
			if c := a.Content.Current(); c != nil {
				a.SetFocus(c)
			}
		})
		a.Main.AddPage(helpPage, a.help, true, true)
		a.SetFocus(a.help)
	})
}
