// Package ui provides the terminal UI for rsvp playback.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/fsnotify/fsnotify"
	"github.com/muesli/reflow/truncate"
	te "github.com/muesli/termenv"

	"github.com/rogerjs93/rsvp/reader"
	"github.com/rogerjs93/rsvp/reader/loader"
)

const (
	statusMessageTimeout = time.Second * 2
	ellipsis             = "…"

	minWPM  = 50
	maxWPM  = 1500
	wpmStep = 25
)

// ReloadFunc rebuilds the document loader after the source file changed.
type ReloadFunc func() (*loader.Loader, error)

// NewProgram returns a new Tea program driving the given scheduler and
// loader. reload may be nil when the source cannot be re-read.
func NewProgram(cfg Config, sched *reader.Scheduler, ldr *loader.Loader, reload ReloadFunc) *tea.Program {
	log.Debug("starting rsvp ui", "wpm", cfg.WPM, "profile", cfg.Profile, "path", cfg.Path)

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	m := newModel(cfg, sched, ldr, reload)
	return tea.NewProgram(m, opts...)
}

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

type (
	pageLoadedMsg           loader.PageLoadedEvent
	pageFailedMsg           loader.PageFailedEvent
	loadCompleteMsg         struct{}
	loaderClosedMsg         struct{}
	fileChangedMsg          struct{}
	statusMessageTimeoutMsg struct{}
)

type reloadedMsg struct {
	ldr *loader.Loader
	err error
}

type model struct {
	cfg    Config
	keys   keyMap
	help   help.Model
	meter  progress.Model
	width  int
	height int

	sched  *reader.Scheduler
	ldr    *loader.Loader
	reload ReloadFunc

	frame     reader.Frame
	haveFrame bool
	state     reader.StateType

	wpm     int
	profile string
	loop    bool

	loadedPages  int
	totalPages   int
	loadComplete bool

	statusMessage string
	showHelp      bool
	finished      bool

	watcher  *fsnotify.Watcher
	fatalErr error
}

func newModel(cfg Config, sched *reader.Scheduler, ldr *loader.Loader, reload ReloadFunc) model {
	m := model{
		cfg:        cfg,
		keys:       defaultKeyMap(),
		help:       help.New(),
		meter:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		sched:      sched,
		ldr:        ldr,
		reload:     reload,
		state:      reader.StatePaused,
		wpm:        cfg.WPM,
		profile:    cfg.Profile,
		loop:       cfg.Loop,
		totalPages: ldr.TotalPages(),
	}

	if cfg.WatchFile && cfg.Path != "" && reload != nil {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			log.Warn("file watching unavailable", "error", err)
		} else if err := w.Add(cfg.Path); err != nil {
			log.Warn("unable to watch file", "file", cfg.Path, "error", err)
			w.Close() //nolint:errcheck
		} else {
			m.watcher = w
		}
	}

	return m
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		reader.WaitForEvent(m.sched.Events()),
		waitForLoaderEvent(m.ldr.Events()),
	}
	if m.watcher != nil {
		cmds = append(cmds, watchFile(m.watcher))
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Any key exits after a fatal error.
	if m.fatalErr != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Quit
		}
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		w := msg.Width - 8
		if m.cfg.MaxWidth > 0 && w > int(m.cfg.MaxWidth) {
			w = int(m.cfg.MaxWidth)
		}
		if w < 10 {
			w = 10
		}
		m.meter.Width = w

	case reader.AdvancedMsg:
		m.frame = msg.Frame
		m.haveFrame = true
		m.finished = false
		cmds = append(cmds, reader.WaitForEvent(m.sched.Events()))

	case reader.StateChangedMsg:
		m.state = msg.To
		cmds = append(cmds, reader.WaitForEvent(m.sched.Events()))

	case reader.StarvedMsg:
		cmds = append(cmds, reader.WaitForEvent(m.sched.Events()))

	case reader.FinishedMsg:
		m.finished = true
		cmds = append(cmds, reader.WaitForEvent(m.sched.Events()))

	case reader.PlaybackErrorMsg:
		log.Warn("playback error", "error", msg.Err)
		cmds = append(cmds,
			m.setStatus(msg.Err.Error()),
			reader.WaitForEvent(m.sched.Events()),
		)

	case reader.EventsClosedMsg:
		// Scheduler shut down, nothing more to receive.

	case pageLoadedMsg:
		m.loadedPages = m.ldr.LoadedPages()
		cmds = append(cmds, waitForLoaderEvent(m.ldr.Events()))

	case pageFailedMsg:
		log.Warn("page failed", "page", msg.Ordinal, "error", msg.Err)
		m.loadedPages = m.ldr.LoadedPages()
		cmds = append(cmds,
			m.setStatus(fmt.Sprintf("page %d unavailable", msg.Ordinal)),
			waitForLoaderEvent(m.ldr.Events()),
		)

	case loadCompleteMsg:
		m.loadComplete = true
		m.loadedPages = m.ldr.LoadedPages()
		cmds = append(cmds, waitForLoaderEvent(m.ldr.Events()))

	case loaderClosedMsg:
		// Loader event stream ended.

	case fileChangedMsg:
		cmds = append(cmds, m.setStatus("reloading"+ellipsis))
		cmds = append(cmds, reloadDocument(m.reload))
		cmds = append(cmds, watchFile(m.watcher))

	case reloadedMsg:
		if msg.err != nil {
			log.Error("reload failed", "error", msg.err)
			cmds = append(cmds, m.setStatus("reload failed: "+msg.err.Error()))
			break
		}
		old := m.ldr
		m.ldr = msg.ldr
		m.loadedPages = m.ldr.LoadedPages()
		m.totalPages = m.ldr.TotalPages()
		m.loadComplete = false
		m.finished = false
		if err := m.sched.AttachSequence(m.ldr); err != nil {
			m.fatalErr = err
			break
		}
		m.ldr.StartBackgroundLoading()
		old.Close()
		cmds = append(cmds,
			m.setStatus("document reloaded"),
			waitForLoaderEvent(m.ldr.Events()),
		)

	case statusMessageTimeoutMsg:
		m.statusMessage = ""

	case errMsg:
		m.fatalErr = msg.err
	}

	return m, tea.Batch(cmds...)
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.PlayPause):
		var err error
		if m.state == reader.StatePaused {
			err = m.sched.Play()
		} else {
			err = m.sched.Pause()
		}
		if err != nil {
			return m, m.setStatus(err.Error())
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if m.haveFrame {
			m.sched.Seek(m.frame.Index - 1) //nolint:errcheck
		}
		return m, nil

	case key.Matches(msg, m.keys.Forward):
		if m.haveFrame {
			m.sched.Seek(m.frame.Index + 1) //nolint:errcheck
		}
		return m, nil

	case key.Matches(msg, m.keys.Home):
		m.sched.Seek(0) //nolint:errcheck
		return m, nil

	case key.Matches(msg, m.keys.Faster):
		return m.changeRate(wpmStep)

	case key.Matches(msg, m.keys.Slower):
		return m.changeRate(-wpmStep)

	case key.Matches(msg, m.keys.Loop):
		m.loop = !m.loop
		if err := m.sched.SetLoop(m.loop); err != nil {
			return m, m.setStatus(err.Error())
		}
		if m.loop {
			return m, m.setStatus("loop on")
		}
		return m, m.setStatus("loop off")

	case key.Matches(msg, m.keys.Profile):
		names := reader.ProfileNames()
		next := names[0]
		for i, n := range names {
			if n == m.profile {
				next = names[(i+1)%len(names)]
				break
			}
		}
		if err := m.sched.SetProfile(next); err != nil {
			return m, m.setStatus(err.Error())
		}
		m.profile = next
		return m, m.setStatus("profile: " + next)

	case key.Matches(msg, m.keys.Copy):
		if !m.haveFrame {
			return m, nil
		}
		word := m.frame.Token.Text
		if err := clipboard.WriteAll(word); err != nil {
			te.Copy(word)
		}
		return m, m.setStatus("copied " + strings.TrimSpace(word))

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil
	}

	return m, nil
}

func (m model) changeRate(delta int) (tea.Model, tea.Cmd) {
	wpm := m.wpm + delta
	if wpm < minWPM {
		wpm = minWPM
	}
	if wpm > maxWPM {
		wpm = maxWPM
	}
	if wpm == m.wpm {
		return m, nil
	}
	if err := m.sched.SetRate(wpm); err != nil {
		return m, m.setStatus(err.Error())
	}
	m.wpm = wpm
	return m, m.setStatus(fmt.Sprintf("%d wpm", wpm))
}

func (m *model) shutdown() {
	if m.watcher != nil {
		m.watcher.Close() //nolint:errcheck
	}
	m.sched.Close()
	m.ldr.Close()
}

// setStatus shows a transient message in the status bar and returns the
// command that clears it.
func (m *model) setStatus(s string) tea.Cmd {
	m.statusMessage = s
	return tea.Tick(statusMessageTimeout, func(time.Time) tea.Msg {
		return statusMessageTimeoutMsg{}
	})
}

func (m model) View() string {
	if m.fatalErr != nil {
		return errorView(m.fatalErr)
	}
	if m.width == 0 {
		return ""
	}

	w := m.width
	if m.cfg.MaxWidth > 0 && w > int(m.cfg.MaxWidth) {
		w = int(m.cfg.MaxWidth)
	}

	var b strings.Builder

	title := m.cfg.DocumentName
	if title == "" {
		title = "(stdin)"
	}
	b.WriteString("  " + titleStyle.Render(truncate.StringWithTail(title, uint(w-4), ellipsis)))
	b.WriteString("\n")

	// Vertically center the word display.
	bodyLines := 5
	footerLines := 4
	if m.showHelp {
		footerLines += 3
	}
	padTop := (m.height - bodyLines - footerLines) / 2
	for i := 0; i < padTop; i++ {
		b.WriteString("\n")
	}

	b.WriteString(renderGuide(w) + "\n\n")
	if m.haveFrame {
		b.WriteString(renderWord(m.frame.Token, w))
	}
	b.WriteString("\n\n")
	b.WriteString(renderGuideBottom(w) + "\n")

	for i := 0; i < padTop; i++ {
		b.WriteString("\n")
	}

	b.WriteString("  " + m.progressView() + "\n")
	b.WriteString("  " + m.statusView(w) + "\n")
	b.WriteString("  " + m.help.View(m.keys))

	return b.String()
}

func (m model) progressView() string {
	total := m.frame.TotalEstimate
	if total <= 0 {
		total = 1
	}
	pct := float64(m.frame.Index+1) / float64(total)
	if pct > 1 {
		pct = 1
	}
	if !m.haveFrame {
		pct = 0
	}
	return m.meter.ViewAs(pct)
}

func (m model) statusView(width int) string {
	var state string
	switch {
	case m.finished:
		state = statusPausedStyle.Render("■ done")
	case m.state == reader.StatePlaying:
		state = statusPlayingStyle.Render("▶ playing")
	case m.state == reader.StateStarved:
		state = statusStarvedStyle.Render("⟳ buffering" + ellipsis)
	default:
		state = statusPausedStyle.Render("⏸ paused")
	}

	parts := []string{state}

	if m.haveFrame {
		pos := fmt.Sprintf("%s of ~%s words",
			humanize.Comma(int64(m.frame.Index+1)),
			humanize.Comma(int64(m.frame.TotalEstimate)))
		if m.loadComplete {
			pos = fmt.Sprintf("%s of %s words",
				humanize.Comma(int64(m.frame.Index+1)),
				humanize.Comma(int64(m.frame.Length)))
		}
		parts = append(parts, pos)
	}

	parts = append(parts, fmt.Sprintf("%d wpm", m.wpm), m.profile)
	if m.loop {
		parts = append(parts, "loop")
	}
	if !m.loadComplete && m.totalPages > 1 {
		parts = append(parts, fmt.Sprintf("%d/%d pages", m.loadedPages, m.totalPages))
	}

	line := strings.Join(parts, subtleStyle.Render(" • "))
	if m.statusMessage != "" {
		line += "  " + statusMessageStyle.Render(m.statusMessage)
	}
	return truncate.StringWithTail(line, uint(width-4), ellipsis)
}

func errorView(err error) string {
	s := fmt.Sprintf("%s\n\n%v\n\n%s",
		errorTitleStyle.Render("ERROR"),
		err,
		subtleStyle.Render("press any key to exit"),
	)
	return "\n" + indent(s, 3)
}

// COMMANDS

func waitForLoaderEvent(events <-chan loader.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return loaderClosedMsg{}
		}
		switch ev := ev.(type) {
		case loader.PageLoadedEvent:
			return pageLoadedMsg(ev)
		case loader.PageFailedEvent:
			return pageFailedMsg(ev)
		case loader.CompleteEvent:
			return loadCompleteMsg{}
		default:
			return nil
		}
	}
}

func watchFile(w *fsnotify.Watcher) tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return nil
				}
				if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) {
					return fileChangedMsg{}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return nil
				}
				log.Warn("file watch error", "error", err)
			}
		}
	}
}

func reloadDocument(reload ReloadFunc) tea.Cmd {
	return func() tea.Msg {
		ldr, err := reload()
		return reloadedMsg{ldr: ldr, err: err}
	}
}

// ETC

// Lightweight version of reflow's indent function.
func indent(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	l := strings.Split(s, "\n")
	b := strings.Builder{}
	i := strings.Repeat(" ", n)
	for _, v := range l {
		fmt.Fprintf(&b, "%s%s\n", i, v)
	}
	return b.String()
}
