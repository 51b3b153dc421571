package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dleads/stakeados.app-sub003/internal/browser"
	"github.com/dleads/stakeados.app-sub003/internal/dedupe"
)

type focusPane int

const (
	focusList focusPane = iota
	focusPreview
)

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeFilter
	modeHelp
	modeConfirm
)

// confirmation is a pending destructive action awaiting y/n.
type confirmation struct {
	prompt  string
	groupID string // empty for a bulk resolve
}

type App struct {
	ctx    context.Context
	sel    *dedupe.Selector
	log    *slog.Logger
	open   func(string) error
	groups []dedupe.Group
	cursor int
	focus  focusPane
	mode   mode

	width  int
	height int

	searchInput textinput.Model
	spinner     spinner.Model
	filterBar   filterBar

	inflight      int
	previewScroll int
	currentDate   string
	note          string
	confirm       confirmation
	err           error
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	// Context is the parent of every request the screen makes; Background when nil.
	Context  context.Context
	Selector *dedupe.Selector
	Logger   *slog.Logger
	// Open shows a URL to the operator; browser.Open when nil.
	Open func(string) error
}

func (o RunOpts) parent() context.Context {
	if o.Context != nil {
		return o.Context
	}
	return context.Background()
}

func NewApp(ctx context.Context, opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "Filter groups by title..."
	ti.Prompt = searchPromptStyle.Render("/ ")
	ti.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	open := opts.Open
	if open == nil {
		open = browser.Open
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &App{
		ctx:         ctx,
		sel:         opts.Selector,
		log:         logger.With("component", "tui"),
		open:        open,
		filterBar:   newFilterBar(opts.Selector.Filter()),
		searchInput: ti,
		spinner:     sp,
		currentDate: time.Now().Format("Jan 2"),
	}
}

func (a *App) Init() tea.Cmd {
	return a.startRefresh()
}

func (a *App) busy(cmd tea.Cmd) tea.Cmd {
	a.inflight++
	if a.inflight == 1 {
		return tea.Batch(cmd, a.spinner.Tick)
	}
	return cmd
}

func (a *App) done() {
	if a.inflight > 0 {
		a.inflight--
	}
}

func (a *App) startRefresh() tea.Cmd {
	sel, ctx := a.sel, a.ctx
	return a.busy(func() tea.Msg {
		return groupsLoadedMsg{err: sel.Refresh(ctx)}
	})
}

func (a *App) startResolve(groupID string) tea.Cmd {
	sel, ctx := a.sel, a.ctx
	return a.busy(func() tea.Msg {
		return resolvedMsg{groupID: groupID, err: sel.ResolveGroup(ctx, groupID)}
	})
}

func (a *App) startResolveSelected() tea.Cmd {
	sel, ctx := a.sel, a.ctx
	return a.busy(func() tea.Msg {
		return bulkResolvedMsg{outcomes: sel.ResolveSelected(ctx)}
	})
}

func (a *App) openCmd(url string) tea.Cmd {
	open := a.open
	return func() tea.Msg {
		if err := open(url); err != nil {
			return openErrMsg{err: err}
		}
		return nil
	}
}

// visible returns the fetched groups matching the title search.
func (a *App) visible() []dedupe.Group {
	q := strings.ToLower(strings.TrimSpace(a.searchInput.Value()))
	if q == "" {
		return a.groups
	}
	var out []dedupe.Group
	for _, g := range a.groups {
		if strings.Contains(strings.ToLower(g.Primary.Title), q) {
			out = append(out, g)
		}
	}
	return out
}

func (a *App) current() (dedupe.Group, bool) {
	vis := a.visible()
	if a.cursor < 0 || a.cursor >= len(vis) {
		return dedupe.Group{}, false
	}
	return vis[a.cursor], true
}

func (a *App) clampCursor() {
	n := len(a.visible())
	if a.cursor >= n {
		a.cursor = max(0, n-1)
	}
}

// syncGroups reloads the view-model from the selector.
func (a *App) syncGroups() {
	a.groups = a.sel.Groups()
	a.clampCursor()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		// Clear sticky error on any keypress
		a.err = nil
		a.sel.DismissError()
		return a.handleKey(msg)

	case groupsLoadedMsg:
		a.done()
		if msg.err != nil {
			a.err = msg.err
		}
		a.syncGroups()
		return a, nil

	case resolvedMsg:
		a.done()
		if msg.err != nil {
			a.err = msg.err
			a.note = ""
		} else {
			a.note = "resolved " + msg.groupID
		}
		a.syncGroups()
		return a, nil

	case bulkResolvedMsg:
		a.done()
		var failed []string
		for _, o := range msg.outcomes {
			if o.Err != nil {
				failed = append(failed, o.GroupID)
				if a.err == nil {
					a.err = o.Err
				}
			}
		}
		a.note = fmt.Sprintf("resolved %d of %d", len(msg.outcomes)-len(failed), len(msg.outcomes))
		if len(failed) > 0 {
			a.log.Warn("bulk resolve incomplete", "failed", failed)
		}
		a.syncGroups()
		return a, nil

	case openErrMsg:
		a.err = msg.err
		return a, nil

	case spinner.TickMsg:
		if a.inflight > 0 {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.mode {
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeFilter:
		return a.handleFilterKey(msg)
	case modeConfirm:
		return a.handleConfirmKey(msg)
	case modeHelp:
		if msg.String() == "?" || msg.String() == "esc" || msg.String() == "q" {
			a.mode = modeNormal
		}
		return a, nil
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "j", "down":
		if a.focus == focusList && a.cursor < len(a.visible())-1 {
			a.cursor++
			a.previewScroll = 0
		} else if a.focus == focusPreview {
			a.previewScroll++
		}
		return a, nil
	case "k", "up":
		if a.focus == focusList && a.cursor > 0 {
			a.cursor--
			a.previewScroll = 0
		} else if a.focus == focusPreview && a.previewScroll > 0 {
			a.previewScroll--
		}
		return a, nil
	case "tab":
		if a.focus == focusList {
			a.focus = focusPreview
		} else {
			a.focus = focusList
		}
		return a, nil
	case " ", "x":
		if g, ok := a.current(); ok {
			a.sel.Toggle(g.ID)
		}
		return a, nil
	case "c":
		a.sel.ClearSelection()
		return a, nil
	case "enter", "d":
		if g, ok := a.current(); ok {
			a.confirm = confirmation{
				groupID: g.ID,
				prompt:  fmt.Sprintf("Keep %q and delete %d duplicate(s)? y/n", truncateStr(g.Primary.Title, 40), len(g.Duplicates)),
			}
			a.mode = modeConfirm
		}
		return a, nil
	case "D":
		if n := len(a.sel.SelectedIDs()); n > 0 {
			a.confirm = confirmation{prompt: fmt.Sprintf("Resolve %d selected group(s)? y/n", n)}
			a.mode = modeConfirm
		}
		return a, nil
	case "o":
		if g, ok := a.current(); ok && g.Primary.URL != "" {
			return a, a.openCmd(g.Primary.URL)
		}
		return a, nil
	case "r":
		return a, a.startRefresh()
	case "/":
		a.mode = modeSearch
		a.searchInput.Focus()
		return a, textinput.Blink
	case "f":
		a.mode = modeFilter
		a.filterBar = newFilterBar(a.sel.Filter())
		a.filterBar.filterMode = true
		return a, nil
	case "?":
		a.mode = modeHelp
		return a, nil
	}

	return a, nil
}

func (a *App) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := a.confirm
	a.confirm = confirmation{}
	a.mode = modeNormal
	if msg.String() != "y" && msg.String() != "Y" {
		return a, nil
	}
	if c.groupID != "" {
		return a, a.startResolve(c.groupID)
	}
	return a, a.startResolveSelected()
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.searchInput.SetValue("")
		a.searchInput.Blur()
		a.clampCursor()
		return a, nil
	case "enter":
		a.mode = modeNormal
		a.searchInput.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	a.cursor = 0
	return a, cmd
}

func (a *App) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "f":
		a.mode = modeNormal
		a.filterBar.filterMode = false
		return a, nil
	case "tab", "right", "l":
		a.filterBar.next()
		return a, nil
	case "shift+tab", "left", "h":
		a.filterBar.prev()
		return a, nil
	case "+", "=", "up", "k", " ":
		a.filterBar.adjust(1)
		return a, nil
	case "-", "down", "j":
		a.filterBar.adjust(-1)
		return a, nil
	case "enter":
		a.mode = modeNormal
		a.filterBar.filterMode = false
		if err := a.sel.SetFilter(a.filterBar.draft); err != nil {
			a.err = err
			return a, nil
		}
		a.cursor = 0
		return a, a.startRefresh()
	}
	return a, nil
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  newsdesk")
	}

	if a.mode == modeHelp {
		return a.renderHelp()
	}

	headerHeight := 1
	filterHeight := 1
	statusHeight := 1
	contentHeight := max(a.height-headerHeight-filterHeight-statusHeight-4, 3) // borders

	listWidth := int(float64(a.width) * 0.4)
	previewWidth := a.width - listWidth - 1

	headerLeft := headerStyle.Render("newsdesk · duplicates")
	headerRight := headerDateStyle.Render(a.currentDate)
	headerGap := max(a.width-lipgloss.Width(headerLeft)-lipgloss.Width(headerRight), 0)
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	filter := a.filterBar.render(a.width)
	if a.mode != modeFilter {
		bar := newFilterBar(a.sel.Filter())
		filter = bar.render(a.width)
	}
	if a.mode == modeSearch || a.searchInput.Value() != "" {
		filter = a.searchInput.View()
	}

	vis := a.visible()
	innerListW := listWidth - 4
	listContent := renderList(vis, a.sel.IsSelected, a.cursor, contentHeight, innerListW)

	listStyle, previewStyle := listPaneStyle, previewPaneStyle
	if a.focus == focusList {
		listStyle = listPaneActiveStyle
	} else {
		previewStyle = previewPaneActiveStyle
	}
	listPane := listStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)

	var selected *dedupe.Group
	if g, ok := a.current(); ok {
		selected = &g
	}
	previewContent := renderPreview(selected, time.Now(), previewWidth-4, contentHeight, a.previewScroll)
	previewPane := previewStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)

	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)

	status := renderStatusBar(len(vis), len(a.groups), len(a.sel.SelectedIDs()), a.note, a.width, a.mode)
	if a.inflight > 0 {
		status = a.spinner.View() + " " + status
	}

	switch {
	case a.mode == modeConfirm:
		status = confirmStyle.Render(a.confirm.prompt)
	case a.err != nil:
		status = errorBannerStyle.Width(a.width).Render(truncateStr(a.err.Error(), a.width-2))
	case a.sel.Err() != nil:
		status = errorBannerStyle.Width(a.width).Render(truncateStr(a.sel.Err().Error(), a.width-2))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, filter, content, status)
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("newsdesk")
	dim := helpDimStyle

	help := title + dim.Render(" · duplicate review") + "\n\n" +
		dim.Render("Navigation") + "\n" +
		"  j/k, ↑/↓     Move through groups\n" +
		"  tab           Switch focus between list and preview\n" +
		"  /             Filter groups by title\n\n" +
		dim.Render("Selection") + "\n" +
		"  space, x      Select or deselect the group\n" +
		"  c             Clear the selection\n\n" +
		dim.Render("Actions") + "\n" +
		"  enter, d      Resolve the group (keep primary, delete duplicates)\n" +
		"  D             Resolve every selected group\n" +
		"  o             Open the primary article in the browser\n" +
		"  r             Refetch duplicate groups\n" +
		"  f             Edit detector filters\n\n" +
		dim.Render("General") + "\n" +
		"  any key       Dismiss an error\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c    Quit"

	card := helpCardStyle.Render(help)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

// Run starts the TUI. In-flight requests are cancelled when it exits.
func Run(opts RunOpts) error {
	ctx, cancel := context.WithCancel(opts.parent())
	defer cancel()

	app := NewApp(ctx, opts)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
