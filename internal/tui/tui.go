package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"

	"github.com/duynhne/newsroom-service/internal/core/domain"
	"github.com/duynhne/newsroom-service/internal/feed"
)

type View int

const (
	ViewArticleList View = iota
	ViewArticleDetail
	ViewHelp
)

// ArticleSource is what the reader needs beyond paging: bodies and categories.
type ArticleSource interface {
	FetchArticle(ctx context.Context, id int64) (*domain.Article, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}

type Model struct {
	ctx     context.Context
	cursor  *feed.Cursor
	trigger *feed.Trigger
	source  ArticleSource
	logger  zerolog.Logger

	view       View
	list       list.Model
	ticker     []domain.Article
	categories []domain.Category
	catIdx     int // -1 means all categories
	width      int
	height     int
	status     string
	detail     string
}

type pageMsg struct {
	ticket feed.Ticket
	items  []domain.Article
	err    error
}

type tickerMsg struct {
	items []domain.Article
}

type categoriesMsg struct {
	categories []domain.Category
}

type detailMsg struct {
	content string
	err     error
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	tickerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("124")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// articleStyle is the glamour style used for article bodies.
var articleStyle = "dark"

// New builds the reader model. The first page is requested by Init.
func New(ctx context.Context, cursor *feed.Cursor, source ArticleSource, logger zerolog.Logger) Model {
	delegate := list.NewDefaultDelegate()
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Newsroom"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return Model{
		ctx:     ctx,
		cursor:  cursor,
		trigger: feed.NewTrigger(cursor),
		source:  source,
		logger:  logger,
		view:    ViewArticleList,
		list:    l,
		catIdx:  -1,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{loadCategories(m.ctx, m.source)}
	if t, ok := m.cursor.Begin(); ok {
		cmds = append(cmds, m.fetchPage(t))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, m.maybeAdvance()

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case pageMsg:
		return m.handlePage(msg)

	case tickerMsg:
		m.ticker = msg.items
		return m, nil

	case categoriesMsg:
		m.categories = msg.categories
		return m, nil

	case detailMsg:
		if msg.err != nil {
			m.status = errorStyle.Render("Could not load article")
			m.logger.Warn().Err(msg.err).Msg("Article load failed")
			return m, nil
		}
		m.detail = msg.content
		m.view = ViewArticleDetail
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handlePage(msg pageMsg) (tea.Model, tea.Cmd) {
	if !m.cursor.Complete(msg.ticket, msg.items, msg.err) {
		m.logger.Debug().Int("offset", msg.ticket.Request.Offset).Msg("Discarded stale page")
		return m, nil
	}
	if msg.err != nil {
		// Degrade silently; the next scroll to the bottom retries.
		m.logger.Warn().Err(msg.err).Int("offset", msg.ticket.Request.Offset).Msg("Page fetch failed")
		return m, nil
	}

	st := m.cursor.State()
	items := make([]list.Item, len(st.Items))
	for i, a := range st.Items {
		items[i] = articleItem{a}
	}
	setCmd := m.list.SetItems(items)
	if msg.ticket.Request.Offset == 0 {
		m.list.ResetSelected()
	}

	if st.HasMore {
		m.status = fmt.Sprintf("%d articles", len(st.Items))
	} else {
		m.status = fmt.Sprintf("%d articles, end of feed", len(st.Items))
	}
	return m, tea.Batch(setCmd, m.maybeAdvance())
}

// maybeAdvance asks the trigger whether the sentinel is on screen and, if
// so, issues the next page request.
func (m Model) maybeAdvance() tea.Cmd {
	if m.view != ViewArticleList || !m.trigger.Check(listViewport{&m.list}) {
		return nil
	}
	t, ok := m.cursor.Begin()
	if !ok {
		return nil
	}
	return m.fetchPage(t)
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.view {
	case ViewArticleList:
		return m.handleListKeys(msg)
	case ViewArticleDetail:
		return m.handleDetailKeys(msg)
	case ViewHelp:
		return m.handleHelpKeys(msg)
	}
	return m, nil
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "enter":
		if i, ok := m.list.SelectedItem().(articleItem); ok {
			return m, loadDetail(m.ctx, m.source, i.article.ID, m.width)
		}

	case "r":
		m.status = "Refreshing..."
		return m, m.fetchPage(m.cursor.Reset(m.category()))

	case "c":
		if len(m.categories) == 0 {
			return m, nil
		}
		m.catIdx++
		if m.catIdx >= len(m.categories) {
			m.catIdx = -1
		}
		m.list.Title = "Newsroom" + m.categoryLabel()
		m.status = "Loading" + m.categoryLabel() + "..."
		return m, m.fetchPage(m.cursor.Reset(m.category()))

	case "?":
		m.view = ViewHelp
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, tea.Batch(cmd, m.maybeAdvance())
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.view = ViewArticleList
		m.detail = ""
		return m, nil
	case "?":
		m.view = ViewHelp
		return m, nil
	}
	return m, nil
}

func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "?", "q":
		if m.detail != "" {
			m.view = ViewArticleDetail
		} else {
			m.view = ViewArticleList
		}
	}
	return m, nil
}

func (m Model) category() *int64 {
	if m.catIdx < 0 || m.catIdx >= len(m.categories) {
		return nil
	}
	id := m.categories[m.catIdx].ID
	return &id
}

func (m Model) categoryLabel() string {
	if m.catIdx < 0 || m.catIdx >= len(m.categories) {
		return ""
	}
	return " / " + m.categories[m.catIdx].Name
}

func (m Model) View() string {
	switch m.view {
	case ViewArticleDetail:
		return m.renderDetail()
	case ViewHelp:
		return m.renderHelp()
	}
	return m.renderList()
}

func (m Model) renderTicker() string {
	if len(m.ticker) == 0 {
		return ""
	}
	titles := make([]string, len(m.ticker))
	for i, a := range m.ticker {
		titles[i] = a.Title
	}
	line := "BREAKING: " + strings.Join(titles, "  •  ")
	if m.width > 4 {
		line = ansi.Truncate(line, m.width-2, "...")
	}
	return tickerStyle.Render(line)
}

func (m Model) renderList() string {
	var s strings.Builder

	s.WriteString(m.renderTicker())
	s.WriteString("\n")
	s.WriteString(m.list.View())
	s.WriteString("\n")
	if m.status != "" {
		s.WriteString(statusStyle.Render(m.status))
	}
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("enter: read • r: refresh • c: category • /: filter • ?: help • q: quit"))

	return s.String()
}

func (m Model) renderDetail() string {
	var s strings.Builder
	s.WriteString(m.renderTicker())
	s.WriteString("\n")
	s.WriteString(m.detail)
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back • ?: help • q: quit"))
	return s.String()
}

func (m Model) renderHelp() string {
	help := `
Newsroom Reader - Keyboard Shortcuts

Article List:
  ↑/↓, j/k     Navigate articles (more load as you reach the end)
  enter        Read article
  r            Refresh from the top
  c            Cycle category
  /            Filter loaded articles
  q, ctrl+c    Quit

Article Detail:
  esc          Back to list
  q, ctrl+c    Quit
`
	return help + "\n" + helpStyle.Render("Press ? or esc to close help")
}

func (m Model) fetchPage(t feed.Ticket) tea.Cmd {
	ctx, cursor := m.ctx, m.cursor
	return func() tea.Msg {
		items, err := cursor.Fetch(ctx, t)
		return pageMsg{ticket: t, items: items, err: err}
	}
}

func loadCategories(ctx context.Context, source ArticleSource) tea.Cmd {
	return func() tea.Msg {
		cats, err := source.Categories(ctx)
		if err != nil {
			return categoriesMsg{}
		}
		return categoriesMsg{categories: cats}
	}
}

func loadDetail(ctx context.Context, source ArticleSource, id int64, width int) tea.Cmd {
	return func() tea.Msg {
		a, err := source.FetchArticle(ctx, id)
		if err != nil {
			return detailMsg{err: err}
		}
		content, err := renderArticle(a, width)
		return detailMsg{content: content, err: err}
	}
}

// renderArticle converts the stored HTML body to markdown and renders it
// for the terminal.
func renderArticle(a *domain.Article, width int) (string, error) {
	if a == nil {
		return "", errors.New("no article")
	}

	converter := md.NewConverter("", true, nil)
	body, err := converter.ConvertString(a.Body)
	if err != nil {
		return "", fmt.Errorf("convert article body: %w", err)
	}

	if width < 20 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(articleStyle),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}

	doc := "# " + a.Title + "\n\n"
	if a.Summary != "" {
		doc += "_" + a.Summary + "_\n\n"
	}
	doc += body

	out, err := r.Render(doc)
	if err != nil {
		return "", fmt.Errorf("render article: %w", err)
	}
	return out, nil
}
