package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mimiwrp/crispnews/internal/news"
)

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  crispnews")
	}

	if a.mode == modeHelp {
		return a.renderHelp()
	}

	header := a.renderHeader()
	tabs := a.renderTabs()

	contentHeight := a.height - 4 // header, tabs, status bar, slack
	if contentHeight < 3 {
		contentHeight = 3
	}

	var content string
	switch {
	case a.generating:
		content = lipgloss.Place(a.width, contentHeight, lipgloss.Center, lipgloss.Center,
			a.spinner.View()+" generating briefing...")
	case a.briefing == nil:
		content = lipgloss.Place(a.width, contentHeight, lipgloss.Center, lipgloss.Center,
			helpDimStyle.Render("no briefing yet. press r to generate."))
	default:
		content = a.renderBriefing(contentHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, tabs, content, a.renderStatusBar())
}

func (a *App) renderHeader() string {
	left := headerStyle.Render("crispnews")
	right := headerDateStyle.Render(time.Now().Format("Jan 2"))
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return left + fmt.Sprintf("%*s", gap, "") + right
}

func (a *App) renderTabs() string {
	var tabs []string
	for i, c := range a.categories {
		if i == a.catIdx {
			tabs = append(tabs, tabActiveStyle.Render(c.DisplayName()))
		} else {
			tabs = append(tabs, tabInactiveStyle.Render(c.DisplayName()))
		}
	}
	duration := tabInactiveStyle.Render(fmt.Sprintf("%d min", a.durations[a.durIdx]))
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(tabs, " ")+"  ", duration)
}

func (a *App) renderBriefing(height int) string {
	listHeight := len(a.briefing.Articles)
	if listHeight > height/2 {
		listHeight = height / 2
	}
	narrativeHeight := height - listHeight - 2

	narrative := wrap(a.briefing.Narrative, a.width-6)
	narrativeLines := strings.Split(narrative, "\n")
	if len(narrativeLines) > narrativeHeight && narrativeHeight > 0 {
		narrativeLines = narrativeLines[:narrativeHeight]
	}
	pane := narrativePaneStyle.Width(a.width - 2).Render(
		narrativeBodyStyle.Render(strings.Join(narrativeLines, "\n")))

	return lipgloss.JoinVertical(lipgloss.Left, pane, a.renderArticleList(listHeight))
}

func (a *App) renderArticleList(height int) string {
	var b strings.Builder
	start := 0
	if a.cursor >= height {
		start = a.cursor - height + 1
	}
	for i := start; i < len(a.briefing.Articles) && i-start < height; i++ {
		art := a.briefing.Articles[i]
		line := renderArticleLine(art, a.width-4, i == a.cursor)
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderArticleLine(art news.Article, width int, selected bool) string {
	marker := "  "
	if selected {
		marker = itemSelectedStyle.Render("> ")
	}
	source := ""
	if art.Source != "" {
		source = itemSourceStyle.Render(" · " + art.Source)
	}
	title := art.Title
	avail := width - lipgloss.Width(marker) - lipgloss.Width(source)
	if avail > 0 && len([]rune(title)) > avail {
		title = string([]rune(title)[:avail-1]) + "…"
	}
	if selected {
		title = itemSelectedStyle.Render(title)
	}
	return marker + title + source
}

func (a *App) renderStatusBar() string {
	left := ""
	if a.briefing != nil {
		left = fmt.Sprintf(" %d articles · %d min", len(a.briefing.Articles), a.briefing.Minutes)
	}

	switch {
	case a.narration.IsPlaying:
		left += " · " + itemSourceStyle.Render("narrating")
	case a.narration.IsPaused:
		left += " · paused"
	}

	right := " space play  tab category  d duration  ? help  q quit "
	if a.err != nil {
		return statusBarStyle.Width(a.width).Render(errorStyle.Render(a.err.Error()))
	}

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return statusBarStyle.Width(a.width).Render(left + fmt.Sprintf("%*s", gap, "") + right)
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("crispnews")
	dim := helpDimStyle

	help := title + dim.Render(" — Keyboard Shortcuts") + "\n\n" +
		dim.Render("Briefing") + "\n" +
		"  tab/c, ←/→   Cycle category\n" +
		"  d             Cycle duration (1, 3, 5 min)\n" +
		"  r, g          Regenerate briefing\n\n" +
		dim.Render("Narration") + "\n" +
		"  space         Play, pause, or resume\n" +
		"  s             Stop\n\n" +
		dim.Render("Articles") + "\n" +
		"  j/k, ↑/↓     Move between stories\n" +
		"  o, enter      Open story in browser\n\n" +
		dim.Render("General") + "\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c    Quit"

	card := helpCardStyle.Render(help)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

// wrap breaks text on word boundaries to the given width.
func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	var (
		b    strings.Builder
		line int
	)
	for _, word := range strings.Fields(s) {
		wl := len([]rune(word))
		if line > 0 && line+1+wl > width {
			b.WriteString("\n")
			line = 0
		} else if line > 0 {
			b.WriteString(" ")
			line++
		}
		b.WriteString(word)
		line += wl
	}
	return b.String()
}
