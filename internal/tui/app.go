package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mabhi256/vgdiag/internal/report"
	"github.com/mabhi256/vgdiag/utils"
)

const (
	headerHeight = 2
	footerHeight = 1
)

func initialModel(a *report.Analysis, renderer *report.Renderer) *Model {
	return &Model{
		analysis:   a,
		reportText: renderer.RenderAnalysis(a),
		currentTab: ReportTab,
		keys:       DefaultKeyMap(),
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab1):
			m.switchTab(ReportTab)
			return m, nil
		case key.Matches(msg, m.keys.Tab2):
			m.switchTab(HotspotsTab)
			return m, nil
		case key.Matches(msg, m.keys.Next):
			m.switchTab(utils.CycleEnum(m.currentTab, 1, lastTab))
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.switchTab(utils.CycleEnum(m.currentTab, -1, lastTab))
			return m, nil
		}
	}

	if !m.ready {
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) resize(width, height int) {
	m.width = width
	bodyHeight := max(1, height-headerHeight-footerHeight)

	if !m.ready {
		m.viewport = viewport.New(width, bodyHeight)
		m.viewport.KeyMap = m.keys.scrollKeys()
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = bodyHeight
	}
	m.viewport.SetContent(m.content())
}

func (m *Model) switchTab(tab TabType) {
	if tab == m.currentTab {
		return
	}
	m.currentTab = tab
	if m.ready {
		m.viewport.SetContent(m.content())
		m.viewport.GotoTop()
	}
}

func (m *Model) content() string {
	switch m.currentTab {
	case HotspotsTab:
		return RenderHotspots(m.analysis, m.width)
	default:
		return m.reportText
	}
}

func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderFooter(),
	)
}

func (m *Model) renderHeader() string {
	tabIcons := []string{"📄", "🔥"}

	tabs := []string{utils.HeaderStyle.Render("vgdiag")}
	for tab := ReportTab; tab <= lastTab; tab++ {
		style := utils.TabInactiveStyle
		if tab == m.currentTab {
			style = utils.TabActiveStyle
		}
		tabs = append(tabs, style.Render(tabIcons[tab]+" "+tab.String()))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n"
}

func (m *Model) renderFooter() string {
	var parts []string
	for _, b := range m.keys.help() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return utils.HelpBarStyle.Width(m.width).Render(strings.Join(parts, " • "))
}

// Run shows the analysed findings in a full-screen viewer until the user quits.
func Run(a *report.Analysis, renderer *report.Renderer) error {
	p := tea.NewProgram(initialModel(a, renderer), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
