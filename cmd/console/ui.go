package main

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/battle-tree/internal/session"
	"github.com/jwebster45206/battle-tree/pkg/project"
	"github.com/muesli/reflow/wordwrap"
)

const PlaceHolderText = "Type a command, /help for the list..."

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	api          *apiClient
	view         *ProjectView
	selected     int
	treeViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool
	status       string
	report       *session.Report

	// Project selection state
	showProjectModal bool
	projects         []project.Summary
	selectedProject  int
	loadingProjects  bool

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type projectsLoadedMsg struct {
	projects []project.Summary
	err      error
}

type projectOpenedMsg struct {
	view *ProjectView
	err  error
}

type editDoneMsg struct {
	view *ProjectView
	err  error
}

type reportMsg struct {
	report *session.Report
	err    error
}

type copiedMsg struct {
	size int
	err  error
}

type progressTickMsg struct{}

var (
	treePanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	turnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")). // teal
			Bold(true)

	edgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("86")) // green

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, api *apiClient) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 500
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	treeVp := viewport.New(50, 20)
	treeVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:           cfg,
		api:              api,
		textarea:         ta,
		treeViewport:     treeVp,
		metaViewport:     metaVp,
		showProjectModal: true,
		loadingProjects:  true,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	if m.showProjectModal {
		return m.loadProjects()
	}
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}
	if m.showProjectModal {
		return m.updateProjectModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.treeViewport, vpCmd = m.treeViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyTab:
			m.step(1)
			return m, nil
		case tea.KeyShiftTab:
			m.step(-1)
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()
			return m.handleCommand(input)
		}

	case editDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.status = errorStyle.Render("Error: " + msg.err.Error())
		} else {
			m.applyView(msg.view)
			m.status = okStyle.Render("OK")
		}
		m.refresh()
		return m, nil

	case reportMsg:
		m.loading = false
		if msg.err != nil {
			m.status = errorStyle.Render("Error: " + msg.err.Error())
		} else {
			m.report = msg.report
			m.status = ""
		}
		m.refresh()
		return m, nil

	case copiedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = errorStyle.Render("Copy failed: " + msg.err.Error())
		} else {
			m.status = okStyle.Render(fmt.Sprintf("Copied %d bytes of project JSON", msg.size))
		}
		m.refresh()
		return m, nil

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.refresh()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.treeViewport, vpCmd = m.treeViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m *ConsoleUI) panelWidths() (int, int) {
	treeWidth := int(float64(m.width)*0.6) - 4
	return treeWidth, m.width - treeWidth - 6
}

func (m *ConsoleUI) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	treeWidth, metaWidth := m.panelWidths()
	m.treeViewport.Width = treeWidth - 2
	m.treeViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(treeWidth - 4)
}

// applyView takes a fresh project view and keeps the selection on a live state
func (m *ConsoleUI) applyView(v *ProjectView) {
	if v == nil {
		return
	}
	m.view = v
	m.report = nil
	if _, ok := findState(v.Document, m.selected); !ok {
		m.selected = 0
	}
}

// step moves the selection through states in turn order
func (m *ConsoleUI) step(delta int) {
	if m.view == nil || m.view.Document == nil {
		return
	}
	ids := stateIDs(m.view.Document)
	if len(ids) == 0 {
		return
	}
	i := slices.Index(ids, m.selected)
	i = (i + delta + len(ids)) % len(ids)
	m.selected = ids[i]
	m.refresh()
}

func (m *ConsoleUI) refresh() {
	if !m.ready || m.view == nil {
		return
	}
	width := m.treeViewport.Width - 6
	var content strings.Builder
	content.WriteString(renderTree(m.view.Document, m.selected, width))
	if m.report != nil {
		content.WriteString("\n" + separatorStyle.Render(strings.Repeat("─", max(width, 1))) + "\n")
		content.WriteString(renderReport(m.report, width))
	}
	if m.loading {
		content.WriteString("\n" + m.renderProgressBar() + "\n")
	} else if m.status != "" {
		content.WriteString("\n" + wordwrap.String(m.status, width) + "\n")
	}
	m.treeViewport.SetContent(content.String())
	m.metaViewport.SetContent(renderDetails(m.view, m.selected, m.metaViewport.Width))
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	cmd, err := parseCommand(input, m.selected)
	if err != nil {
		m.status = errorStyle.Render(err.Error())
		m.refresh()
		return m, nil
	}

	switch cmd.kind {
	case cmdHelp:
		m.status = titleStyle.Render("Help:") + helpText
		m.refresh()
		m.treeViewport.GotoBottom()
		return m, nil
	case cmdQuit:
		m.showQuitModal = true
		return m, nil
	case cmdGoto:
		if _, ok := findState(m.view.Document, cmd.target); !ok {
			m.status = errorStyle.Render(fmt.Sprintf("No state %d", cmd.target))
		} else {
			m.selected = cmd.target
			m.status = ""
		}
		m.refresh()
		return m, nil
	case cmdValidate:
		m.loading = true
		m.progressTick = 0
		return m, tea.Batch(m.validate(), progressTick())
	case cmdCopy:
		m.loading = true
		return m, m.copyExport()
	}

	m.loading = true
	m.progressTick = 0
	m.refresh()
	return m, tea.Batch(m.runEdit(cmd), progressTick())
}

func (m ConsoleUI) runEdit(cmd command) tea.Cmd {
	id := m.view.ID
	return func() tea.Msg {
		view, err := m.api.edit(id, cmd.method, cmd.path, cmd.body)
		return editDoneMsg{view: view, err: err}
	}
}

func (m ConsoleUI) validate() tea.Cmd {
	id := m.view.ID
	return func() tea.Msg {
		report, err := m.api.validate(id)
		return reportMsg{report: report, err: err}
	}
}

func (m ConsoleUI) copyExport() tea.Cmd {
	id := m.view.ID
	return func() tea.Msg {
		data, err := m.api.export(id)
		if err != nil {
			return copiedMsg{err: err}
		}
		if err := clipboard.WriteAll(string(data)); err != nil {
			return copiedMsg{err: err}
		}
		return copiedMsg{size: len(data)}
	}
}

func (m ConsoleUI) loadProjects() tea.Cmd {
	return func() tea.Msg {
		list, err := m.api.listProjects()
		return projectsLoadedMsg{projects: list, err: err}
	}
}

func (m ConsoleUI) openProject(i int) tea.Cmd {
	return func() tea.Msg {
		if i >= len(m.projects) {
			name := "Battle " + time.Now().Format("2006-01-02 15:04")
			view, err := m.api.createProject(name, m.config.BattleType)
			return projectOpenedMsg{view: view, err: err}
		}
		view, err := m.api.getProject(m.projects[i].ID)
		return projectOpenedMsg{view: view, err: err}
	}
}

func (m ConsoleUI) updateProjectModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case projectsLoadedMsg:
		m.loadingProjects = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.projects = msg.projects
		}

	case projectOpenedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.applyView(msg.view)
		m.showProjectModal = false
		m.resize()
		m.ready = m.width > 0 && m.height > 0
		m.refresh()
		m.textarea.Focus()
		return m, textarea.Blink

	case tea.KeyMsg:
		if m.loadingProjects || m.loading {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			if m.selectedProject > 0 {
				m.selectedProject--
			}
		case tea.KeyDown:
			// the extra row creates a new project
			if m.selectedProject < len(m.projects) {
				m.selectedProject++
			}
		case tea.KeyEnter:
			if m.err != nil {
				return m, nil
			}
			m.loading = true
			return m, m.openProject(m.selectedProject)
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				if m.showProjectModal {
					return m, nil
				}
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString("Every edit is already saved on the server.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderProjectModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	switch {
	case m.loadingProjects:
		content.WriteString(modalTitleStyle.Render("Loading Projects..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Please wait while we fetch saved projects..."))
	case m.err != nil:
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("Failed to open project: %v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	case m.loading:
		content.WriteString(modalTitleStyle.Render("Opening Project..."))
	default:
		content.WriteString(modalTitleStyle.Render("Select a Project"))
		content.WriteString("\n\n")

		items := make([]string, 0, len(m.projects)+1)
		for _, p := range m.projects {
			items = append(items, fmt.Sprintf("%s (%d states)", p.Name, p.States))
		}
		items = append(items, "+ New project")

		for i, item := range items {
			if i == m.selectedProject {
				content.WriteString(modalSelectedItemStyle.Render("▶ " + item))
			} else {
				content.WriteString(modalItemStyle.Render("  " + item))
			}
			content.WriteString("\n")
		}

		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if m.showProjectModal {
		return m.renderProjectModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	treeWidth, metaWidth := m.panelWidths()

	treePanel := treePanelStyle.Width(treeWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.treeViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(treeWidth-4, 1))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, treePanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for pending requests
func (m ConsoleUI) renderProgressBar() string {
	usable := m.treeViewport.Width - 6
	if usable > 60 {
		usable = 60
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
