package main

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/cdurham/hegemon/pkg/snapshot"
	"github.com/cdurham/hegemon/pkg/world"
)

const PlaceHolderText = "What is your nation's course of action this year?"

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config        *ConsoleConfig
	client        *http.Client
	gameState     *world.GameState
	eventViewport viewport.Model
	metaViewport  viewport.Model
	textarea      textarea.Model
	ready         bool
	width         int
	height        int
	err           error
	loading       bool
	status        string

	// Country selection state
	showCountryModal bool
	countries        []string
	selectedCountry  int

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type turnResultMsg struct {
	gameState *world.GameState
	err       error
}

type gameCreatedMsg struct {
	gameState *world.GameState
	err       error
}

type saveDoneMsg struct {
	name string
	err  error
}

type progressTickMsg struct{}

var (
	eventPanelStyle = lipgloss.NewStyle().
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

	yearStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	statusStyle = lipgloss.NewStyle().
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

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	eventVp := viewport.New(50, 20)
	eventVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:           cfg,
		client:           client,
		textarea:         ta,
		eventViewport:    eventVp,
		metaViewport:     metaVp,
		ready:            false,
		showCountryModal: true,
		countries:        playableCountries(),
		selectedCountry:  0,
	}
}

// playableCountries lists country names from the world snapshot geography.
func playableCountries() []string {
	seen := make(map[string]bool)
	var names []string
	for _, poly := range snapshot.DefaultGeography().Polygons {
		name := poly.Country
		if name == "" {
			name = poly.Name
		}
		if name == world.UnclaimedOwner || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func writeMetadata(gs *world.GameState) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("WORLD STATE") + "\n\n")

	content.WriteString("Game ID:\n")
	content.WriteString(gs.ID.String()[:8] + "...\n\n")

	content.WriteString("Year:\n")
	content.WriteString(yearStyle.Render(fmt.Sprintf("%d", gs.Year)) + "\n\n")

	if c, ok := gs.Countries[gs.PlayerCountry]; ok {
		content.WriteString(gs.PlayerCountry + ":\n")
		content.WriteString(fmt.Sprintf("• GDP: %.0f\n", c.GDP))
		content.WriteString(fmt.Sprintf("• Population: %.1fM\n", c.Population))
		content.WriteString(fmt.Sprintf("• Stability: %.0f\n", c.Stability))
		content.WriteString(fmt.Sprintf("• Military: %.0f\n", c.MilitaryStrength))
		content.WriteString("\n")
	}

	deployed := 0
	for _, unit := range gs.MilitaryUnits {
		if unit.Owner == gs.PlayerCountry {
			deployed++
		}
	}
	content.WriteString(fmt.Sprintf("Units deployed: %d\n", deployed))
	content.WriteString(fmt.Sprintf("Pending invitations: %d\n\n", len(gs.Invitations)))

	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Enter: Act\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• /units: Units\n")
	content.WriteString("• /save <name>\n")
	content.WriteString("• /copy: Copy game ID\n")

	return content.String()
}

// writeEventContent rebuilds the event feed for the current viewport width.
// The events log is stored newest-first; the feed reads oldest to newest.
func (m *ConsoleUI) writeEventContent() {
	width := m.eventViewport.Width - 6

	var content strings.Builder
	content.WriteString(titleStyle.Render("HEGEMON") + "\n\n")
	content.WriteString("You govern " + m.gameState.PlayerCountry + ". Each action advances the world one year.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(width-6, 1))) + "\n\n")

	events := m.gameState.Events
	for i := len(events) - 1; i >= 0; i-- {
		ev := events[i]
		header := yearStyle.Render(fmt.Sprintf("[%s] %s", ev.Date, ev.Kind))
		content.WriteString(header + "\n")
		content.WriteString(eventStyle.Render(wordwrap.String(ev.Description, max(width-6, 10))) + "\n\n")
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.eventViewport.SetContent(content.String())
	m.eventViewport.GotoBottom()
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showCountryModal {
		return m.updateCountryModal(msg)
	}

	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.eventViewport, vpCmd = m.eventViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		if m.gameState != nil {
			m.writeEventContent()
			m.metaViewport.SetContent(writeMetadata(m.gameState))
			m.ready = true
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			m.textarea.Reset()
			m.loading = true
			m.status = ""
			m.progressTick = 0
			m.writeEventContent()

			return m, tea.Batch(m.submitAction(input), progressTick())
		}

	case turnResultMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.writeEventContent()
			currentContent := m.eventViewport.View()
			errorMsg := errorStyle.Render("Error: "+msg.err.Error()) + "\n\n"
			m.eventViewport.SetContent(currentContent + errorMsg)
		} else {
			m.gameState = msg.gameState
			m.writeEventContent()
			m.metaViewport.SetContent(writeMetadata(m.gameState))
		}
		m.eventViewport.GotoBottom()
		return m, nil

	case saveDoneMsg:
		if msg.err != nil {
			m.status = errorStyle.Render("Save failed: " + msg.err.Error())
		} else {
			m.status = statusStyle.Render("Saved as " + msg.name)
		}
		m.metaViewport.SetContent(writeMetadata(m.gameState) + "\n" + m.status)

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeEventContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.eventViewport, vpCmd = m.eventViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m *ConsoleUI) resize() {
	eventWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - eventWidth - 6

	m.eventViewport.Width = eventWidth - 2
	m.eventViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(eventWidth - 4)
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])

	switch cmd {
	case "/help":
		helpText := `
Commands:
• /help - Show this help
• /units - List your military units
• /save <name> - Export a save file
• /copy - Copy the game ID to the clipboard
• Ctrl+C - Quit

How to play:
• Describe your nation's action for the year and press Enter
• The world reacts and a year passes
• Watch your stability; wars and upheaval erode it
`
		currentContent := m.eventViewport.View()
		m.eventViewport.SetContent(currentContent + titleStyle.Render("Help:") + helpText + "\n")
		m.eventViewport.GotoBottom()

	case "/units":
		var unitsText strings.Builder
		unitsText.WriteString(titleStyle.Render("Your Units:") + "\n")
		found := false
		for _, unit := range m.gameState.MilitaryUnits {
			if unit.Owner != m.gameState.PlayerCountry {
				continue
			}
			found = true
			unitsText.WriteString(fmt.Sprintf("• %s (%s) — %s\n", unit.Name, unit.Type, unit.CurrentOrder))
		}
		if !found {
			unitsText.WriteString("No units deployed.\n")
		}
		unitsText.WriteString("\n")

		currentContent := m.eventViewport.View()
		m.eventViewport.SetContent(currentContent + unitsText.String())
		m.eventViewport.GotoBottom()

	case "/save":
		if len(fields) < 2 {
			m.status = errorStyle.Render("Usage: /save <name>")
			m.metaViewport.SetContent(writeMetadata(m.gameState) + "\n" + m.status)
			break
		}
		name := strings.Join(fields[1:], " ")
		m.textarea.Reset()
		return m, m.exportSaveCmd(name)

	case "/copy":
		if err := clipboard.WriteAll(m.gameState.ID.String()); err != nil {
			m.status = errorStyle.Render("Clipboard unavailable")
		} else {
			m.status = statusStyle.Render("Game ID copied")
		}
		m.metaViewport.SetContent(writeMetadata(m.gameState) + "\n" + m.status)
	}

	m.textarea.Reset()
	return m, nil
}

func (m ConsoleUI) submitAction(action string) tea.Cmd {
	return func() tea.Msg {
		gs, err := processTurn(m.client, m.config.APIBaseURL, m.gameState.ID, action)
		return turnResultMsg{gs, err}
	}
}

func (m ConsoleUI) exportSaveCmd(name string) tea.Cmd {
	return func() tea.Msg {
		err := exportSave(m.client, m.config.APIBaseURL, m.gameState.ID, name)
		return saveDoneMsg{name, err}
	}
}

func (m ConsoleUI) createGameCmd(country string) tea.Cmd {
	return func() tea.Msg {
		gs, err := createGame(m.client, m.config.APIBaseURL, country)
		return gameCreatedMsg{gs, err}
	}
}

func (m ConsoleUI) updateCountryModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case gameCreatedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.gameState = msg.gameState
			m.showCountryModal = false
			if m.width > 0 && m.height > 0 {
				m.resize()
			}
			m.writeEventContent()
			m.metaViewport.SetContent(writeMetadata(m.gameState))
			m.textarea.Focus()
			m.ready = true
		}
		return m, textarea.Blink

	case tea.KeyMsg:
		if m.err != nil {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.selectedCountry > 0 {
				m.selectedCountry--
			}
		case tea.KeyDown:
			if m.selectedCountry < len(m.countries)-1 {
				m.selectedCountry++
			}
		case tea.KeyEnter:
			if len(m.countries) > 0 && !m.loading {
				m.loading = true
				return m, m.createGameCmd(m.countries[m.selectedCountry])
			}
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
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Unsaved progress expires with the session. Use /save first.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(56).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderCountryModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	if m.err != nil {
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("Failed to create game: %v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	} else if m.loading {
		content.WriteString(modalTitleStyle.Render("Building the World..."))
		content.WriteString("\n\n")
		content.WriteString(statusStyle.Render("Instantiating countries and cities..."))
	} else {
		content.WriteString(modalTitleStyle.Render("Choose Your Nation"))
		content.WriteString("\n\n")

		// Window the list around the selection so long lists fit
		start := 0
		windowSize := max(m.height-12, 5)
		if m.selectedCountry >= windowSize {
			start = m.selectedCountry - windowSize + 1
		}
		end := min(start+windowSize, len(m.countries))

		for i := start; i < end; i++ {
			if i == m.selectedCountry {
				content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", m.countries[i])))
			} else {
				content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", m.countries[i])))
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
	if m.showCountryModal {
		return m.renderCountryModal()
	}

	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	eventWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - eventWidth - 6

	eventPanel := eventPanelStyle.Width(eventWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.eventViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(eventWidth-4, 1))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, eventPanel, metaPanel)
}

// renderProgressBar animates the year-in-progress indicator.
func (m ConsoleUI) renderProgressBar() string {
	usable := m.eventViewport.Width - 6
	if usable <= 0 {
		usable = 30
	}
	if usable > 80 {
		usable = 80
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
