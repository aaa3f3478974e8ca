package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/jwebster45206/fading-suns/pkg/character"
	"github.com/jwebster45206/fading-suns/pkg/i18n"
	"github.com/jwebster45206/fading-suns/pkg/roll"
	"github.com/muesli/reflow/wordwrap"
)

const historySize = 20

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config *ConsoleConfig
	api    *APIClient
	l      *i18n.Localizer

	chatViewport  viewport.Model
	sheetViewport viewport.Model
	modifier      textinput.Model
	spinner       spinner.Model
	ready         bool
	width         int
	height        int
	err           error
	status        string
	loading       bool

	// Character selection state
	showCharacterModal bool
	characters         []CharacterSummary
	selectedCharacter  int
	loadingCharacters  bool

	// Current sheet
	sheet  *Sheet
	char   *character.Character
	rows   []sheetRow
	cursor int

	// Roll dialog state
	showRollModal bool
	pending       roll.Request
	pendingLabel  string
	rollErr       string

	// Characteristic override state
	showOverrideModal bool
	options           []roll.Option
	selectedOption    int

	// Quit confirmation state
	showQuitModal bool

	// Chat log
	entries []chatEntry
	seen    map[uuid.UUID]bool

	events     chan SSEEvent
	stopEvents context.CancelFunc
}

type chatEntry struct {
	speaker string
	text    string
	success bool
	isError bool
}

type charactersLoadedMsg struct {
	characters []CharacterSummary
	err        error
}

type sheetLoadedMsg struct {
	sheet *Sheet
	err   error
}

type historyLoadedMsg struct {
	rolls []RollResponse
	err   error
}

type rollResultMsg struct {
	resp *RollResponse
	err  error
}

type sseEventMsg struct {
	event SSEEvent
}

type sseClosedMsg struct {
	err error
}

type copiedMsg struct {
	err error
}

var (
	sheetPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(1)

	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingBottom(1).
			PaddingLeft(2).
			PaddingRight(0)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")). // teal
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

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

func NewConsoleUI(cfg *ConsoleConfig, api *APIClient, l *i18n.Localizer) ConsoleUI {
	ti := textinput.New()
	ti.Placeholder = "+0"
	ti.Prompt = promptStyle.Render(":: ")
	ti.CharLimit = 4

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = loadingStyle

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	return ConsoleUI{
		config:             cfg,
		api:                api,
		l:                  l,
		chatViewport:       chatVp,
		sheetViewport:      viewport.New(30, 20),
		modifier:           ti,
		spinner:            sp,
		showCharacterModal: true,
		loadingCharacters:  true,
		cursor:             -1,
		seen:               make(map[uuid.UUID]bool),
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(m.loadCharacters(), m.spinner.Tick)
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.layout()
	}

	// Messages from background commands are handled in every mode.
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.loading || m.loadingCharacters {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case charactersLoadedMsg:
		return m.onCharactersLoaded(msg)
	case sheetLoadedMsg:
		return m.onSheetLoaded(msg)
	case historyLoadedMsg:
		if msg.err != nil {
			m.addError(msg.err)
			return m, nil
		}
		for _, r := range msg.rolls {
			m.addRoll(r.Result, r.Chat)
		}
		m.writeChatContent()
		return m, nil
	case rollResultMsg:
		m.loading = false
		if msg.err != nil {
			m.addError(msg.err)
			return m, nil
		}
		m.addRoll(msg.resp.Result, msg.resp.Chat)
		m.writeChatContent()
		return m, nil
	case sseEventMsg:
		return m.onEvent(msg.event)
	case sseClosedMsg:
		if msg.err != nil && m.sheet != nil {
			m.status = "Event stream closed: " + msg.err.Error()
		}
		return m, nil
	case copiedMsg:
		if msg.err != nil {
			m.status = "Copy failed: " + msg.err.Error()
		} else {
			m.status = "Copied last roll to clipboard"
		}
		return m, nil
	}

	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}
	if m.showCharacterModal {
		return m.updateCharacterModal(msg)
	}
	if m.showOverrideModal {
		return m.updateOverrideModal(msg)
	}
	if m.showRollModal {
		return m.updateRollModal(msg)
	}
	return m.updateSheet(msg)
}

// layout sizes the panels: sheet on the left, chat log on the right.
func (m *ConsoleUI) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	sheetWidth := m.width * 2 / 5
	chatWidth := m.width - sheetWidth - 4

	m.sheetViewport.Width = sheetWidth - 3
	m.sheetViewport.Height = m.height - 4
	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 5

	m.ready = true
	m.writeSheetContent()
	m.writeChatContent()
}

func (m ConsoleUI) updateSheet(msg tea.Msg) (tea.Model, tea.Cmd) {
	var vpCmd tea.Cmd

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		return m, vpCmd

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			m.moveCursor(-1)
			return m, nil
		case tea.KeyDown:
			m.moveCursor(1)
			return m, nil
		case tea.KeyPgUp, tea.KeyPgDown:
			m.chatViewport, vpCmd = m.chatViewport.Update(msg)
			return m, vpCmd
		case tea.KeyEnter:
			if row, ok := m.currentRow(); ok && !m.loading {
				return m.openRollModal(row.req, row.label)
			}
			return m, nil
		}

		switch msg.String() {
		case "k":
			m.moveCursor(-1)
		case "j":
			m.moveCursor(1)
		case "c":
			if row, ok := m.currentRow(); ok && !m.loading {
				m.pending = row.req
				m.pendingLabel = row.label
				m.options = roll.Options(m.char)
				m.selectedOption = 0
				m.showOverrideModal = true
			}
		case "y":
			if text := m.lastChat(); text != "" {
				return m, copyToClipboard(text)
			}
			m.status = "Nothing to copy yet"
		case "r":
			if m.sheet != nil {
				return m, m.loadSheet(m.sheet.ID)
			}
		case "s":
			m.stopStream()
			m.sheet = nil
			m.showCharacterModal = true
			m.loadingCharacters = true
			return m, tea.Batch(m.loadCharacters(), m.spinner.Tick)
		}
	}

	return m, nil
}

func (m *ConsoleUI) moveCursor(dir int) {
	m.cursor = nextSelectable(m.rows, m.cursor, dir)
	m.writeSheetContent()
}

func (m ConsoleUI) currentRow() (sheetRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return sheetRow{}, false
	}
	return m.rows[m.cursor], true
}

func (m ConsoleUI) openRollModal(req roll.Request, label string) (tea.Model, tea.Cmd) {
	m.pending = req
	m.pendingLabel = label
	m.rollErr = ""
	m.showRollModal = true
	m.modifier.Reset()
	m.modifier.Focus()
	return m, textinput.Blink
}

func (m ConsoleUI) updateRollModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEsc:
			m.showRollModal = false
			m.modifier.Blur()
			return m, nil
		case tea.KeyEnter:
			mod, err := parseModifier(m.modifier.Value())
			if err != nil {
				m.rollErr = err.Error()
				return m, nil
			}
			req := m.pending
			req.Modifier = mod
			m.showRollModal = false
			m.modifier.Blur()
			m.loading = true
			return m, tea.Batch(m.resolveRoll(req), m.spinner.Tick)
		}
	}

	var cmd tea.Cmd
	m.modifier, cmd = m.modifier.Update(msg)
	return m, cmd
}

func (m ConsoleUI) updateOverrideModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC:
		m.showQuitModal = true
	case tea.KeyEsc:
		m.showOverrideModal = false
	case tea.KeyUp:
		if m.selectedOption > 0 {
			m.selectedOption--
		}
	case tea.KeyDown:
		if m.selectedOption < len(m.options)-1 {
			m.selectedOption++
		}
	case tea.KeyEnter:
		if len(m.options) == 0 {
			return m, nil
		}
		opt := m.options[m.selectedOption]
		m.showOverrideModal = false
		req := m.pending
		label := m.pendingLabel
		if req.Kind == roll.KindCharacteristic {
			req.Key = string(opt.Key)
			label = m.l.Characteristic(opt.Key)
		} else {
			req.Characteristic = string(opt.Key)
			label = m.l.Characteristic(opt.Key) + " + " + label
		}
		return m.openRollModal(req, label)
	}
	return m, nil
}

func (m ConsoleUI) updateCharacterModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		if m.loadingCharacters {
			return m, tea.Quit
		}
		m.showQuitModal = true
	case tea.KeyUp:
		if m.selectedCharacter > 0 {
			m.selectedCharacter--
		}
	case tea.KeyDown:
		if m.selectedCharacter < len(m.characters)-1 {
			m.selectedCharacter++
		}
	case tea.KeyEnter:
		if m.err == nil && !m.loading && len(m.characters) > 0 {
			m.loading = true
			return m, tea.Batch(m.loadSheet(m.characters[m.selectedCharacter].ID), m.spinner.Tick)
		}
	}
	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
		m.stopStream()
		return m, tea.Quit
	}
	switch key.String() {
	case "y", "Y":
		m.stopStream()
		return m, tea.Quit
	case "n", "N":
		m.showQuitModal = false
		if m.showRollModal {
			m.modifier.Focus()
			return m, textinput.Blink
		}
	}
	return m, nil
}

func (m ConsoleUI) onCharactersLoaded(msg charactersLoadedMsg) (tea.Model, tea.Cmd) {
	m.loadingCharacters = false
	if msg.err != nil {
		m.err = msg.err
		return m, nil
	}
	m.err = nil
	m.characters = msg.characters
	m.selectedCharacter = 0
	if len(m.characters) == 0 && m.config.Template != "" {
		m.loading = true
		return m, tea.Batch(m.createFromTemplate(m.config.Template), m.spinner.Tick)
	}
	return m, nil
}

func (m ConsoleUI) onSheetLoaded(msg sheetLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		if m.showCharacterModal {
			m.err = msg.err
		} else {
			m.addError(msg.err)
		}
		return m, nil
	}

	ch, err := character.NewCharacterFromSpec(&msg.sheet.Spec)
	if err != nil {
		m.err = err
		return m, nil
	}

	switching := m.sheet == nil || m.sheet.ID != msg.sheet.ID
	m.sheet = msg.sheet
	m.char = ch
	m.rows = buildRows(ch, m.l)
	if m.cursor < 0 || m.cursor >= len(m.rows) || !m.rows[m.cursor].selectable() || switching {
		m.cursor = firstSelectable(m.rows)
	}
	m.showCharacterModal = false
	m.writeSheetContent()

	if !switching {
		return m, nil
	}

	m.stopStream()
	m.entries = nil
	m.seen = make(map[uuid.UUID]bool)
	m.writeChatContent()

	ctx, cancel := context.WithCancel(context.Background())
	m.stopEvents = cancel
	m.events = make(chan SSEEvent, 16)
	return m, tea.Batch(
		m.listen(ctx, msg.sheet.ID, m.events),
		waitForEvent(m.events),
		m.loadHistory(msg.sheet.ID),
	)
}

func (m ConsoleUI) onEvent(ev SSEEvent) (tea.Model, tea.Cmd) {
	next := waitForEvent(m.events)

	switch ev.Type {
	case "roll.resolved":
		var data struct {
			Result *roll.Result `json:"result"`
			Chat   string       `json:"chat"`
		}
		if err := json.Unmarshal(ev.Data, &data); err == nil && data.Result != nil {
			m.addRoll(data.Result, data.Chat)
			m.writeChatContent()
		}
	case "character.updated":
		if m.sheet != nil {
			return m, tea.Batch(next, m.loadSheet(m.sheet.ID))
		}
	case "character.deleted":
		m.stopStream()
		m.sheet = nil
		m.showCharacterModal = true
		m.loadingCharacters = true
		return m, tea.Batch(m.loadCharacters(), m.spinner.Tick)
	}
	return m, next
}

func (m *ConsoleUI) stopStream() {
	if m.stopEvents != nil {
		m.stopEvents()
		m.stopEvents = nil
	}
}

// addRoll appends a roll to the chat log once, whether it arrives from
// our own request or from the event stream.
func (m *ConsoleUI) addRoll(res *roll.Result, text string) {
	if res == nil || m.seen[res.ID] {
		return
	}
	m.seen[res.ID] = true
	m.entries = append(m.entries, chatEntry{
		speaker: res.CharacterName,
		text:    text,
		success: res.Outcome.Classification.IsSuccess(),
	})
}

func (m *ConsoleUI) addError(err error) {
	m.entries = append(m.entries, chatEntry{text: "Error: " + err.Error(), isError: true})
	m.writeChatContent()
}

func (m ConsoleUI) lastChat() string {
	for i := len(m.entries) - 1; i >= 0; i-- {
		if !m.entries[i].isError {
			return m.entries[i].text
		}
	}
	return ""
}

func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 4
	if chatWidth < 10 {
		chatWidth = 10
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("CHAT LOG") + "\n\n")
	if len(m.entries) == 0 {
		content.WriteString(promptStyle.Render("No rolls yet. Pick a line on the sheet and press Enter.") + "\n")
	}
	for _, e := range m.entries {
		if e.isError {
			content.WriteString(errorStyle.Render(wordwrap.String(e.text, chatWidth)) + "\n\n")
			continue
		}
		style := errorStyle
		if e.success {
			style = successStyle
		}
		if e.speaker != "" {
			content.WriteString(speakerStyle.Render(e.speaker+":") + "\n")
		}
		content.WriteString(style.Render(wordwrap.String(e.text, chatWidth)) + "\n\n")
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m *ConsoleUI) writeSheetContent() {
	if m.sheet == nil {
		m.sheetViewport.SetContent("")
		return
	}

	width := m.sheetViewport.Width - 2
	if width < 20 {
		width = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render(strings.ToUpper(m.sheet.Name)) + "\n")
	if desc := strings.TrimSpace(strings.Join([]string{m.sheet.Race, m.sheet.Rank}, " ")); desc != "" {
		content.WriteString(promptStyle.Render(desc) + "\n")
	}
	content.WriteString(fmt.Sprintf("%s: %d/%d   %s: %d\n",
		m.l.Label("vitality"), m.sheet.Vitality, m.sheet.MaxVitality,
		m.l.Label("defense"), m.sheet.Defense))
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n")

	lineOfCursor := 0
	lines := strings.Count(content.String(), "\n")
	for i, row := range m.rows {
		if !row.selectable() {
			content.WriteString("\n" + headerStyle.Render(row.header) + "\n")
			lines += 2
			continue
		}

		label := row.label
		if row.detail != "" {
			label += " (" + row.detail + ")"
		}
		value := fmt.Sprintf("%2d", row.value)
		pad := width - lipgloss.Width(label) - lipgloss.Width(value) - 2
		if pad < 1 {
			pad = 1
		}
		line := label + strings.Repeat(" ", pad) + value

		switch {
		case i == m.cursor:
			content.WriteString(selectedRowStyle.Render("▶ "+line) + "\n")
			lineOfCursor = lines
		case !row.primary:
			content.WriteString(promptStyle.Render("  "+line) + "\n")
		default:
			content.WriteString(modalItemStyle.Render("  "+line) + "\n")
		}
		lines++
	}

	m.sheetViewport.SetContent(content.String())
	if h := m.sheetViewport.Height; h > 0 {
		if lineOfCursor < m.sheetViewport.YOffset {
			m.sheetViewport.SetYOffset(lineOfCursor)
		} else if lineOfCursor >= m.sheetViewport.YOffset+h {
			m.sheetViewport.SetYOffset(lineOfCursor - h + 1)
		}
	}
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if m.showCharacterModal {
		return m.renderCharacterModal()
	}
	if m.showOverrideModal {
		return m.renderOverrideModal()
	}
	if m.showRollModal {
		return m.renderRollModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	sheetWidth := m.width * 2 / 5
	chatWidth := m.width - sheetWidth - 4

	sheetPanel := sheetPanelStyle.Width(sheetWidth).Height(m.height - 2).Render(
		m.sheetViewport.View(),
	)

	footer := promptStyle.Render("↑/↓ move • Enter roll • c choose characteristic • y copy • r reload • s switch • Esc quit")
	if m.loading {
		footer = m.spinner.View() + loadingStyle.Render(" Rolling...")
	} else if m.status != "" {
		footer = loadingStyle.Render(m.status)
	}

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-4, 1))),
			footer,
		),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, sheetPanel, chatPanel)
}

func (m ConsoleUI) renderCharacterModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	switch {
	case m.loadingCharacters:
		content.WriteString(modalTitleStyle.Render("Loading Characters..."))
		content.WriteString("\n\n")
		content.WriteString(m.spinner.View() + loadingStyle.Render(" Please wait while we fetch the roster..."))
	case m.err != nil:
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("Failed to load characters: %v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	case m.loading:
		content.WriteString(modalTitleStyle.Render("Opening Sheet..."))
		content.WriteString("\n\n")
		content.WriteString(m.spinner.View())
	case len(m.characters) == 0:
		content.WriteString(modalTitleStyle.Render("No Characters"))
		content.WriteString("\n\n")
		content.WriteString("Create one with POST /v1/characters, then restart.")
	default:
		content.WriteString(modalTitleStyle.Render("Select a Character"))
		content.WriteString("\n\n")
		for i, c := range m.characters {
			name := c.Name
			if c.Rank != "" {
				name = fmt.Sprintf("%s (%s)", c.Name, c.Rank)
			}
			if i == m.selectedCharacter {
				content.WriteString(modalSelectedItemStyle.Render("▶ " + name))
			} else {
				content.WriteString(modalItemStyle.Render("  " + name))
			}
			content.WriteString("\n")
		}
		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderOverrideModal() string {
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Choose a Characteristic"))
	content.WriteString("\n\n")

	for i, opt := range m.options {
		line := fmt.Sprintf("%-14s %2d", m.l.Characteristic(opt.Key), opt.Value)
		switch {
		case i == m.selectedOption:
			content.WriteString(modalSelectedItemStyle.Render("▶ " + line))
		case !opt.Primary:
			content.WriteString(promptStyle.Render("  " + line))
		default:
			content.WriteString(modalItemStyle.Render("  " + line))
		}
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Esc to cancel"))

	modal := modalStyle.Width(44).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderRollModal() string {
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render(m.l.RollTitle(m.pendingLabel)))
	content.WriteString("\n\n")
	content.WriteString("Modifier:\n")
	content.WriteString(m.modifier.View())
	if m.rollErr != "" {
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(m.rollErr))
	}
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Enter to roll, Esc to cancel"))

	modal := modalStyle.Width(44).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to leave the table?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

// Commands

func (m ConsoleUI) loadCharacters() tea.Cmd {
	return func() tea.Msg {
		list, err := m.api.listCharacters()
		return charactersLoadedMsg{list, err}
	}
}

func (m ConsoleUI) createFromTemplate(name string) tea.Cmd {
	return func() tea.Msg {
		sheet, err := m.api.createFromTemplate(name)
		return sheetLoadedMsg{sheet, err}
	}
}

func (m ConsoleUI) loadSheet(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		sheet, err := m.api.getCharacter(id)
		return sheetLoadedMsg{sheet, err}
	}
}

func (m ConsoleUI) loadHistory(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		rolls, err := m.api.history(id, historySize)
		return historyLoadedMsg{rolls, err}
	}
}

func (m ConsoleUI) resolveRoll(req roll.Request) tea.Cmd {
	id := m.sheet.ID
	return func() tea.Msg {
		resp, err := m.api.resolveRoll(id, req)
		return rollResultMsg{resp, err}
	}
}

func (m ConsoleUI) listen(ctx context.Context, id uuid.UUID, ch chan SSEEvent) tea.Cmd {
	return func() tea.Msg {
		err := m.api.listenToSSE(ctx, id, ch)
		// Only sender; closing releases a pending waitForEvent.
		close(ch)
		if ctx.Err() != nil {
			return nil
		}
		return sseClosedMsg{err}
	}
}

func waitForEvent(ch chan SSEEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return sseEventMsg{ev}
	}
}

func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{clipboard.WriteAll(text)}
	}
}
