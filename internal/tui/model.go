package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"triage/internal/diagnosis"
	"triage/internal/domain"
	"triage/internal/textnorm"
)

const (
	turnTimeout   = 60 * time.Second
	lookupCommand = "/chercher"
)

// SessionPort is the TUI-facing subset of the interview engine.
type SessionPort interface {
	Submit(ctx context.Context, sessionID string, symptoms []string) (*diagnosis.Response, error)
}

type role int

const (
	roleUser role = iota
	roleAssistant
	roleSystem
)

type entry struct {
	role role
	text string
}

type turnMsg struct {
	resp *diagnosis.Response
	err  error
}

type lookupMsg struct {
	query string
	match *domain.Match
	err   error
}

// Model is the Bubble Tea model for the chat client.
type Model struct {
	sessions   SessionPort
	retriever  domain.Retriever
	input      textinput.Model
	viewport   viewport.Model
	transcript []entry
	sessionID  string
	status     string
	busy       bool
	ready      bool
}

// New creates a chat model. A nil retriever disables the lookup command.
func New(sessions SessionPort, retriever domain.Retriever) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Décrivez vos symptômes, ou " + lookupCommand + " <requête>"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{sessions: sessions, retriever: retriever, input: ti, viewport: vp, status: "Connexion..."}
}

// Init blinks the cursor and opens the first session.
func (m Model) Init() tea.Cmd { return tea.Batch(textinput.Blink, m.submit(nil)) }

// Update handles key, window and turn events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + ih + 1 // header, status, spacer
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-th)
		m.refresh()
		return m, nil
	case turnMsg:
		m.busy = false
		return m.onTurn(msg)
	case lookupMsg:
		m.busy = false
		m.onLookup(msg)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" {
			return m.onEnter()
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) onEnter() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.busy {
		return m, nil
	}
	m.input.Reset()
	m.append(roleUser, text)
	m.busy = true

	if query, ok := strings.CutPrefix(text, lookupCommand); ok && m.retriever != nil {
		m.status = "Recherche..."
		return m, m.lookup(strings.TrimSpace(query))
	}
	m.status = "Analyse..."
	return m, m.submit([]string{text})
}

func (m Model) onTurn(msg turnMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = "Erreur : " + msg.err.Error()
		m.append(roleSystem, m.status)
		return m, nil
	}
	resp := msg.resp
	m.sessionID = resp.SessionID
	m.append(roleAssistant, resp.Message)
	if resp.RequiresMoreInfo() {
		m.status = fmt.Sprintf("Question %d/%d", resp.Step+1, len(diagnosis.Questions))
		return m, nil
	}

	if len(resp.Diagnoses) > 0 {
		m.append(roleSystem, formatDiagnoses(resp.Diagnoses))
	}
	m.append(roleSystem, "Nouvelle consultation")
	m.sessionID = ""
	m.status = "Consultation terminée"
	m.busy = true
	return m, m.submit(nil)
}

func (m *Model) onLookup(msg lookupMsg) {
	if msg.err != nil {
		m.status = "Recherche : " + msg.err.Error()
		m.append(roleSystem, m.status)
		return
	}
	r := msg.match.Record
	title := fmt.Sprintf("[%s] %s  similarité=%.3f", r.Source(), r.DisplayName(), msg.match.Similarity)
	m.append(roleSystem, title+"\n"+highlightBestSentence(r.DisplayText(), msg.query))
	m.status = fmt.Sprintf("Résultat pour %q", msg.query)
}

func (m Model) submit(symptoms []string) tea.Cmd {
	sessions, id := m.sessions, m.sessionID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		defer cancel()
		resp, err := sessions.Submit(ctx, id, symptoms)
		return turnMsg{resp: resp, err: err}
	}
}

func (m Model) lookup(query string) tea.Cmd {
	retriever := m.retriever
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		defer cancel()
		match, err := retriever.Query(ctx, query)
		return lookupMsg{query: query, match: match, err: err}
	}
}

func (m *Model) append(r role, text string) {
	m.transcript = append(m.transcript, entry{role: r, text: text})
	m.refresh()
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// View renders the transcript, input and status line.
func (m Model) View() string {
	if !m.ready {
		return "Chargement..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Assistant de triage")
	input := inputBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.transcript) == 0 {
		return ""
	}
	wrap := lipgloss.NewStyle().Width(max(10, m.viewport.Width-4))
	parts := make([]string, 0, len(m.transcript))
	for _, e := range m.transcript {
		var label string
		switch e.role {
		case roleUser:
			label = userStyle.Render("Vous")
		case roleAssistant:
			label = assistantStyle.Render("Assistant")
		default:
			label = systemStyle.Render("•")
		}
		parts = append(parts, label+"\n"+wrap.Render(e.text))
	}
	return strings.Join(parts, "\n\n")
}

func formatDiagnoses(ds []domain.Diagnosis) string {
	lines := make([]string, 0, len(ds))
	for i, d := range ds {
		if i == 3 {
			break
		}
		lines = append(lines, fmt.Sprintf("%s  %.0f%%", d.Disease, d.Confidence*100))
	}
	return strings.Join(lines, "\n")
}

var (
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	userStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	systemStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	sentenceRe         = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

// highlightBestSentence emphasizes the sentence sharing the most normalized
// terms with query.
func highlightBestSentence(text, query string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(text)}
	}
	qTokens := toTokenSet(query)
	if len(qTokens) == 0 {
		return strings.Join(sentences, " ")
	}
	bestIdx := 0
	bestScore := -1
	for i, s := range sentences {
		score := tokenOverlapScore(qTokens, s)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	for i := range sentences {
		sent := strings.TrimSpace(sentences[i])
		if i == bestIdx {
			sentences[i] = highlightStyle.Render(sent)
		} else {
			sentences[i] = sent
		}
	}
	return strings.Join(sentences, " ")
}

func toTokenSet(s string) map[string]struct{} {
	tokens := textnorm.Tokens(s)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	seen := make(map[string]struct{})
	for _, t := range textnorm.Tokens(sentence) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}
