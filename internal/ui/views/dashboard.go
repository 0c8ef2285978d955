package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/knkapps/followup/internal/query"
	"github.com/knkapps/followup/internal/repo"
	"github.com/knkapps/followup/internal/ui/keys"
	"github.com/knkapps/followup/internal/ui/styles"
)

// OpenTasks signals to open the task list on the given filter tab
type OpenTasks struct {
	Tab query.Tab
}

// OpenSettings signals to open the settings view
type OpenSettings struct{}

type statsLoadedMsg struct {
	stats query.Stats
}

type statCard struct {
	title string
	tab   query.Tab
	value func(query.Stats) int
	style func(*styles.Styles) lipgloss.Style
}

var statCards = []statCard{
	{"Today's Tasks", query.TabToday, func(s query.Stats) int { return s.Todays }, func(st *styles.Styles) lipgloss.Style { return st.StatValue }},
	{"Pending", query.TabPending, func(s query.Stats) int { return s.Pending }, func(st *styles.Styles) lipgloss.Style { return st.Pending }},
	{"Completed", query.TabCompleted, func(s query.Stats) int { return s.Completed }, func(st *styles.Styles) lipgloss.Style { return st.Completed }},
	{"Overdue", query.TabFollowUps, func(s query.Stats) int { return s.Overdue }, func(st *styles.Styles) lipgloss.Style { return st.Overdue }},
}

// DashboardView shows aggregate counters and the upcoming follow-up list.
type DashboardView struct {
	repo   *repo.Repo
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int
	cursor int
	stats  query.Stats
}

// NewDashboardView creates the dashboard view
func NewDashboardView(r *repo.Repo) *DashboardView {
	return &DashboardView{
		repo:   r,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
	}
}

// Init initializes the view
func (v *DashboardView) Init() tea.Cmd {
	return v.loadStats
}

func (v *DashboardView) loadStats() tea.Msg {
	return statsLoadedMsg{stats: query.ComputeStats(v.repo.Tasks(), time.Now())}
}

// Update handles messages
func (v *DashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case statsLoadedMsg:
		v.stats = msg.stats
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit

		case key.Matches(msg, v.keys.Left), key.Matches(msg, v.keys.Up):
			if v.cursor > 0 {
				v.cursor--
			}
			return v, nil

		case key.Matches(msg, v.keys.Right), key.Matches(msg, v.keys.Down):
			if v.cursor < len(statCards)-1 {
				v.cursor++
			}
			return v, nil

		case key.Matches(msg, v.keys.Enter):
			return v, func() tea.Msg { return OpenTasks{Tab: statCards[v.cursor].tab} }

		case msg.String() == "t":
			return v, func() tea.Msg { return OpenTasks{Tab: query.TabAll} }

		case key.Matches(msg, v.keys.Settings):
			return v, func() tea.Msg { return OpenSettings{} }
		}
	}

	return v, nil
}

// View renders the view
func (v *DashboardView) View() string {
	s := v.styles

	var cards []string
	for i, card := range statCards {
		cardStyle := s.StatCard
		if i == v.cursor {
			cardStyle = s.StatCardFocused
		}
		value := card.style(s).Render(fmt.Sprintf("%d", card.value(v.stats)))
		cards = append(cards, cardStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
			s.StatTitle.Render(card.title),
			value,
		)))
	}

	cardRow := lipgloss.JoinHorizontal(lipgloss.Center, cards[0], " ", cards[1])
	cardRow2 := lipgloss.JoinHorizontal(lipgloss.Center, cards[2], " ", cards[3])

	var b strings.Builder
	b.WriteString(s.Title.Render("Dashboard"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, cardRow, cardRow2))
	b.WriteString("\n\n")
	b.WriteString(v.renderUpcoming())
	b.WriteString("\n")
	b.WriteString(s.Help.Render(
		fmt.Sprintf("%s open • %s tasks • %s settings • %s quit",
			s.HelpKey.Render("↵"),
			s.HelpKey.Render("t"),
			s.HelpKey.Render("s"),
			s.HelpKey.Render("q"),
		),
	))

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *DashboardView) renderUpcoming() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	width := clamp(contentWidth-4, 30, 70)

	heading := s.Title.Render("Upcoming (7 days)")

	if len(v.stats.Upcoming) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			heading,
			s.TitleMuted.Render("No upcoming follow-ups"),
		)
	}

	var rows []string
	for _, u := range v.stats.Upcoming {
		name := u.TaskName
		if name == "" {
			name = u.Title
		}
		if name == "" {
			name = "Untitled"
		}
		left := name
		if u.Title != "" && u.Title != name {
			left += "  " + s.TitleMuted.Render(u.Title)
		}
		right := s.TitleMuted.Render(fmtWhen(u.When) + "  " + string(u.Status))
		rows = append(rows, lipgloss.NewStyle().Width(width).Render(left+"  "+right))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		heading,
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
