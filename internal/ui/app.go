package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/knkapps/followup/internal/repo"
	"github.com/knkapps/followup/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewDashboard View = iota
	ViewTasks
	ViewSettings
)

// App is the top-level bubbletea model switching between the dashboard, the
// task list and the settings screen.
type App struct {
	repo        *repo.Repo
	currentView View
	dashboard   *views.DashboardView
	taskList    *views.TaskListView
	settings    *views.SettingsView
	width       int
	height      int
}

// NewApp creates a new application
func NewApp(r *repo.Repo) *App {
	return &App{
		repo:        r,
		currentView: ViewDashboard,
		dashboard:   views.NewDashboardView(r),
	}
}

func (a *App) Init() tea.Cmd {
	return a.dashboard.Init()
}

func (a *App) resize() tea.Cmd {
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: a.width, Height: a.height}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// The dashboard persists across view switches, keep it sized
		a.dashboard.Update(msg)

	case views.OpenTasks:
		a.currentView = ViewTasks
		a.taskList = views.NewTaskListView(a.repo, msg.Tab)
		return a, tea.Batch(a.taskList.Init(), a.resize())

	case views.OpenSettings:
		a.currentView = ViewSettings
		a.settings = views.NewSettingsView(a.repo)
		return a, tea.Batch(a.settings.Init(), a.resize())

	case views.BackToDashboard:
		a.currentView = ViewDashboard
		return a, tea.Batch(a.dashboard.Init(), a.resize())
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewDashboard:
		_, cmd = a.dashboard.Update(msg)
	case ViewTasks:
		_, cmd = a.taskList.Update(msg)
	case ViewSettings:
		_, cmd = a.settings.Update(msg)
	}

	return a, cmd
}

func (a *App) View() string {
	switch a.currentView {
	case ViewTasks:
		if a.taskList != nil {
			return a.taskList.View()
		}
	case ViewSettings:
		if a.settings != nil {
			return a.settings.View()
		}
	}
	return a.dashboard.View()
}
