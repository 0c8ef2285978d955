package views

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/knkapps/followup/internal/repo"
	"github.com/knkapps/followup/internal/store"
	"github.com/knkapps/followup/internal/ui/keys"
	"github.com/knkapps/followup/internal/ui/styles"
)

type settingsFocus int

const (
	focusAddProject settingsFocus = iota
	focusProjectList
	focusAddDepartment
	focusDepartmentList
	focusExport
	focusImport
)

// SettingsView manages project/department names and backup export/import.
type SettingsView struct {
	repo   *repo.Repo
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	focus      settingsFocus
	projCursor int
	deptCursor int
	newProject textinput.Model
	newDept    textinput.Model
	importPath textinput.Model

	// Pending name deletion, nil when none
	confirmKind string // "project" or "department"
	confirmName string

	statusMsg string
	errMsg    string
}

// NewSettingsView creates the settings view
func NewSettingsView(r *repo.Repo) *SettingsView {
	newProject := textinput.New()
	newProject.Placeholder = "Add project name"
	newProject.CharLimit = 100

	newDept := textinput.New()
	newDept.Placeholder = "Add department name"
	newDept.CharLimit = 100

	importPath := textinput.New()
	importPath.Placeholder = "Path to backup .json"
	importPath.CharLimit = 300

	v := &SettingsView{
		repo:       r,
		styles:     styles.NewStyles(),
		keys:       keys.DefaultKeyMap(),
		newProject: newProject,
		newDept:    newDept,
		importPath: importPath,
	}
	v.newProject.Focus()
	return v
}

// Init initializes the view
func (v *SettingsView) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (v *SettingsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		if v.confirmName != "" {
			return v.updateConfirm(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *SettingsView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	typing := v.focus == focusAddProject || v.focus == focusAddDepartment || v.focus == focusImport

	switch {
	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return BackToDashboard{} }

	case key.Matches(msg, v.keys.Quit) && !typing:
		return v, tea.Quit

	case key.Matches(msg, v.keys.Tab):
		v.cycleFocus()
		return v, nil

	case key.Matches(msg, v.keys.Up):
		switch v.focus {
		case focusProjectList:
			if v.projCursor > 0 {
				v.projCursor--
			}
			return v, nil
		case focusDepartmentList:
			if v.deptCursor > 0 {
				v.deptCursor--
			}
			return v, nil
		}

	case key.Matches(msg, v.keys.Down):
		switch v.focus {
		case focusProjectList:
			if v.projCursor < len(v.repo.Projects())-1 {
				v.projCursor++
			}
			return v, nil
		case focusDepartmentList:
			if v.deptCursor < len(v.repo.Departments())-1 {
				v.deptCursor++
			}
			return v, nil
		}

	case key.Matches(msg, v.keys.Delete):
		switch v.focus {
		case focusProjectList:
			if names := v.repo.Projects(); len(names) > 0 {
				v.confirmKind = "project"
				v.confirmName = names[v.projCursor]
			}
			return v, nil
		case focusDepartmentList:
			if names := v.repo.Departments(); len(names) > 0 {
				v.confirmKind = "department"
				v.confirmName = names[v.deptCursor]
			}
			return v, nil
		}

	case key.Matches(msg, v.keys.Enter):
		v.statusMsg = ""
		v.errMsg = ""
		switch v.focus {
		case focusAddProject:
			if err := v.repo.AddProject(v.newProject.Value()); err != nil {
				v.errMsg = err.Error()
			} else {
				v.newProject.Reset()
			}
			return v, nil
		case focusAddDepartment:
			if err := v.repo.AddDepartment(v.newDept.Value()); err != nil {
				v.errMsg = err.Error()
			} else {
				v.newDept.Reset()
			}
			return v, nil
		case focusExport:
			v.runExport()
			return v, nil
		case focusImport:
			v.runImport()
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.focus {
	case focusAddProject:
		v.newProject, cmd = v.newProject.Update(msg)
	case focusAddDepartment:
		v.newDept, cmd = v.newDept.Update(msg)
	case focusImport:
		v.importPath, cmd = v.importPath.Update(msg)
	}
	return v, cmd
}

func (v *SettingsView) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		var err error
		if v.confirmKind == "project" {
			err = v.repo.DeleteProject(v.confirmName)
			if v.projCursor > 0 {
				v.projCursor--
			}
		} else {
			err = v.repo.DeleteDepartment(v.confirmName)
			if v.deptCursor > 0 {
				v.deptCursor--
			}
		}
		if err != nil {
			v.errMsg = err.Error()
		} else {
			v.statusMsg = fmt.Sprintf("Deleted %s %q, tasks kept", v.confirmKind, v.confirmName)
		}
		v.confirmKind = ""
		v.confirmName = ""
		return v, nil
	case "n", "N", "esc":
		v.confirmKind = ""
		v.confirmName = ""
		return v, nil
	}
	return v, nil
}

func (v *SettingsView) cycleFocus() {
	v.newProject.Blur()
	v.newDept.Blur()
	v.importPath.Blur()

	v.focus = (v.focus + 1) % 6

	switch v.focus {
	case focusAddProject:
		v.newProject.Focus()
	case focusAddDepartment:
		v.newDept.Focus()
	case focusImport:
		v.importPath.Focus()
	}
}

func (v *SettingsView) runExport() {
	name := store.BackupFileName(time.Now())
	home, err := os.UserHomeDir()
	if err != nil {
		v.errMsg = err.Error()
		return
	}
	path := filepath.Join(home, name)

	f, err := os.Create(path)
	if err != nil {
		v.errMsg = err.Error()
		return
	}
	defer f.Close()

	if err := store.Export(f, v.repo.Snapshot(), time.Now()); err != nil {
		v.errMsg = err.Error()
		return
	}
	v.statusMsg = "Exported to " + path
}

func (v *SettingsView) runImport() {
	path := strings.TrimSpace(v.importPath.Value())
	if path == "" {
		v.errMsg = "enter a backup file path"
		return
	}

	f, err := os.Open(path)
	if err != nil {
		v.errMsg = err.Error()
		return
	}
	defer f.Close()

	snap, err := store.Import(f)
	if err != nil {
		v.errMsg = "Import failed: " + err.Error()
		return
	}
	if err := v.repo.ReplaceAll(snap); err != nil {
		v.errMsg = err.Error()
		return
	}
	v.importPath.Reset()
	v.statusMsg = fmt.Sprintf("Imported %d tasks", len(snap.Tasks))
}

// View renders the view
func (v *SettingsView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	colWidth := clamp(contentWidth/2-4, 24, 40)

	if v.confirmName != "" {
		return v.renderConfirm()
	}

	projects := v.renderNames("Projects", v.repo.Projects(), v.newProject,
		v.focus == focusAddProject, v.focus == focusProjectList, v.projCursor, colWidth)
	departments := v.renderNames("Departments", v.repo.Departments(), v.newDept,
		v.focus == focusAddDepartment, v.focus == focusDepartmentList, v.deptCursor, colWidth)

	exportStyle := s.Button
	if v.focus == focusExport {
		exportStyle = s.ButtonFocused
	}
	importStyle := s.Input
	if v.focus == focusImport {
		importStyle = s.InputFocused
	}

	backup := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Backup"),
		exportStyle.Render(" Export data "),
		importStyle.Width(clamp(contentWidth-10, 24, 60)).Render(v.importPath.View()),
	)

	footer := s.Help.Render(
		fmt.Sprintf("%s next • %s add/run • %s delete • %s back",
			s.HelpKey.Render("tab"),
			s.HelpKey.Render("↵"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("esc"),
		),
	)
	if v.errMsg != "" {
		footer = s.ErrorLine.Render(v.errMsg)
	} else if v.statusMsg != "" {
		footer = s.StatusLine.Render(v.statusMsg)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Settings"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, projects, "  ", departments),
		"",
		backup,
		"",
		footer,
	)

	return styles.CenterView(content, v.width, v.height)
}

func (v *SettingsView) renderNames(title string, names []string, input textinput.Model, inputFocused, listFocused bool, cursor, width int) string {
	s := v.styles

	inputStyle := s.Input
	if inputFocused {
		inputStyle = s.InputFocused
	}

	var items []string
	if len(names) == 0 {
		items = append(items, s.TitleMuted.Render("None"))
	}
	for i, name := range names {
		itemStyle := s.ListItem
		if listFocused && i == cursor {
			itemStyle = s.ListSelected
		}
		items = append(items, itemStyle.Width(width-4).Render(name))
	}

	return s.Panel.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(title),
		inputStyle.Width(width-4).Render(input.View()),
		lipgloss.JoinVertical(lipgloss.Left, items...),
	))
}

func (v *SettingsView) renderConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	prompt := fmt.Sprintf("Delete %s %q? Tasks referencing it are kept.", v.confirmKind, v.confirmName)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render(prompt),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonDanger.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}
