package views

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/knkapps/followup/internal/models"
	"github.com/knkapps/followup/internal/query"
	"github.com/knkapps/followup/internal/repo"
	"github.com/knkapps/followup/internal/ui/keys"
	"github.com/knkapps/followup/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// fmtWhen formats a timestamp the way the task views display dates
func fmtWhen(t time.Time) string {
	return t.Format("02/01/2006, 3:04 PM")
}

type taskMode int

const (
	modeList taskMode = iota
	modeDetail
	modeNewTask
	modeNewFollowUp
	modeConfirmDeleteTask
	modeConfirmDeleteFollowUp
)

// BackToDashboard signals to go back to the dashboard
type BackToDashboard struct{}

type tasksLoadedMsg struct {
	tasks []models.Task
}

// TaskListView shows the searchable, filterable task list plus the task
// detail and the add-task / add-follow-up forms.
type TaskListView struct {
	repo   *repo.Repo
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	mode      taskMode
	tasks     []models.Task
	cursor    int
	scrollY   int
	tab       query.Tab
	searching bool
	search    textinput.Model

	// Detail state
	fuCursor int

	// New task form
	taskName     textinput.Model
	taskDate     textinput.Model
	taskNotes    textarea.Model
	taskContact  textinput.Model
	taskPhone    textinput.Model
	taskStatus   models.Status
	projectIdx   int // 0 = none, 1..n = repo.Projects()[i-1]
	deptIdx      int
	taskFocusIdx int // 0=name 1=project 2=department 3=date 4=notes 5=contact 6=phone 7=status 8=save

	// New follow-up form
	fuTitle    textinput.Model
	fuDate     textinput.Model
	fuNotes    textarea.Model
	fuContact  textinput.Model
	fuPhone    textinput.Model
	fuFocusIdx int // 0=title 1=date 2=notes 3=contact 4=phone 5=save

	// Delete confirmation
	deleteTaskID     int64
	deleteTaskName   string
	deleteFollowUpID string

	statusMsg string
	errMsg    string
}

// NewTaskListView creates the task list view opened on the given filter tab.
func NewTaskListView(r *repo.Repo, tab query.Tab) *TaskListView {
	s := styles.NewStyles()

	search := textinput.New()
	search.Placeholder = "Search by name / project / department"
	search.CharLimit = 100

	name := textinput.New()
	name.Placeholder = "Task name"
	name.CharLimit = 200

	date := textinput.New()
	date.Placeholder = "2006-01-02 15:04 (optional)"
	date.CharLimit = 20

	notes := textarea.New()
	notes.Placeholder = "Notes / details"
	notes.CharLimit = 5000
	notes.SetWidth(50)
	notes.SetHeight(3)
	notes.ShowLineNumbers = false

	contact := textinput.New()
	contact.Placeholder = "Contact name (optional)"
	contact.CharLimit = 100

	phone := textinput.New()
	phone.Placeholder = "Phone (optional)"
	phone.CharLimit = 30

	fuTitle := textinput.New()
	fuTitle.Placeholder = "Follow-up title (optional)"
	fuTitle.CharLimit = 200

	fuDate := textinput.New()
	fuDate.Placeholder = "2006-01-02 15:04 (optional)"
	fuDate.CharLimit = 20

	fuNotes := textarea.New()
	fuNotes.Placeholder = "Follow-up notes"
	fuNotes.CharLimit = 2000
	fuNotes.SetWidth(50)
	fuNotes.SetHeight(3)
	fuNotes.ShowLineNumbers = false

	fuContact := textinput.New()
	fuContact.Placeholder = "Contact name (optional)"
	fuContact.CharLimit = 100

	fuPhone := textinput.New()
	fuPhone.Placeholder = "Phone (optional)"
	fuPhone.CharLimit = 30

	if tab == "" {
		tab = query.TabAll
	}

	return &TaskListView{
		repo:        r,
		styles:      s,
		keys:        keys.DefaultKeyMap(),
		tab:         tab,
		search:      search,
		taskName:    name,
		taskDate:    date,
		taskNotes:   notes,
		taskContact: contact,
		taskPhone:   phone,
		taskStatus:  models.StatusPending,
		fuTitle:     fuTitle,
		fuDate:      fuDate,
		fuNotes:     fuNotes,
		fuContact:   fuContact,
		fuPhone:     fuPhone,
	}
}

// Init initializes the view
func (v *TaskListView) Init() tea.Cmd {
	return v.loadTasks
}

func (v *TaskListView) loadTasks() tea.Msg {
	opts := query.Options{Search: v.search.Value(), Tab: v.tab}
	return tasksLoadedMsg{tasks: query.FilterTasks(v.repo.Tasks(), opts, time.Now())}
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		inputWidth := clamp(contentWidth-10, 20, 50)
		v.taskNotes.SetWidth(inputWidth)
		v.fuNotes.SetWidth(inputWidth)
		return v, nil

	case tasksLoadedMsg:
		v.tasks = msg.tasks
		if v.cursor >= len(v.tasks) {
			v.cursor = max(0, len(v.tasks)-1)
		}
		return v, nil

	case tea.KeyMsg:
		v.statusMsg = ""
		switch v.mode {
		case modeDetail:
			return v.updateDetail(msg)
		case modeNewTask:
			return v.updateNewTask(msg)
		case modeNewFollowUp:
			return v.updateNewFollowUp(msg)
		case modeConfirmDeleteTask, modeConfirmDeleteFollowUp:
			return v.updateConfirmDelete(msg)
		default:
			return v.updateList(msg)
		}
	}

	return v, nil
}

func (v *TaskListView) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Typing in the search box takes precedence over hotkeys
	if v.searching {
		switch {
		case key.Matches(msg, v.keys.Back):
			v.searching = false
			v.search.Blur()
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			v.searching = false
			v.search.Blur()
			return v, v.loadTasks
		default:
			var cmd tea.Cmd
			v.search, cmd = v.search.Update(msg)
			return v, tea.Batch(cmd, v.loadTasks)
		}
	}

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return BackToDashboard{} }

	case key.Matches(msg, v.keys.Search):
		v.searching = true
		v.search.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Left):
		v.tab = prevTab(v.tab)
		v.cursor = 0
		v.scrollY = 0
		return v, v.loadTasks

	case key.Matches(msg, v.keys.Right):
		v.tab = nextTab(v.tab)
		v.cursor = 0
		v.scrollY = 0
		return v, v.loadTasks

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.tasks)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if len(v.tasks) > 0 {
			v.mode = modeDetail
			v.fuCursor = 0
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startNewTask()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.FollowUp):
		if len(v.tasks) > 0 {
			v.startNewFollowUp()
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if len(v.tasks) > 0 {
			v.mode = modeConfirmDeleteTask
			v.deleteTaskID = v.tasks[v.cursor].ID
			v.deleteTaskName = v.tasks[v.cursor].Name
		}
		return v, nil

	case key.Matches(msg, v.keys.Toggle):
		if len(v.tasks) > 0 {
			t := v.tasks[v.cursor]
			if err := v.repo.UpdateTaskStatus(t.ID, otherStatus(t.Status)); err != nil {
				v.errMsg = err.Error()
			}
			return v, v.loadTasks
		}
		return v, nil
	}

	return v, nil
}

func (v *TaskListView) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(v.tasks) == 0 {
		v.mode = modeList
		return v, nil
	}
	task := v.tasks[v.cursor]
	fus := sortedFollowUps(task)

	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = modeList
		return v, nil

	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Up):
		if v.fuCursor > 0 {
			v.fuCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.fuCursor < len(fus)-1 {
			v.fuCursor++
		}
		return v, nil

	case msg.String() == "p":
		// Flip the task's own status
		if err := v.repo.UpdateTaskStatus(task.ID, otherStatus(task.Status)); err != nil {
			v.errMsg = err.Error()
		}
		return v, v.loadTasks

	case key.Matches(msg, v.keys.Toggle):
		if v.fuCursor < len(fus) {
			fu := fus[v.fuCursor]
			if err := v.repo.UpdateFollowUpStatus(task.ID, fu.ID, otherStatus(fu.Status)); err != nil {
				v.errMsg = err.Error()
			}
			return v, v.loadTasks
		}
		return v, nil

	case key.Matches(msg, v.keys.FollowUp):
		v.startNewFollowUp()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Delete):
		if v.fuCursor < len(fus) {
			v.mode = modeConfirmDeleteFollowUp
			v.deleteTaskID = task.ID
			v.deleteFollowUpID = fus[v.fuCursor].ID
		}
		return v, nil

	case msg.String() == "D":
		v.mode = modeConfirmDeleteTask
		v.deleteTaskID = task.ID
		v.deleteTaskName = task.Name
		return v, nil
	}

	return v, nil
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		var err error
		if v.mode == modeConfirmDeleteTask {
			err = v.repo.DeleteTask(v.deleteTaskID)
			v.mode = modeList
		} else {
			err = v.repo.DeleteFollowUp(v.deleteTaskID, v.deleteFollowUpID)
			v.mode = modeDetail
			v.fuCursor = 0
		}
		if err != nil {
			v.errMsg = err.Error()
		}
		return v, v.loadTasks
	case "n", "N", "esc":
		if v.mode == modeConfirmDeleteTask {
			v.mode = modeList
		} else {
			v.mode = modeDetail
		}
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) startNewTask() {
	v.mode = modeNewTask
	v.taskFocusIdx = 0
	v.taskName.Reset()
	v.taskDate.Reset()
	v.taskNotes.Reset()
	v.taskContact.Reset()
	v.taskPhone.Reset()
	v.taskStatus = models.StatusPending
	v.projectIdx = 0
	v.deptIdx = 0
	v.errMsg = ""
	v.updateTaskFocus()
}

func (v *TaskListView) startNewFollowUp() {
	v.mode = modeNewFollowUp
	v.fuFocusIdx = 0
	v.fuTitle.Reset()
	v.fuDate.Reset()
	v.fuNotes.Reset()
	v.fuContact.Reset()
	v.fuPhone.Reset()
	v.errMsg = ""
	v.updateFollowUpFocus()
}

func (v *TaskListView) updateNewTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	projects := v.repo.Projects()
	departments := v.repo.Departments()

	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = modeList
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.saveTask()

	case key.Matches(msg, v.keys.Tab):
		v.taskFocusIdx = (v.taskFocusIdx + 1) % 9
		v.updateTaskFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.taskFocusIdx = (v.taskFocusIdx + 8) % 9
		v.updateTaskFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.taskFocusIdx == 8 {
			return v, v.saveTask()
		}
		if v.taskFocusIdx != 4 { // textarea keeps enter for newlines
			v.taskFocusIdx++
			v.updateTaskFocus()
			return v, nil
		}

	case key.Matches(msg, v.keys.Left):
		switch v.taskFocusIdx {
		case 1:
			v.projectIdx = (v.projectIdx + len(projects)) % (len(projects) + 1)
		case 2:
			v.deptIdx = (v.deptIdx + len(departments)) % (len(departments) + 1)
		case 7:
			v.taskStatus = otherStatus(v.taskStatus)
		}

	case key.Matches(msg, v.keys.Right):
		switch v.taskFocusIdx {
		case 1:
			v.projectIdx = (v.projectIdx + 1) % (len(projects) + 1)
		case 2:
			v.deptIdx = (v.deptIdx + 1) % (len(departments) + 1)
		case 7:
			v.taskStatus = otherStatus(v.taskStatus)
		}
	}

	var cmd tea.Cmd
	switch v.taskFocusIdx {
	case 0:
		v.taskName, cmd = v.taskName.Update(msg)
	case 3:
		v.taskDate, cmd = v.taskDate.Update(msg)
	case 4:
		v.taskNotes, cmd = v.taskNotes.Update(msg)
	case 5:
		v.taskContact, cmd = v.taskContact.Update(msg)
	case 6:
		v.taskPhone, cmd = v.taskPhone.Update(msg)
	}
	return v, cmd
}

func (v *TaskListView) updateTaskFocus() {
	v.taskName.Blur()
	v.taskDate.Blur()
	v.taskNotes.Blur()
	v.taskContact.Blur()
	v.taskPhone.Blur()

	switch v.taskFocusIdx {
	case 0:
		v.taskName.Focus()
	case 3:
		v.taskDate.Focus()
	case 4:
		v.taskNotes.Focus()
	case 5:
		v.taskContact.Focus()
	case 6:
		v.taskPhone.Focus()
	}
}

func (v *TaskListView) saveTask() tea.Cmd {
	projects := v.repo.Projects()
	departments := v.repo.Departments()

	fields := repo.TaskFields{
		Name:   v.taskName.Value(),
		Notes:  strings.TrimSpace(v.taskNotes.Value()),
		Status: v.taskStatus,
	}
	if v.projectIdx > 0 && v.projectIdx <= len(projects) {
		fields.Project = projects[v.projectIdx-1]
	}
	if v.deptIdx > 0 && v.deptIdx <= len(departments) {
		fields.Department = departments[v.deptIdx-1]
	}
	if dateStr := strings.TrimSpace(v.taskDate.Value()); dateStr != "" {
		when, ok := models.ParseWhen(dateStr)
		if !ok {
			v.errMsg = "unrecognized date, use 2006-01-02 15:04"
			return nil
		}
		fields.FollowUpDate = when
	}
	contact := strings.TrimSpace(v.taskContact.Value())
	phone := strings.TrimSpace(v.taskPhone.Value())
	if contact != "" || phone != "" {
		fields.Contact = &models.Contact{Name: contact, Phone: phone}
	}

	if _, err := v.repo.CreateTask(fields); err != nil {
		v.errMsg = err.Error()
		return nil
	}

	v.mode = modeList
	v.statusMsg = "Task created"
	return v.loadTasks
}

func (v *TaskListView) updateNewFollowUp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = modeList
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.saveFollowUp()

	case key.Matches(msg, v.keys.Tab):
		v.fuFocusIdx = (v.fuFocusIdx + 1) % 6
		v.updateFollowUpFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.fuFocusIdx = (v.fuFocusIdx + 5) % 6
		v.updateFollowUpFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.fuFocusIdx == 5 {
			return v, v.saveFollowUp()
		}
		if v.fuFocusIdx != 2 {
			v.fuFocusIdx++
			v.updateFollowUpFocus()
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.fuFocusIdx {
	case 0:
		v.fuTitle, cmd = v.fuTitle.Update(msg)
	case 1:
		v.fuDate, cmd = v.fuDate.Update(msg)
	case 2:
		v.fuNotes, cmd = v.fuNotes.Update(msg)
	case 3:
		v.fuContact, cmd = v.fuContact.Update(msg)
	case 4:
		v.fuPhone, cmd = v.fuPhone.Update(msg)
	}
	return v, cmd
}

func (v *TaskListView) updateFollowUpFocus() {
	v.fuTitle.Blur()
	v.fuDate.Blur()
	v.fuNotes.Blur()
	v.fuContact.Blur()
	v.fuPhone.Blur()

	switch v.fuFocusIdx {
	case 0:
		v.fuTitle.Focus()
	case 1:
		v.fuDate.Focus()
	case 2:
		v.fuNotes.Focus()
	case 3:
		v.fuContact.Focus()
	case 4:
		v.fuPhone.Focus()
	}
}

func (v *TaskListView) saveFollowUp() tea.Cmd {
	if len(v.tasks) == 0 || v.cursor >= len(v.tasks) {
		v.mode = modeList
		return nil
	}
	taskID := v.tasks[v.cursor].ID

	fields := repo.FollowUpFields{
		Title: strings.TrimSpace(v.fuTitle.Value()),
		Notes: strings.TrimSpace(v.fuNotes.Value()),
	}
	if dateStr := strings.TrimSpace(v.fuDate.Value()); dateStr != "" {
		when, ok := models.ParseWhen(dateStr)
		if !ok {
			v.errMsg = "unrecognized date, use 2006-01-02 15:04"
			return nil
		}
		fields.Date = when
	}
	contact := strings.TrimSpace(v.fuContact.Value())
	phone := strings.TrimSpace(v.fuPhone.Value())
	if contact != "" || phone != "" {
		fields.Contact = &models.Contact{Name: contact, Phone: phone}
	}

	if _, err := v.repo.AddFollowUp(taskID, fields); err != nil {
		v.errMsg = err.Error()
		return nil
	}

	v.mode = modeList
	v.statusMsg = "Follow-up added"
	return v.loadTasks
}

func (v *TaskListView) ensureVisible() {
	// Each task item is 2 lines + 1 margin
	availableHeight := v.height - 12
	if availableHeight < 3 {
		availableHeight = 3
	}
	visibleItems := availableHeight / 3
	if visibleItems < 1 {
		visibleItems = 1
	}

	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

func otherStatus(s models.Status) models.Status {
	if s.Normalize() == models.StatusPending {
		return models.StatusCompleted
	}
	return models.StatusPending
}

func prevTab(t query.Tab) query.Tab {
	for i, tab := range query.Tabs {
		if tab == t {
			return query.Tabs[(i+len(query.Tabs)-1)%len(query.Tabs)]
		}
	}
	return query.TabAll
}

func nextTab(t query.Tab) query.Tab {
	for i, tab := range query.Tabs {
		if tab == t {
			return query.Tabs[(i+1)%len(query.Tabs)]
		}
	}
	return query.TabAll
}

// sortedFollowUps orders follow-ups newest-first by date, falling back to
// creation time for dateless ones.
func sortedFollowUps(t models.Task) []models.FollowUp {
	fus := append([]models.FollowUp(nil), t.FollowUps...)
	at := func(fu models.FollowUp) time.Time {
		if !fu.Date.IsZero() {
			return fu.Date.Time
		}
		return fu.CreatedAt.Time
	}
	sort.SliceStable(fus, func(i, j int) bool {
		return at(fus[i]).After(at(fus[j]))
	})
	return fus
}

// View renders the view
func (v *TaskListView) View() string {
	switch v.mode {
	case modeDetail:
		return v.renderDetail()
	case modeNewTask:
		return v.renderNewTask()
	case modeNewFollowUp:
		return v.renderNewFollowUp()
	case modeConfirmDeleteTask:
		return v.renderConfirm(fmt.Sprintf("Delete %q and all follow-ups?", v.deleteTaskName))
	case modeConfirmDeleteFollowUp:
		return v.renderConfirm("Delete this follow-up?")
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderTaskList())
	b.WriteString("\n")
	b.WriteString(v.renderFooter())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) renderHeader() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	searchStyle := s.Input
	if v.searching {
		searchStyle = s.InputFocused
	}
	searchWidth := clamp(contentWidth-8, 16, 44)
	searchBox := searchStyle.Width(searchWidth).Render(v.search.View())

	var tabs []string
	for _, tab := range query.Tabs {
		if tab == v.tab {
			tabs = append(tabs, s.TabActive.Render(string(tab)))
		} else {
			tabs = append(tabs, s.Tab.Render(string(tab)))
		}
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Center, tabs...)

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Tasks"),
		searchBox,
		tabRow,
	)
}

func (v *TaskListView) renderTaskList() string {
	s := v.styles

	if len(v.tasks) == 0 {
		return s.TitleMuted.Render("No tasks. Press 'n' to create one.")
	}

	availableHeight := v.height - 12
	if availableHeight < 3 {
		availableHeight = 3
	}
	visibleItems := availableHeight / 3
	if visibleItems < 1 {
		visibleItems = 1
	}

	var items []string
	endIdx := min(v.scrollY+visibleItems, len(v.tasks))

	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, v.renderTaskItem(v.tasks[i], i == v.cursor))
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TaskListView) renderTaskItem(task models.Task, selected bool) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	width := max(contentWidth-4, 20)

	titleLine := task.Name
	if task.Status.Normalize() == models.StatusCompleted {
		titleLine = "✓ " + titleLine
	}

	var meta []string
	if task.Project != "" {
		meta = append(meta, task.Project)
	}
	if task.Department != "" {
		meta = append(meta, task.Department)
	}
	if next, ok := query.NextFollowUp(task, time.Now()); ok {
		meta = append(meta, "next "+fmtWhen(next))
	}
	if n := len(task.FollowUps); n > 0 {
		meta = append(meta, fmt.Sprintf("%d follow-ups", n))
	}
	metaLine := strings.Join(meta, " • ")
	if metaLine == "" {
		metaLine = string(task.Status.Normalize())
	}

	var titleStyle, metaStyle lipgloss.Style
	if selected {
		titleStyle = s.ListSelected.Width(width)
		metaStyle = s.ListSelected.Width(width)
	} else {
		titleStyle = s.ListItem.Width(width)
		metaStyle = s.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(titleLine),
		metaStyle.Render(metaLine),
	) + "\n"
}

func (v *TaskListView) renderFooter() string {
	s := v.styles
	if v.errMsg != "" {
		return s.ErrorLine.Render(v.errMsg)
	}
	if v.statusMsg != "" {
		return s.StatusLine.Render(v.statusMsg)
	}
	return s.Help.Render(
		fmt.Sprintf("%s view • %s new • %s follow-up • %s del • %s status • %s search • %s tab • %s back • %s quit",
			s.HelpKey.Render("↵"),
			s.HelpKey.Render("n"),
			s.HelpKey.Render("f"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("space"),
			s.HelpKey.Render("/"),
			s.HelpKey.Render("←→"),
			s.HelpKey.Render("esc"),
			s.HelpKey.Render("q"),
		),
	)
}

func (v *TaskListView) renderDetail() string {
	if len(v.tasks) == 0 || v.cursor >= len(v.tasks) {
		return ""
	}

	s := v.styles
	task := v.tasks[v.cursor]
	contentWidth := styles.ContentWidth(v.width)
	textWidth := clamp(contentWidth-10, 20, 70)

	nextText := "-"
	if next, ok := query.NextFollowUp(task, time.Now()); ok {
		nextText = fmtWhen(next)
	} else if !task.FollowUpDate.IsZero() {
		// Show the stale date rather than nothing
		nextText = fmtWhen(task.FollowUpDate.Time)
	}

	statusStyled := s.Pending.Render(string(task.Status.Normalize()))
	if task.Status.Normalize() == models.StatusCompleted {
		statusStyled = s.Completed.Render(string(task.Status))
	}

	notesText := task.Notes
	if notesText == "" {
		notesText = s.TitleMuted.Render("No notes")
	}

	meta := []string{"Created: " + fmtWhen(task.CreatedAt.Time), "Next: " + nextText}
	if task.Project != "" {
		meta = append(meta, "Project: "+task.Project)
	}
	if task.Department != "" {
		meta = append(meta, "Department: "+task.Department)
	}
	if task.Contact != nil {
		meta = append(meta, "Contact: "+strings.TrimSpace(task.Contact.Name+" "+task.Contact.Phone))
	}

	fus := sortedFollowUps(task)
	var fuContent string
	if len(fus) == 0 {
		fuContent = s.TitleMuted.Render("No follow-ups")
	} else {
		var rows []string
		for i, fu := range fus {
			title := fu.Title
			if title == "" {
				title = "Follow-Up"
			}
			when := ""
			if !fu.Date.IsZero() {
				when = fmtWhen(fu.Date.Time)
			} else if !fu.CreatedAt.IsZero() {
				when = fmtWhen(fu.CreatedAt.Time)
			}
			status := s.Pending.Render(string(fu.Status.Normalize()))
			if fu.Status.Normalize() == models.StatusCompleted {
				status = s.Completed.Render(string(fu.Status))
			}
			line := title + "  " + when + "  " + status
			if fu.Notes != "" {
				line += "\n" + fu.Notes
			}
			itemStyle := s.ListItem
			if i == v.fuCursor {
				itemStyle = s.ListSelected
			}
			rows = append(rows, itemStyle.Width(textWidth).Render(line))
		}
		fuContent = lipgloss.JoinVertical(lipgloss.Left, rows...)
	}

	help := s.Help.Render(
		fmt.Sprintf("%s task status • %s follow-up status • %s follow-up • %s del follow-up • %s del task • %s back",
			s.HelpKey.Render("p"),
			s.HelpKey.Render("space"),
			s.HelpKey.Render("f"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("D"),
			s.HelpKey.Render("esc"),
		),
	)
	if v.errMsg != "" {
		help = s.ErrorLine.Render(v.errMsg)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(task.Name),
		s.TitleMuted.Render(strings.Join(meta, "  •  ")),
		"",
		s.TitleMuted.Render("Status"),
		statusStyled,
		"",
		s.TitleMuted.Render("Notes"),
		lipgloss.NewStyle().Width(textWidth).Render(notesText),
		"",
		s.TitleMuted.Render("Follow-ups"),
		fuContent,
		"",
		help,
	)

	padded := lipgloss.NewStyle().Padding(1, 2).Render(content)
	return styles.CenterView(padded, v.width, v.height)
}

func (v *TaskListView) renderNewTask() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	projects := v.repo.Projects()
	departments := v.repo.Departments()

	projectLabel := "(none)"
	if v.projectIdx > 0 && v.projectIdx <= len(projects) {
		projectLabel = projects[v.projectIdx-1]
	}
	deptLabel := "(none)"
	if v.deptIdx > 0 && v.deptIdx <= len(departments) {
		deptLabel = departments[v.deptIdx-1]
	}

	field := func(idx int, view string) string {
		style := s.Input
		if v.taskFocusIdx == idx {
			style = s.InputFocused
		}
		return style.Width(inputWidth).Render(view)
	}
	selector := func(idx int, label string) string {
		style := s.Button
		if v.taskFocusIdx == idx {
			style = s.ButtonFocused
		}
		return style.Render("◂ " + label + " ▸")
	}
	btnStyle := s.Button
	if v.taskFocusIdx == 8 {
		btnStyle = s.ButtonFocused
	}

	footer := s.TitleMuted.Render("Tab: next • ←→: choose • Ctrl+S: save • Esc: cancel")
	if v.errMsg != "" {
		footer = s.ErrorLine.Render(v.errMsg)
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Add Task"),
		"",
		"Name:",
		field(0, v.taskName.View()),
		"",
		"Project:",
		selector(1, projectLabel),
		"",
		"Department:",
		selector(2, deptLabel),
		"",
		"Next follow-up date:",
		field(3, v.taskDate.View()),
		"",
		"Notes:",
		field(4, v.taskNotes.View()),
		"",
		"Contact:",
		field(5, v.taskContact.View()),
		field(6, v.taskPhone.View()),
		"",
		"Status:",
		selector(7, string(v.taskStatus)),
		"",
		btnStyle.Render(" Save Task "),
		"",
		footer,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderNewFollowUp() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	taskName := ""
	if len(v.tasks) > 0 && v.cursor < len(v.tasks) {
		taskName = v.tasks[v.cursor].Name
	}

	field := func(idx int, view string) string {
		style := s.Input
		if v.fuFocusIdx == idx {
			style = s.InputFocused
		}
		return style.Width(inputWidth).Render(view)
	}
	btnStyle := s.Button
	if v.fuFocusIdx == 5 {
		btnStyle = s.ButtonFocused
	}

	footer := s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel")
	if v.errMsg != "" {
		footer = s.ErrorLine.Render(v.errMsg)
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Add Follow-Up"),
		s.TitleMuted.Render(taskName),
		"",
		"Title:",
		field(0, v.fuTitle.View()),
		"",
		"Date:",
		field(1, v.fuDate.View()),
		"",
		"Notes:",
		field(2, v.fuNotes.View()),
		"",
		"Contact:",
		field(3, v.fuContact.View()),
		field(4, v.fuPhone.View()),
		"",
		btnStyle.Render(" Save "),
		"",
		footer,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderConfirm(prompt string) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

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
