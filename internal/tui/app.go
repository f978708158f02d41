package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clinimed/agenda/internal/browser"
	"github.com/clinimed/agenda/internal/guard"
	"github.com/clinimed/agenda/internal/session"
	"github.com/clinimed/agenda/pkg/client"
	"github.com/clinimed/agenda/pkg/domain"
)

type view int

const (
	viewHome view = iota
	viewBook
	viewLogin
	viewRegister
	viewDashboard
	viewAppointments
	viewSchedules
	viewDoctors
	viewProfile
)

// viewRoles returns whether a view needs a session and which roles may
// open it. An empty role list means any authenticated user.
func viewRoles(v view) (protected bool, roles []domain.Role) {
	switch v {
	case viewDashboard, viewAppointments, viewProfile:
		return true, nil
	case viewSchedules:
		return true, []domain.Role{domain.RoleDoctor}
	case viewDoctors:
		return true, []domain.Role{domain.RoleReceptionist}
	default:
		return false, nil
	}
}

// sessionChangedMsg carries a fresh session snapshot from the manager.
type sessionChangedMsg session.Session

// restoreDoneMsg reports the startup session restore.
type restoreDoneMsg struct{ err error }

// toastMsg shows a transient one-line notice above the help bar.
type toastMsg struct {
	text string
	kind toastKind
}

type toastKind int

const (
	toastInfo toastKind = iota
	toastOK
	toastError
)

type toastExpireMsg struct{ seq int }

const toastDuration = 3 * time.Second

// requestLogoutMsg is emitted by the profile view.
type requestLogoutMsg struct{}

// App is the root Bubbletea model.
type App struct {
	mgr       *session.Manager
	client    *client.Client
	sessionCh <-chan session.Session
	sess      session.Session

	view       view
	pending    view // navigation parked while the session resolves
	hasPending bool

	afterLogin    view // view requested before being sent to sign in
	hasAfterLogin bool

	home         homeModel
	book         bookModel
	login        loginModel
	register     registerModel
	dashboard    dashboardModel
	appointments appointmentsModel
	schedules    schedulesModel
	doctors      doctorsModel
	profile      profileModel

	helpOpen   bool
	helpCursor int

	toast     string
	toastKind toastKind
	toastSeq  int

	width  int
	height int
	frame  int // logo shimmer animation frame
}

// NewApp creates the TUI application.
func NewApp(c *client.Client, mgr *session.Manager) App {
	return App{
		mgr:          mgr,
		client:       c,
		sessionCh:    mgr.Subscribe(),
		sess:         mgr.Current(),
		home:         newHomeModel(c),
		book:         newBookModel(c),
		login:        newLoginModel(mgr),
		register:     newRegisterModel(mgr),
		dashboard:    newDashboardModel(c),
		appointments: newAppointmentsModel(c),
		schedules:    newSchedulesModel(c),
		doctors:      newDoctorsModel(c),
		profile:      newProfileModel(),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(shimmerTickCmd(), a.restoreSession(), a.waitSession(), a.home.Init())
}

func (a App) restoreSession() tea.Cmd {
	mgr := a.mgr
	return func() tea.Msg {
		return restoreDoneMsg{err: mgr.Restore(context.Background())}
	}
}

func (a App) waitSession() tea.Cmd {
	ch := a.sessionCh
	return func() tea.Msg {
		return sessionChangedMsg(<-ch)
	}
}

func showToast(text string, kind toastKind) tea.Cmd {
	return func() tea.Msg {
		return toastMsg{text: text, kind: kind}
	}
}

// goTo navigates to v, letting the guard decide for protected views.
func (a App) goTo(v view) (App, tea.Cmd) {
	protected, roles := viewRoles(v)
	if !protected {
		a.view = v
		a.hasPending = false
		if v != viewLogin {
			a.hasAfterLogin = false
		}
		return a, a.initView(v)
	}

	res := guard.Evaluate(a.sess, roles...)
	switch res.Decision {
	case guard.Pending:
		a.pending = v
		a.hasPending = true
		return a, nil
	case guard.Redirecting:
		a.hasPending = false
		if res.Target == guard.TargetDashboard {
			a.view = viewDashboard
			return a, tea.Batch(a.initView(viewDashboard), showToast("You don't have access to that page", toastError))
		}
		a.view = viewLogin
		a.afterLogin = v
		a.hasAfterLogin = true
		return a, tea.Batch(a.initView(viewLogin), showToast("Sign in to continue", toastInfo))
	}

	a.view = v
	a.hasPending = false
	return a, a.initView(v)
}

func (a *App) initView(v view) tea.Cmd {
	switch v {
	case viewHome:
		return a.home.Init()
	case viewBook:
		return a.book.Init()
	case viewLogin:
		return a.login.Init()
	case viewRegister:
		return a.register.Init()
	case viewDashboard:
		a.dashboard.sess = a.sess
		return a.dashboard.Init()
	case viewAppointments:
		a.appointments.sess = a.sess
		return a.appointments.Init()
	case viewSchedules:
		return a.schedules.Init()
	case viewDoctors:
		return a.doctors.Init()
	case viewProfile:
		a.profile.sess = a.sess
		return nil
	}
	return nil
}

type tabEntry struct {
	key  string
	name string
	v    view
}

// tabs returns the navigation entries for the current session. Staff
// and visitors see different sets; tabs never point at views the guard
// would bounce.
func (a App) tabs() []tabEntry {
	switch {
	case a.sess.HasRole(domain.RoleDoctor):
		return []tabEntry{
			{"1", "Home", viewHome},
			{"2", "Book", viewBook},
			{"3", "Dashboard", viewDashboard},
			{"4", "Appointments", viewAppointments},
			{"5", "Schedules", viewSchedules},
			{"6", "Profile", viewProfile},
		}
	case a.sess.HasRole(domain.RoleReceptionist):
		return []tabEntry{
			{"1", "Home", viewHome},
			{"2", "Book", viewBook},
			{"3", "Dashboard", viewDashboard},
			{"4", "Appointments", viewAppointments},
			{"5", "Doctors", viewDoctors},
			{"6", "Profile", viewProfile},
		}
	default:
		return []tabEntry{
			{"1", "Home", viewHome},
			{"2", "Book", viewBook},
			{"3", "Sign in", viewLogin},
			{"4", "Register", viewRegister},
		}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + toast(1) + help(1) = 5 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 5}
		a.home, _ = a.home.Update(bodyMsg)
		a.book, _ = a.book.Update(bodyMsg)
		a.login, _ = a.login.Update(bodyMsg)
		a.register, _ = a.register.Update(bodyMsg)
		a.dashboard, _ = a.dashboard.Update(bodyMsg)
		a.appointments, _ = a.appointments.Update(bodyMsg)
		a.schedules, _ = a.schedules.Update(bodyMsg)
		a.doctors, _ = a.doctors.Update(bodyMsg)
		a.profile, _ = a.profile.Update(bodyMsg)

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case restoreDoneMsg:
		// Restore failures stay quiet; the views surface their own load
		// errors if the server really is unreachable.
		return a, nil

	case sessionChangedMsg:
		a.sess = session.Session(msg)
		a.profile.sess = a.sess
		cmds := []tea.Cmd{a.waitSession()}

		if a.hasPending {
			var cmd tea.Cmd
			a, cmd = a.goTo(a.pending)
			return a, tea.Batch(append(cmds, cmd)...)
		}

		// The current view may have lost its footing, e.g. an expired
		// credential mid-session.
		if protected, roles := viewRoles(a.view); protected {
			if res := guard.Evaluate(a.sess, roles...); res.Decision == guard.Redirecting {
				if res.Target == guard.TargetLogin {
					a.afterLogin = a.view
					a.hasAfterLogin = true
					a.view = viewLogin
					cmds = append(cmds, a.initView(viewLogin), showToast("Your session ended. Sign in again.", toastError))
				} else {
					a.view = viewDashboard
					cmds = append(cmds, a.initView(viewDashboard))
				}
			}
		}
		return a, tea.Batch(cmds...)

	case loginDoneMsg:
		if msg.err == nil {
			target := viewDashboard
			if a.hasAfterLogin {
				target = a.afterLogin
				a.hasAfterLogin = false
			}
			var cmd tea.Cmd
			a, cmd = a.goTo(target)
			return a, tea.Batch(cmd, showToast("Welcome back", toastOK))
		}
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		return a, cmd

	case registerDoneMsg:
		if msg.err == nil {
			var cmd tea.Cmd
			a.register, _ = a.register.Update(msg)
			a, cmd = a.goTo(viewLogin)
			return a, tea.Batch(cmd, showToast("Account created. Sign in to continue.", toastOK))
		}
		var cmd tea.Cmd
		a.register, cmd = a.register.Update(msg)
		return a, cmd

	case requestLogoutMsg:
		mgr := a.mgr
		logout := func() tea.Msg {
			mgr.Logout(context.Background()) //nolint:errcheck // always succeeds locally
			return toastMsg{text: "Signed out", kind: toastInfo}
		}
		var cmd tea.Cmd
		a, cmd = a.goTo(viewHome)
		return a, tea.Batch(cmd, logout)

	case toastMsg:
		a.toast = msg.text
		a.toastKind = msg.kind
		a.toastSeq++
		seq := a.toastSeq
		return a, tea.Tick(toastDuration, func(time.Time) tea.Msg {
			return toastExpireMsg{seq: seq}
		})

	case toastExpireMsg:
		if msg.seq == a.toastSeq {
			a.toast = ""
		}
		return a, nil

	case tea.KeyMsg:
		// Help overlay captures all keys when open
		if a.helpOpen {
			switch msg.String() {
			case "h", "esc":
				a.helpOpen = false
			case "q", "ctrl+c":
				return a, tea.Quit
			case "j", "down":
				if a.helpCursor < len(helpItems)-1 {
					a.helpCursor++
				}
			case "k", "up":
				if a.helpCursor > 0 {
					a.helpCursor--
				}
			case "enter":
				item := helpItems[a.helpCursor]
				if item.url != "" {
					browser.Open(item.url) //nolint:errcheck // best-effort browser open
				}
			}
			return a, nil
		}

		if !a.isEditing() {
			switch key := msg.String(); key {
			case "h":
				a.helpOpen = true
				a.helpCursor = 0
				return a, nil
			case "q", "ctrl+c":
				return a, tea.Quit
			default:
				for _, t := range a.tabs() {
					if t.key == key {
						if a.view == t.v {
							return a, nil
						}
						return a.goTo(t.v)
					}
				}
			}
		} else if msg.String() == "ctrl+c" {
			return a, tea.Quit
		} else if msg.String() == "esc" && (a.view == viewLogin || a.view == viewRegister) {
			return a.goTo(viewHome)
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewHome:
		a.home, cmd = a.home.Update(msg)
	case viewBook:
		a.book, cmd = a.book.Update(msg)
	case viewLogin:
		a.login, cmd = a.login.Update(msg)
	case viewRegister:
		a.register, cmd = a.register.Update(msg)
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case viewAppointments:
		a.appointments, cmd = a.appointments.Update(msg)
	case viewSchedules:
		a.schedules, cmd = a.schedules.Update(msg)
	case viewDoctors:
		a.doctors, cmd = a.doctors.Update(msg)
	case viewProfile:
		a.profile, cmd = a.profile.Update(msg)
	}

	return a, cmd
}

func (a App) isEditing() bool {
	switch a.view {
	case viewLogin:
		return true
	case viewRegister:
		return true
	case viewBook:
		return a.book.editing()
	case viewSchedules:
		return a.schedules.state != schedNormal
	case viewAppointments:
		return a.appointments.confirming || a.appointments.searching
	}
	return false
}

func (a App) View() string {
	// Header: centered shimmer wordmark
	logo := renderShimmerLogo(a.frame)

	identLine := ""
	if a.sess.Status == session.StatusAuthenticated && a.sess.User != nil {
		u := a.sess.User
		parts := []string{normalStyle.Render(u.Name), RoleBadge(u.Role)}
		if u.Role == domain.RoleDoctor && u.Doctor != nil && u.Doctor.CRM != "" {
			parts = append(parts, metaStyle.Render("CRM "+u.Doctor.CRM))
		}
		identLine = strings.Join(parts, " ")
	} else if a.sess.Status == session.StatusResolving {
		identLine = metaStyle.Render("signing in...")
	}

	logoWidth := lipgloss.Width(logo)
	logoPad := (a.width - logoWidth) / 2
	if logoPad < 0 {
		logoPad = 0
	}
	header := strings.Repeat(" ", logoPad) + logo

	if identLine != "" {
		identWidth := lipgloss.Width(identLine)
		identPad := (a.width - identWidth) / 2
		if identPad < 0 {
			identPad = 0
		}
		header += "\n" + strings.Repeat(" ", identPad) + identLine
	} else {
		header += "\n"
	}

	// Tab bar: equal-width columns spread across the terminal
	tabs := a.tabs()
	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		labelWidth := lipgloss.Width(label)
		leftPad := (colWidth - labelWidth) / 2
		if leftPad < 0 {
			leftPad = 0
		}
		rightPad := colWidth - labelWidth - leftPad
		if rightPad < 0 {
			rightPad = 0
		}
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}
	centeredTabs := tabBar.String()

	var body string
	var help string
	switch a.view {
	case viewHome:
		body = a.home.View()
		help = " " + helpEntry("1-"+tabs[len(tabs)-1].key, "tabs") + "  " + helpEntry("h", "help") + "  " + helpEntry("q", "quit")
	case viewBook:
		body = a.book.View()
		help = " " + a.book.helpKeys()
	case viewLogin:
		body = a.login.View()
		help = " " + helpEntry("tab", "next field") + "  " + helpEntry("enter", "sign in") + "  " + helpEntry("esc", "back") + "  " + helpEntry("ctrl+c", "quit")
	case viewRegister:
		body = a.register.View()
		help = " " + helpEntry("tab", "next field") + "  " + helpEntry("←/→", "role") + "  " + helpEntry("enter", "create") + "  " + helpEntry("esc", "back") + "  " + helpEntry("ctrl+c", "quit")
	case viewDashboard:
		body = a.dashboard.View()
		help = " " + helpEntry("1-6", "tabs") + "  " + helpEntry("r", "refresh") + "  " + helpEntry("h", "help") + "  " + helpEntry("q", "quit")
	case viewAppointments:
		body = a.appointments.View()
		help = " " + a.appointments.helpKeys()
	case viewSchedules:
		body = a.schedules.View()
		help = " " + a.schedules.helpKeys()
	case viewDoctors:
		body = a.doctors.View()
		help = " " + helpEntry("1-6", "tabs") + "  " + helpEntry("j/k", "nav") + "  " + helpEntry("c", "copy email") + "  " + helpEntry("q", "quit")
	case viewProfile:
		body = a.profile.View()
		help = " " + helpEntry("1-6", "tabs") + "  " + helpEntry("x", "sign out") + "  " + helpEntry("q", "quit")
	}

	if a.hasPending {
		body = "\n " + dimStyle.Render("checking your session...")
	}

	if a.helpOpen {
		body = helpView(a.helpCursor)
		help = " " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "open") + "  " + helpEntry("esc", "close")
	}

	// Toast line sits between body and help
	toastLine := ""
	if a.toast != "" {
		switch a.toastKind {
		case toastOK:
			toastLine = " " + okStyle.Render(a.toast)
		case toastError:
			toastLine = " " + errorStyle.Render(a.toast)
		default:
			toastLine = " " + accentStyle.Render(a.toast)
		}
	}

	// Chrome budget: header(2) + tabs(1) + toast(1) + help(1) = 5 lines + body
	chrome := 5
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", header, centeredTabs, body, toastLine, help)
}
