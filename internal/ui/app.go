package ui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/trolleydev/trolley/internal/cart"
	"github.com/trolleydev/trolley/internal/cartsync"
	"github.com/trolleydev/trolley/internal/notify"
	"github.com/trolleydev/trolley/internal/prefs"
	"github.com/trolleydev/trolley/internal/session"
	"github.com/trolleydev/trolley/internal/shop"
	"github.com/trolleydev/trolley/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewCart View = iota
	ViewProducts
	ViewActivity
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    *shop.Client
	Cart      *cart.Store
	Catalog   *state.Store
	Engine    *cartsync.Engine
	Notices   *notify.Center
	Session   *session.Session
	PollTick  time.Duration
	ThemeName string
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    *shop.Client
	cartStore *cart.Store
	catalog   *state.Store
	engine    *cartsync.Engine
	notices   *notify.Center
	session   *session.Session
	prefsPath string
	pollTick  time.Duration

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool

	// Data state
	cartSnap    cart.Snapshot
	catalogSnap state.Snapshot
	recent      []notify.Notice
	lastUpdated time.Time

	// Row selection per view
	cartRow    int
	productRow int

	// Help overlay
	showHelp bool

	// Login form
	login loginState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = time.Second
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	return Model{
		ctx:         ctx,
		client:      opts.Client,
		cartStore:   opts.Cart,
		catalog:     opts.Catalog,
		engine:      opts.Engine,
		notices:     opts.Notices,
		session:     opts.Session,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		theme:       GetTheme(themeName),
		currentView: ViewProducts,
		login:       newLoginState(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
		m.refreshCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.refreshCmd(), tickCmd(m.pollTick))

	case refreshMsg:
		m.cartSnap = msg.cart
		m.catalogSnap = msg.catalog
		m.recent = msg.recent
		m.lastUpdated = time.Now()
		m.clampRows()
		return m, nil

	case actionDoneMsg:
		// Whatever happened, show the outcome immediately.
		return m, m.refreshCmd()

	case loginResultMsg:
		return m.handleLoginResult(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.login.active {
		return m.renderLogin()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.login.active {
		return m.handleLoginKey(msg)
	}

	// Global keys
	switch msg.String() {
	case "ctrl+c", "e":
		return m, tea.Quit

	case "h", "?":
		m.showHelp = true
		return m, nil

	case "T":
		// Cycle theme
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name})
		}
		return m, nil

	case "tab":
		m.cycleView(1)
		return m, nil

	case "shift+tab":
		m.cycleView(-1)
		return m, nil

	case "b":
		m.currentView = ViewCart
		return m, nil

	case "p":
		m.currentView = ViewProducts
		return m, nil

	case "n":
		m.currentView = ViewActivity
		return m, nil

	case "s":
		if !m.session.Authenticated() {
			m.login.open()
			return m, nil
		}
		return m, nil

	case "S":
		if m.session.Authenticated() {
			m.session.Clear()
			m.engine.Reset()
			m.notices.Info("Signed out")
			return m, m.refreshCmd()
		}
		return m, nil

	case "r":
		return m, m.reloadCartCmd()

	case "c":
		// Checkout: flush pending edits before handing off to the backend
		return m, m.checkoutCmd()

	case "esc":
		m.currentView = ViewProducts
		return m, nil
	}

	// View-specific keys
	switch m.currentView {
	case ViewCart:
		return m.handleCartKey(msg)
	case ViewProducts:
		return m.handleProductsKey(msg)
	}

	return m, nil
}

func (m *Model) cycleView(dir int) {
	order := []View{ViewCart, ViewProducts, ViewActivity}
	for i, v := range order {
		if v == m.currentView {
			m.currentView = order[(i+dir+len(order))%len(order)]
			return
		}
	}
	m.currentView = ViewProducts
}

// clampRows keeps row selections inside the freshly refreshed data.
func (m *Model) clampRows() {
	if n := len(m.cartSnap.Lines); m.cartRow >= n {
		m.cartRow = max(0, n-1)
	}
	if n := len(m.catalogSnap.Products); m.productRow >= n {
		m.productRow = max(0, n-1)
	}
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())

	return b.String()
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewCart:
		return m.renderCart()
	case ViewProducts:
		return m.renderProducts()
	case ViewActivity:
		return m.renderActivity()
	default:
		return ""
	}
}

// Messages

type tickMsg time.Time

type refreshMsg struct {
	cart    cart.Snapshot
	catalog state.Snapshot
	recent  []notify.Notice
}

// actionDoneMsg reports that a backend-touching action finished; the store
// and notice center already hold the outcome.
type actionDoneMsg struct{}

type loginResultMsg struct {
	resp *shop.LoginResponse
	err  error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshCmd snapshots the stores. Snapshots are cheap copies; no network.
func (m Model) refreshCmd() tea.Cmd {
	cartStore, catalog, notices := m.cartStore, m.catalog, m.notices
	return func() tea.Msg {
		msg := refreshMsg{}
		if cartStore != nil {
			msg.cart = cartStore.Snapshot()
		}
		if catalog != nil {
			msg.catalog = catalog.Snapshot()
		}
		if notices != nil {
			msg.recent = notices.Recent(20)
		}
		return msg
	}
}

func (m Model) checkoutCmd() tea.Cmd {
	engine, ctx := m.engine, m.ctx
	return func() tea.Msg {
		engine.ForceSync(ctx)
		return actionDoneMsg{}
	}
}

func (m Model) reloadCartCmd() tea.Cmd {
	engine, ctx := m.engine, m.ctx
	return func() tea.Msg {
		_ = engine.Refresh(ctx)
		return actionDoneMsg{}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
