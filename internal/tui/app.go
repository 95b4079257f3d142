package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/Taishi66/podtree/internal/config"
	"github.com/Taishi66/podtree/internal/domain"
	"github.com/Taishi66/podtree/internal/k8s"
	"github.com/Taishi66/podtree/internal/metrics"
	"github.com/Taishi66/podtree/internal/podview"
)

// ClientFactory creates a new PodSource (used for reconnection from the error screen).
type ClientFactory func() (domain.PodSource, error)

const podDeletedMessage = "pod may have been deleted"

// watchRetryDelay spaces out re-watches when the server keeps closing them.
const watchRetryDelay = 2 * time.Second

// invalidator is implemented by sources that cache pod lists.
type invalidator interface {
	Invalidate()
}

// --- Views ---

type View int

const (
	ViewPods View = iota
	ViewYAML
	ViewError // startup error screen
)

func (v View) String() string {
	switch v {
	case ViewPods:
		return "PODS"
	case ViewYAML:
		return "YAML"
	default:
		return ""
	}
}

// --- Messages ---

type podsLoadedMsg struct {
	pods map[string]*unstructured.Unstructured
}
type yamlLoadedMsg struct {
	podName string
	content string
}
type apiErrMsg struct{ err error }
type watchEventMsg struct{ event domain.WatchEvent }
type watchStoppedMsg struct{}
type watchRetryMsg struct{}
type refreshTickMsg struct{}

// --- Options ---

// Option customizes a Model.
type Option func(*Model)

// WithLogger sets the logger used for diagnostics and API errors.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// WithMetrics sets the collectors updated on each render and lookup.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Model) { m.metrics = mt }
}

// WithClock overrides the clock read once per render cycle.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// --- Model ---

type Model struct {
	source        domain.PodSource
	clientFactory ClientFactory

	// Views
	view     View
	prevView View

	// Data: the latest snapshot and the render built from it
	snapshot domain.Snapshot
	result   podview.Result
	buildErr error
	yaml     yamlViewState

	// UI state
	cursor     int
	selected   string // name of the pod under the cursor
	width      int
	height     int
	loading    bool
	spinner    spinner.Model
	toast      toast
	startupErr error // non-nil if launched with NewModelWithError

	// Connection state
	disconnected bool

	// Watch state
	watchCancel context.CancelFunc
	watching    bool
	watchCh     <-chan domain.WatchEvent

	cfg     *config.AppConfig
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewModel(source domain.PodSource, factory ClientFactory, cfg *config.AppConfig, opts ...Option) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	m := Model{
		source:        source,
		clientFactory: factory,
		view:          ViewPods,
		loading:       true,
		spinner:       spinner.New(spinner.WithSpinner(spinner.Dot)),
		cfg:           cfg,
		logger:        slog.Default(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.rebuild()
	return m
}

func NewModelWithError(err error, factory ClientFactory, cfg *config.AppConfig, opts ...Option) Model {
	m := NewModel(nil, factory, cfg, opts...)
	m.view = ViewError
	m.startupErr = err
	m.loading = false
	return m
}

func (m Model) Init() tea.Cmd {
	if m.view == ViewError {
		return nil
	}
	return tea.Batch(m.spinner.Tick, m.loadPods(), m.scheduleRefresh())
}

// --- Update ---

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.result.Tree.State != domain.TreeLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case podsLoadedMsg:
		m.snapshot = domain.Snapshot{Pods: msg.pods, Received: true}
		m.loading = false
		m.disconnected = false
		m.rebuild()
		cmds := []tea.Cmd{m.checkDetail()}
		if !m.watching {
			cmds = append(cmds, m.startWatch())
		}
		return m, tea.Batch(cmds...)

	case watchEventMsg:
		var cmds []tea.Cmd
		if msg.event.Type == domain.EventError {
			m.logger.Warn("pod watch error", "error", msg.event.Err)
		} else if m.mergePodEvent(msg.event) {
			m.invalidateSource()
			m.rebuild()
			cmds = append(cmds, m.checkDetail())
		}
		if m.watchCh != nil {
			cmds = append(cmds, listenWatch(m.watchCh))
		}
		return m, tea.Batch(cmds...)

	case watchStoppedMsg:
		m.watching = false
		m.watchCh = nil
		if m.disconnected {
			return m, nil
		}
		return m, tea.Tick(watchRetryDelay, func(time.Time) tea.Msg {
			return watchRetryMsg{}
		})

	case watchRetryMsg:
		if m.watching || m.disconnected || m.view == ViewError {
			return m, nil
		}
		return m, m.startWatch()

	case refreshTickMsg:
		if m.view == ViewError {
			return m, m.scheduleRefresh()
		}
		if m.disconnected {
			// Ages still advance on cached data.
			m.rebuild()
			return m, m.scheduleRefresh()
		}
		return m, tea.Batch(m.loadPods(), m.scheduleRefresh())

	case yamlLoadedMsg:
		if m.view != ViewYAML || msg.podName != m.yaml.podName {
			return m, nil
		}
		m.yaml.setContent(msg.content)
		m.loading = false
		return m, nil

	case apiErrMsg:
		return m.handleAPIError(msg.err)

	case toastExpiredMsg:
		if m.toast.message == msg.message {
			m.toast = toast{}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Startup error screen: only q/r
	if m.view == ViewError {
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Refresh):
			return m.retryStartup()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		if m.view == ViewYAML {
			return m.closeDetail(), nil
		}
		m.stopWatch()
		return m, tea.Quit

	case key.Matches(msg, keys.Escape):
		if m.view == ViewYAML {
			return m.closeDetail(), nil
		}
		m.toast = toast{}
		return m, nil

	case key.Matches(msg, keys.Refresh):
		return m.refresh()

	case key.Matches(msg, keys.Open):
		if m.view == ViewPods {
			return m.openDetail()
		}

	case key.Matches(msg, keys.Down):
		if m.view == ViewYAML {
			m.yaml.scrollDown(1, m.contentHeight())
		} else {
			m.moveCursor(m.cursor + 1)
		}
	case key.Matches(msg, keys.Up):
		if m.view == ViewYAML {
			m.yaml.scrollUp(1)
		} else {
			m.moveCursor(m.cursor - 1)
		}
	case key.Matches(msg, keys.Top):
		if m.view == ViewYAML {
			m.yaml.offset = 0
		} else {
			m.moveCursor(0)
		}
	case key.Matches(msg, keys.Bottom):
		if m.view == ViewYAML {
			m.yaml.jumpToBottom(m.contentHeight())
		} else {
			m.moveCursor(m.podCount() - 1)
		}
	case key.Matches(msg, keys.PageDown):
		if m.view == ViewYAML {
			m.yaml.scrollDown(20, m.contentHeight())
		} else {
			m.moveCursor(m.cursor + 20)
		}
	case key.Matches(msg, keys.PageUp):
		if m.view == ViewYAML {
			m.yaml.scrollUp(20)
		} else {
			m.moveCursor(m.cursor - 20)
		}
	}

	return m, nil
}

// --- Key Handlers ---

func (m Model) retryStartup() (tea.Model, tea.Cmd) {
	if m.clientFactory == nil {
		return m, nil
	}
	source, err := m.clientFactory()
	if err != nil {
		m.startupErr = err
		return m, nil
	}
	m.source = source
	m.startupErr = nil
	m.view = ViewPods
	m.loading = true
	return m, tea.Batch(m.spinner.Tick, m.loadPods(), m.scheduleRefresh())
}

func (m Model) refresh() (tea.Model, tea.Cmd) {
	if m.source == nil {
		return m, nil
	}
	if m.disconnected {
		if err := m.source.Reconnect(); err != nil {
			return m.handleAPIError(err)
		}
		m.disconnected = false
		m.stopWatch()
	}
	m.invalidateSource()
	if m.view == ViewYAML {
		return m, tea.Batch(m.loadPods(), m.loadDetail())
	}
	m.loading = true
	return m, m.loadPods()
}

// openDetail resolves the pod under the cursor through the index of the
// current render and opens its detail view.
func (m Model) openDetail() (tea.Model, tea.Cmd) {
	if m.cursor >= m.podCount() {
		return m, nil
	}
	name := m.result.Tree.Pods[m.cursor].Name
	pod, ok := m.lookup(name)
	if !ok {
		return m.podGone()
	}

	m.prevView = m.view
	m.view = ViewYAML
	m.loading = true
	m.yaml = yamlViewState{podName: name}
	return m, detailCmd(name, pod)
}

func (m Model) closeDetail() Model {
	m.view = m.prevView
	m.yaml = yamlViewState{}
	m.loading = false
	return m
}

// checkDetail re-resolves the pod shown in the detail view after a new
// snapshot, leaving the view if the pod is gone.
func (m *Model) checkDetail() tea.Cmd {
	if m.view != ViewYAML {
		return nil
	}
	if _, ok := m.lookup(m.yaml.podName); ok {
		return nil
	}
	next, cmd := m.podGone()
	*m = next.(Model)
	return cmd
}

func (m Model) podGone() (tea.Model, tea.Cmd) {
	if m.view == ViewYAML {
		m = m.closeDetail()
	}
	m.toast = newToast(podDeletedMessage, toastWarning)
	return m, scheduleToastClear(podDeletedMessage)
}

func (m Model) lookup(name string) (*unstructured.Unstructured, bool) {
	pod, err := m.result.Index.Resolve(name)
	m.metrics.RecordLookup(err == nil)
	if err != nil {
		if !errors.Is(err, domain.ErrPodNotFound) {
			m.logger.Error("pod lookup failed", "pod", name, "error", err)
		}
		return nil, false
	}
	return pod, true
}

// --- Error handling ---

func (m Model) handleAPIError(err error) (tea.Model, tea.Cmd) {
	m.loading = false

	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		m.logger.Error("pod source error", "error", err)
		m.toast = newToast(err.Error(), toastError)
		return m, scheduleToastClear(m.toast.message)
	}

	m.logger.Error("pod source error", "type", int(apiErr.Type), "error", apiErr.Err, "message", apiErr.Message)

	switch apiErr.Type {
	case domain.ErrTokenExpired:
		m.disconnected = true
		m.toast = newStickyToast(apiErr.Message, toastError)
		return m, nil

	case domain.ErrUnreachable:
		m.disconnected = true
		m.toast = newStickyToast("Connection lost, showing cached data. Press 'r' to reconnect", toastError)
		return m, nil

	case domain.ErrForbidden:
		m.toast = newToast(fmt.Sprintf("Access denied to namespace '%s'", m.namespace()), toastError)
		return m, scheduleToastClear(m.toast.message)

	case domain.ErrNotFound:
		if m.view == ViewYAML {
			return m.podGone()
		}
		m.toast = newToast(apiErr.Message, toastError)
		return m, scheduleToastClear(m.toast.message)

	case domain.ErrRateLimited:
		m.toast = newToast("Too many requests, backing off", toastError)
		return m, scheduleToastClear(m.toast.message)

	default:
		m.toast = newToast(apiErr.Message, toastError)
		return m, scheduleToastClear(m.toast.message)
	}
}

// --- Rendering cycle ---

// rebuild runs one render cycle over the current snapshot, reading the
// clock once.
func (m *Model) rebuild() {
	res, err := podview.Build(m.snapshot, m.now())
	if err != nil {
		m.buildErr = err
		m.logger.Error("cannot build pod tree", "error", err)
		return
	}
	m.buildErr = nil
	m.result = res

	for _, d := range res.Diagnostics {
		m.logger.Warn("unrecognized container state", "pod", d.Pod, "container", d.Container)
	}
	m.metrics.RecordRender(len(res.Diagnostics))

	m.restoreSelection()
}

// restoreSelection keeps the cursor on the same pod across renders that
// reorder or drop pods.
func (m *Model) restoreSelection() {
	pods := m.result.Tree.Pods
	if m.selected != "" {
		for i, p := range pods {
			if p.Name == m.selected {
				m.cursor = i
				return
			}
		}
	}
	m.moveCursor(m.cursor)
}

func (m *Model) moveCursor(i int) {
	n := m.podCount()
	if n == 0 {
		m.cursor = 0
		m.selected = ""
		return
	}
	m.cursor = min(max(i, 0), n-1)
	m.selected = m.result.Tree.Pods[m.cursor].Name
}

func (m Model) podCount() int {
	return len(m.result.Tree.Pods)
}

// --- Data loading ---

func (m Model) loadPods() tea.Cmd {
	source := m.source
	if source == nil {
		return nil
	}
	return func() tea.Msg {
		pods, err := source.ListPods(context.Background())
		if err != nil {
			return apiErrMsg{err}
		}
		return podsLoadedMsg{pods}
	}
}

// loadDetail re-resolves the pod shown in the detail view and reloads it.
func (m Model) loadDetail() tea.Cmd {
	name := m.yaml.podName
	pod, ok := m.lookup(name)
	if !ok {
		return func() tea.Msg {
			return apiErrMsg{&domain.APIError{
				Type:    domain.ErrNotFound,
				Message: podDeletedMessage,
				Err:     fmt.Errorf("%w: %s", domain.ErrPodNotFound, name),
			}}
		}
	}
	return detailCmd(name, pod)
}

func detailCmd(name string, pod *unstructured.Unstructured) tea.Cmd {
	return func() tea.Msg {
		content, err := k8s.PodYAML(pod)
		if err != nil {
			return apiErrMsg{err}
		}
		return yamlLoadedMsg{podName: name, content: content}
	}
}

func (m Model) scheduleRefresh() tea.Cmd {
	if m.cfg.RefreshInterval <= 0 {
		return nil
	}
	return tea.Tick(m.cfg.RefreshInterval, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

// --- Watch lifecycle ---

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watching = false
	m.watchCh = nil
}

func (m *Model) startWatch() tea.Cmd {
	m.stopWatch()

	if m.source == nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := m.source.WatchPods(ctx)
	if err != nil || ch == nil {
		cancel()
		if err != nil {
			m.logger.Warn("pod watch unavailable, falling back to polling", "error", err)
		}
		return nil
	}

	m.watchCancel = cancel
	m.watching = true
	m.watchCh = ch
	return listenWatch(ch)
}

func listenWatch(ch <-chan domain.WatchEvent) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return watchStoppedMsg{}
		}
		return watchEventMsg{event: evt}
	}
}

// --- Watch merge ---

// mergePodEvent applies evt to a copy of the snapshot map and reports
// whether the snapshot changed. The previous map may still back an index
// handed out by an earlier render.
func (m *Model) mergePodEvent(evt domain.WatchEvent) bool {
	if evt.Pod == nil || !m.snapshot.Received {
		return false
	}
	name := evt.Pod.GetName()
	if name == "" {
		return false
	}

	pods := maps.Clone(m.snapshot.Pods)
	if pods == nil {
		pods = make(map[string]*unstructured.Unstructured)
	}
	switch evt.Type {
	case domain.EventAdded, domain.EventModified:
		pods[name] = evt.Pod
	case domain.EventDeleted:
		delete(pods, name)
	default:
		return false
	}
	m.snapshot = domain.Snapshot{Pods: pods, Received: true}
	return true
}

// invalidateSource drops any list cached by the source, which no longer
// matches the snapshot once a manual refresh or watch event arrives.
func (m *Model) invalidateSource() {
	if c, ok := m.source.(invalidator); ok {
		c.Invalidate()
	}
}

// --- View ---

func (m Model) contentHeight() int {
	// context bar + blank + header + status bar + toast + banner
	ch := m.height - 6
	if ch < 1 {
		return 1
	}
	return ch
}

func (m Model) namespace() string {
	if m.source == nil {
		return ""
	}
	return m.source.GetNamespace()
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	if m.view == ViewError {
		return m.renderErrorScreen()
	}

	var b strings.Builder

	b.WriteString(m.renderContextBar())
	b.WriteString("\n")

	if config.IsProdNamespace(m.namespace(), m.cfg.ProdPatterns) {
		b.WriteString(bannerProdStyle.Width(m.width).Render("PRODUCTION namespace: " + m.namespace()))
		b.WriteString("\n")
	}

	if m.disconnected {
		b.WriteString(bannerWarnStyle.Width(m.width).Render("Connection lost, showing cached data. Press 'r' to reconnect"))
		b.WriteString("\n")
	}

	b.WriteString(m.renderContent())

	lines := strings.Count(b.String(), "\n")
	for i := lines; i < m.height-2; i++ {
		b.WriteString("\n")
	}

	if m.toast.isActive() {
		b.WriteString(m.toast.render())
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatusBar())

	return b.String()
}

func (m Model) renderContextBar() string {
	title := titleStyle.Render("podtree")
	if m.source == nil {
		return " " + title
	}
	ctx := contextStyle.Render(m.source.GetContext())
	ns := namespaceStyle.Render(m.source.GetNamespace())
	return fmt.Sprintf(" %s  ctx:%s  ns:%s", title, ctx, ns)
}

func (m Model) renderContent() string {
	ch := m.contentHeight()
	switch m.view {
	case ViewYAML:
		if m.loading && m.yaml.content == "" {
			return "\n  Loading...\n"
		}
		return renderYAMLView(&m.yaml, m.width, ch)
	default:
		if m.buildErr != nil {
			return fmt.Sprintf("\n  %s\n", toastErrorStyle.Render(m.buildErr.Error()))
		}
		return renderPodTree(podTreeLines(m.result.Tree, m.spinner.View()), m.cursor, m.width, ch)
	}
}

func (m Model) renderStatusBar() string {
	var helpText, itemInfo string
	switch m.view {
	case ViewYAML:
		helpText = yamlHelpKeys()
		itemInfo = fmt.Sprintf("%d lines", len(m.yaml.lines))
	default:
		helpText = podHelpKeys()
		itemInfo = fmt.Sprintf("%d pods", m.podCount())
	}

	liveIndicator := ""
	if m.watching {
		liveIndicator = liveStyle.Render(" ● LIVE")
	}
	left := fmt.Sprintf(" %s | %s | %s%s", m.view.String(), m.namespace(), itemInfo, liveIndicator)
	return statusBarStyle.Width(m.width).Render(left + "  " + helpText)
}

func (m Model) renderErrorScreen() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(errorScreenStyle.Render("podtree - connection error"))
	b.WriteString("\n\n")
	if m.startupErr != nil {
		b.WriteString(fmt.Sprintf("  %s\n", m.startupErr.Error()))
	}
	b.WriteString("\n")
	b.WriteString("  [r] Retry  [q] Quit\n")

	lines := strings.Count(b.String(), "\n")
	for i := lines; i < m.height; i++ {
		b.WriteString("\n")
	}
	return b.String()
}

// --- Helpers ---

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen == 1 {
		return string(runes[:1])
	}
	return string(runes[:maxLen-1]) + "…"
}
