package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fluidlab/gofluid/pkg/channel"
	"github.com/fluidlab/gofluid/pkg/controls"
	"github.com/fluidlab/gofluid/pkg/fluid"
	"github.com/fluidlab/gofluid/pkg/trace"
)

const sparkWidth = 24

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Interactive channel monitor",
	Long: `Opens a full-screen view of every configured channel with its live
reading, window statistics and a trend sparkline, plus a panel of
bench controls (pump, valves, flow rate).`,
	Run: monitor,
}

func init() {
	RootCmd.AddCommand(monitorCmd)
}

func monitor(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	link, err := newLink(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create board link")
	}

	engine, err := fluid.New(cfg, link)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create engine")
	}

	if err := engine.Connect(""); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to board")
	}

	m := newMonitorModel(engine)

	if err := engine.Start(); err != nil {
		engine.Close()
		log.Fatal().Err(err).Msg("failed to start acquisition")
	}

	// The TUI owns the terminal from here on. Route logs to a file so
	// they do not tear the display.
	var logFile *os.File
	if f, err := os.OpenFile("gofluid.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		log.Logger = log.Output(f)
		logFile = f
	}

	_, runErr := tea.NewProgram(m, tea.WithAltScreen()).Run()

	engine.Close()
	if logFile != nil {
		logFile.Close()
	}
	if runErr != nil {
		fmt.Println(runErr)
		os.Exit(-1)
	}
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	onStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	offStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// viewMsg carries one presenter tick worth of channel windows.
type viewMsg fluid.View

type monitorModel struct {
	engine *fluid.Engine
	panel  *controls.Panel
	views  chan fluid.View

	order []channel.ID
	table table.Model
	view  fluid.View

	status string
	err    error
}

func newMonitorModel(engine *fluid.Engine) monitorModel {
	order := engine.Channels()

	columns := []table.Column{
		{Title: "Channel", Width: 8},
		{Title: "Last", Width: 9},
		{Title: "Min", Width: 9},
		{Title: "Max", Width: 9},
		{Title: "Mean", Width: 9},
		{Title: "Trend", Width: sparkWidth},
	}
	t := table.New(table.WithColumns(columns), table.WithHeight(len(order)))
	t.SetStyles(monitorTableStyles())

	// The engine pushes a view every display tick. A one-slot channel
	// merges ticks the UI cannot keep up with, and keeps the callback
	// from ever blocking the presenter.
	views := make(chan fluid.View, 1)
	engine.OnUpdate(func(v fluid.View) {
		select {
		case views <- v:
		default:
		}
	})

	return monitorModel{
		engine: engine,
		panel:  controls.NewPanel(),
		views:  views,
		order:  order,
		table:  t,
	}
}

func monitorTableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).Bold(true)
	// No row actions, so no selection highlight.
	s.Selected = s.Cell
	return s
}

// waitForView blocks until the next presenter tick arrives.
func waitForView(views chan fluid.View) tea.Cmd {
	return func() tea.Msg {
		return viewMsg(<-views)
	}
}

func (m monitorModel) Init() tea.Cmd {
	return waitForView(m.views)
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.engine.Stop()
			return m, tea.Quit
		case "s":
			if m.engine.Running() {
				m.engine.Stop()
				m.status = "acquisition stopped"
			} else if err := m.engine.Start(); err != nil {
				m.err = err
			} else {
				m.err = nil
				m.status = "acquisition running"
			}
			return m, nil
		case "p":
			m.status = fmt.Sprintf("pump %s", m.panel.TogglePump())
			return m, nil
		case "i":
			m.status = fmt.Sprintf("inlet valve to %s", m.panel.ToggleInlet())
			return m, nil
		case "o":
			m.status = fmt.Sprintf("outlet valve to %s", m.panel.ToggleOutlet())
			return m, nil
		case "+", "=":
			m.status = fmt.Sprintf("flow rate %.1f", m.panel.StepFlowRate(1))
			return m, nil
		case "-", "_":
			m.status = fmt.Sprintf("flow rate %.1f", m.panel.StepFlowRate(-1))
			return m, nil
		case "e":
			if m.view == nil {
				m.status = "nothing to export yet"
				return m, nil
			}
			path, n, err := exportCSV(m.order, m.view)
			if err != nil {
				m.err = err
				return m, nil
			}
			m.err = nil
			m.status = fmt.Sprintf("exported %d rows to %s", n, path)
			return m, nil
		}

	case viewMsg:
		m.view = fluid.View(msg)
		m.table.SetRows(m.rows())
		return m, waitForView(m.views)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m monitorModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("gofluid bench monitor") + "\n\n")
	b.WriteString(m.table.View() + "\n\n")
	b.WriteString(m.controlsLine() + "\n")
	b.WriteString(m.linkLine() + "\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("error: "+m.err.Error()) + "\n")
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status) + "\n")
	default:
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("s:start/stop  p:pump  i:inlet  o:outlet  +/-:flow  e:export  q:quit"))

	return b.String()
}

func (m monitorModel) rows() []table.Row {
	rows := make([]table.Row, 0, len(m.order))
	for _, id := range m.order {
		vals := m.view[id]
		spark := trace.Sparkline(vals, sparkWidth)
		if len(vals) == 0 {
			rows = append(rows, table.Row{string(id), "-", "-", "-", "-", spark})
			continue
		}
		s := trace.Summarize(vals)
		rows = append(rows, table.Row{
			string(id),
			formatValue(s.Last),
			formatValue(s.Min),
			formatValue(s.Max),
			formatValue(s.Mean),
			spark,
		})
	}
	return rows
}

func (m monitorModel) controlsLine() string {
	st := m.panel.Snapshot()

	pump := offStyle.Render(st.Pump.String())
	if st.Pump == controls.PumpOn {
		pump = onStyle.Render(st.Pump.String())
	}

	return fmt.Sprintf("%s %s   %s %s   %s %s   %s %s",
		labelStyle.Render("pump"), pump,
		labelStyle.Render("inlet"), st.Inlet.String(),
		labelStyle.Render("outlet"), st.Outlet.String(),
		labelStyle.Render("flow"), fmt.Sprintf("%.1f", st.FlowRate),
	)
}

func (m monitorModel) linkLine() string {
	stats := m.engine.Stats()

	state := offStyle.Render("stopped")
	if m.engine.Running() {
		state = onStyle.Render("running")
	}

	misses := stats.NoData + stats.FrameErrors + stats.DecodeErrors + stats.LinkErrors

	return fmt.Sprintf("%s %s   %s   %s %d   %s %d   %s %d",
		labelStyle.Render("port"), m.engine.Port(),
		state,
		labelStyle.Render("rounds"), stats.Rounds,
		labelStyle.Render("samples"), stats.Samples,
		labelStyle.Render("misses"), misses,
	)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 5, 64)
}

// exportCSV dumps the current windows to a timestamped CSV file, one row
// per sample index, oldest first. Channels with shorter windows leave
// their trailing cells empty.
func exportCSV(order []channel.ID, v fluid.View) (string, int, error) {
	path := csvPath(nil)
	f, err := os.Create(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := make([]string, 0, len(order)+1)
	header = append(header, "n")
	for _, id := range order {
		header = append(header, string(id))
	}
	if err := w.Write(header); err != nil {
		return "", 0, err
	}

	rows := 0
	for _, id := range order {
		if len(v[id]) > rows {
			rows = len(v[id])
		}
	}

	for i := 0; i < rows; i++ {
		rec := make([]string, 0, len(order)+1)
		rec = append(rec, strconv.Itoa(i))
		for _, id := range order {
			vals := v[id]
			if i < len(vals) {
				rec = append(rec, strconv.FormatFloat(vals[i], 'g', -1, 64))
			} else {
				rec = append(rec, "")
			}
		}
		if err := w.Write(rec); err != nil {
			return "", 0, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", 0, err
	}

	return path, rows, nil
}
