package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/inkblot/pkg/errors"
	"github.com/matzehuels/inkblot/pkg/export"
	"github.com/matzehuels/inkblot/pkg/inkblot"
)

// Session key bindings, one per button of the original sketch.
const (
	keyRefresh  = "r"
	keyExport   = "e"
	keyBatch10  = "1"
	keyBatch100 = "0"
)

var (
	sessionKeyStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	sessionStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	sessionErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
	sessionFrameStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
)

// sessionCommand creates the interactive session command.
func (c *CLI) sessionCommand() *cobra.Command {
	var (
		dir   string
		cols  int
		yield time.Duration
	)

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Interactive session: refresh, export and batch export inkblots",
		Long: `Session opens an interactive terminal view of the current inkblot.

Keys:
  r  refresh inkblot
  e  export image (inkblot_image.png)
  1  export 10 variants (ZIP + CSV)
  0  export 100 variants (ZIP + CSV)
  q  quit

Batch export renders one image per turn of the event loop, so the view keeps
updating while it runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			comp, canvas, err := c.newComposer(cmd)
			if err != nil {
				return err
			}
			m := newSessionModel(cmd.Context(), comp, canvas, dir, cols, yield)
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "output directory for exports")
	cmd.Flags().IntVar(&cols, "preview-width", 64, "preview width in characters")
	cmd.Flags().DurationVar(&yield, "yield", export.DefaultYield, "pause between batch images")
	return cmd
}

// batchTickMsg asks the model to render the next batch image.
type batchTickMsg struct{}

// sessionModel is the bubbletea model of an interactive session.
// All drawing happens in Update, so the canvas is only touched by the event loop.
type sessionModel struct {
	ctx     context.Context
	comp    *inkblot.Composer
	canvas  *inkblot.Canvas
	dir     string
	cols    int
	yield   time.Duration
	params  inkblot.Params
	preview string
	status  string
	err     error
	job     *export.Job
}

func newSessionModel(ctx context.Context, comp *inkblot.Composer, canvas *inkblot.Canvas, dir string, cols int, yield time.Duration) sessionModel {
	m := sessionModel{
		ctx:    ctx,
		comp:   comp,
		canvas: canvas,
		dir:    dir,
		cols:   cols,
		yield:  yield,
	}
	m.refresh()
	m.status = "Ready"
	return m
}

func (m sessionModel) Init() tea.Cmd {
	return nil
}

func (m sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	case batchTickMsg:
		return m.stepBatch()
	case tea.WindowSizeMsg:
		if w := msg.Width - 4; w > 8 && w < m.cols {
			m.cols = w
			m.preview = renderPreview(m.canvas.Image(), m.cols)
		}
	}
	return m, nil
}

func (m sessionModel) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c", "esc":
		if m.job != nil {
			m.job.Abort(m.ctx, errors.New(errors.ErrCodeCanceled, "session closed"))
			m.job = nil
		}
		return m, tea.Quit
	}

	if m.job != nil {
		m.status = "Batch export in progress"
		return m, nil
	}

	switch key {
	case keyRefresh:
		m.refresh()
		m.status = "Refreshed"
		m.err = nil
	case keyExport:
		path := filepath.Join(m.dir, export.DefaultImageName)
		if err := export.SaveImage(path, m.canvas.Image()); err != nil {
			m.err = err
			return m, nil
		}
		m.status = "Saved " + path
		m.err = nil
	case keyBatch10:
		return m.startBatch(10)
	case keyBatch100:
		return m.startBatch(100)
	}
	return m, nil
}

func (m *sessionModel) refresh() {
	m.params = m.comp.Generate(m.ctx, m.canvas)
	m.preview = renderPreview(m.canvas.Image(), m.cols)
}

func (m sessionModel) startBatch(n int) (tea.Model, tea.Cmd) {
	job, err := export.NewJob(m.comp, m.canvas, m.dir, n, export.BatchOptions{})
	if err != nil {
		m.err = err
		return m, nil
	}
	m.job = job
	m.err = nil
	m.status = batchMessage(0, n)
	return m, func() tea.Msg { return batchTickMsg{} }
}

// stepBatch renders one image, then schedules the next after the yield pause.
func (m sessionModel) stepBatch() (tea.Model, tea.Cmd) {
	if m.job == nil {
		return m, nil
	}
	entry, err := m.job.Step(m.ctx)
	if err != nil {
		m.job.Abort(m.ctx, err)
		m.job = nil
		m.err = err
		return m, nil
	}
	m.params = inkblot.Params{Padding: entry.Padding, Shapes: entry.Shapes, Blur: entry.Blur}
	m.preview = renderPreview(m.canvas.Image(), m.cols)

	b := m.job.Batch()
	if !m.job.Done() {
		m.status = batchMessage(b.Len(), b.Total())
		return m, tea.Tick(max(m.yield, time.Millisecond), func(time.Time) tea.Msg { return batchTickMsg{} })
	}

	res, err := m.job.Finish(m.ctx)
	m.job = nil
	if err != nil {
		m.err = err
		return m, nil
	}
	m.status = fmt.Sprintf("Exported %d inkblots to %s and %s", len(res.Entries), res.ArchivePath, res.LogPath)
	return m, nil
}

func (m sessionModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Inkblot"))
	b.WriteString("  ")
	b.WriteString(formatParams(m.params))
	b.WriteString("\n")
	b.WriteString(sessionFrameStyle.Render(m.preview))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(sessionErrorStyle.Render(iconError + " " + errors.UserMessage(m.err)))
	} else {
		b.WriteString(sessionStatusStyle.Render(m.status))
	}
	b.WriteString("\n\n")

	help := []string{
		sessionKeyStyle.Render(keyRefresh) + StyleDim.Render(" refresh"),
		sessionKeyStyle.Render(keyExport) + StyleDim.Render(" export image"),
		sessionKeyStyle.Render(keyBatch10) + StyleDim.Render(" export 10"),
		sessionKeyStyle.Render(keyBatch100) + StyleDim.Render(" export 100"),
		sessionKeyStyle.Render("q") + StyleDim.Render(" quit"),
	}
	b.WriteString(strings.Join(help, StyleDim.Render("  ·  ")))
	b.WriteString("\n")
	return b.String()
}
