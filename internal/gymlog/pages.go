package gymlog

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"time"

	"github.com/2beens/vibefit/internal/session"
	"github.com/2beens/vibefit/internal/workout"
	"github.com/2beens/vibefit/pkg"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	PageCoach = "coach.html"
	PageQuick = "quick.html"
)

// Pages holds the page templates, each parsed on top of its own copy of the layout.
type Pages struct {
	pages map[string]*template.Template
}

// PageData is what every page renders from.
type PageData struct {
	Title       string
	Mode        workout.Mode
	Snapshot    Snapshot
	Menu        workout.Menu
	RestOptions []time.Duration
	DefaultRest time.Duration
	Notices     []session.Notice
}

func LoadPages() (*Pages, error) {
	funcMap := template.FuncMap{
		"kilos":   pkg.FormatKilos,
		"seconds": func(d time.Duration) int { return int(d / time.Second) },
		"unix": func(t time.Time) float64 {
			if t.IsZero() {
				return 0
			}
			return float64(t.UnixMilli()) / 1000
		},
		"isUser": func(m workout.ChatMessage) bool { return m.Role == workout.RoleUser },
		"eqWeight": func(a, b float64) bool { return a == b },
		"rpeRange": func() []int {
			r := make([]int, 0, workout.MaxRPE-workout.MinRPE+1)
			for i := workout.MinRPE; i <= workout.MaxRPE; i++ {
				r = append(r, i)
			}
			return r
		},
	}

	base, err := template.New("base").Funcs(funcMap).ParseFS(templatesFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pageFiles, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob page templates: %w", err)
	}

	pages := map[string]*template.Template{}
	for _, f := range pageFiles {
		name := path.Base(f)
		if name == "layout.html" {
			continue
		}
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout: %w", err)
		}
		if _, err := clone.ParseFS(templatesFS, f); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = clone
	}

	return &Pages{pages: pages}, nil
}

// Render executes the page into w. The page is rendered to a buffer first,
// so a template error never leaves a half written response.
func (p *Pages) Render(w io.Writer, name string, data PageData) error {
	tmpl, ok := p.pages[name]
	if !ok {
		return fmt.Errorf("page %q not found", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
