package main

import (
	"bytes"
	"embed"
	"flag"
	"fmt"
	"log"
	"sync"
	"text/template"
)

//go:embed templates/*.txt
var helpFS embed.FS

var (
	helpOnce sync.Once
	helpTmpl *template.Template
)

func parseHelpTemplates() {
	helpTmpl = template.Must(template.New("").Funcs(map[string]any{
		"flags": func(fs *flag.FlagSet) []flagInfo {
			result := []flagInfo{}
			if fs == nil {
				return result
			}
			fs.VisitAll(func(f *flag.Flag) {
				result = append(result, flagInfo{f.Name, f.DefValue, f.Usage})
			})
			return result
		},
	}).ParseFS(helpFS, "templates/*.txt"))
}

type flagInfo struct {
	Name     string
	DefValue string
	Usage    string
}

type HelpData interface {
	Program() string
	Template() string
	FlagSet() *flag.FlagSet
}

// UsageError renders the help of the command it wraps.
type UsageError struct {
	of  HelpData
	msg string
}

func (e *UsageError) Error() string {
	help, err := e.renderHelp()
	if err != nil {
		return err.Error()
	}
	if e.msg != "" {
		return e.msg + "\n\n" + help
	}
	return help
}

func (e *UsageError) renderHelp() (string, error) {
	helpOnce.Do(parseHelpTemplates)
	var buf bytes.Buffer
	if err := helpTmpl.ExecuteTemplate(&buf, e.of.Template(), e.of); err != nil {
		log.Printf("error rendering help template: %v", err)
		return "", err
	}
	return buf.String(), nil
}

// usageFunc prints the help of h; it is installed as FlagSet.Usage.
func usageFunc(h HelpData) func() {
	return func() {
		out := h.FlagSet().Output()
		fmt.Fprint(out, (&UsageError{of: h}).Error())
	}
}

func usagef(h HelpData, format string, args ...any) *UsageError {
	return &UsageError{of: h, msg: fmt.Sprintf(format, args...)}
}

func (r *root) Template() string { return "root.txt" }

func (v *viewCmd) Template() string { return "view.txt" }

func (p *profileCmd) Template() string { return "profile.txt" }

func (c *cropCmd) Template() string { return "crop.txt" }

func (r *reportCmd) Template() string { return "report.txt" }

func (d *discoverCmd) Template() string { return "discover.txt" }

func (s *serveCmd) Template() string { return "serve.txt" }

func (c *configCmd) Template() string { return "config.txt" }

func (i *interactiveCmd) Template() string { return "interactive.txt" }

func (v *versionCmd) Template() string { return "version.txt" }
