package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/imamik/hostforge/internal/config"
)

// Output formats accepted by list-tasks --output.
const (
	OutputText = "text"
	OutputYAML = "yaml"
)

var (
	listTitleStyle = lipgloss.NewStyle().Bold(true)
	listNameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6")).Bold(true)
	listDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
)

// TaskInfo describes one registered task.
type TaskInfo struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	DependsOn   []string `yaml:"depends_on"`
	Enabled     bool     `yaml:"enabled"`
}

// ListTasks prints every registered task in registration order. The enabled
// state reflects the env file, if one can be read.
func ListTasks(global GlobalOptions, output string) error {
	reg, err := newRegistry()
	if err != nil {
		return err
	}

	cfg, err := readConfig(global.EnvFile)
	if err != nil {
		cfg = config.Default()
	}

	infos := make([]TaskInfo, 0, reg.Len())
	for _, d := range reg.Descriptors() {
		infos = append(infos, TaskInfo{
			Name:        d.Name,
			Description: d.Description,
			DependsOn:   d.DependsOn,
			Enabled:     d.Enabled(cfg),
		})
	}

	switch output {
	case "", OutputText:
		fmt.Fprint(stdout, renderTaskList(infos))
		return nil
	case OutputYAML:
		data, err := yaml.Marshal(infos)
		if err != nil {
			return fmt.Errorf("failed to marshal task list: %w", err)
		}
		_, err = stdout.Write(data)
		return err
	default:
		return fmt.Errorf("unknown output format %q (want %s or %s)", output, OutputText, OutputYAML)
	}
}

func renderTaskList(infos []TaskInfo) string {
	width := 0
	for _, info := range infos {
		width = max(width, len(info.Name))
	}

	var b strings.Builder
	b.WriteString(listTitleStyle.Render("Available tasks"))
	b.WriteString("\n\n")
	for _, info := range infos {
		b.WriteString("  ")
		b.WriteString(listNameStyle.Render(fmt.Sprintf("%-*s", width, info.Name)))
		b.WriteString("  ")
		b.WriteString(info.Description)
		if !info.Enabled {
			b.WriteString(listDimStyle.Render(" (disabled)"))
		}
		b.WriteString("\n")
		if len(info.DependsOn) > 0 {
			b.WriteString(strings.Repeat(" ", width+4))
			b.WriteString(listDimStyle.Render("depends on: " + strings.Join(info.DependsOn, ", ")))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// TaskNames returns the registered task names for shell completion.
func TaskNames() []string {
	reg, err := newRegistry()
	if err != nil {
		return nil
	}
	return reg.Names()
}
