package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/mailcron/internal/config"
	"github.com/imamik/mailcron/internal/provisioning/compute"
	"github.com/imamik/mailcron/internal/util/tags"
)

var (
	stageColorBlue = lipgloss.Color("#3b82f6")
	stageColorDim  = lipgloss.Color("#6b7280")
	stageColorRed  = lipgloss.Color("#ef4444")
)

var (
	stageTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(stageColorBlue)

	stageDimStyle = lipgloss.NewStyle().
			Foreground(stageColorDim)

	stageProdStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(stageColorRed)
)

// Stages prints the stage registry.
func Stages() error {
	fmt.Fprint(stdout, renderStages(stageRegistry()))
	return nil
}

// renderStages produces a lipgloss-styled listing of every stage.
func renderStages(reg *config.Registry) string {
	var b strings.Builder

	for _, stage := range reg.Stages() {
		sc, err := reg.Lookup(stage)
		if err != nil {
			continue
		}

		name := stageTitleStyle.Render(stage.String())
		if stage.IsProduction() {
			name = stageProdStyle.Render(stage.String())
		}
		b.WriteString("\n  " + name + "\n")

		redirect := compute.OutgoingEmailRedirect(stage)
		if redirect == "" {
			redirect = "none"
		}
		fmt.Fprintf(&b, "    API base URL:    %s\n", sc.Settings.APIBaseURL)
		fmt.Fprintf(&b, "    Mail redirect:   %s\n", redirect)

		set := tags.Build(sc.Tags)
		b.WriteString(stageDimStyle.Render("    Tags:") + "\n")
		for _, k := range set.Keys() {
			fmt.Fprintf(&b, "      %-16s %s\n", k, set[k])
		}
	}
	b.WriteString("\n")
	return b.String()
}
