package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ayeco/segnalago/internal/assessment"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3B82F6"))

	warnStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F59E0B"))

	successStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#10B981"))

	assistantStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981"))

	reportStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#3B82F6")).
		Padding(1, 2).
		Width(70)

	// Risk banner styles, one per level
	riskLowStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#10B981")).
		Padding(0, 1)

	riskMediumStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#1F2937")).
		Background(lipgloss.Color("#F59E0B")).
		Padding(0, 1)

	riskHighStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#EF4444")).
		Padding(0, 1)
)

func riskBanner(level assessment.RiskLevel) string {
	label := "Livello di Pericolosità: " + level.Label()
	switch level {
	case assessment.RiskHigh:
		return riskHighStyle.Render(label)
	case assessment.RiskMedium:
		return riskMediumStyle.Render(label)
	default:
		return riskLowStyle.Render(label)
	}
}

// PrintAssessment renders a risk assessment record to the terminal.
func PrintAssessment(rec assessment.RiskAssessment) {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Valutazione del Rischio"))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Data: %s\n", rec.Timestamp.Format("02/01/2006 15:04")))
	if rec.Location != "" {
		sb.WriteString(fmt.Sprintf("Localizzazione: %s\n", rec.Location))
	}
	sb.WriteString(fmt.Sprintf("Categoria: %s\n", rec.Category))
	sb.WriteString(riskBanner(rec.RiskLevel))
	sb.WriteString("\n\n")
	sb.WriteString("Descrizione:\n")
	sb.WriteString(rec.Description)
	sb.WriteString("\n\nRaccomandazione:\n")
	sb.WriteString(rec.Recommendation)

	fmt.Println(reportStyle.Render(sb.String()))

	if rec.Degraded() {
		fmt.Println(warnStyle.Render("⚠️  Valutazione incompleta: alcuni campi sono vuoti."))
	}
}
