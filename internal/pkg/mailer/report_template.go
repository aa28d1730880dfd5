package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"field-survey-bot/internal/dto"
)

var reportTemplate = template.Must(template.New("report").Parse(`
<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
	<h2>Report {{.OperationType}}</h2>
	<table style="border-collapse: collapse;">
		<tr><td><b>Azienda</b></td><td>{{.CompanyName}}</td></tr>
		<tr><td><b>Cliente</b></td><td>{{.ClientName}}</td></tr>
		<tr><td><b>Segnale</b></td><td>{{.SignalValue}}</td></tr>
		<tr><td><b>Esito</b></td><td>{{.OutcomeLabel}}</td></tr>
		<tr><td><b>Note</b></td><td>{{.Notes}}</td></tr>
		<tr><td><b>Posizione</b></td><td><a href="{{.MapsURL}}">{{printf "%.6f" .Latitude}}, {{printf "%.6f" .Longitude}}</a></td></tr>
		<tr><td><b>Completato</b></td><td>{{.CompletedAt.Format "02/01/2006 15:04"}}</td></tr>
	</table>
	<p>Foto allegate: {{len .Photos}}</p>
	<p style="color: #999; font-size: 12px;">Report {{.ReportID}} - chat {{.ChatID}}</p>
</div>
`))

func renderReport(report dto.SurveyReportMessage) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, report); err != nil {
		return "", fmt.Errorf("render report %s: %w", report.ReportID, err)
	}
	return buf.String(), nil
}

func renderReportText(report dto.SurveyReportMessage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Report %s\n\n", report.OperationType)
	fmt.Fprintf(&b, "Azienda: %s\n", report.CompanyName)
	fmt.Fprintf(&b, "Cliente: %s\n", report.ClientName)
	fmt.Fprintf(&b, "Segnale: %d\n", report.SignalValue)
	fmt.Fprintf(&b, "Esito: %s\n", report.OutcomeLabel)
	fmt.Fprintf(&b, "Note: %s\n", report.Notes)
	fmt.Fprintf(&b, "Posizione: %s\n", report.MapsURL)
	fmt.Fprintf(&b, "Foto allegate: %d\n", len(report.Photos))
	return b.String()
}
