// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"field-survey-bot/internal/dto"

	"gopkg.in/gomail.v2"
)

var ErrNoRecipients = errors.New("mailer: no report recipients configured")

// Attachment is a file carried along with a report mail.
type Attachment struct {
	Name string
	Data []byte
}

type IReportMailer interface {
	SendSurveyReport(report dto.SurveyReportMessage, attachments []Attachment) error
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type reportMailer struct {
	dialer      sender
	senderEmail string
	recipients  []string
}

func NewReportMailer(host string, port int, username, password, senderEmail string, recipients []string) IReportMailer {
	return newReportMailer(gomail.NewDialer(host, port, username, password), senderEmail, recipients)
}

func newReportMailer(d sender, senderEmail string, recipients []string) *reportMailer {
	return &reportMailer{
		dialer:      d,
		senderEmail: senderEmail,
		recipients:  recipients,
	}
}

func (s *reportMailer) SendSurveyReport(report dto.SurveyReportMessage, attachments []Attachment) error {
	m, err := s.buildMessage(report, attachments)
	if err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send report %s: %w", report.ReportID, err)
	}
	return nil
}

func (s *reportMailer) buildMessage(report dto.SurveyReportMessage, attachments []Attachment) (*gomail.Message, error) {
	if len(s.recipients) == 0 {
		return nil, ErrNoRecipients
	}

	body, err := renderReport(report)
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", s.recipients...)
	m.SetHeader("Subject", reportSubject(report))
	m.SetBody("text/plain", renderReportText(report))
	m.AddAlternative("text/html", body)

	for _, a := range attachments {
		data := a.Data
		m.Attach(a.Name, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := io.Copy(w, bytes.NewReader(data))
			return err
		}))
	}
	return m, nil
}

func reportSubject(report dto.SurveyReportMessage) string {
	return fmt.Sprintf("[%s] %s - %s (%s)", report.OperationType, report.CompanyName, report.ClientName, report.OutcomeLabel)
}
