// Command simulate runs the survey conversation on the terminal. Every line
// read from stdin is one inbound event:
//
//	testo libero          text message
//	/btn <token>          press an inline button (op:preverifica, company:comino, loc:yes, ...)
//	/loc <lat> <lng>      share a location
//	/photo <id>           send a photo
//	/quit                 exit
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"field-survey-bot/internal/config"
	"field-survey-bot/internal/pkg/logger"
	"field-survey-bot/internal/repository/memory"
	"field-survey-bot/internal/service"
	"field-survey-bot/pkg/survey"

	"github.com/fatih/color"
)

// consoleDispatcher prints actions instead of calling the Bot API.
type consoleDispatcher struct {
	lastMessageID atomic.Int64
}

func (d *consoleDispatcher) Dispatch(_ context.Context, actions []survey.Action) {
	for _, action := range actions {
		switch a := action.(type) {
		case survey.SendText:
			color.Green("🤖 %s", a.Text)
		case survey.SendPrompt:
			id := d.lastMessageID.Add(1)
			color.Green("🤖 %s", a.Text)
			printKeyboard(id, a.Keyboard)
		case survey.AcknowledgeButton:
			if a.Text != "" {
				color.Yellow("   (toast) %s", a.Text)
			}
		case survey.DisableControl:
			color.HiBlack("   [pulsanti del messaggio #%d disattivati]", a.MessageID)
		}
	}
}

func printKeyboard(messageID int64, kb survey.Keyboard) {
	switch {
	case kb.RequestLocation != "":
		color.Cyan("   [%s] → /loc <lat> <lng>", kb.RequestLocation)
	case len(kb.Inline) > 0:
		for _, row := range kb.Inline {
			for _, b := range row {
				color.Cyan("   [%s] → /btn %s   (msg #%d)", b.Text, b.Data, messageID)
			}
		}
	}
}

// consoleHandoff prints the frozen report instead of queueing it.
type consoleHandoff struct{}

func (consoleHandoff) Submit(_ context.Context, snapshot survey.Snapshot) (string, error) {
	raw, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", err
	}
	color.Magenta("📨 Report consegnato:\n%s", raw)
	return "console", nil
}

func main() {
	chatID := flag.Int64("chat", 1, "chat id to simulate")
	flag.Parse()

	cfg := config.Load()
	engine := survey.NewEngine(
		survey.WithCompanies(cfg.Survey.CompanyList()...),
		survey.WithResetCommand(cfg.Survey.ResetCommand),
	)
	dispatcher := &consoleDispatcher{}
	svc := service.NewSurveyService(
		engine,
		memory.NewSessionRepository(0),
		dispatcher,
		consoleHandoff{},
		nil,
		logger.NewNopLogger(),
	)

	color.Cyan("Simulatore sondaggio (chat %d). Scrivi %s per iniziare, /quit per uscire.", *chatID, engine.ResetCommand())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "/quit" {
			return
		}

		ev, err := parseLine(*chatID, line, dispatcher.lastMessageID.Load())
		if err != nil {
			color.Red("%v", err)
			continue
		}
		if err := svc.HandleEvent(context.Background(), ev); err != nil {
			color.Red("errore: %v", err)
		}
	}
}
