package main

import (
	"fmt"
	"strconv"
	"strings"

	"field-survey-bot/pkg/survey"
)

// parseLine turns one console line into an inbound event. Button presses
// are attributed to the last prompt printed.
func parseLine(chatID int64, line string, lastMessageID int64) (survey.Event, error) {
	fields := strings.Fields(line)
	ev := survey.Event{ChatID: chatID}

	if len(fields) == 0 {
		ev.Text = line
		return ev, nil
	}

	switch fields[0] {
	case "/btn":
		if len(fields) != 2 {
			return ev, fmt.Errorf("uso: /btn <token>")
		}
		ev.Callback = &survey.Callback{
			ID:        "console-" + fields[1],
			Data:      fields[1],
			MessageID: lastMessageID,
		}
	case "/loc":
		if len(fields) != 3 {
			return ev, fmt.Errorf("uso: /loc <lat> <lng>")
		}
		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return ev, fmt.Errorf("latitudine non valida: %w", err)
		}
		lng, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return ev, fmt.Errorf("longitudine non valida: %w", err)
		}
		ev.Location = &survey.Location{Latitude: lat, Longitude: lng}
	case "/photo":
		if len(fields) != 2 {
			return ev, fmt.Errorf("uso: /photo <id>")
		}
		ev.Photos = []survey.PhotoRef{{FileID: fields[1], UniqueID: fields[1]}}
	default:
		ev.Text = line
	}
	return ev, nil
}
