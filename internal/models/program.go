/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Weekdays is the canonical Monday-first order used for program days.
var Weekdays = []string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}

// Program is one entry of the station's programming grid.
type Program struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Host     string `json:"host"`
	Time     string `json:"time"`
	Days     string `json:"days"`
	Contact  string `json:"contact,omitempty"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

// NewProgram returns an empty program with a fresh id.
func NewProgram() Program {
	return Program{ID: uuid.NewString()}
}

// DayList splits Days into its day names.
func (p Program) DayList() []string {
	return splitDays(p.Days)
}

// AiresOn reports whether the program is scheduled on day.
func (p Program) AiresOn(day string) bool {
	for _, d := range p.DayList() {
		if d == day {
			return true
		}
	}
	return false
}

// ToggleDay adds or removes day from a comma-joined day list. The result
// keeps only known weekdays, in canonical order, whatever order they were
// selected in.
func ToggleDay(days, day string) string {
	selected := make(map[string]bool, len(Weekdays))
	for _, d := range splitDays(days) {
		selected[d] = true
	}
	if isWeekday(day) {
		selected[day] = !selected[day]
	}

	out := make([]string, 0, len(Weekdays))
	for _, d := range Weekdays {
		if selected[d] {
			out = append(out, d)
		}
	}
	return strings.Join(out, ",")
}

func splitDays(days string) []string {
	if strings.TrimSpace(days) == "" {
		return nil
	}
	parts := strings.Split(days, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// Video is a YouTube video listed on the player.
type Video struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

var youtubeIDPattern = regexp.MustCompile(`^.*(youtu.be\/|v\/|u\/\w\/|embed\/|watch\?v=|\&v=)([^#\&?]*).*`)

// YouTubeID extracts the 11 character video id from a YouTube URL.
func YouTubeID(rawURL string) (string, bool) {
	if rawURL == "" {
		return "", false
	}
	match := youtubeIDPattern.FindStringSubmatch(rawURL)
	if match == nil || len(match[2]) != 11 {
		return "", false
	}
	return match[2], true
}

// YouTubeID returns the video's id, if its URL carries one.
func (v Video) YouTubeID() (string, bool) {
	return YouTubeID(v.URL)
}
