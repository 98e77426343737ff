package models

import (
	"strings"
	"testing"
)

func TestToggleDayKeepsCanonicalOrder(t *testing.T) {
	days := ""
	for _, d := range []string{"Domingo", "Miércoles", "Lunes", "Sábado"} {
		days = ToggleDay(days, d)
	}
	if days != "Lunes,Miércoles,Sábado,Domingo" {
		t.Fatalf("days=%q", days)
	}

	days = ToggleDay(days, "Miércoles")
	if days != "Lunes,Sábado,Domingo" {
		t.Fatalf("after removing Miércoles days=%q", days)
	}
}

func TestToggleDayResortsOutOfOrderInput(t *testing.T) {
	got := ToggleDay("Viernes, Lunes", "Martes")
	if got != "Lunes,Martes,Viernes" {
		t.Fatalf("got %q", got)
	}
}

func TestToggleDayIsSubsequenceOfWeek(t *testing.T) {
	clicks := []string{"Jueves", "Martes", "Jueves", "Domingo", "Lunes", "Viernes", "Martes", "Sábado", "Miércoles"}
	days := ""
	for _, click := range clicks {
		days = ToggleDay(days, click)
		last := -1
		for _, d := range strings.Split(days, ",") {
			if d == "" {
				continue
			}
			idx := -1
			for i, w := range Weekdays {
				if w == d {
					idx = i
				}
			}
			if idx <= last {
				t.Fatalf("days %q not in canonical order after clicking %s", days, click)
			}
			last = idx
		}
	}
}

func TestToggleDayIgnoresUnknownDay(t *testing.T) {
	if got := ToggleDay("Lunes", "Funday"); got != "Lunes" {
		t.Fatalf("got %q", got)
	}
}

func TestProgramAiresOn(t *testing.T) {
	p := Program{Days: "Lunes,Viernes"}
	if !p.AiresOn("Viernes") || p.AiresOn("Martes") {
		t.Fatalf("unexpected AiresOn results for %q", p.Days)
	}
	if NewProgram().ID == "" {
		t.Fatal("expected generated program id")
	}
}

func TestYouTubeID(t *testing.T) {
	tests := []struct {
		url    string
		want   string
		wantOK bool
	}{
		{url: "https://youtu.be/dQw4w9WgXcQ", want: "dQw4w9WgXcQ", wantOK: true},
		{url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ", wantOK: true},
		{url: "https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=1", want: "dQw4w9WgXcQ", wantOK: true},
		{url: "https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ", wantOK: true},
		{url: "https://example.com", wantOK: false},
		{url: "https://youtu.be/short", wantOK: false},
		{url: "", wantOK: false},
	}
	for _, tc := range tests {
		got, ok := YouTubeID(tc.url)
		if ok != tc.wantOK || got != tc.want {
			t.Fatalf("YouTubeID(%q)=(%q,%v), want (%q,%v)", tc.url, got, ok, tc.want, tc.wantOK)
		}
	}
}
