package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/friendsincode/onradio/internal/models"
)

func TestWriteStationConfig(t *testing.T) {
	sc := models.DefaultStation()

	var out bytes.Buffer
	if err := writeStationConfig(&out, sc, "yaml"); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !strings.Contains(out.String(), "stationName: Nombre de la Radio") {
		t.Fatalf("yaml output:\n%s", out.String())
	}

	out.Reset()
	if err := writeStationConfig(&out, sc, "json"); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !strings.Contains(out.String(), `"stationName": "Nombre de la Radio"`) {
		t.Fatalf("json output:\n%s", out.String())
	}

	if err := writeStationConfig(&out, sc, "toml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{
			name: "minimal",
			doc:  `{"stationName":"Radio","slogan":"","streamUrl":"","theme":{"primaryColor":"#000","backgroundColor":"#fff","textColor":"#000"}}`,
		},
		{name: "missing required", doc: `{"slogan":""}`, wantErr: true},
		{name: "not json", doc: `stationName: Radio`, wantErr: true},
		{
			name:    "negative rotation",
			doc:     `{"stationName":"Radio","slogan":"","streamUrl":"","bannerRotationSeconds":-5,"theme":{"primaryColor":"#000","backgroundColor":"#fff","textColor":"#000"}}`,
			wantErr: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validateDocument([]byte(tc.doc))
			if (err != nil) != tc.wantErr {
				t.Fatalf("err=%v, wantErr=%v", err, tc.wantErr)
			}
		})
	}
}
