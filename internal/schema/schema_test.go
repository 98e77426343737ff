package schema

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/friendsincode/onradio/internal/layout"
	"github.com/friendsincode/onradio/internal/models"
)

func TestDefaultStationIsValid(t *testing.T) {
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	cfg := models.DefaultStation()
	l := layout.Default()
	cfg.Layout = &l

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := v.Validate(data); err != nil {
		t.Fatalf("default station invalid: %v", err)
	}
}

func TestInvalidDocuments(t *testing.T) {
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}

	tests := map[string]struct {
		doc  string
		want string
	}{
		"missing required":  {doc: `{"stationName":"x"}`, want: "slogan"},
		"bad template":      {doc: `{"stationName":"x","slogan":"","streamUrl":"","theme":{},"template":"neon"}`, want: "template"},
		"margin over range": {doc: `{"stationName":"x","slogan":"","streamUrl":"","theme":{},"layout":{"modules":[{"id":"1","type":"logo","enabled":true,"order":0,"settings":{"marginTop":13}}]}}`, want: "marginTop"},
		"unknown module":    {doc: `{"stationName":"x","slogan":"","streamUrl":"","theme":{},"layout":{"modules":[{"id":"1","type":"clock","enabled":true,"order":0}]}}`, want: "type"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			err := v.Validate([]byte(tc.doc))
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestMalformedJSON(t *testing.T) {
	v, _ := NewValidator()
	err := v.Validate([]byte("{"))
	if err == nil || errors.Is(err, ErrInvalid) {
		t.Fatalf("expected a parse error, got %v", err)
	}
}
