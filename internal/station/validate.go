/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package station

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/friendsincode/onradio/internal/layout"
	"github.com/friendsincode/onradio/internal/models"
)

type configRules struct {
	Template              string   `validate:"omitempty,oneof=classic card"`
	BannerRotationSeconds int      `validate:"gte=0"`
	Blur                  float64  `validate:"gte=0,lte=20"`
	Opacity               float64  `validate:"gte=0,lte=1"`
	BannerTypes           []string `validate:"dive,omitempty,oneof=standard fullscreen"`
	ContentTypes          []string `validate:"dive,omitempty,oneof=image html"`
	Frequencies           []int    `validate:"dive,gte=0"`
}

var configValidator = validator.New()

// Validate checks cfg with the rules Save applies.
func (s *Service) Validate(cfg models.StationConfig) error {
	return Validate(cfg)
}

// Validate checks the ranges and enumerations a saved configuration must
// respect. Missing optional sections are fine.
func Validate(cfg models.StationConfig) error {
	rules := configRules{
		Template:              string(cfg.Template),
		BannerRotationSeconds: cfg.BannerRotationSeconds,
		Opacity:               1,
	}
	if e := cfg.Theme.BackgroundEffect; e != nil {
		rules.Blur = e.Blur
		rules.Opacity = e.Opacity
	}
	for _, b := range cfg.Banners {
		rules.BannerTypes = append(rules.BannerTypes, string(b.Type))
		rules.ContentTypes = append(rules.ContentTypes, string(b.ContentType))
		rules.Frequencies = append(rules.Frequencies, b.Frequency)
	}

	if err := configValidator.Struct(rules); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrValidation, strings.Join(fields, "; "))
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if cfg.Layout != nil {
		if err := layout.Validate(*cfg.Layout); err != nil {
			return fmt.Errorf("%w: layout: %v", ErrValidation, err)
		}
	}
	return nil
}
