/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package layout resolves and edits the declarative module list of a player.
package layout

import "github.com/friendsincode/onradio/internal/models"

// Definition describes a module type's editor properties and defaults.
type Definition struct {
	Type            models.ModuleType     `json:"type"`
	Label           string                `json:"label"`
	Description     string                `json:"description"`
	Icon            string                `json:"icon"`
	Required        bool                  `json:"required"`
	FontSizeApplies bool                  `json:"fontSizeApplies"`
	Defaults        models.ModuleSettings `json:"defaults"`
}

// Registry contains all module definitions, in editor display order.
var Registry = []Definition{
	{
		Type:        models.ModuleLogo,
		Label:       "Logotipo",
		Description: "Logo de la emisora",
		Icon:        "image",
		Defaults:    settings(models.SizeMD, models.SpacingNormal, "", 0, 2),
	},
	{
		Type:            models.ModuleTitle,
		Label:           "Nombre",
		Description:     "Nombre de la radio",
		Icon:            "type",
		Required:        true,
		FontSizeApplies: true,
		Defaults:        settings(models.SizeLG, models.SpacingNormal, models.FontXL, 0, 1),
	},
	{
		Type:            models.ModuleSlogan,
		Label:           "Eslogan",
		Description:     "Frase descriptiva",
		Icon:            "quote",
		FontSizeApplies: true,
		Defaults:        settings(models.SizeSM, models.SpacingTight, models.FontSM, 0, 3),
	},
	{
		Type:        models.ModulePlayButton,
		Label:       "Botón Play",
		Description: "Control de reproducción",
		Icon:        "play-circle",
		Required:    true,
		Defaults:    settings(models.SizeMD, models.SpacingNormal, "", 0, 2),
	},
	{
		Type:        models.ModuleVolume,
		Label:       "Volumen",
		Description: "Control de volumen",
		Icon:        "volume",
		Defaults:    settings(models.SizeMD, models.SpacingTight, "", 0, 2),
	},
	{
		Type:        models.ModuleSocialIcons,
		Label:       "Redes Sociales",
		Description: "Enlaces a redes",
		Icon:        "share",
		Defaults:    settings(models.SizeMD, models.SpacingNormal, "", 0, 2),
	},
	{
		Type:        models.ModuleBanner,
		Label:       "Banner",
		Description: "Espacio publicitario",
		Icon:        "megaphone",
		Defaults:    settings(models.SizeMD, models.SpacingNormal, "", 0, 2),
	},
	{
		Type:            models.ModuleFooter,
		Label:           "Pie de Página",
		Description:     "Texto inferior",
		Icon:            "align-bottom",
		FontSizeApplies: true,
		Defaults:        settings(models.SizeSM, models.SpacingNormal, models.FontXS, 4, 0),
	},
}

func settings(size models.ModuleSize, spacing models.ModuleSpacing, font models.FontSize, top, bottom int) models.ModuleSettings {
	return models.ModuleSettings{
		Size:         size,
		Spacing:      spacing,
		Alignment:    models.AlignCenter,
		MarginTop:    models.IntPtr(top),
		MarginBottom: models.IntPtr(bottom),
		FontSize:     font,
	}
}

// Lookup returns the definition for a module type.
func Lookup(t models.ModuleType) (Definition, bool) {
	for _, def := range Registry {
		if def.Type == t {
			return def, true
		}
	}
	return Definition{}, false
}

// IsRequired reports whether modules of type t must stay enabled.
func IsRequired(t models.ModuleType) bool {
	def, ok := Lookup(t)
	return ok && def.Required
}

// FontSizeApplies reports whether t renders text that accepts a fontSize override.
func FontSizeApplies(t models.ModuleType) bool {
	def, ok := Lookup(t)
	return ok && def.FontSizeApplies
}

// DefaultSettings returns a fresh copy of the default settings for t.
func DefaultSettings(t models.ModuleType) models.ModuleSettings {
	def, ok := Lookup(t)
	if !ok {
		return settings(models.SizeMD, models.SpacingNormal, "", 0, 2)
	}
	return models.ModuleConfig{Settings: def.Defaults}.Clone().Settings
}
