/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package render

import (
	"fmt"

	"github.com/friendsincode/onradio/internal/layout"
	"github.com/friendsincode/onradio/internal/models"
)

// Classes is the computed presentation of one module.
type Classes struct {
	Margins   string // mt-N mb-N
	Alignment string
	Size      string // size scale, or the fontSize override for text modules
	Icon      string // play button icon scale
}

var sizeScales = map[models.ModuleType]map[models.ModuleSize]string{
	models.ModuleLogo: {
		models.SizeSM: "w-20 h-20",
		models.SizeMD: "w-28 h-28",
		models.SizeLG: "w-32 h-32",
		models.SizeXL: "w-36 h-36",
	},
	models.ModuleTitle: {
		models.SizeSM: "text-base",
		models.SizeMD: "text-xl",
		models.SizeLG: "text-2xl",
		models.SizeXL: "text-3xl",
	},
	models.ModuleSlogan: {
		models.SizeSM: "text-xs",
		models.SizeMD: "text-sm",
		models.SizeLG: "text-base",
		models.SizeXL: "text-lg",
	},
	models.ModulePlayButton: {
		models.SizeSM: "h-12 w-12",
		models.SizeMD: "h-16 w-16",
		models.SizeLG: "h-20 w-20",
		models.SizeXL: "h-24 w-24",
	},
	models.ModuleSocialIcons: {
		models.SizeSM: "h-8 w-8",
		models.SizeMD: "h-10 w-10",
		models.SizeLG: "h-12 w-12",
		models.SizeXL: "h-14 w-14",
	},
}

// Size used when a module carries none.
var fallbackSizes = map[models.ModuleType]models.ModuleSize{
	models.ModuleLogo:        models.SizeMD,
	models.ModuleTitle:       models.SizeLG,
	models.ModuleSlogan:      models.SizeSM,
	models.ModulePlayButton:  models.SizeMD,
	models.ModuleSocialIcons: models.SizeMD,
}

var alignmentClasses = map[models.ModuleAlignment]string{
	models.AlignLeft:   "items-start text-left",
	models.AlignCenter: "items-center text-center",
	models.AlignRight:  "items-end text-right",
}

var fontSizeClasses = map[models.FontSize]string{
	models.FontXS:   "text-xs",
	models.FontSM:   "text-sm",
	models.FontBase: "text-base",
	models.FontLG:   "text-lg",
	models.FontXL:   "text-xl",
	models.Font2XL:  "text-2xl",
	models.Font3XL:  "text-3xl",
}

// ModuleClasses computes the class view of m. It depends on nothing but m.
func ModuleClasses(m models.ModuleConfig) Classes {
	s := m.Settings
	c := Classes{
		Margins:   fmt.Sprintf("mt-%d mb-%d", s.Top(), s.Bottom()),
		Alignment: alignmentClasses[models.AlignCenter],
	}
	if a, ok := alignmentClasses[s.Alignment]; ok {
		c.Alignment = a
	}

	switch m.Type {
	case models.ModuleFooter:
		if s.Size == models.SizeLG {
			c.Size = "text-sm"
		} else {
			c.Size = "text-xs"
		}
	case models.ModulePlayButton:
		c.Size = scale(m.Type, s.Size)
		switch s.Size {
		case models.SizeSM:
			c.Icon = "h-6 w-6"
		case models.SizeLG:
			c.Icon = "h-10 w-10"
		case models.SizeXL:
			c.Icon = "h-12 w-12"
		default:
			c.Icon = "h-8 w-8"
		}
	default:
		c.Size = scale(m.Type, s.Size)
	}

	if s.FontSize != "" && layout.FontSizeApplies(m.Type) {
		if f, ok := fontSizeClasses[s.FontSize]; ok {
			c.Size = f
		}
	}
	return c
}

func scale(t models.ModuleType, size models.ModuleSize) string {
	scales, ok := sizeScales[t]
	if !ok {
		return ""
	}
	if v, ok := scales[size]; ok {
		return v
	}
	return scales[fallbackSizes[t]]
}
