/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package layout

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/friendsincode/onradio/internal/models"
)

var (
	ErrModuleNotFound  = errors.New("module not found")
	ErrRequiredModule  = errors.New("module is required")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrUnknownType     = errors.New("unknown module type")
	ErrDuplicateID     = errors.New("duplicate module id")
	ErrInvalidSettings = errors.New("invalid module settings")
)

// SettingsPatch carries the fields of a settings update; nil fields are left as is.
type SettingsPatch struct {
	Size         *models.ModuleSize      `json:"size,omitempty"`
	Spacing      *models.ModuleSpacing   `json:"spacing,omitempty"`
	Alignment    *models.ModuleAlignment `json:"alignment,omitempty"`
	MarginTop    *int                    `json:"marginTop,omitempty"`
	MarginBottom *int                    `json:"marginBottom,omitempty"`
	FontSize     *models.FontSize        `json:"fontSize,omitempty"`
}

// Every edit operation returns a new slice and never mutates its input.

func clone(mods []models.ModuleConfig) []models.ModuleConfig {
	out := make([]models.ModuleConfig, len(mods))
	for i, m := range mods {
		out[i] = m.Clone()
	}
	return out
}

func renumber(mods []models.ModuleConfig) []models.ModuleConfig {
	for i := range mods {
		mods[i].Order = i
	}
	return mods
}

func indexOf(mods []models.ModuleConfig, id string) int {
	for i, m := range mods {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// Move moves the module at from to position to and reassigns order to the
// dense 0..n-1 sequence of the new arrangement.
func Move(mods []models.ModuleConfig, from, to int) ([]models.ModuleConfig, error) {
	n := len(mods)
	if from < 0 || from >= n || to < 0 || to >= n {
		return nil, fmt.Errorf("move %d to %d of %d: %w", from, to, n, ErrIndexOutOfRange)
	}
	out := clone(mods)
	m := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]models.ModuleConfig{m}, out[to:]...)...)
	return renumber(out), nil
}

// MoveByID moves the module activeID to the position currently held by overID.
func MoveByID(mods []models.ModuleConfig, activeID, overID string) ([]models.ModuleConfig, error) {
	from, to := indexOf(mods, activeID), indexOf(mods, overID)
	if from < 0 {
		return nil, fmt.Errorf("module %q: %w", activeID, ErrModuleNotFound)
	}
	if to < 0 {
		return nil, fmt.Errorf("module %q: %w", overID, ErrModuleNotFound)
	}
	return Move(mods, from, to)
}

// Toggle flips the enabled flag of module id. Required modules cannot be
// switched off; enabling one that was persisted disabled is allowed.
func Toggle(mods []models.ModuleConfig, id string) ([]models.ModuleConfig, error) {
	i := indexOf(mods, id)
	if i < 0 {
		return nil, fmt.Errorf("module %q: %w", id, ErrModuleNotFound)
	}
	if mods[i].Enabled && IsRequired(mods[i].Type) {
		return nil, fmt.Errorf("disable %s: %w", mods[i].Type, ErrRequiredModule)
	}
	out := clone(mods)
	out[i].Enabled = !out[i].Enabled
	return out, nil
}

// UpdateSettings merges patch into the settings of module id. Margins are
// clamped and fontSize is dropped for types that render no text.
func UpdateSettings(mods []models.ModuleConfig, id string, patch SettingsPatch) ([]models.ModuleConfig, error) {
	i := indexOf(mods, id)
	if i < 0 {
		return nil, fmt.Errorf("module %q: %w", id, ErrModuleNotFound)
	}
	out := clone(mods)
	s := &out[i].Settings
	if patch.Size != nil {
		s.Size = *patch.Size
	}
	if patch.Spacing != nil {
		s.Spacing = *patch.Spacing
	}
	if patch.Alignment != nil {
		s.Alignment = *patch.Alignment
	}
	if patch.MarginTop != nil {
		s.MarginTop = models.IntPtr(clampMargin(*patch.MarginTop))
	}
	if patch.MarginBottom != nil {
		s.MarginBottom = models.IntPtr(clampMargin(*patch.MarginBottom))
	}
	if patch.FontSize != nil && FontSizeApplies(out[i].Type) {
		s.FontSize = *patch.FontSize
	}
	return out, nil
}

func clampMargin(v int) int {
	if v < models.MinMargin {
		return models.MinMargin
	}
	if v > models.MaxMargin {
		return models.MaxMargin
	}
	return v
}

// Add appends a new enabled module of type t with that type's default settings.
func Add(mods []models.ModuleConfig, t models.ModuleType) ([]models.ModuleConfig, error) {
	if _, ok := Lookup(t); !ok {
		return nil, fmt.Errorf("add %q: %w", t, ErrUnknownType)
	}
	out := clone(mods)
	out = append(out, models.ModuleConfig{
		ID:       uuid.NewString(),
		Type:     t,
		Enabled:  true,
		Settings: DefaultSettings(t),
	})
	return renumber(out), nil
}

// Remove deletes module id. Required modules cannot be removed.
func Remove(mods []models.ModuleConfig, id string) ([]models.ModuleConfig, error) {
	i := indexOf(mods, id)
	if i < 0 {
		return nil, fmt.Errorf("module %q: %w", id, ErrModuleNotFound)
	}
	if IsRequired(mods[i].Type) {
		return nil, fmt.Errorf("remove %s: %w", mods[i].Type, ErrRequiredModule)
	}
	out := clone(mods)
	out = append(out[:i], out[i+1:]...)
	return renumber(out), nil
}

var (
	validSizes      = map[models.ModuleSize]bool{models.SizeSM: true, models.SizeMD: true, models.SizeLG: true, models.SizeXL: true}
	validAlignments = map[models.ModuleAlignment]bool{models.AlignLeft: true, models.AlignCenter: true, models.AlignRight: true}
	validFontSizes  = map[models.FontSize]bool{
		models.FontXS: true, models.FontSM: true, models.FontBase: true, models.FontLG: true,
		models.FontXL: true, models.Font2XL: true, models.Font3XL: true,
	}
)

// Validate checks a layout before the editor saves it. A required module
// persisted as disabled is accepted.
func Validate(l models.PlayerLayout) error {
	seen := make(map[string]bool, len(l.Modules))
	for _, m := range l.Modules {
		if m.ID == "" || seen[m.ID] {
			return fmt.Errorf("module %q: %w", m.ID, ErrDuplicateID)
		}
		seen[m.ID] = true
		if _, ok := Lookup(m.Type); !ok {
			return fmt.Errorf("module %q type %q: %w", m.ID, m.Type, ErrUnknownType)
		}
		s := m.Settings
		if s.Size != "" && !validSizes[s.Size] {
			return fmt.Errorf("module %q size %q: %w", m.ID, s.Size, ErrInvalidSettings)
		}
		if s.Alignment != "" && !validAlignments[s.Alignment] {
			return fmt.Errorf("module %q alignment %q: %w", m.ID, s.Alignment, ErrInvalidSettings)
		}
		if s.FontSize != "" && !validFontSizes[s.FontSize] {
			return fmt.Errorf("module %q fontSize %q: %w", m.ID, s.FontSize, ErrInvalidSettings)
		}
		if s.Top() < models.MinMargin || s.Top() > models.MaxMargin || s.Bottom() < models.MinMargin || s.Bottom() > models.MaxMargin {
			return fmt.Errorf("module %q margins: %w", m.ID, ErrInvalidSettings)
		}
	}
	if l.GlobalSpacing < 0 {
		return fmt.Errorf("globalSpacing %d: %w", l.GlobalSpacing, ErrInvalidSettings)
	}
	return nil
}
