package tui

import (
	"strings"
	"sync"
)

// Terminal apps can't change the user's actual font. Instead, we can choose
// between Unicode and ASCII glyph sets for UI affordances (checkboxes, icons,
// arrows). This helps on terminals/fonts that don't render some glyphs cleanly.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

func applyGlyphPreference(configured string) {
	switch strings.ToLower(strings.TrimSpace(configured)) {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	default:
		// Unknown value: ignore.
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func glyphCheckboxDone() string {
	if glyphs() == glyphSetASCII {
		return "[x]"
	}
	return "☑"
}

func glyphCheckboxOpen() string {
	if glyphs() == glyphSetASCII {
		return "[ ]"
	}
	return "☐"
}

func glyphArrowLeft() string {
	if glyphs() == glyphSetASCII {
		return "<"
	}
	return "◀"
}

func glyphArrowRight() string {
	if glyphs() == glyphSetASCII {
		return ">"
	}
	return "▶"
}

func glyphBullet() string {
	if glyphs() == glyphSetASCII {
		return "*"
	}
	return "•"
}

var categoryGlyphsUnicode = map[string]string{
	"folder":    "🗀",
	"tag":       "⊘",
	"bookmark":  "🔖",
	"star":      "★",
	"flag":      "⚑",
	"circle":    "●",
	"heart":     "♥",
	"home":      "⌂",
	"building":  "🏢",
	"car":       "🚗",
	"plane":     "✈",
	"book":      "📖",
	"briefcase": "💼",
	"money":     "$",
	"calendar":  "📅",
	"clock":     "🕒",
	"user":      "👤",
}

// glyphCategory renders a category icon name. ASCII mode falls back to a
// bracketed initial so sidebars stay aligned.
func glyphCategory(icon string) string {
	if glyphs() == glyphSetASCII {
		if icon == "" {
			icon = "folder"
		}
		return "[" + strings.ToUpper(icon[:1]) + "]"
	}
	if g, ok := categoryGlyphsUnicode[icon]; ok {
		return g
	}
	return categoryGlyphsUnicode["folder"]
}
