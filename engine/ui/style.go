package ui

import (
	"github.com/hubastard/buddy/engine/colors"
	"github.com/hubastard/buddy/engine/draw"
)

type Style struct {
	WindowPadding   draw.Vec2
	FramePadding    draw.Vec2
	ItemSpacing     draw.Vec2
	IndentSpacing   float32
	WindowRounding  float32
	FrameRounding   float32
	GrabMinSize     float32
	MinWindowSize   draw.Vec2
	DefaultWinPos   draw.Vec2
	DefaultWinSize  draw.Vec2
	ResizeGripSize  float32
	WidgetWidthFrac float32 // share of the content width used by framed widgets

	Text          colors.Color
	TextDisabled  colors.Color
	WindowBg      colors.Color
	Border        colors.Color
	TitleBg       colors.Color
	TitleBgActive colors.Color
	FrameBg       colors.Color
	FrameHovered  colors.Color
	FrameActive   colors.Color
	Button        colors.Color
	ButtonHovered colors.Color
	ButtonActive  colors.Color
	Header        colors.Color
	HeaderHovered colors.Color
	CheckMark     colors.Color
	SliderGrab    colors.Color
	Separator     colors.Color
	PlotFill      colors.Color
}

// DefaultStyle derives the interactive colours from a single accent.
func DefaultStyle(accent colors.Color) Style {
	return Style{
		WindowPadding:   draw.V(8, 8),
		FramePadding:    draw.V(4, 3),
		ItemSpacing:     draw.V(8, 4),
		IndentSpacing:   21,
		WindowRounding:  4,
		FrameRounding:   2,
		GrabMinSize:     10,
		MinWindowSize:   draw.V(80, 60),
		DefaultWinPos:   draw.V(100, 100),
		DefaultWinSize:  draw.V(400, 300),
		ResizeGripSize:  14,
		WidgetWidthFrac: 0.65,

		Text:          colors.White,
		TextDisabled:  colors.Gray,
		WindowBg:      colors.Color{0.06, 0.06, 0.07, 0.94},
		Border:        colors.Color{0.43, 0.43, 0.50, 0.50},
		TitleBg:       colors.Color{0.04, 0.04, 0.04, 1},
		TitleBgActive: accent.Scale(0.6),
		FrameBg:       accent.Scale(0.5).WithAlpha(0.54),
		FrameHovered:  accent.WithAlpha(0.40),
		FrameActive:   accent.WithAlpha(0.67),
		Button:        accent.WithAlpha(0.40),
		ButtonHovered: accent,
		ButtonActive:  accent.Scale(1.2),
		Header:        accent.WithAlpha(0.31),
		HeaderHovered: accent.WithAlpha(0.80),
		CheckMark:     accent.Scale(1.3),
		SliderGrab:    accent.Scale(1.1),
		Separator:     colors.Color{0.43, 0.43, 0.50, 0.50},
		PlotFill:      colors.Color{0.90, 0.70, 0, 1},
	}
}
