package ui

import "github.com/gdamore/tcell/v2"

// ColorTheme defines application colors.
type ColorTheme struct {
	Background  tcell.Color
	Foreground  tcell.Color
	PromptFg    tcell.Color
	QueryFg     tcell.Color
	IndicatorFg tcell.Color
	CounterFg   tcell.Color
	EntryFg     tcell.Color
	SelectionBg tcell.Color
	SelectionFg tcell.Color
	TabBg       tcell.Color
	TabFg       tcell.Color
	TabActiveBg tcell.Color
	TabActiveFg tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background:  tcell.ColorDefault,
		Foreground:  tcell.ColorDefault,
		PromptFg:    tcell.Color33,
		QueryFg:     tcell.ColorDefault,
		IndicatorFg: tcell.ColorLightSlateGray,
		CounterFg:   tcell.ColorLightSlateGray,
		EntryFg:     tcell.ColorDefault,
		SelectionBg: tcell.Color33,
		SelectionFg: tcell.ColorWhite,
		TabBg:       tcell.ColorDefault,
		TabFg:       tcell.ColorLightSlateGray,
		TabActiveBg: tcell.Color33,
		TabActiveFg: tcell.ColorWhite,
	}
}
