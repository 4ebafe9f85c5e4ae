package tui

import "github.com/gdamore/tcell/v2"

// Color constants for the terminal theme, muted pastels over base black
var (
	ColorAnswerText   = tcell.NewRGBColor(0, 255, 135)   // Mint green - answer prose
	ColorToolText     = tcell.NewRGBColor(255, 128, 255) // Soft magenta - tool activity
	ColorToolDone     = tcell.NewRGBColor(50, 205, 50)   // Lime green - finished tools
	ColorCitationText = tcell.NewRGBColor(127, 255, 212) // Aquamarine - citation markers
	ColorDocumentText = tcell.NewRGBColor(176, 224, 230) // Powder blue - document listing
	ColorDimText      = tcell.NewRGBColor(169, 169, 169) // Dark gray - secondary text
	ColorHeaderText   = tcell.NewRGBColor(175, 175, 175) // Light gray - section headers
	ColorErrorText    = tcell.NewRGBColor(255, 99, 71)   // Tomato - errors
	ColorStatusReady  = tcell.NewRGBColor(144, 238, 144) // Light green - done status
	ColorStatusBusy   = tcell.NewRGBColor(255, 218, 185) // Peach - streaming status

	// Code block token colors
	ColorCodeKeyword  = tcell.NewRGBColor(255, 176, 0)   // Warm amber
	ColorCodeString   = tcell.NewRGBColor(0, 255, 135)   // Mint green
	ColorCodeComment  = tcell.NewRGBColor(105, 105, 105) // Dim gray
	ColorCodeNumber   = tcell.NewRGBColor(218, 112, 214) // Orchid
	ColorCodeFunction = tcell.NewRGBColor(0, 191, 255)   // Deep sky blue
	ColorCodeDefault  = tcell.NewRGBColor(255, 255, 255) // White
)

// Style presets combining colors with text attributes
var (
	StyleAnswerText   = tcell.StyleDefault.Foreground(ColorAnswerText)
	StyleToolText     = tcell.StyleDefault.Foreground(ColorToolText)
	StyleToolDone     = tcell.StyleDefault.Foreground(ColorToolDone)
	StyleCitationText = tcell.StyleDefault.Foreground(ColorCitationText)
	StyleDocumentText = tcell.StyleDefault.Foreground(ColorDocumentText)
	StyleDimText      = tcell.StyleDefault.Foreground(ColorDimText)
	StyleHeaderText   = tcell.StyleDefault.Foreground(ColorHeaderText).Bold(true)
	StyleErrorText    = tcell.StyleDefault.Foreground(ColorErrorText)
	StyleStatusReady  = tcell.StyleDefault.Foreground(ColorStatusReady)
	StyleStatusBusy   = tcell.StyleDefault.Foreground(ColorStatusBusy)
)
