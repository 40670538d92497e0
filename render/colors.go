package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
)

// Chart palette
var (
	ColorSea      = tcell.NewRGBColor(10, 24, 48)
	ColorSwell    = tcell.NewRGBColor(40, 70, 110)
	ColorPlayer   = tcell.NewRGBColor(120, 200, 255)
	ColorEnemy    = tcell.NewRGBColor(230, 180, 90)
	ColorWreck    = tcell.NewRGBColor(90, 90, 90)
	ColorShot     = tcell.NewRGBColor(240, 240, 240)
	ColorHUD      = tcell.NewRGBColor(200, 200, 200)
	ColorHUDBg    = tcell.NewRGBColor(24, 24, 32)
	ColorAlert    = tcell.NewRGBColor(255, 80, 80)
	ColorLabel    = tcell.NewRGBColor(150, 160, 170)
	StyleSea      = tcell.StyleDefault.Foreground(ColorSwell).Background(ColorSea)
	StyleHUD      = tcell.StyleDefault.Foreground(ColorHUD).Background(ColorHUDBg)
	StyleHUDAlert = tcell.StyleDefault.Foreground(ColorAlert).Background(ColorHUDBg).Bold(true)
)

// DiffuseColor converts a 0..1 material colour to a terminal colour
func DiffuseColor(c mgl64.Vec3) tcell.Color {
	return tcell.NewRGBColor(channel(c[0]), channel(c[1]), channel(c[2]))
}

func channel(v float64) int32 {
	if v != v || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return int32(v*255 + 0.5)
}
