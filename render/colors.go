package render

import "image/color"

var (
	// White color
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	// Black color
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	// Red color, the default foreground overlay
	Red = color.RGBA{R: 255, G: 56, B: 56, A: 255}
	// Green color
	Green = color.RGBA{R: 72, G: 249, B: 10, A: 255}
	// Yellow color, the default region box color
	Yellow = color.RGBA{R: 255, G: 178, B: 29, A: 255}
)
