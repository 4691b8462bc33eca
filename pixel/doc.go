// Package pixel implements the RGB565 color and image types used by LCD panels.
//
// The types are compatible with Go's native [color.Color] and [image.Image] /
// [draw.Image] interfaces, so any image can be converted into the wire format
// the panel expects.
package pixel
