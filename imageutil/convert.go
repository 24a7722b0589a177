package imageutil

// Intensity returns the truncated mean of the three channels,
// (R+G+B)/3, in the range [0, 255].
func (rgb RGB) Intensity() int {
	return (int(rgb.R) + int(rgb.G) + int(rgb.B)) / 3
}
