package trackview

// trackStacker assigns vertical offsets to tracks top to bottom. Each track's
// top sits padding below the previous track's bottom, so track i can only be
// placed once track i-1 has been drawn and measured.
type trackStacker struct {
	padding float64
	bottom  float64
}

// place returns the Y translation for node from its measured content bounds
// and advances the running bottom edge. A track with nothing drawn takes no
// height.
func (s *trackStacker) place(node *Node) float64 {
	top := s.bottom + s.padding
	b, ok := node.ContentBounds()
	if !ok {
		s.bottom = top
		return top
	}
	s.bottom = top + b.Height
	return top - b.Y
}

// height returns the total stacked height including the trailing padding.
func (s *trackStacker) height() float64 {
	return s.bottom + s.padding
}
