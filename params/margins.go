package params

// Margins are fractions of the box dimension on each side.
type Margins struct {
	Left, Right, Top, Bottom float32
}

// Symmetric reports whether the ring stays centered.
func (m Margins) Symmetric() bool {
	return m.Left == m.Right && m.Top == m.Bottom
}

// ResolveMargins applies the per-side overrides on top of the shared margin.
func (p Params) ResolveMargins() Margins {
	side := func(v *float32) float32 {
		if v != nil {
			return *v
		}
		return p.Margin
	}
	return Margins{
		Left:   side(p.MarginLeft),
		Right:  side(p.MarginRight),
		Top:    side(p.MarginTop),
		Bottom: side(p.MarginBottom),
	}
}

// SetMargins sets explicit values for all four sides.
func (p *Params) SetMargins(m Margins) {
	p.MarginLeft = &m.Left
	p.MarginRight = &m.Right
	p.MarginTop = &m.Top
	p.MarginBottom = &m.Bottom
}
