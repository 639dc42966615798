package surface

// Unit is one caret position worth of displayable content: a single
// rune, a chip, or a pad space. Terminal frontends walk the unit list
// to draw the editor line and place the caret between units.
type Unit struct {
	Text string
	Chip bool
}

// Units flattens the surface into display units in document order.
// len(Units()) == Length(), so caret offsets index directly into it.
func (s *Surface) Units() []Unit {
	var units []Unit
	for _, seg := range s.segments() {
		switch {
		case seg.chip:
			c, ok := ChipAt(seg.node)
			if !ok {
				units = append(units, Unit{Text: " "})
				continue
			}
			units = append(units, Unit{Text: c.Label(), Chip: true})
		case seg.pad:
			units = append(units, Unit{Text: " "})
		default:
			for _, r := range seg.node.Data {
				units = append(units, Unit{Text: string(r)})
			}
		}
	}
	return units
}
