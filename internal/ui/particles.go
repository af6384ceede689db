package ui

import (
	"math/rand/v2"
	"strings"
)

var particleGlyphs = []rune{'·', '•', '*', '✦'}

type particle struct {
	x, y  float64
	dx    float64
	dy    float64
	glyph rune
}

// Particles is the decorative ember field drawn behind the splash. The
// layout is a pure function of the seed and the number of steps taken.
type Particles struct {
	rng    *rand.Rand
	points []particle
}

// NewParticles creates a field of 24 particles seeded with seed.
func NewParticles(seed uint64) *Particles {
	p := &Particles{rng: rand.New(rand.NewPCG(seed, seed^0x5eed))}
	for range 24 {
		p.points = append(p.points, p.spawn(p.rng.Float64()))
	}
	return p
}

func (p *Particles) spawn(y float64) particle {
	return particle{
		x:     p.rng.Float64(),
		y:     y,
		dx:    (p.rng.Float64() - 0.5) * 0.01,
		dy:    -(0.01 + p.rng.Float64()*0.03),
		glyph: particleGlyphs[p.rng.IntN(len(particleGlyphs))],
	}
}

// Step advances every particle. Particles leaving the top respawn at the bottom.
func (p *Particles) Step() {
	for i := range p.points {
		pt := &p.points[i]
		pt.x += pt.dx
		pt.y += pt.dy
		if pt.y < 0 || pt.x < 0 || pt.x >= 1 {
			*pt = p.spawn(1)
		}
	}
}

// Render draws the field into a width x height block of text.
func (p *Particles) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	for _, pt := range p.points {
		col := int(pt.x * float64(width))
		row := int(pt.y * float64(height))
		if col < 0 || col >= width || row < 0 || row >= height {
			continue
		}
		grid[row][col] = pt.glyph
	}

	lines := make([]string, height)
	for i, row := range grid {
		lines[i] = string(row)
	}
	return particleStyle.Render(strings.Join(lines, "\n"))
}
