package renderer

import (
	"fmt"
	"g2d/internal/graphics"
	"g2d/internal/graphics/shapes"
)

// scratch holds the typed slices DrawShapes regroups mixed lists into. They
// are reused across calls.
type scratch struct {
	rects   []shapes.Rectangle
	circles []shapes.Circle
	lines   []shapes.Line
	sprites []shapes.Sprite
}

// DrawShapes draws a mixed list in order. Consecutive shapes of the same
// family are batched into one call; sprites use the texture loaded under
// texture.
func (c *Context) DrawShapes(mode shapes.Mode, texture string, items []shapes.Shape, cam graphics.Camera) error {
	for start := 0; start < len(items); {
		family := items[start].Family()
		end := start + 1
		for end < len(items) && items[end].Family() == family {
			end++
		}
		if err := c.drawRun(mode, texture, family, items[start:end], cam); err != nil {
			return err
		}
		start = end
	}
	return nil
}

func (c *Context) drawRun(mode shapes.Mode, texture string, family shapes.Family, run []shapes.Shape, cam graphics.Camera) error {
	switch family {
	case shapes.FamilyRectangle:
		c.scratch.rects = c.scratch.rects[:0]
		for _, s := range run {
			switch v := s.(type) {
			case shapes.Rectangle:
				c.scratch.rects = append(c.scratch.rects, v)
			case *shapes.Rectangle:
				c.scratch.rects = append(c.scratch.rects, *v)
			}
		}
		return c.DrawRectangles(mode, c.scratch.rects, cam)

	case shapes.FamilyCircle:
		c.scratch.circles = c.scratch.circles[:0]
		for _, s := range run {
			switch v := s.(type) {
			case shapes.Circle:
				c.scratch.circles = append(c.scratch.circles, v)
			case *shapes.Circle:
				c.scratch.circles = append(c.scratch.circles, *v)
			}
		}
		return c.DrawCircles(mode, c.scratch.circles, cam)

	case shapes.FamilyLine:
		c.scratch.lines = c.scratch.lines[:0]
		for _, s := range run {
			switch v := s.(type) {
			case shapes.Line:
				c.scratch.lines = append(c.scratch.lines, v)
			case *shapes.Line:
				c.scratch.lines = append(c.scratch.lines, *v)
			}
		}
		return c.DrawLines(c.scratch.lines, cam)

	case shapes.FamilySprite:
		c.scratch.sprites = c.scratch.sprites[:0]
		for _, s := range run {
			switch v := s.(type) {
			case shapes.Sprite:
				c.scratch.sprites = append(c.scratch.sprites, v)
			case *shapes.Sprite:
				c.scratch.sprites = append(c.scratch.sprites, *v)
			}
		}
		return c.DrawTexture(texture, c.scratch.sprites, cam)

	default:
		return fmt.Errorf("unknown shape family %d", family)
	}
}
