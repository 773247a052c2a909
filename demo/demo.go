// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

// Package demo holds the sample pages used by the render and bench CLI
// commands: a counter page, a server-side-rendering row page, and a spiral
// tile layout that stresses child reconciliation with thousands of
// positioned elements.
package demo

import (
	"fmt"
	"math"

	"github.com/wavetermdev/riptide/dom"
	"github.com/wavetermdev/riptide/engine"
	"github.com/wavetermdev/riptide/vdom"
)

const CounterSignal = "counter:count"

const spiralStyle = `body {
  display: flex;
  justify-content: center;
  align-items: center;
  height: 100vh;
  background-color: #f0f0f0;
  margin: 0;
}
#wrapper {
  width: 960px;
  height: 720px;
  position: relative;
  background-color: white;
}
.tile {
  position: absolute;
  width: 10px;
  height: 10px;
  background-color: #333;
}`

type HomeProps struct {
	Count int `json:"count"`
}

// HomePage renders the counter. The count renders through a bound signal so
// SetSignalText can rewrite it without a reconciliation pass.
func HomePage(props any) *vdom.Elem {
	p, _ := props.(HomeProps)
	return vdom.Fragment(
		vdom.H("h1", nil, "Welcome to Riptide!"),
		vdom.H("button", vdom.A("onclick", "increment"),
			"Click Me: ",
			vdom.ReactiveText(CounterSignal, fmt.Sprint(p.Count)),
		),
	)
}

type RowsProps struct {
	NumRows int `json:"numrows"`
}

// RowsPage renders a flat run of keyed rows, the SSR throughput scenario.
func RowsPage(props any) *vdom.Elem {
	p, _ := props.(RowsProps)
	rows := make([]int, p.NumRows)
	for i := range rows {
		rows[i] = i
	}
	return vdom.H("main", nil,
		vdom.ForEach(rows, func(i int, _ int) any {
			return vdom.H("div", vdom.A("key", fmt.Sprint(i)),
				fmt.Sprintf("SSR 1-%d", i))
		}),
	)
}

type SpiralProps struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	CellSize float64 `json:"cellsize"`
}

func DefaultSpiralProps() SpiralProps {
	return SpiralProps{Width: 960, Height: 720, CellSize: 10}
}

// SpiralTiles computes the tile positions for the spiral layout. Exposed so
// the bench command can report the element count without rendering.
func SpiralTiles(p SpiralProps) [][2]float64 {
	centerX := p.Width / 2
	centerY := p.Height / 2
	maxRadius := math.Min(p.Width, p.Height) / 2
	var tiles [][2]float64
	angle := 0.0
	radius := 0.0
	for radius < maxRadius {
		x := centerX + math.Cos(angle)*radius
		y := centerY + math.Sin(angle)*radius
		if x >= 0 && x <= p.Width-p.CellSize && y >= 0 && y <= p.Height-p.CellSize {
			tiles = append(tiles, [2]float64{x, y})
		}
		angle += 0.2
		radius += p.CellSize * 0.015
	}
	return tiles
}

// SpiralPage lays out one absolutely positioned tile per spiral step.
func SpiralPage(props any) *vdom.Elem {
	p, _ := props.(SpiralProps)
	tiles := SpiralTiles(p)
	return vdom.Fragment(
		vdom.H("style", nil, spiralStyle),
		vdom.H("div", vdom.A("id", "root"),
			vdom.H("div", vdom.A("id", "wrapper"),
				vdom.ForEach(tiles, func(t [2]float64, _ int) any {
					return vdom.H("div", vdom.A(
						"class", "tile",
						"style", fmt.Sprintf("left: %.2fpx; top: %.2fpx", t[0], t[1]),
					))
				}),
			),
		),
	)
}

// PageElem returns the descriptor for a named demo page.
func PageElem(page string) (*vdom.Elem, error) {
	switch page {
	case "home":
		return vdom.Comp(HomePage, HomeProps{Count: 0}), nil
	case "ssr":
		return vdom.Comp(RowsPage, RowsProps{NumRows: 50}), nil
	case "spiral":
		return vdom.Comp(SpiralPage, DefaultSpiralProps()), nil
	}
	return nil, fmt.Errorf("demo: unknown page %q (want home, ssr, or spiral)", page)
}

// RenderPage mounts a named page into a headless document and returns its
// serialized HTML.
func RenderPage(page string) (string, error) {
	elem, err := PageElem(page)
	if err != nil {
		return "", err
	}
	doc := dom.NewHeadlessDocument()
	body := doc.CreateElement("body")
	root := engine.MakeRoot(doc)
	if err := root.Mount(elem, body); err != nil {
		return "", err
	}
	return dom.InnerHTML(body), nil
}
