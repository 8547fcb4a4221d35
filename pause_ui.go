package main

import (
	"fmt"
	"image/color"

	"github.com/milk9111/collide2d/collision"
	"github.com/milk9111/collide2d/common"
	"golang.org/x/image/font/basicfont"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
)

// NewPauseUI builds the centered pause menu. Its buttons switch the solver,
// toggle debug drawing and rebuild the scene.
func NewPauseUI(g *Game) *ebitenui.UI {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white}
	centered := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	button := func(label string, onClick func(b *widget.Button)) *widget.Button {
		var btn *widget.Button
		btn = widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(centered),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick(btn)
			}),
		)
		return btn
	}

	title := widget.NewText(
		widget.TextOpts.Text("Paused", &face, white),
		widget.TextOpts.WidgetOpts(centered),
	)

	resumeBtn := button("Resume", func(*widget.Button) {
		g.paused = false
	})
	solverBtn := button(solverLabel(g.config.Config().Solver), func(b *widget.Button) {
		setLabel(b, solverLabel(g.toggleSolver()))
	})
	debugBtn := button(debugLabel(g.collisions.Debug), func(b *widget.Button) {
		g.collisions.Debug = !g.collisions.Debug
		setLabel(b, debugLabel(g.collisions.Debug))
	})
	reloadBtn := button("Reload scene", func(*widget.Button) {
		g.reloadScene()
		g.paused = false
	})

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(common.BaseWidth/2, common.BaseHeight/2),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	panel.AddChild(title)
	panel.AddChild(resumeBtn)
	panel.AddChild(solverBtn)
	panel.AddChild(debugBtn)
	panel.AddChild(reloadBtn)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	return &ebitenui.UI{Container: root}
}

func solverLabel(s collision.SolverStrategy) string {
	return fmt.Sprintf("Solver: %s", s)
}

func debugLabel(on bool) string {
	if on {
		return "Debug draw: on"
	}
	return "Debug draw: off"
}

func setLabel(b *widget.Button, label string) {
	if text := b.Text(); text != nil {
		text.Label = label
	}
}
