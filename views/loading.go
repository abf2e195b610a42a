package views

import (
	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"git.sr.ht/~rockorager/vaxis/vxfw/richtext"
)

// drawLoadingState renders a "Loading..." message in the view.
func drawLoadingState(ctx vxfw.DrawContext, owner vxfw.Widget) (vxfw.Surface, error) {
	return drawMessage(ctx, owner, []vaxis.Segment{
		{Text: "Loading...", Style: vaxis.Style{Attribute: vaxis.AttrDim}},
	})
}

// drawErrorState renders msg in place of the chart.
func drawErrorState(ctx vxfw.DrawContext, owner vxfw.Widget, msg string) (vxfw.Surface, error) {
	return drawMessage(ctx, owner, []vaxis.Segment{
		{Text: "✗ ", Style: vaxis.Style{Foreground: vaxis.IndexColor(1), Attribute: vaxis.AttrBold}},
		{Text: msg, Style: vaxis.Style{Foreground: vaxis.IndexColor(1)}},
	})
}

func drawMessage(ctx vxfw.DrawContext, owner vxfw.Widget, segments []vaxis.Segment) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, owner)
	if ctx.Max.Height == 0 {
		return s, nil
	}
	label := richtext.New(segments)
	labelSurf, err := label.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 0, labelSurf)
	return s, nil
}
