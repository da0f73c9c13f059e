package chart

// Renderer receives a redraw request after every change to a chart
type Renderer interface {
	Redraw(chart *Chart)
}

// RendererFunc adapts a function to the Renderer interface
type RendererFunc func(chart *Chart)

// Redraw calls f(chart)
func (f RendererFunc) Redraw(chart *Chart) {
	f(chart)
}

// NopRenderer discards redraw requests
type NopRenderer struct{}

// Redraw implements Renderer
func (NopRenderer) Redraw(*Chart) {}
