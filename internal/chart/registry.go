package chart

// Handle is a chart bound to a canvas id. Destroy releases the canvas.
type Handle struct {
	Target string
	Config Config

	reg       *Registry
	destroyed bool
}

func (h *Handle) Destroy() {
	if h.destroyed {
		return
	}
	h.destroyed = true
	h.reg.remove(h)
}

func (h *Handle) Live() bool {
	return !h.destroyed
}

// Registry owns the charts of one page render. A target holds at most one
// live chart; creating another on it destroys the previous one first.
type Registry struct {
	handles []*Handle
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Doughnut(target string, d Data, overrides Options) *Handle {
	return r.create(target, build(Doughnut, d, overrides))
}

func (r *Registry) Bar(target string, d Data, overrides Options) *Handle {
	return r.create(target, build(Bar, d, overrides))
}

func (r *Registry) Line(target string, d Data, overrides Options) *Handle {
	return r.create(target, build(Line, d, overrides))
}

func (r *Registry) Radar(target string, d Data, overrides Options) *Handle {
	return r.create(target, build(Radar, d, overrides))
}

// Get returns the live chart on target.
func (r *Registry) Get(target string) (*Handle, bool) {
	for _, h := range r.handles {
		if h.Target == target {
			return h, true
		}
	}
	return nil, false
}

// Handles lists live charts in creation order.
func (r *Registry) Handles() []*Handle {
	out := make([]*Handle, len(r.handles))
	copy(out, r.handles)
	return out
}

func (r *Registry) create(target string, cfg Config) *Handle {
	if old, ok := r.Get(target); ok {
		old.Destroy()
	}
	h := &Handle{Target: target, Config: cfg, reg: r}
	r.handles = append(r.handles, h)
	return h
}

func (r *Registry) remove(h *Handle) {
	for i, cur := range r.handles {
		if cur == h {
			r.handles = append(r.handles[:i], r.handles[i+1:]...)
			return
		}
	}
}
