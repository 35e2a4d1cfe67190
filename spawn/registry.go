package spawn

// registry holds the live animation records. Removal is swap-and-pop, so
// each record keeps its slot index.
type registry struct {
	anims []*Animation
}

func (r *registry) add(a *Animation) {
	a.index = len(r.anims)
	r.anims = append(r.anims, a)
}

// remove reports whether a was registered.
func (r *registry) remove(a *Animation) bool {
	if !r.contains(a) {
		return false
	}
	index := a.index
	lastIndex := len(r.anims) - 1
	if index != lastIndex {
		r.anims[index], r.anims[lastIndex] = r.anims[lastIndex], r.anims[index]
		r.anims[index].index = index
	}
	r.anims[lastIndex] = nil
	r.anims = r.anims[:lastIndex]
	a.index = -1
	return true
}

func (r *registry) contains(a *Animation) bool {
	return a.index >= 0 && a.index < len(r.anims) && r.anims[a.index] == a
}

func (r *registry) len() int {
	return len(r.anims)
}

func (r *registry) snapshot() []*Animation {
	return append([]*Animation(nil), r.anims...)
}

// clear empties the registry and returns what it held.
func (r *registry) clear() []*Animation {
	anims := r.anims
	for _, a := range anims {
		a.index = -1
	}
	r.anims = nil
	return anims
}
