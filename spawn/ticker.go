package spawn

// tickerStack lays captions out bottom-up, newest at the bottom.
type tickerStack struct {
	items   []Caption
	bottom  float64
	spacing float64
}

func (t *tickerStack) push(c Caption) {
	t.items = append([]Caption{c}, t.items...)
	t.layout()
}

func (t *tickerStack) remove(c Caption) {
	for i, it := range t.items {
		if it == c {
			t.items = append(t.items[:i], t.items[i+1:]...)
			t.layout()
			return
		}
	}
}

func (t *tickerStack) layout() {
	bottom := t.bottom
	for _, c := range t.items {
		c.SetBottom(bottom)
		bottom += c.Height() + t.spacing
	}
}

func (t *tickerStack) len() int {
	return len(t.items)
}
