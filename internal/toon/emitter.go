package toon

// Emitter accumulates the ordered output sequence for one traversal.
// Append is the only mutation path: one line per recognized declaration,
// in source order, with the item counter incremented alongside.
type Emitter struct {
	lines []string
	items int
}

// NewEmitter creates an empty emitter.
func NewEmitter() *Emitter {
	return &Emitter{lines: []string{}}
}

// Append adds one line and counts it as an emitted declaration.
func (e *Emitter) Append(line string) {
	e.lines = append(e.lines, line)
	e.items++
}

// Lines returns the emitted lines in source order.
func (e *Emitter) Lines() []string {
	return e.lines
}

// Count returns the number of emitted declarations. It always equals
// len(Lines()).
func (e *Emitter) Count() int {
	return e.items
}
