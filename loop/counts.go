package loop

// Counts reports how many items exist and how many take part in one loop
// cycle.
type Counts interface {
	LogicalCount() int
	ShownCount() int
}

// FullyRealized materializes every item. ShownCount is the configured
// override, or every item when no override is set.
type FullyRealized struct {
	Source Source
	Shown  int
}

func (c FullyRealized) LogicalCount() int {
	if c.Source == nil {
		return 0
	}
	return c.Source.Len()
}

func (c FullyRealized) ShownCount() int {
	n := c.LogicalCount()
	if c.Shown < 1 || c.Shown > n {
		return n
	}
	return c.Shown
}

// Windowed materializes only the realization window. ShownCount is the
// number of slots the window currently holds.
type Windowed struct {
	Source Source
	Window *Window
}

func (c Windowed) LogicalCount() int {
	if c.Source == nil {
		return 0
	}
	return c.Source.Len()
}

func (c Windowed) ShownCount() int {
	if c.Window == nil {
		return 0
	}
	return c.Window.Len()
}

var (
	_ Counts = FullyRealized{}
	_ Counts = Windowed{}
)
