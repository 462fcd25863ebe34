package states

// Events receives gameplay moments, for sound and logging.
type Events interface {
	Hit(collisions int)
	GameOver()
	Grabbed()
}

// NopEvents ignores every event.
type NopEvents struct{}

func (NopEvents) Hit(int)   {}
func (NopEvents) GameOver() {}
func (NopEvents) Grabbed()  {}
