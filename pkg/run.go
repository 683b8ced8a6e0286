package analyzer

// memo holds a value computed on first use. It does no locking: a Run and
// everything derived from it belongs to a single worker.
type memo[T any] struct {
	done  bool
	value T
}

func (m *memo[T]) get(compute func() T) T {
	if !m.done {
		m.value = compute()
		m.done = true
	}
	return m.value
}

// Run is the analysis context of one run. It must not be shared between
// goroutines.
type Run struct {
	Number  int
	Events  EventStream
	Config  CoincidenceConfig
	Spectra *PulseHeightSpectra

	coincidences memo[[]CoincidenceEvent]
}

func NewRun(number int, events EventStream, config CoincidenceConfig) (*Run, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	run := &Run{
		Number:  number,
		Events:  events,
		Config:  config,
		Spectra: NewPulseHeightSpectra(),
	}
	return run, nil
}

// Coincidences runs the coincidence search once and caches the result. The
// pulse height spectra are filled on that first call.
func (r *Run) Coincidences() []CoincidenceEvent {
	return r.coincidences.get(func() []CoincidenceEvent {
		return FindCoincidences(r.Events, r.Config, r.Spectra)
	})
}

// Counts selects raw events.
func (r *Run) Counts(selection func(Event) bool) []Event {
	return r.Events.Select(selection)
}

// CoincidenceCounts selects the anchors of the coincidences.
func (r *Run) CoincidenceCounts(selection func(Event) bool) []Event {
	selected := make([]Event, 0)
	for _, anchor := range Anchors(r.Coincidences()) {
		if selection(anchor) {
			selected = append(selected, anchor)
		}
	}
	return selected
}

// WithConfig returns a new context over the same events, with its own
// coincidence cache and spectra.
func (r *Run) WithConfig(config CoincidenceConfig) (*Run, error) {
	return NewRun(r.Number, r.Events, config)
}
