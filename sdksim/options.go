package sdksim

// Options configure one simulated network SDK.
type Options struct {
	Dispatcher Dispatcher
	Behavior   *Behavior
}

// WithDefaults fills unset fields: inline callbacks and a network that always fills.
func (o Options) WithDefaults() Options {
	if o.Dispatcher == nil {
		o.Dispatcher = Inline{}
	}
	if o.Behavior == nil {
		o.Behavior = Always(Fill)
	}
	return o
}
