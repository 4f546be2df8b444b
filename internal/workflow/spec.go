package workflow

// Spec is the default Definition implementation.
type Spec struct {
	id        string
	name      string
	source    SourceFactory
	processor ProcessorFactory
	sink      SinkFactory
}

var _ Definition = (*Spec)(nil)

// New creates a Spec. A nil processor factory is replaced with Identity.
func New(id, name string, source SourceFactory, processor ProcessorFactory, sink SinkFactory) *Spec {
	if processor == nil {
		processor = Identity
	}
	return &Spec{id: id, name: name, source: source, processor: processor, sink: sink}
}

func (s *Spec) ID() string                         { return s.id }
func (s *Spec) Name() string                       { return s.name }
func (s *Spec) SourceFactory() SourceFactory       { return s.source }
func (s *Spec) ProcessorFactory() ProcessorFactory { return s.processor }
func (s *Spec) SinkFactory() SinkFactory           { return s.sink }
