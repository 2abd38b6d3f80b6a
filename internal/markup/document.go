package markup

import "fmt"

// Section is one heading plus the blocks beneath it, in source order.
type Section struct {
	Heading *Heading
	Blocks  []Block
}

// Document is the assembled parse result: an optional Header, ordered
// Sections, and the list of files spliced in by inclusion. Built once per
// conversion run and read-only to renderers.
type Document struct {
	Header   *Header
	Sections []*Section
	Includes []string
}

// append routes one classified block into the model. Body blocks attach to
// the most recently opened Section only; a body block with no preceding
// heading is a structural error, not a silent drop.
func (d *Document) append(b Block) error {
	switch v := b.(type) {
	case *headerChunk:
		if d.Header == nil {
			d.Header = &Header{}
		}
		d.Header.merge(v.fields)
	case *Heading:
		d.Sections = append(d.Sections, &Section{Heading: v})
	default:
		if len(d.Sections) == 0 {
			return fmt.Errorf("%w: %s %q", ErrNoSection, b.Kind(), truncate(b.Raw(), 40))
		}
		last := d.Sections[len(d.Sections)-1]
		last.Blocks = append(last.Blocks, b)
	}
	return nil
}
