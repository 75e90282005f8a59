package content

// Registry is the loaded, queryable form of a Bundle: element properties
// indexed by id, a dense reaction lookup table, and the authoring
// key<->id maps (spec.md §4.1).
type Registry struct {
	elements   []Element // indexed by id; len == elementCount
	reactions  []*Reaction // 256*256, indexed by (aggressor<<8)|victim
	keyToID    map[string]uint8
	manifest   []Element // copy retained for get_content_manifest_json
}

// Load validates and indexes a bundle into a Registry. On failure it
// returns a *LoadError and the caller's existing registry is untouched;
// per spec.md §7 the host is responsible for reverting the world to a
// known-good state when this happens.
func Load(b *Bundle) (*Registry, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	maxID := uint8(0)
	for _, el := range b.Elements {
		if el.ID > maxID {
			maxID = el.ID
		}
	}

	reg := &Registry{
		elements:  make([]Element, int(maxID)+1),
		reactions: make([]*Reaction, 256*256),
		keyToID:   make(map[string]uint8, len(b.Elements)),
		manifest:  append([]Element(nil), b.Elements...),
	}
	for _, el := range b.Elements {
		reg.elements[el.ID] = el
		if el.Key != "" {
			reg.keyToID[el.Key] = el.ID
		}
	}
	if len(b.ElementKeyToID) > 0 {
		for k, id := range b.ElementKeyToID {
			reg.keyToID[k] = id
		}
	}

	for i := range b.Reactions {
		r := b.Reactions[i]
		key := int(r.AggressorID)<<8 | int(r.VictimID)
		reg.reactions[key] = &b.Reactions[i]
	}

	return reg, nil
}

// ElementCount returns the number of distinct ids the registry holds
// properties for (including empty and any gaps up to the max id seen).
func (r *Registry) ElementCount() int { return len(r.elements) }

// IsValidElementID reports whether id lies inside the registry's id
// range (0 up to the highest loaded id); an id in a gap between loaded
// elements also reports true.
func (r *Registry) IsValidElementID(id uint8) bool {
	return int(id) < len(r.elements)
}

// Props returns the static properties for id. Out-of-range ids return
// the zero Element and ok=false; callers at step time treat this as the
// "clear the cell" defensive path of spec.md §7.
func (r *Registry) Props(id uint8) (Element, bool) {
	if int(id) >= len(r.elements) {
		return Element{}, false
	}
	return r.elements[id], true
}

// IDForKey resolves an authoring "pack:name" key to an element id.
func (r *Registry) IDForKey(key string) (uint8, bool) {
	id, ok := r.keyToID[key]
	return id, ok
}

// Reaction looks up the bilateral reaction for an (aggressor, victim)
// ordered pair. Returns nil if no reaction is registered.
func (r *Registry) Reaction(aggressor, victim uint8) *Reaction {
	return r.reactions[int(aggressor)<<8|int(victim)]
}

// PhaseChange checks whether temperature t triggers a phase transition
// for id, returning the new element id and true if so (spec.md §4.1).
func (r *Registry) PhaseChange(id uint8, t float32) (uint8, bool) {
	el, ok := r.Props(id)
	if !ok || el.PhaseChange == nil {
		return 0, false
	}
	pc := el.PhaseChange
	if pc.High != nil && t > pc.High.Temp {
		return pc.High.ToID, true
	}
	if pc.Low != nil && t < pc.Low.Temp {
		return pc.Low.ToID, true
	}
	return 0, false
}

// Manifest returns the element list as loaded, for
// get_content_manifest_json.
func (r *Registry) Manifest() []Element {
	return append([]Element(nil), r.manifest...)
}
