package engine

import (
	"github.com/spf13/cast"

	"fieldmap/internal/action"
	"fieldmap/internal/mapping"
	"fieldmap/internal/session"
)

// copyTo redirects an output to another item when the source field carries
// a CopyTo action. Its index parameter counts from 1, unlike every other
// index, and selects the item of the output's last collection segment.
// The output is cloned so the redirect stays local to this write.
func (c *Context) copyTo(s *session.Session, h *session.Head, src *mapping.Field, outID mapping.FieldID) mapping.FieldID {
	a, ok := src.FindAction(action.CopyToAction)
	if !ok {
		return outID
	}

	out := s.Field(outID)
	where := out.String()

	index, err := cast.ToIntE(a.Parameters["index"])
	if err != nil || index < 1 {
		h.Warnf("copy_to_invalid_index", where, "CopyTo index %v must be a positive integer", a.Parameters["index"])
		return outID
	}

	at, ok := out.Path.LastIndexed()
	if !ok {
		h.Warnf("copy_to_not_collection", where, "CopyTo needs an output with a collection segment")
		return outID
	}

	clone := c.cloneField(s, outID)
	f := s.Field(clone)
	f.Path = f.Path.WithIndexAt(at, index-1)

	return clone
}
