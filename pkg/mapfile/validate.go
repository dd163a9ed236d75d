package mapfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/kknero/neromind/pkg/errors"
)

// Parse decodes and validates a document. It checks, in order: the
// signature, that schemaVersion is an integer no newer than
// [SchemaVersion], and the structure checked by [Document.Validate].
func Parse(data []byte) (*Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode map document")
	}

	var meta map[string]json.RawMessage
	_ = json.Unmarshal(top["meta"], &meta)

	var sig string
	if err := json.Unmarshal(meta["createdWith"], &sig); err != nil || sig != Signature {
		return nil, errors.New(errors.ErrCodeInvalidSignature, "not a %s file", Signature)
	}
	version, err := parseVersion(meta["schemaVersion"])
	if err != nil {
		return nil, err
	}
	if version > SchemaVersion {
		return nil, unsupported(version)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode map document")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func parseVersion(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	v, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidFormat, "invalid schemaVersion %s (must be an integer)", describe(raw))
	}
	return v, nil
}

func describe(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "(missing)"
	}
	return string(raw)
}

func unsupported(version int) error {
	return errors.New(errors.ErrCodeUnsupportedVersion, "incompatible schema version: %d (current: %d)", version, SchemaVersion)
}

// Validate checks a decoded document. It never repairs anything.
func (d *Document) Validate() error {
	if d.Meta.CreatedWith != Signature {
		return errors.New(errors.ErrCodeInvalidSignature, "not a %s file", Signature)
	}
	if d.Meta.SchemaVersion > SchemaVersion {
		return unsupported(d.Meta.SchemaVersion)
	}
	if d.RootNodeID == "" {
		return errors.New(errors.ErrCodeMissingRoot, "missing root node")
	}
	if d.Nodes == nil {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid nodes structure")
	}
	if d.Edges == nil {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid edges structure")
	}
	if _, ok := d.Nodes[d.RootNodeID]; !ok {
		return errors.New(errors.ErrCodeMissingRoot, "root node %q does not exist in nodes", d.RootNodeID)
	}
	return nil
}

// =============================================================================
// Sanitation
// =============================================================================

// Warning describes one repair made by [Sanitize].
type Warning struct {
	EdgeID     string
	FromNodeID string
	ToNodeID   string
	FromExists bool
	ToExists   bool
}

func (w Warning) String() string {
	return fmt.Sprintf("invalid edge removed: %s (%s exists=%t, %s exists=%t)",
		w.EdgeID, w.FromNodeID, w.FromExists, w.ToNodeID, w.ToExists)
}

// Sanitize returns a copy of d without edges that reference missing nodes,
// plus one warning per dropped edge in edge id order. Nothing else changes.
func Sanitize(d *Document) (*Document, []Warning) {
	out := *d
	out.Edges = make(map[string]EdgeRecord, len(d.Edges))

	var warnings []Warning
	for _, id := range sortedKeys(d.Edges) {
		e := d.Edges[id]
		_, from := d.Nodes[e.FromNodeID]
		_, to := d.Nodes[e.ToNodeID]
		if from && to {
			out.Edges[id] = e
			continue
		}
		warnings = append(warnings, Warning{
			EdgeID:     id,
			FromNodeID: e.FromNodeID,
			ToNodeID:   e.ToNodeID,
			FromExists: from,
			ToExists:   to,
		})
	}
	return &out, warnings
}
