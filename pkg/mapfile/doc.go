// Package mapfile reads and writes .kknm mind-map documents.
//
// # Format
//
// A document is a JSON object with a meta header, node and edge objects
// keyed by id, the root id and an optional view hint:
//
//	{
//	  "meta": {
//	    "createdWith": "KK-NeroMind",
//	    "schemaVersion": 1,
//	    "pluginVersion": "v0.3.0",
//	    "createdAt": 1714550400000,
//	    "updatedAt": 1714550400000
//	  },
//	  "nodes": {
//	    "root": {"id": "root", "content": "Ideas", "position": {"x": 400, "y": 300},
//	             "userPosition": false, "parentId": null, "childIds": [], ...}
//	  },
//	  "edges": {},
//	  "rootNodeId": "root",
//	  "view": {"zoom": 1, "pan": {"x": 0, "y": 0}, "selectedNodeId": null}
//	}
//
// Timestamps are Unix milliseconds. Nullable fields (parentId, direction,
// linkedNotePath, selectedNodeId) are JSON null when absent.
//
// # Validation
//
// [Parse] rejects a document outright when the signature is not
// KK-NeroMind, when schemaVersion is not an integer or is newer than
// [SchemaVersion], when the root is missing, or when nodes or edges are not
// objects. Validation never fills in or guesses missing data.
//
// # Sanitation
//
// [Sanitize] performs the one repair the format allows: edges whose
// endpoints do not exist are dropped, each with a [Warning].
//
// # Import and Export
//
// [Read] and [Import] decode, validate and sanitize. [Write] and [Export]
// encode with two-space indentation. [Load] populates a state store from a
// document; [FromSnapshot] builds a document from a store snapshot.
package mapfile
