// Package generator turns configuration into a generated site.
//
// A run loads its inputs once (entity index, manual catalog, templates,
// highlighter), then hands them to one backend per requested target. Backends
// form a closed set selected explicitly by target and configuration:
//
//	html    darkfish API pages (one per class and file, plus index.html)
//	json    machine-readable API index (index.json)
//	manual  manual pages rendered from .page sources
//
// Backends never touch the disk; they pass rendered pages to an Output,
// which applies the page-error policy and writes through the emitter.
package generator
