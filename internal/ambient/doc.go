// Package ambient provides the prompt facets that are a single lookup of
// the process environment: wall clock, working directory, battery and
// system load. Every facet is best-effort and degrades to no segment.
package ambient
