// Package repoctx resolves the repository context shown in the prompt: the
// branch or commit identity of HEAD, the aggregate working tree status, any
// in-progress multi-step operation, and toolchain hints for the working tree.
//
// Every facet degrades silently. Once a repository has been found the branch
// facet is always present, falling back to the "(unknown)" sentinel; all
// other facets are simply omitted when they carry no information.
package repoctx
