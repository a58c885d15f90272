// Package convert turns fetched HTML into clean markdown.
//
// The pipeline has three stages, each usable on its own:
//
//  1. Strip: remove unwanted elements (scripts, navigation, headers...) with
//     their subtrees. [StructuralStripper] works on the parsed tree; when it
//     fails, [FallbackStripper] hands the original text to
//     [TextualStripper], a lossy regular-expression pass.
//  2. [ToMarkdown]: convert what is left, with ATX or Setext headings.
//  3. [NormalizeWhitespace]: collapse runs of blank lines to one and trim
//     blank lines at both ends.
//
// [Converter.FetchAndConvert] prefixes the pipeline with a page fetch. When
// no strip set is given the seven [DefaultTags] are removed.
package convert
