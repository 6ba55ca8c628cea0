// Package pipeline implements the document transformations of a webset run.
//
// Two stages live here:
//   - Markdown to HTML conversion via goldmark, for .md inputs
//   - preview injection: a <style> block after <head> and a page wrapper
//     around the body interior
//
// Tag boundaries are located with the golang.org/x/net/html tokenizer and
// recorded as byte offsets, so every byte of the source outside the two
// insertion points is copied unchanged. PDF rendering is handled by the root
// webset package and always receives the untouched source.
package pipeline
