// Package completion resolves diskutil completion requests into candidate
// words, and can replay the bash completion function against the resolver
// inside an interpreter.
package completion
