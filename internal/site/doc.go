// Package site builds the static site.
//
// A build is a fixed sequence of stages (see DefaultPipeline). Each stage
// finishes all of its output before the next one starts; a failing stage
// aborts the rest. The first stage wipes the output directory, so re-running
// a build is always safe.
package site
