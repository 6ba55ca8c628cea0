// Package process kills the headless browser and every helper process it
// spawned, so a watch session interrupted with Ctrl-C leaves no Chrome
// renderers behind.
package process
