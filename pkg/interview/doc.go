// Package interview prompts for document fields that a request left out.
// The default driver uses survey on the terminal; tests supply their own
// PromptDriver.
package interview
